package domain

import "time"

// Audit field names recorded in ticket_history.
const (
	FieldCreated    = "created"
	FieldStatus     = "status"
	FieldAssignedTo = "assigned_to"
)

// TicketHistory is an immutable audit trail entry. Rows are appended on
// every create/update and never edited afterwards.
type TicketHistory struct {
	ID           int64
	TicketID     int64
	FieldChanged string
	OldValue     *string
	NewValue     string
	ChangedBy    string
	ChangedAt    time.Time
}
