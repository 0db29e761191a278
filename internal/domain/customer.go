package domain

import "time"

// Customer is the per-email rollup maintained as a side effect of ticket
// creation. TotalTickets equals the number of tickets ever created for the
// email; it is never decremented in normal operation.
type Customer struct {
	ID              int64
	Name            string
	Email           string
	Phone           *string
	Company         *string
	TotalTickets    int
	CreatedAt       time.Time
	LastInteraction *time.Time
}
