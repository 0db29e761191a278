package dto

import (
	"time"

	"github.com/spec-kit/feedback-portal/internal/domain"
)

// SubmitTicketRequest is the public submission payload.
type SubmitTicketRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Product  string `json:"product"`
	Rating   *int   `json:"rating"`
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority,omitempty"`
}

// SubmitTicketResponse acknowledges a submission.
type SubmitTicketResponse struct {
	TicketID int64  `json:"ticket_id"`
	Message  string `json:"message"`
}

// TicketResponse is the full admin projection.
type TicketResponse struct {
	TicketID        int64                 `json:"ticket_id"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Product         string                `json:"product"`
	Rating          *int                  `json:"rating"`
	Type            domain.TicketType     `json:"type"`
	Message         string                `json:"message"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	AssignedTo      *string               `json:"assigned_to"`
	ResolutionNotes *string               `json:"resolution_notes"`
	Tags            []string              `json:"tags"`
	Company         *string               `json:"company"`
	Phone           *string               `json:"phone"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	ResolvedAt      *time.Time            `json:"resolved_at"`
}

// TrackTicketResponse is the reduced public projection.
type TrackTicketResponse struct {
	TicketID  int64               `json:"ticket_id"`
	Name      string              `json:"name"`
	Product   string              `json:"product"`
	Rating    *int                `json:"rating"`
	Type      domain.TicketType   `json:"type"`
	Status    domain.TicketStatus `json:"status"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"created_at"`
}

// ListTicketsResponse carries a page of tickets plus the unpaginated
// total for count display.
type ListTicketsResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	TotalCount int              `json:"total_count"`
}

// UpdateStatusRequest is the triage payload.
type UpdateStatusRequest struct {
	Status          string  `json:"status"`
	AssignedTo      *string `json:"assigned_to,omitempty"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}

// AddTagRequest names a tag to attach.
type AddTagRequest struct {
	Tag string `json:"tag"`
}

// TagResponse reports the idempotent tag outcome.
type TagResponse struct {
	Changed bool `json:"changed"`
}

// HistoryEntryResponse is one audit row.
type HistoryEntryResponse struct {
	HistoryID    int64     `json:"history_id"`
	FieldChanged string    `json:"field_changed"`
	OldValue     *string   `json:"old_value"`
	NewValue     string    `json:"new_value"`
	ChangedBy    string    `json:"changed_by"`
	ChangedAt    time.Time `json:"changed_at"`
}

// TicketFromDomain maps a domain ticket to its admin projection.
func TicketFromDomain(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:        ticket.ID,
		Name:            ticket.Name,
		Email:           ticket.Email,
		Product:         ticket.Product,
		Rating:          ticket.Rating,
		Type:            ticket.Type,
		Message:         ticket.Message,
		Status:          ticket.Status,
		Priority:        ticket.Priority,
		AssignedTo:      ticket.AssignedTo,
		ResolutionNotes: ticket.ResolutionNotes,
		Tags:            ticket.Tags,
		Company:         ticket.Company,
		Phone:           ticket.Phone,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ResolvedAt:      ticket.ResolvedAt,
	}
}

// TrackFromDomain maps a domain ticket to its public projection.
func TrackFromDomain(ticket *domain.Ticket) TrackTicketResponse {
	return TrackTicketResponse{
		TicketID:  ticket.ID,
		Name:      ticket.Name,
		Product:   ticket.Product,
		Rating:    ticket.Rating,
		Type:      ticket.Type,
		Status:    ticket.Status,
		Message:   ticket.Message,
		CreatedAt: ticket.CreatedAt,
	}
}

// HistoryFromDomain maps audit rows.
func HistoryFromDomain(entries []domain.TicketHistory) []HistoryEntryResponse {
	result := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, HistoryEntryResponse{
			HistoryID:    entry.ID,
			FieldChanged: entry.FieldChanged,
			OldValue:     entry.OldValue,
			NewValue:     entry.NewValue,
			ChangedBy:    entry.ChangedBy,
			ChangedAt:    entry.ChangedAt,
		})
	}
	return result
}
