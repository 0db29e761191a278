package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "Pending"
	TicketStatusInReview TicketStatus = "In Review"
	TicketStatusResolved TicketStatus = "Resolved"
)

// ParseStatus validates a status label. Any recognized label is a legal
// transition target regardless of the current state; label membership is
// the only rule the workflow enforces.
func ParseStatus(label string) (TicketStatus, bool) {
	switch TicketStatus(label) {
	case TicketStatusPending, TicketStatusInReview, TicketStatusResolved:
		return TicketStatus(label), true
	}
	return "", false
}

// TicketType enumerates submission categories.
type TicketType string

const (
	TicketTypeFeedback   TicketType = "feedback"
	TicketTypeComplaint  TicketType = "complaint"
	TicketTypeSuggestion TicketType = "suggestion"
	TicketTypePraise     TicketType = "praise"
	TicketTypeBug        TicketType = "bug"
)

// ParseType validates a submission type label.
func ParseType(label string) (TicketType, bool) {
	switch TicketType(label) {
	case TicketTypeFeedback, TicketTypeComplaint, TicketTypeSuggestion, TicketTypePraise, TicketTypeBug:
		return TicketType(label), true
	}
	return "", false
}

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// ParsePriority validates a priority label.
func ParsePriority(label string) (TicketPriority, bool) {
	switch TicketPriority(label) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return TicketPriority(label), true
	}
	return "", false
}

// ValidRating reports whether a rating value is inside the 1..5 scale.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// Ticket is the aggregate for customer submissions. ResolvedAt is non-nil
// exactly when Status is Resolved.
type Ticket struct {
	ID              int64
	Name            string
	Email           string
	Product         string
	Rating          *int
	Type            TicketType
	Message         string
	Status          TicketStatus
	Priority        TicketPriority
	AssignedTo      *string
	ResolutionNotes *string
	Tags            []string
	Company         *string
	Phone           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
}

// NormalizeTag lower-cases and trims a tag name; tags are stored in this
// canonical form only.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
