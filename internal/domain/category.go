package domain

import "time"

// Category is static reference data used by the dashboard for grouping.
type Category struct {
	ID          int64
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
}
