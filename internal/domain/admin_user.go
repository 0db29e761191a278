package domain

import "time"

// AdminRole enumerates staff access levels.
type AdminRole string

const (
	AdminRoleAdmin   AdminRole = "admin"
	AdminRoleManager AdminRole = "manager"
	AdminRoleAgent   AdminRole = "agent"
)

// AdminUser is a staff account able to triage tickets.
type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        *string
	Role         AdminRole
	IsActive     bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}
