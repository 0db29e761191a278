package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/feedback-portal/internal/domain"
)

// TicketFilter captures the optional predicates of a ticket query. Nil
// fields are skipped; set fields are ANDed together.
type TicketFilter struct {
	Status      *domain.TicketStatus
	Type        *domain.TicketType
	Priority    *domain.TicketPriority
	AssignedTo  *string
	Search      *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	RatingMin   *int
	RatingMax   *int
}

// whereClause folds the filter into a parameterized WHERE fragment.
// Placeholders are numbered from startIndex; values are never
// interpolated into the query text. Returns an empty string when no
// predicate is set. alias prefixes column references ("t." or "").
func (f TicketFilter) whereClause(alias string, startIndex int) (string, []any) {
	clauses := []string{}
	args := []any{}

	next := func() string {
		return fmt.Sprintf("$%d", startIndex+len(args))
	}

	if f.Status != nil {
		clauses = append(clauses, fmt.Sprintf("%sstatus = %s", alias, next()))
		args = append(args, *f.Status)
	}
	if f.Type != nil {
		clauses = append(clauses, fmt.Sprintf("%stype = %s", alias, next()))
		args = append(args, *f.Type)
	}
	if f.Priority != nil {
		clauses = append(clauses, fmt.Sprintf("%spriority = %s", alias, next()))
		args = append(args, *f.Priority)
	}
	if f.AssignedTo != nil {
		clauses = append(clauses, fmt.Sprintf("%sassigned_to = %s", alias, next()))
		args = append(args, *f.AssignedTo)
	}
	if f.Search != nil && strings.TrimSpace(*f.Search) != "" {
		placeholder := next()
		clauses = append(clauses, fmt.Sprintf(
			"(%[1]sname ILIKE %[2]s OR %[1]semail ILIKE %[2]s OR %[1]smessage ILIKE %[2]s OR %[1]sproduct ILIKE %[2]s)",
			alias, placeholder))
		args = append(args, "%"+strings.TrimSpace(*f.Search)+"%")
	}
	if f.CreatedFrom != nil {
		clauses = append(clauses, fmt.Sprintf("%screated_at >= %s", alias, next()))
		args = append(args, *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		clauses = append(clauses, fmt.Sprintf("%screated_at <= %s", alias, next()))
		args = append(args, *f.CreatedTo)
	}
	if f.RatingMin != nil {
		clauses = append(clauses, fmt.Sprintf("%srating >= %s", alias, next()))
		args = append(args, *f.RatingMin)
	}
	if f.RatingMax != nil {
		clauses = append(clauses, fmt.Sprintf("%srating <= %s", alias, next()))
		args = append(args, *f.RatingMax)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// paginationClause emits LIMIT/OFFSET as positional parameters numbered
// from startIndex. A non-positive limit disables pagination; an offset
// without a limit is ignored.
func paginationClause(startIndex, limit, offset int) (string, []any) {
	if limit <= 0 {
		return "", nil
	}
	clause := fmt.Sprintf(" LIMIT $%d", startIndex)
	args := []any{limit}
	if offset > 0 {
		clause += fmt.Sprintf(" OFFSET $%d", startIndex+1)
		args = append(args, offset)
	}
	return clause, args
}
