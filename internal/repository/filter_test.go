package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/feedback-portal/internal/domain"
)

func TestWhereClauseEmptyFilter(t *testing.T) {
	where, args := TicketFilter{}.whereClause("t.", 1)
	if where != "" {
		t.Errorf("empty filter produced clause %q", where)
	}
	if len(args) != 0 {
		t.Errorf("empty filter produced args %v", args)
	}
}

func TestWhereClauseSinglePredicate(t *testing.T) {
	status := domain.TicketStatusPending
	where, args := TicketFilter{Status: &status}.whereClause("t.", 1)
	if where != " WHERE t.status = $1" {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 1 || args[0] != status {
		t.Errorf("unexpected args %v", args)
	}
}

func TestWhereClauseConjunction(t *testing.T) {
	status := domain.TicketStatusPending
	ticketType := domain.TicketTypeBug
	ratingMin, ratingMax := 2, 4
	where, args := TicketFilter{
		Status:    &status,
		Type:      &ticketType,
		RatingMin: &ratingMin,
		RatingMax: &ratingMax,
	}.whereClause("t.", 1)

	want := " WHERE t.status = $1 AND t.type = $2 AND t.rating >= $3 AND t.rating <= $4"
	if where != want {
		t.Errorf("clause = %q, want %q", where, want)
	}
	if len(args) != 4 {
		t.Fatalf("args = %v, want 4 values", args)
	}
	if args[2] != ratingMin || args[3] != ratingMax {
		t.Errorf("rating bounds bound to wrong placeholders: %v", args)
	}
}

func TestWhereClauseSearchReusesPlaceholder(t *testing.T) {
	search := "login bug"
	where, args := TicketFilter{Search: &search}.whereClause("t.", 1)

	if strings.Count(where, "$1") != 4 {
		t.Errorf("search clause should bind all four columns to one placeholder: %q", where)
	}
	for _, column := range []string{"t.name", "t.email", "t.message", "t.product"} {
		if !strings.Contains(where, column+" ILIKE $1") {
			t.Errorf("search clause missing column %s: %q", column, where)
		}
	}
	if len(args) != 1 || args[0] != "%login bug%" {
		t.Errorf("unexpected search args %v", args)
	}
}

func TestWhereClauseSkipsBlankSearch(t *testing.T) {
	search := "   "
	where, _ := TicketFilter{Search: &search}.whereClause("t.", 1)
	if where != "" {
		t.Errorf("blank search should be ignored, got %q", where)
	}
}

func TestWhereClauseStartIndex(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	where, args := TicketFilter{CreatedFrom: &from, CreatedTo: &to}.whereClause("", 3)

	want := " WHERE created_at >= $3 AND created_at <= $4"
	if where != want {
		t.Errorf("clause = %q, want %q", where, want)
	}
	if len(args) != 2 || args[0] != from || args[1] != to {
		t.Errorf("unexpected args %v", args)
	}
}

func TestPaginationClause(t *testing.T) {
	clause, args := paginationClause(1, 0, 10)
	if clause != "" || args != nil {
		t.Errorf("offset without limit produced %q %v", clause, args)
	}

	clause, args = paginationClause(1, 20, 0)
	if clause != " LIMIT $1" || len(args) != 1 || args[0] != 20 {
		t.Errorf("limit-only produced %q %v", clause, args)
	}

	// Placeholders continue the filter's numbering; values stay bound,
	// never interpolated.
	clause, args = paginationClause(3, 20, 40)
	if clause != " LIMIT $3 OFFSET $4" {
		t.Errorf("clause = %q, want \" LIMIT $3 OFFSET $4\"", clause)
	}
	if len(args) != 2 || args[0] != 20 || args[1] != 40 {
		t.Errorf("args = %v, want [20 40]", args)
	}
}

func TestStatsWindowClause(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cond, args := StatsWindow{}.clause(1)
	if cond != "" || len(args) != 0 {
		t.Errorf("open window produced %q %v", cond, args)
	}

	cond, args = StatsWindow{From: &from}.clause(1)
	if cond != "created_at >= $1" || len(args) != 1 {
		t.Errorf("from-only window produced %q %v", cond, args)
	}

	to := from.AddDate(0, 1, 0)
	cond, args = StatsWindow{From: &from, To: &to}.clause(1)
	if cond != "created_at >= $1 AND created_at <= $2" || len(args) != 2 {
		t.Errorf("bounded window produced %q %v", cond, args)
	}
}
