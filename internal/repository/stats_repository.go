package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/persistence"
)

// StatsWindow bounds aggregation by creation date. Nil bounds are open.
type StatsWindow struct {
	From *time.Time
	To   *time.Time
}

func (w StatsWindow) clause(startIndex int) (string, []any) {
	clauses := []string{}
	args := []any{}
	if w.From != nil {
		args = append(args, *w.From)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", startIndex+len(args)-1))
	}
	if w.To != nil {
		args = append(args, *w.To)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", startIndex+len(args)-1))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return strings.Join(clauses, " AND "), args
}

// StatsRepository runs the read-only dashboard aggregations.
type StatsRepository interface {
	Collect(ctx context.Context, window StatsWindow) (*domain.Statistics, error)
}

type statsRepository struct {
	store *persistence.Postgres
}

// NewStatsRepository instantiates the repository.
func NewStatsRepository(store *persistence.Postgres) StatsRepository {
	return &statsRepository{store: store}
}

func (r *statsRepository) Collect(ctx context.Context, window StatsWindow) (*domain.Statistics, error) {
	stats := &domain.Statistics{
		StatusBreakdown:    map[domain.TicketStatus]int{},
		TypeBreakdown:      map[domain.TicketType]int{},
		PriorityBreakdown:  map[domain.TicketPriority]int{},
		RatingDistribution: map[int]int{},
		TopCustomers:       []domain.CustomerCount{},
		PopularProducts:    []domain.ProductCount{},
		DailyTickets:       []domain.DailyCount{},
	}

	cond, args := window.clause(1)
	where := ""
	if cond != "" {
		where = " WHERE " + cond
	}
	// Rating aggregates additionally exclude null ratings.
	ratedWhere := " WHERE rating IS NOT NULL"
	if cond != "" {
		ratedWhere += " AND " + cond
	}

	if err := r.store.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM tickets"+where, args...).Scan(&stats.TotalTickets); err != nil {
		return nil, err
	}

	if err := groupCount(ctx, r.store, "status", where, args, func(label string, count int) {
		stats.StatusBreakdown[domain.TicketStatus(label)] = count
	}); err != nil {
		return nil, err
	}
	if err := groupCount(ctx, r.store, "type", where, args, func(label string, count int) {
		stats.TypeBreakdown[domain.TicketType(label)] = count
	}); err != nil {
		return nil, err
	}
	if err := groupCount(ctx, r.store, "priority", where, args, func(label string, count int) {
		stats.PriorityBreakdown[domain.TicketPriority(label)] = count
	}); err != nil {
		return nil, err
	}

	// 0, not NULL, when no rated tickets exist.
	avgQuery := "SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0) FROM tickets" + ratedWhere
	if err := r.store.Pool.QueryRow(ctx, avgQuery, args...).Scan(&stats.AverageRating); err != nil {
		return nil, err
	}

	distQuery := "SELECT rating, COUNT(*) FROM tickets" + ratedWhere + " GROUP BY rating ORDER BY rating"
	rows, err := r.store.Pool.Query(ctx, distQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		stats.RatingDistribution[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Tie order among equal counts follows store ordering.
	customersQuery := `SELECT email, name, COUNT(*) AS ticket_count FROM tickets` + where + `
        GROUP BY email, name ORDER BY ticket_count DESC LIMIT 10`
	custRows, err := r.store.Pool.Query(ctx, customersQuery, args...)
	if err != nil {
		return nil, err
	}
	defer custRows.Close()
	for custRows.Next() {
		var entry domain.CustomerCount
		if err := custRows.Scan(&entry.Email, &entry.Name, &entry.Count); err != nil {
			return nil, err
		}
		stats.TopCustomers = append(stats.TopCustomers, entry)
	}
	if err := custRows.Err(); err != nil {
		return nil, err
	}

	productsQuery := `SELECT product, COUNT(*) AS count FROM tickets` + where + `
        GROUP BY product ORDER BY count DESC LIMIT 10`
	prodRows, err := r.store.Pool.Query(ctx, productsQuery, args...)
	if err != nil {
		return nil, err
	}
	defer prodRows.Close()
	for prodRows.Next() {
		var entry domain.ProductCount
		if err := prodRows.Scan(&entry.Product, &entry.Count); err != nil {
			return nil, err
		}
		stats.PopularProducts = append(stats.PopularProducts, entry)
	}
	if err := prodRows.Err(); err != nil {
		return nil, err
	}

	// Always the trailing 30 days, independent of the window filter.
	const dailyQuery = `
        SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS date, COUNT(*) AS count
        FROM tickets
        WHERE created_at >= NOW() - INTERVAL '30 days'
        GROUP BY created_at::date
        ORDER BY date`
	dailyRows, err := r.store.Pool.Query(ctx, dailyQuery)
	if err != nil {
		return nil, err
	}
	defer dailyRows.Close()
	for dailyRows.Next() {
		var entry domain.DailyCount
		if err := dailyRows.Scan(&entry.Date, &entry.Count); err != nil {
			return nil, err
		}
		stats.DailyTickets = append(stats.DailyTickets, entry)
	}
	if err := dailyRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func groupCount(ctx context.Context, store *persistence.Postgres, column, where string, args []any, collect func(label string, count int)) error {
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM tickets%s GROUP BY %s", column, where, column)
	rows, err := store.Pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return err
		}
		collect(label, count)
	}
	return rows.Err()
}
