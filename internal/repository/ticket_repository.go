package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/persistence"
	"github.com/spec-kit/feedback-portal/pkg/util"
)

// CreateTicketInput carries the validated fields of a new submission.
type CreateTicketInput struct {
	Name     string
	Email    string
	Product  string
	Rating   *int
	Type     domain.TicketType
	Message  string
	Priority domain.TicketPriority
}

// StatusChange describes a status-affecting update. AssignedTo and
// ResolutionNotes are applied only when supplied.
type StatusChange struct {
	Status          domain.TicketStatus
	AssignedTo      *string
	ResolutionNotes *string
	ChangedBy       string
}

// SweepResult reports rows removed by a retention sweep.
type SweepResult struct {
	TicketsDeleted int64
	HistoryDeleted int64
	TagsDeleted    int64
}

// TicketRepository encapsulates ticket persistence. Every multi-statement
// operation runs inside one transaction.
type TicketRepository interface {
	Create(ctx context.Context, input CreateTicketInput) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter, limit, offset int) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int, error)
	UpdateStatus(ctx context.Context, id int64, change StatusChange) error
	AddTag(ctx context.Context, id int64, name string) (bool, error)
	RemoveTag(ctx context.Context, id int64, name string) (bool, error)
	GetHistory(ctx context.Context, id int64) ([]domain.TicketHistory, error)
	Sweep(ctx context.Context, cutoff time.Time) (SweepResult, error)
}

type ticketRepository struct {
	store *persistence.Postgres
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(store *persistence.Postgres) TicketRepository {
	return &ticketRepository{store: store}
}

// Create inserts the ticket, bumps the customer rollup and appends the
// creation audit row in a single transaction: a failure of any statement
// leaves no trace of the submission.
func (r *ticketRepository) Create(ctx context.Context, input CreateTicketInput) (int64, error) {
	var ticketID int64
	err := r.store.WithTx(ctx, func(tx pgx.Tx) error {
		const insertTicket = `
        INSERT INTO tickets (name, email, product, rating, type, message, priority)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING ticket_id`
		if err := tx.QueryRow(ctx, insertTicket,
			input.Name,
			input.Email,
			input.Product,
			input.Rating,
			input.Type,
			input.Message,
			input.Priority,
		).Scan(&ticketID); err != nil {
			return err
		}

		// Atomic read-modify-write: concurrent creates for the same email
		// both land their increment.
		const upsertCustomer = `
        INSERT INTO customers (name, email, total_tickets, last_interaction)
        VALUES ($1,$2,1,NOW())
        ON CONFLICT (email) DO UPDATE
        SET name = EXCLUDED.name,
            total_tickets = customers.total_tickets + 1,
            last_interaction = NOW()`
		if _, err := tx.Exec(ctx, upsertCustomer, input.Name, input.Email); err != nil {
			return err
		}

		const insertHistory = `
        INSERT INTO ticket_history (ticket_id, field_changed, new_value, changed_by)
        VALUES ($1,$2,$3,$4)`
		_, err := tx.Exec(ctx, insertHistory, ticketID, domain.FieldCreated, "New ticket created", "system")
		return err
	})
	if err != nil {
		return 0, err
	}
	return ticketID, nil
}

const ticketColumns = `
        t.ticket_id, t.name, t.email, t.product, t.rating, t.type, t.message,
        t.status, t.priority, t.assigned_to, t.resolution_notes,
        t.created_at, t.updated_at, t.resolved_at,
        c.company, c.phone,
        COALESCE((SELECT array_agg(DISTINCT tt.tag_name ORDER BY tt.tag_name)
                  FROM ticket_tags tt WHERE tt.ticket_id = t.ticket_id), '{}') AS tags`

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM tickets t
        LEFT JOIN customers c ON c.email = t.email
        WHERE t.ticket_id = $1`, ticketColumns)

	ticket, err := scanTicket(r.store.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter, limit, offset int) ([]domain.Ticket, error) {
	where, args := filter.whereClause("t.", 1)
	query := fmt.Sprintf(`SELECT %s
        FROM tickets t
        LEFT JOIN customers c ON c.email = t.email%s
        ORDER BY t.created_at DESC`, ticketColumns, where)

	page, pageArgs := paginationClause(len(args)+1, limit, offset)
	query += page
	args = append(args, pageArgs...)

	rows, err := r.store.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int, error) {
	where, args := filter.whereClause("t.", 1)
	query := "SELECT COUNT(*) FROM tickets t" + where

	var count int
	if err := r.store.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatus applies a validated status transition: status, timestamps
// and optional assignment/notes move together with their audit rows in one
// transaction. The resolved_at stamp is refreshed on every entry into
// Resolved and cleared on leaving it.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, change StatusChange) error {
	return r.store.WithTx(ctx, func(tx pgx.Tx) error {
		var (
			oldStatus   domain.TicketStatus
			oldAssigned *string
		)
		const current = `SELECT status, assigned_to FROM tickets WHERE ticket_id = $1 FOR UPDATE`
		if err := tx.QueryRow(ctx, current, id).Scan(&oldStatus, &oldAssigned); err != nil {
			if err == pgx.ErrNoRows {
				return util.NewNotFound("ticket", map[string]any{"ticket_id": id})
			}
			return err
		}

		sets := []string{"status = $1", "updated_at = NOW()"}
		args := []any{change.Status}

		if change.AssignedTo != nil {
			args = append(args, *change.AssignedTo)
			sets = append(sets, fmt.Sprintf("assigned_to = $%d", len(args)))
		}
		if change.ResolutionNotes != nil && *change.ResolutionNotes != "" {
			args = append(args, *change.ResolutionNotes)
			sets = append(sets, fmt.Sprintf("resolution_notes = $%d", len(args)))
		}
		if change.Status == domain.TicketStatusResolved {
			sets = append(sets, "resolved_at = NOW()")
		} else {
			sets = append(sets, "resolved_at = NULL")
		}

		args = append(args, id)
		update := fmt.Sprintf("UPDATE tickets SET %s WHERE ticket_id = $%d", strings.Join(sets, ", "), len(args))
		if _, err := tx.Exec(ctx, update, args...); err != nil {
			return err
		}

		const insertHistory = `
        INSERT INTO ticket_history (ticket_id, field_changed, old_value, new_value, changed_by)
        VALUES ($1,$2,$3,$4,$5)`
		oldLabel := string(oldStatus)
		if _, err := tx.Exec(ctx, insertHistory, id, domain.FieldStatus, &oldLabel, string(change.Status), change.ChangedBy); err != nil {
			return err
		}

		if change.AssignedTo != nil && (oldAssigned == nil || *oldAssigned != *change.AssignedTo) {
			if _, err := tx.Exec(ctx, insertHistory, id, domain.FieldAssignedTo, oldAssigned, *change.AssignedTo, change.ChangedBy); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddTag stores the tag, reporting false when it was already present.
func (r *ticketRepository) AddTag(ctx context.Context, id int64, name string) (bool, error) {
	const query = `
        INSERT INTO ticket_tags (ticket_id, tag_name)
        VALUES ($1,$2)
        ON CONFLICT (ticket_id, tag_name) DO NOTHING`
	cmd, err := r.store.Pool.Exec(ctx, query, id, name)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// RemoveTag deletes the tag, reporting false when it was absent. A missing
// tag is a no-op, not an error.
func (r *ticketRepository) RemoveTag(ctx context.Context, id int64, name string) (bool, error) {
	const query = `DELETE FROM ticket_tags WHERE ticket_id = $1 AND tag_name = $2`
	cmd, err := r.store.Pool.Exec(ctx, query, id, name)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) GetHistory(ctx context.Context, id int64) ([]domain.TicketHistory, error) {
	const query = `
        SELECT history_id, ticket_id, field_changed, old_value, new_value, changed_by, changed_at
        FROM ticket_history
        WHERE ticket_id = $1
        ORDER BY changed_at DESC, history_id DESC`
	rows, err := r.store.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketHistory
	for rows.Next() {
		var entry domain.TicketHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.FieldChanged,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ChangedBy,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// Sweep retires Resolved tickets older than cutoff together with their
// history and tag rows, then clears any orphaned child rows, all in one
// transaction.
func (r *ticketRepository) Sweep(ctx context.Context, cutoff time.Time) (SweepResult, error) {
	var result SweepResult
	err := r.store.WithTx(ctx, func(tx pgx.Tx) error {
		const doomed = `SELECT ticket_id FROM tickets WHERE status = 'Resolved' AND resolved_at < $1`

		cmd, err := tx.Exec(ctx, `DELETE FROM ticket_tags WHERE ticket_id IN (`+doomed+`)`, cutoff)
		if err != nil {
			return err
		}
		result.TagsDeleted = cmd.RowsAffected()

		cmd, err = tx.Exec(ctx, `DELETE FROM ticket_history WHERE ticket_id IN (`+doomed+`)`, cutoff)
		if err != nil {
			return err
		}
		result.HistoryDeleted = cmd.RowsAffected()

		cmd, err = tx.Exec(ctx, `DELETE FROM tickets WHERE status = 'Resolved' AND resolved_at < $1`, cutoff)
		if err != nil {
			return err
		}
		result.TicketsDeleted = cmd.RowsAffected()

		cmd, err = tx.Exec(ctx, `DELETE FROM ticket_history WHERE ticket_id NOT IN (SELECT ticket_id FROM tickets)`)
		if err != nil {
			return err
		}
		result.HistoryDeleted += cmd.RowsAffected()

		cmd, err = tx.Exec(ctx, `DELETE FROM ticket_tags WHERE ticket_id NOT IN (SELECT ticket_id FROM tickets)`)
		if err != nil {
			return err
		}
		result.TagsDeleted += cmd.RowsAffected()
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}
	return result, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Name,
		&ticket.Email,
		&ticket.Product,
		&ticket.Rating,
		&ticket.Type,
		&ticket.Message,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AssignedTo,
		&ticket.ResolutionNotes,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.Company,
		&ticket.Phone,
		&ticket.Tags,
	); err != nil {
		return nil, err
	}
	if ticket.Tags == nil {
		ticket.Tags = []string{}
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
