package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/repository"
	"github.com/spec-kit/feedback-portal/pkg/util"
)

// memTicketStore is an in-memory TicketRepository mirroring the SQL
// implementation's semantics closely enough to exercise the lifecycle
// rules without a database.
type memTicketStore struct {
	mu        sync.Mutex
	nextID    int64
	clock     time.Time
	tickets   map[int64]*domain.Ticket
	history   []domain.TicketHistory
	tags      map[int64]map[string]bool
	customers map[string]*domain.Customer
}

func newMemTicketStore() *memTicketStore {
	return &memTicketStore{
		nextID:    1,
		clock:     time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		tickets:   map[int64]*domain.Ticket{},
		tags:      map[int64]map[string]bool{},
		customers: map[string]*domain.Customer{},
	}
}

func (m *memTicketStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memTicketStore) Create(_ context.Context, input repository.CreateTicketInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	id := m.nextID
	m.nextID++

	m.tickets[id] = &domain.Ticket{
		ID:        id,
		Name:      input.Name,
		Email:     input.Email,
		Product:   input.Product,
		Rating:    input.Rating,
		Type:      input.Type,
		Message:   input.Message,
		Status:    domain.TicketStatusPending,
		Priority:  input.Priority,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if customer, ok := m.customers[input.Email]; ok {
		customer.Name = input.Name
		customer.TotalTickets++
		last := now
		customer.LastInteraction = &last
	} else {
		last := now
		m.customers[input.Email] = &domain.Customer{
			Name:            input.Name,
			Email:           input.Email,
			TotalTickets:    1,
			CreatedAt:       now,
			LastInteraction: &last,
		}
	}

	m.appendHistory(id, domain.FieldCreated, nil, "New ticket created", "system", now)
	return id, nil
}

func (m *memTicketStore) appendHistory(ticketID int64, field string, oldValue *string, newValue, changedBy string, at time.Time) {
	m.history = append(m.history, domain.TicketHistory{
		ID:           int64(len(m.history) + 1),
		TicketID:     ticketID,
		FieldChanged: field,
		OldValue:     oldValue,
		NewValue:     newValue,
		ChangedBy:    changedBy,
		ChangedAt:    at,
	})
}

func (m *memTicketStore) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ticket, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return m.projectLocked(ticket), nil
}

func (m *memTicketStore) projectLocked(ticket *domain.Ticket) *domain.Ticket {
	copied := *ticket
	copied.Tags = []string{}
	for tag := range m.tags[ticket.ID] {
		copied.Tags = append(copied.Tags, tag)
	}
	sort.Strings(copied.Tags)
	return &copied
}

func (m *memTicketStore) List(_ context.Context, filter repository.TicketFilter, limit, offset int) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.matchLocked(filter)
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if limit > 0 {
		if offset >= len(matched) {
			return []domain.Ticket{}, nil
		}
		matched = matched[offset:]
		if len(matched) > limit {
			matched = matched[:limit]
		}
	}

	result := make([]domain.Ticket, 0, len(matched))
	for _, ticket := range matched {
		result = append(result, *m.projectLocked(ticket))
	}
	return result, nil
}

func (m *memTicketStore) Count(_ context.Context, filter repository.TicketFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matchLocked(filter)), nil
}

func (m *memTicketStore) matchLocked(filter repository.TicketFilter) []*domain.Ticket {
	var matched []*domain.Ticket
	for _, ticket := range m.tickets {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && ticket.Type != *filter.Type {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedTo != nil && (ticket.AssignedTo == nil || *ticket.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.Search))
			haystack := strings.ToLower(ticket.Name + " " + ticket.Email + " " + ticket.Message + " " + ticket.Product)
			if needle != "" && !strings.Contains(haystack, needle) {
				continue
			}
		}
		if filter.CreatedFrom != nil && ticket.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && ticket.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if filter.RatingMin != nil && (ticket.Rating == nil || *ticket.Rating < *filter.RatingMin) {
			continue
		}
		if filter.RatingMax != nil && (ticket.Rating == nil || *ticket.Rating > *filter.RatingMax) {
			continue
		}
		matched = append(matched, ticket)
	}
	return matched
}

func (m *memTicketStore) UpdateStatus(_ context.Context, id int64, change repository.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ticket, ok := m.tickets[id]
	if !ok {
		return util.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}

	now := m.tick()
	oldStatus := ticket.Status
	oldAssigned := ticket.AssignedTo

	ticket.Status = change.Status
	ticket.UpdatedAt = now
	if change.AssignedTo != nil {
		ticket.AssignedTo = change.AssignedTo
	}
	if change.ResolutionNotes != nil && *change.ResolutionNotes != "" {
		ticket.ResolutionNotes = change.ResolutionNotes
	}
	if change.Status == domain.TicketStatusResolved {
		resolved := now
		ticket.ResolvedAt = &resolved
	} else {
		ticket.ResolvedAt = nil
	}

	oldLabel := string(oldStatus)
	m.appendHistory(id, domain.FieldStatus, &oldLabel, string(change.Status), change.ChangedBy, now)
	if change.AssignedTo != nil && (oldAssigned == nil || *oldAssigned != *change.AssignedTo) {
		m.appendHistory(id, domain.FieldAssignedTo, oldAssigned, *change.AssignedTo, change.ChangedBy, now)
	}
	return nil
}

func (m *memTicketStore) AddTag(_ context.Context, id int64, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tags[id] == nil {
		m.tags[id] = map[string]bool{}
	}
	if m.tags[id][name] {
		return false, nil
	}
	m.tags[id][name] = true
	return true, nil
}

func (m *memTicketStore) RemoveTag(_ context.Context, id int64, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.tags[id][name] {
		return false, nil
	}
	delete(m.tags[id], name)
	return true, nil
}

func (m *memTicketStore) GetHistory(_ context.Context, id int64) ([]domain.TicketHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.TicketHistory
	for _, entry := range m.history {
		if entry.TicketID == id {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ChangedAt.Equal(result[j].ChangedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].ChangedAt.After(result[j].ChangedAt)
	})
	return result, nil
}

// Collect aggregates like the SQL statistics queries: the window bounds
// every figure except the daily series, rating aggregates skip null
// ratings, the average rounds half away from zero to two decimals and is
// 0 when nothing is rated, and the daily series always covers the
// trailing 30 days of the store clock.
func (m *memTicketStore) Collect(_ context.Context, window repository.StatsWindow) (*domain.Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &domain.Statistics{
		StatusBreakdown:    map[domain.TicketStatus]int{},
		TypeBreakdown:      map[domain.TicketType]int{},
		PriorityBreakdown:  map[domain.TicketPriority]int{},
		RatingDistribution: map[int]int{},
		TopCustomers:       []domain.CustomerCount{},
		PopularProducts:    []domain.ProductCount{},
		DailyTickets:       []domain.DailyCount{},
	}

	var ratingSum, ratingCount int
	byCustomer := map[string]*domain.CustomerCount{}
	byProduct := map[string]int{}

	for _, ticket := range m.tickets {
		if window.From != nil && ticket.CreatedAt.Before(*window.From) {
			continue
		}
		if window.To != nil && ticket.CreatedAt.After(*window.To) {
			continue
		}
		stats.TotalTickets++
		stats.StatusBreakdown[ticket.Status]++
		stats.TypeBreakdown[ticket.Type]++
		stats.PriorityBreakdown[ticket.Priority]++
		if ticket.Rating != nil {
			ratingSum += *ticket.Rating
			ratingCount++
			stats.RatingDistribution[*ticket.Rating]++
		}
		if entry, ok := byCustomer[ticket.Email]; ok {
			entry.Count++
		} else {
			byCustomer[ticket.Email] = &domain.CustomerCount{Email: ticket.Email, Name: ticket.Name, Count: 1}
		}
		byProduct[ticket.Product]++
	}

	if ratingCount > 0 {
		stats.AverageRating = math.Round(float64(ratingSum)/float64(ratingCount)*100) / 100
	}

	for _, entry := range byCustomer {
		stats.TopCustomers = append(stats.TopCustomers, *entry)
	}
	sort.Slice(stats.TopCustomers, func(i, j int) bool {
		return stats.TopCustomers[i].Count > stats.TopCustomers[j].Count
	})
	if len(stats.TopCustomers) > 10 {
		stats.TopCustomers = stats.TopCustomers[:10]
	}

	for product, count := range byProduct {
		stats.PopularProducts = append(stats.PopularProducts, domain.ProductCount{Product: product, Count: count})
	}
	sort.Slice(stats.PopularProducts, func(i, j int) bool {
		return stats.PopularProducts[i].Count > stats.PopularProducts[j].Count
	})
	if len(stats.PopularProducts) > 10 {
		stats.PopularProducts = stats.PopularProducts[:10]
	}

	horizon := m.clock.AddDate(0, 0, -30)
	byDay := map[string]int{}
	for _, ticket := range m.tickets {
		if ticket.CreatedAt.Before(horizon) {
			continue
		}
		byDay[ticket.CreatedAt.Format("2006-01-02")]++
	}
	for date, count := range byDay {
		stats.DailyTickets = append(stats.DailyTickets, domain.DailyCount{Date: date, Count: count})
	}
	sort.Slice(stats.DailyTickets, func(i, j int) bool {
		return stats.DailyTickets[i].Date < stats.DailyTickets[j].Date
	})

	return stats, nil
}

func (m *memTicketStore) Sweep(_ context.Context, cutoff time.Time) (repository.SweepResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result repository.SweepResult
	for id, ticket := range m.tickets {
		if ticket.Status != domain.TicketStatusResolved || ticket.ResolvedAt == nil || !ticket.ResolvedAt.Before(cutoff) {
			continue
		}
		delete(m.tickets, id)
		result.TicketsDeleted++
		result.TagsDeleted += int64(len(m.tags[id]))
		delete(m.tags, id)
	}

	kept := m.history[:0]
	for _, entry := range m.history {
		if _, ok := m.tickets[entry.TicketID]; ok {
			kept = append(kept, entry)
		} else {
			result.HistoryDeleted++
		}
	}
	m.history = kept
	return result, nil
}
