package dto

import (
	"github.com/spec-kit/feedback-portal/internal/domain"
)

// StatisticsResponse mirrors the dashboard aggregation payload.
type StatisticsResponse struct {
	TotalTickets       int                           `json:"total_tickets"`
	StatusBreakdown    map[domain.TicketStatus]int   `json:"status_breakdown"`
	TypeBreakdown      map[domain.TicketType]int     `json:"type_breakdown"`
	PriorityBreakdown  map[domain.TicketPriority]int `json:"priority_breakdown"`
	AverageRating      float64                       `json:"average_rating"`
	RatingDistribution map[int]int                   `json:"rating_distribution"`
	TopCustomers       []TopCustomerResponse         `json:"top_customers"`
	PopularProducts    []PopularProductResponse      `json:"popular_products"`
	DailyTickets       []DailyCountResponse          `json:"daily_tickets"`
}

// TopCustomerResponse is one top-customer row.
type TopCustomerResponse struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	TicketCount int    `json:"ticket_count"`
}

// PopularProductResponse is one popular-product row.
type PopularProductResponse struct {
	Product string `json:"product"`
	Count   int    `json:"count"`
}

// DailyCountResponse is one day of creation volume.
type DailyCountResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SweepResponse reports retention sweep results.
type SweepResponse struct {
	ArchivedTickets int64 `json:"archived_tickets"`
	CleanedHistory  int64 `json:"cleaned_history"`
	CleanedTags     int64 `json:"cleaned_tags"`
}

// StatisticsFromDomain maps the aggregation result.
func StatisticsFromDomain(stats *domain.Statistics) StatisticsResponse {
	customers := make([]TopCustomerResponse, 0, len(stats.TopCustomers))
	for _, entry := range stats.TopCustomers {
		customers = append(customers, TopCustomerResponse{
			Email:       entry.Email,
			Name:        entry.Name,
			TicketCount: entry.Count,
		})
	}
	products := make([]PopularProductResponse, 0, len(stats.PopularProducts))
	for _, entry := range stats.PopularProducts {
		products = append(products, PopularProductResponse{Product: entry.Product, Count: entry.Count})
	}
	daily := make([]DailyCountResponse, 0, len(stats.DailyTickets))
	for _, entry := range stats.DailyTickets {
		daily = append(daily, DailyCountResponse{Date: entry.Date, Count: entry.Count})
	}
	return StatisticsResponse{
		TotalTickets:       stats.TotalTickets,
		StatusBreakdown:    stats.StatusBreakdown,
		TypeBreakdown:      stats.TypeBreakdown,
		PriorityBreakdown:  stats.PriorityBreakdown,
		AverageRating:      stats.AverageRating,
		RatingDistribution: stats.RatingDistribution,
		TopCustomers:       customers,
		PopularProducts:    products,
		DailyTickets:       daily,
	}
}
