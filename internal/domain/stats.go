package domain

// CustomerCount is one row of the top-customers breakdown. Ordering among
// customers with equal counts follows store ordering and is not stable.
type CustomerCount struct {
	Email string
	Name  string
	Count int
}

// ProductCount is one row of the popular-products breakdown.
type ProductCount struct {
	Product string
	Count   int
}

// DailyCount is one day of the trailing creation-volume series.
type DailyCount struct {
	Date  string
	Count int
}

// Statistics aggregates dashboard figures over an optional creation-date
// window. DailyTickets always covers the trailing 30 days regardless of
// the window.
type Statistics struct {
	TotalTickets       int
	StatusBreakdown    map[TicketStatus]int
	TypeBreakdown      map[TicketType]int
	PriorityBreakdown  map[TicketPriority]int
	AverageRating      float64
	RatingDistribution map[int]int
	TopCustomers       []CustomerCount
	PopularProducts    []ProductCount
	DailyTickets       []DailyCount
}
