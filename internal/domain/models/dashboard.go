package models

import "time"

// DashboardStats is the headline card data for the CRM dashboard.
// Every field is non-negative; a record is always fully populated.
type DashboardStats struct {
	TotalClients    int     `json:"totalClients"`
	ActiveOrders    int     `json:"activeOrders"`
	CompletedTrades int     `json:"completedTrades"`
	TotalVolume     float64 `json:"totalVolume"`
}

// ActivityKind classifies an activity feed entry.
type ActivityKind string

const (
	ActivityOrder  ActivityKind = "order"
	ActivityClient ActivityKind = "client"
	ActivityTrade  ActivityKind = "trade"
)

// ActivityOutcome is the rendered status of an activity entry.
type ActivityOutcome string

const (
	OutcomeSuccess ActivityOutcome = "success"
	OutcomePending ActivityOutcome = "pending"
	OutcomeError   ActivityOutcome = "error"
)

// ActivityEvent is one row of the recent-activity feed. Batches are replaced
// wholesale on every poll; events are never merged with a prior batch.
type ActivityEvent struct {
	ID         string          `json:"id"`
	Kind       ActivityKind    `json:"kind"`
	Message    string          `json:"message"`
	OccurredAt time.Time       `json:"occurredAt"`
	Outcome    ActivityOutcome `json:"outcome"`
}

// ActivityBatchCap bounds the size of one activity batch.
const ActivityBatchCap = 5
