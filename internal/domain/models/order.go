package models

import "time"

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// OrderStatus mirrors the exchange order lifecycle states shown in the UI.
type OrderStatus string

const (
	StatusNew              OrderStatus = "NEW"
	StatusPartiallyFilled  OrderStatus = "PARTIALLY_FILLED"
	StatusFilled           OrderStatus = "FILLED"
	StatusCanceled         OrderStatus = "CANCELED"
	StatusPendingCancel    OrderStatus = "PENDING_CANCEL"
)

// OrderStatuses lists every valid status; synthetic order generation draws
// uniformly from this set.
var OrderStatuses = []OrderStatus{
	StatusNew,
	StatusPartiallyFilled,
	StatusFilled,
	StatusCanceled,
	StatusPendingCancel,
}

// OrderRecord is a read-only view of one brokerage order. Sourced either from
// a live exchange account or synthesized from market prices.
type OrderRecord struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"clientId"`
	Symbol     string      `json:"symbol"`
	Side       OrderSide   `json:"side"`
	OrderType  string      `json:"orderType"`
	Quantity   float64     `json:"quantity"`
	Price      float64     `json:"price"`
	Status     OrderStatus `json:"status"`
	AssignedTo string      `json:"assignedTo,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
