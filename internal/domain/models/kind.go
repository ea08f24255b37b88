package models

// Kind identifies one polled data stream.
type Kind string

const (
	KindStats    Kind = "stats"
	KindActivity Kind = "activity"
	KindOrders   Kind = "orders"
	KindMarket   Kind = "market"
)

// Kinds lists every polled stream in registration order.
var Kinds = []Kind{KindMarket, KindStats, KindActivity, KindOrders}
