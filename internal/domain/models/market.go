package models

import "time"

// MarketSnapshot holds global market aggregates for one polling cycle.
// Immutable once produced.
type MarketSnapshot struct {
	TotalMarketCapUSD float64   `json:"totalMarketCapUsd"`
	TotalVolumeUSD    float64   `json:"totalVolumeUsd"`
	DominancePercent  float64   `json:"dominancePercent"`
	CapChange24h      float64   `json:"capChange24h"`
	FetchedAt         time.Time `json:"fetchedAt"`
}

// Asset is a single per-asset row from the public market API.
type Asset struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	PriceUSD         float64 `json:"priceUsd"`
	MarketCapUSD     float64 `json:"marketCapUsd"`
	VolumeUSD24h     float64 `json:"volumeUsd24h"`
	ChangePercent24h float64 `json:"changePercent24h"`
}
