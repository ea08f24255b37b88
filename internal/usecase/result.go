package usecase

import (
	"time"

	"baratcx/internal/domain/models"
)

// Data sources a poll result can come from.
const (
	SourceLive      = "live"
	SourceSynthetic = "synthetic"
)

// Result is one complete poll payload for a single stream. Exactly one data
// field is populated per kind (market also carries the asset list).
type Result struct {
	Kind      models.Kind            `json:"kind"`
	Source    string                 `json:"source"`
	FetchedAt time.Time              `json:"fetchedAt"`
	Stats     *models.DashboardStats `json:"stats,omitempty"`
	Market    *models.MarketSnapshot `json:"market,omitempty"`
	Assets    []models.Asset         `json:"assets,omitempty"`
	Activity  []models.ActivityEvent `json:"activity,omitempty"`
	Orders    []models.OrderRecord   `json:"orders,omitempty"`
}
