package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"baratcx/internal/domain/models"
)

// Baseline constants for synthetic data. Drift stays within a bounded band
// around these so consecutive polls show plausible small movement.
const (
	baseClients         = 1560
	baseActiveOrders    = 23
	baseCompletedTrades = 1247
	baseVolume          = 892000.0

	baseMarketCapUSD = 2.1e12
	baseMarketVolUSD = 8.42e10
	baseDominancePct = 42.1
)

var (
	assetNames  = []string{"Bitcoin", "Ethereum", "BNB", "Cardano", "Solana"}
	assetPairs  = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "ADAUSDT", "SOLUSDT"}
	basePrices  = []float64{65000, 3200, 580, 0.45, 95}
	orderTypes  = []string{"LIMIT", "MARKET"}
	clientNames = []string{"John Doe", "Jane Smith", "Alex Kim"}
)

// Generator produces deterministic substitute records when the remote data
// source is unavailable or unconfigured. All methods are pure given a clock
// value: calling twice with the same instant yields identical output.
type Generator struct {
	batchSize int
}

// NewGenerator creates a Generator with the configured batch size (capped at
// the activity batch limit).
func NewGenerator(batchSize int) *Generator {
	if batchSize <= 0 || batchSize > models.ActivityBatchCap {
		batchSize = models.ActivityBatchCap
	}
	return &Generator{batchSize: batchSize}
}

// drift is a bounded periodic perturbation in [-0.1, 0.1].
func drift(clock time.Time) float64 {
	return math.Sin(float64(clock.UnixMilli())/1e6) * 0.1
}

// Stats derives dashboard totals from the baselines perturbed by clock drift.
// Every field is non-negative.
func (g *Generator) Stats(clock time.Time) models.DashboardStats {
	v := drift(clock)
	return models.DashboardStats{
		TotalClients:    clampInt(baseClients + int(v*100)),
		ActiveOrders:    clampInt(baseActiveOrders + int(v*10)),
		CompletedTrades: clampInt(baseCompletedTrades + int(v*200)),
		TotalVolume:     math.Max(0, baseVolume+v*50000),
	}
}

// Market produces a plausible global market snapshot.
func (g *Generator) Market(clock time.Time) *models.MarketSnapshot {
	v := drift(clock)
	return &models.MarketSnapshot{
		TotalMarketCapUSD: baseMarketCapUSD * (1 + v),
		TotalVolumeUSD:    baseMarketVolUSD * (1 + v),
		DominancePercent:  baseDominancePct + v*10,
		CapChange24h:      v * 100,
		FetchedAt:         clock,
	}
}

// Activity produces a fixed-size ordered batch of feed events. IDs are unique
// within the batch; outcomes follow the price drift sign.
func (g *Generator) Activity(clock time.Time) []models.ActivityEvent {
	ms := clock.UnixMilli()
	events := make([]models.ActivityEvent, 0, g.batchSize)
	for i := 0; i < g.batchSize && i < len(assetNames); i++ {
		change := math.Sin(float64(ms+int64(i)*1000)/1e5) * 10
		price := basePrices[i] * (1 + change/100)

		verb := "gained"
		if change < 0 {
			verb = "dropped"
		}

		outcome := models.OutcomePending
		switch {
		case change > 0:
			outcome = models.OutcomeSuccess
		case change < -5:
			outcome = models.OutcomeError
		}

		kind := models.ActivityOrder
		if i%2 == 0 {
			kind = models.ActivityTrade
		}

		events = append(events, models.ActivityEvent{
			ID:         fmt.Sprintf("activity-%s-%d", strings.ToLower(assetNames[i]), i),
			Kind:       kind,
			Message:    fmt.Sprintf("%s %s %.2f%% - $%.2f", assetNames[i], verb, math.Abs(change), price),
			OccurredAt: clock.Add(-time.Duration(i+1) * 12 * time.Minute),
			Outcome:    outcome,
		})
	}
	return events
}

// Orders produces a fixed-size batch of plausible order records. Status is
// drawn uniformly over the full status set using a clock-seeded source, so
// the batch is reproducible per clock value.
func (g *Generator) Orders(clock time.Time) []models.OrderRecord {
	rng := rand.New(rand.NewSource(clock.UnixMilli()))
	orders := make([]models.OrderRecord, 0, g.batchSize)
	for i := 0; i < g.batchSize; i++ {
		pair := assetPairs[i%len(assetPairs)]
		change := math.Sin(float64(clock.UnixMilli()+int64(i)*1000)/1e5) * 10
		price := basePrices[i%len(basePrices)] * (1 + change/100)

		side := models.SideBuy
		if rng.Intn(2) == 1 {
			side = models.SideSell
		}

		var assigned string
		if rng.Intn(2) == 1 {
			assigned = clientNames[rng.Intn(len(clientNames))]
		}

		created := clock.Add(-time.Duration(rng.Intn(90)+10) * time.Minute)
		orders = append(orders, models.OrderRecord{
			ID:         fmt.Sprintf("ORD-%s-%03d", strings.TrimSuffix(pair, "USDT"), i+1),
			ClientID:   fmt.Sprintf("CLIENT-%03d", i+1),
			Symbol:     pair,
			Side:       side,
			OrderType:  orderTypes[rng.Intn(len(orderTypes))],
			Quantity:   math.Round((rng.Float64()*9.9+0.1)*100) / 100,
			Price:      price,
			Status:     models.OrderStatuses[rng.Intn(len(models.OrderStatuses))],
			AssignedTo: assigned,
			CreatedAt:  created,
			UpdatedAt:  created.Add(time.Duration(rng.Intn(10)) * time.Minute),
		})
	}
	return orders
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
