package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"baratcx/internal/domain/models"
	drepo "baratcx/internal/domain/repository"
	"baratcx/internal/service/synthetic"
	"baratcx/pkg/config"
	"baratcx/pkg/logger"
)

// Stats derivation constants. The dashboard cards scale global market
// aggregates down to CRM-sized numbers; a zero quotient falls back to a fixed
// default so the cards never render empty.
const (
	clientsDivisor = 1e10
	ordersDivisor  = 1e9
	tradesDivisor  = 1e7
	volumeDivisor  = 1e6

	defaultClients = 156
	defaultOrders  = 23
	defaultTrades  = 1247
	defaultVolume  = 892000.0
)

// Adapter resolves one poll cycle for a stream: it tries the live source
// first and, on failure, applies the deployment's fallback policy — either
// surface the typed error or substitute synthetic data. The policy is uniform
// across kinds and never changes at runtime.
type Adapter struct {
	policy     string
	batchSize  int
	assetLimit int

	market   drepo.MarketDataSource
	exchange drepo.ExchangeAccount
	store    drepo.SessionStore
	gen      *synthetic.Generator
	metrics  drepo.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewAdapter creates a fetch adapter.
func NewAdapter(
	cfg *config.Config,
	market drepo.MarketDataSource,
	exchange drepo.ExchangeAccount,
	store drepo.SessionStore,
	gen *synthetic.Generator,
	metrics drepo.Metrics,
	log *logger.Logger,
) *Adapter {
	return &Adapter{
		policy:     cfg.Polling.FallbackPolicy,
		batchSize:  cfg.Polling.BatchSize,
		assetLimit: cfg.Market.AssetLimit,
		market:     market,
		exchange:   exchange,
		store:      store,
		gen:        gen,
		metrics:    metrics,
		log:        log,
		now:        time.Now,
	}
}

// Fetch resolves one poll cycle for kind. Under the synthetic policy it never
// returns an error; under the error policy the live failure propagates typed.
func (a *Adapter) Fetch(ctx context.Context, kind models.Kind) (*Result, error) {
	started := a.now()
	res, err := a.live(ctx, kind)
	a.metrics.RecordPollDuration(string(kind), a.now().Sub(started).Seconds())

	if err == nil {
		a.metrics.RecordPoll(string(kind), SourceLive)
		return res, nil
	}

	a.metrics.RecordPollError(string(kind), models.ErrorCode(err))
	if a.policy == config.PolicyError {
		return nil, err
	}

	a.log.Warn("live fetch failed, substituting synthetic data",
		logger.String("kind", string(kind)),
		logger.String("code", models.ErrorCode(err)),
		logger.Error(err))
	a.metrics.RecordFallback(string(kind))
	a.metrics.RecordPoll(string(kind), SourceSynthetic)
	return a.substitute(kind), nil
}

func (a *Adapter) live(ctx context.Context, kind models.Kind) (*Result, error) {
	switch kind {
	case models.KindMarket:
		return a.liveMarket(ctx)
	case models.KindStats:
		return a.liveStats(ctx)
	case models.KindActivity:
		return a.liveActivity(ctx)
	case models.KindOrders:
		return a.liveOrders(ctx)
	default:
		return nil, fmt.Errorf("unknown poll kind %q", kind)
	}
}

func (a *Adapter) liveMarket(ctx context.Context) (*Result, error) {
	snap, err := a.market.GlobalSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := a.market.TopAssets(ctx, a.assetLimit)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:      models.KindMarket,
		Source:    SourceLive,
		FetchedAt: a.now().UTC(),
		Market:    snap,
		Assets:    assets,
	}, nil
}

func (a *Adapter) liveStats(ctx context.Context) (*Result, error) {
	snap, err := a.market.GlobalSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:      models.KindStats,
		Source:    SourceLive,
		FetchedAt: a.now().UTC(),
		Stats:     deriveStats(snap),
	}, nil
}

func (a *Adapter) liveActivity(ctx context.Context) (*Result, error) {
	assets, err := a.market.TopAssets(ctx, a.batchSize)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:      models.KindActivity,
		Source:    SourceLive,
		FetchedAt: a.now().UTC(),
		Activity:  a.deriveActivity(assets),
	}, nil
}

func (a *Adapter) liveOrders(ctx context.Context) (*Result, error) {
	creds, err := a.store.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := a.exchange.OpenOrders(ctx, creds)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:      models.KindOrders,
		Source:    SourceLive,
		FetchedAt: a.now().UTC(),
		Orders:    orders,
	}, nil
}

// deriveStats scales global aggregates down to dashboard card values.
func deriveStats(snap *models.MarketSnapshot) *models.DashboardStats {
	s := &models.DashboardStats{
		TotalClients:    int(snap.TotalMarketCapUSD / clientsDivisor),
		ActiveOrders:    int(snap.TotalVolumeUSD / ordersDivisor),
		CompletedTrades: int(snap.TotalVolumeUSD / tradesDivisor),
		TotalVolume:     math.Floor(snap.TotalVolumeUSD / volumeDivisor),
	}
	if s.TotalClients == 0 {
		s.TotalClients = defaultClients
	}
	if s.ActiveOrders == 0 {
		s.ActiveOrders = defaultOrders
	}
	if s.CompletedTrades == 0 {
		s.CompletedTrades = defaultTrades
	}
	if s.TotalVolume == 0 {
		s.TotalVolume = defaultVolume
	}
	return s
}

// deriveActivity turns per-asset 24h movement into feed entries. Positive
// movement reads as success, a drop beyond five percent as error, anything
// else as pending.
func (a *Adapter) deriveActivity(assets []models.Asset) []models.ActivityEvent {
	now := a.now().UTC()
	n := len(assets)
	if n > a.batchSize {
		n = a.batchSize
	}

	events := make([]models.ActivityEvent, 0, n)
	for i := 0; i < n; i++ {
		asset := assets[i]
		change := asset.ChangePercent24h

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
			ID:         fmt.Sprintf("activity-%s-%d", asset.ID, i),
			Kind:       kind,
			Message:    fmt.Sprintf("%s %s %.2f%% - $%.2f", asset.Name, verb, math.Abs(change), asset.PriceUSD),
			OccurredAt: now.Add(-time.Duration(i+1) * 12 * time.Minute),
			Outcome:    outcome,
		})
	}
	return events
}

func (a *Adapter) substitute(kind models.Kind) *Result {
	clock := a.now().UTC()
	res := &Result{Kind: kind, Source: SourceSynthetic, FetchedAt: clock}
	switch kind {
	case models.KindMarket:
		res.Market = a.gen.Market(clock)
	case models.KindStats:
		stats := a.gen.Stats(clock)
		res.Stats = &stats
	case models.KindActivity:
		res.Activity = a.gen.Activity(clock)
	case models.KindOrders:
		res.Orders = a.gen.Orders(clock)
	}
	return res
}
