package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"baratcx/internal/domain/models"
	"baratcx/internal/service/synthetic"
	"baratcx/pkg/config"
	"baratcx/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testConfig(policy string) *config.Config {
	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Polling.FallbackPolicy = policy
	cfg.Polling.BatchSize = 5
	cfg.Market.AssetLimit = 10
	return cfg
}

// fakeMarket implements repository.MarketDataSource.
type fakeMarket struct {
	snap   *models.MarketSnapshot
	assets []models.Asset
	err    error
}

func (f *fakeMarket) GlobalSnapshot(context.Context) (*models.MarketSnapshot, error) {
	return f.snap, f.err
}

func (f *fakeMarket) TopAssets(context.Context, int) ([]models.Asset, error) {
	return f.assets, f.err
}

// fakeExchange implements repository.ExchangeAccount.
type fakeExchange struct {
	orders []models.OrderRecord
	err    error
}

func (f *fakeExchange) Verify(context.Context, *models.ExchangeCredentials) error { return f.err }

func (f *fakeExchange) OpenOrders(context.Context, *models.ExchangeCredentials) ([]models.OrderRecord, error) {
	return f.orders, f.err
}

func (f *fakeExchange) Raw(context.Context, *models.ExchangeCredentials, string, map[string]string) ([]byte, int, error) {
	return nil, 0, f.err
}

// fakeStore implements the credentials half of repository.SessionStore.
type fakeStore struct {
	creds *models.ExchangeCredentials
	err   error
}

func (f *fakeStore) Credentials(context.Context) (*models.ExchangeCredentials, error) {
	return f.creds, f.err
}
func (f *fakeStore) SaveCredentials(context.Context, *models.ExchangeCredentials) error { return nil }
func (f *fakeStore) Employees(context.Context) ([]models.User, error)                   { return nil, nil }
func (f *fakeStore) SaveEmployees(context.Context, []models.User) error                 { return nil }
func (f *fakeStore) Profile(context.Context, string) (*models.User, error)              { return nil, nil }
func (f *fakeStore) SaveProfile(context.Context, *models.User) error                    { return nil }
func (f *fakeStore) Session(context.Context, string) (*models.Session, error)           { return nil, nil }
func (f *fakeStore) SaveSession(context.Context, *models.Session, time.Duration) error  { return nil }
func (f *fakeStore) DeleteSession(context.Context, string) error                        { return nil }

// nopMetrics implements repository.Metrics.
type nopMetrics struct{}

func (nopMetrics) RecordPoll(string, string)          {}
func (nopMetrics) RecordPollError(string, string)     {}
func (nopMetrics) RecordFallback(string)              {}
func (nopMetrics) RecordPollDuration(string, float64) {}
func (nopMetrics) RecordProxyRequest(int)             {}

func newAdapter(t *testing.T, policy string, market *fakeMarket, exchange *fakeExchange, store *fakeStore) *Adapter {
	t.Helper()
	return NewAdapter(testConfig(policy), market, exchange, store,
		synthetic.NewGenerator(5), nopMetrics{}, newTestLogger(t))
}

func TestFetchStatsDerivesFromLiveSnapshot(t *testing.T) {
	market := &fakeMarket{snap: &models.MarketSnapshot{
		TotalMarketCapUSD: 2.1e12,
		TotalVolumeUSD:    8.42e10,
	}}
	a := newAdapter(t, config.PolicyError, market, &fakeExchange{}, &fakeStore{})

	res, err := a.Fetch(context.Background(), models.KindStats)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Source != SourceLive {
		t.Fatalf("source = %q", res.Source)
	}
	if res.Stats.TotalClients != 210 {
		t.Fatalf("totalClients = %d, want 210", res.Stats.TotalClients)
	}
	if res.Stats.ActiveOrders != 84 {
		t.Fatalf("activeOrders = %d, want 84", res.Stats.ActiveOrders)
	}
	if res.Stats.CompletedTrades != 8420 {
		t.Fatalf("completedTrades = %d, want 8420", res.Stats.CompletedTrades)
	}
	if res.Stats.TotalVolume != 84200 {
		t.Fatalf("totalVolume = %f, want 84200", res.Stats.TotalVolume)
	}
}

func TestFetchStatsDefaultsOnZeroQuotients(t *testing.T) {
	market := &fakeMarket{snap: &models.MarketSnapshot{}}
	a := newAdapter(t, config.PolicyError, market, &fakeExchange{}, &fakeStore{})

	res, err := a.Fetch(context.Background(), models.KindStats)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	s := res.Stats
	if s.TotalClients != defaultClients || s.ActiveOrders != defaultOrders ||
		s.CompletedTrades != defaultTrades || s.TotalVolume != defaultVolume {
		t.Fatalf("defaults not applied: %+v", s)
	}
}

func TestFetchActivityOutcomes(t *testing.T) {
	market := &fakeMarket{assets: []models.Asset{
		{ID: "bitcoin", Name: "Bitcoin", PriceUSD: 65000, ChangePercent24h: 2.4},
		{ID: "ethereum", Name: "Ethereum", PriceUSD: 3200, ChangePercent24h: -6.1},
		{ID: "solana", Name: "Solana", PriceUSD: 95, ChangePercent24h: -1.0},
	}}
	a := newAdapter(t, config.PolicyError, market, &fakeExchange{}, &fakeStore{})

	res, err := a.Fetch(context.Background(), models.KindActivity)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(res.Activity) != 3 {
		t.Fatalf("expected 3 events, got %d", len(res.Activity))
	}

	want := []models.ActivityOutcome{models.OutcomeSuccess, models.OutcomeError, models.OutcomePending}
	for i, ev := range res.Activity {
		if ev.Outcome != want[i] {
			t.Fatalf("event %d outcome = %q, want %q", i, ev.Outcome, want[i])
		}
	}
}

func TestSyntheticPolicySubstitutes(t *testing.T) {
	market := &fakeMarket{err: &models.NetworkError{Source: "market", Err: errors.New("dial timeout")}}
	a := newAdapter(t, config.PolicySynthetic, market, &fakeExchange{}, &fakeStore{})

	res, err := a.Fetch(context.Background(), models.KindStats)
	if err != nil {
		t.Fatalf("synthetic policy must not surface errors, got %v", err)
	}
	if res.Source != SourceSynthetic {
		t.Fatalf("source = %q", res.Source)
	}
	if res.Stats == nil || res.Stats.TotalClients <= 0 {
		t.Fatalf("substitute stats missing: %+v", res.Stats)
	}
}

func TestErrorPolicyPropagatesTyped(t *testing.T) {
	market := &fakeMarket{err: &models.UpstreamError{Source: "market", Status: 502}}
	a := newAdapter(t, config.PolicyError, market, &fakeExchange{}, &fakeStore{})

	res, err := a.Fetch(context.Background(), models.KindMarket)
	if res != nil {
		t.Fatalf("expected nil result, got %+v", res)
	}
	var ue *models.UpstreamError
	if !errors.As(err, &ue) || ue.Status != 502 {
		t.Fatalf("expected UpstreamError 502, got %v", err)
	}
}

func TestOrdersNotConfigured(t *testing.T) {
	store := &fakeStore{err: models.ErrNotConfigured}

	a := newAdapter(t, config.PolicyError, &fakeMarket{}, &fakeExchange{}, store)
	if _, err := a.Fetch(context.Background(), models.KindOrders); !errors.Is(err, models.ErrNotConfigured) {
		t.Fatalf("error policy must surface ErrNotConfigured, got %v", err)
	}

	a = newAdapter(t, config.PolicySynthetic, &fakeMarket{}, &fakeExchange{}, store)
	res, err := a.Fetch(context.Background(), models.KindOrders)
	if err != nil {
		t.Fatalf("synthetic policy: %v", err)
	}
	if res.Source != SourceSynthetic || len(res.Orders) != 5 {
		t.Fatalf("expected synthetic order batch, got %+v", res)
	}
}

func TestOrdersLive(t *testing.T) {
	store := &fakeStore{creds: &models.ExchangeCredentials{APIKey: "k", SecretKey: "s"}}
	exchange := &fakeExchange{orders: []models.OrderRecord{{ID: "ORD-1", Symbol: "BTCUSDT"}}}

	a := newAdapter(t, config.PolicyError, &fakeMarket{}, exchange, store)
	res, err := a.Fetch(context.Background(), models.KindOrders)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Source != SourceLive || len(res.Orders) != 1 || res.Orders[0].ID != "ORD-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
