package di

import (
	"fmt"

	drepo "baratcx/internal/domain/repository"
	"baratcx/internal/handler/api"
	internalrepo "baratcx/internal/repository"
	"baratcx/internal/service/binance"
	"baratcx/internal/service/coincap"
	"baratcx/internal/service/session"
	"baratcx/internal/service/synthetic"
	"baratcx/internal/usecase"
	"baratcx/pkg/cache"
	"baratcx/pkg/config"
	xhttp "baratcx/pkg/http"
	"baratcx/pkg/logger"
	"baratcx/pkg/metrics"
	"baratcx/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideKV creates the session key-value backend: Redis when enabled, an
// in-memory store otherwise.
func ProvideKV(cfg *config.Config) (cache.Service, error) {
	if !cfg.Session.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(4096)), nil
	}

	kv, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Session.Redis.Host),
		cache.WithRedisPort(cfg.Session.Redis.Port),
		cache.WithRedisPassword(cfg.Session.Redis.Password),
		cache.WithRedisDB(cfg.Session.Redis.DB),
		cache.WithRedisPrefix(cfg.Session.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return kv, nil
}

// ProvideSessionStore creates the session store over the key-value backend.
func ProvideSessionStore(kv cache.Service) drepo.SessionStore {
	return session.NewStore(kv)
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideMarketSource creates the public market data client.
func ProvideMarketSource(cfg *config.Config) drepo.MarketDataSource {
	return coincap.New(cfg.Market.AssetsURL, cfg.Market.GlobalURL, cfg.Market.Timeout)
}

// ProvideExchange creates the signed exchange client.
func ProvideExchange(cfg *config.Config) drepo.ExchangeAccount {
	return binance.New(cfg.Exchange.MainnetURL, cfg.Exchange.TestnetURL,
		cfg.Exchange.RecvWindow, cfg.Exchange.Timeout)
}

// ProvideGenerator creates the synthetic data generator.
func ProvideGenerator(cfg *config.Config) *synthetic.Generator {
	return synthetic.NewGenerator(cfg.Polling.BatchSize)
}

// ProvideAdapter creates the fetch-with-fallback adapter.
func ProvideAdapter(
	cfg *config.Config,
	market drepo.MarketDataSource,
	exchange drepo.ExchangeAccount,
	store drepo.SessionStore,
	gen *synthetic.Generator,
	m drepo.Metrics,
	log *logger.Logger,
) *usecase.Adapter {
	return usecase.NewAdapter(cfg, market, exchange, store, gen, m, log)
}

// ProvideRegistry creates the poll registry.
func ProvideRegistry(cfg *config.Config, adapter *usecase.Adapter, log *logger.Logger) *usecase.Registry {
	return usecase.NewRegistry(cfg, adapter, log)
}

// ProvideAuth creates the auth use case.
func ProvideAuth(cfg *config.Config, store drepo.SessionStore, log *logger.Logger) *usecase.Auth {
	return usecase.NewAuth(cfg, store, log)
}

// ProvidePublisher creates the activity event publisher.
func ProvidePublisher(cfg *config.Config, log *logger.Logger) (drepo.EventPublisher, error) {
	return internalrepo.NewActivityPublisher(cfg, log)
}

// ProvideHub creates the websocket stream hub.
func ProvideHub(log *logger.Logger) *api.Hub {
	return api.NewHub(log)
}

// ProvideHandler creates the API handler.
func ProvideHandler(
	log *logger.Logger,
	auth *usecase.Auth,
	registry *usecase.Registry,
	store drepo.SessionStore,
	exchange drepo.ExchangeAccount,
	m drepo.Metrics,
	hub *api.Hub,
) xhttp.Handler {
	return api.NewHandler(log, auth, registry, store, exchange, m, hub)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	registry *usecase.Registry,
	publisher drepo.EventPublisher,
	hub *api.Hub,
	handler xhttp.Handler,
	kv cache.Service,
) *server.App {
	return server.New(cfg, log, registry, publisher, hub, handler, kv)
}
