package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baratcx/internal/domain/models"
	drepo "baratcx/internal/domain/repository"
	"baratcx/internal/handler/api"
	"baratcx/internal/usecase"
	"baratcx/pkg/cache"
	"baratcx/pkg/config"
	xhttp "baratcx/pkg/http"
	applogger "baratcx/pkg/logger"
)

// App owns the application lifecycle: pollers, event fan-out and the HTTP
// server. Startup order is pollers first so the API has data to serve;
// shutdown reverses it.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	registry  *usecase.Registry
	publisher drepo.EventPublisher
	hub       *api.Hub
	handler   xhttp.Handler
	kv        cache.Service

	httpServer *xhttp.Server
}

// New assembles the application and wires poll results into the websocket hub
// and the event publisher.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	registry *usecase.Registry,
	publisher drepo.EventPublisher,
	hub *api.Hub,
	handler xhttp.Handler,
	kv cache.Service,
) *App {
	a := &App{
		cfg:       cfg,
		log:       log,
		registry:  registry,
		publisher: publisher,
		hub:       hub,
		handler:   handler,
		kv:        kv,
	}

	registry.Listen(hub.Broadcast)
	registry.Listen(a.publishActivity)
	return a
}

func (a *App) publishActivity(res *usecase.Result) {
	if res.Kind != models.KindActivity || len(res.Activity) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.publisher.PublishActivity(ctx, res.Activity); err != nil {
		a.log.Warn("activity fan-out failed", applogger.Error(err))
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.registry.Start(ctx)
	a.log.Info("pollers started",
		applogger.String("fallback_policy", a.cfg.Polling.FallbackPolicy))

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start failed", applogger.Error(err))
		return err
	}
	a.log.Info("http server listening", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	a.registry.Stop()

	if err := a.hub.Close(); err != nil {
		a.log.Warn("stream hub close error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.publisher.Close(); err != nil {
		a.log.Warn("publisher close error", applogger.Error(err))
	}
	if err := a.kv.Close(); err != nil {
		a.log.Warn("session backend close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}
