package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ShelfWatch/internal/domain/models"
	"ShelfWatch/internal/domain/repository"
	"ShelfWatch/internal/handler/api"
	"ShelfWatch/internal/stats"
	"ShelfWatch/internal/store"
	"ShelfWatch/internal/usecase"
	"ShelfWatch/pkg/cache"
	"ShelfWatch/pkg/config"
	xhttp "ShelfWatch/pkg/http"
	applogger "ShelfWatch/pkg/logger"
)

// App encapsulates the entire application lifecycle: construct, initialize
// (first stats populate), serve, graceful shutdown.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	watcher   *store.Watcher
	refresher *stats.Refresher
	items     *usecase.ItemsUsecase
	hub       *api.StreamHub
	handler   xhttp.Handler
	publisher repository.EventPublisher
	cacheSvc  cache.Service

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	watcher *store.Watcher,
	refresher *stats.Refresher,
	items *usecase.ItemsUsecase,
	hub *api.StreamHub,
	handler xhttp.Handler,
	publisher repository.EventPublisher,
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		watcher:   watcher,
		refresher: refresher,
		items:     items,
		hub:       hub,
		handler:   handler,
		publisher: publisher,
		cacheSvc:  cacheSvc,
	}
}

// Run starts the application and blocks until interrupted. An error from the
// initial stats populate is fatal: the cache cannot serve from an
// uninitialized state.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Every successful recompute fans out from here. Hooks must be in place
	// before the debounce loop starts.
	a.refresher.OnRefresh(a.hub.Broadcast)
	a.refresher.OnRefresh(func(models.Stats) { a.items.InvalidateCache(ctx) })
	if a.publisher != nil {
		a.refresher.OnRefresh(func(st models.Stats) {
			if err := a.publisher.Publish(ctx, []byte("stats"), st); err != nil {
				a.log.Warn("stats event publish failed", applogger.Error(err))
			}
		})
	}

	if err := a.watcher.Start(ctx); err != nil {
		return err
	}
	a.log.Info("store watcher started", applogger.String("store", a.cfg.Store.Path))

	if err := a.refresher.Init(ctx); err != nil {
		return err
	}
	a.refresher.Start(ctx)
	a.log.Info("stats cache initialized",
		applogger.Duration("debounce_ms", a.cfg.Stats.Debounce),
	)

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancelTimeout := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancelTimeout()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.hub.CloseAll()

	// Run context is already cancelled; wait for the loops to drain.
	if err := a.watcher.Close(); err != nil {
		a.log.Warn("watcher close error", applogger.Error(err))
	}
	<-a.refresher.Done()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("event publisher close error", applogger.Error(err))
		}
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	a.log.RemoveCollector()

	a.log.Info("shutdown complete")
	return nil
}
