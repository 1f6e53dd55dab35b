package di

import (
	"fmt"
	"time"

	"ShelfWatch/internal/domain/repository"
	"ShelfWatch/internal/handler/api"
	"ShelfWatch/internal/stats"
	"ShelfWatch/internal/store"
	"ShelfWatch/internal/usecase"
	pkgcache "ShelfWatch/pkg/cache"
	"ShelfWatch/pkg/config"
	xhttp "ShelfWatch/pkg/http"
	pkgkafka "ShelfWatch/pkg/kafka"
	applogger "ShelfWatch/pkg/logger"
	"ShelfWatch/pkg/metrics"
	"ShelfWatch/pkg/server"
)

// ProvideLogger creates the application logger from config. When the Kafka
// event bus is enabled, error logs are also aggregated and shipped there.
func ProvideLogger(cfg *config.Config, publisher repository.EventPublisher) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if publisher != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Publisher:      publisher,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEventPublisher creates a Kafka producer when events are enabled,
// or nil to disable publishing entirely.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithTopic(cfg.Events.Topic),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Events.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideCache creates the list-response cache: layered memory+Redis when
// Redis is configured, memory-only otherwise, nil when caching is off.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvideFileStore creates the JSON file record store.
func ProvideFileStore(cfg *config.Config, l *applogger.Logger) *store.FileStore {
	return store.NewFileStore(cfg.Store.Path, l)
}

// ProvideWatcher creates the store change watcher.
func ProvideWatcher(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *store.Watcher {
	return store.NewWatcher(cfg.Store.Path, cfg.Store.PollInterval, l, m)
}

// ProvideSlot creates the stats cache slot.
func ProvideSlot() *stats.Slot {
	return stats.NewSlot()
}

// ProvideRefresher wires the debounced recompute loop to the watcher.
func ProvideRefresher(
	fs *store.FileStore,
	slot *stats.Slot,
	w *store.Watcher,
	cfg *config.Config,
	l *applogger.Logger,
	m repository.Metrics,
) *stats.Refresher {
	return stats.NewRefresher(fs, slot, w.Events(), cfg.Stats.Debounce, l, m)
}

// ProvideItemsUsecase creates the catalog read/write usecase.
func ProvideItemsUsecase(fs *store.FileStore, c pkgcache.Service, cfg *config.Config, l *applogger.Logger) *usecase.ItemsUsecase {
	return usecase.NewItemsUsecase(fs, c, cfg.Cache.TTL, l)
}

// ProvideStreamHub creates the stats WebSocket hub.
func ProvideStreamHub(l *applogger.Logger) *api.StreamHub {
	return api.NewStreamHub(l)
}

// ProvideHandler aggregates the HTTP handlers.
func ProvideHandler(
	cfg *config.Config,
	l *applogger.Logger,
	items *usecase.ItemsUsecase,
	slot *stats.Slot,
	hub *api.StreamHub,
) xhttp.Handler {
	return api.NewRoot(
		api.NewItemsEchoHandler(l, items, cfg.RateLimit.WriteCapacity, cfg.RateLimit.WriteRefill),
		api.NewStatsEchoHandler(l, slot, hub),
		api.NewHealthEchoHandler(slot),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	w *store.Watcher,
	r *stats.Refresher,
	items *usecase.ItemsUsecase,
	hub *api.StreamHub,
	handler xhttp.Handler,
	publisher repository.EventPublisher,
	cacheSvc pkgcache.Service,
) *server.App {
	return server.New(cfg, l, w, r, items, hub, handler, publisher, cacheSvc)
}
