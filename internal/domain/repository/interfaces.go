package repository

import (
	"context"

	"ShelfWatch/internal/domain/models"
)

// RecordSource exposes "read all records now" over whatever holds the catalog.
type RecordSource interface {
	ReadAll(ctx context.Context) ([]models.Item, error)
}

// RecordStore is a RecordSource that also accepts writes.
type RecordStore interface {
	RecordSource
	Append(ctx context.Context, item models.Item) (models.Item, error)
}

// ChangeNotifier delivers "something changed" signals from the backing store.
// Events carry no payload; a receiver re-reads the store to see what changed.
type ChangeNotifier interface {
	Start(ctx context.Context) error
	Events() <-chan struct{}
	Close() error
}

// EventPublisher pushes refresh events to an external bus.
type EventPublisher interface {
	Publish(ctx context.Context, key []byte, value interface{}) error
	Close() error
}

type Metrics interface {
	RecordRecompute(outcome string, seconds float64)
	RecordStoreRead(records int)
	RecordStats(total int, averagePrice float64)
	RecordError(kind string)
	RecordNotification(source string)
}
