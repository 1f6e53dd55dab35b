package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"ShelfWatch/internal/domain/repository"
	applogger "ShelfWatch/pkg/logger"
)

// Watcher turns filesystem activity on the backing file into unit change
// events. It watches the parent directory (editors and atomic writers rename
// into place, which drops a watch held on the file itself) and additionally
// polls mtime+size, since watch delivery is not guaranteed on every platform
// or mount. Both paths feed the same channel, so consumers debounce them
// identically.
type Watcher struct {
	path    string
	poll    time.Duration
	log     *applogger.Logger
	metrics repository.Metrics

	fw     *fsnotify.Watcher
	events chan struct{}
	done   chan struct{}
}

func NewWatcher(path string, poll time.Duration, log *applogger.Logger, metrics repository.Metrics) *Watcher {
	return &Watcher{
		path:    path,
		poll:    poll,
		log:     log,
		metrics: metrics,
		events:  make(chan struct{}, 16),
		done:    make(chan struct{}),
	}
}

// Events returns the change notification channel. Closed on shutdown.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Start begins watching. The loop runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.fw = fw

	// Baseline for the poll comparison, taken before the loop goroutine
	// exists. A mutation landing after Start returns is then a drift from
	// this baseline, not part of it.
	lastMod, lastSize := w.stat()

	go w.run(ctx, lastMod, lastSize)
	return nil
}

func (w *Watcher) run(ctx context.Context, lastMod time.Time, lastSize int64) {
	defer close(w.done)
	defer close(w.events)
	defer w.fw.Close()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	base := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			lastMod, lastSize = w.stat()
			w.emit("watch")

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watch error", applogger.Error(err))

		case <-ticker.C:
			mod, size := w.stat()
			if !mod.Equal(lastMod) || size != lastSize {
				lastMod, lastSize = mod, size
				w.emit("poll")
			}
		}
	}
}

func (w *Watcher) emit(source string) {
	if w.metrics != nil {
		w.metrics.RecordNotification(source)
	}
	select {
	case w.events <- struct{}{}:
	default:
		// Consumer is mid-recompute and the buffer is full; a queued event
		// already guarantees a timer restart.
	}
}

func (w *Watcher) stat() (time.Time, int64) {
	fi, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, -1
	}
	return fi.ModTime(), fi.Size()
}

// Close waits for the watch loop to exit. Cancel the Start context first.
func (w *Watcher) Close() error {
	<-w.done
	return nil
}
