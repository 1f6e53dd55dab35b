package stats

import (
	"context"
	"fmt"
	"time"

	"ShelfWatch/internal/domain/models"
	"ShelfWatch/internal/domain/repository"
	applogger "ShelfWatch/pkg/logger"
)

// DefaultDebounce is the quiescence window between the last observed store
// mutation and the recompute it triggers.
const DefaultDebounce = 300 * time.Millisecond

// RefreshHook runs after each successfully committed recompute.
type RefreshHook func(models.Stats)

// Refresher decides when to recompute. It owns the debounce timer: a burst of
// change notifications collapses into exactly one recompute, fired one delay
// after the last notification of the burst. A failed recompute keeps the
// previous Slot value.
type Refresher struct {
	src     repository.RecordSource
	slot    *Slot
	notify  <-chan struct{}
	delay   time.Duration
	log     *applogger.Logger
	metrics repository.Metrics
	hooks   []RefreshHook

	stopped chan struct{}
}

func NewRefresher(
	src repository.RecordSource,
	slot *Slot,
	notify <-chan struct{},
	delay time.Duration,
	log *applogger.Logger,
	metrics repository.Metrics,
) *Refresher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Refresher{
		src:     src,
		slot:    slot,
		notify:  notify,
		delay:   delay,
		log:     log,
		metrics: metrics,
		stopped: make(chan struct{}),
	}
}

// OnRefresh registers a hook. Must be called before Start.
func (r *Refresher) OnRefresh(h RefreshHook) {
	r.hooks = append(r.hooks, h)
}

// Init performs the synchronous first compute. The cache cannot serve from an
// uninitialized state, so a failure here is fatal to startup.
func (r *Refresher) Init(ctx context.Context) error {
	if err := r.recompute(ctx); err != nil {
		return fmt.Errorf("initial stats compute: %w", err)
	}
	return nil
}

// Start runs the debounce loop until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

// Done is closed once the debounce loop has exited.
func (r *Refresher) Done() <-chan struct{} { return r.stopped }

func (r *Refresher) run(ctx context.Context) {
	defer close(r.stopped)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case _, ok := <-r.notify:
			if !ok {
				r.notify = nil
				continue
			}
			if timer == nil {
				timer = time.NewTimer(r.delay)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-fire:
					default:
					}
				}
				timer.Reset(r.delay)
			}

		case <-fire:
			timer = nil
			fire = nil
			if err := r.recompute(ctx); err != nil {
				// Stale-but-valid beats blank: previous value stays.
				r.log.Error("stats recompute failed", applogger.Error(err))
				if r.metrics != nil {
					r.metrics.RecordError("recompute")
				}
			}
		}
	}
}

func (r *Refresher) recompute(ctx context.Context) error {
	start := time.Now()

	items, err := r.src.ReadAll(ctx)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordRecompute("error", time.Since(start).Seconds())
		}
		return fmt.Errorf("read records: %w", err)
	}
	if r.metrics != nil {
		r.metrics.RecordStoreRead(len(items))
	}

	st, err := Compute(items)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordRecompute("error", time.Since(start).Seconds())
		}
		return err
	}

	r.slot.Set(st)
	for _, h := range r.hooks {
		h(st)
	}

	if r.metrics != nil {
		r.metrics.RecordRecompute("ok", time.Since(start).Seconds())
		r.metrics.RecordStats(st.Total, st.AveragePrice)
	}
	r.log.Debug("stats recomputed",
		applogger.Int("total", st.Total),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}
