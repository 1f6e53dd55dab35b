package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ShelfWatch/internal/domain/models"
	applogger "ShelfWatch/pkg/logger"
)

type stubSource struct {
	mu    sync.Mutex
	items []models.Item
	err   error
	calls int
}

func (s *stubSource) ReadAll(context.Context) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s *stubSource) set(items []models.Item, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.err = err
}

func (s *stubSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestRefresherInitPopulates(t *testing.T) {
	src := &stubSource{items: []models.Item{{ID: 1, Price: "10"}, {ID: 2, Price: "30"}}}
	slot := NewSlot()
	r := NewRefresher(src, slot, make(chan struct{}), 50*time.Millisecond, testLogger(t), nil)

	if err := r.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	st, err := slot.Get()
	if err != nil {
		t.Fatalf("slot not populated: %v", err)
	}
	if st.Total != 2 || st.AveragePrice != 20 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestRefresherInitFailureIsFatal(t *testing.T) {
	src := &stubSource{err: errors.New("disk gone")}
	slot := NewSlot()
	r := NewRefresher(src, slot, make(chan struct{}), 50*time.Millisecond, testLogger(t), nil)

	if err := r.Init(context.Background()); err == nil {
		t.Fatalf("expected init error")
	}
	if _, err := slot.Get(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("slot must stay unpopulated, got %v", err)
	}
}

// A burst of notifications closer together than the delay collapses into
// exactly one recompute, fired one delay after the last notification.
func TestRefresherDebouncesBurst(t *testing.T) {
	src := &stubSource{items: []models.Item{{ID: 1, Price: "5"}}}
	slot := NewSlot()
	notify := make(chan struct{}, 16)
	r := NewRefresher(src, slot, notify, 150*time.Millisecond, testLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	for i := 0; i < 5; i++ {
		notify <- struct{}{}
		time.Sleep(20 * time.Millisecond)
	}

	// Well before the delay has elapsed since the last notification:
	// nothing must have fired yet.
	if got := src.count(); got != 0 {
		t.Fatalf("recompute fired during burst: %d", got)
	}

	time.Sleep(400 * time.Millisecond)
	if got := src.count(); got != 1 {
		t.Fatalf("expected exactly 1 recompute, got %d", got)
	}

	cancel()
	<-r.Done()
}

func TestRefresherSpacedNotifications(t *testing.T) {
	src := &stubSource{items: []models.Item{{ID: 1, Price: "5"}}}
	slot := NewSlot()
	notify := make(chan struct{}, 16)
	r := NewRefresher(src, slot, notify, 30*time.Millisecond, testLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	for i := 0; i < 3; i++ {
		notify <- struct{}{}
		time.Sleep(120 * time.Millisecond)
	}

	if got := src.count(); got != 3 {
		t.Fatalf("expected 3 recomputes, got %d", got)
	}

	cancel()
	<-r.Done()
}

// A failed recompute keeps the previous committed value.
func TestRefresherFailureRetainsLastGood(t *testing.T) {
	src := &stubSource{items: []models.Item{{ID: 1, Price: "10"}, {ID: 2, Price: "20"}}}
	slot := NewSlot()
	notify := make(chan struct{}, 16)
	r := NewRefresher(src, slot, notify, 20*time.Millisecond, testLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := r.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	r.Start(ctx)

	src.set(nil, errors.New("transient read failure"))
	notify <- struct{}{}
	time.Sleep(100 * time.Millisecond)

	st, err := slot.Get()
	if err != nil {
		t.Fatalf("slot lost its value: %v", err)
	}
	if st.Total != 2 || st.AveragePrice != 15 {
		t.Fatalf("stale value corrupted: %+v", st)
	}

	// Recovery on the next notification.
	src.set([]models.Item{{ID: 1, Price: "40"}}, nil)
	notify <- struct{}{}
	time.Sleep(100 * time.Millisecond)

	st, _ = slot.Get()
	if st.Total != 1 || st.AveragePrice != 40 {
		t.Fatalf("expected recovered stats, got %+v", st)
	}

	cancel()
	<-r.Done()
}

func TestRefresherHooksFire(t *testing.T) {
	src := &stubSource{items: []models.Item{{ID: 1, Price: "7"}}}
	slot := NewSlot()
	notify := make(chan struct{}, 16)
	r := NewRefresher(src, slot, notify, 20*time.Millisecond, testLogger(t), nil)

	got := make(chan models.Stats, 4)
	r.OnRefresh(func(st models.Stats) { got <- st })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	notify <- struct{}{}

	select {
	case st := <-got:
		if st.Total != 1 || st.AveragePrice != 7 {
			t.Fatalf("unexpected hook value %+v", st)
		}
	case <-time.After(time.Second):
		t.Fatalf("hook never fired")
	}

	cancel()
	<-r.Done()
}

// Closing the notification channel must not spin or crash the loop.
func TestRefresherNotifyChannelClosed(t *testing.T) {
	src := &stubSource{items: []models.Item{{ID: 1, Price: "7"}}}
	slot := NewSlot()
	notify := make(chan struct{})
	r := NewRefresher(src, slot, notify, 20*time.Millisecond, testLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	close(notify)
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatalf("loop did not exit")
	}
}
