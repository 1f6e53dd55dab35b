package stats

import (
	"errors"
	"sync/atomic"

	"ShelfWatch/internal/domain/models"
)

// ErrNotReady is returned on reads before the first successful recompute.
var ErrNotReady = errors.New("stats: cache not populated yet")

// Slot is the single-value holder of the last committed Stats. Reads are
// non-blocking and never recompute; writes replace the whole value
// (last-writer-wins). A reader sees either the previous or the next value,
// never a partial one.
type Slot struct {
	v atomic.Pointer[models.Stats]
}

func NewSlot() *Slot { return &Slot{} }

// Get returns the last committed value, or ErrNotReady before the first Set.
func (s *Slot) Get() (models.Stats, error) {
	p := s.v.Load()
	if p == nil {
		return models.Stats{}, ErrNotReady
	}
	return *p, nil
}

// Set commits a new value, overwriting any prior one.
func (s *Slot) Set(st models.Stats) {
	s.v.Store(&st)
}
