package store

import (
	"context"
	"sync"

	"github.com/noorweb/noorweb/internal/config"
)

// Tasbeeh keeps one counter per dhikr.
type Tasbeeh struct {
	store *Store
	mu    sync.Mutex
}

// NewTasbeeh returns counters backed by s.
func NewTasbeeh(s *Store) *Tasbeeh {
	return &Tasbeeh{store: s}
}

func (t *Tasbeeh) counts(ctx context.Context) map[string]int {
	m := Get(ctx, t.store, config.KeyTasbeeh, map[string]int{})
	if m == nil {
		m = map[string]int{}
	}
	return m
}

// load is counts for writers: a failed read aborts the write.
func (t *Tasbeeh) load(ctx context.Context) (map[string]int, error) {
	m, err := Load(ctx, t.store, config.KeyTasbeeh, map[string]int{})
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]int{}
	}
	return m, nil
}

// Increment adds one to dhikr and returns the new count.
func (t *Tasbeeh) Increment(ctx context.Context, dhikr string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, err := t.load(ctx)
	if err != nil {
		return 0, err
	}
	m[dhikr]++
	if err := Set(ctx, t.store, config.KeyTasbeeh, m); err != nil {
		return 0, err
	}
	return m[dhikr], nil
}

// Reset sets dhikr back to zero.
func (t *Tasbeeh) Reset(ctx context.Context, dhikr string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, err := t.load(ctx)
	if err != nil {
		return err
	}
	m[dhikr] = 0
	return Set(ctx, t.store, config.KeyTasbeeh, m)
}

// Count returns the current count of dhikr.
func (t *Tasbeeh) Count(ctx context.Context, dhikr string) int {
	return t.counts(ctx)[dhikr]
}

// All returns every counter.
func (t *Tasbeeh) All(ctx context.Context) map[string]int {
	return t.counts(ctx)
}
