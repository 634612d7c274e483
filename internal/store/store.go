// Package store persists small JSON documents under string keys.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/metrics"
)

// Backend is the raw key-value medium behind a Store.
type Backend interface {
	// Load returns the stored bytes and whether the key exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save returns once the write is durable for the backend.
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store wraps a Backend with JSON serialization and fallback semantics.
type Store struct {
	backend Backend
	driver  string
}

// New wraps backend. driver is only used to label logs.
func New(backend Backend, driver string) *Store {
	return &Store{backend: backend, driver: driver}
}

// Driver returns the backend label.
func (s *Store) Driver() string {
	return s.driver
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreDelete, err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Get reads key into a T. A missing key yields def silently. An unreadable
// or corrupt entry yields def too; corrupt entries are also removed.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	v, err := Load(ctx, s, key, def)
	if err != nil {
		slog.Warn(config.MsgStoreReadFail,
			config.LogKeyComponent, config.CompStore,
			config.LogKeyDriver, s.driver,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return def
	}
	return v
}

// Load is Get for read-modify-write callers: a backend failure is returned
// instead of def, so the caller never writes a partial value back. Missing
// and corrupt entries still yield def with a nil error.
func Load[T any](ctx context.Context, s *Store, key string, def T) (T, error) {
	raw, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		return def, fmt.Errorf("%s: %w", config.ErrStoreRead, err)
	}
	if !ok {
		return def, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn(config.MsgStoreCorrupt,
			config.LogKeyComponent, config.CompStore,
			config.LogKeyDriver, s.driver,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		metrics.StoreCorruptions.WithLabelValues(key).Inc()
		// Best effort: the next Set overwrites the entry anyway.
		_ = s.backend.Delete(ctx, key)
		return def, nil
	}
	return v, nil
}

// Set serializes v and writes it under key.
func Set[T any](ctx context.Context, s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreEncode, err)
	}
	if err := s.backend.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return nil
}
