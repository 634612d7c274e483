package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/noorweb/noorweb/internal/config"
)

// Open builds the Store selected by settings. prefs backs the "prefs"
// driver and may be nil otherwise; without it "prefs" degrades to memory.
func Open(ctx context.Context, settings config.Settings, prefs Preferences) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	driver := settings.Store.Driver
	var (
		backend Backend
		err     error
	)
	switch driver {
	case config.StoreDriverMemory:
		backend = NewMemoryBackend()
	case config.StoreDriverPrefs, "":
		if prefs == nil {
			driver, backend = config.StoreDriverMemory, NewMemoryBackend()
		} else {
			driver, backend = config.StoreDriverPrefs, &PrefsBackend{Prefs: prefs}
		}
	case config.StoreDriverRedis:
		backend, err = NewRedisBackend(ctx, settings.Redis.Addr, settings.Redis.Password, settings.Redis.DB)
	case config.StoreDriverSQLite, config.StoreDriverPostgres:
		backend, err = OpenSQL(ctx, driver, settings.Store.DSN)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrStoreDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}

	slog.Info(config.MsgStoreOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyDriver, driver,
	)
	return New(backend, driver), nil
}
