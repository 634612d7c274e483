package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/noorweb/noorweb/internal/config"
)

// ErrUnsupportedLanguage is returned by SetLanguage for unknown codes.
var ErrUnsupportedLanguage = errors.New(config.ErrUnsupportedLng)

// UserPrefs reads and writes the single-slot user preferences.
type UserPrefs struct {
	store *Store
}

// NewUserPrefs returns preferences backed by s.
func NewUserPrefs(s *Store) *UserPrefs {
	return &UserPrefs{store: s}
}

// Language returns the stored UI language. Unknown values yield the default.
func (p *UserPrefs) Language(ctx context.Context) string {
	lang := Get(ctx, p.store, config.KeyLanguage, config.DefaultLanguage)
	if !slices.Contains(config.SupportedLanguages, lang) {
		return config.DefaultLanguage
	}
	return lang
}

// SetLanguage stores lang, which must be one of config.SupportedLanguages.
func (p *UserPrefs) SetLanguage(ctx context.Context, lang string) error {
	if !slices.Contains(config.SupportedLanguages, lang) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return Set(ctx, p.store, config.KeyLanguage, lang)
}

// City returns the name of the selected city, or def.
func (p *UserPrefs) City(ctx context.Context, def string) string {
	return Get(ctx, p.store, config.KeyCity, def)
}

// SetCity stores the selected city name.
func (p *UserPrefs) SetCity(ctx context.Context, name string) error {
	return Set(ctx, p.store, config.KeyCity, name)
}

// TrackedCities returns the names on the multi-city panel, or def.
func (p *UserPrefs) TrackedCities(ctx context.Context, def []string) []string {
	return Get(ctx, p.store, config.KeyTrackedCities, def)
}

// SetTrackedCities stores the names on the multi-city panel.
func (p *UserPrefs) SetTrackedCities(ctx context.Context, names []string) error {
	return Set(ctx, p.store, config.KeyTrackedCities, names)
}

// RamadanCities returns the names on the Ramadan board, or def.
func (p *UserPrefs) RamadanCities(ctx context.Context, def []string) []string {
	return Get(ctx, p.store, config.KeyRamadanCities, def)
}

// SetRamadanCities stores the names on the Ramadan board.
func (p *UserPrefs) SetRamadanCities(ctx context.Context, names []string) error {
	return Set(ctx, p.store, config.KeyRamadanCities, names)
}
