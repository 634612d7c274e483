package store

import "context"

// Preferences is the subset of fyne.Preferences used for persistence.
type Preferences interface {
	String(key string) string
	SetString(key string, value string)
	RemoveValue(key string)
}

// PrefsBackend stores entries in the desktop application's preferences.
// An empty string is treated as a missing key.
type PrefsBackend struct {
	Prefs Preferences
}

func (p *PrefsBackend) Load(_ context.Context, key string) ([]byte, bool, error) {
	v := p.Prefs.String(key)
	if v == "" {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (p *PrefsBackend) Save(_ context.Context, key string, data []byte) error {
	p.Prefs.SetString(key, string(data))
	return nil
}

func (p *PrefsBackend) Delete(_ context.Context, key string) error {
	p.Prefs.RemoveValue(key)
	return nil
}

func (p *PrefsBackend) Close() error { return nil }
