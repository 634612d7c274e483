package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"AladhanBaseURL", config.AladhanBaseURL},
		{"QuranBaseURL", config.QuranBaseURL},
		{"HadithBaseURL", config.HadithBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Greater(t, config.DefaultRefreshMin, 0)
	assert.Equal(t, 6, config.DefaultMaxCities)
	assert.Equal(t, 15*time.Minute, config.DefaultDuaWindow)
	assert.Equal(t, 86400, config.SecondsPerDay)
	assert.InDelta(t, 0.025, config.ZakatRate, 1e-9)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

// TestPersistedKeys_Prefix keeps every stored key in the application namespace.
func TestPersistedKeys_Prefix(t *testing.T) {
	for _, k := range []string{
		config.KeyLanguage, config.KeyCity, config.KeyBookmarks, config.KeySession,
		config.KeyUsers, config.KeyReadingProgress, config.KeyTasbeeh, config.KeyTrackedCities,
	} {
		assert.True(t, strings.HasPrefix(k, "noorweb-"), k)
	}
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "NoorWeb/"))
}

// TestLookupTables covers the method and Hijri adjustment defaults.
func TestLookupTables(t *testing.T) {
	assert.Equal(t, 1, config.DefaultCalculationMethods["PK"])
	assert.Equal(t, 4, config.DefaultCalculationMethods["SA"])
	assert.Equal(t, 3, config.DefaultCalculationMethods["GB"])
	assert.Equal(t, 2, config.DefaultCalculationMethods["CA"])
	assert.Equal(t, -1, config.DefaultHijriAdjustments["BD"])
	_, ok := config.DefaultHijriAdjustments["SA"]
	assert.False(t, ok)
}

func TestLoadSettings_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "STORE_DRIVER", "MAX_CITIES", "DUA_WINDOW", "CALCULATION_METHODS", "HIJRI_ADJUSTMENTS")

	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPort, s.Port)
	assert.Equal(t, config.StoreDriverPrefs, s.Store.Driver)
	assert.Equal(t, config.DefaultMaxCities, s.MaxCities)
	assert.Equal(t, config.DefaultDuaWindow, s.DuaWindow)
	assert.Equal(t, 1, s.Methods["PK"])
	assert.Equal(t, -1, s.HijriAdjustments["PK"])
}

func TestLoadSettings_EnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORE_DRIVER=sqlite\nMAX_CITIES=4\nDUA_WINDOW=10m\nHIJRI_ADJUSTMENTS=PK:0,MA:1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	// godotenv never overrides variables that are already set.
	unsetEnv(t, "STORE_DRIVER", "MAX_CITIES", "DUA_WINDOW", "HIJRI_ADJUSTMENTS")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverSQLite, s.Store.Driver)
	assert.Equal(t, 4, s.MaxCities)
	assert.Equal(t, 10*time.Minute, s.DuaWindow)
	assert.Equal(t, 0, s.HijriAdjustments["PK"], "override replaces the built-in entry")
	assert.Equal(t, 1, s.HijriAdjustments["MA"])
	assert.Equal(t, -1, s.HijriAdjustments["IN"], "untouched entries survive")
}

// unsetEnv removes variables for the duration of a test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		k := k
		prev, had := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, prev)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}
