package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings holds the runtime configuration read from the environment.
// Compile-time defaults live in the constants above; Settings only carries
// values an operator is expected to override per deployment.
type Settings struct {
	BindAddr string `envconfig:"BIND_ADDR" default:"127.0.0.1"`
	Port     string `envconfig:"PORT" default:"18080"`

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"prefs"`
		DSN    string `envconfig:"STORE_DSN"`
	} `envconfig:""`

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	} `envconfig:""`

	MQTT struct {
		BrokerURL string `envconfig:"MQTT_BROKER_URL"`
		ClientID  string `envconfig:"MQTT_CLIENT_ID" default:"server"`
	} `envconfig:""`

	JWTSecret string `envconfig:"JWT_SECRET"`

	DefaultCity      string         `envconfig:"DEFAULT_CITY" default:"Lahore"`
	MaxCities        int            `envconfig:"MAX_CITIES" default:"6"`
	DuaWindow        time.Duration  `envconfig:"DUA_WINDOW" default:"15m"`
	RefreshInterval  time.Duration  `envconfig:"REFRESH_INTERVAL" default:"60m"`
	ReminderMinutes  int            `envconfig:"REMINDER_MINUTES" default:"0"`
	HijriAdjustments map[string]int `envconfig:"HIJRI_ADJUSTMENTS"`
	Methods          map[string]int `envconfig:"CALCULATION_METHODS"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// LoadSettings reads an optional .env file and then the process environment.
// A missing .env file is not an error.
func LoadSettings(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{EnvFileName}
	}
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
		}
		slog.Debug(MsgEnvFileMissing, LogKeyComponent, CompConfig)
	}

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
	}
	s.applyTables()
	return s, nil
}

// applyTables merges operator overrides on top of the built-in lookup tables.
func (s *Settings) applyTables() {
	s.Methods = mergeTable(DefaultCalculationMethods, s.Methods)
	s.HijriAdjustments = mergeTable(DefaultHijriAdjustments, s.HijriAdjustments)
	if s.MaxCities <= 0 {
		s.MaxCities = DefaultMaxCities
	}
	if s.DuaWindow <= 0 {
		s.DuaWindow = DefaultDuaWindow
	}
}

func mergeTable(base, override map[string]int) map[string]int {
	out := make(map[string]int, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
