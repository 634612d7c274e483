package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/noorweb/noorweb/internal/auth"
	"github.com/noorweb/noorweb/internal/broadcast"
	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
	"github.com/noorweb/noorweb/internal/metrics"
	"github.com/noorweb/noorweb/internal/provider"
	"github.com/noorweb/noorweb/internal/server"
	"github.com/noorweb/noorweb/internal/store"
)

// services is the dependency graph shared by the desktop and headless modes.
type services struct {
	Store      *store.Store
	Prefs      *store.UserPrefs
	Zones      *engine.ZoneClock
	Aladhan    *provider.Aladhan
	Aggregator *engine.Aggregator
	Server     *server.Server

	// RamadanBoard is the Sehri/Iftar panel. It never drops its last city.
	RamadanBoard *engine.Aggregator

	defaultCity engine.Location
	publisher   *broadcast.Publisher
}

// newServices opens the store and wires every service. prefs backs the
// "prefs" store driver and may be nil.
func newServices(ctx context.Context, settings config.Settings, port string, prefs store.Preferences) (*services, error) {
	st, err := store.Open(ctx, settings, prefs)
	if err != nil {
		return nil, err
	}

	secret, err := auth.LoadSecret(settings.JWTSecret)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	svc := &services{
		Store: st,
		Prefs: store.NewUserPrefs(st),
		Zones: engine.NewZoneClock(engine.RealClock{}),
	}

	policy := engine.CalculationPolicy{Methods: settings.Methods, Adjustments: settings.HijriAdjustments}
	svc.Aladhan = provider.NewAladhan(policy)

	svc.defaultCity = engine.DefaultCity()
	if loc, err := engine.FindCity(settings.DefaultCity); err == nil {
		svc.defaultCity = loc
	}

	svc.Aggregator = engine.NewAggregator(svc.Zones, svc.Aladhan, engine.AggregatorOptions{
		MaxCities: settings.MaxCities,
		OnChange:  persistNames(config.KeyTrackedCities, svc.Prefs.SetTrackedCities),
	})
	addCities(svc.Aggregator, svc.Prefs.TrackedCities(ctx, []string{svc.defaultCity.Name}))

	svc.RamadanBoard = engine.NewAggregator(svc.Zones, svc.Aladhan, engine.AggregatorOptions{
		MaxCities: max(settings.MaxCities, len(engine.RamadanCities)),
		MinCities: 1,
		OnChange:  persistNames(config.KeyRamadanCities, svc.Prefs.SetRamadanCities),
	})
	addCities(svc.RamadanBoard, svc.Prefs.RamadanCities(ctx, engine.RamadanCities))
	if svc.RamadanBoard.Len() == 0 {
		svc.RamadanBoard.Add(svc.defaultCity)
	}

	svc.connectBroadcast(settings)

	reg := metrics.NewRegistry()
	svc.Server = server.New(settings.BindAddr, port, server.Deps{
		Zones:        svc.Zones,
		Timings:      svc.Aladhan,
		Aggregator:   svc.Aggregator,
		Ramadan:      engine.RamadanPolicy{Window: settings.DuaWindow},
		Policy:       policy,
		RamadanBoard: svc.RamadanBoard,
		DefaultCity:  svc.defaultCity.Name,
		Bookmarks:    store.NewBookmarks(st),
		Prefs:        svc.Prefs,
		Tasbeeh:      store.NewTasbeeh(st),
		Progress:     store.NewReadingProgress(st),
		Auth:         auth.NewService(st, secret),
		Quran:        provider.NewQuran(),
		Hadith:       provider.NewHadith(),
		Astronomy:    svc.Aladhan,
		Registry:     reg,
		CORSOrigins:  settings.CORSOrigins,
	})
	return svc, nil
}

// connectBroadcast publishes aggregator ticks when a broker is configured.
// A broker that cannot be reached disables the broadcast without failing startup.
func (s *services) connectBroadcast(settings config.Settings) {
	log := slog.With(config.LogKeyComponent, config.CompMain)
	if settings.MQTT.BrokerURL == "" {
		log.Info(config.MsgMQTTDisabled)
		return
	}
	pub, err := broadcast.Connect(settings.MQTT.BrokerURL, settings.MQTT.ClientID)
	if err != nil {
		log.Warn(config.ErrMQTTConnect, config.LogKeyError, err)
		return
	}
	s.publisher = pub
	s.Aggregator.OnTick(pub.Publish)
}

// addCities tracks every known name on agg. Unknown names are skipped.
func addCities(agg *engine.Aggregator, names []string) {
	for _, name := range names {
		if loc, err := engine.FindCity(name); err == nil {
			agg.Add(loc)
		}
	}
}

// persistNames returns an OnChange hook writing the tracked names with save.
func persistNames(key string, save func(context.Context, []string) error) func([]engine.Location) {
	return func(locs []engine.Location) {
		names := make([]string, len(locs))
		for i, l := range locs {
			names[i] = l.Name
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.StoreTimeout)
		defer cancel()
		if err := save(ctx, names); err != nil {
			slog.Warn(config.ErrStoreWrite,
				config.LogKeyComponent, config.CompCities,
				config.LogKeyKey, key,
				config.LogKeyError, err,
			)
		}
	}
}

// selectedCity is the stored city, or the configured default.
func (s *services) selectedCity(ctx context.Context) engine.Location {
	loc, err := engine.FindCity(s.Prefs.City(ctx, s.defaultCity.Name))
	if err != nil {
		return s.defaultCity
	}
	return loc
}

// refreshLoop keeps schedules and the calendar feed current in headless mode.
func (s *services) refreshLoop(ctx context.Context, settings config.Settings) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	gen := &engine.CalendarGenerator{
		Clock:   s.Zones.Clock,
		Fetcher: s.Aladhan,
		Zones:   s.Zones,
	}

	refresh := func() {
		s.Aggregator.Refresh(ctx)

		city := s.selectedCity(ctx)
		now := s.Zones.NowIn(city.Timezone)
		data, _, err := gen.Build(ctx, city, now.Year(), now.Month(), settings.ReminderMinutes)
		if err != nil {
			log.Error(config.MsgSyncFailed, config.LogKeyError, err, config.LogKeyCity, city.Name)
			return
		}
		s.Server.Update(data)
	}

	interval := refreshInterval(settings)

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)
	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// runRamadanBoard ticks the Ramadan board and refetches its schedules on
// the refresh interval until ctx is cancelled.
func (s *services) runRamadanBoard(ctx context.Context, settings config.Settings) {
	go s.RamadanBoard.Run(ctx)

	interval := refreshInterval(settings)
	s.RamadanBoard.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RamadanBoard.Refresh(ctx)
		}
	}
}

func refreshInterval(settings config.Settings) time.Duration {
	if settings.RefreshInterval <= 0 {
		return config.DefaultRefreshMin * time.Minute
	}
	return settings.RefreshInterval
}

// Close releases the broker connection and the store.
func (s *services) Close() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if err := s.Store.Close(); err != nil {
		slog.Warn(config.ErrStoreOpen, config.LogKeyComponent, config.CompMain, config.LogKeyError, err)
	}
}
