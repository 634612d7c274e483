package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
	"github.com/noorweb/noorweb/internal/server"
	"github.com/noorweb/noorweb/internal/store"
)

// ScheduleFetcher provides both the daily schedule used by the tray and the
// monthly schedule used by the calendar feed.
type ScheduleFetcher interface {
	engine.TimingsFetcher
	engine.MonthFetcher
}

// NoorWebApp encapsulates the UI state, preferences, and background logic.
type NoorWebApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server     *server.Server
	Fetcher    ScheduleFetcher
	Loader     *engine.Loader
	Aggregator *engine.Aggregator // Optional; shared with the HTTP API.
	Prefs      *store.UserPrefs   // Optional; mirrors the selected city for the API.
	Clock      engine.Clock       // Injected clock for testability (e.g. mocking time travel)

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TrayCitiesItem   *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	// trayMu serializes label updates coming from the countdown goroutine.
	trayMu    sync.Mutex
	countMu   sync.Mutex
	countdown *engine.Subscription
	countGen  uint64

	citiesWindow fyne.Window
}

// NewNoorWebApp constructs the application and wires dependencies.
func NewNoorWebApp(a fyne.App, ctx context.Context, srv *server.Server, fetcher ScheduleFetcher, agg *engine.Aggregator) *NoorWebApp {
	a.SetIcon(theme.HistoryIcon())

	return &NoorWebApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Fetcher:            fetcher,
		Loader:             engine.NewLoader(fetcher),
		Aggregator:         agg,
		Clock:              engine.RealClock{}, // Default to real clock in production
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
	}
}

// Run launches the application services and the main UI loop.
func (app *NoorWebApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyPort, app.Server.Port,
			config.LogKeyComponent, config.CompUI)

		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	if app.Aggregator != nil {
		go app.Aggregator.Run(app.Ctx)
	}
	go app.backgroundWorker()

	app.App.Run()
	app.stopCountdown()
}

// watchPreferences monitors changes to settings to trigger immediate updates.
func (app *NoorWebApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *NoorWebApp) setupTrayMenu() {
	// The status item opens the cities panel.
	app.TrayStatusItem = fyne.NewMenuItem(app.GetMsg(config.TKeyTrayLoading), func() {
		app.ShowCitiesWindow()
	})

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performSync(true)
	})

	app.TrayCitiesItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuCities), func() {
		app.ShowCitiesWindow()
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayRefreshItem,
		app.TrayCitiesItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *NoorWebApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayRefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
	app.TrayCitiesItem.Label = app.GetMsg(config.TKeyMenuCities)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// backgroundWorker manages the periodic schedule refresh.
func (app *NoorWebApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performSync(false)

	getInterval := func() time.Duration {
		val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
		if val <= 0 {
			val = config.DefaultRefreshMin
		}
		return time.Duration(val) * time.Minute
	}

	currentDuration := getInterval()
	ticker := time.NewTicker(currentDuration)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, currentDuration)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			newDuration := getInterval()
			if newDuration != currentDuration {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, currentDuration, config.LogKeyNew, newDuration)
				currentDuration = newDuration
				ticker.Reset(currentDuration)
			}

		case <-ticker.C:
			app.performSync(false)
		}
	}
}

// performSync executes the refresh pipeline (Load -> Countdown -> Calendar -> Cities).
func (app *NoorWebApp) performSync(manual bool) {
	slog.Info(config.MsgSyncReq,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	loc := app.selectedCity()
	zones := app.zones()
	today := zones.NowIn(loc.Timezone)

	s, err := app.Loader.Load(app.Ctx, loc, today)
	if errors.Is(err, engine.ErrSuperseded) {
		// A newer refresh owns the tray now.
		return
	}
	if err != nil {
		app.syncFailed(manual, err)
		return
	}
	app.startCountdown(s)

	gen := &engine.CalendarGenerator{
		Clock:         app.Clock,
		Fetcher:       app.Fetcher,
		Zones:         zones,
		FormatSummary: app.buildSummaryFormatter(),
	}

	icsData, _, err := gen.Build(app.Ctx, loc, today.Year(), today.Month(), app.reminderMinutes())
	if err != nil {
		app.syncFailed(manual, err)
		return
	}
	app.Server.Update(icsData)

	if app.Aggregator != nil {
		app.Aggregator.Refresh(app.Ctx)
	}

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
}

func (app *NoorWebApp) syncFailed(manual bool, err error) {
	slog.Error(config.MsgSyncFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
	if manual {
		app.App.SendNotification(fyne.NewNotification(config.TitleSyncError, app.GetMsg(config.TKeyNotifError)))
	}
	if app.Loader.Current() == nil {
		app.setTrayLabel(config.FallbackTrayError)
	}
}

// startCountdown points the tray at the next event of s, replacing any
// running countdown.
func (app *NoorWebApp) startCountdown(s *engine.DailySchedule) {
	if s == nil {
		return
	}
	zones := app.zones()
	tz := s.Location.Timezone
	ev := engine.NextEvent(s, zones.Now(tz))

	ticker := engine.NewTicker(zones)
	target := engine.Target{Name: ev.Name, Time: ev.At, Zone: tz}

	app.countMu.Lock()
	defer app.countMu.Unlock()
	if app.countdown != nil {
		app.countdown.Cancel()
	}
	app.countGen++
	gen := app.countGen

	app.countdown = ticker.Subscribe(app.Ctx, target,
		app.updateTrayStatus,
		func() {
			app.App.SendNotification(fyne.NewNotification(config.AppName, app.prayerNotice(ev.Name)))
			go app.advanceCountdown(gen)
		},
	)
}

// advanceCountdown waits for the reached event to pass, then retargets the
// tray at the following one.
func (app *NoorWebApp) advanceCountdown(gen uint64) {
	select {
	case <-app.Ctx.Done():
		return
	case <-time.After(config.CompletionThreshold):
	}

	app.countMu.Lock()
	stale := app.countGen != gen
	app.countMu.Unlock()
	if stale {
		return
	}

	slog.Debug(config.MsgTrayRetarget, config.LogKeyComponent, config.CompUI)
	app.startCountdown(app.Loader.Current())
}

func (app *NoorWebApp) stopCountdown() {
	app.countMu.Lock()
	defer app.countMu.Unlock()
	if app.countdown != nil {
		app.countdown.Cancel()
		app.countdown = nil
	}
	app.countGen++
}

// updateTrayStatus renders "<prayer> in HH:MM:SS" in the top menu item.
func (app *NoorWebApp) updateTrayStatus(cd engine.Countdown) {
	app.setTrayLabel(app.trayLabel(cd))
}

func (app *NoorWebApp) setTrayLabel(label string) {
	app.trayMu.Lock()
	defer app.trayMu.Unlock()
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}
	if app.TrayStatusItem.Label == label {
		return
	}
	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

func (app *NoorWebApp) trayLabel(cd engine.Countdown) string {
	prayer := app.prayerName(cd.Target)
	msg := app.localize(config.TKeyTrayStatus, map[string]interface{}{
		"Prayer":    prayer,
		"Remaining": cd.String(),
	})
	if msg == "" {
		return fmt.Sprintf(config.FallbackTrayStatus, prayer, cd.String())
	}
	return msg
}

func (app *NoorWebApp) prayerNotice(name engine.EventName) string {
	prayer := app.prayerName(name)
	msg := app.localize(config.TKeyNotifPrayer, map[string]interface{}{"Prayer": prayer})
	if msg == "" {
		return prayer
	}
	return msg
}

// selectedCity resolves the city preference against the catalog.
func (app *NoorWebApp) selectedCity() engine.Location {
	name := app.Preferences.StringWithFallback(config.PrefCity, config.DefaultCityName)
	loc, err := engine.FindCity(name)
	if err != nil {
		return engine.DefaultCity()
	}
	return loc
}

// reminderMinutes returns the alarm offset for calendar events, 0 when disabled.
func (app *NoorWebApp) reminderMinutes() int {
	if !app.Preferences.Bool(config.PrefReminderEnabled) {
		return 0
	}
	val := app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)
	if val < 0 {
		return 0
	}
	return val
}

func (app *NoorWebApp) zones() *engine.ZoneClock {
	return engine.NewZoneClock(app.Clock)
}

// buildSummaryFormatter returns a closure that localizes the event summary.
func (app *NoorWebApp) buildSummaryFormatter() func(prayer engine.EventName, city string) string {
	return func(prayer engine.EventName, city string) string {
		name := app.prayerName(prayer)
		msg := app.localize(config.TKeyEvtSummary, map[string]interface{}{
			"Prayer": name,
			"City":   city,
		})
		if msg == "" {
			return fmt.Sprintf(config.FallbackSummary, name, city)
		}
		return msg
	}
}

var prayerKeys = map[engine.EventName]string{
	engine.Fajr:     config.TKeyPrayerFajr,
	engine.Sunrise:  config.TKeyPrayerSunrise,
	engine.Dhuhr:    config.TKeyPrayerDhuhr,
	engine.Asr:      config.TKeyPrayerAsr,
	engine.Maghrib:  config.TKeyPrayerMaghrib,
	engine.Isha:     config.TKeyPrayerIsha,
	engine.Imsak:    config.TKeyPrayerImsak,
	engine.Midnight: config.TKeyPrayerMidnight,
}

// prayerName returns the localized event name, or the raw name when no
// translation exists.
func (app *NoorWebApp) prayerName(name engine.EventName) string {
	key, ok := prayerKeys[name]
	if !ok {
		return string(name)
	}
	if msg := app.GetMsg(key); msg != key {
		return msg
	}
	return string(name)
}
