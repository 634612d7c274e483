package ui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
	"github.com/noorweb/noorweb/internal/server"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// fakeFetcher serves one fixed schedule per day, or err when set.
type fakeFetcher struct {
	mu       sync.Mutex
	err      error
	dayCalls int
}

var fixtureTimings = map[engine.EventName]string{
	engine.Fajr:     "05:00",
	engine.Sunrise:  "06:20",
	engine.Dhuhr:    "12:15",
	engine.Asr:      "15:45",
	engine.Maghrib:  "18:05",
	engine.Isha:     "19:30",
	engine.Imsak:    "04:50",
	engine.Midnight: "00:10",
}

func (f *fakeFetcher) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dayCalls
}

func (f *fakeFetcher) FetchDay(_ context.Context, loc engine.Location, date time.Time) (*engine.DailySchedule, error) {
	f.mu.Lock()
	f.dayCalls++
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return engine.NewDailySchedule(loc, engine.DatePair{Gregorian: date}, fixtureTimings)
}

func (f *fakeFetcher) FetchMonth(ctx context.Context, loc engine.Location, year int, month time.Month) ([]*engine.DailySchedule, error) {
	var days []*engine.DailySchedule
	for d := 1; d <= 3; d++ {
		s, err := f.FetchDay(ctx, loc, time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
		if err != nil {
			return nil, err
		}
		days = append(days, s)
	}
	return days, nil
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockTray implements minimal system tray functionality for headless testing.
type MockTray struct {
	Menu *fyne.Menu
}

func (m *MockTray) SetSystemTrayMenu(menu *fyne.Menu) {
	m.Menu = menu
}

func (m *MockTray) SetSystemTrayIcon(icon fyne.Resource) {}
func (m *MockTray) SetSystemTrayWindow(w fyne.Window)    {}
func (m *MockTray) Run()                                 {}
func (m *MockTray) Quit()                                {}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

// 07:00 UTC is 12:00 in Lahore, fifteen minutes before Dhuhr.
var fixedNow = time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)

// setupTestApp initializes a headless Fyne app with fake dependencies.
func setupTestApp(t *testing.T) (*NoorWebApp, *fakeFetcher, *MockTray) {
	a := test.NewApp()

	clock := MockClock{CurrentTime: fixedNow}
	fetcher := &fakeFetcher{}
	agg := engine.NewAggregator(engine.NewZoneClock(clock), fetcher, engine.AggregatorOptions{MaxCities: 2})
	srv := server.New("", "0", server.Deps{})
	mockTray := &MockTray{}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := NewNoorWebApp(a, ctx, srv, fetcher, agg)
	app.Tray = mockTray
	app.Clock = clock

	// Run() is skipped, load translations manually.
	app.SetupI18n()
	app.Preferences.SetString(config.PrefLanguage, "en")
	app.UpdateLocalizer()

	t.Cleanup(app.stopCountdown)
	return app, fetcher, mockTray
}

func (app *NoorWebApp) trayText() string {
	app.trayMu.Lock()
	defer app.trayMu.Unlock()
	return app.TrayStatusItem.Label
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	app, _, _ := setupTestApp(t)

	assert.Equal(t, "Settings...", app.GetMsg(config.TKeyMenuSettings))

	app.Preferences.SetString(config.PrefLanguage, "ur")
	app.UpdateLocalizer()
	assert.Equal(t, "ترتیبات...", app.GetMsg(config.TKeyMenuSettings))
	assert.Equal(t, "مغرب", app.prayerName(engine.Maghrib))
}

func TestLocalization_SupportedLanguagesDetected(t *testing.T) {
	app, _, _ := setupTestApp(t)
	assert.ElementsMatch(t, []string{"en", "ur"}, app.SupportedLanguages)
}

func TestLocalization_SummaryFormatter(t *testing.T) {
	app, _, _ := setupTestApp(t)

	formatter := app.buildSummaryFormatter()
	assert.Equal(t, "Maghrib (Lahore)", formatter(engine.Maghrib, "Lahore"))

	app.Preferences.SetString(config.PrefLanguage, "ur")
	app.UpdateLocalizer()
	assert.Equal(t, "فجر (Karachi)", formatter(engine.Fajr, "Karachi"))
}

func TestLocalization_FallbacksWithoutLocalizer(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.Localizer = nil

	assert.Equal(t, "Isha (Dubai)", app.buildSummaryFormatter()(engine.Isha, "Dubai"))
	cd := engine.Countdown{Target: engine.Fajr, Remaining: time.Hour}
	assert.Equal(t, "Fajr in 01:00:00", app.trayLabel(cd))
	assert.Equal(t, config.TKeyMenuRefresh, app.GetMsg(config.TKeyMenuRefresh))
}

func TestTrayLabel(t *testing.T) {
	app, _, _ := setupTestApp(t)

	cd := engine.Countdown{Target: engine.Asr, Remaining: 2*time.Hour + 3*time.Minute + 4*time.Second}
	assert.Equal(t, "Asr in 02:03:04", app.trayLabel(cd))
	assert.Equal(t, "It is time for Asr.", app.prayerNotice(engine.Asr))
}

// -----------------------------------------------------------------------------
// Configuration & Preferences Tests
// -----------------------------------------------------------------------------

func TestSelectedCity(t *testing.T) {
	app, _, _ := setupTestApp(t)

	assert.Equal(t, config.DefaultCityName, app.selectedCity().Name)

	app.Preferences.SetString(config.PrefCity, "Dubai")
	assert.Equal(t, "Dubai", app.selectedCity().Name)

	app.Preferences.SetString(config.PrefCity, "Atlantis")
	assert.Equal(t, config.DefaultCityName, app.selectedCity().Name)
}

func TestReminderMinutes(t *testing.T) {
	app, _, _ := setupTestApp(t)

	tests := []struct {
		name    string
		enabled bool
		val     int
		want    int
	}{
		{"Disabled", false, 10, 0},
		{"Enabled", true, 15, 15},
		{"Negative", true, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.Preferences.SetBool(config.PrefReminderEnabled, tt.enabled)
			app.Preferences.SetInt(config.PrefReminderValue, tt.val)
			assert.Equal(t, tt.want, app.reminderMinutes())
		})
	}
}

func TestConfiguration_WorkerSignal(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.watchPreferences()

	signalReceived := make(chan bool)
	go func() {
		select {
		case key := <-app.configChan:
			signalReceived <- key == config.PrefInterval
		case <-time.After(500 * time.Millisecond):
			signalReceived <- false
		}
	}()

	app.Preferences.SetInt(config.PrefInterval, 120)

	assert.True(t, <-signalReceived, "Changing interval should notify background worker")
}

// -----------------------------------------------------------------------------
// Sync Logic Integration Tests
// -----------------------------------------------------------------------------

func TestPerformSync_Success(t *testing.T) {
	app, fetcher, mockTray := setupTestApp(t)
	app.setupTrayMenu()

	lahore, err := engine.FindCity("Lahore")
	require.NoError(t, err)
	require.True(t, app.Aggregator.Add(lahore))

	app.performSync(false)

	require.NotNil(t, app.Loader.Current())
	assert.Equal(t, "Lahore", app.Loader.Current().Location.Name)
	assert.GreaterOrEqual(t, fetcher.calls(), 2)

	// Calendar feed is published.
	w := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "SUMMARY:Dhuhr (Lahore)")

	// Tracked cities are refreshed.
	entries := app.Aggregator.Entries()
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Next)
	assert.Equal(t, engine.Dhuhr, entries[0].Next.Name)

	// The tray counts down to the next prayer of the selected city.
	require.NotNil(t, mockTray.Menu)
	require.Eventually(t, func() bool {
		return app.trayText() == "Dhuhr in 00:15:00"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestPerformSync_Failure(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)
	app.setupTrayMenu()
	fetcher.fail(errors.New("connection refused"))

	app.performSync(true)

	assert.Nil(t, app.Loader.Current())
	assert.Equal(t, config.FallbackTrayError, app.trayText())

	w := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPerformSync_FailureKeepsLastSchedule(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)
	app.setupTrayMenu()

	app.performSync(false)
	require.NotNil(t, app.Loader.Current())

	fetcher.fail(errors.New("timeout"))
	app.performSync(false)

	assert.NotNil(t, app.Loader.Current())
	assert.NotEqual(t, config.FallbackTrayError, app.trayText())
}

func TestCountdown_ReplacedOnRestart(t *testing.T) {
	app, _, _ := setupTestApp(t)
	app.setupTrayMenu()

	loc, err := engine.FindCity("Lahore")
	require.NoError(t, err)
	s, err := engine.NewDailySchedule(loc, engine.DatePair{Gregorian: fixedNow}, fixtureTimings)
	require.NoError(t, err)

	app.startCountdown(s)
	app.countMu.Lock()
	first := app.countdown
	app.countMu.Unlock()
	require.NotNil(t, first)

	app.startCountdown(s)

	select {
	case <-first.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("previous countdown was not cancelled")
	}

	app.stopCountdown()
	app.countMu.Lock()
	assert.Nil(t, app.countdown)
	app.countMu.Unlock()
}

func TestRefreshTrayMenu_Relabels(t *testing.T) {
	app, _, mockTray := setupTestApp(t)
	app.setupTrayMenu()

	app.Preferences.SetString(config.PrefLanguage, "ur")
	app.UpdateLocalizer()
	app.RefreshTrayMenu()

	require.NotNil(t, mockTray.Menu)
	assert.Equal(t, "ترتیبات...", app.TraySettingsItem.Label)
	assert.Equal(t, "شہر...", app.TrayCitiesItem.Label)
}
