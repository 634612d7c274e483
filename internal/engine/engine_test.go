package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noorweb/noorweb/internal/engine"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// SteppingClock advances by Step on every reading. Safe for concurrent use.
type SteppingClock struct {
	mu   sync.Mutex
	Curr time.Time
	Step time.Duration
}

func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Curr
	c.Curr = c.Curr.Add(c.Step)
	return now
}

// MockFetcher simulates the timing provider using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// FetchDay implements engine.TimingsFetcher.
func (m *MockFetcher) FetchDay(ctx context.Context, loc engine.Location, date time.Time) (*engine.DailySchedule, error) {
	args := m.Called(ctx, loc, date)
	if s := args.Get(0); s != nil {
		return s.(*engine.DailySchedule), args.Error(1)
	}
	return nil, args.Error(1)
}

// FetchMonth implements engine.MonthFetcher.
func (m *MockFetcher) FetchMonth(ctx context.Context, loc engine.Location, year int, month time.Month) ([]*engine.DailySchedule, error) {
	args := m.Called(ctx, loc, year, month)
	if s := args.Get(0); s != nil {
		return s.([]*engine.DailySchedule), args.Error(1)
	}
	return nil, args.Error(1)
}

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

var lahore = engine.Location{Name: "Lahore", Country: "Pakistan", CountryCode: "PK", Timezone: "Asia/Karachi"}

func sampleTimings() map[engine.EventName]string {
	return map[engine.EventName]string{
		engine.Fajr:     "05:10",
		engine.Sunrise:  "06:30",
		engine.Dhuhr:    "12:15",
		engine.Asr:      "15:45",
		engine.Maghrib:  "18:45",
		engine.Isha:     "20:10",
		engine.Imsak:    "05:00",
		engine.Midnight: "00:27",
	}
}

func sampleSchedule(t *testing.T, loc engine.Location, day time.Time) *engine.DailySchedule {
	t.Helper()
	s, err := engine.NewDailySchedule(loc, engine.DatePair{Gregorian: day}, sampleTimings())
	require.NoError(t, err)
	return s
}

func tod(h, m, s int) engine.TimeOfDay {
	return engine.TimeOfDay{Hour: h, Minute: m, Second: s}
}
