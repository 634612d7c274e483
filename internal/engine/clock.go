package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/metrics"
)

// Clock abstracts time.Now() to allow deterministic testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// ErrBadTime is returned for unparseable time-of-day strings.
var ErrBadTime = errors.New(config.ErrBadTime)

// TimeOfDay is a wall-clock reading with no date component.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Seconds returns the number of seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// String renders the reading as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf(config.CountdownFormat, t.Hour, t.Minute, t.Second)
}

// Short renders the reading as HH:MM.
func (t TimeOfDay) Short() string {
	return fmt.Sprintf(config.TimeOfDayFormat, t.Hour, t.Minute)
}

// TimeOfDayOf extracts the wall-clock reading of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{Hour: h, Minute: m, Second: s}
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS", ignoring any trailing zone
// annotation such as "05:10 (PKT)".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	value := strings.TrimSpace(raw)
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTime, raw)
	}

	limits := []int{23, 59, 59}
	fields := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrBadTime, raw)
		}
		fields[i] = n
	}
	return TimeOfDay{Hour: fields[0], Minute: fields[1], Second: fields[2]}, nil
}

// ZoneClock decomposes instants into wall-clock readings for IANA zones.
// An unknown zone never produces an error: the host's local zone is used
// instead. Every fallback is counted; the warning is logged once per zone.
type ZoneClock struct {
	Clock Clock

	warned sync.Map // zone name -> struct{}
}

// NewZoneClock returns a ZoneClock backed by the given clock, or the real
// clock when nil.
func NewZoneClock(c Clock) *ZoneClock {
	if c == nil {
		c = RealClock{}
	}
	return &ZoneClock{Clock: c}
}

// Location resolves tz, falling back to time.Local. An empty zone means the
// host zone and is not treated as a fallback.
func (z *ZoneClock) Location(tz string) *time.Location {
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		metrics.TimezoneFallbacks.WithLabelValues(tz).Inc()
		if _, seen := z.warned.LoadOrStore(tz, struct{}{}); !seen {
			slog.Warn(config.MsgZoneFallback,
				config.LogKeyComponent, config.CompClock,
				config.LogKeyZone, tz,
				config.LogKeyError, err,
			)
		}
		return time.Local
	}
	return loc
}

// At decomposes t for the zone tz.
func (z *ZoneClock) At(tz string, t time.Time) TimeOfDay {
	return TimeOfDayOf(t.In(z.Location(tz)))
}

// Now decomposes the current instant for the zone tz.
func (z *ZoneClock) Now(tz string) TimeOfDay {
	return z.At(tz, z.Clock.Now())
}

// NowIn returns the current instant expressed in the zone tz.
func (z *ZoneClock) NowIn(tz string) time.Time {
	return z.Clock.Now().In(z.Location(tz))
}
