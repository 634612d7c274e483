package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/metrics"
)

// CityEntry is a snapshot of one tracked city.
type CityEntry struct {
	Location  Location       `json:"location"`
	Schedule  *DailySchedule `json:"-"`
	LocalTime string         `json:"localTime"`
	Next      *Event         `json:"next,omitempty"`
	Countdown string         `json:"countdown,omitempty"`
	Loading   bool           `json:"loading"`
	Err       string         `json:"error,omitempty"`
}

// AggregatorOptions tunes an Aggregator.
type AggregatorOptions struct {
	// MaxCities caps the tracked set. Zero means config.DefaultMaxCities.
	MaxCities int
	// MinCities is the floor enforced by Remove: 1 for the single-city
	// widget, 0 for the general panel.
	MinCities int
	// Interval is the tick cadence. Zero means one second.
	Interval time.Duration
	// OnChange receives the tracked locations after every add or remove.
	OnChange func([]Location)
}

type cityState struct {
	loc      Location
	schedule *DailySchedule
	local    string
	next     *Event
	count    string
	err      string
	gen      uint64
}

// Aggregator manages a bounded set of tracked cities. Each entry is ticked
// and refreshed independently: a failure in one never affects the others.
type Aggregator struct {
	zones   *ZoneClock
	fetcher TimingsFetcher
	opts    AggregatorOptions

	mu        sync.RWMutex
	entries   []*cityState
	observers []func([]CityEntry)
}

// NewAggregator builds an Aggregator.
func NewAggregator(zones *ZoneClock, fetcher TimingsFetcher, opts AggregatorOptions) *Aggregator {
	if opts.MaxCities <= 0 {
		opts.MaxCities = config.DefaultMaxCities
	}
	if opts.Interval <= 0 {
		opts.Interval = config.TickInterval
	}
	return &Aggregator{zones: zones, fetcher: fetcher, opts: opts}
}

// OnTick registers an observer called with a snapshot after every tick.
func (a *Aggregator) OnTick(fn func([]CityEntry)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, fn)
}

// Add tracks loc. It is a no-op, returning false, when loc is already
// tracked or the set is full.
func (a *Aggregator) Add(loc Location) bool {
	a.mu.Lock()
	if a.indexOf(loc.Name) >= 0 || len(a.entries) >= a.opts.MaxCities {
		a.mu.Unlock()
		slog.Debug(config.MsgCityRejected,
			config.LogKeyComponent, config.CompCities,
			config.LogKeyCity, loc.Name,
		)
		return false
	}
	st := &cityState{loc: loc}
	a.entries = append(a.entries, st)
	a.tickEntry(st, a.zones.Clock.Now())
	locs := a.locationsLocked()
	a.mu.Unlock()

	slog.Info(config.MsgCityAdded,
		config.LogKeyComponent, config.CompCities,
		config.LogKeyCity, loc.Name,
	)
	a.changed(locs)
	return true
}

// Remove untracks the named city. It is a no-op, returning false, when the
// city is unknown or removal would go below MinCities.
func (a *Aggregator) Remove(name string) bool {
	a.mu.Lock()
	i := a.indexOf(name)
	if i < 0 || len(a.entries)-1 < a.opts.MinCities {
		a.mu.Unlock()
		slog.Debug(config.MsgCityRejected,
			config.LogKeyComponent, config.CompCities,
			config.LogKeyCity, name,
		)
		return false
	}
	a.entries = append(a.entries[:i], a.entries[i+1:]...)
	locs := a.locationsLocked()
	a.mu.Unlock()

	slog.Info(config.MsgCityRemoved,
		config.LogKeyComponent, config.CompCities,
		config.LogKeyCity, name,
	)
	a.changed(locs)
	return true
}

// Len returns the number of tracked cities.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Locations returns the tracked locations in insertion order.
func (a *Aggregator) Locations() []Location {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.locationsLocked()
}

// Entries returns a snapshot of every tracked city.
func (a *Aggregator) Entries() []CityEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshotLocked()
}

// Tick recomputes every entry's local time and countdown for the instant now.
func (a *Aggregator) Tick(now time.Time) []CityEntry {
	a.mu.Lock()
	for _, st := range a.entries {
		a.tickEntry(st, now)
	}
	snap := a.snapshotLocked()
	observers := append([]func([]CityEntry){}, a.observers...)
	a.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return snap
}

// Run ticks every interval until ctx is cancelled.
func (a *Aggregator) Run(ctx context.Context) {
	ticker := time.NewTicker(a.opts.Interval)
	defer ticker.Stop()

	a.Tick(a.zones.Clock.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Tick(a.zones.Clock.Now())
		}
	}
}

// Refresh refetches the schedule of every tracked city concurrently.
func (a *Aggregator) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	for _, loc := range a.Locations() {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			a.RefreshCity(ctx, name)
		}(loc.Name)
	}
	wg.Wait()
}

// RefreshCity refetches the schedule of one city. If another refresh of the
// same city starts before this one resolves, this result is discarded.
func (a *Aggregator) RefreshCity(ctx context.Context, name string) {
	if a.fetcher == nil {
		return
	}

	a.mu.Lock()
	i := a.indexOf(name)
	if i < 0 {
		a.mu.Unlock()
		return
	}
	st := a.entries[i]
	st.gen++
	gen := st.gen
	loc := st.loc
	a.mu.Unlock()

	date := a.zones.NowIn(loc.Timezone)
	s, err := a.fetcher.FetchDay(ctx, loc, date)

	a.mu.Lock()
	defer a.mu.Unlock()
	// The entry may have been removed (or removed and re-added) meanwhile.
	if j := a.indexOf(name); j < 0 || a.entries[j] != st || st.gen != gen {
		metrics.SupersededLoads.Inc()
		return
	}
	if err != nil {
		st.err = err.Error()
		slog.Warn(config.MsgCityRefreshFail,
			config.LogKeyComponent, config.CompCities,
			config.LogKeyCity, name,
			config.LogKeyError, err,
		)
		return
	}
	st.schedule, st.err = s, ""
	a.tickEntry(st, a.zones.Clock.Now())
}

func (a *Aggregator) tickEntry(st *cityState, now time.Time) {
	local := a.zones.At(st.loc.Timezone, now)
	st.local = local.String()
	if st.schedule == nil {
		st.next, st.count = nil, ""
		return
	}
	ev := NextEvent(st.schedule, local)
	st.next = &ev
	st.count = CountdownTo(ev.Name, ev.At, local).String()
}

func (a *Aggregator) indexOf(name string) int {
	for i, st := range a.entries {
		if st.loc.Name == name {
			return i
		}
	}
	return -1
}

func (a *Aggregator) locationsLocked() []Location {
	out := make([]Location, len(a.entries))
	for i, st := range a.entries {
		out[i] = st.loc
	}
	return out
}

func (a *Aggregator) snapshotLocked() []CityEntry {
	out := make([]CityEntry, len(a.entries))
	for i, st := range a.entries {
		e := CityEntry{
			Location:  st.loc,
			Schedule:  st.schedule,
			LocalTime: st.local,
			Countdown: st.count,
			Loading:   st.schedule == nil && st.err == "",
			Err:       st.err,
		}
		if st.next != nil {
			next := *st.next
			e.Next = &next
		}
		out[i] = e
	}
	return out
}

func (a *Aggregator) changed(locs []Location) {
	metrics.TrackedCities.Set(float64(len(locs)))
	if a.opts.OnChange != nil {
		a.opts.OnChange(locs)
	}
}
