package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/metrics"
)

// ErrSuperseded is returned by Loader.Load when a newer request started
// before this one resolved. The fetched data has been discarded.
var ErrSuperseded = errors.New(config.ErrSuperseded)

// Loader keeps the schedule of the currently selected location. When the
// location or date changes while a fetch is in flight, the last request wins.
type Loader struct {
	Fetcher TimingsFetcher

	mu      sync.Mutex
	seq     uint64
	current *DailySchedule
}

// NewLoader returns a Loader backed by fetcher.
func NewLoader(fetcher TimingsFetcher) *Loader {
	return &Loader{Fetcher: fetcher}
}

// Load fetches the schedule of loc for date and commits it unless a newer
// Load started in the meantime. Retrying after a failure is safe.
func (l *Loader) Load(ctx context.Context, loc Location, date time.Time) (*DailySchedule, error) {
	if l.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}

	l.mu.Lock()
	l.seq++
	mine := l.seq
	l.mu.Unlock()

	log := slog.With(
		config.LogKeyComponent, config.CompLoader,
		config.LogKeyCity, loc.Name,
		config.LogKeySeq, mine,
	)

	s, err := l.Fetcher.FetchDay(ctx, loc, date)

	l.mu.Lock()
	defer l.mu.Unlock()

	if mine != l.seq {
		log.Debug(config.MsgStale, config.LogKeyLatest, l.seq)
		metrics.SupersededLoads.Inc()
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", loc.Name, err)
	}

	l.current = s
	log.Info(config.MsgScheduleLoaded)
	return s, nil
}

// Current returns the last committed schedule, or nil.
func (l *Loader) Current() *DailySchedule {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
