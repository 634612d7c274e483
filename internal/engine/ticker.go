package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/metrics"
)

// Target is a single countdown goal: an event time-of-day in a zone.
type Target struct {
	Name EventName
	Time TimeOfDay
	Zone string
}

// Ticker recomputes countdowns once per interval. Each subscription owns
// its own goroutine and timer, so subscribers tick independently.
type Ticker struct {
	Zones    *ZoneClock
	Interval time.Duration
}

// NewTicker returns a Ticker with the default one-second cadence.
func NewTicker(zones *ZoneClock) *Ticker {
	return &Ticker{Zones: zones, Interval: config.TickInterval}
}

// Subscription is a running countdown. Cancel stops it; cancelling the
// context passed to Subscribe has the same effect.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the periodic recomputation. It does not wait for the
// goroutine to exit, so it is safe to call from inside a callback.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Done is closed once the subscription goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe starts a countdown toward target. onTick receives every
// recomputation, starting immediately. onComplete fires at most once per
// rollover, when the remaining time reaches the completion threshold.
// Either callback may be nil.
func (t *Ticker) Subscribe(ctx context.Context, target Target, onTick func(Countdown), onComplete func()) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	go t.run(ctx, sub, target, onTick, onComplete)
	return sub
}

func (t *Ticker) run(ctx context.Context, sub *Subscription, target Target, onTick func(Countdown), onComplete func()) {
	defer close(sub.done)

	interval := t.Interval
	if interval <= 0 {
		interval = config.TickInterval
	}

	var latch completionLatch
	tick := func() {
		cd := CountdownTo(target.Name, target.Time, t.Zones.Now(target.Zone))
		if onTick != nil {
			onTick(cd)
		}
		if latch.observe(cd.Remaining) {
			slog.Debug(config.MsgCountdownDone,
				config.LogKeyComponent, config.CompTicker,
				config.LogKeyEvent, target.Name,
				config.LogKeyZone, target.Zone,
			)
			metrics.CountdownCompletions.WithLabelValues(string(target.Name)).Inc()
			if onComplete != nil {
				onComplete()
			}
		}
	}

	tick()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug(config.MsgTickerStop,
				config.LogKeyComponent, config.CompTicker,
				config.LogKeyEvent, target.Name,
			)
			return
		case <-ticker.C:
			tick()
		}
	}
}

// completionLatch guards the completion callback. A cycle ends when the
// remaining time grows by at least config.RolloverMinJump (the target rolled
// over to the next day); a DST fall-back adds an hour and is ignored. Within a
// cycle the callback fires once, either at the threshold or, if ticks
// skipped past it, on the rollover itself.
type completionLatch struct {
	prev    time.Duration
	started bool
	fired   bool
}

func (l *completionLatch) observe(remaining time.Duration) bool {
	wrapped := l.started && remaining-l.prev >= config.RolloverMinJump
	l.prev, l.started = remaining, true

	if wrapped {
		missed := !l.fired
		l.fired = false
		if missed {
			return true
		}
	}
	if !l.fired && remaining <= config.CompletionThreshold {
		l.fired = true
		return true
	}
	return false
}
