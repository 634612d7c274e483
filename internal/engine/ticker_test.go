package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noorweb/noorweb/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickRecorder struct {
	mu        sync.Mutex
	remaining []time.Duration
	completed int
}

func (r *tickRecorder) onTick(cd engine.Countdown) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = append(r.remaining, cd.Remaining)
}

func (r *tickRecorder) onComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *tickRecorder) snapshot() ([]time.Duration, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.remaining...), r.completed
}

func newTestTicker(step time.Duration) *engine.Ticker {
	clock := &SteppingClock{Curr: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Step: step}
	return &engine.Ticker{Zones: engine.NewZoneClock(clock), Interval: time.Millisecond}
}

func TestTicker_CountsDownAndCompletesOnce(t *testing.T) {
	tk := newTestTicker(time.Second)
	rec := &tickRecorder{}

	target := engine.Target{Name: engine.Fajr, Time: tod(0, 0, 5), Zone: "UTC"}
	sub := tk.Subscribe(context.Background(), target, rec.onTick, rec.onComplete)

	assert.Eventually(t, func() bool {
		ticks, _ := rec.snapshot()
		return len(ticks) >= 10
	}, 2*time.Second, 5*time.Millisecond)

	sub.Cancel()
	<-sub.Done()

	ticks, completed := rec.snapshot()
	require.GreaterOrEqual(t, len(ticks), 6)

	for i := 1; i < 5; i++ {
		assert.Less(t, ticks[i], ticks[i-1], "remaining must strictly decrease before the target")
	}
	assert.Equal(t, 5*time.Second, ticks[0])
	assert.Equal(t, time.Second, ticks[4])
	assert.Equal(t, 24*time.Hour, ticks[5], "target equal to now rolls over to the next day")
	assert.Equal(t, 1, completed)
}

func TestTicker_CompletesOnRolloverWhenThresholdSkipped(t *testing.T) {
	tk := newTestTicker(3 * time.Second)
	rec := &tickRecorder{}

	// Readings: 5s, 2s, then the target is passed and rolls over.
	target := engine.Target{Name: engine.Maghrib, Time: tod(0, 0, 5), Zone: "UTC"}
	sub := tk.Subscribe(context.Background(), target, rec.onTick, rec.onComplete)

	assert.Eventually(t, func() bool {
		ticks, _ := rec.snapshot()
		return len(ticks) >= 6
	}, 2*time.Second, 5*time.Millisecond)

	sub.Cancel()
	<-sub.Done()

	_, completed := rec.snapshot()
	assert.Equal(t, 1, completed)
}

func TestTicker_DSTFallBackIsNotARollover(t *testing.T) {
	// 05:59:50 UTC is 01:59:50 EDT; ten seconds later New York falls back
	// to 01:00:00 EST and the remaining time grows by an hour.
	clock := &SteppingClock{Curr: time.Date(2025, 11, 2, 5, 59, 50, 0, time.UTC), Step: time.Second}
	tk := &engine.Ticker{Zones: engine.NewZoneClock(clock), Interval: time.Millisecond}
	rec := &tickRecorder{}

	target := engine.Target{Name: engine.Fajr, Time: tod(5, 30, 0), Zone: "America/New_York"}
	sub := tk.Subscribe(context.Background(), target, rec.onTick, rec.onComplete)

	assert.Eventually(t, func() bool {
		ticks, _ := rec.snapshot()
		return len(ticks) >= 20
	}, 2*time.Second, 5*time.Millisecond)

	sub.Cancel()
	<-sub.Done()

	ticks, completed := rec.snapshot()
	assert.Equal(t, 0, completed)
	assert.Contains(t, ticks, 3*time.Hour+30*time.Minute+10*time.Second, "before the shift")
	assert.Contains(t, ticks, 4*time.Hour+30*time.Minute, "after the shift")
}

func TestTicker_ContextCancellationStops(t *testing.T) {
	tk := newTestTicker(time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	sub := tk.Subscribe(ctx, engine.Target{Name: engine.Isha, Time: tod(20, 10, 0), Zone: "UTC"}, nil, nil)
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription did not stop after context cancellation")
	}
}

func TestTicker_CancelFromCallback(t *testing.T) {
	tk := newTestTicker(time.Second)

	var sub *engine.Subscription
	ready := make(chan struct{})
	sub = tk.Subscribe(context.Background(), engine.Target{Name: engine.Fajr, Time: tod(0, 0, 2), Zone: "UTC"}, nil, func() {
		<-ready
		sub.Cancel()
	})
	close(ready)

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("Cancel inside the completion callback must not deadlock")
	}
}
