package broadcast

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/noorweb/noorweb/internal/engine"
	"github.com/noorweb/noorweb/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err     error
	timeout bool
}

func (t *fakeToken) Wait() bool                     { return !t.timeout }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu        sync.Mutex
	connected bool
	failOn    string
	timeoutOn string
	messages  []published
	quiesce   uint
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch topic {
	case c.failOn:
		return &fakeToken{err: errors.New("broker rejected")}
	case c.timeoutOn:
		return &fakeToken{timeout: true}
	}
	c.messages = append(c.messages, published{topic, qos, retained, payload.([]byte)})
	return &fakeToken{}
}

func (c *fakeClient) Disconnect(quiesce uint) { c.quiesce = quiesce }

func entries() []engine.CityEntry {
	return []engine.CityEntry{
		{
			Location:  engine.Location{Name: "Lahore", Country: "Pakistan"},
			LocalTime: "17:00:00",
			Next:      &engine.Event{Name: engine.Maghrib, Time: "18:45"},
			Countdown: "01:45:00",
		},
		{
			Location:  engine.Location{Name: "New York", Country: "United States"},
			LocalTime: "07:00:00",
			Err:       "provider unavailable",
		},
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "lahore", Slug("Lahore"))
	assert.Equal(t, "new-york", Slug(" New York "))
	assert.Equal(t, "st-john-s", Slug("St. John's"))
	assert.Equal(t, "noorweb/cities/new-york/tick", Topic("New York"))
}

func TestPublisher_PublishesEveryCity(t *testing.T) {
	c := &fakeClient{connected: true}
	p := NewPublisher(c)
	sent := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return sent }

	p.Publish(entries())

	require.Len(t, c.messages, 2)
	assert.Equal(t, "noorweb/cities/lahore/tick", c.messages[0].topic)
	assert.Equal(t, byte(0), c.messages[0].qos)
	assert.False(t, c.messages[0].retained)

	var got Tick
	require.NoError(t, json.Unmarshal(c.messages[0].payload, &got))
	assert.Equal(t, Tick{
		City:      "Lahore",
		Country:   "Pakistan",
		LocalTime: "17:00:00",
		Next:      engine.Maghrib,
		NextTime:  "18:45",
		Countdown: "01:45:00",
		SentAt:    sent,
	}, got)

	require.NoError(t, json.Unmarshal(c.messages[1].payload, &got))
	assert.Equal(t, "provider unavailable", got.Error)
}

func TestPublisher_FailuresAreCountedNotFatal(t *testing.T) {
	c := &fakeClient{connected: true, failOn: "noorweb/cities/lahore/tick"}
	p := NewPublisher(c)
	before := testutil.ToFloat64(metrics.BroadcastErrors)

	p.Publish(entries())

	require.Len(t, c.messages, 1, "the other city is still published")
	assert.Equal(t, "noorweb/cities/new-york/tick", c.messages[0].topic)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BroadcastErrors))
}

func TestPublisher_Timeout(t *testing.T) {
	c := &fakeClient{connected: true, timeoutOn: "noorweb/cities/new-york/tick"}
	p := NewPublisher(c)
	before := testutil.ToFloat64(metrics.BroadcastErrors)

	p.Publish(entries())

	assert.Len(t, c.messages, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.BroadcastErrors))
}

func TestPublisher_SkipsWhileDisconnected(t *testing.T) {
	c := &fakeClient{}
	NewPublisher(c).Publish(entries())
	assert.Empty(t, c.messages)
}

func TestPublisher_Close(t *testing.T) {
	c := &fakeClient{connected: true}
	NewPublisher(c).Close()
	assert.Equal(t, uint(250), c.quiesce)
}
