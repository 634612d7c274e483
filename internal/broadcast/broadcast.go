// Package broadcast publishes multi-city countdown ticks to an MQTT broker.
package broadcast

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
	"github.com/noorweb/noorweb/internal/metrics"
)

// Client is the subset of mqtt.Client the publisher needs.
type Client interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Tick is the payload published for one city.
type Tick struct {
	City      string           `json:"city"`
	Country   string           `json:"country"`
	LocalTime string           `json:"localTime"`
	Next      engine.EventName `json:"next,omitempty"`
	NextTime  string           `json:"nextTime,omitempty"`
	NextDay   bool             `json:"nextDay,omitempty"`
	Countdown string           `json:"countdown,omitempty"`
	Error     string           `json:"error,omitempty"`
	SentAt    time.Time        `json:"sentAt"`
}

// Publisher forwards aggregator snapshots to the broker.
type Publisher struct {
	client Client
	now    func() time.Time
}

// NewPublisher wraps an existing client.
func NewPublisher(c Client) *Publisher {
	return &Publisher{client: c, now: time.Now}
}

// Connect dials brokerURL and returns a ready Publisher.
func Connect(brokerURL, clientID string) (*Publisher, error) {
	log := slog.With(config.LogKeyComponent, config.CompBroadcast)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(fmt.Sprintf(config.MQTTClientIDFormat, clientID))
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info(config.MsgMQTTConnected, config.LogKeyURL, brokerURL)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn(config.MsgMQTTLost, config.LogKeyError, err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrMQTTConnect, token.Error())
	}
	return NewPublisher(client), nil
}

// Publish sends one message per entry. It never returns an error: failures
// are logged and counted so the aggregator keeps ticking.
func (p *Publisher) Publish(entries []engine.CityEntry) {
	if !p.client.IsConnected() {
		return
	}
	sentAt := p.now().UTC()
	for _, e := range entries {
		topic := Topic(e.Location.Name)
		payload, err := json.Marshal(TickOf(e, sentAt))
		if err != nil {
			p.fail(topic, err)
			continue
		}
		token := p.client.Publish(topic, 0, false, payload)
		if !token.WaitTimeout(config.MQTTPublishTimeout) {
			p.fail(topic, fmt.Errorf("%s: timeout", config.ErrMQTTPublish))
			continue
		}
		if err := token.Error(); err != nil {
			p.fail(topic, fmt.Errorf("%s: %w", config.ErrMQTTPublish, err))
		}
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(config.MQTTDisconnectQuiesce)
}

func (p *Publisher) fail(topic string, err error) {
	metrics.BroadcastErrors.Inc()
	slog.Warn(config.MsgMQTTPublishFail,
		config.LogKeyComponent, config.CompBroadcast,
		config.LogKeyTopic, topic,
		config.LogKeyError, err,
	)
}

// TickOf converts an aggregator entry into its wire payload.
func TickOf(e engine.CityEntry, sentAt time.Time) Tick {
	t := Tick{
		City:      e.Location.Name,
		Country:   e.Location.Country,
		LocalTime: e.LocalTime,
		Countdown: e.Countdown,
		Error:     e.Err,
		SentAt:    sentAt,
	}
	if e.Next != nil {
		t.Next, t.NextTime, t.NextDay = e.Next.Name, e.Next.Time, e.Next.NextDay
	}
	return t
}

// Topic returns the tick topic of a city.
func Topic(city string) string {
	return fmt.Sprintf(config.MQTTTopicTick, Slug(city))
}

// Slug lowercases name and collapses every run of non-alphanumerics to "-".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
