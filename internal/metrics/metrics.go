package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

var (
	TimezoneFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "noorweb_timezone_fallback_total",
		Help: "Clock decompositions that fell back to host local time",
	}, []string{"zone"})

	StoreCorruptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "noorweb_store_corrupt_total",
		Help: "Store entries that failed to decode and were reset",
	}, []string{"key"})

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "noorweb_provider_request_duration_seconds",
		Help:    "Duration of upstream content provider requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation", "status"})

	ProviderRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "noorweb_provider_request_total",
		Help: "Upstream content provider requests",
	}, []string{"provider", "operation", "status"})

	TrackedCities = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "noorweb_tracked_cities",
		Help: "Cities currently tracked by the multi-city aggregator",
	})

	CountdownCompletions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "noorweb_countdown_completions_total",
		Help: "Countdowns that reached their target event",
	}, []string{"event"})

	SupersededLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "noorweb_schedule_superseded_total",
		Help: "Schedule fetches discarded because a newer request started",
	})

	BroadcastErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "noorweb_broadcast_errors_total",
		Help: "Tick publications that failed",
	})
)

// MustRegister registers every collector on the given registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		TimezoneFallbacks,
		StoreCorruptions,
		ProviderRequestDuration,
		ProviderRequestTotal,
		TrackedCities,
		CountdownCompletions,
		SupersededLoads,
		BroadcastErrors,
	)
}

// NewRegistry returns a registry holding the application collectors plus the
// standard Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	MustRegister(reg)
	return reg
}

// Handler exposes the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ObserveProviderRequest records one upstream request.
func ObserveProviderRequest(provider, operation string, start time.Time, err error) {
	status := statusOK
	if err != nil {
		status = statusError
	}
	ProviderRequestDuration.WithLabelValues(provider, operation, status).Observe(time.Since(start).Seconds())
	ProviderRequestTotal.WithLabelValues(provider, operation, status).Inc()
}
