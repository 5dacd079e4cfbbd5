package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// LLMRequestsTotal counts provider calls by phase and outcome (ok, error).
	LLMRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodbridge",
		Subsystem: "llm",
		Name:      "requests_total",
		Help:      "Total number of generative-AI provider calls, labeled by phase and outcome.",
	}, []string{"phase", "outcome"})

	// LLMRequestDurationSeconds is the wall time of one provider call.
	LLMRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "foodbridge",
		Subsystem: "llm",
		Name:      "request_duration_seconds",
		Help:      "Wall time of generative-AI provider calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60},
	}, []string{"phase"})

	// GatewayResultsTotal counts gateway results after normalization.
	// outcome is one of ok, provider_error, malformed, config_error.
	GatewayResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodbridge",
		Subsystem: "gateway",
		Name:      "results_total",
		Help:      "Results of image analysis and matching calls, labeled by operation and outcome.",
	}, []string{"operation", "outcome"})

	// DonationEventsTotal counts session donation transitions (added, claimed).
	DonationEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodbridge",
		Subsystem: "session",
		Name:      "donation_events_total",
		Help:      "Donation transitions applied to session stores.",
	}, []string{"event"})

	// SessionsActive is the number of sessions held by the registry.
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "foodbridge",
		Subsystem: "session",
		Name:      "active",
		Help:      "Number of live sessions.",
	})

	// FeedSubscribers is the number of open websocket feed connections.
	FeedSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "foodbridge",
		Subsystem: "feed",
		Name:      "subscribers",
		Help:      "Number of open donation feed websocket connections.",
	})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			LLMRequestsTotal,
			LLMRequestDurationSeconds,
			GatewayResultsTotal,
			DonationEventsTotal,
			SessionsActive,
			FeedSubscribers,
		)
	})
}
