package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the chat pipeline.
type Metrics struct {
	Turns         *prometheus.CounterVec
	Fallbacks     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toria_chat_turns_total",
				Help: "Total number of chat turns by mode",
			},
			[]string{"mode"},
		),
		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toria_chat_fallbacks_total",
				Help: "Failures downgraded to a fallback, by stage and reason",
			},
			[]string{"stage", "reason"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toria_stage_duration_seconds",
				Help:    "Duration of chat pipeline stages",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
	reg.MustRegister(m.Turns, m.Fallbacks, m.StageDuration)
	return m
}
