package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for guard decisions and key set refreshes. All methods are safe on
// a nil *Metrics, which records nothing.
type Metrics struct {
	decisions      *prometheus.CounterVec
	keyRefreshes   *prometheus.CounterVec
	keyRefreshTime prometheus.Histogram
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coffeeshop",
				Subsystem: "authz",
				Name:      "decisions_total",
				Help:      "Authorization decisions by required permission and outcome code.",
			},
			[]string{"permission", "outcome"},
		),
		keyRefreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coffeeshop",
				Subsystem: "authz",
				Name:      "key_refreshes_total",
				Help:      "JWKS fetch attempts by result.",
			},
			[]string{"result"},
		),
		keyRefreshTime: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "coffeeshop",
				Subsystem: "authz",
				Name:      "key_refresh_duration_seconds",
				Help:      "JWKS fetch latency.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) observeDecision(permission, outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(permission, outcome).Inc()
}

// ObserveKeyRefresh matches jwtx.KeyCacheOptions.OnRefresh.
func (m *Metrics) ObserveKeyRefresh(err error, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.keyRefreshes.WithLabelValues(result).Inc()
	m.keyRefreshTime.Observe(took.Seconds())
}
