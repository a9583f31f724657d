package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	LoadLive     = "live"
	LoadCache    = "cache"
	LoadDefaults = "defaults"
)

// RateMetrics tracks upstream fetches and where the current rates came from.
type RateMetrics struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	RatesLoaded   *prometheus.CounterVec
	Offline       prometheus.Gauge
	RatesCount    prometheus.Gauge
	HistoryAdded  prometheus.Counter
}

// NewRateMetrics registers the collectors on reg. A nil reg uses a private
// registry so the collectors still work but are never exported.
func NewRateMetrics(reg prometheus.Registerer) *RateMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &RateMetrics{
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxconv_rate_fetch_total",
				Help: "Upstream rate fetch attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxconv_rate_fetch_duration_seconds",
				Help:    "Upstream rate fetch latency",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms .. 12.8s
			},
			[]string{"source"},
		),
		RatesLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxconv_rates_loaded_total",
				Help: "Rate set replacements by origin (live, cache, defaults)",
			},
			[]string{"origin"},
		),
		Offline: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fxconv_rates_offline",
			Help: "1 when the current rates are not from a live fetch",
		}),
		RatesCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fxconv_rates_count",
			Help: "Number of currencies in the current rate set",
		}),
		HistoryAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxconv_history_records_added_total",
			Help: "Query history records created or refreshed",
		}),
	}
}

func (m *RateMetrics) RecordFetch(source string, started time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.FetchTotal.WithLabelValues(source, outcome).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

func (m *RateMetrics) RecordLoad(origin string, offline bool, count int) {
	m.RatesLoaded.WithLabelValues(origin).Inc()
	if offline {
		m.Offline.Set(1)
	} else {
		m.Offline.Set(0)
	}
	m.RatesCount.Set(float64(count))
}

func (m *RateMetrics) RecordHistory() {
	m.HistoryAdded.Inc()
}
