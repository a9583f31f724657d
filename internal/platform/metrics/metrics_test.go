package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRateMetrics_RecordFetch(t *testing.T) {
	m := NewRateMetrics(prometheus.NewRegistry())

	m.RecordFetch("primary", time.Now(), errors.New("boom"))
	m.RecordFetch("fallback", time.Now(), nil)
	m.RecordFetch("fallback", time.Now(), nil)

	require.Equal(t, 1.0, testutil.ToFloat64(m.FetchTotal.WithLabelValues("primary", OutcomeFailure)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.FetchTotal.WithLabelValues("fallback", OutcomeSuccess)))
	require.Equal(t, 0.0, testutil.ToFloat64(m.FetchTotal.WithLabelValues("primary", OutcomeSuccess)))
}

func TestRateMetrics_RecordLoad(t *testing.T) {
	m := NewRateMetrics(prometheus.NewRegistry())

	m.RecordLoad(LoadDefaults, true, 12)
	require.Equal(t, 1.0, testutil.ToFloat64(m.Offline))
	require.Equal(t, 12.0, testutil.ToFloat64(m.RatesCount))

	m.RecordLoad(LoadLive, false, 160)
	require.Equal(t, 0.0, testutil.ToFloat64(m.Offline))
	require.Equal(t, 160.0, testutil.ToFloat64(m.RatesCount))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RatesLoaded.WithLabelValues(LoadLive)))
}

func TestNewRateMetrics_NilRegistererDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		NewRateMetrics(nil)
		NewRateMetrics(nil)
	})
}

func TestNewRateMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRateMetrics(reg)
	require.Panics(t, func() { NewRateMetrics(reg) })
}
