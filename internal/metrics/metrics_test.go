package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest(http.MethodGet, http.StatusOK)
	m.ObserveRequest(http.MethodGet, http.StatusOK)
	m.ObserveRequest(http.MethodPost, http.StatusUnauthorized)
	m.ObserveRefresh(RefreshOK)
	m.ObserveRefresh(RefreshFailed)
	m.ObserveReplay()

	require.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "200")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("POST", "401")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.refreshes.WithLabelValues(RefreshOK)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.refreshes.WithLabelValues(RefreshFailed)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.replays))
}

// Нулевой приёмник допустим: CLI работает без метрик.
func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics

	require.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, http.StatusOK)
		m.ObserveRefresh(RefreshOK)
		m.ObserveReplay()
	})
}
