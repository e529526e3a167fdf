package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveSearch(t *testing.T) {
	c := New(WithoutRuntimeMetrics())

	c.ObserveSearch(6, 20*time.Millisecond)
	c.ObserveSearch(0, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(c.searches), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(c.searchDuration))
}

func TestCollector_ObserveTurn(t *testing.T) {
	c := New(WithoutRuntimeMetrics())

	c.ObserveTurn("results", time.Millisecond)
	c.ObserveTurn("results", time.Millisecond)
	c.ObserveTurn("greeting", time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(c.turns.WithLabelValues("results")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.turns.WithLabelValues("greeting")), 0)
}

func TestCollector_ObserveAICall(t *testing.T) {
	c := New(WithoutRuntimeMetrics())

	c.ObserveAICall("embed", "ok", 100*time.Millisecond)
	c.ObserveAICall("embed", "cached", 0)
	c.ObserveAICall("generate", "circuit_open", 0)

	assert.InDelta(t, 1, testutil.ToFloat64(c.aiCalls.WithLabelValues("embed", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.aiCalls.WithLabelValues("embed", "cached")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.aiCalls.WithLabelValues("generate", "circuit_open")), 0)
	// Only non-cached calls reach the latency histogram.
	assert.Equal(t, 2, testutil.CollectAndCount(c.aiDuration))
}

func TestCollector_SetSessions(t *testing.T) {
	c := New(WithoutRuntimeMetrics())

	c.SetSessions(3)
	c.SetSessions(2)

	assert.InDelta(t, 2, testutil.ToFloat64(c.sessions), 0)
}

func TestCollector_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := New(WithRegistry(registry), WithoutRuntimeMetrics())

	assert.Same(t, registry, c.Registry())
	assert.Panics(t, func() {
		New(WithRegistry(registry), WithoutRuntimeMetrics())
	}, "registering the same collectors twice must fail")
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.ObserveSearch(4, 5*time.Millisecond)

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "archivo_searches_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
