package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew_Disabled(t *testing.T) {
	t.Parallel()

	for name, cfg := range map[string]*Config{
		"nil config":      nil,
		"disabled config": {Enabled: false},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tel, err := New(context.Background(), WithTelemetryConfig(cfg))
			require.NoError(t, err)
			require.NotNil(t, tel)

			assert.IsType(t, noop.MeterProvider{}, tel.MeterProvider())
			assert.Nil(t, tel.MetricsHandler())
			assert.NoError(t, tel.Shutdown(context.Background()))
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), WithTelemetryConfig(&Config{
		Enabled: true,
		Tracing: &TracingConfig{Enabled: true, Sampling: -1},
	}))
	assert.ErrorContains(t, err, "invalid telemetry configuration")
}

func TestNew_PrometheusHandler(t *testing.T) {
	t.Parallel()

	tel, err := New(context.Background(), WithTelemetryConfig(&Config{
		Enabled: true,
		Metrics: &MetricsConfig{Enabled: true, Prometheus: true},
	}))
	require.NoError(t, err)
	defer func() { _ = tel.Shutdown(context.Background()) }()

	metrics, err := NewTrackingMetrics(tel.MeterProvider())
	require.NoError(t, err)
	metrics.RecordRewardsGranted(context.Background(), 4)

	handler := tel.MetricsHandler()
	require.NotNil(t, handler)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tourguide_rewards_granted_total")
	assert.Contains(t, string(body), "go_goroutines")
}
