package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/tourguide/internal/api"
	"github.com/stacklok/tourguide/internal/config"
	"github.com/stacklok/tourguide/internal/gps"
	"github.com/stacklok/tourguide/internal/telemetry"
	"github.com/stacklok/tourguide/internal/tracker"
)

// startTestApp builds an app from cfg, serves it on an ephemeral port and
// returns the base URL plus the channel Serve reports on.
func startTestApp(t *testing.T, cfg *config.Config, opts ...TourGuideAppOptions) (*TourGuideApp, string, <-chan error) {
	t.Helper()

	app, err := NewTourGuideApp(context.Background(), append([]TourGuideAppOptions{WithConfig(cfg)}, opts...)...)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Serve(context.Background(), ln)
	}()

	return app, "http://" + ln.Addr().String(), errChan
}

func stopTestApp(t *testing.T, app *TourGuideApp, errChan <-chan error) {
	t.Helper()

	require.NoError(t, app.Stop(5*time.Second))

	select {
	case serveErr := <-errChan:
		require.NoError(t, serveErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after Stop()")
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url) //nolint:gosec // test server URL
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, out))
	}
	return resp.StatusCode
}

// statusOf returns the response status, or zero when the request fails
func statusOf(url string) int {
	resp, err := http.Get(url) //nolint:gosec // test server URL
	if err != nil {
		return 0
	}
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestTourGuideApp_ServeAndStop(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Tracker:    config.TrackerConfig{Interval: "50ms"},
		Pool:       config.PoolConfig{Workers: 4, ShutdownGracePeriod: "5s"},
		Simulation: config.SimulationConfig{InternalUserCount: 20},
		Rewards:    config.RewardsConfig{ProximityBufferMiles: 100000},
	}
	app, baseURL, errChan := startTestApp(t, cfg)

	require.Eventually(t, func() bool {
		return statusOf(baseURL+"/readiness") == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		return app.Components().Tracker.CycleCount() >= 2
	}, 5*time.Second, 20*time.Millisecond)

	var status api.TrackerResponse
	require.Equal(t, http.StatusOK, getJSON(t, baseURL+"/v1/tracker", &status))
	assert.Equal(t, "running", status.State)
	require.NotNil(t, status.LastBatch)
	assert.Equal(t, 20, status.LastBatch.Users)
	assert.Equal(t, 20, status.LastBatch.Succeeded)

	// with an unbounded buffer every attraction is rewarded on the first cycle
	var rewardsResp api.RewardsResponse
	require.Equal(t, http.StatusOK, getJSON(t, baseURL+"/v1/users/internalUser0/rewards", &rewardsResp))
	assert.Len(t, rewardsResp.Rewards, len(gps.DefaultAttractions()))

	var location api.LocationResponse
	require.Equal(t, http.StatusOK, getJSON(t, baseURL+"/v1/users/internalUser3/location", &location))
	assert.Equal(t, "internalUser3", location.UserName)
	assert.NotEqual(t, uuid.Nil, location.Visited.UserID)

	assert.Equal(t, http.StatusNotFound, getJSON(t, baseURL+"/v1/users/nobody/location", nil))

	stopTestApp(t, app, errChan)

	assert.Equal(t, tracker.StateStopped, app.Components().Tracker.State())
	assert.Zero(t, app.Components().Pool.InFlight())
}

func TestTourGuideApp_TrackerDisabled(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Tracker:    config.TrackerConfig{Disabled: true},
		Simulation: config.SimulationConfig{InternalUserCount: 3},
	}
	app, baseURL, errChan := startTestApp(t, cfg)

	require.Eventually(t, func() bool {
		return statusOf(baseURL+"/health") == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, http.StatusOK, getJSON(t, baseURL+"/readiness", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, baseURL+"/v1/tracker", nil))
	assert.Equal(t, tracker.StateIdle, app.Components().Tracker.State())

	var nearby []map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, baseURL+"/v1/users/internalUser1/nearby-attractions", &nearby))
	assert.Len(t, nearby, 5)

	stopTestApp(t, app, errChan)
}

func TestTourGuideApp_PrometheusMetrics(t *testing.T) {
	t.Parallel()

	tel, err := telemetry.New(context.Background(), telemetry.WithTelemetryConfig(&telemetry.Config{
		Enabled: true,
		Metrics: &telemetry.MetricsConfig{Enabled: true, Prometheus: true},
	}))
	require.NoError(t, err)

	cfg := &config.Config{
		Tracker:    config.TrackerConfig{Interval: "1h"},
		Simulation: config.SimulationConfig{InternalUserCount: 5},
	}
	app, baseURL, errChan := startTestApp(t, cfg, WithTelemetry(tel))

	require.Eventually(t, func() bool {
		return app.Components().Tracker.IsCycleComplete()
	}, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, http.StatusOK, getJSON(t, baseURL+"/health", nil))

	resp, err := http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "tourguide_users_tracked_total")
	assert.Contains(t, string(body), "tourguide_http_requests_total")

	stopTestApp(t, app, errChan)
}

func TestTourGuideApp_StopWithoutServe(t *testing.T) {
	t.Parallel()

	app, err := NewTourGuideApp(context.Background(), WithAddress("127.0.0.1:0"))
	require.NoError(t, err)

	require.NoError(t, app.Stop(time.Second))
	assert.Equal(t, tracker.StateStopped, app.Components().Tracker.State())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	err = app.Serve(context.Background(), ln)
	require.ErrorIs(t, err, tracker.ErrTrackerStopped)
}

func TestTourGuideApp_StartListenError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	app, err := NewTourGuideApp(context.Background(), WithAddress(ln.Addr().String()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Stop(time.Second) })

	err = app.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
