package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduappbot/internal/config"
	"eduappbot/internal/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, srv *Server, path string) (int, string) {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	srv := NewServer(config.MonitoringConfig{Port: 9090}, nil, zerolog.Nop())

	status, body := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestReadyz(t *testing.T) {
	t.Run("WithoutRedis", func(t *testing.T) {
		srv := NewServer(config.MonitoringConfig{Port: 9090}, nil, zerolog.Nop())
		status, _ := get(t, srv, "/readyz")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("RedisUp", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		srv := NewServer(config.MonitoringConfig{Port: 9090}, rdb, zerolog.Nop())
		status, body := get(t, srv, "/readyz")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ready", body)
	})

	t.Run("RedisDown", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = rdb.Close() })
		mr.Close()

		srv := NewServer(config.MonitoringConfig{Port: 9090}, rdb, zerolog.Nop())
		status, _ := get(t, srv, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.Register()
	metrics.IncAuth("succeeded")

	srv := NewServer(config.MonitoringConfig{Port: 9090}, nil, zerolog.Nop())
	status, body := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "eduappbot_auth_attempts_total")
}
