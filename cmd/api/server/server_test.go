package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"user-auth-service/cmd/api/di"
	"user-auth-service/internal/config"
)

func newTestServer(t *testing.T) (*Server, *di.Container) {
	cfg := &config.Config{
		App: config.AppConfig{HTTPPort: "18080", GRPCPort: "15051", ShutdownTimeoutSeconds: 1},
		DB: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "users.db"),
		},
		Auth:   config.AuthConfig{JWTSecret: "server-secret"},
		Logger: config.LoggerConfig{Level: "warn"},
	}
	log := zaptest.NewLogger(t)

	c, err := di.NewContainer(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return New(cfg, log, c), c
}

func TestReportHealth(t *testing.T) {
	s, c := newTestServer(t)
	ctx := context.Background()

	s.ReportHealth(ctx, c)
	resp, err := s.Health.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	require.NoError(t, c.Close())
	s.ReportHealth(ctx, c)
	resp, err = s.Health.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestGinServerRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	assert.Equal(t, ":18080", s.Gin.Addr)

	w := httptest.NewRecorder()
	s.Gin.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// freePort returns a TCP port that was free a moment ago.
func freePort(t *testing.T) string {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return strconv.Itoa(port)
}

// startAsync runs Start in the background and returns its result channel.
func startAsync(ctx context.Context, s *Server) <-chan error {
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	return done
}

func TestStart_ReturnsWhenHTTPPortInUse(t *testing.T) {
	s, _ := newTestServer(t)
	s.Config.App.GRPCPort = freePort(t)

	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = occupied.Close() })
	s.Gin.Addr = occupied.Addr().String()

	select {
	case err := <-startAsync(context.Background(), s):
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start Gin server")
	case <-time.After(5 * time.Second):
		t.Fatal("Start kept running after the HTTP listener failed")
	}
}

func TestStart_ReturnsWhenGRPCPortInUse(t *testing.T) {
	s, _ := newTestServer(t)
	s.Gin.Addr = "127.0.0.1:" + freePort(t)

	occupied, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = occupied.Close() })
	s.Config.App.GRPCPort = strconv.Itoa(occupied.Addr().(*net.TCPAddr).Port)

	select {
	case err := <-startAsync(context.Background(), s):
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start gRPC server")
	case <-time.After(5 * time.Second):
		t.Fatal("Start kept running after the gRPC listener failed")
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	s, _ := newTestServer(t)
	s.Config.App.GRPCPort = freePort(t)
	s.Gin.Addr = "127.0.0.1:" + freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := startAsync(ctx, s)

	// Wait for the REST listener to come up before cancelling
	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", s.Gin.Addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 3*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start kept running after its context was cancelled")
	}
}
