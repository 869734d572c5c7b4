package server

import (
	"context"
	"time"

	"user-auth-service/cmd/api/di"
	"user-auth-service/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SetupGRPC creates the gRPC server carrying the standard health service.
func SetupGRPC(l *zap.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
		),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	l.Debug("gRPC health service registered")
	return grpcServer, healthServer
}

// healthCheckTimeout bounds a single store or cache ping.
const healthCheckTimeout = 2 * time.Second

// ReportHealth publishes the container's health as the overall serving status.
func (s *Server) ReportHealth(ctx context.Context, c *di.Container) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := c.HealthCheck(ctx); err != nil {
		s.Logger.Warn("health check failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.Health.SetServingStatus("", status)
}

// WatchHealth refreshes the gRPC serving status every interval until ctx is done.
func (s *Server) WatchHealth(ctx context.Context, c *di.Container, interval time.Duration) {
	s.ReportHealth(ctx, c)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ReportHealth(ctx, c)
		}
	}
}
