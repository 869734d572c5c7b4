package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"user-auth-service/cmd/api/di"
	"user-auth-service/internal/config"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// Server owns the REST listener and the gRPC health listener.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
	GRPC   *grpc.Server
	Health *health.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	grpcServer, healthServer := SetupGRPC(l)
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(c, httpAddress(cfg), l),
		GRPC:   grpcServer,
		Health: healthServer,
	}
}

// Start runs both listeners and blocks until ctx is cancelled or one of
// them fails. A failing listener stops its sibling.
func (s *Server) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.startGRPC(ctx); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("failed to start gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", s.Gin.Addr))
		if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start Gin server: %w", err)
		}
		return nil
	})

	// Stop both listeners once either one fails or the caller cancels
	g.Go(func() error {
		<-ctx.Done()
		s.GRPC.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		if err := s.Gin.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to stop Gin server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.Config.App.ShutdownTimeoutSeconds > 0 {
		return time.Duration(s.Config.App.ShutdownTimeoutSeconds) * time.Second
	}
	return 5 * time.Second
}

// startGRPC starts the gRPC server
func (s *Server) startGRPC(ctx context.Context) error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", grpcAddress(s.Config))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.Logger.Info("gRPC health server running", zap.String("address", grpcAddress(s.Config)))
	return s.GRPC.Serve(lis)
}

// grpcAddress returns the gRPC server address
func grpcAddress(cfg *config.Config) string {
	return ":" + cfg.App.GRPCPort
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
