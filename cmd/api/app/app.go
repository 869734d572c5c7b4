package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"user-auth-service/cmd/api/di"
	"user-auth-service/cmd/api/server"
	"user-auth-service/internal/config"
	"user-auth-service/pkg/logger"

	"go.uber.org/zap"
)

// healthInterval is how often the gRPC serving status is refreshed.
const healthInterval = 15 * time.Second

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New loads configuration, builds the logger and wires every dependency.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    server.New(cfg, l, container),
		Container: container,
	}, nil
}

// Run serves until ctx is canceled or a listener fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Environment),
		zap.String("db_driver", a.Config.DB.Driver),
		zap.Bool("redis_enabled", a.Config.Redis.Enabled),
	)

	// runCtx stops the health watcher and the listeners on return
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Keep the gRPC health status in step with the stores
	go a.Server.WatchHealth(runCtx, a.Container, healthInterval)

	// Start servers in goroutine
	errChan := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.Logger.Error("panic recovered in server", zap.Any("panic", r), zap.Stack("stack"))
				errChan <- fmt.Errorf("server panic: %v", r)
			}
		}()
		errChan <- a.Server.Start(runCtx)
	}()

	// Wait for a shutdown signal or a server error
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down application...")
	case err := <-errChan:
		if err != nil {
			a.Logger.Error("server stopped", zap.Error(err))
			runErr = err
		}
	}

	return errors.Join(runErr, a.shutdown())
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))

	var errs []error

	// Report NOT_SERVING before the listeners close
	if a.Server.Health != nil {
		a.Server.Health.Shutdown()
	}

	// Shutdown Gin server
	if a.Server.Gin != nil {
		a.Logger.Info("shutting down Gin server...")
		if err := a.Server.Gin.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("failed to shutdown Gin server", zap.Error(err))
			errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
		}
	}

	// Shutdown gRPC server
	if a.Server.GRPC != nil {
		a.Logger.Info("shutting down gRPC server...")
		a.Server.GRPC.GracefulStop()
	}

	// Close DB, Mongo and Redis connections
	if a.Container != nil {
		a.Logger.Info("closing container resources...")
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("application shutdown complete")

	// stdout and stderr cannot be synced on every platform
	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      cfg.App.Environment,
	})
}

// getConfigPath returns the directory holding app.env
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
