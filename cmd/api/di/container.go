package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-auth-service/cmd/api/infrastructure"
	"user-auth-service/internal/adapter/cache"
	"user-auth-service/internal/adapter/db/mongodb"
	"user-auth-service/internal/adapter/db/postgres"
	ginhandler "user-auth-service/internal/adapter/gin/handler"
	"user-auth-service/internal/adapter/gin/middleware"
	"user-auth-service/internal/adapter/repository/cached"
	"user-auth-service/internal/config"
	"user-auth-service/internal/usecase/auth"
	"user-auth-service/internal/usecase/user"
	redisclient "user-auth-service/pkg/redis"
	"user-auth-service/pkg/security"
	"user-auth-service/pkg/token"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pinger is implemented by the store adapters.
type pinger interface {
	Ping(ctx context.Context) error
}

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	MongoClient *mongo.Client
	RedisClient *redisclient.Client
	Tokens      *token.Issuer
	AuthUC      auth.Usecase
	UserUC      user.Usecase
	RateLimiter *middleware.RateLimiter
	AuthHandler *ginhandler.AuthHandler
	UserHandler *ginhandler.UserHandler

	store pinger
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	tokens, err := token.NewIssuer(cfg.Auth.JWTSecret, token.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	c.Tokens = tokens

	// Initialize the user store selected by DB_DRIVER
	dbRepo, err := c.initStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	var repo user.Repository = dbRepo

	// Redis backs both the profile cache and the rate limiter
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb

		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(dbRepo, userCache, l)

		c.RateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	} else {
		l.Info("redis disabled, running without cache and rate limiting")
	}

	c.AuthUC = auth.New(repo, security.NewBcryptHasher(security.DefaultCost), tokens, l)
	c.UserUC = user.New(repo, l)

	c.AuthHandler = ginhandler.NewAuthHandler(c.AuthUC, l)
	c.UserHandler = ginhandler.NewUserHandler(c.UserUC, l)

	return c, nil
}

type storeRepository interface {
	user.Repository
	pinger
}

func (c *Container) initStore(ctx context.Context) (storeRepository, error) {
	switch c.Config.DB.Driver {
	case config.DriverMongo:
		client, coll, err := infrastructure.NewMongoCollection(ctx, c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		c.MongoClient = client

		repo := mongodb.NewUserRepoMongo(coll, c.Logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to create MongoDB indexes: %w", err)
		}
		c.store = repo
		return repo, nil
	default:
		db, err := infrastructure.NewDatabase(c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db

		repo := postgres.NewUserRepoPG(db, c.Logger)
		c.store = repo
		return repo, nil
	}
}

// HealthCheck pings the user store and, when enabled, Redis.
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.store != nil {
		if err := c.store.Ping(ctx); err != nil {
			return fmt.Errorf("store: %w", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if c.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := infrastructure.CloseMongo(ctx, c.MongoClient); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
