package infrastructure

import (
	"context"
	"fmt"
	"time"

	"user-auth-service/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const mongoConnectTimeout = 10 * time.Second

// NewMongoCollection connects to MongoDB and returns the users collection.
func NewMongoCollection(ctx context.Context, cfg *config.Config, l *zap.Logger) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(mongoConnectTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	l.Info("mongodb connected",
		zap.String("database", cfg.Mongo.Database),
		zap.String("collection", cfg.Mongo.Collection),
	)

	return client, client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection), nil
}

// CloseMongo disconnects the client.
func CloseMongo(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}
