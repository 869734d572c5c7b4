package main

import (
	"context"
	"log"

	"user-auth-service/cmd/api/app"
	"user-auth-service/cmd/api/server"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		a.Logger.Fatal("application exited with error", zap.Error(err))
	}
}
