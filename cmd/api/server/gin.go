package server

import (
	"net/http"
	"time"

	"user-auth-service/cmd/api/di"
	ginrouter "user-auth-service/internal/adapter/gin/router"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(c *di.Container, ginAddr string, l *zap.Logger) *http.Server {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(
		c.AuthHandler,
		c.UserHandler,
		c.Tokens,
		ginrouter.Options{
			RateLimiter:    c.RateLimiter,
			AllowedOrigins: c.Config.App.CORSAllowedOrigins,
			HealthCheck: func(ctx *gin.Context) error {
				return c.HealthCheck(ctx.Request.Context())
			},
		},
		l,
	)

	l.Info("Gin REST API configured", zap.String("address", ginAddr))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
