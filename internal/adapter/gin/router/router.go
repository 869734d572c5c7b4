package router

import (
	"net/http"

	"user-auth-service/internal/adapter/gin/handler"
	"user-auth-service/internal/adapter/gin/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "user-auth-service"

// Options carries the optional pieces of the HTTP surface.
type Options struct {
	RateLimiter    *middleware.RateLimiter // nil disables rate limiting
	AllowedOrigins []string                // empty allows any origin
	HealthCheck    func(*gin.Context) error
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tokens middleware.TokenParser,
	opts Options,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(c); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": ServiceName,
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	})

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			limited := users.Group("", opts.RateLimiter.Handler())
			limited.POST("/signup", authHandler.Signup)
			limited.POST("/signin", authHandler.Signin)

			users.GET("/me", middleware.Auth(tokens), userHandler.Me)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cfg
}
