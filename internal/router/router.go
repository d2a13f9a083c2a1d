package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockexam-backend/internal/config"
	"github.com/stemsi/mockexam-backend/internal/handler"
	"github.com/stemsi/mockexam-backend/internal/middleware"
	"github.com/stemsi/mockexam-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Test    *handler.TestHandler
	Attempt *handler.AttemptHandler
	Health  *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	tokens middleware.TokenValidator,
	submitLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log.With().Str("component", "http").Logger()))
	router.Use(middleware.Brotli(middleware.DefaultBrotliConfig))

	// Health check.
	router.GET("/health", handlers.Health.Health)

	v1 := router.Group("/api/v1")

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	auth := v1.Group("/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
	}

	// ─── 1. Catalog Group ──────────────────────────────────────────────
	tests := v1.Group("/tests")
	tests.Use(middleware.RequireUserJWT(tokens))
	tests.Use(middleware.CacheControl(60))
	{
		tests.GET("", handlers.Test.ListTests)
		tests.GET("/:test_id", handlers.Test.GetTest)
		tests.GET("/:test_id/questions", handlers.Test.GetQuestions)
	}

	// ─── 2. Attempt Group ──────────────────────────────────────────────
	attempts := v1.Group("/attempts")
	attempts.Use(middleware.RequireUserJWT(tokens))
	attempts.Use(middleware.NoStore())
	{
		attempts.POST("/start", handlers.Attempt.Start)
		attempts.POST("/submit", submitLimiter.Middleware(), handlers.Attempt.Submit)
		attempts.GET("/history", handlers.Attempt.History)
		attempts.GET("/result/:attempt_id", handlers.Attempt.GetResult)
		attempts.PUT("/:attempt_id/responses", handlers.Attempt.SaveDraft)
		attempts.GET("/:attempt_id/state", handlers.Attempt.GetState)
	}

	return router
}
