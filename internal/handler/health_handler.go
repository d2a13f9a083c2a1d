package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockexam-backend/internal/database"
	"github.com/stemsi/mockexam-backend/internal/response"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	pg        database.Pinger
	redisPing func(ctx context.Context) error
	startTime time.Time
	log       zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pg database.Pinger, redisPing func(ctx context.Context) error, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		pg:        pg,
		redisPing: redisPing,
		startTime: time.Now(),
		log:       log.With().Str("component", "health_handler").Logger(),
	}
}

type healthStatus struct {
	database.HealthReport
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
}

// Health godoc
// GET /health
// Returns 200 when PostgreSQL and Redis answer, 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	report := database.Check(c.Request.Context(), h.pg, h.redisPing)
	body := healthStatus{
		HealthReport: report,
		Uptime:       time.Since(h.startTime).Truncate(time.Second).String(),
		Goroutines:   runtime.NumGoroutine(),
	}

	if !report.OK() {
		h.log.Warn().
			Str("postgres", report.Postgres).
			Str("redis", report.Redis).
			Msg("Health check degraded")
		response.FailWithData(c, http.StatusServiceUnavailable, response.ErrUnavailable, body)
		return
	}

	response.Success(c, http.StatusOK, body)
}
