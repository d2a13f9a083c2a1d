package database

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReport is the dependency status returned by the health endpoint.
type HealthReport struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

// OK reports whether every dependency answered.
func (h HealthReport) OK() bool {
	return h.Status == "ok"
}

// Check pings PostgreSQL and Redis with a short timeout each.
func Check(ctx context.Context, pg Pinger, redisPing func(ctx context.Context) error) HealthReport {
	report := HealthReport{Status: "ok", Postgres: "ok", Redis: "ok"}

	pgCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pg.Ping(pgCtx); err != nil {
		report.Status = "degraded"
		report.Postgres = err.Error()
	}

	rCtx, rCancel := context.WithTimeout(ctx, 2*time.Second)
	defer rCancel()
	if err := redisPing(rCtx); err != nil {
		report.Status = "degraded"
		report.Redis = err.Error()
	}

	return report
}
