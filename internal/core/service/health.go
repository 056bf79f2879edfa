package service

import (
	"context"
	"time"

	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
)

const (
	DefaultHealthTimeout = 3000 * time.Millisecond
	databaseIndicator    = "database"
)

type HealthService struct {
	db      port.Pinger
	timeout time.Duration
	metrics *tel.AppMetrics
}

func NewHealthService(db port.Pinger, metrics *tel.AppMetrics) *HealthService {
	return &HealthService{
		db:      db,
		timeout: DefaultHealthTimeout,
		metrics: metrics,
	}
}

// Check runs a single database ping bounded by the probe timeout. There is
// no retry: one failed ping reports the database as down.
func (hs *HealthService) Check(ctx context.Context) (*response.HealthResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, hs.timeout)
	defer cancel()

	result := &response.HealthResponse{
		Info:    map[string]response.HealthIndicator{},
		Error:   map[string]response.HealthIndicator{},
		Details: map[string]response.HealthIndicator{},
	}

	healthy := true

	if err := hs.db.Ping(ctx); err != nil {
		healthy = false
		indicator := response.HealthIndicator{Status: "down", Message: err.Error()}

		result.Error[databaseIndicator] = indicator
		result.Details[databaseIndicator] = indicator
	} else {
		indicator := response.HealthIndicator{Status: "up"}

		result.Info[databaseIndicator] = indicator
		result.Details[databaseIndicator] = indicator
	}

	result.Status = "ok"

	if !healthy {
		result.Status = "error"
	}

	if hs.metrics != nil {
		hs.metrics.RecordHealthCheck(ctx, healthy)
	}

	return result, healthy
}
