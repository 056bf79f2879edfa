package port

import (
	"context"

	"taskapp/internal/core/model/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService interface {
	Check(ctx context.Context) (*response.HealthResponse, bool)
}
