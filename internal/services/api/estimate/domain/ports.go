package domain

import (
	"context"
	"time"

	"taxintake/internal/core/salary"
)

// Estimator is the port handlers and other modules call
type Estimator interface {
	Estimate(ctx context.Context, in salary.EstimateInput) (Output, error)
}

// Cache is the slice of the store cache the service needs
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
}
