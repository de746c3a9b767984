package domain

import (
	"context"

	"taxintake/internal/adapters/relay"
	"taxintake/internal/core/intake"
	"taxintake/internal/core/salary"
	estdomain "taxintake/internal/services/api/estimate/domain"
)

// Relay delivers a finished intake
type Relay interface {
	Submit(ctx context.Context, p relay.Payload) (relay.Result, error)
}

// Recorder stores submission analytics. failures never fail a submit
type Recorder interface {
	Record(ctx context.Context, s Submission) error
}

// Renderer draws the PDF summary
type Renderer interface {
	Render(f intake.Form, r salary.EstimateResult, sessionID string) ([]byte, error)
}

// Estimator is the estimate module's port
type Estimator = estdomain.Estimator
