// Package domain holds intake session types and the ports the service uses
package domain

import (
	"time"

	"taxintake/internal/core/intake"
	"taxintake/internal/core/wizard"

	"github.com/google/uuid"
)

// Status is where a session is in its delivery lifecycle
type Status string

const (
	// StatusOpen sessions are being filled in
	StatusOpen Status = "open"
	// StatusSending sessions have a relay call in flight
	StatusSending Status = "sending"
	// StatusSubmitted sessions were delivered and are frozen
	StatusSubmitted Status = "submitted"
)

// Session is one visitor's intake
type Session struct {
	ID           uuid.UUID
	Step         wizard.Step
	Form         intake.Form
	Status       Status
	RelayMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SubmittedAt  *time.Time
}

// View is the session as the API returns it
type View struct {
	ID           string      `json:"id"`
	Step         wizard.Step `json:"step"`
	StepIndex    int         `json:"step_index"`
	StepCount    int         `json:"step_count"`
	Status       Status      `json:"status"`
	Form         intake.Form `json:"form"`
	RelayMessage string      `json:"relay_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	SubmittedAt  *time.Time  `json:"submitted_at,omitempty"`
}

// ToView renders s for the API
func (s Session) ToView() View {
	return View{
		ID:           s.ID.String(),
		Step:         s.Step,
		StepIndex:    s.Step.Index(),
		StepCount:    len(wizard.Steps()),
		Status:       s.Status,
		Form:         s.Form,
		RelayMessage: s.RelayMessage,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		SubmittedAt:  s.SubmittedAt,
	}
}

// Submission is what gets recorded for analytics after a delivery
type Submission struct {
	SessionID        uuid.UUID
	SubmittedAt      time.Time
	Industry         string
	Education        string
	AnnualRevenue    float64
	ReasonableSalary float64
	TotalTax         float64
	NetIncome        float64
	RelayAttempts    int
}

// SubmitResult is the answer to a successful submit
type SubmitResult struct {
	Session      View   `json:"session"`
	RelayMessage string `json:"relay_message"`
}
