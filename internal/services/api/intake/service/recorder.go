package service

import (
	"context"

	"taxintake/internal/platform/store"
	"taxintake/internal/services/api/intake/domain"
)

// SubmissionsDDL creates the analytics table
const SubmissionsDDL = `
CREATE TABLE IF NOT EXISTS intake_submissions (
	session_id        UUID,
	submitted_at      DateTime64(3, 'UTC'),
	industry          LowCardinality(String),
	education         LowCardinality(String),
	annual_revenue    Float64,
	reasonable_salary Float64,
	total_tax         Float64,
	net_income        Float64,
	relay_attempts    UInt8
) ENGINE = MergeTree
ORDER BY (submitted_at, session_id)`

// CHRecorder appends submissions to ClickHouse
type CHRecorder struct {
	ch    store.Clickhouse
	table string
}

// NewCHRecorder records into intake_submissions
func NewCHRecorder(ch store.Clickhouse) *CHRecorder {
	return &CHRecorder{ch: ch, table: "intake_submissions"}
}

// Migrate applies SubmissionsDDL
func (r *CHRecorder) Migrate(ctx context.Context) error {
	return r.ch.Exec(ctx, SubmissionsDDL)
}

// Record inserts one row
func (r *CHRecorder) Record(ctx context.Context, s domain.Submission) error {
	return r.ch.Insert(ctx, r.table, [][]any{{
		s.SessionID,
		s.SubmittedAt,
		s.Industry,
		s.Education,
		s.AnnualRevenue,
		s.ReasonableSalary,
		s.TotalTax,
		s.NetIncome,
		uint8(min(s.RelayAttempts, 255)),
	}})
}
