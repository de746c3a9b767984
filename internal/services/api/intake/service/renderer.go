package service

import (
	"time"

	"taxintake/internal/adapters/report"
	"taxintake/internal/core/intake"
	"taxintake/internal/core/salary"
)

// PDFRenderer draws summaries with the report adapter
type PDFRenderer struct {
	now func() time.Time
}

// NewPDFRenderer returns a renderer stamping the current time
func NewPDFRenderer() PDFRenderer { return PDFRenderer{now: time.Now} }

// Render implements domain.Renderer
func (p PDFRenderer) Render(f intake.Form, r salary.EstimateResult, sessionID string) ([]byte, error) {
	return report.Render(f, r, report.Meta{SessionID: sessionID, GeneratedAt: p.now()})
}
