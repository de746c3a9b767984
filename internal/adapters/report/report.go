// Package report renders an intake and its estimate as a one document PDF
package report

import (
	"bytes"
	"time"

	"taxintake/internal/core/intake"
	"taxintake/internal/core/salary"

	"github.com/jung-kurt/gofpdf"
)

const (
	title      = "S Corporation Tax Intake Summary"
	labelWidth = 80.0
	lineHeight = 7.0
)

// compress is off in tests so page text can be asserted on
var compress = true

// Meta is printed in the header
type Meta struct {
	SessionID   string
	GeneratedAt time.Time
}

// Render draws the tax summary, then each intake step, on A4 pages. blank
// values print as a dash
func Render(f intake.Form, r salary.EstimateResult, m Meta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator("taxintake", true)
	if !m.GeneratedAt.IsZero() {
		pdf.SetCreationDate(m.GeneratedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, tr("Estimates use flat federal and state rates and are not tax advice."), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if m.SessionID != "" {
		pdf.CellFormat(0, 5, "Session: "+m.SessionID, "", 1, "L", false, 0, "")
	}
	if !m.GeneratedAt.IsZero() {
		pdf.CellFormat(0, 5, "Generated: "+m.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	secs := append(intake.Sections(f, r), intake.DetailSections(f)...)
	for n, sec := range secs {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(235, 240, 248)
		pdf.CellFormat(0, 8, tr(sec.Title), "", 1, "L", true, 0, "")
		for _, l := range sec.Lines {
			v := l.Value
			if v == "" {
				v = "-"
			}
			// the tax summary is emphasised
			style := ""
			if n == 0 {
				style = "B"
			}
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(labelWidth, lineHeight, tr(l.Key), "B", 0, "L", false, 0, "")
			pdf.SetFont("Arial", style, 10)
			pdf.CellFormat(0, lineHeight, tr(v), "B", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
