// Package report renders a compliance report as a PDF document.
package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/dgallion1/policyaudit/internal/policy"
)

// RenderPDF writes an A4 PDF of the report to w: a title line followed by
// one question/answer block per catalog entry, in report order. Long
// answers wrap and flow across pages.
func RenderPDF(w io.Writer, r policy.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Compliance Report", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, rec := range r.Answers {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, rec.Question, "", "L", false)

		pdf.SetFont("Helvetica", "", 11)
		left, _, _, _ := pdf.GetMargins()
		pdf.SetLeftMargin(left + 6)
		pdf.MultiCell(0, 6, "Answer: "+rec.Answer, "", "L", false)
		pdf.SetLeftMargin(left)
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
