package report

import (
	"fmt"
	"io"
	"time"

	"github.com/frahmantamala/claim-management/internal/claim"
	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the claims report as a tabular PDF with a totals
// block at the end.
func WritePDF(w io.Writer, rows []*claim.ClaimWithLecturer, summary *Summary) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Lecturer Claims Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Lecturer Claims Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, rangeLine(summary))
	pdf.Ln(10)

	headers := []string{"Lecturer", "Email", "Claim", "Hours", "Rate", "Total", "Status", "Submitted"}
	widths := []float64{45, 60, 18, 22, 22, 28, 28, 40}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		cells := []string{
			row.LecturerName,
			row.LecturerEmail,
			fmt.Sprintf("%d", row.ID),
			row.HoursWorked.StringFixed(2),
			row.HourlyRate.StringFixed(2),
			row.TotalAmount.StringFixed(2),
			row.Status.String(),
			row.SubmittedOn.Format("2006-01-02"),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 7, fmt.Sprintf("Claims: %d", summary.ClaimCount))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Total hours: %s", summary.TotalHours.StringFixed(2)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Grand total: %s", summary.GrandTotal.StringFixed(2)))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf report: %w", err)
	}
	return nil
}

func rangeLine(summary *Summary) string {
	from := "beginning"
	to := "now"
	if summary.From != nil {
		from = summary.From.Format("2006-01-02")
	}
	if summary.To != nil {
		to = summary.To.Format("2006-01-02")
	}
	line := fmt.Sprintf("Period: %s to %s", from, to)
	if summary.Status != nil {
		line += fmt.Sprintf(", status: %s", summary.Status.String())
	}
	return line + fmt.Sprintf(" (generated %s)", summary.GeneratedAt.Format(time.RFC3339))
}
