package report

import (
	"fmt"
	"io"

	"github.com/frahmantamala/claim-management/internal/claim"
	"github.com/xuri/excelize/v2"
)

const claimsSheet = "Claims"

// WriteXLSX renders the claims report as a spreadsheet with one row per
// claim and a totals block below the table.
func WriteXLSX(w io.Writer, rows []*claim.ClaimWithLecturer, summary *Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(claimsSheet)
	if err != nil {
		return fmt.Errorf("create claims sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	headers := []interface{}{"LecturerId", "LecturerName", "Email", "ClaimId", "Hours", "Rate", "Total", "Status", "SubmittedOn"}
	if err := f.SetSheetRow(claimsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		hours, _ := row.HoursWorked.Float64()
		rate, _ := row.HourlyRate.Float64()
		total, _ := row.TotalAmount.Float64()

		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			row.LecturerID,
			row.LecturerName,
			row.LecturerEmail,
			row.ID,
			hours,
			rate,
			total,
			row.Status.String(),
			row.SubmittedOn.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(claimsSheet, cell, &values); err != nil {
			return fmt.Errorf("write row for claim %d: %w", row.ID, err)
		}
	}

	totalsRow := len(rows) + 3
	totalHours, _ := summary.TotalHours.Float64()
	grandTotal, _ := summary.GrandTotal.Float64()
	totals := [][]interface{}{
		{"Claims", summary.ClaimCount},
		{"Total hours", totalHours},
		{"Grand total", grandTotal},
	}
	for i, pair := range totals {
		cell := fmt.Sprintf("A%d", totalsRow+i)
		if err := f.SetSheetRow(claimsSheet, cell, &pair); err != nil {
			return fmt.Errorf("write totals row: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("render xlsx report: %w", err)
	}
	return nil
}
