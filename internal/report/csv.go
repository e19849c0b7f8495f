package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/frahmantamala/claim-management/internal/claim"
)

var csvHeader = []string{"LecturerId", "LecturerName", "Email", "ClaimId", "Hours", "Rate", "Total", "Status", "SubmittedOn"}

// WriteCSV streams the claim rows as CSV. The header row is always
// written, even for an empty set.
func WriteCSV(w io.Writer, rows []*claim.ClaimWithLecturer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%d", row.LecturerID),
			row.LecturerName,
			row.LecturerEmail,
			fmt.Sprintf("%d", row.ID),
			row.HoursWorked.StringFixed(2),
			row.HourlyRate.StringFixed(2),
			row.TotalAmount.StringFixed(2),
			row.Status.String(),
			row.SubmittedOn.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row for claim %d: %w", row.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
