package report_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/claim-management/internal/claim"
	"github.com/frahmantamala/claim-management/internal/report"
)

type mockReportRepository struct {
	rows       []*claim.ClaimWithLecturer
	lastFilter claim.ReportFilter
	listError  error
}

func (m *mockReportRepository) ListForReport(ctx context.Context, filter claim.ReportFilter) ([]*claim.ClaimWithLecturer, error) {
	m.lastFilter = filter
	if m.listError != nil {
		return nil, m.listError
	}
	return m.rows, nil
}

func row(id, lecturerID int64, hours, rate, total string, status claim.Status) *claim.ClaimWithLecturer {
	h, _ := decimal.NewFromString(hours)
	r, _ := decimal.NewFromString(rate)
	t, _ := decimal.NewFromString(total)
	return &claim.ClaimWithLecturer{
		Claim: claim.Claim{
			ID:          id,
			LecturerID:  lecturerID,
			HoursWorked: h,
			HourlyRate:  r,
			TotalAmount: t,
			Status:      status,
			SubmittedOn: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
		},
		LecturerName:  "Ada Lovelace",
		LecturerEmail: "ada@university.edu",
	}
}

var _ = Describe("ReportService", func() {
	var (
		service  *report.Service
		mockRepo *mockReportRepository
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = &mockReportRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(mockRepo, logger)
		ctx = context.Background()
	})

	Describe("Summarize", func() {
		It("should return zero values for an empty period", func() {
			summary, err := service.Summarize(ctx, claim.ReportFilter{})

			Expect(err).NotTo(HaveOccurred())
			Expect(summary.ClaimCount).To(Equal(0))
			Expect(summary.TotalHours.StringFixed(2)).To(Equal("0.00"))
			Expect(summary.GrandTotal.StringFixed(2)).To(Equal("0.00"))
		})

		It("should sum hours and totals across the filtered set", func() {
			mockRepo.rows = []*claim.ClaimWithLecturer{
				row(1, 10, "38.5", "125", "4812.50", claim.StatusApproved),
				row(2, 11, "10", "60.25", "602.50", claim.StatusPending),
			}

			summary, err := service.Summarize(ctx, claim.ReportFilter{})

			Expect(err).NotTo(HaveOccurred())
			Expect(summary.ClaimCount).To(Equal(2))
			Expect(summary.TotalHours.StringFixed(2)).To(Equal("48.50"))
			Expect(summary.GrandTotal.StringFixed(2)).To(Equal("5415.00"))
		})

		It("should pass the filter through to the repository", func() {
			from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			status := claim.StatusApproved

			_, err := service.Summarize(ctx, claim.ReportFilter{From: &from, Status: &status})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.lastFilter.From).To(Equal(&from))
			Expect(mockRepo.lastFilter.Status).To(Equal(&status))
		})
	})
})

var _ = Describe("ParseFilter", func() {
	It("should parse bare dates and widen the to date to end of day", func() {
		filter, err := report.ParseFilter(url.Values{"from": {"2026-01-01"}, "to": {"2026-01-31"}})

		Expect(err).NotTo(HaveOccurred())
		Expect(filter.From.Format("2006-01-02")).To(Equal("2026-01-01"))
		Expect(filter.To.After(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC))).To(BeTrue())
	})

	It("should accept RFC 3339 timestamps", func() {
		filter, err := report.ParseFilter(url.Values{"from": {"2026-01-01T08:30:00Z"}})

		Expect(err).NotTo(HaveOccurred())
		Expect(filter.From.Hour()).To(Equal(8))
	})

	It("should parse a valid status", func() {
		filter, err := report.ParseFilter(url.Values{"status": {"approved"}})

		Expect(err).NotTo(HaveOccurred())
		Expect(*filter.Status).To(Equal(claim.StatusApproved))
	})

	It("should reject unknown statuses", func() {
		_, err := report.ParseFilter(url.Values{"status": {"archived"}})
		Expect(err).To(HaveOccurred())
	})

	It("should reject malformed dates", func() {
		_, err := report.ParseFilter(url.Values{"from": {"January 1st"}})
		Expect(err).To(HaveOccurred())
	})

	It("should leave absent parameters nil", func() {
		filter, err := report.ParseFilter(url.Values{})

		Expect(err).NotTo(HaveOccurred())
		Expect(filter.From).To(BeNil())
		Expect(filter.To).To(BeNil())
		Expect(filter.Status).To(BeNil())
	})
})

var _ = Describe("WriteCSV", func() {
	It("should write only the header for an empty set", func() {
		var buf bytes.Buffer

		Expect(report.WriteCSV(&buf, nil)).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(1))
		Expect(lines[0]).To(Equal("LecturerId,LecturerName,Email,ClaimId,Hours,Rate,Total,Status,SubmittedOn"))
	})

	It("should write one record per claim with fixed-point amounts", func() {
		var buf bytes.Buffer
		rows := []*claim.ClaimWithLecturer{
			row(7, 10, "38.5", "125", "4812.5", claim.StatusApproved),
		}

		Expect(report.WriteCSV(&buf, rows)).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[1]).To(Equal("10,Ada Lovelace,ada@university.edu,7,38.50,125.00,4812.50,approved,2026-01-15T09:00:00Z"))
	})
})

var _ = Describe("WritePDF", func() {
	It("should produce a PDF document for an empty set", func() {
		var buf bytes.Buffer
		summary := report.SummarizeRows(nil, claim.ReportFilter{})

		Expect(report.WritePDF(&buf, nil, summary)).To(Succeed())
		Expect(buf.String()).To(HavePrefix("%PDF"))
	})

	It("should produce a PDF document with claim rows", func() {
		var buf bytes.Buffer
		rows := []*claim.ClaimWithLecturer{
			row(1, 10, "38.5", "125", "4812.50", claim.StatusApproved),
			row(2, 11, "10", "60", "600.00", claim.StatusRejected),
		}
		summary := report.SummarizeRows(rows, claim.ReportFilter{})

		Expect(report.WritePDF(&buf, rows, summary)).To(Succeed())
		Expect(buf.Len()).To(BeNumerically(">", 0))
	})
})

var _ = Describe("WriteXLSX", func() {
	It("should produce a spreadsheet with claim rows", func() {
		var buf bytes.Buffer
		rows := []*claim.ClaimWithLecturer{
			row(1, 10, "38.5", "125", "4812.50", claim.StatusApproved),
		}
		summary := report.SummarizeRows(rows, claim.ReportFilter{})

		Expect(report.WriteXLSX(&buf, rows, summary)).To(Succeed())
		// XLSX files are zip archives.
		Expect(buf.Bytes()[:2]).To(Equal([]byte("PK")))
	})
})
