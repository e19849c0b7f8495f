package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/frahmantamala/claim-management/internal/claim"
	"github.com/shopspring/decimal"
)

// Repository is the read port for report exports.
type Repository interface {
	ListForReport(ctx context.Context, filter claim.ReportFilter) ([]*claim.ClaimWithLecturer, error)
}

// Summary aggregates a claim set for HR review.
type Summary struct {
	ClaimCount  int             `json:"claim_count"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	GeneratedAt time.Time       `json:"generated_at"`
	From        *time.Time      `json:"from,omitempty"`
	To          *time.Time      `json:"to,omitempty"`
	Status      *claim.Status   `json:"status,omitempty"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Claims returns the filtered claim rows used by every export format.
func (s *Service) Claims(ctx context.Context, filter claim.ReportFilter) ([]*claim.ClaimWithLecturer, error) {
	rows, err := s.repo.ListForReport(ctx, filter)
	if err != nil {
		s.logger.Error("report query failed", "error", err)
		return nil, err
	}
	return rows, nil
}

// Summarize computes claim count, total hours and grand total over the
// filtered set. An empty set yields zero values, not an error.
func (s *Service) Summarize(ctx context.Context, filter claim.ReportFilter) (*Summary, error) {
	rows, err := s.Claims(ctx, filter)
	if err != nil {
		return nil, err
	}
	return SummarizeRows(rows, filter), nil
}

// SummarizeRows aggregates already-loaded rows, so exports that need both
// the rows and the totals only hit the database once.
func SummarizeRows(rows []*claim.ClaimWithLecturer, filter claim.ReportFilter) *Summary {
	totalHours := decimal.Zero
	grandTotal := decimal.Zero
	for _, row := range rows {
		totalHours = totalHours.Add(row.HoursWorked)
		grandTotal = grandTotal.Add(row.TotalAmount)
	}

	return &Summary{
		ClaimCount:  len(rows),
		TotalHours:  totalHours,
		GrandTotal:  grandTotal,
		GeneratedAt: time.Now(),
		From:        filter.From,
		To:          filter.To,
		Status:      filter.Status,
	}
}

// ParseFilter reads from, to and status query parameters. Dates accept
// RFC 3339 or plain YYYY-MM-DD; "to" as a bare date covers the whole day.
func ParseFilter(query url.Values) (claim.ReportFilter, error) {
	var filter claim.ReportFilter

	if raw := query.Get("from"); raw != "" {
		t, err := parseDate(raw, false)
		if err != nil {
			return filter, fmt.Errorf("invalid from date %q", raw)
		}
		filter.From = &t
	}
	if raw := query.Get("to"); raw != "" {
		t, err := parseDate(raw, true)
		if err != nil {
			return filter, fmt.Errorf("invalid to date %q", raw)
		}
		filter.To = &t
	}
	if raw := query.Get("status"); raw != "" {
		status, err := claim.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
