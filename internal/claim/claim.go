package claim

import (
	"errors"
	"fmt"
	"time"

	claimDatamodel "github.com/frahmantamala/claim-management/internal/core/datamodel/claim"
	"github.com/shopspring/decimal"
)

// Status is the closed set of claim lifecycle states. No other values are
// permitted anywhere in the system; the persistence layer rejects unknown
// statuses on read.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// ParseStatus converts a stored string into a Status, failing on anything
// outside the enumerated set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown claim status %q", s)
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further workflow transition is defined
// from this status.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Claim is a lecturer's submission of worked hours and rate for a pay
// period, with an optional supporting document and a review status.
type Claim struct {
	ID               int64           `json:"id"`
	LecturerID       int64           `json:"lecturer_id"`
	HoursWorked      decimal.Decimal `json:"hours_worked"`
	HourlyRate       decimal.Decimal `json:"hourly_rate"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           Status          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	UploadedFileName *string         `json:"uploaded_file_name,omitempty"`
	SubmittedOn      time.Time       `json:"submitted_on"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (c *Claim) CanBeApproved() bool {
	return c.Status == StatusPending || c.Status == StatusUnderReview
}

func (c *Claim) CanBeRejected() bool {
	return c.Status == StatusPending || c.Status == StatusUnderReview
}

// ClaimWithLecturer joins a claim with the submitting lecturer's display
// fields for review queues and report exports.
type ClaimWithLecturer struct {
	Claim
	LecturerName  string `json:"lecturer_name"`
	LecturerEmail string `json:"lecturer_email"`
}

// ReportFilter narrows report exports by submission window and status.
// Nil fields mean no filtering on that dimension.
type ReportFilter struct {
	From   *time.Time
	To     *time.Time
	Status *Status
}

// Domain errors
var (
	ErrClaimNotFound      = errors.New("claim not found")
	ErrClaimConflict      = errors.New("claim was modified concurrently")
	ErrAlreadyReviewed    = errors.New("claim has already been reviewed")
	ErrInvalidTransition  = errors.New("invalid claim status transition")
	ErrUnauthorizedAccess = errors.New("unauthorized access to claim")
	ErrDocumentNotFound   = errors.New("claim has no uploaded document")
)

func ToDataModel(c *Claim) *claimDatamodel.Claim {
	return &claimDatamodel.Claim{
		ID:               c.ID,
		LecturerID:       c.LecturerID,
		HoursWorked:      c.HoursWorked,
		HourlyRate:       c.HourlyRate,
		TotalAmount:      c.TotalAmount,
		Status:           string(c.Status),
		Notes:            c.Notes,
		UploadedFileName: c.UploadedFileName,
		SubmittedOn:      c.SubmittedOn,
		Version:          c.Version,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func FromDataModel(dm *claimDatamodel.Claim) (*Claim, error) {
	status, err := ParseStatus(dm.Status)
	if err != nil {
		return nil, err
	}
	return &Claim{
		ID:               dm.ID,
		LecturerID:       dm.LecturerID,
		HoursWorked:      dm.HoursWorked,
		HourlyRate:       dm.HourlyRate,
		TotalAmount:      dm.TotalAmount,
		Status:           status,
		Notes:            dm.Notes,
		UploadedFileName: dm.UploadedFileName,
		SubmittedOn:      dm.SubmittedOn,
		Version:          dm.Version,
		CreatedAt:        dm.CreatedAt,
		UpdatedAt:        dm.UpdatedAt,
	}, nil
}

func FromDataModelSlice(dms []*claimDatamodel.Claim) ([]*Claim, error) {
	result := make([]*Claim, len(dms))
	for i, dm := range dms {
		c, err := FromDataModel(dm)
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}
