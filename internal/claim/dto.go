package claim

import (
	"strings"

	internalErrors "github.com/frahmantamala/claim-management/internal"
	"github.com/frahmantamala/claim-management/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// CreateClaimDTO carries the lecturer's submission. Hours and rate arrive
// as decimal strings from the multipart form and must be non-negative;
// the engine does not clamp, it trusts validation to have run first.
type CreateClaimDTO struct {
	HoursWorked decimal.Decimal `json:"hours_worked"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Notes       string          `json:"notes,omitempty"`
}

var maxClaimHours = decimal.NewFromInt(744) // hours in the longest month

func (dto CreateClaimDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("hours_worked", dto.HoursWorked).
		NonNegative(internalErrors.ErrCodeInvalidHours).
		MaxDecimal(maxClaimHours, internalErrors.ErrCodeInvalidHours)
	validator.Field("hourly_rate", dto.HourlyRate).
		NonNegative(internalErrors.ErrCodeInvalidRate)
	validator.Field("notes", dto.Notes).
		MaxLength(2000)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

// RejectClaimDTO carries a coordinator's rejection.
type RejectClaimDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectClaimDTO) Validate() error {
	if strings.TrimSpace(dto.Reason) == "" {
		return errMissingRejectReason
	}
	return nil
}

// errMissingRejectReason maps to 400; a blank reason is a client error,
// not a server fault.
var errMissingRejectReason = internalErrors.NewValidationFieldError(
	"reason",
	"rejection reason is required",
	internalErrors.ErrCodeMissingRejectReason,
)

// ClaimListResponse wraps paginated claim listings.
type ClaimListResponse struct {
	Claims []*Claim `json:"claims"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}
