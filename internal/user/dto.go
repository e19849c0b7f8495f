package user

import (
	"fmt"
	"net/mail"
	"strings"

	internalErrors "github.com/frahmantamala/claim-management/internal"
	"github.com/frahmantamala/claim-management/internal/core/common/validation"
)

// CreateUserDTO registers a new user with a role bundle.
type CreateUserDTO struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

func (dto CreateUserDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("email", dto.Email).Required().Custom(validEmail("email"))
	validator.Field("name", dto.Name).Required().MaxLength(200)
	validator.Field("password", dto.Password).Required().Custom(func(value interface{}) *internalErrors.AppError {
		if v, ok := value.(string); ok && v != "" && len(v) < 8 {
			return internalErrors.NewValidationFieldError("password", "password must be at least 8 characters", internalErrors.ErrCodeValidationFailed)
		}
		return nil
	})
	validator.Field("role", dto.Role).Required().Custom(func(value interface{}) *internalErrors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if _, err := ParseRole(v); err != nil {
				return internalErrors.NewValidationFieldError("role", err.Error(), internalErrors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateUserDTO patches mutable user fields. Nil means leave unchanged.
type UpdateUserDTO struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return internalErrors.NewValidationFieldError("name", "name must not be empty", internalErrors.ErrCodeValidationFailed)
	}
	return nil
}

func validEmail(field string) func(interface{}) *internalErrors.AppError {
	return func(value interface{}) *internalErrors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		if _, err := mail.ParseAddress(v); err != nil {
			message := fmt.Sprintf("%s is not a valid email address", field)
			return internalErrors.NewValidationFieldError(field, message, internalErrors.ErrCodeInvalidEmail)
		}
		return nil
	}
}
