package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

type Claim struct {
	ID               int64           `gorm:"primaryKey"`
	LecturerID       int64           `gorm:"column:lecturer_id;not null;index"`
	HoursWorked      decimal.Decimal `gorm:"column:hours_worked;type:numeric(8,2);not null"`
	HourlyRate       decimal.Decimal `gorm:"column:hourly_rate;type:numeric(10,2);not null"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status           string          `gorm:"column:status;not null;default:pending;index"`
	Notes            string          `gorm:"column:notes"`
	UploadedFileName *string         `gorm:"column:uploaded_file_name"`
	SubmittedOn      time.Time       `gorm:"column:submitted_on;not null"`
	Version          int64           `gorm:"column:version;not null;default:1"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Claim) TableName() string {
	return "claims"
}

// ClaimWithLecturer is the read model for review queues and report exports,
// joining the submitting lecturer's display fields.
type ClaimWithLecturer struct {
	Claim
	LecturerName  string `gorm:"column:lecturer_name"`
	LecturerEmail string `gorm:"column:lecturer_email"`
}
