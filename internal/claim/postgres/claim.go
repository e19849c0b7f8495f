package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/claim-management/internal/claim"
	claimDatamodel "github.com/frahmantamala/claim-management/internal/core/datamodel/claim"
	"gorm.io/gorm"
)

type ClaimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Create(ctx context.Context, c *claim.Claim) error {
	dm := claim.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	c.ID = dm.ID
	c.CreatedAt = dm.CreatedAt
	c.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, id int64) (*claim.Claim, error) {
	var dm claimDatamodel.Claim
	err := r.db.WithContext(ctx).First(&dm, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, claim.ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get claim %d: %w", id, err)
	}
	return claim.FromDataModel(&dm)
}

func (r *ClaimRepository) ListByLecturer(ctx context.Context, lecturerID int64, limit, offset int) ([]*claim.Claim, error) {
	var dms []*claimDatamodel.Claim
	err := r.db.WithContext(ctx).
		Where("lecturer_id = ?", lecturerID).
		Order("submitted_on DESC").
		Limit(limit).
		Offset(offset).
		Find(&dms).Error
	if err != nil {
		return nil, fmt.Errorf("list claims for lecturer %d: %w", lecturerID, err)
	}
	return claim.FromDataModelSlice(dms)
}

// ListByStatus returns claims in the given statuses ordered by submission
// time ascending, so the review queue is worked oldest first.
func (r *ClaimRepository) ListByStatus(ctx context.Context, statuses []claim.Status, limit, offset int) ([]*claim.Claim, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}
	var dms []*claimDatamodel.Claim
	err := r.db.WithContext(ctx).
		Where("status IN ?", values).
		Order("submitted_on ASC").
		Limit(limit).
		Offset(offset).
		Find(&dms).Error
	if err != nil {
		return nil, fmt.Errorf("list claims by status: %w", err)
	}
	return claim.FromDataModelSlice(dms)
}

func (r *ClaimRepository) ListAllWithLecturer(ctx context.Context, limit, offset int) ([]*claim.ClaimWithLecturer, error) {
	var rows []*claimDatamodel.ClaimWithLecturer
	err := r.db.WithContext(ctx).
		Table("claims").
		Select("claims.*, users.name AS lecturer_name, users.email AS lecturer_email").
		Joins("JOIN users ON users.id = claims.lecturer_id").
		Order("claims.submitted_on DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list claims with lecturer: %w", err)
	}

	result := make([]*claim.ClaimWithLecturer, len(rows))
	for i, row := range rows {
		c, err := claim.FromDataModel(&row.Claim)
		if err != nil {
			return nil, err
		}
		result[i] = &claim.ClaimWithLecturer{
			Claim:         *c,
			LecturerName:  row.LecturerName,
			LecturerEmail: row.LecturerEmail,
		}
	}
	return result, nil
}

// ListForReport returns claims joined with lecturer details for export,
// optionally filtered by submission window and status.
func (r *ClaimRepository) ListForReport(ctx context.Context, filter claim.ReportFilter) ([]*claim.ClaimWithLecturer, error) {
	query := r.db.WithContext(ctx).
		Table("claims").
		Select("claims.*, users.name AS lecturer_name, users.email AS lecturer_email").
		Joins("JOIN users ON users.id = claims.lecturer_id").
		Order("claims.submitted_on ASC")

	if filter.From != nil {
		query = query.Where("claims.submitted_on >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("claims.submitted_on <= ?", *filter.To)
	}
	if filter.Status != nil {
		query = query.Where("claims.status = ?", filter.Status.String())
	}

	var rows []*claimDatamodel.ClaimWithLecturer
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list claims for report: %w", err)
	}

	result := make([]*claim.ClaimWithLecturer, len(rows))
	for i, row := range rows {
		c, err := claim.FromDataModel(&row.Claim)
		if err != nil {
			return nil, err
		}
		result[i] = &claim.ClaimWithLecturer{
			Claim:         *c,
			LecturerName:  row.LecturerName,
			LecturerEmail: row.LecturerEmail,
		}
	}
	return result, nil
}

// UpdateStatus performs a versioned status update. The WHERE clause pins
// both id and version; zero rows affected means either the claim is gone
// or someone else updated it first.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, id, version int64, status claim.Status, notes string) error {
	res := r.db.WithContext(ctx).
		Model(&claimDatamodel.Claim{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  status.String(),
			"notes":   notes,
			"version": version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("update claim %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&claimDatamodel.Claim{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("check claim %d existence: %w", id, err)
		}
		if count == 0 {
			return claim.ErrClaimNotFound
		}
		return claim.ErrClaimConflict
	}
	return nil
}
