package postgres

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/claim-management/internal/user"
	userDatamodel "github.com/frahmantamala/claim-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.First(&dm, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.First(&dm, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) GetPermissions(userID int64) ([]string, error) {
	var names []string
	err := r.db.
		Table("permissions").
		Select("permissions.name").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("get permissions for user %d: %w", userID, err)
	}
	return names, nil
}

func (r *UserRepository) List(limit, offset int) ([]*user.User, error) {
	var dms []*userDatamodel.User
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&dms).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := make([]*user.User, len(dms))
	for i, dm := range dms {
		result[i] = user.FromDataModel(dm)
	}
	return result, nil
}

// Create inserts the user and grants the named permissions in one
// transaction. Unknown permission names fail the whole registration.
func (r *UserRepository) Create(u *user.User, permissions []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		dm := user.ToDataModel(u)
		if err := tx.Create(dm).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		u.ID = dm.ID
		u.CreatedAt = dm.CreatedAt
		u.UpdatedAt = dm.UpdatedAt

		for _, name := range permissions {
			var perm userDatamodel.Permission
			err := tx.First(&perm, "name = ?", name).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", user.ErrUnknownPermission, name)
			}
			if err != nil {
				return fmt.Errorf("lookup permission %s: %w", name, err)
			}

			grant := userDatamodel.UserPermission{
				UserID:       dm.ID,
				PermissionID: perm.ID,
			}
			if err := tx.Create(&grant).Error; err != nil {
				return fmt.Errorf("grant permission %s: %w", name, err)
			}
		}
		return nil
	})
}

func (r *UserRepository) Update(u *user.User) error {
	res := r.db.
		Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"name":       u.Name,
			"department": u.Department,
			"is_active":  u.IsActive,
		})
	if res.Error != nil {
		return fmt.Errorf("update user %d: %w", u.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
