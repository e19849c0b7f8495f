package user

import (
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/claim-management/internal/core/datamodel/user"
)

// Role is a named permission bundle granted at user creation.
type Role string

const (
	RoleLecturer    Role = "lecturer"
	RoleCoordinator Role = "coordinator"
	RoleAdmin       Role = "admin"
)

// RolePermissions maps each role to the permissions it grants. Lecturers
// submit and read their own claims; coordinators review everyone's;
// admins hold the admin permission which passes every check.
var RolePermissions = map[Role][]string{
	RoleLecturer:    {"submit_claims", "view_own_claims"},
	RoleCoordinator: {"approve_claims", "reject_claims", "view_all_claims"},
	RoleAdmin:       {"admin"},
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleLecturer, RoleCoordinator, RoleAdmin:
		return Role(s), nil
	}
	return "", errors.New("unknown role: must be lecturer, coordinator or admin")
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Department   string    `json:"department"`
	IsActive     bool      `json:"is_active"`
	Permissions  []string  `json:"permissions,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasPermission("admin")
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

type Permission struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	ErrNotFound          = errors.New("user not found")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrUnknownPermission = errors.New("unknown permission")
)

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Department:   u.Department,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Department:   u.Department,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Permissions:  []string{},
	}
}

func FromDataModelWithPermissions(u *userDatamodel.User, permissions []string) *User {
	domainUser := FromDataModel(u)
	domainUser.Permissions = permissions
	return domainUser
}
