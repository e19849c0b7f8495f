package user

import (
	"fmt"
	"log/slog"
	"strings"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetPermissions(userID int64) ([]string, error)
	List(limit, offset int) ([]*User, error)
	Create(u *User, permissions []string) error
	Update(u *User) error
}

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	perms, err := s.repo.GetPermissions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}
	u.Permissions = perms

	return u, nil
}

func (s *Service) GetPermissions(userID int64) ([]string, error) {
	return s.repo.GetPermissions(userID)
}

func (s *Service) List(limit, offset int) ([]*User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}

// Create registers a user and grants the permission bundle for the
// requested role.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if existing, err := s.repo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        email,
		Name:         dto.Name,
		PasswordHash: hash,
		Department:   dto.Department,
		IsActive:     true,
	}

	permissions := RolePermissions[role]
	if err := s.repo.Create(u, permissions); err != nil {
		s.logger.Error("user create failed", "email", email, "error", err)
		return nil, err
	}
	u.Permissions = permissions

	s.logger.Info("user created", "user_id", u.ID, "email", email, "role", role)
	return u, nil
}

// Update patches mutable fields on an existing user.
func (s *Service) Update(userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Department != nil {
		u.Department = *dto.Department
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("user update failed", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", userID)
	return s.GetByID(userID)
}

// Deactivate disables login for a user without deleting their claims.
func (s *Service) Deactivate(userID int64) error {
	inactive := false
	_, err := s.Update(userID, UpdateUserDTO{IsActive: &inactive})
	return err
}
