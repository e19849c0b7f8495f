package auth

import "context"

type PermissionChecker interface {
	CanApproveClaims(userPermissions []string) bool
	CanRejectClaims(userPermissions []string) bool
	CanViewAllClaims(userPermissions []string) bool
	CanExportReports(userPermissions []string) bool
	CanManageUsers(userPermissions []string) bool
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	IsAdmin(userPermissions []string) bool
}

// DefaultPermissionChecker answers permission questions from the granted
// permission names. Admin always passes.
type DefaultPermissionChecker struct{}

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error) {
	return c.HasAnyPermission(userPermissions, []string{permission, "admin"}), nil
}

func (c *DefaultPermissionChecker) CanApproveClaims(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"approve_claims", "admin"})
}

func (c *DefaultPermissionChecker) CanRejectClaims(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"reject_claims", "admin"})
}

func (c *DefaultPermissionChecker) CanViewAllClaims(userPermissions []string) bool {
	reviewerPerms := []string{"view_all_claims", "approve_claims", "reject_claims", "admin"}
	return c.HasAnyPermission(userPermissions, reviewerPerms)
}

func (c *DefaultPermissionChecker) CanExportReports(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"export_reports", "admin"})
}

func (c *DefaultPermissionChecker) CanManageUsers(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"manage_users", "admin"})
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (c *DefaultPermissionChecker) IsAdmin(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"admin"})
}
