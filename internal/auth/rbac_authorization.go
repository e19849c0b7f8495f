package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization wires permission checks into the router as middleware.
// It assumes AuthMiddleware already placed the principal in the context.
type RBACAuthorization struct {
	checker PermissionChecker
	logger  *slog.Logger
}

func NewRBACAuthorization(checker PermissionChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		checker: checker,
		logger:  logger,
	}
}

func (ra *RBACAuthorization) require(check func(permissions []string) bool, label string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !check(user.Permissions) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"required", label,
					"user_permissions", user.Permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Middleware requires a single named permission (admin always passes).
func (ra *RBACAuthorization) Middleware(permission string) func(http.Handler) http.Handler {
	return ra.require(func(perms []string) bool {
		return ra.checker.HasAnyPermission(perms, []string{permission}) || ra.checker.IsAdmin(perms)
	}, permission)
}

func (ra *RBACAuthorization) RequireApproveClaim() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanApproveClaims, "approve_claims")
}

func (ra *RBACAuthorization) RequireRejectClaim() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanRejectClaims, "reject_claims")
}

func (ra *RBACAuthorization) RequireReviewer() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanViewAllClaims, "view_all_claims")
}

func (ra *RBACAuthorization) RequireExportReports() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanExportReports, "export_reports")
}

func (ra *RBACAuthorization) RequireManageUsers() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanManageUsers, "manage_users")
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.require(ra.checker.IsAdmin, "admin")
}
