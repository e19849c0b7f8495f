package claim

// Permission names used across the claim workflow. Seeded by the seed
// command and granted per user through the user_permissions table.
const (
	PermSubmitClaims   = "submit_claims"
	PermViewOwnClaims  = "view_own_claims"
	PermApproveClaims  = "approve_claims"
	PermRejectClaims   = "reject_claims"
	PermViewAllClaims  = "view_all_claims"
	PermExportReports  = "export_reports"
	PermManageUsers    = "manage_users"
	PermAdmin          = "admin"
)

// actionPermissions maps each workflow action to the permissions that
// allow it. Admin is always sufficient.
var actionPermissions = map[Action][]string{
	ActionSubmit:  {PermSubmitClaims, PermAdmin},
	ActionApprove: {PermApproveClaims, PermAdmin},
	ActionReject:  {PermRejectClaims, PermAdmin},
}

// CanPerform is the transition policy: given the actor's permissions, the
// claim's current status and the requested action, it answers allow or
// deny. Callers check this before invoking the engine's pure transition
// operations, keeping authorization decoupled from workflow logic.
func CanPerform(permissions []string, current Status, action Action) bool {
	allowed, ok := actionPermissions[action]
	if !ok {
		return false
	}
	if !hasAnyPermission(permissions, allowed) {
		return false
	}
	if action == ActionSubmit {
		return true
	}
	return CanTransition(current, action)
}

// CanViewAll reports whether the actor may see claims submitted by other
// lecturers (review queues, admin listings).
func CanViewAll(permissions []string) bool {
	return hasAnyPermission(permissions, []string{PermViewAllClaims, PermApproveClaims, PermRejectClaims, PermAdmin})
}

// CanExportReports reports whether the actor may run HR/admin exports.
func CanExportReports(permissions []string) bool {
	return hasAnyPermission(permissions, []string{PermExportReports, PermAdmin})
}

func hasAnyPermission(userPermissions, required []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range required {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}
