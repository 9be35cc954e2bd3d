package model

// Role codes carried in the acting user's token
const (
	RoleGlobalAdmin = "GLOBAL_ADMIN"
	RoleBranchAdmin = "BRANCH_ADMIN"
	RoleOperator    = "OPERATOR"
)

// Roles lists every valid role code
var Roles = []string{RoleGlobalAdmin, RoleBranchAdmin, RoleOperator}
