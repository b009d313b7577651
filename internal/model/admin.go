package model

import "time"

// AdminRole determines the permission set embedded in an admin's JWT.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "superadmin"
	RoleEditor     AdminRole = "editor"
)

// Permission codes checked by the RBAC middleware.
type Permission string

const (
	PermissionLessonsWrite Permission = "lessons:write"
	PermissionCodesWrite   Permission = "codes:write"
	PermissionStudentsRead Permission = "students:read"
)

// rolePermissions maps each role to its permission codes.
var rolePermissions = map[AdminRole][]string{
	RoleSuperAdmin: {
		string(PermissionLessonsWrite),
		string(PermissionCodesWrite),
		string(PermissionStudentsRead),
	},
	RoleEditor: {
		string(PermissionLessonsWrite),
	},
}

// PermissionsForRole returns the permission codes granted to a role.
// Unknown roles get no permissions.
func PermissionsForRole(role AdminRole) []string {
	return rolePermissions[role]
}

// Admin represents an administrator account.
type Admin struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
