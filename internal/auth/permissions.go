// Package auth defines the role and permission model. Roles are a closed
// three-value enum; permissions are string tags checked by middleware before
// any data is read or written. The role to permission mapping is kept as a
// lookup table so the full matrix can be enumerated in tests.
package auth

// Role values accepted at the API boundary. Unknown roles are rejected,
// never stored.
const (
	RoleAdmin  = "admin"
	RoleLawyer = "lawyer"
	RoleStaff  = "staff"
)

// Permission tags.
const (
	PermClientDelete   = "client:delete"
	PermCaseDelete     = "case:delete"
	PermDocumentDelete = "document:delete"
	PermMessageDelete  = "message:delete"
	PermAuditRead      = "audit:read"
	PermUserManage     = "user:manage"
)

// rolePermissions maps each role to its permission set. admin holds all
// permissions, lawyer can delete owned resources, staff holds none.
var rolePermissions = map[string]map[string]bool{
	RoleAdmin: {
		PermClientDelete:   true,
		PermCaseDelete:     true,
		PermDocumentDelete: true,
		PermMessageDelete:  true,
		PermAuditRead:      true,
		PermUserManage:     true,
	},
	RoleLawyer: {
		PermClientDelete:   true,
		PermCaseDelete:     true,
		PermDocumentDelete: true,
		PermMessageDelete:  true,
	},
	RoleStaff: {},
}

// ValidRole reports whether role is one of the three allowed values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleLawyer || role == RoleStaff
}

// HasPermission reports whether the given role holds the permission.
// Unknown roles hold nothing.
func HasPermission(role, permission string) bool {
	return rolePermissions[role][permission]
}
