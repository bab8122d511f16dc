package auth

// Role is an ordered privilege level. Unknown values always degrade to
// RoleViewer, never to an error.
type Role string

const (
	RoleViewer    Role = "viewer"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// roleOrder is the privilege hierarchy, lowest first. A role inherits every
// permission of the roles below it.
var roleOrder = []Role{RoleViewer, RoleUser, RoleModerator, RoleAdmin}

type Permission string

const (
	PermContentView      Permission = "content.view"
	PermContentCreate    Permission = "content.create"
	PermContentEdit      Permission = "content.edit"
	PermContentDelete    Permission = "content.delete"
	PermCommentsCreate   Permission = "comments.create"
	PermCommentsModerate Permission = "comments.moderate"
	PermUsersView        Permission = "users.view"
	PermUsersManage      Permission = "users.manage"
	PermSettingsView     Permission = "settings.view"
	PermSettingsEdit     Permission = "settings.edit"
	PermAnalyticsView    Permission = "analytics.view"
	PermAPIAccess        Permission = "api.access"
)

// rolePermissions lists what each role adds on top of the roles below it.
// This table is the single source of truth for every permission check.
var rolePermissions = map[Role][]Permission{
	RoleViewer:    {PermContentView},
	RoleUser:      {PermContentCreate, PermCommentsCreate, PermAPIAccess},
	RoleModerator: {PermContentEdit, PermCommentsModerate, PermUsersView, PermAnalyticsView},
	RoleAdmin:     {PermContentDelete, PermUsersManage, PermSettingsView, PermSettingsEdit},
}

// ParseRole validates an untrusted role string against the known set.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser:
		return RoleUser
	case RoleModerator:
		return RoleModerator
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleViewer
	}
}

// Level returns the role's position in the hierarchy, 0 for viewer.
func (r Role) Level() int {
	for i, candidate := range roleOrder {
		if r == candidate {
			return i
		}
	}
	return 0
}

// Meets reports whether r sits at or above min in the hierarchy.
func (r Role) Meets(min Role) bool {
	return r.Level() >= min.Level()
}

// Permissions returns the cumulative permission set for r: its own grants
// plus everything inherited from lower roles.
func (r Role) Permissions() []Permission {
	var perms []Permission
	for i := 0; i <= r.Level(); i++ {
		perms = append(perms, rolePermissions[roleOrder[i]]...)
	}
	return perms
}

// Has reports whether r holds perm, directly or by inheritance.
func (r Role) Has(perm Permission) bool {
	for _, p := range r.Permissions() {
		if p == perm {
			return true
		}
	}
	return false
}

// AnyOf reports whether r matches one of the given roles exactly.
func (r Role) AnyOf(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
