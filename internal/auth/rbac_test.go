package auth_test

import (
	"testing"

	"github.com/dkranz/leadgate/internal/auth"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want auth.Role
	}{
		{"viewer", auth.RoleViewer},
		{"user", auth.RoleUser},
		{"moderator", auth.RoleModerator},
		{"admin", auth.RoleAdmin},
		{"", auth.RoleViewer},
		{"superadmin", auth.RoleViewer},
		{"ADMIN", auth.RoleViewer},
	}

	for _, tt := range tests {
		if got := auth.ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEveryRoleMeetsViewer(t *testing.T) {
	for _, r := range []auth.Role{auth.RoleViewer, auth.RoleUser, auth.RoleModerator, auth.RoleAdmin} {
		if !r.Meets(auth.RoleViewer) {
			t.Errorf("%q should meet the viewer level", r)
		}
	}
}

func TestRoleOrdering(t *testing.T) {
	if auth.RoleUser.Meets(auth.RoleModerator) {
		t.Error("user must not meet moderator")
	}
	if !auth.RoleAdmin.Meets(auth.RoleModerator) {
		t.Error("admin must meet moderator")
	}
	if auth.RoleViewer.Meets(auth.RoleUser) {
		t.Error("viewer must not meet user")
	}
}

func TestPermissionInheritance(t *testing.T) {
	tests := []struct {
		role auth.Role
		perm auth.Permission
		want bool
	}{
		{auth.RoleUser, auth.PermContentCreate, true},
		{auth.RoleUser, auth.PermContentDelete, false},
		{auth.RoleUser, auth.PermContentView, true}, // inherited from viewer
		{auth.RoleViewer, auth.PermContentCreate, false},
		{auth.RoleModerator, auth.PermAnalyticsView, true},
		{auth.RoleModerator, auth.PermUsersManage, false},
		{auth.RoleAdmin, auth.PermContentView, true}, // inherited down the whole chain
		{auth.RoleAdmin, auth.PermSettingsEdit, true},
	}

	for _, tt := range tests {
		if got := tt.role.Has(tt.perm); got != tt.want {
			t.Errorf("%s.Has(%s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestAnyOf(t *testing.T) {
	if !auth.RoleModerator.AnyOf(auth.RoleAdmin, auth.RoleModerator) {
		t.Error("moderator should match itself in the set")
	}
	if auth.RoleUser.AnyOf(auth.RoleAdmin, auth.RoleModerator) {
		t.Error("user must not match admin/moderator set")
	}
}
