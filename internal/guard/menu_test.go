package guard

import (
	"testing"

	"github.com/sumire/leaveportal/internal/domain"
)

func TestVisibleMenuFiltersByRole(t *testing.T) {
	items := []NavItem{
		{Label: "Users", Path: "/app/admin/users", Roles: []domain.Role{domain.RoleAdmin}},
		{Label: "My Leaves", Path: "/app/leaves", Roles: []domain.Role{domain.RoleUser}},
		{Label: "Settings", Path: "/app/settings", Roles: []domain.Role{domain.RoleAdmin, domain.RoleUser}},
	}

	admin := VisibleMenu(items, domain.RoleAdmin)
	if len(admin) != 2 {
		t.Fatalf("expected 2 admin entries, got %d", len(admin))
	}
	if admin[0].Label != "Users" || admin[1].Label != "Settings" {
		t.Errorf("unexpected admin menu: %v", admin)
	}

	user := VisibleMenu(items, domain.RoleUser)
	if len(user) != 2 {
		t.Fatalf("expected 2 user entries, got %d", len(user))
	}
	if user[0].Label != "My Leaves" {
		t.Errorf("unexpected user menu: %v", user)
	}
}

func TestVisibleMenuOmitsUnmatchedEntirely(t *testing.T) {
	got := VisibleMenu(DefaultMenu, "UNKNOWN_ROLE")
	if len(got) != 0 {
		t.Errorf("expected empty menu for unknown role, got %v", got)
	}
}
