package guard

import "github.com/sumire/leaveportal/internal/domain"

// NavItem is one protected-shell menu entry with the roles allowed to see it.
type NavItem struct {
	Label string        `json:"label"`
	Path  string        `json:"path"`
	Roles []domain.Role `json:"-"`
}

// DefaultMenu lists every shell entry. Entries are filtered per role at
// render time; an entry whose roles do not match is omitted, not disabled.
var DefaultMenu = []NavItem{
	{Label: "Dashboard", Path: "/app/dashboard", Roles: []domain.Role{domain.RoleUser}},
	{Label: "My Leaves", Path: "/app/leaves", Roles: []domain.Role{domain.RoleUser}},
	{Label: "Admin Dashboard", Path: "/app/admin", Roles: []domain.Role{domain.RoleAdmin}},
	{Label: "Users", Path: "/app/admin/users", Roles: []domain.Role{domain.RoleAdmin}},
	{Label: "Leave Settings", Path: "/app/admin/leave-settings", Roles: []domain.Role{domain.RoleAdmin}},
	{Label: "Leave Approval", Path: "/app/admin/user-leaves", Roles: []domain.Role{domain.RoleAdmin}},
	{Label: "Reports", Path: "/app/print/leave-card", Roles: []domain.Role{domain.RoleAdmin, domain.RoleUser}},
	{Label: "Settings", Path: "/app/settings", Roles: []domain.Role{domain.RoleAdmin, domain.RoleUser}},
}

// VisibleMenu returns the entries whose allowed-roles set intersects the
// current role.
func VisibleMenu(items []NavItem, role domain.Role) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, item := range items {
		for _, r := range item.Roles {
			if r == role {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
