package users

// Role identifies a user's access level within the admin panel.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleAuthor Role = "AUTHOR"
)

// PanelRoles lists the roles allowed into the admin panel. Anything outside
// this set is treated as unauthorized for protected views.
var PanelRoles = []Role{RoleAdmin, RoleAuthor}

// ParseRole maps a raw role string onto a known Role. Unknown values return
// false rather than an error; callers decide whether that is fatal.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleAuthor:
		return RoleAuthor, true
	}
	return "", false
}

// CanAccessPanel reports whether the role may enter the admin panel at all.
func (r Role) CanAccessPanel() bool {
	for _, role := range PanelRoles {
		if r == role {
			return true
		}
	}
	return false
}
