package users

// Profile is the authenticated user as the admin panel sees it. IsAdmin and
// IsAuthor are derived from Role and must never be set independently; use
// Normalize after changing Role.
type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Role       Role   `json:"role"`
	IsAdmin    bool   `json:"isAdmin"`
	IsAuthor   bool   `json:"isAuthor"`
	AuthorName string `json:"authorName,omitempty"`
}

// Normalize re-derives the role flags from Role.
func (p *Profile) Normalize() {
	p.IsAdmin = p.Role == RoleAdmin
	p.IsAuthor = p.Role == RoleAuthor
}

// DisplayName returns the best human-readable name for the profile.
func (p *Profile) DisplayName() string {
	switch {
	case p.AuthorName != "":
		return p.AuthorName
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.Username
	}
}
