// Package sessions persists the authenticated state of the admin client:
// access token, refresh token, user profile, and role. Exactly one session is
// held per store; it is created by login, its tokens replaced by refresh, its
// profile replaced by the profile-update side channel, and the whole of it
// destroyed by logout.
package sessions

import "github.com/jamcha/go-admin-client/users"

// Session is the full authenticated state written on a successful login.
type Session struct {
	AccessToken  string
	RefreshToken string // optional; empty when the backend issued none
	User         *users.Profile
	Role         users.Role
}
