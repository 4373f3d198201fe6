package sessions

import "github.com/jamcha/go-admin-client/users"

// Repo stores the four session slots. Readers must never observe a partially
// written or partially cleared session; implementations guard every method
// with the same lock. Getters return false for absent or unreadable values
// rather than surfacing storage corruption to callers.
type Repo interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	User() (*users.Profile, bool)
	Role() (users.Role, bool)

	// SetSession replaces all four slots atomically.
	SetSession(s Session) error

	// SetTokens replaces the access token and, when refreshToken is non-empty,
	// the refresh token (rotation). The profile and role are untouched.
	SetTokens(accessToken, refreshToken string) error

	// SetUser replaces the stored profile only; tokens are never touched
	// through this side channel.
	SetUser(u *users.Profile) error

	// Clear removes all four slots atomically.
	Clear() error
}
