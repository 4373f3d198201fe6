package sessions

import (
	"encoding/json"
	"sync"

	"github.com/jamcha/go-admin-client/users"
)

// InMemoryRepo is an in-memory implementation of Repo. It serves tests and
// short-lived tooling that should not persist credentials.
type InMemoryRepo struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         []byte // serialized profile, mirroring persistent stores
	role         users.Role
}

var _ Repo = (*InMemoryRepo)(nil)

// NewInMemoryRepo creates a new empty in-memory session repository.
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{}
}

func (r *InMemoryRepo) AccessToken() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accessToken, r.accessToken != ""
}

func (r *InMemoryRepo) RefreshToken() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refreshToken, r.refreshToken != ""
}

func (r *InMemoryRepo) User() (*users.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return decodeProfile(r.user)
}

func (r *InMemoryRepo) Role() (users.Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.role, r.role != ""
}

func (r *InMemoryRepo) SetSession(s Session) error {
	userData, err := json.Marshal(s.User)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessToken = s.AccessToken
	r.refreshToken = s.RefreshToken
	r.user = userData
	r.role = s.Role
	return nil
}

func (r *InMemoryRepo) SetTokens(accessToken, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessToken = accessToken
	if refreshToken != "" {
		r.refreshToken = refreshToken
	}
	return nil
}

func (r *InMemoryRepo) SetUser(u *users.Profile) error {
	userData, err := json.Marshal(u)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = userData
	return nil
}

func (r *InMemoryRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessToken = ""
	r.refreshToken = ""
	r.user = nil
	r.role = ""
	return nil
}

// decodeProfile deserializes a stored profile. Corrupt data reads as absent;
// storage corruption never bubbles to callers.
func decodeProfile(data []byte) (*users.Profile, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var u users.Profile
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, false
	}
	if u.Username == "" && u.ID == "" {
		return nil, false
	}
	return &u, true
}
