package sessions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jamcha/go-admin-client/sessions"
	"github.com/jamcha/go-admin-client/users"
)

func testSession() sessions.Session {
	profile := &users.Profile{
		ID:       "7",
		Username: "admin",
		Email:    "admin@example.com",
		Role:     users.RoleAdmin,
	}
	profile.Normalize()
	return sessions.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         profile,
		Role:         users.RoleAdmin,
	}
}

func TestInMemoryRepoEmpty(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	_, ok := repo.AccessToken()
	require.False(t, ok)
	_, ok = repo.RefreshToken()
	require.False(t, ok)
	_, ok = repo.User()
	require.False(t, ok)
	_, ok = repo.Role()
	require.False(t, ok)
}

func TestInMemoryRepoSetSession(t *testing.T) {
	repo := sessions.NewInMemoryRepo()
	require.NoError(t, repo.SetSession(testSession()))

	tok, ok := repo.AccessToken()
	require.True(t, ok)
	require.Equal(t, "access-1", tok)

	rt, ok := repo.RefreshToken()
	require.True(t, ok)
	require.Equal(t, "refresh-1", rt)

	u, ok := repo.User()
	require.True(t, ok)
	require.Equal(t, "admin", u.Username)
	require.True(t, u.IsAdmin)

	role, ok := repo.Role()
	require.True(t, ok)
	require.Equal(t, users.RoleAdmin, role)
}

func TestInMemoryRepoSetTokens(t *testing.T) {
	repo := sessions.NewInMemoryRepo()
	require.NoError(t, repo.SetSession(testSession()))

	// rotation: both tokens replaced
	require.NoError(t, repo.SetTokens("access-2", "refresh-2"))
	tok, _ := repo.AccessToken()
	rt, _ := repo.RefreshToken()
	require.Equal(t, "access-2", tok)
	require.Equal(t, "refresh-2", rt)

	// no rotation: refresh token kept
	require.NoError(t, repo.SetTokens("access-3", ""))
	tok, _ = repo.AccessToken()
	rt, _ = repo.RefreshToken()
	require.Equal(t, "access-3", tok)
	require.Equal(t, "refresh-2", rt)

	// profile untouched by token writes
	u, ok := repo.User()
	require.True(t, ok)
	require.Equal(t, "admin", u.Username)
}

func TestInMemoryRepoSetUserLeavesTokens(t *testing.T) {
	repo := sessions.NewInMemoryRepo()
	require.NoError(t, repo.SetSession(testSession()))

	updated := &users.Profile{ID: "7", Username: "admin", Email: "new@example.com", Role: users.RoleAdmin}
	updated.Normalize()
	require.NoError(t, repo.SetUser(updated))

	u, ok := repo.User()
	require.True(t, ok)
	require.Equal(t, "new@example.com", u.Email)

	tok, ok := repo.AccessToken()
	require.True(t, ok)
	require.Equal(t, "access-1", tok)
}

func TestInMemoryRepoClear(t *testing.T) {
	repo := sessions.NewInMemoryRepo()
	require.NoError(t, repo.SetSession(testSession()))
	require.NoError(t, repo.Clear())

	_, ok := repo.AccessToken()
	require.False(t, ok)
	_, ok = repo.RefreshToken()
	require.False(t, ok)
	_, ok = repo.User()
	require.False(t, ok)
	_, ok = repo.Role()
	require.False(t, ok)
}
