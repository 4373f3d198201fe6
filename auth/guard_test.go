package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jamcha/go-admin-client/auth"
	apperrors "github.com/jamcha/go-admin-client/internal/errors"
	"github.com/jamcha/go-admin-client/sessions"
	"github.com/jamcha/go-admin-client/users"
)

// fakeNavigator records navigation side effects.
type fakeNavigator struct {
	login     atomic.Int64
	forbidden atomic.Int64
	dashboard atomic.Int64
}

func (n *fakeNavigator) ToLogin()     { n.login.Add(1) }
func (n *fakeNavigator) ToForbidden() { n.forbidden.Add(1) }
func (n *fakeNavigator) ToDashboard() { n.dashboard.Add(1) }

type guardFixture struct {
	repo  *sessions.InMemoryRepo
	guard *auth.Guard
	nav   *fakeNavigator
}

func newGuardFixture(t *testing.T, handler http.Handler) *guardFixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo := sessions.NewInMemoryRepo()
	svc, err := auth.NewService(repo, srv.URL)
	require.NoError(t, err)

	nav := &fakeNavigator{}
	guard, err := auth.NewGuard(svc, nav)
	require.NoError(t, err)
	return &guardFixture{repo: repo, guard: guard, nav: nav}
}

func TestNewGuardValidation(t *testing.T) {
	_, err := auth.NewGuard(nil, &fakeNavigator{})
	require.Error(t, err)

	repo := sessions.NewInMemoryRepo()
	svc, err := auth.NewService(repo, "http://localhost")
	require.NoError(t, err)
	_, err = auth.NewGuard(svc, nil)
	require.Error(t, err)
}

func TestRequireAuthWithoutSession(t *testing.T) {
	f := newGuardFixture(t, http.NotFoundHandler())

	err := f.guard.RequireAuth()
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	require.EqualValues(t, 1, f.nav.login.Load())
	require.Zero(t, f.nav.forbidden.Load())
}

func TestRequireAuthRoleGate(t *testing.T) {
	f := newGuardFixture(t, http.NotFoundHandler())
	s := adminSession(t)
	s.Role = users.RoleAuthor
	require.NoError(t, f.repo.SetSession(s))

	// any panel role is enough when no roles are required
	require.NoError(t, f.guard.RequireAuth())

	// author is allowed where authors are listed
	require.NoError(t, f.guard.RequireAuth(users.RoleAdmin, users.RoleAuthor))

	// user-management and settings views are admin only
	err := f.guard.RequireAuth(users.RoleAdmin)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	require.EqualValues(t, 1, f.nav.forbidden.Load())
	require.Zero(t, f.nav.login.Load())
}

func TestRequireAuthUnknownStoredRole(t *testing.T) {
	f := newGuardFixture(t, http.NotFoundHandler())
	s := adminSession(t)
	s.Role = users.Role("EDITOR")
	require.NoError(t, f.repo.SetSession(s))

	err := f.guard.RequireAuth(users.RoleAdmin, users.RoleAuthor)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	f := newGuardFixture(t, http.NotFoundHandler())

	// nothing stored: stay on the login view
	require.False(t, f.guard.RedirectIfAuthenticated())
	require.Zero(t, f.nav.dashboard.Load())

	s := adminSession(t)
	s.AccessToken = signedToken(t, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, f.repo.SetSession(s))

	require.True(t, f.guard.RedirectIfAuthenticated())
	require.EqualValues(t, 1, f.nav.dashboard.Load())
}

func TestGuardLogoutAlwaysCleansUp(t *testing.T) {
	f := newGuardFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	require.NoError(t, f.repo.SetSession(adminSession(t)))

	require.NoError(t, f.guard.Logout(context.Background()))

	_, ok := f.repo.AccessToken()
	require.False(t, ok)
	require.EqualValues(t, 1, f.nav.login.Load())
}
