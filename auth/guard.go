package auth

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	apperrors "github.com/jamcha/go-admin-client/internal/errors"
	"github.com/jamcha/go-admin-client/users"
)

// Navigator performs the navigation side effects of access control. The admin
// UI routes to views; the CLI logs where it would have sent the user.
type Navigator interface {
	ToLogin()
	ToForbidden()
	ToDashboard()
}

// Guard answers authorization questions for protected views and orchestrates
// logout.
type Guard struct {
	svc *Service
	nav Navigator
	log zerolog.Logger
}

// GuardOption defines a function type to modify the Guard instance.
type GuardOption func(*Guard)

// WithGuardLogger sets the guard logger.
func WithGuardLogger(l zerolog.Logger) GuardOption {
	return func(g *Guard) { g.log = l }
}

// NewGuard initializes a Guard with required dependencies.
func NewGuard(svc *Service, nav Navigator, options ...GuardOption) (*Guard, error) {
	if svc == nil {
		return nil, fmt.Errorf("[NewGuard] service is required")
	}
	if nav == nil {
		return nil, fmt.Errorf("[NewGuard] navigator is required")
	}

	g := &Guard{svc: svc, nav: nav, log: zerolog.Nop()}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// RequireAuth gates a protected view. Without a session it navigates to the
// login view and returns ErrNotAuthenticated. When requiredRoles is given,
// a stored role outside the set navigates to the forbidden view and returns
// ErrForbidden.
func (g *Guard) RequireAuth(requiredRoles ...users.Role) error {
	if _, ok := g.svc.Token(); !ok {
		g.log.Debug().Msg("guard: no session, redirecting to login")
		g.nav.ToLogin()
		return apperrors.ErrNotAuthenticated
	}
	if len(requiredRoles) == 0 {
		return nil
	}

	role, ok := g.svc.Role()
	if ok && slices.Contains(requiredRoles, role) {
		return nil
	}
	g.log.Debug().Str("role", string(role)).Msg("guard: role not permitted, redirecting to forbidden")
	g.nav.ToForbidden()
	return apperrors.ErrForbidden
}

// RedirectIfAuthenticated is the inverse guard used on the login view: a
// valid-looking session navigates to the dashboard. It reports whether the
// redirect happened.
func (g *Guard) RedirectIfAuthenticated() bool {
	if !g.svc.IsAuthenticated() {
		return false
	}
	g.nav.ToDashboard()
	return true
}

// Logout tears the session down and navigates to the login view. Local
// cleanup happens regardless of whether the backend call succeeded.
func (g *Guard) Logout(ctx context.Context) error {
	err := g.svc.Logout(ctx)
	g.nav.ToLogin()
	return err
}
