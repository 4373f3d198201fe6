// Package transport implements the client-side interceptor chain for
// authenticated API calls: a request interceptor that attaches (and
// proactively renews) the bearer token, and a response interceptor that
// handles 401s with a single renew-and-retry cycle.
//
// The chain is ordered: Retry wraps Bearer wraps the base transport. A
// replayed request re-enters Bearer, which attaches whatever token the store
// holds after renewal.
package transport

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jamcha/go-admin-client/sessions"
)

// TokenRefresher renews the stored access token.
type TokenRefresher interface {
	Refresh(ctx context.Context) (string, error)
}

// LoginRedirector receives the forced navigation to the login view after a
// hard logout.
type LoginRedirector interface {
	ToLogin()
}

// Chain builds the standard pipeline over base: retry(bearer(base)). nav may
// be nil when no navigation side effect is wanted.
func Chain(base http.RoundTripper, repo sessions.Repo, refresher TokenRefresher, nav LoginRedirector, logger zerolog.Logger, options ...BearerOption) http.RoundTripper {
	return NewRetry(NewBearer(base, repo, refresher, logger, options...), repo, refresher, nav, logger)
}

// isAuthPath reports whether the request targets an auth/bootstrap endpoint.
// Those never enter the retry path; refreshing while refreshing recurses.
func isAuthPath(path string) bool {
	return strings.Contains(path, "/auth/") || strings.Contains(path, "/token")
}

func drainAndClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
	_ = rc.Close()
}
