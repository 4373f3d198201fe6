package transport

import (
	"net/http"

	"github.com/rs/zerolog"

	apperrors "github.com/jamcha/go-admin-client/internal/errors"
	"github.com/jamcha/go-admin-client/sessions"
)

// Retry is the response interceptor. A 401 from a non-auth endpoint triggers
// exactly one renew-and-retry cycle:
//
//   - renewal succeeds: the request is replayed once through the inner chain
//     and that result is returned unchanged, even if it is another 401. The
//     replayed response never re-enters this path, so no retry loop exists.
//   - renewal fails terminally (no refresh token, or the backend rejected
//     it): hard logout — the store is cleared, the navigator is sent to the
//     login view, and the call resolves with ErrSessionExpired.
//   - renewal fails transiently: the original 401 is returned untouched and
//     the session is left intact.
type Retry struct {
	next      http.RoundTripper
	repo      sessions.Repo
	refresher TokenRefresher
	nav       LoginRedirector
	log       zerolog.Logger
}

var _ http.RoundTripper = (*Retry)(nil)

// NewRetry creates the 401-retry transport over next. nav may be nil.
func NewRetry(next http.RoundTripper, repo sessions.Repo, refresher TokenRefresher, nav LoginRedirector, logger zerolog.Logger) *Retry {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Retry{next: next, repo: repo, refresher: refresher, nav: nav, log: logger}
}

func (t *Retry) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if isAuthPath(req.URL.Path) {
		return resp, nil
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		// The body was consumed and cannot be replayed.
		return resp, nil
	}

	if _, rerr := t.refresher.Refresh(req.Context()); rerr != nil {
		if apperrors.TerminalRefresh(rerr) {
			drainAndClose(resp.Body)
			if cerr := t.repo.Clear(); cerr != nil {
				t.log.Error().Err(cerr).Msg("failed to clear session on forced logout")
			}
			if t.nav != nil {
				t.nav.ToLogin()
			}
			t.log.Info().Str("path", req.URL.Path).Msg("session expired, forced logout")
			return nil, apperrors.ErrSessionExpired
		}
		t.log.Warn().Err(rerr).Str("path", req.URL.Path).Msg("token renewal failed, surfacing original 401")
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return resp, nil
		}
		retry.Body = body
	}
	drainAndClose(resp.Body)

	t.log.Debug().Str("path", req.URL.Path).Msg("replaying request with renewed token")
	return t.next.RoundTrip(retry)
}
