package transport

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jamcha/go-admin-client/sessions"
	"github.com/jamcha/go-admin-client/token"
)

// RequestIDHeader carries a per-request ID for correlating client and server
// logs.
const RequestIDHeader = "X-Request-Id"

// defaultExpiryBuffer is how far ahead of actual expiry a token is renewed,
// so it does not expire mid-request.
const defaultExpiryBuffer = 30 * time.Second

// Bearer is the request interceptor. With no stored token the request passes
// through unauthenticated, so public endpoints can share the client. With a
// token stored it attaches the bearer header, renewing first when the token
// is expired or about to expire.
type Bearer struct {
	next      http.RoundTripper
	repo      sessions.Repo
	refresher TokenRefresher
	buffer    time.Duration
	log       zerolog.Logger
}

var _ http.RoundTripper = (*Bearer)(nil)

// BearerOption configures the Bearer transport.
type BearerOption func(*Bearer)

// WithExpiryBuffer sets how far ahead of expiry the token is renewed.
func WithExpiryBuffer(d time.Duration) BearerOption {
	return func(b *Bearer) { b.buffer = d }
}

// NewBearer creates the bearer-attaching transport over next.
func NewBearer(next http.RoundTripper, repo sessions.Repo, refresher TokenRefresher, logger zerolog.Logger, options ...BearerOption) *Bearer {
	if next == nil {
		next = http.DefaultTransport
	}
	b := &Bearer{next: next, repo: repo, refresher: refresher, buffer: defaultExpiryBuffer, log: logger}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *Bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, ok := b.repo.AccessToken()
	if !ok {
		return b.next.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	req = req.Clone(req.Context())
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	if token.ExpiredWithin(tok, b.buffer) {
		fresh, err := b.refresher.Refresh(req.Context())
		if err != nil {
			// Attach the stale token anyway and let the server reject it
			// authoritatively; a failed proactive renewal must not block the
			// request from being attempted.
			b.log.Warn().Err(err).Str("path", req.URL.Path).Msg("proactive token renewal failed")
		} else {
			tok = fresh
		}
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	return b.next.RoundTrip(req)
}
