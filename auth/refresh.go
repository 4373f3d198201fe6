package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/jamcha/go-admin-client/internal/errors"
	"github.com/jamcha/go-admin-client/sessions"
)

const refreshPath = "/auth/refresh"

// refreshKey is the single-flight key: one session per store means one
// renewal slot.
const refreshKey = "refresh"

// Refresher renews the access token with the backend. Concurrent calls are
// coalesced onto a single in-flight renewal: the backend rotates refresh
// tokens, so duplicate renewals of the same session can invalidate each other.
//
// The Refresher uses its own plain HTTP client rather than the intercepted
// one, so renewing can never recurse into another renewal.
type Refresher struct {
	repo    sessions.Repo
	client  *http.Client
	baseURL string
	group   singleflight.Group
	log     zerolog.Logger
}

// RefresherOption defines a function type to modify the Refresher instance.
type RefresherOption func(*Refresher)

// WithRefreshHTTPClient sets the HTTP client used for renewal calls.
func WithRefreshHTTPClient(c *http.Client) RefresherOption {
	return func(r *Refresher) { r.client = c }
}

// WithRefreshLogger sets the refresher logger.
func WithRefreshLogger(l zerolog.Logger) RefresherOption {
	return func(r *Refresher) { r.log = l }
}

// NewRefresher initializes a Refresher with required dependencies.
func NewRefresher(repo sessions.Repo, baseURL string, options ...RefresherOption) (*Refresher, error) {
	if repo == nil {
		return nil, fmt.Errorf("[NewRefresher] sessions repo is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("[NewRefresher] baseURL is required")
	}

	r := &Refresher{
		repo:    repo,
		client:  http.DefaultClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Refresh returns a renewed access token, writing it (and a rotated refresh
// token, if issued) to the store first. Callers arriving while a renewal is
// in flight await that same renewal and share its result; the pending slot
// clears once it settles. The first caller's context governs the shared call.
//
// Failures are classified: ErrNoRefreshToken and ErrRefreshRejected mean the
// session cannot be renewed at all, anything else is transient.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	v, err, shared := r.group.Do(refreshKey, func() (interface{}, error) {
		return r.renew(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		r.log.Debug().Msg("joined in-flight token renewal")
	}
	return v.(string), nil
}

func (r *Refresher) renew(ctx context.Context) (string, error) {
	refreshToken, ok := r.repo.RefreshToken()
	if !ok {
		return "", apperrors.ErrNoRefreshToken
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+refreshPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrRefreshUnreachable, "renew request (%v)", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized:
		return "", apperrors.ErrRefreshRejected
	default:
		return "", apperrors.Wrapf(apperrors.ErrRefreshUnreachable, "unexpected status %d", resp.StatusCode)
	}

	var rr refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrRefreshUnreachable, "decode response (%v)", err)
	}
	if rr.AccessToken == "" {
		return "", apperrors.Wrapf(apperrors.ErrRefreshUnreachable, "response missing access token")
	}

	if err := r.repo.SetTokens(rr.AccessToken, rr.RefreshToken); err != nil {
		return "", apperrors.Wrapf(err, "store renewed tokens")
	}

	r.log.Debug().Bool("rotated", rr.RefreshToken != "").Msg("access token renewed")
	return rr.AccessToken, nil
}
