// Package auth implements the session layer of the admin client: login and
// logout against the backend, transparent access-token renewal, and the
// route-guard checks the panel's views rely on.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/jamcha/go-admin-client/internal/errors"
	"github.com/jamcha/go-admin-client/sessions"
	"github.com/jamcha/go-admin-client/token"
	"github.com/jamcha/go-admin-client/users"
)

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
	healthPath = "/auth/health"
)

const (
	defaultLoginTimeout  = 10 * time.Second
	defaultHealthTimeout = 5 * time.Second
	defaultGracePeriod   = 10 * time.Second
)

// Service talks to the backend auth endpoints and owns the stored session.
type Service struct {
	repo          sessions.Repo
	client        *http.Client
	baseURL       string
	loginTimeout  time.Duration
	healthTimeout time.Duration
	gracePeriod   time.Duration
	log           zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithHTTPClient sets the HTTP client used for auth endpoint calls.
func WithHTTPClient(c *http.Client) ServiceOption {
	return func(s *Service) { s.client = c }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

// WithLoginTimeout sets the timeout applied to login calls.
func WithLoginTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.loginTimeout = d }
}

// WithHealthTimeout sets the timeout applied to connectivity checks.
func WithHealthTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.healthTimeout = d }
}

// WithGracePeriod sets the clock-skew tolerance used by IsAuthenticated.
func WithGracePeriod(d time.Duration) ServiceOption {
	return func(s *Service) { s.gracePeriod = d }
}

// NewService initializes a Service with required dependencies.
func NewService(repo sessions.Repo, baseURL string, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("[NewService] sessions repo is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("[NewService] baseURL is required")
	}

	s := &Service{
		repo:          repo,
		client:        http.DefaultClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		loginTimeout:  defaultLoginTimeout,
		healthTimeout: defaultHealthTimeout,
		gracePeriod:   defaultGracePeriod,
		log:           zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type loginResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message,omitempty"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	UserID       json.Number `json:"userId,omitempty"`
	Username     string      `json:"username,omitempty"`
	Email        string      `json:"email,omitempty"`
	FirstName    string      `json:"firstname,omitempty"`
	LastName     string      `json:"lastname,omitempty"`
	AuthorName   string      `json:"authorName,omitempty"`
	Role         string      `json:"role,omitempty"`
}

// Login authenticates with the backend and, on success, stores the session.
// Response fields missing from the body fall back to the token's own claims.
// Roles outside the panel set are rejected before anything is stored.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (*users.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loginTimeout)
	defer cancel()

	body, err := json.Marshal(loginRequest{UsernameOrEmail: usernameOrEmail, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrLoginFailed, "login request (%v)", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, apperrors.ErrInvalidCredentials
	case http.StatusForbidden:
		return nil, apperrors.ErrInsufficientPrivileges
	default:
		return nil, apperrors.Wrapf(apperrors.ErrLoginFailed, "unexpected status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrLoginFailed, "decode response (%v)", err)
	}
	if !lr.Success || lr.AccessToken == "" {
		if lr.Message != "" {
			return nil, apperrors.Wrapf(apperrors.ErrLoginFailed, "%s", lr.Message)
		}
		return nil, apperrors.ErrLoginFailed
	}

	payload := token.Decode(lr.AccessToken)
	role, ok := users.ParseRole(firstNonEmpty(lr.Role, payload.Role, string(users.RoleAuthor)))
	if !ok || !role.CanAccessPanel() {
		return nil, apperrors.ErrInsufficientPrivileges
	}

	profile := &users.Profile{
		ID:         firstNonEmpty(lr.UserID.String(), payload.Subject),
		Username:   firstNonEmpty(lr.Username, payload.PreferredUsername),
		Email:      firstNonEmpty(lr.Email, payload.Email),
		FirstName:  firstNonEmpty(lr.FirstName, payload.GivenName),
		LastName:   firstNonEmpty(lr.LastName, payload.FamilyName),
		AuthorName: lr.AuthorName,
		Role:       role,
	}
	profile.Normalize()

	session := sessions.Session{
		AccessToken:  lr.AccessToken,
		RefreshToken: lr.RefreshToken,
		User:         profile,
		Role:         role,
	}
	if err := s.repo.SetSession(session); err != nil {
		return nil, apperrors.Wrapf(err, "store session")
	}

	s.log.Info().Str("username", profile.Username).Str("role", string(role)).Msg("login succeeded")
	return profile, nil
}

// Logout tells the backend to invalidate the session and clears local state.
// The backend call is best effort; local cleanup runs on every exit path.
func (s *Service) Logout(ctx context.Context) error {
	if tok, ok := s.repo.AccessToken(); ok {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+logoutPath, http.NoBody)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+tok)
			resp, err := s.client.Do(req)
			if err != nil {
				s.log.Warn().Err(err).Msg("backend logout failed")
			} else {
				drainBody(resp.Body)
			}
		}
	}
	return s.repo.Clear()
}

// HealthCheck reports whether the backend is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+healthPath, http.NoBody)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debug().Err(err).Msg("health check failed")
		return false
	}
	defer drainBody(resp.Body)
	return resp.StatusCode == http.StatusOK
}

// UpdateProfile replaces the stored user profile. Tokens are never touched
// through this side channel, and the role flags are re-derived.
func (s *Service) UpdateProfile(u *users.Profile) error {
	if u == nil {
		return fmt.Errorf("[UpdateProfile] profile is required")
	}
	u.Normalize()
	return s.repo.SetUser(u)
}

// CurrentUser returns the stored user profile.
func (s *Service) CurrentUser() (*users.Profile, bool) {
	return s.repo.User()
}

// Token returns the stored access token.
func (s *Service) Token() (string, bool) {
	return s.repo.AccessToken()
}

// Role returns the stored role.
func (s *Service) Role() (users.Role, bool) {
	return s.repo.Role()
}

// IsAdmin reports whether the stored user holds the ADMIN role.
func (s *Service) IsAdmin() bool {
	u, ok := s.repo.User()
	return ok && u.IsAdmin
}

// IsAuthor reports whether the stored user holds the AUTHOR role.
func (s *Service) IsAuthor() bool {
	u, ok := s.repo.User()
	return ok && u.IsAuthor
}

// IsAuthenticated reports whether a usable session exists: a token and user
// are both stored, and the token's expiry is either undeterminable or within
// the grace window.
func (s *Service) IsAuthenticated() bool {
	tok, ok := s.repo.AccessToken()
	if !ok {
		return false
	}
	if _, ok := s.repo.User(); !ok {
		return false
	}
	return token.ValidWithGrace(tok, s.gracePeriod)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func drainBody(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
	_ = rc.Close()
}
