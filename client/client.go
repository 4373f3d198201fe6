// Package client is the authenticated API client the admin screens consume.
// It wires the transport interceptor chain into an *http.Client and exposes
// small JSON helpers; callers never deal with tokens directly.
package client

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

	"github.com/jamcha/go-admin-client/sessions"
	"github.com/jamcha/go-admin-client/transport"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status   int
	Message  string
	Endpoint string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Endpoint, e.Status, e.Message)
}

// Client issues authenticated JSON requests against the backend API.
type Client struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*options)

type options struct {
	base    http.RoundTripper
	nav     transport.LoginRedirector
	timeout time.Duration
	buffer  time.Duration
	log     zerolog.Logger
}

// WithBaseTransport sets the transport under the interceptor chain.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithNavigator sets the navigation sink for forced logouts.
func WithNavigator(nav transport.LoginRedirector) Option {
	return func(o *options) { o.nav = nav }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithExpiryBuffer sets how far ahead of expiry tokens are renewed.
func WithExpiryBuffer(d time.Duration) Option {
	return func(o *options) { o.buffer = d }
}

// WithClientLogger sets the client logger.
func WithClientLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// New builds an authenticated client over the given session store and
// refresher.
func New(baseURL string, repo sessions.Repo, refresher transport.TokenRefresher, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("[client.New] baseURL is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("[client.New] sessions repo is required")
	}
	if refresher == nil {
		return nil, fmt.Errorf("[client.New] refresher is required")
	}

	o := options{timeout: 30 * time.Second, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	var chainOpts []transport.BearerOption
	if o.buffer > 0 {
		chainOpts = append(chainOpts, transport.WithExpiryBuffer(o.buffer))
	}

	return &Client{
		http: &http.Client{
			Transport: transport.Chain(o.base, repo, refresher, o.nav, o.log, chainOpts...),
			Timeout:   o.timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     o.log,
	}, nil
}

// HTTP exposes the underlying client for callers needing raw access (file
// uploads, streaming). The interceptor chain still applies.
func (c *Client) HTTP() *http.Client {
	return c.http
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:   resp.StatusCode,
			Message:  errorMessage(resp),
			Endpoint: path,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorMessage extracts a human-readable message from an error response body,
// falling back to the status text.
func errorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}
