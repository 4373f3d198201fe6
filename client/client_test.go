package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jamcha/go-admin-client/auth"
	"github.com/jamcha/go-admin-client/client"
	"github.com/jamcha/go-admin-client/sessions"
)

type clientFixture struct {
	repo *sessions.InMemoryRepo
	api  *client.Client
}

func newClientFixture(t *testing.T, handler http.Handler) *clientFixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo := sessions.NewInMemoryRepo()
	refresher, err := auth.NewRefresher(repo, srv.URL)
	require.NoError(t, err)

	api, err := client.New(srv.URL, repo, refresher)
	require.NoError(t, err)
	return &clientFixture{repo: repo, api: api}
}

func TestNewValidation(t *testing.T) {
	repo := sessions.NewInMemoryRepo()
	refresher, err := auth.NewRefresher(repo, "http://localhost")
	require.NoError(t, err)

	_, err = client.New("", repo, refresher)
	require.Error(t, err)
	_, err = client.New("http://localhost", nil, refresher)
	require.Error(t, err)
	_, err = client.New("http://localhost", repo, nil)
	require.Error(t, err)
}

func TestGetDecodesJSON(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/articles/12", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 12, "title": "hello"})
	}))

	var out struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, f.api.Get(context.Background(), "/articles/12", &out))
	require.Equal(t, 12, out.ID)
	require.Equal(t, "hello", out.Title)
}

func TestPostSendsJSONBody(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "hello", in["title"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 1})
	}))

	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, f.api.Post(context.Background(), "/articles", map[string]string{"title": "hello"}, &out))
	require.Equal(t, 1, out.ID)
}

func TestErrorResponseBecomesAPIError(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "slug already taken"})
	}))

	err := f.api.Post(context.Background(), "/articles", map[string]string{"title": "dup"}, nil)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "slug already taken", apiErr.Message)
	require.Equal(t, "/articles", apiErr.Endpoint)
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := f.api.Get(context.Background(), "/articles", nil)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, f.api.Delete(context.Background(), "/articles/12"))
}

func TestRequestsCarryStoredToken(t *testing.T) {
	var gotAuth string
	f := newClientFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("{}"))
	}))
	require.NoError(t, f.repo.SetTokens("access-1", "refresh-1"))

	require.NoError(t, f.api.Get(context.Background(), "/me", nil))
	require.Equal(t, "Bearer access-1", gotAuth)
}
