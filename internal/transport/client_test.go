package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/docsync/internal/transport"
	pkgerrors "github.com/agentstation/docsync/pkg/errors"
)

func TestClientHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := transport.New("secret-token", "2022-06-28")
	resp, err := client.Do(context.Background(), http.MethodPost, server.URL+"/pages", map[string]string{"a": "b"})
	require.NoError(t, err)
	require.NoError(t, transport.DecodeResponse(resp, &struct{}{}))

	assert.Equal(t, "Bearer secret-token", got.Get("Authorization"))
	assert.Equal(t, "2022-06-28", got.Get(transport.VersionHeader))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestDecodeResponse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"page-1"}`))
		}))
		defer server.Close()

		client := transport.New("t", "v")
		resp, err := client.Do(context.Background(), http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		var out struct {
			ID string `json:"id"`
		}
		require.NoError(t, transport.DecodeResponse(resp, &out))
		assert.Equal(t, "page-1", out.ID)
	})

	t.Run("error status becomes APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"validation failed"}`))
		}))
		defer server.Close()

		client := transport.New("t", "v")
		resp, err := client.Do(context.Background(), http.MethodPost, server.URL+"/pages", map[string]int{})
		require.NoError(t, err)

		err = transport.DecodeResponse(resp, nil)
		var apiErr *pkgerrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "validation failed")
		assert.False(t, pkgerrors.IsRateLimited(err))
	})

	t.Run("429 carries retry-after", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "2.5")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := transport.New("t", "v")
		resp, err := client.Do(context.Background(), http.MethodPost, server.URL, map[string]int{})
		require.NoError(t, err)

		err = transport.DecodeResponse(resp, nil)
		require.True(t, pkgerrors.IsRateLimited(err))

		var apiErr *pkgerrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.InDelta(t, 2.5, apiErr.RetryAfter, 1e-9)
	})

	t.Run("429 without header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := transport.New("t", "v")
		resp, err := client.Do(context.Background(), http.MethodPost, server.URL, map[string]int{})
		require.NoError(t, err)

		var apiErr *pkgerrors.APIError
		require.ErrorAs(t, transport.DecodeResponse(resp, nil), &apiErr)
		assert.Zero(t, apiErr.RetryAfter)
	})
}

func TestAuthenticators(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	(&transport.BearerAuth{}).Apply(req, "tok")
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))

	(&transport.HeaderAuth{Header: "X-Api-Key"}).Apply(req, "tok2")
	assert.Equal(t, "tok2", req.Header.Get("X-Api-Key"))

	before := req.Header.Clone()
	(&transport.NoAuth{}).Apply(req, "ignored")
	assert.Equal(t, before, req.Header)
}
