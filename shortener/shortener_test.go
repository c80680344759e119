package shortener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	short, err := Noop{}.Shorten(context.Background(), "https://telegram.me/aeon?start=42_tok")
	require.NoError(t, err)
	assert.Equal(t, "https://telegram.me/aeon?start=42_tok", short)
}

func TestShorten(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api", r.URL.Path)
		require.Equal(t, "secret", r.URL.Query().Get("api"))
		require.Equal(t, "https://telegram.me/aeon?start=42_tok", r.URL.Query().Get("url"))
		require.Equal(t, "text", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte("https://sho.rt/abc\n"))
	}))
	defer server.Close()

	c := NewClient(ClientCfg{Endpoint: server.URL, APIKey: "secret"},
		WithHTTPClient(server.Client()), WithLogger(log.NewNopLogger()))

	short, err := c.Shorten(context.Background(), "https://telegram.me/aeon?start=42_tok")
	require.NoError(t, err)
	assert.Equal(t, "https://sho.rt/abc", short)
}

func TestShortenRetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("https://sho.rt/abc"))
	}))
	defer server.Close()

	c := NewClient(ClientCfg{Endpoint: server.URL}, WithHTTPClient(server.Client()), WithLogger(log.NewNopLogger()))
	c.backoff.MinBackoff = time.Millisecond
	c.backoff.MaxBackoff = time.Millisecond

	short, err := c.Shorten(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://sho.rt/abc", short)
	assert.Equal(t, 3, attempts)
}

func TestShortenGivesUpAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(ClientCfg{Endpoint: server.URL}, WithHTTPClient(server.Client()), WithLogger(log.NewNopLogger()))
	c.backoff.MinBackoff = time.Millisecond
	c.backoff.MaxBackoff = time.Millisecond

	_, err := c.Shorten(context.Background(), "https://example.com")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestShortenRejectsEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("  \n"))
	}))
	defer server.Close()

	c := NewClient(ClientCfg{Endpoint: server.URL}, WithHTTPClient(server.Client()), WithLogger(log.NewNopLogger()))
	c.backoff.MinBackoff = time.Millisecond
	c.backoff.MaxBackoff = time.Millisecond

	_, err := c.Shorten(context.Background(), "https://example.com")
	require.ErrorIs(t, err, ErrEmptyResponse)
}
