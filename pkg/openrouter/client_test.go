package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSendsHeadersAndParses(t *testing.T) {
	var got completionReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, "https://classhub.local", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "ClassHub", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL+"/", "", "https://classhub.local", "ClassHub", time.Second)
	text, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.2)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "openrouter/auto", got.Model)
	assert.Equal(t, 0.2, got.Temperature)
	require.Len(t, got.Messages, 1)
}

func TestCompleteNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, "m", "", "", time.Second)
	_, err := c.Complete(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestCompleteEmptyOrInvalidBody(t *testing.T) {
	for _, body := range []string{`{"choices":[]}`, `not json`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		c := NewClient("k", srv.URL, "m", "", "", time.Second)
		text, err := c.Complete(context.Background(), nil, 0)
		assert.NoError(t, err)
		assert.Empty(t, text)
		srv.Close()
	}
}

func TestEnabled(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	assert.False(t, NewClient("", "", "", "", "", 0).Enabled())
	assert.True(t, NewClient("k", "", "", "", "", 0).Enabled())
}
