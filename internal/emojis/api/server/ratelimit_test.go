package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRateLimiterHandler(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote, token string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
		r.RemoteAddr = remote

		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1", "").Code)

	rec := send("10.0.0.1:1", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"errors":{"error":"too many requests"}}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1", "token").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1", "").Code)
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("old")

	now = now.Add(time.Hour)

	rl.Allow("fresh")

	assert.Equal(t, 1, rl.Cleanup(time.Minute))
	assert.NotContains(t, rl.visitors, "old")
	assert.Contains(t, rl.visitors, "fresh")
}

func TestRateLimiterBackgroundCleanupStops(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		rl.BackgroundCleanup(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "cleanup loop did not stop")
	}
}
