package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/emoji/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "ok") //nolint:errcheck
	})

	for _, path := range []string{"/emoji/1", "/emoji/2", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/emoji/{id}", "404")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/ok", "200")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.inFlight), 0)

	for i := 0; i < 100; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/junk/%d", i), nil))
	}

	assert.InDelta(t, 100, testutil.ToFloat64(m.requests.WithLabelValues("GET", unmatchedRoute, "404")), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(m.requests))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))
}

func TestDomainCounters(t *testing.T) {
	m := New()

	m.Downloaded("archive", 3)
	m.Downloaded("single", 1)
	m.Searched("all", "new")

	assert.InDelta(t, 3, testutil.ToFloat64(m.downloads.WithLabelValues("archive")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.searches.WithLabelValues("all", "new")), 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `emojis_downloads_total{kind="single"} 1`)
}
