package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/farms/{farmId}/hutches", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/farms/{farmId}/hutches", "418"))
	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/farms/"+id+"/hutches", nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/farms/{farmId}/hutches", "418"))
	assert.Equal(t, 2.0, after-before)
	assert.Zero(t, testutil.ToFloat64(httpInFlight))
}

func TestRecordAuthEvent(t *testing.T) {
	before := testutil.ToFloat64(authEvents.WithLabelValues("login", "failure"))
	RecordAuthEvent("login", "failure")
	assert.Equal(t, 1.0, testutil.ToFloat64(authEvents.WithLabelValues("login", "failure"))-before)
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordRateLimited()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rabbitfarm_http_rate_limited_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
