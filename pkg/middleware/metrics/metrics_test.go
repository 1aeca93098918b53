package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollect_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Collect())
	r.Post("/run/{name}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	before := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/run/{name}", http.MethodPost))
	for _, p := range []string{"/run/a", "/run/b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, p, nil))
	}
	after := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/run/{name}", http.MethodPost))
	assert.Equal(t, before+2, after)
}

func TestCollect_SkipsScrapes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Collect())
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {})

	before := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/metrics", http.MethodGet))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	after := testutil.ToFloat64(totalHttpRequestsToUri.WithLabelValues("200", "/metrics", http.MethodGet))
	assert.Equal(t, before, after)
}

func TestObserveUnit_FoldsUnknownNames(t *testing.T) {
	before := testutil.ToFloat64(unitInvocations.WithLabelValues("_unknown", "not_found"))
	ObserveUnit("whatever-1", "not_found", time.Millisecond)
	ObserveUnit("whatever-2", "not_found", time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(unitInvocations.WithLabelValues("_unknown", "not_found")))

	ObserveUnit("add", "ok", time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(unitInvocations.WithLabelValues("add", "ok")), 1.0)
}

func TestProvideMetrics_ServesExposition(t *testing.T) {
	ObserveUnit("whatever-2", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	ProvideMetrics().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unit_invocations_total")
}
