package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	r.ObserveRender("png", time.Second, nil)
	r.ObserveLLM("mock", "text", time.Second, errors.New("boom"))
	r.SetSessions(3)

	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestObserve(t *testing.T) {
	r := NewRegistry()
	r.ObserveRender("png", time.Millisecond, nil)
	r.ObserveRender("png", time.Millisecond, errors.New("dot failed"))
	r.ObserveLLM("ollama", "json", time.Second, nil)
	r.SetSessions(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.RendersTotal.WithLabelValues("png", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RendersTotal.WithLabelValues("png", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.LLMRequestsTotal.WithLabelValues("ollama", "json", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.SessionsActive))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := NewRegistry()
	router := chi.NewRouter()
	router.Use(r.Middleware)
	router.Get("/sessions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/def", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/sessions/{id}", "404")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "pfd_http_requests_total")
}
