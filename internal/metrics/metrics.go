// Package metrics holds the Prometheus collectors for the service.
// A nil *Registry is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SessionsActive prometheus.Gauge
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		RendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pfd_renders_total",
			Help: "Diagram renders by output format and result",
		}, []string{"format", "result"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pfd_render_duration_seconds",
			Help:    "Time spent building and rasterizing diagrams",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		LLMRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pfd_llm_requests_total",
			Help: "Model requests by provider, request kind and result",
		}, []string{"provider", "kind", "result"}),
		LLMRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pfd_llm_request_duration_seconds",
			Help:    "Model request latency",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pfd_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pfd_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pfd_sessions_active",
			Help: "Chat sessions currently held in memory",
		}),
	}
	reg.MustRegister(
		r.RendersTotal, r.RenderDuration,
		r.LLMRequestsTotal, r.LLMRequestDuration,
		r.HTTPRequestsTotal, r.HTTPRequestDuration,
		r.SessionsActive,
		collectors.NewGoCollector(),
	)
	return r
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (r *Registry) ObserveRender(format string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.RendersTotal.WithLabelValues(format, result(err)).Inc()
	r.RenderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (r *Registry) ObserveLLM(provider, kind string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.LLMRequestsTotal.WithLabelValues(provider, kind, result(err)).Inc()
	r.LLMRequestDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (r *Registry) SetSessions(n int) {
	if r == nil {
		return
	}
	r.SessionsActive.Set(float64(n))
}

func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the chi route pattern.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.HTTPRequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		r.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
