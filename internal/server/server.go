package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MalithGihan/pfdgen-service/internal/assistant"
	"github.com/MalithGihan/pfdgen-service/internal/diagram"
	"github.com/MalithGihan/pfdgen-service/internal/ingest"
	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/metrics"
	"github.com/MalithGihan/pfdgen-service/internal/session"
	"github.com/MalithGihan/pfdgen-service/internal/store"
)

const defaultMaxUpload = 64 << 20

type Server struct {
	router    chi.Router
	addr      string
	assistant *assistant.Assistant
	sessions  *session.Registry
	renderer  *diagram.Renderer
	store     store.Store
	ocr       ingest.OCR
	metrics   *metrics.Registry
	maxUpload int64
}

type Params struct {
	Addr      string
	Assistant *assistant.Assistant
	Sessions  *session.Registry
	Renderer  *diagram.Renderer
	Store     store.Store
	OCR       ingest.OCR
	Metrics   *metrics.Registry
	MaxUpload int64
}

func New(p Params) *Server {
	if p.MaxUpload <= 0 {
		p.MaxUpload = defaultMaxUpload
	}
	s := &Server{
		addr:      p.Addr,
		assistant: p.Assistant,
		sessions:  p.Sessions,
		renderer:  p.Renderer,
		store:     p.Store,
		ocr:       p.OCR,
		metrics:   p.Metrics,
		maxUpload: p.MaxUpload,
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("PFD service listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/llm/ping", s.handlePing)
	r.Handle("/metrics", s.metrics.Handler())

	r.Post("/render", s.handleRender)
	r.Post("/ingest", s.handleIngest)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleSessionCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleSessionGet)
			r.Delete("/", s.handleSessionDelete)
			r.Post("/generate", s.handleGenerate)
			r.Post("/ask", s.handleAsk)
			r.Post("/new", s.handleNewDiagram)
			r.Post("/reset", s.handleReset)
			r.Get("/summary", s.report(assistant.Summary))
			r.Get("/equipment", s.report(assistant.EquipmentDetails))
			r.Get("/streams", s.report(assistant.StreamDetails))
			r.Get("/diagram.png", s.handleDiagram)
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/verify", s.handleVerify)
			r.Post("/verify/ask", s.handleVerifyAsk)
			r.Post("/verify/reset", s.handleVerifyReset)
		})
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
