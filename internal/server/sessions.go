package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/MalithGihan/pfdgen-service/internal/assistant"
	"github.com/MalithGihan/pfdgen-service/internal/diagram"
	"github.com/MalithGihan/pfdgen-service/internal/session"
)

type updateFunc func(context.Context, session.State) (session.State, error)

func (s *Server) update(w http.ResponseWriter, r *http.Request, fn updateFunc) {
	st, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), fn)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusCreated, s.sessions.Create())
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type generateRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	s.update(w, r, func(ctx context.Context, st session.State) (session.State, error) {
		return s.assistant.Generate(ctx, st, req.Description)
	})
}

type questionRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	s.update(w, r, func(ctx context.Context, st session.State) (session.State, error) {
		return s.assistant.Ask(ctx, st, req.Question)
	})
}

func (s *Server) handleNewDiagram(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(_ context.Context, st session.State) (session.State, error) {
		return st.NewDiagram(), nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(_ context.Context, st session.State) (session.State, error) {
		return st.Reset(), nil
	})
}

func (s *Server) report(fn func(session.State) (session.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.update(w, r, func(_ context.Context, st session.State) (session.State, error) {
			return fn(st)
		})
	}
}

// handleDiagram serves the current diagram as a download. Sessions restored
// without image bytes fall back to the stored artifact.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if !st.HasDiagram() {
		respondError(w, assistant.ErrNoDiagram)
		return
	}

	data := st.Diagram
	if len(data) == 0 && s.store != nil && st.DiagramKey != "" {
		if data, err = s.store.Get(r.Context(), st.DiagramKey); err != nil {
			respondError(w, err)
			return
		}
	}

	name := "pfd_diagram.png"
	if st.DiagramKey != "" {
		name = path.Base(st.DiagramKey)
	}
	w.Header().Set("Content-Type", diagram.PNG.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	image, err := s.formImage(w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	question := r.FormValue("question")
	s.update(w, r, func(ctx context.Context, st session.State) (session.State, error) {
		return s.assistant.AnalyzeUpload(ctx, st, image, question)
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	image, err := s.formImage(w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	description := r.FormValue("description")
	s.update(w, r, func(ctx context.Context, st session.State) (session.State, error) {
		return s.assistant.Verify(ctx, st, image, description)
	})
}

func (s *Server) handleVerifyAsk(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	s.update(w, r, func(ctx context.Context, st session.State) (session.State, error) {
		return s.assistant.VerifyAsk(ctx, st, req.Question)
	})
}

func (s *Server) handleVerifyReset(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, func(_ context.Context, st session.State) (session.State, error) {
		return st.ResetVerification(), nil
	})
}

// formImage reads the optional "image" part of a multipart form. A missing
// part yields nil so the previous upload is reused.
func (s *Server) formImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		return nil, badRequest{err}
	}
	f, _, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest{err}
	}
	defer f.Close()
	return io.ReadAll(f)
}
