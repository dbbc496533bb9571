package server

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/MalithGihan/pfdgen-service/internal/diagram"
	"github.com/MalithGihan/pfdgen-service/internal/ingest"
	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/store"
	"github.com/MalithGihan/pfdgen-service/internal/validate"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

type pingResp struct {
	OK        bool   `json:"ok"`
	Provider  string `json:"provider"`
	Reachable bool   `json:"reachable"`
	Note      string `json:"note,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"service":  "pfdgen-service",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out := pingResp{OK: true, Provider: s.assistant.Provider(), Reachable: true}
	if err := s.assistant.Ping(ctx); err != nil {
		out.Reachable = false
		out.Note = err.Error()
	}
	respondJSON(w, http.StatusOK, out)
}

// handleRender renders a process model posted as JSON. The format comes from
// ?format= (png, svg, pdf, dot) and ?quality= picks the preset.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := diagram.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, badRequest{err})
		return
	}
	quality := diagram.QualityHigh
	if q := r.URL.Query().Get("quality"); q != "" {
		quality = diagram.Quality(q)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUpload))
	if err != nil {
		respondError(w, badRequest{err})
		return
	}
	if err := validate.ValidateJSON(body); err != nil {
		respondError(w, badRequest{err})
		return
	}
	var m types.ProcessModel
	if err := json.Unmarshal(body, &m); err != nil {
		respondError(w, badRequest{err})
		return
	}

	res, err := s.renderer.RenderWith(r.Context(), m, format, quality)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(res.Data)
}

type ingestResp struct {
	JobID  string              `json:"job_id"`
	Files  []ingest.ParsedFile `json:"files"`
	Merged ingest.ParsedFile   `json:"merged"`
}

// handleIngest parses every uploaded drawing into process records and
// keeps the originals under the job id.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		respondError(w, badRequest{err})
		return
	}

	jobID := uuid.NewString()
	var parsed []ingest.ParsedFile
	for _, fh := range r.MultipartForm.File["files"] {
		data, err := readPart(fh)
		if err != nil {
			respondError(w, badRequest{err})
			return
		}
		if s.store != nil {
			key := store.UploadKey(jobID, gonanoid.Must(8), fh.Filename)
			if err := s.store.Put(r.Context(), key, data, fh.Header.Get("Content-Type")); err != nil {
				respondError(w, err)
				return
			}
		}
		p, err := ingest.Parse(r.Context(), fh.Filename, data, s.ocr)
		if err != nil {
			respondError(w, badRequest{err})
			return
		}
		parsed = append(parsed, p)
	}
	if len(parsed) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":   http.StatusText(http.StatusBadRequest),
			"message": "no files uploaded",
		})
		return
	}

	merged := ingest.Merge(parsed)
	logger.Info("Uploads ingested",
		"job", jobID,
		"files", len(parsed),
		"equipment", len(merged.Model.Equipment),
		"streams", len(merged.Model.Streams))
	respondJSON(w, http.StatusOK, ingestResp{JobID: jobID, Files: parsed, Merged: merged})
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
