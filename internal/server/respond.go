package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MalithGihan/pfdgen-service/internal/assistant"
	"github.com/MalithGihan/pfdgen-service/internal/ingest"
	"github.com/MalithGihan/pfdgen-service/internal/llm"
	"github.com/MalithGihan/pfdgen-service/internal/logger"
	"github.com/MalithGihan/pfdgen-service/internal/session"
	"github.com/MalithGihan/pfdgen-service/internal/store"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

// badRequest marks errors caused by the request body itself.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, assistant.ErrEmptyInput),
		errors.Is(err, assistant.ErrNoImage),
		errors.Is(err, types.ErrMalformedRecord),
		errors.Is(err, ingest.ErrUnsupported),
		errors.Is(err, store.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrNoDiagram):
		return http.StatusConflict
	case errors.Is(err, llm.ErrNoJSON):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "status", status, "err", err)
	}
	respondJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": err.Error(),
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest{err}
	}
	return nil
}
