package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/video-transcribe/backend/internal/media"
	"github.com/video-transcribe/backend/internal/session"
	"github.com/video-transcribe/backend/internal/transcript"
	"github.com/video-transcribe/backend/internal/whisper"
)

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// domainError maps typed error kinds from the core to HTTP statuses plus a
// machine-readable kind, so clients never have to parse error text.
func domainError(w http.ResponseWriter, err error) {
	kind := "internal"
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, session.ErrInvalidRequest):
		kind, status = "invalid_request", http.StatusBadRequest
	case errors.Is(err, media.ErrUnsupportedSource):
		kind, status = "unsupported_source", http.StatusUnprocessableEntity
	case errors.Is(err, media.ErrSourceUnavailable):
		kind, status = "source_unavailable", http.StatusBadGateway
	case errors.Is(err, whisper.ErrEngineFailure):
		kind, status = "engine_failure", http.StatusBadGateway
	case errors.Is(err, session.ErrSessionNotFound):
		kind, status = "session_not_found", http.StatusNotFound
	case errors.Is(err, session.ErrSessionCompleted):
		kind, status = "session_already_completed", http.StatusConflict
	case errors.Is(err, transcript.ErrStorageUnavailable):
		kind, status = "storage_unavailable", http.StatusInsufficientStorage
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"kind":  kind,
	})
}
