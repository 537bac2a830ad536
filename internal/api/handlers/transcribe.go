package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/video-transcribe/backend/internal/session"
)

// TranscribeHandler exposes the session orchestrator. Acquisition and
// transcription are long-running blocking calls; the handler goroutine is
// the worker context and holds the connection until the pass finishes.
type TranscribeHandler struct {
	orch *session.Orchestrator
}

func NewTranscribeHandler(orch *session.Orchestrator) *TranscribeHandler {
	return &TranscribeHandler{orch: orch}
}

// Start handles POST /api/transcribe. With preview_minutes set the response
// carries a session_id for continuation; otherwise the transcript is saved
// and returned in full.
func (h *TranscribeHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req session.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.orch.Start(r.Context(), req)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, result, http.StatusOK)
}

// Continue handles POST /api/transcribe/{sessionID}/continue.
func (h *TranscribeHandler) Continue(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.orch.Continue(r.Context(), sessionID)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, result, http.StatusOK)
}

// Abandon handles DELETE /api/transcribe/{sessionID}. Idempotent.
func (h *TranscribeHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	h.orch.Abandon(sessionID)
	jsonResponse(w, map[string]string{"status": "abandoned"}, http.StatusOK)
}
