package handlers

import (
	"net/http"
	"strconv"

	"github.com/video-transcribe/backend/internal/transcript"
)

const defaultListLimit = 20

// TranscriptsHandler serves stored transcript metadata.
type TranscriptsHandler struct {
	store *transcript.Store
}

func NewTranscriptsHandler(store *transcript.Store) *TranscriptsHandler {
	return &TranscriptsHandler{store: store}
}

// List handles GET /api/transcripts?limit=N&offset=M, newest first.
func (h *TranscriptsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultListLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	metas, err := h.store.List(limit, offset)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"transcripts_dir": h.store.Dir(),
		"count":           len(metas),
		"files":           metas,
	}, http.StatusOK)
}
