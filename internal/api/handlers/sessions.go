package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/video-transcribe/backend/internal/db"
)

// SessionsHandler serves persisted session records.
type SessionsHandler struct {
	db *db.Database
}

func NewSessionsHandler(database *db.Database) *SessionsHandler {
	return &SessionsHandler{db: database}
}

// List handles GET /api/sessions?limit=N.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := h.db.ListSessions(limit)
	if err != nil {
		jsonError(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"count":    len(recs),
		"sessions": recs,
	}, http.StatusOK)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.db.GetSession(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			jsonError(w, "session not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, rec, http.StatusOK)
}
