package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/video-transcribe/backend/internal/media"
	"github.com/video-transcribe/backend/internal/session"
	"github.com/video-transcribe/backend/internal/transcript"
	"github.com/video-transcribe/backend/internal/whisper"
)

type stubAcquirer struct {
	dir string
	err error
}

func (f *stubAcquirer) Fetch(ctx context.Context, source string) (*media.AudioHandle, error) {
	if f.err != nil {
		return nil, f.err
	}
	file, err := os.CreateTemp(f.dir, "audio-*.mp3")
	if err != nil {
		return nil, err
	}
	file.Close()
	return media.NewTempHandle(file.Name(), 120, "Stub Video", media.DetectPlatform(source), source), nil
}

type stubEngine struct {
	err error
}

func (f *stubEngine) Name() string { return "stub" }

func (f *stubEngine) Transcribe(ctx context.Context, req whisper.Request) (*whisper.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &whisper.Result{
		Segments: []transcript.Segment{{Start: 0, End: 5, Text: "hello"}},
		Language: "en",
	}, nil
}

func newTestRouter(t *testing.T, acq media.Acquirer, eng whisper.Transcriber) *chi.Mux {
	t.Helper()
	store := transcript.NewStore(t.TempDir())
	registry := session.NewRegistry(nil, time.Hour, zerolog.Nop())
	t.Cleanup(registry.Close)
	orch := session.NewOrchestrator(acq, eng, store, registry, "auto", zerolog.Nop())

	h := NewTranscribeHandler(orch)
	r := chi.NewRouter()
	r.Post("/api/transcribe", h.Start)
	r.Post("/api/transcribe/{sessionID}/continue", h.Continue)
	r.Delete("/api/transcribe/{sessionID}", h.Abandon)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q", method, path, rec.Body.String())
	}
	return rec, parsed
}

func TestStartFull(t *testing.T) {
	router := newTestRouter(t, &stubAcquirer{dir: t.TempDir()}, &stubEngine{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/transcribe",
		`{"source": "https://youtube.com/watch?v=abc"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["state"] != "completed" {
		t.Errorf("state = %v", body["state"])
	}
	if body["saved_to"] == "" || body["saved_to"] == nil {
		t.Error("saved_to missing in completed response")
	}
	if body["full_text"] != "hello" {
		t.Errorf("full_text = %v", body["full_text"])
	}
}

func TestPreviewContinueFlow(t *testing.T) {
	router := newTestRouter(t, &stubAcquirer{dir: t.TempDir()}, &stubEngine{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/transcribe",
		`{"source": "https://youtube.com/watch?v=abc", "preview_minutes": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["preview"] != true {
		t.Fatal("expected preview result")
	}
	id, _ := body["session_id"].(string)
	if id == "" {
		t.Fatal("no session_id in preview response")
	}

	rec, body = doJSON(t, router, http.MethodPost, "/api/transcribe/"+id+"/continue", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("continue status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["state"] != "completed" {
		t.Errorf("state = %v", body["state"])
	}

	// continuing a completed session conflicts
	rec, body = doJSON(t, router, http.MethodPost, "/api/transcribe/"+id+"/continue", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if body["kind"] != "session_already_completed" {
		t.Errorf("kind = %v", body["kind"])
	}
}

func TestStartErrorsMapped(t *testing.T) {
	tests := []struct {
		name       string
		acq        media.Acquirer
		eng        whisper.Transcriber
		body       string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "malformed body",
			acq:        &stubAcquirer{},
			eng:        &stubEngine{},
			body:       `{"source": `,
			wantStatus: http.StatusBadRequest,
			wantKind:   "",
		},
		{
			name:       "missing source",
			acq:        &stubAcquirer{},
			eng:        &stubEngine{},
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_request",
		},
		{
			name:       "unsupported source",
			acq:        &stubAcquirer{err: fmt.Errorf("%w: bad scheme", media.ErrUnsupportedSource)},
			eng:        &stubEngine{},
			body:       `{"source": "ftp://example.com/v"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "unsupported_source",
		},
		{
			name:       "source unavailable",
			acq:        &stubAcquirer{err: fmt.Errorf("%w: timeout", media.ErrSourceUnavailable)},
			eng:        &stubEngine{},
			body:       `{"source": "https://youtube.com/watch?v=abc"}`,
			wantStatus: http.StatusBadGateway,
			wantKind:   "source_unavailable",
		},
		{
			name:       "engine failure",
			acq:        &stubAcquirer{},
			eng:        &stubEngine{err: fmt.Errorf("%w: crashed", whisper.ErrEngineFailure)},
			body:       `{"source": "https://youtube.com/watch?v=abc"}`,
			wantStatus: http.StatusBadGateway,
			wantKind:   "engine_failure",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if a, ok := tc.acq.(*stubAcquirer); ok && a.dir == "" {
				a.dir = t.TempDir()
			}
			router := newTestRouter(t, tc.acq, tc.eng)

			rec, body := doJSON(t, router, http.MethodPost, "/api/transcribe", tc.body)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantKind != "" && body["kind"] != tc.wantKind {
				t.Errorf("kind = %v, want %q", body["kind"], tc.wantKind)
			}
		})
	}
}

func TestContinueUnknown(t *testing.T) {
	router := newTestRouter(t, &stubAcquirer{dir: t.TempDir()}, &stubEngine{})

	rec, body := doJSON(t, router, http.MethodPost, "/api/transcribe/unknown-id/continue", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if body["kind"] != "session_not_found" {
		t.Errorf("kind = %v", body["kind"])
	}
}

func TestAbandonAlwaysOK(t *testing.T) {
	router := newTestRouter(t, &stubAcquirer{dir: t.TempDir()}, &stubEngine{})

	// unknown id is a no-op, not an error
	rec, _ := doJSON(t, router, http.MethodDelete, "/api/transcribe/unknown-id", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	_, body := doJSON(t, router, http.MethodPost, "/api/transcribe",
		`{"source": "https://youtube.com/watch?v=abc", "preview_minutes": 1}`)
	id, _ := body["session_id"].(string)

	for i := 0; i < 2; i++ {
		rec, _ := doJSON(t, router, http.MethodDelete, "/api/transcribe/"+id, "")
		if rec.Code != http.StatusOK {
			t.Errorf("abandon #%d status = %d, want 200", i+1, rec.Code)
		}
	}
}
