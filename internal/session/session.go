package session

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/video-transcribe/backend/internal/media"
	"github.com/video-transcribe/backend/internal/transcript"
)

// State of a transcription session.
type State string

const (
	StateAcquiring    State = "acquiring"
	StatePreviewed    State = "previewed"
	StateTranscribing State = "transcribing"
	StateCompleted    State = "completed"
	StateAborted      State = "aborted"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted
}

// Request describes a single transcription request.
type Request struct {
	// Source is a video URL or a local media file path.
	Source string `json:"source" validate:"required"`
	// Language is "auto" or an explicit code ("ru", "en", "pt-BR", ...).
	// Empty means the configured default.
	Language string `json:"language" validate:"omitempty,lang"`
	// PreviewMinutes bounds the first pass to the leading N minutes.
	// Zero means full transcription straight away.
	PreviewMinutes int `json:"preview_minutes" validate:"omitempty,gt=0"`
}

var langRe = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("lang", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "auto" || langRe.MatchString(s)
	})
	return v
}()

// Validate checks the request invariants.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Session is the in-memory state of one transcription request. It
// exclusively owns its AudioHandle until a terminal transition or
// abandonment releases it.
type Session struct {
	ID        string
	Request   Request
	Language  string // resolved language (default applied)
	CreatedAt time.Time

	mu        sync.Mutex
	state     State
	handle    *media.AudioHandle
	segments  []transcript.Segment
	touchedAt time.Time
	released  bool
}

func newSession(id string, req Request, language string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Request:   req,
		Language:  language,
		CreatedAt: now,
		state:     StateAcquiring,
		touchedAt: now,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// releaseHandleLocked removes the temporary audio artifact exactly once.
// Callers must hold s.mu.
func (s *Session) releaseHandleLocked() error {
	if s.released || s.handle == nil {
		return nil
	}
	s.released = true
	return s.handle.Remove()
}
