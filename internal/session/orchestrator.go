package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/video-transcribe/backend/internal/media"
	"github.com/video-transcribe/backend/internal/transcript"
	"github.com/video-transcribe/backend/internal/whisper"
)

// Result is returned by Start and Continue. Preview results carry the
// session id the caller needs for continuation; completed results carry the
// saved transcript path and full text.
type Result struct {
	SessionID string               `json:"session_id"`
	State     State                `json:"state"`
	Platform  string               `json:"platform"`
	Title     string               `json:"title"`
	Language  string               `json:"language"`
	Duration  float64              `json:"duration"` // seconds of acquired audio
	Preview   bool                 `json:"preview"`
	Segments  []transcript.Segment `json:"segments"`
	FullText  string               `json:"full_text,omitempty"`
	SavedTo   string               `json:"saved_to,omitempty"`
}

// Orchestrator drives a transcription session through
// acquiring → previewed → transcribing → completed, owns audio cleanup on
// every exit path, and never retries internally.
type Orchestrator struct {
	acquirer    media.Acquirer
	engine      whisper.Transcriber
	store       *transcript.Store
	sessions    *Registry
	defaultLang string
	log         zerolog.Logger
}

func NewOrchestrator(acquirer media.Acquirer, engine whisper.Transcriber, store *transcript.Store, sessions *Registry, defaultLang string, log zerolog.Logger) *Orchestrator {
	if defaultLang == "" {
		defaultLang = "auto"
	}
	return &Orchestrator{
		acquirer:    acquirer,
		engine:      engine,
		store:       store,
		sessions:    sessions,
		defaultLang: defaultLang,
		log:         log.With().Str("component", "orchestrator").Logger(),
	}
}

// Start validates the request, acquires audio and runs the first
// transcription pass. With PreviewMinutes set it returns a preview result
// and retains the session (audio included) for continuation; otherwise it
// runs to completion, saves the transcript and cleans up.
func (o *Orchestrator) Start(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	language := req.Language
	if language == "" {
		language = o.defaultLang
	}

	s := newSession(uuid.New().String(), req, language)
	o.sessions.put(s)

	o.log.Info().Str("session", s.ID).Str("source", req.Source).
		Str("language", language).Int("preview_minutes", req.PreviewMinutes).
		Msg("session started")

	if err := o.acquire(ctx, s); err != nil {
		return nil, err
	}

	if req.PreviewMinutes > 0 {
		return o.preview(ctx, s)
	}
	return o.finish(ctx, s)
}

// Continue drives a previewed session to completion. If the audio handle
// expired in the meantime, audio is re-acquired transparently rather than
// failing the continuation.
func (o *Orchestrator) Continue(ctx context.Context, sessionID string) (*Result, error) {
	s := o.sessions.get(sessionID)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	s.mu.Lock()
	switch s.state {
	case StatePreviewed:
		s.state = StateTranscribing
		s.touchedAt = time.Now()
	case StateCompleted, StateAborted:
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionCompleted, sessionID)
	default:
		// still acquiring or transcribing on another goroutine
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session %s is busy", ErrSessionCompleted, sessionID)
	}
	needsAudio := s.released || s.handle == nil || s.handle.Stale()
	s.mu.Unlock()

	o.sessions.recordState(s, StateTranscribing, "")

	if needsAudio {
		o.log.Info().Str("session", s.ID).Msg("audio expired, re-acquiring")
		s.mu.Lock()
		s.state = StateAcquiring
		s.released = false
		s.handle = nil
		s.mu.Unlock()
		if err := o.acquire(ctx, s); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.state = StateTranscribing
		s.mu.Unlock()
	}

	return o.finish(ctx, s)
}

// Abandon releases a session the caller will never continue. Idempotent:
// unknown ids and already-terminal sessions are no-ops.
func (o *Orchestrator) Abandon(sessionID string) {
	s := o.sessions.get(sessionID)
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.state = StateAborted
	if err := s.releaseHandleLocked(); err != nil {
		o.log.Error().Err(err).Str("session", s.ID).Msg("release audio on abandon")
	}
	o.sessions.recordState(s, StateAborted, "abandoned")
	o.log.Info().Str("session", s.ID).Msg("session abandoned")
}

// acquire fetches audio for the session. Exactly one fetch per distinct
// audio need; preview and continuation share the handle acquired here.
func (o *Orchestrator) acquire(ctx context.Context, s *Session) error {
	handle, err := o.acquirer.Fetch(ctx, s.Request.Source)
	if err != nil {
		o.abort(s, err)
		return err
	}

	s.mu.Lock()
	s.handle = handle
	s.released = false
	s.touchedAt = time.Now()
	s.mu.Unlock()

	o.sessions.recordMedia(s, handle.Platform, handle.Title, handle.Duration)
	o.log.Info().Str("session", s.ID).Str("platform", handle.Platform).
		Str("title", handle.Title).Float64("duration", handle.Duration).
		Msg("audio acquired")
	return nil
}

// preview transcribes the leading window and parks the session for
// continuation. The handle and partial segments stay with the session.
func (o *Orchestrator) preview(ctx context.Context, s *Session) (*Result, error) {
	s.mu.Lock()
	handle := s.handle
	s.state = StateTranscribing
	s.mu.Unlock()

	bound := float64(s.Request.PreviewMinutes) * 60
	if handle.Duration > 0 && handle.Duration < bound {
		bound = handle.Duration
	}

	res, err := o.engine.Transcribe(ctx, whisper.Request{
		AudioPath:   handle.Path,
		Language:    s.Language,
		ClipSeconds: bound,
	})
	if err != nil {
		o.abort(s, err)
		return nil, err
	}

	s.mu.Lock()
	s.state = StatePreviewed
	s.segments = res.Segments
	s.touchedAt = time.Now()
	s.mu.Unlock()

	o.sessions.recordState(s, StatePreviewed, "")
	o.log.Info().Str("session", s.ID).Int("segments", len(res.Segments)).
		Float64("bound", bound).Msg("preview complete")

	return o.result(s, handle, res.Segments, true, "", ""), nil
}

// finish runs the full-duration pass, saves the transcript and releases the
// audio. Segments from a prior preview are discarded: bounded engine runs do
// not produce stitchable boundaries, so the full result replaces them.
func (o *Orchestrator) finish(ctx context.Context, s *Session) (*Result, error) {
	s.mu.Lock()
	s.state = StateTranscribing
	handle := s.handle
	s.mu.Unlock()

	o.sessions.recordState(s, StateTranscribing, "")

	res, err := o.engine.Transcribe(ctx, whisper.Request{
		AudioPath: handle.Path,
		Language:  s.Language,
	})
	if err != nil {
		o.abort(s, err)
		return nil, err
	}

	language := res.Language
	if language == "" {
		language = s.Language
	}

	t := &transcript.Transcript{
		Source:    handle.Source,
		Platform:  handle.Platform,
		Title:     handle.Title,
		Language:  language,
		Duration:  handle.Duration,
		Segments:  res.Segments,
		CreatedAt: time.Now(),
	}
	savedTo, err := o.store.Save(t)
	if err != nil {
		o.abort(s, err)
		return nil, err
	}

	s.mu.Lock()
	s.state = StateCompleted
	s.segments = res.Segments
	s.touchedAt = time.Now()
	releaseErr := s.releaseHandleLocked()
	s.mu.Unlock()

	if releaseErr != nil {
		o.log.Error().Err(releaseErr).Str("session", s.ID).Msg("release audio on completion")
	}
	o.sessions.recordState(s, StateCompleted, "")
	o.sessions.recordTranscript(s, savedTo)
	o.log.Info().Str("session", s.ID).Str("saved_to", savedTo).
		Int("segments", len(res.Segments)).Msg("transcription complete")

	return o.result(s, handle, res.Segments, false, transcript.FullText(res.Segments), savedTo), nil
}

// abort moves the session to Aborted and releases audio unconditionally.
func (o *Orchestrator) abort(s *Session, cause error) {
	s.mu.Lock()
	s.state = StateAborted
	s.touchedAt = time.Now()
	releaseErr := s.releaseHandleLocked()
	s.mu.Unlock()

	if releaseErr != nil {
		o.log.Error().Err(releaseErr).Str("session", s.ID).Msg("release audio on abort")
	}
	o.sessions.recordState(s, StateAborted, cause.Error())
	o.log.Warn().Err(cause).Str("session", s.ID).Msg("session aborted")
}

func (o *Orchestrator) result(s *Session, handle *media.AudioHandle, segments []transcript.Segment, preview bool, fullText, savedTo string) *Result {
	return &Result{
		SessionID: s.ID,
		State:     s.State(),
		Platform:  handle.Platform,
		Title:     handle.Title,
		Language:  s.Language,
		Duration:  handle.Duration,
		Preview:   preview,
		Segments:  segments,
		FullText:  fullText,
		SavedTo:   savedTo,
	}
}
