package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/video-transcribe/backend/internal/db"
	"github.com/video-transcribe/backend/internal/db/models"
)

// Registry owns the sessionId → Session map. Live audio handles exist only
// here; lifecycle records are mirrored to the database when one is attached.
// A janitor releases audio held by idle previewed sessions after the TTL so
// idle previews cannot pin disk space indefinitely. The session itself stays
// continuable: continuation re-acquires audio transparently.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	database *db.Database // optional; nil means in-memory only
	ttl      time.Duration
	log      zerolog.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRegistry(database *db.Database, ttl time.Duration, log zerolog.Logger) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		database: database,
		ttl:      ttl,
		log:      log.With().Str("component", "session").Logger(),
		stop:     make(chan struct{}),
	}
	go r.janitor()
	return r
}

func (r *Registry) put(s *Session) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	if r.database == nil {
		return
	}
	rec := &models.SessionRecord{
		ID:             s.ID,
		Source:         s.Request.Source,
		Language:       s.Language,
		State:          string(StateAcquiring),
		PreviewMinutes: s.Request.PreviewMinutes,
		CreatedAt:      s.CreatedAt,
	}
	if err := r.database.CreateSession(rec); err != nil {
		r.log.Error().Err(err).Str("session", s.ID).Msg("persist session record")
	}
}

func (r *Registry) get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

// recordState mirrors a state transition to the database.
func (r *Registry) recordState(s *Session, state State, errMsg string) {
	if r.database == nil {
		return
	}
	if err := r.database.UpdateSessionState(s.ID, string(state), errMsg); err != nil {
		r.log.Error().Err(err).Str("session", s.ID).Msg("persist state transition")
	}
}

// recordMedia mirrors acquisition metadata to the database.
func (r *Registry) recordMedia(s *Session, platform, title string, duration float64) {
	if r.database == nil {
		return
	}
	if err := r.database.UpdateSessionMedia(s.ID, platform, title, duration); err != nil {
		r.log.Error().Err(err).Str("session", s.ID).Msg("persist media metadata")
	}
}

// recordTranscript mirrors the saved transcript path to the database.
func (r *Registry) recordTranscript(s *Session, path string) {
	if r.database == nil {
		return
	}
	if err := r.database.SetSessionTranscript(s.ID, path); err != nil {
		r.log.Error().Err(err).Str("session", s.ID).Msg("persist transcript path")
	}
}

func (r *Registry) janitor() {
	interval := r.ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep(time.Now())
		}
	}
}

// sweep releases audio held by previewed sessions idle past the TTL and
// evicts terminal sessions from memory on the same schedule.
func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	stale := make([]*Session, 0)
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := now.Sub(s.touchedAt) > r.ttl
		terminal := s.state.Terminal()
		s.mu.Unlock()
		if !idle {
			continue
		}
		if terminal {
			delete(r.sessions, id)
			continue
		}
		stale = append(stale, s)
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.mu.Lock()
		if s.state == StatePreviewed && !s.released {
			if err := s.releaseHandleLocked(); err != nil {
				r.log.Error().Err(err).Str("session", s.ID).Msg("release stale audio")
			} else {
				r.log.Info().Str("session", s.ID).Msg("released stale preview audio")
			}
		}
		s.mu.Unlock()
	}
}

// Close stops the janitor and releases every live audio handle. Called on
// shutdown so no temporary audio outlives the process on a clean exit.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.mu.Lock()
		if err := s.releaseHandleLocked(); err != nil {
			r.log.Error().Err(err).Str("session", s.ID).Msg("release audio on shutdown")
		}
		s.mu.Unlock()
	}
}
