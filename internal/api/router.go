package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/video-transcribe/backend/internal/api/handlers"
	"github.com/video-transcribe/backend/internal/api/middleware"
	"github.com/video-transcribe/backend/internal/auth"
	"github.com/video-transcribe/backend/internal/config"
	"github.com/video-transcribe/backend/internal/db"
	"github.com/video-transcribe/backend/internal/session"
	"github.com/video-transcribe/backend/internal/transcript"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, orch *session.Orchestrator, store *transcript.Store, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.MaxBodySize(1 << 20))
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	transcribeHandler := handlers.NewTranscribeHandler(orch)
	sessionsHandler := handlers.NewSessionsHandler(database)
	transcriptsHandler := handlers.NewTranscriptsHandler(store)

	loginLimiter := middleware.NewRateLimiter(5, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Auth (public)
		r.With(loginLimiter.Handler).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			// Auth
			r.Get("/auth/me", authHandler.Me)

			// Transcription sessions
			r.Post("/transcribe", transcribeHandler.Start)
			r.Post("/transcribe/{sessionID}/continue", transcribeHandler.Continue)
			r.Delete("/transcribe/{sessionID}", transcribeHandler.Abandon)

			// Session records
			r.Get("/sessions", sessionsHandler.List)
			r.Get("/sessions/{id}", sessionsHandler.Get)

			// Stored transcripts
			r.Get("/transcripts", transcriptsHandler.List)
		})
	})

	return r
}
