package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/video-transcribe/backend/internal/api"
	"github.com/video-transcribe/backend/internal/auth"
	"github.com/video-transcribe/backend/internal/config"
	"github.com/video-transcribe/backend/internal/db"
	"github.com/video-transcribe/backend/internal/logging"
	"github.com/video-transcribe/backend/internal/media"
	"github.com/video-transcribe/backend/internal/session"
	"github.com/video-transcribe/backend/internal/transcript"
	"github.com/video-transcribe/backend/internal/whisper"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	// Ensure data directories exist
	for _, dir := range []string{cfg.DataPath, cfg.TranscriptsDir, cfg.TempDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("create data directory")
		}
	}

	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize database")
	}
	defer database.Close()

	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("create admin user")
	}
	log.Info().Str("username", cfg.AdminUsername).Msg("admin user ensured")

	engine, err := buildEngine(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configure whisper engine")
	}
	log.Info().Str("engine", engine.Name()).Msg("whisper engine ready")

	acquirer := media.NewService(cfg.YtDlpBin, cfg.TempDir, log)
	store := transcript.NewStore(cfg.TranscriptsDir)
	registry := session.NewRegistry(database, cfg.PreviewSessionTTL, log)
	orch := session.NewOrchestrator(acquirer, engine, store, registry, cfg.DefaultLanguage, log)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	router := api.NewRouter(database, jwtService, cfg, orch, store, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("transcripts", cfg.TranscriptsDir).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}

	// Release any temporary audio still held by live sessions.
	registry.Close()
}

func buildEngine(cfg *config.Config, log zerolog.Logger) (whisper.Transcriber, error) {
	switch cfg.WhisperEngine {
	case "whisper.cpp":
		if cfg.WhisperURL == "" {
			return nil, fmt.Errorf("WHISPER_URL required for the whisper.cpp engine")
		}
		return whisper.NewCppClient(cfg.WhisperURL, log), nil
	case "whisperx":
		return whisper.NewXClient(cfg.WhisperXBin, cfg.WhisperModel, log), nil
	default:
		return nil, fmt.Errorf("unknown whisper engine: %s", cfg.WhisperEngine)
	}
}
