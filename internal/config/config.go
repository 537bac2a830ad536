package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           int
	DataPath       string
	DBPath         string
	TranscriptsDir string
	TempDir        string

	WhisperEngine string // "whisper.cpp" or "whisperx"
	WhisperURL    string // whisper.cpp server base URL
	WhisperModel  string
	WhisperXBin   string
	YtDlpBin      string

	DefaultLanguage   string
	PreviewSessionTTL time.Duration

	JWTSecret     string
	AdminUsername string
	AdminPassword string
	CORSOrigins   []string
	LogLevel      string
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATA_PATH", "/data")
	v.SetDefault("DB_PATH", "")
	v.SetDefault("TRANSCRIPTS_DIR", "")
	v.SetDefault("TEMP_DIR", "")
	v.SetDefault("WHISPER_ENGINE", "whisperx")
	v.SetDefault("WHISPER_URL", "")
	v.SetDefault("WHISPER_MODEL", "large-v3")
	v.SetDefault("WHISPERX_BIN", "whisperx")
	v.SetDefault("YTDLP_PATH", "yt-dlp")
	v.SetDefault("DEFAULT_LANGUAGE", "ru")
	v.SetDefault("PREVIEW_SESSION_TTL", "30m")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	dataPath := v.GetString("DATA_PATH")

	dbPath := v.GetString("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataPath, "transcribe.db")
	}
	transcriptsDir := v.GetString("TRANSCRIPTS_DIR")
	if transcriptsDir == "" {
		transcriptsDir = filepath.Join(dataPath, "transcripts")
	}
	tempDir := v.GetString("TEMP_DIR")
	if tempDir == "" {
		tempDir = filepath.Join(dataPath, "temp")
	}

	// JWT secret: require explicit setting or generate random
	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random JWT secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Sessions will not survive restarts.")
	}

	ttl := v.GetDuration("PREVIEW_SESSION_TTL")
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if raw := v.GetString("CORS_ORIGINS"); raw != "" {
		origins := strings.Split(raw, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:              v.GetInt("PORT"),
		DataPath:          dataPath,
		DBPath:            dbPath,
		TranscriptsDir:    transcriptsDir,
		TempDir:           tempDir,
		WhisperEngine:     v.GetString("WHISPER_ENGINE"),
		WhisperURL:        v.GetString("WHISPER_URL"),
		WhisperModel:      v.GetString("WHISPER_MODEL"),
		WhisperXBin:       v.GetString("WHISPERX_BIN"),
		YtDlpBin:          v.GetString("YTDLP_PATH"),
		DefaultLanguage:   v.GetString("DEFAULT_LANGUAGE"),
		PreviewSessionTTL: ttl,
		JWTSecret:         jwtSecret,
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		CORSOrigins:       corsOrigins,
		LogLevel:          v.GetString("LOG_LEVEL"),
	}
}
