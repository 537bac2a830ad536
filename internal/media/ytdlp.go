package media

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"lukechampine.com/blake3"
)

// Service acquires audio for URLs (via yt-dlp, extraction-only download) and
// for local media files (probed in place, never copied or deleted).
type Service struct {
	ytdlpBin string
	tempDir  string
	log      zerolog.Logger
}

func NewService(ytdlpBin, tempDir string, log zerolog.Logger) *Service {
	if ytdlpBin == "" {
		ytdlpBin = "yt-dlp"
	}
	return &Service{
		ytdlpBin: ytdlpBin,
		tempDir:  tempDir,
		log:      log.With().Str("component", "media").Logger(),
	}
}

var _ Acquirer = (*Service)(nil)

// Fetch produces an AudioHandle for a URL or local path.
func (s *Service) Fetch(ctx context.Context, source string) (*AudioHandle, error) {
	if IsURL(source) {
		return s.fetchRemote(ctx, source)
	}
	return s.fetchLocal(ctx, source)
}

type videoInfo struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Uploader string  `json:"uploader"`
}

func (s *Service) fetchRemote(ctx context.Context, url string) (*AudioHandle, error) {
	if !IsSupportedURL(url) {
		return nil, fmt.Errorf("%w: scheme of %q", ErrUnsupportedSource, url)
	}

	info, err := s.probeRemote(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: temp dir: %v", ErrSourceUnavailable, err)
	}
	outPath := filepath.Join(s.tempDir, fmt.Sprintf("audio_%s_%s.mp3", hashSource(url), uuid.NewString()[:8]))

	s.log.Info().Str("url", url).Str("out", outPath).Msg("downloading audio")

	cmd := exec.CommandContext(ctx, s.ytdlpBin,
		"-x", // extract audio only, no video stream persisted
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"-o", outPath,
		"--no-playlist",
		"--no-warnings",
		url,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outPath)
		if isUnsupportedOutput(string(output)) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, firstLine(string(output)))
		}
		return nil, fmt.Errorf("%w: yt-dlp: %s", ErrSourceUnavailable, firstLine(string(output)))
	}

	if _, err := os.Stat(outPath); err != nil {
		return nil, fmt.Errorf("%w: audio file missing after download", ErrSourceUnavailable)
	}

	duration := info.Duration
	if duration <= 0 {
		if d, err := ProbeDuration(ctx, outPath); err == nil {
			duration = d
		}
	}

	return NewTempHandle(outPath, duration, info.Title, DetectPlatform(url), url), nil
}

// probeRemote fetches title/duration metadata without downloading media.
func (s *Service) probeRemote(ctx context.Context, url string) (*videoInfo, error) {
	cmd := exec.CommandContext(ctx, s.ytdlpBin,
		"--dump-json",
		"--no-download",
		"--no-playlist",
		"--no-warnings",
		url,
	)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := string(exitErr.Stderr)
			if isUnsupportedOutput(stderr) {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, firstLine(stderr))
			}
			return nil, fmt.Errorf("%w: yt-dlp: %s", ErrSourceUnavailable, firstLine(stderr))
		}
		return nil, fmt.Errorf("%w: yt-dlp: %v", ErrSourceUnavailable, err)
	}

	info := &videoInfo{Title: "Unknown"}
	if err := json.Unmarshal(output, info); err != nil {
		return nil, fmt.Errorf("%w: parse metadata: %v", ErrSourceUnavailable, err)
	}
	if info.Title == "" {
		info.Title = "Unknown"
	}
	return info, nil
}

func (s *Service) fetchLocal(ctx context.Context, path string) (*AudioHandle, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}

	duration, err := ProbeDuration(ctx, path)
	if err != nil {
		// ffprobe cannot read it, so neither can the engine
		return nil, fmt.Errorf("%w: not a readable media file: %s", ErrUnsupportedSource, path)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &AudioHandle{
		Path:     path,
		Duration: duration,
		Title:    title,
		Platform: "LocalFile",
		Source:   "file://" + path,
		temp:     false,
	}, nil
}

func hashSource(source string) string {
	sum := blake3.Sum256([]byte(source))
	return hex.EncodeToString(sum[:8])
}

// isUnsupportedOutput matches yt-dlp errors that indicate the URL itself is
// the problem, not a transient failure.
func isUnsupportedOutput(out string) bool {
	lower := strings.ToLower(out)
	return strings.Contains(lower, "unsupported url") ||
		strings.Contains(lower, "is not a valid url") ||
		strings.Contains(lower, "no video formats") ||
		strings.Contains(lower, "unable to extract")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
