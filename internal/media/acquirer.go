package media

import (
	"context"
	"errors"
	"os"
)

var (
	// ErrSourceUnavailable means the source could not be fetched (network or
	// platform-side failure). The caller may retry.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrUnsupportedSource means the URL or file is not something we can
	// extract audio from. Retrying will not help.
	ErrUnsupportedSource = errors.New("unsupported source")
)

// AudioHandle is the audio artifact backing a transcription session. It is
// exclusively owned by that session and, when temporary, must be removed
// when the session reaches a terminal state.
type AudioHandle struct {
	Path     string
	Duration float64 // seconds
	Title    string
	Platform string
	Source   string
	temp     bool
}

// NewTempHandle builds a handle for a downloaded artifact that is owned by
// its session and removed on release.
func NewTempHandle(path string, duration float64, title, platform, source string) *AudioHandle {
	return &AudioHandle{
		Path:     path,
		Duration: duration,
		Title:    title,
		Platform: platform,
		Source:   source,
		temp:     true,
	}
}

// Temp reports whether the backing file is a temporary download owned by us,
// as opposed to a caller-provided local file that must not be touched.
func (h *AudioHandle) Temp() bool {
	return h.temp
}

// Remove deletes the backing file if it is a temporary download.
func (h *AudioHandle) Remove() error {
	if !h.temp {
		return nil
	}
	if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Stale reports whether the backing file is gone from disk.
func (h *AudioHandle) Stale() bool {
	_, err := os.Stat(h.Path)
	return err != nil
}

// Acquirer produces a local audio-only artifact for a URL or local path.
type Acquirer interface {
	Fetch(ctx context.Context, source string) (*AudioHandle, error)
}
