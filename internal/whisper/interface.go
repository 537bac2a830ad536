package whisper

import (
	"context"
	"errors"

	"github.com/video-transcribe/backend/internal/transcript"
)

// ErrEngineFailure means the engine crashed, was unreachable, or produced no
// output. Typically transient; the caller decides whether to retry.
var ErrEngineFailure = errors.New("transcription engine failure")

// Request is the input for a transcription pass.
type Request struct {
	AudioPath string
	// Language is "auto" or an explicit code such as "ru", "en".
	Language string
	// ClipSeconds bounds the transcription to the first N seconds of audio.
	// Zero means the full duration.
	ClipSeconds float64
}

// Result is the output of a transcription pass. Segments are ordered
// chronologically with non-overlapping ranges.
type Result struct {
	Segments []transcript.Segment
	Language string
}

// Transcriber is the common interface for all whisper engines.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	// Name returns the engine name.
	Name() string
}
