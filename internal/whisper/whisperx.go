package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/video-transcribe/backend/internal/transcript"
)

// XClient runs the whisperx CLI (faster-whisper under the hood) and parses
// its JSON output. Timestamps come back as arbitrary-precision decimals.
type XClient struct {
	bin   string
	model string
	log   zerolog.Logger
}

func NewXClient(bin, model string, log zerolog.Logger) *XClient {
	if bin == "" {
		bin = "whisperx"
	}
	return &XClient{
		bin:   bin,
		model: model,
		log:   log.With().Str("component", "whisperx").Logger(),
	}
}

func (c *XClient) Name() string {
	return "whisperx"
}

type xResult struct {
	Language string     `json:"language"`
	Segments []xSegment `json:"segments"`
}

type xSegment struct {
	Start decimal.Decimal `json:"start"`
	End   decimal.Decimal `json:"end"`
	Text  string          `json:"text"`
}

func (c *XClient) Transcribe(ctx context.Context, req Request) (*Result, error) {
	audioPath, err := extractAudio(ctx, req.AudioPath, req.ClipSeconds)
	if err != nil {
		return nil, fmt.Errorf("%w: extract audio: %v", ErrEngineFailure, err)
	}
	defer os.Remove(audioPath)

	outDir, err := os.MkdirTemp("", "whisperx-out-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineFailure, err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		audioPath,
		"--output_dir", outDir,
		"--output_format", "json",
	}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	if req.Language != "" && req.Language != "auto" {
		args = append(args, "--language", req.Language)
	}

	c.log.Info().Str("audio", audioPath).Strs("args", args).Msg("running whisperx")

	cmd := exec.CommandContext(ctx, c.bin, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: whisperx: %s", ErrEngineFailure, lastLine(string(output)))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	resultPath := filepath.Join(outDir, base+".json")
	f, err := os.Open(resultPath)
	if err != nil {
		return nil, fmt.Errorf("%w: whisperx result missing: %v", ErrEngineFailure, err)
	}
	defer f.Close()

	res, err := parseXResult(f)
	if err != nil {
		return nil, err
	}
	if res.Language == "" {
		res.Language = req.Language
	}
	return res, nil
}

// parseXResult decodes whisperx JSON into ordered segments.
func parseXResult(r io.Reader) (*Result, error) {
	var parsed xResult
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode whisperx json: %v", ErrEngineFailure, err)
	}

	segments := make([]transcript.Segment, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{
			Start: s.Start.InexactFloat64(),
			End:   s.End.InexactFloat64(),
			Text:  text,
		})
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no speech detected", ErrEngineFailure)
	}

	return &Result{
		Segments: segments,
		Language: parsed.Language,
	}, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
