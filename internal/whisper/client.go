package whisper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CppClient talks to the whisper.cpp HTTP server (whisper-server).
type CppClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewCppClient creates a client for the whisper.cpp server.
func NewCppClient(baseURL string, log zerolog.Logger) *CppClient {
	return &CppClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Minute, // transcription can be very long
		},
		log: log.With().Str("component", "whisper.cpp").Logger(),
	}
}

func (c *CppClient) Name() string {
	return "whisper.cpp"
}

// Transcribe converts media to WAV, sends it to whisper-server and parses
// the VTT response into segments.
func (c *CppClient) Transcribe(ctx context.Context, req Request) (*Result, error) {
	audioPath, err := extractAudio(ctx, req.AudioPath, req.ClipSeconds)
	if err != nil {
		return nil, fmt.Errorf("%w: extract audio: %v", ErrEngineFailure, err)
	}
	defer os.Remove(audioPath)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open audio: %v", ErrEngineFailure, err)
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("%w: create form file: %v", ErrEngineFailure, err)
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("%w: copy audio data: %v", ErrEngineFailure, err)
	}

	writer.WriteField("response_format", "vtt")
	writer.WriteField("temperature", "0.0")
	if req.Language != "" && req.Language != "auto" {
		writer.WriteField("language", req.Language)
	}
	writer.Close()

	url := c.baseURL + "/inference"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrEngineFailure, err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	c.log.Info().Str("url", url).Str("audio", audioPath).Msg("sending inference request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: whisper server request: %v", ErrEngineFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrEngineFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: whisper server status %d: %s", ErrEngineFailure, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	segments := parseVTT(string(body))
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no speech detected", ErrEngineFailure)
	}

	return &Result{
		Segments: segments,
		Language: req.Language,
	}, nil
}
