package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// extractAudio uses FFmpeg to convert media to WAV 16kHz mono (required by
// whisper). When clipSeconds > 0 only the leading clip is extracted, which is
// how preview bounds are enforced for every engine.
func extractAudio(ctx context.Context, srcPath string, clipSeconds float64) (string, error) {
	tmpFile, err := os.CreateTemp("", "whisper-audio-*.wav")
	if err != nil {
		return "", err
	}
	tmpFile.Close()

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", srcPath,
		"-vn", // no video
		"-acodec", "pcm_s16le",
		"-ar", "16000", // 16kHz
		"-ac", "1", // mono
	}
	if clipSeconds > 0 {
		args = append(args, "-t", strconv.FormatFloat(clipSeconds, 'f', 3, 64))
	}
	args = append(args, "-y", tmpFile.Name())

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("ffmpeg: %s: %w", string(output), err)
	}

	return tmpFile.Name(), nil
}
