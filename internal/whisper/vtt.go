package whisper

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/video-transcribe/backend/internal/transcript"
)

// cueRe matches VTT cue timings: "00:01:02.500 --> 00:01:05.000" with an
// optional hours field.
var cueRe = regexp.MustCompile(`^(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})`)

// parseVTT converts WebVTT content into ordered segments. Cue identifiers,
// the WEBVTT header and NOTE blocks are skipped; multi-line cue payloads are
// joined with spaces.
func parseVTT(vtt string) []transcript.Segment {
	var segments []transcript.Segment
	var current *transcript.Segment
	var textLines []string

	flush := func() {
		if current != nil {
			current.Text = strings.TrimSpace(strings.Join(textLines, " "))
			if current.Text != "" {
				segments = append(segments, *current)
			}
			current = nil
			textLines = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(vtt))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := cueRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &transcript.Segment{
				Start: cueSeconds(m[1], m[2], m[3], m[4]),
				End:   cueSeconds(m[5], m[6], m[7], m[8]),
			}
			continue
		}

		if line == "" {
			flush()
			continue
		}
		if current == nil {
			// header, cue identifier or NOTE
			continue
		}
		textLines = append(textLines, line)
	}
	flush()

	return segments
}

func cueSeconds(hours, minutes, seconds, millis string) float64 {
	h := 0
	if hours != "" {
		h, _ = strconv.Atoi(hours)
	}
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(millis)
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}
