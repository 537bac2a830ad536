package transcript

import (
	"strings"
	"time"
)

// Segment is a timed span of transcribed text.
type Segment struct {
	Start float64 `json:"start"` // seconds from the beginning of the audio
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Transcript is a completed transcription ready to be persisted.
type Transcript struct {
	Source    string    `json:"source"` // original URL or file:// path
	Platform  string    `json:"platform"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Duration  float64   `json:"duration"` // seconds
	Segments  []Segment `json:"segments"`
	CreatedAt time.Time `json:"created_at"`
}

// FullText concatenates all segment texts with single spaces,
// dropping internal runs of whitespace.
func FullText(segments []Segment) string {
	var parts []string
	for _, seg := range segments {
		fields := strings.Fields(seg.Text)
		if len(fields) > 0 {
			parts = append(parts, strings.Join(fields, " "))
		}
	}
	return strings.Join(parts, " ")
}

// Meta describes a stored transcript without its segment content.
type Meta struct {
	FileName  string    `json:"filename"`
	Path      string    `json:"path"`
	Platform  string    `json:"platform"`
	Title     string    `json:"title"`
	SizeKB    float64   `json:"size_kb"`
	CreatedAt time.Time `json:"created_at"`
}
