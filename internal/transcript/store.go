package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrStorageUnavailable means the transcript directory cannot be created or written.
var ErrStorageUnavailable = errors.New("transcript storage unavailable")

// maxTitleRunes bounds the sanitized title so the full file name
// (date + time + platform prefix included) stays well under filesystem limits.
const maxTitleRunes = 80

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeTitle strips path-unsafe characters, collapses whitespace and
// truncates the result so it can be embedded in a file name.
func SanitizeTitle(title string) string {
	s := unsafeChars.ReplaceAllString(title, "")
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxTitleRunes {
		s = strings.TrimSpace(string(runes[:maxTitleRunes]))
	}
	if s == "" {
		s = "Untitled"
	}
	return s
}

// Store writes completed transcripts to a single directory and lists them.
// Saves are atomic (temp file + rename), so a crash never leaves a partial
// transcript visible under its final name.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the transcript directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the transcript as plain text and returns the final file path.
// File name: {YYYY-MM-DD}_{HHMM}_{platform}_{title}.txt, with a numeric
// suffix when a file for the same minute and title already exists.
func (s *Store) Save(t *Transcript) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrStorageUnavailable, s.dir, err)
	}

	base := fmt.Sprintf("%s_%s_%s",
		t.CreatedAt.Format("2006-01-02_1504"),
		SanitizeTitle(t.Platform),
		SanitizeTitle(t.Title),
	)

	finalPath := filepath.Join(s.dir, base+".txt")
	for n := 2; ; n++ {
		if _, err := os.Stat(finalPath); os.IsNotExist(err) {
			break
		}
		finalPath = filepath.Join(s.dir, fmt.Sprintf("%s_%d.txt", base, n))
	}

	tmp, err := os.CreateTemp(s.dir, ".transcript-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(render(t)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: write: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: close: %v", ErrStorageUnavailable, err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: rename: %v", ErrStorageUnavailable, err)
	}

	return finalPath, nil
}

// render builds the three fixed sections: header, timestamped segments, full text.
func render(t *Transcript) string {
	sep := strings.Repeat("=", 50)

	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", t.Source)
	fmt.Fprintf(&b, "Platform: %s\n", t.Platform)
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	fmt.Fprintf(&b, "Transcribed: %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Duration: %s\n", FormatDuration(t.Duration))
	fmt.Fprintf(&b, "Language: %s\n", t.Language)
	b.WriteString("\n" + sep + "\n\n")

	for _, seg := range t.Segments {
		fmt.Fprintf(&b, "%s %s\n", TimestampRange(seg.Start, seg.End), strings.TrimSpace(seg.Text))
	}

	b.WriteString("\n" + sep + "\n")
	b.WriteString("FULL TEXT (no timestamps):\n")
	b.WriteString(sep + "\n\n")
	b.WriteString(FullText(t.Segments))
	b.WriteString("\n")

	return b.String()
}

// List returns metadata for stored transcripts, newest first. It scans the
// directory and parses file names only; segment content is never read.
func (s *Store) List(limit, offset int) ([]Meta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var metas []Meta
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".txt") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		m := Meta{
			FileName:  name,
			Path:      filepath.Join(s.dir, name),
			SizeKB:    float64(info.Size()) / 1024,
			CreatedAt: info.ModTime(),
		}
		// {date}_{time}_{platform}_{title}.txt
		parts := strings.SplitN(strings.TrimSuffix(name, ".txt"), "_", 4)
		if len(parts) == 4 {
			m.Platform = parts[2]
			m.Title = parts[3]
		}
		metas = append(metas, m)
	}

	sort.Slice(metas, func(i, j int) bool {
		if !metas[i].CreatedAt.Equal(metas[j].CreatedAt) {
			return metas[i].CreatedAt.After(metas[j].CreatedAt)
		}
		return metas[i].FileName > metas[j].FileName
	})

	if offset >= len(metas) {
		return nil, nil
	}
	metas = metas[offset:]
	if limit > 0 && limit < len(metas) {
		metas = metas[:limit]
	}
	return metas, nil
}
