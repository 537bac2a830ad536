package media

import (
	"os"
	"testing"
)

func TestTempHandleRemoved(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "audio-*.mp3")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	h := NewTempHandle(f.Name(), 60, "t", "YouTube", "https://youtube.com/watch?v=a")
	if !h.Temp() {
		t.Fatal("downloaded handle not marked temporary")
	}
	if err := h.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !h.Stale() {
		t.Error("handle not stale after removal")
	}
	// removing an already-gone file is not an error
	if err := h.Remove(); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestLocalHandleUntouched(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "talk-*.mp3")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	h := &AudioHandle{Path: f.Name(), Duration: 60, Platform: "LocalFile"}
	if h.Temp() {
		t.Fatal("zero-value handle marked temporary")
	}
	if err := h.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(f.Name()); err != nil {
		t.Error("local file deleted by Remove")
	}
}

func TestHashSourceStable(t *testing.T) {
	a := hashSource("https://youtube.com/watch?v=abc")
	b := hashSource("https://youtube.com/watch?v=abc")
	c := hashSource("https://youtube.com/watch?v=def")
	if a != b {
		t.Error("hash not stable for equal input")
	}
	if a == c {
		t.Error("distinct sources collide")
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16 hex chars", len(a))
	}
}

func TestIsUnsupportedOutput(t *testing.T) {
	tests := []struct {
		out  string
		want bool
	}{
		{"ERROR: Unsupported URL: https://example.com/page", true},
		{"ERROR: 'nonsense' is not a valid URL", true},
		{"ERROR: unable to extract video data", true},
		{"ERROR: [youtube] abc: Video unavailable", false},
		{"ERROR: network timeout", false},
	}
	for _, tc := range tests {
		if got := isUnsupportedOutput(tc.out); got != tc.want {
			t.Errorf("isUnsupportedOutput(%q) = %v, want %v", tc.out, got, tc.want)
		}
	}
}
