package whisper

import (
	"errors"
	"strings"
	"testing"
)

func TestParseXResult(t *testing.T) {
	payload := `{
		"language": "ru",
		"segments": [
			{"start": 0.009, "end": 4.527, "text": " Привет и добро пожаловать. "},
			{"start": 4.527, "end": 9.0, "text": "Сегодня мы тестируем."},
			{"start": 9.0, "end": 9.5, "text": "   "}
		]
	}`

	res, err := parseXResult(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("parseXResult: %v", err)
	}

	if res.Language != "ru" {
		t.Errorf("language = %q, want ru", res.Language)
	}
	// blank segment dropped
	if len(res.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(res.Segments))
	}
	if res.Segments[0].Text != "Привет и добро пожаловать." {
		t.Errorf("text not trimmed: %q", res.Segments[0].Text)
	}
	if res.Segments[0].Start != 0.009 || res.Segments[0].End != 4.527 {
		t.Errorf("first segment [%v-%v]", res.Segments[0].Start, res.Segments[0].End)
	}
}

func TestParseXResultNoSpeech(t *testing.T) {
	_, err := parseXResult(strings.NewReader(`{"language": "en", "segments": []}`))
	if !errors.Is(err, ErrEngineFailure) {
		t.Errorf("err = %v, want ErrEngineFailure", err)
	}
}

func TestParseXResultBadJSON(t *testing.T) {
	_, err := parseXResult(strings.NewReader(`{"segments": [`))
	if !errors.Is(err, ErrEngineFailure) {
		t.Errorf("err = %v, want ErrEngineFailure", err)
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"single line", "single line"},
		{"first\nsecond\nthird\n", "third"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := lastLine(tc.in); got != tc.want {
			t.Errorf("lastLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
