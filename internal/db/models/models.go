package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"` // admin, viewer
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionRecord is the durable row mirroring a transcription session's
// lifecycle. The live audio handle and segments stay in memory; this record
// is what survives for status queries and history.
type SessionRecord struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	Platform       string    `json:"platform,omitempty"`
	Title          string    `json:"title,omitempty"`
	Language       string    `json:"language"`
	State          string    `json:"state"`
	PreviewMinutes int       `json:"preview_minutes,omitempty"`
	Duration       float64   `json:"duration,omitempty"` // seconds of acquired audio
	TranscriptPath string    `json:"transcript_path,omitempty"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
