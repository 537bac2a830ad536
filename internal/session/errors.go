package session

import "errors"

var (
	// ErrInvalidRequest means the transcription request failed validation.
	ErrInvalidRequest = errors.New("invalid transcription request")
	// ErrSessionNotFound means the session id references nothing continuable.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCompleted means the session already reached a terminal state.
	ErrSessionCompleted = errors.New("session already completed")
)
