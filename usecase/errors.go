package usecase

import "errors"

// Sentinel errors surfaced to handlers. Backend (MongoDB) failures are
// wrapped with %w and passed through untouched; this layer never retries
// beyond the bounded conditional-update loop in CompleteCycle.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrTaskPaused gates cycle advancement inside the operation itself
	// rather than trusting every caller to check the flag first.
	ErrTaskPaused = errors.New("task is paused")

	// ErrRevisionConflict means concurrent completions kept winning the
	// conditional update for every retry attempt.
	ErrRevisionConflict = errors.New("task was modified concurrently, retry")

	ErrClientNotMapped = errors.New("client is not assigned to this team member")
)
