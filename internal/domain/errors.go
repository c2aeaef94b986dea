package domain

import "errors"

// Sentinel errors shared by the store, the CLI and the API.
var (
	ErrNotFound    = errors.New("entry not found")
	ErrAmbiguousID = errors.New("ambiguous entry id")
	ErrEmptyPrompt = errors.New("prompt is required")
)
