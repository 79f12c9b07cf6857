package corpus

import "errors"

// Per-corpus failures. Both are recoverable: the batch skips the corpus and continues.
var (
	// ErrSourceUnavailable indicates the corpus input is missing or unreadable.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrInvalidFormat indicates the corpus input exists but is malformed.
	ErrInvalidFormat = errors.New("invalid corpus format")
)
