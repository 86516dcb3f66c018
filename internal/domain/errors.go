package domain

import "errors"

// Fatal pipeline errors. Stage-local degenerate states (no sentences, no
// clusters) are not errors; they collapse into an empty but valid deck.
var (
	// ErrDimensionMismatch reports embeddings of non-uniform dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable reports a failed or unreachable embedding provider.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrInvalidConfig reports numeric bounds or selections outside the
	// documented ranges. Surfaced before any processing starts.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidTheme reports a theme missing one of the required roles.
	ErrInvalidTheme = errors.New("invalid theme")
)
