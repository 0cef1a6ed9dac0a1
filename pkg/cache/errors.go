package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNotFound is returned when a key does not exist in the cache or has expired.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned when an operation is attempted on a closed cache.
	ErrClosed = errors.New("cache: closed")

	// ErrMarshal is returned when value serialization fails.
	ErrMarshal = errors.New("cache: failed to marshal value")

	// ErrUnmarshal is returned when value deserialization fails.
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")

	// ErrInvalidPattern is returned for empty or overly broad invalidation patterns.
	ErrInvalidPattern = errors.New("cache: invalid invalidation pattern")

	// ErrInfrastructure is returned by the factory when the remote tier is
	// unreachable and the config forbids falling back to memory.
	ErrInfrastructure = errors.New("cache: remote tier unavailable")

	// ErrAIFeaturesDisabled is returned when an AI-optimized cache is
	// requested from a config without AI features enabled.
	ErrAIFeaturesDisabled = errors.New("cache: ai features disabled in config")
)
