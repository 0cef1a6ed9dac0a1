package config

import "errors"

// Sentinel errors for configuration handling.
var (
	// ErrInvalidConfig is returned when a configuration source carries
	// malformed or out-of-range values.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnknownField is returned when a configuration map carries a key
	// that does not correspond to any config field.
	ErrUnknownField = errors.New("config: unknown field")

	// ErrFailedToLoadFile is returned when a preset file cannot be read
	// or parsed.
	ErrFailedToLoadFile = errors.New("config: failed to load file")
)
