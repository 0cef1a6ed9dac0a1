package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrInstanceNotFound is returned when no instance is registered under an ID.
	ErrInstanceNotFound = errors.New("registry: instance not found")

	// ErrRegistryClosed is returned when registering on a closed registry.
	ErrRegistryClosed = errors.New("registry: closed")

	// ErrNilCache is returned when Register is called with a nil cache.
	ErrNilCache = errors.New("registry: nil cache")
)
