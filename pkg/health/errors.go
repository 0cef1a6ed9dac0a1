package health

import "errors"

// Sentinel errors for health checks and the management surface.
var (
	// ErrDegraded marks a check result as reduced service rather than an
	// outage; wrap it in a CheckFunc's returned error.
	ErrDegraded = errors.New("health: degraded")

	// ErrNoMonitor is returned by metrics queries when the surface was
	// built without a performance monitor.
	ErrNoMonitor = errors.New("health: no monitor configured")
)
