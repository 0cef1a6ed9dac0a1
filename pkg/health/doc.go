// Package health provides health checks and the management surface for
// cache deployments.
//
// Checks run in parallel with a shared timeout and aggregate into three
// states: healthy, degraded (serving with reduced capability, e.g. the
// memory fallback while the config names a remote tier), and unhealthy.
// A CheckFunc reports degradation by wrapping [ErrDegraded].
//
// The [Surface] type bundles the operational calls for one deployment:
//
//	surface := health.NewSurface(c, cfg,
//	    health.WithMonitor[string](mon),
//	)
//
//	snap := surface.Health(ctx)          // health snapshot
//	stats, _ := surface.Metrics()        // performance snapshot
//	n, err := surface.Invalidate(ctx, "user:*")
//	result := surface.ValidateConfig()
//
// Everything is a plain function call; nothing here binds a port. Embedding
// applications expose the calls over their own transport if they need
// remote access.
package health
