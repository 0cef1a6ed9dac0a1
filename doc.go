// Package cachekit provides a two-tier caching subsystem for applications
// with mixed workloads: a fast in-process memory tier backed by an optional
// Redis remote tier, with deterministic key generation, performance
// monitoring, and centralized lifecycle management.
//
// Cachekit is designed around graceful degradation: if the remote tier is
// unreachable at construction time, the factory hands back a fully
// functional memory-only cache and the application keeps serving. Health
// reporting surfaces the reduced capability; call sites never branch on it.
//
// # Quick Start
//
// Build a cache from a strategy preset and use it:
//
//	cfg := cachekit.NewConfig(cachekit.StrategyBalanced,
//	    config.WithRemoteURL(os.Getenv("CACHE_REMOTE_URL")),
//	)
//
//	c, err := cachekit.New[Profile](ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := c.Set(ctx, "profile:42", profile, time.Hour); err != nil {
//	    return err
//	}
//
//	profile, err := c.Get(ctx, "profile:42")
//	if errors.Is(err, cachekit.ErrNotFound) {
//	    // miss: load from the source of truth
//	}
//
// # Packages
//
// The root package re-exports the public API. The implementation lives in
// focused packages:
//
//   - pkg/cache — cache variants (memory, two-tier, AI-optimized) and the factory
//   - pkg/config — strategy presets, validation, env/YAML/map loading
//   - pkg/keygen — deterministic key generation for operation requests
//   - pkg/monitor — operation measurements and aggregate statistics
//   - pkg/security — connection security scoring and posture reporting
//   - pkg/registry — live-instance tracking and shutdown teardown
//   - pkg/health — health checks and the management surface
//   - pkg/redis — remote tier connection helpers
//   - pkg/logger — structured logging with context extraction
//
// Cachekit is a library: nothing in it binds a network port or installs a
// global. Embedding applications own the transport and the process
// lifecycle.
package cachekit
