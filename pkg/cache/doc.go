// Package cache implements the cache variants and the factory that selects
// between them.
//
// # Variants
//
// All variants implement the Cache interface; the factory picks one at
// construction time and call sites never branch on the active
// implementation:
//
//   - Memory — bounded in-process map with TTL expiration and LRU eviction.
//     No network dependency; the universal fallback.
//   - TwoTier — memory tier first, Redis behind it. Remote hits are promoted
//     into memory; writes go to both tiers; large values are gzip-compressed
//     before remote storage.
//   - AIOptimized — wraps another variant with per-operation TTLs and
//     keygen-delegated key construction for AI operation requests.
//
// # Construction
//
//	cfg := config.New(config.StrategyBalanced,
//	    config.WithRemoteURL(os.Getenv("CACHE_REMOTE_URL")),
//	)
//	c, err := cache.NewFromConfig[string](ctx, cfg,
//	    cache.WithRecorder[string](mon),
//	)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
// When the remote tier is unreachable the factory falls back to a
// memory-only cache unless the config sets FailOnConnectionError; the
// returned cache is fully functional either way. Use IsFallback to report
// degradation in health checks.
//
// # Error semantics
//
// Hot-path operations treat the remote tier as an optimization: a failed
// remote read degrades to ErrNotFound and a failed remote write is logged
// and recorded but does not fail the caller. Only marshal failures and
// invalid invalidation patterns surface as errors.
//
// # Stampede control
//
// GetOrSet deduplicates concurrent misses for the same key with
// singleflight, so the expensive computation runs once.
package cache
