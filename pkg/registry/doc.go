// Package registry tracks live cache instances for centralized lifecycle
// management: enumeration, sharing, and shutdown teardown.
//
// GetOrCreate keys instances by configuration fingerprint, so components
// that independently construct caches from equal settings share one
// instance and one connection pool:
//
//	reg := registry.New[string]()
//	defer reg.Close()
//
//	c1, id1, err := reg.GetOrCreate(ctx, cfg)
//	c2, id2, err := reg.GetOrCreate(ctx, cfg) // same instance, same ID
//
// Cleanup closes every registered instance in one pass. Close failures are
// isolated per instance: one broken connection does not keep the rest of
// the pool alive.
package registry
