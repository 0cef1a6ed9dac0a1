// Package monitor provides in-memory performance telemetry for cache operations.
//
// A Monitor records one Measurement per cache-affecting operation (key
// generation, get, set, delete, compression, invalidation) and computes
// aggregate statistics on demand: hit rate, per-category latency, compression
// efficiency, memory-pressure projection, and invalidation patterns.
//
// # Usage
//
//	m := monitor.New(
//	    monitor.WithRetention(6 * time.Hour),
//	    monitor.WithMemoryThresholds(64<<20, 128<<20),
//	)
//
//	m.Record(monitor.CategoryGet, 1200*time.Microsecond, monitor.Context{Hit: true})
//
//	stats := m.Stats()
//	fmt.Println(stats.HitRate)
//
// # Capability injection
//
// Components that report metrics accept the Recorder interface. Use
// NopRecorder when telemetry is not needed:
//
//	kg := keygen.New(keygen.WithRecorder(monitor.NopRecorder{}))
//
// # Retention
//
// Measurements are retained up to WithRetention (default 24h) or
// WithMaxMeasurements (default 10000), whichever bound is hit first. Expired
// measurements are purged lazily on each statistics query. Reset clears data
// but preserves configured thresholds and limits.
//
// All methods are safe for concurrent use.
package monitor
