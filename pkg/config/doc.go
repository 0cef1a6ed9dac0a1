// Package config defines the cache subsystem's configuration model.
//
// A Config is seeded from a named Strategy preset (fast, balanced, robust,
// ai_optimized), optionally overridden field by field, validated once, and
// treated as immutable afterwards.
//
//	cfg := config.New(config.StrategyAIOptimized,
//	    config.WithRemoteURL(os.Getenv("CACHE_REMOTE_URL")),
//	    config.WithOperationTTL("summarize", 24*time.Hour),
//	)
//	if result := cfg.Validate(); !result.Valid {
//	    log.Fatal(result.Messages())
//	}
//
// # Sources
//
// Configs can come from four places, all funneled through the same
// validation:
//
//   - New — strategy preset plus functional options
//   - FromEnv — CACHE_* environment variables over the preset
//   - FromMap — loosely-typed maps from JSON-like sources
//   - LoadFile — YAML preset files
//
// Validate returns a ValidationResult with field-level issues instead of an
// error, enabling pre-flight checks before deployment. ToMap and FromMap
// round-trip losslessly.
//
// SecurityConfig carries AUTH/ACL credentials and TLS material for the
// remote tier; it is consumed by the connection layer and the security
// manager and never mutated.
package config
