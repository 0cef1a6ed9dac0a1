package config

import (
	"time"
)

// Strategy is a named configuration profile that seeds default parameter
// values before explicit overrides are applied.
type Strategy string

const (
	// StrategyFast favors low latency and development convenience:
	// short TTLs, a small connection pool, light compression.
	StrategyFast Strategy = "fast"

	// StrategyBalanced is the general-purpose default.
	StrategyBalanced Strategy = "balanced"

	// StrategyRobust favors reliability: long TTLs, a large pool,
	// maximum compression.
	StrategyRobust Strategy = "robust"

	// StrategyAIOptimized enables AI workload features: per-operation
	// TTLs and payload-size-aware key generation.
	StrategyAIOptimized Strategy = "ai_optimized"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyFast, StrategyBalanced, StrategyRobust, StrategyAIOptimized:
		return true
	}
	return false
}

// Config holds all cache subsystem parameters. Construct it once at startup
// via New, FromEnv, FromMap, or LoadFile, validate it, and treat it as
// immutable afterwards: every accessor works on a value copy.
type Config struct {
	// Strategy drives the defaults for all other fields.
	Strategy Strategy `env:"CACHE_STRATEGY" envDefault:"balanced" yaml:"strategy"`

	// RemoteURL is the redis:// or rediss:// URL of the remote tier.
	// Empty means memory-only operation.
	RemoteURL string `env:"CACHE_REMOTE_URL" yaml:"remote_url"`

	// DefaultTTL applies when a Set carries no explicit TTL.
	// Valid range: 60s to 24h.
	DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" yaml:"default_ttl"`

	// MaxConnections bounds the remote connection pool. Range: 1 to 100.
	MaxConnections int `env:"CACHE_MAX_CONNECTIONS" yaml:"max_connections"`

	// ConnectTimeout bounds every remote-tier operation, including the
	// initial connectivity probe. Range: 1s to 30s.
	ConnectTimeout time.Duration `env:"CACHE_CONNECT_TIMEOUT" yaml:"connect_timeout"`

	// CompressionThreshold is the value size in bytes above which remote
	// writes are compressed. Range: 1024 to 65536.
	CompressionThreshold int `env:"CACHE_COMPRESSION_THRESHOLD" yaml:"compression_threshold"`

	// CompressionLevel is the gzip level. Range: 1 to 9.
	CompressionLevel int `env:"CACHE_COMPRESSION_LEVEL" yaml:"compression_level"`

	// MemoryCacheSize is the memory tier's maximum entry count.
	MemoryCacheSize int `env:"CACHE_MEMORY_SIZE" yaml:"memory_cache_size"`

	// EnableAIFeatures switches on per-operation TTLs and keygen-delegated
	// key construction. Required when Strategy is StrategyAIOptimized.
	EnableAIFeatures bool `env:"CACHE_ENABLE_AI_FEATURES" yaml:"enable_ai_features"`

	// FailOnConnectionError disables the memory fallback: the factory
	// surfaces remote connection failures instead of degrading.
	FailOnConnectionError bool `env:"CACHE_FAIL_ON_CONNECTION_ERROR" yaml:"fail_on_connection_error"`

	// OperationTTLs overrides DefaultTTL per AI operation name.
	OperationTTLs map[string]time.Duration `yaml:"operation_ttls"`

	// Security configures transport security for the remote tier.
	Security *SecurityConfig `yaml:"security"`
}

// New builds a config from strategy defaults plus explicit overrides.
//
// Example:
//
//	cfg := config.New(config.StrategyRobust,
//	    config.WithRemoteURL("rediss://cache.internal:6379/0"),
//	    config.WithMaxConnections(25),
//	)
func New(strategy Strategy, opts ...ConfigOption) Config {
	cfg := Preset(strategy)
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// OperationTTL resolves the TTL for one operation, falling back to the
// config default when no per-operation override exists.
func (c Config) OperationTTL(operation string) time.Duration {
	if ttl, ok := c.OperationTTLs[operation]; ok {
		return ttl
	}
	return c.DefaultTTL
}

// ConfigOption overrides one field after strategy defaults are applied.
type ConfigOption func(*Config)

// WithRemoteURL sets the remote tier URL.
func WithRemoteURL(url string) ConfigOption {
	return func(c *Config) { c.RemoteURL = url }
}

// WithDefaultTTL overrides the default entry TTL.
func WithDefaultTTL(d time.Duration) ConfigOption {
	return func(c *Config) { c.DefaultTTL = d }
}

// WithMaxConnections overrides the remote pool size.
func WithMaxConnections(n int) ConfigOption {
	return func(c *Config) { c.MaxConnections = n }
}

// WithConnectTimeout overrides the remote operation timeout.
func WithConnectTimeout(d time.Duration) ConfigOption {
	return func(c *Config) { c.ConnectTimeout = d }
}

// WithCompression overrides the compression threshold and level.
func WithCompression(thresholdBytes, level int) ConfigOption {
	return func(c *Config) {
		c.CompressionThreshold = thresholdBytes
		c.CompressionLevel = level
	}
}

// WithMemoryCacheSize overrides the memory tier entry limit.
func WithMemoryCacheSize(n int) ConfigOption {
	return func(c *Config) { c.MemoryCacheSize = n }
}

// WithOperationTTL sets a per-operation TTL override.
func WithOperationTTL(operation string, ttl time.Duration) ConfigOption {
	return func(c *Config) {
		if c.OperationTTLs == nil {
			c.OperationTTLs = make(map[string]time.Duration)
		}
		c.OperationTTLs[operation] = ttl
	}
}

// WithSecurity attaches transport security settings.
func WithSecurity(sc SecurityConfig) ConfigOption {
	return func(c *Config) { c.Security = &sc }
}

// WithFailOnConnectionError makes the factory surface remote connection
// failures instead of falling back to memory-only operation.
func WithFailOnConnectionError(fail bool) ConfigOption {
	return func(c *Config) { c.FailOnConnectionError = fail }
}
