package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides holds environment values as pointers so unset variables can
// be told apart from explicit zero values: only set variables override the
// strategy preset.
type envOverrides struct {
	Strategy              *string                  `env:"CACHE_STRATEGY"`
	RemoteURL             *string                  `env:"CACHE_REMOTE_URL"`
	DefaultTTL            *time.Duration           `env:"CACHE_DEFAULT_TTL"`
	MaxConnections        *int                     `env:"CACHE_MAX_CONNECTIONS"`
	ConnectTimeout        *time.Duration           `env:"CACHE_CONNECT_TIMEOUT"`
	CompressionThreshold  *int                     `env:"CACHE_COMPRESSION_THRESHOLD"`
	CompressionLevel      *int                     `env:"CACHE_COMPRESSION_LEVEL"`
	MemoryCacheSize       *int                     `env:"CACHE_MEMORY_SIZE"`
	EnableAIFeatures      *bool                    `env:"CACHE_ENABLE_AI_FEATURES"`
	FailOnConnectionError *bool                    `env:"CACHE_FAIL_ON_CONNECTION_ERROR"`
	OperationTTLs         map[string]time.Duration `env:"CACHE_OPERATION_TTLS" envSeparator:"," envKeyValSeparator:":"`
}

// FromEnv builds a config from environment variables. CACHE_STRATEGY seeds
// the preset defaults; every other CACHE_* variable overrides its field.
// Malformed values fail with the offending variable named, never a generic
// parse error.
//
// CACHE_OPERATION_TTLS uses "op:ttl" pairs: "summarize:24h,qa:2h".
func FromEnv() (Config, error) {
	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	strategy := StrategyBalanced
	if overrides.Strategy != nil {
		strategy = Strategy(*overrides.Strategy)
	}

	cfg := Preset(strategy)

	if overrides.RemoteURL != nil {
		cfg.RemoteURL = *overrides.RemoteURL
	}
	if overrides.DefaultTTL != nil {
		cfg.DefaultTTL = *overrides.DefaultTTL
	}
	if overrides.MaxConnections != nil {
		cfg.MaxConnections = *overrides.MaxConnections
	}
	if overrides.ConnectTimeout != nil {
		cfg.ConnectTimeout = *overrides.ConnectTimeout
	}
	if overrides.CompressionThreshold != nil {
		cfg.CompressionThreshold = *overrides.CompressionThreshold
	}
	if overrides.CompressionLevel != nil {
		cfg.CompressionLevel = *overrides.CompressionLevel
	}
	if overrides.MemoryCacheSize != nil {
		cfg.MemoryCacheSize = *overrides.MemoryCacheSize
	}
	if overrides.EnableAIFeatures != nil {
		cfg.EnableAIFeatures = *overrides.EnableAIFeatures
	}
	if overrides.FailOnConnectionError != nil {
		cfg.FailOnConnectionError = *overrides.FailOnConnectionError
	}
	if len(overrides.OperationTTLs) > 0 {
		if cfg.OperationTTLs == nil {
			cfg.OperationTTLs = make(map[string]time.Duration, len(overrides.OperationTTLs))
		}
		for op, ttl := range overrides.OperationTTLs {
			cfg.OperationTTLs[op] = ttl
		}
	}

	sec, err := env.ParseAs[SecurityConfig]()
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	if sec.HasAuth() || sec.TLSEnabled {
		cfg.Security = &sec
	}

	return cfg, nil
}
