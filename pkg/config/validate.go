package config

import (
	"fmt"
	"os"
	"time"
)

// Documented field ranges.
const (
	minTTL = 60 * time.Second
	maxTTL = 24 * time.Hour

	minConnections = 1
	maxConnections = 100

	minConnectTimeout = time.Second
	maxConnectTimeout = 30 * time.Second

	minCompressionThreshold = 1024
	maxCompressionThreshold = 65536

	minCompressionLevel = 1
	maxCompressionLevel = 9
)

// Issue is one human-readable validation finding tied to a field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// ValidationResult is the outcome of a pre-flight configuration check.
// It is returned rather than raised so deployments can validate before
// starting traffic.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Messages renders all issues as human-readable strings.
func (r ValidationResult) Messages() []string {
	out := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		out[i] = issue.String()
	}
	return out
}

// Validate checks field ranges, strategy/feature-flag consistency, and TLS
// path consistency. It never panics and never returns an error: bad values
// come back as field-level issues.
func (c Config) Validate() ValidationResult {
	var issues []Issue

	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !c.Strategy.Valid() {
		add("strategy", "unknown strategy %q", string(c.Strategy))
	}
	if c.Strategy == StrategyAIOptimized && !c.EnableAIFeatures {
		add("enable_ai_features", "must be true when strategy is %q", string(StrategyAIOptimized))
	}

	if c.DefaultTTL < minTTL || c.DefaultTTL > maxTTL {
		add("default_ttl", "must be between %s and %s, got %s", minTTL, maxTTL, c.DefaultTTL)
	}
	if c.MaxConnections < minConnections || c.MaxConnections > maxConnections {
		add("max_connections", "must be between %d and %d, got %d", minConnections, maxConnections, c.MaxConnections)
	}
	if c.ConnectTimeout < minConnectTimeout || c.ConnectTimeout > maxConnectTimeout {
		add("connect_timeout", "must be between %s and %s, got %s", minConnectTimeout, maxConnectTimeout, c.ConnectTimeout)
	}
	if c.CompressionThreshold < minCompressionThreshold || c.CompressionThreshold > maxCompressionThreshold {
		add("compression_threshold", "must be between %d and %d, got %d", minCompressionThreshold, maxCompressionThreshold, c.CompressionThreshold)
	}
	if c.CompressionLevel < minCompressionLevel || c.CompressionLevel > maxCompressionLevel {
		add("compression_level", "must be between %d and %d, got %d", minCompressionLevel, maxCompressionLevel, c.CompressionLevel)
	}
	if c.MemoryCacheSize <= 0 {
		add("memory_cache_size", "must be positive, got %d", c.MemoryCacheSize)
	}

	for op, ttl := range c.OperationTTLs {
		if ttl < minTTL || ttl > maxTTL {
			add("operation_ttls."+op, "must be between %s and %s, got %s", minTTL, maxTTL, ttl)
		}
	}

	if c.Security != nil {
		issues = append(issues, c.Security.validate()...)
	}

	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}

// validate checks TLS path consistency and credential completeness.
func (s SecurityConfig) validate() []Issue {
	var issues []Issue

	if (s.ACLUsername == "") != (s.ACLPassword == "") {
		issues = append(issues, Issue{
			Field:   "security.acl_username",
			Message: "acl_username and acl_password must be set together",
		})
	}

	if s.TLSEnabled {
		for field, path := range map[string]string{
			"security.tls_cert_path": s.TLSCertPath,
			"security.tls_key_path":  s.TLSKeyPath,
			"security.tls_ca_path":   s.TLSCAPath,
		} {
			if path == "" {
				issues = append(issues, Issue{Field: field, Message: "required when TLS is enabled"})
				continue
			}
			if _, err := os.Stat(path); err != nil {
				issues = append(issues, Issue{Field: field, Message: fmt.Sprintf("file not accessible: %v", err)})
			}
		}
	}

	return issues
}
