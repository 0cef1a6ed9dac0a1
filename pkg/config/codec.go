package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ToMap serializes the config into a structure of primitives, strings,
// numbers, bools, and nested maps, suitable for JSON or YAML transport.
// FromMap(c.ToMap()) is field-equal to c.
func (c Config) ToMap() map[string]any {
	m := map[string]any{
		"strategy":                 string(c.Strategy),
		"remote_url":               c.RemoteURL,
		"default_ttl_seconds":      int(c.DefaultTTL / time.Second),
		"max_connections":          c.MaxConnections,
		"connect_timeout_seconds":  int(c.ConnectTimeout / time.Second),
		"compression_threshold":    c.CompressionThreshold,
		"compression_level":        c.CompressionLevel,
		"memory_cache_size":        c.MemoryCacheSize,
		"enable_ai_features":       c.EnableAIFeatures,
		"fail_on_connection_error": c.FailOnConnectionError,
	}

	if len(c.OperationTTLs) > 0 {
		ttls := make(map[string]any, len(c.OperationTTLs))
		for op, ttl := range c.OperationTTLs {
			ttls[op] = int(ttl / time.Second)
		}
		m["operation_ttls"] = ttls
	}

	if c.Security != nil {
		m["security"] = map[string]any{
			"auth_password":       c.Security.AuthPassword,
			"acl_username":        c.Security.ACLUsername,
			"acl_password":        c.Security.ACLPassword,
			"tls_enabled":         c.Security.TLSEnabled,
			"tls_cert_path":       c.Security.TLSCertPath,
			"tls_key_path":        c.Security.TLSKeyPath,
			"tls_ca_path":         c.Security.TLSCAPath,
			"verify_certificates": c.Security.VerifyCertificates,
		}
	}

	return m
}

// FromMap deserializes a config from a loosely-typed map, as produced by
// JSON or YAML decoding. Malformed or unknown fields fail with field-level
// messages joined onto ErrInvalidConfig; the map is validated at this
// boundary rather than carried loosely through the system.
func FromMap(m map[string]any) (Config, error) {
	var cfg Config
	var errs []error

	fieldErr := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...)))
	}

	for key, raw := range m {
		switch key {
		case "strategy":
			if s, ok := raw.(string); ok {
				cfg.Strategy = Strategy(s)
			} else {
				fieldErr(key, "expected string, got %T", raw)
			}
		case "remote_url":
			if s, ok := raw.(string); ok {
				cfg.RemoteURL = s
			} else {
				fieldErr(key, "expected string, got %T", raw)
			}
		case "default_ttl_seconds":
			if n, ok := toInt(raw); ok {
				cfg.DefaultTTL = time.Duration(n) * time.Second
			} else {
				fieldErr(key, "expected number of seconds, got %T", raw)
			}
		case "max_connections":
			if n, ok := toInt(raw); ok {
				cfg.MaxConnections = n
			} else {
				fieldErr(key, "expected number, got %T", raw)
			}
		case "connect_timeout_seconds":
			if n, ok := toInt(raw); ok {
				cfg.ConnectTimeout = time.Duration(n) * time.Second
			} else {
				fieldErr(key, "expected number of seconds, got %T", raw)
			}
		case "compression_threshold":
			if n, ok := toInt(raw); ok {
				cfg.CompressionThreshold = n
			} else {
				fieldErr(key, "expected number, got %T", raw)
			}
		case "compression_level":
			if n, ok := toInt(raw); ok {
				cfg.CompressionLevel = n
			} else {
				fieldErr(key, "expected number, got %T", raw)
			}
		case "memory_cache_size":
			if n, ok := toInt(raw); ok {
				cfg.MemoryCacheSize = n
			} else {
				fieldErr(key, "expected number, got %T", raw)
			}
		case "enable_ai_features":
			if b, ok := raw.(bool); ok {
				cfg.EnableAIFeatures = b
			} else {
				fieldErr(key, "expected bool, got %T", raw)
			}
		case "fail_on_connection_error":
			if b, ok := raw.(bool); ok {
				cfg.FailOnConnectionError = b
			} else {
				fieldErr(key, "expected bool, got %T", raw)
			}
		case "operation_ttls":
			ttls, err := ttlMap(raw)
			if err != nil {
				fieldErr(key, "%v", err)
			} else {
				cfg.OperationTTLs = ttls
			}
		case "security":
			sec, err := securityFromMap(raw)
			if err != nil {
				errs = append(errs, err)
			} else {
				cfg.Security = sec
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownField, key))
		}
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return cfg, nil
}

// LoadFile reads a YAML preset file and decodes it through FromMap, so file
// contents get the same field-level validation as any other map source.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Join(ErrFailedToLoadFile, err)
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, errors.Join(ErrFailedToLoadFile, err)
	}

	return FromMap(m)
}

// Fingerprint returns a stable identity for the configuration, used by the
// registry to share cache instances between equivalent configs. Secrets
// participate in the digest but are never exposed.
func (c Config) Fingerprint() string {
	// encoding/json sorts map keys, so this serialization is canonical.
	data, _ := json.Marshal(c.ToMap())
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

func securityFromMap(raw any) (*SecurityConfig, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("security: expected map, got %T", raw)
	}

	var sec SecurityConfig
	var errs []error

	for key, val := range m {
		switch key {
		case "auth_password":
			sec.AuthPassword, _ = val.(string)
		case "acl_username":
			sec.ACLUsername, _ = val.(string)
		case "acl_password":
			sec.ACLPassword, _ = val.(string)
		case "tls_enabled":
			sec.TLSEnabled, _ = val.(bool)
		case "tls_cert_path":
			sec.TLSCertPath, _ = val.(string)
		case "tls_key_path":
			sec.TLSKeyPath, _ = val.(string)
		case "tls_ca_path":
			sec.TLSCAPath, _ = val.(string)
		case "verify_certificates":
			sec.VerifyCertificates, _ = val.(bool)
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownField, "security."+key))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &sec, nil
}

func ttlMap(raw any) (map[string]time.Duration, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected map of operation to seconds, got %T", raw)
	}

	ttls := make(map[string]time.Duration, len(m))
	for op, val := range m {
		n, ok := toInt(val)
		if !ok {
			return nil, fmt.Errorf("%s: expected number of seconds, got %T", op, val)
		}
		ttls[op] = time.Duration(n) * time.Second
	}
	return ttls, nil
}

// toInt accepts the numeric types JSON and YAML decoders produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
