package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachekit/pkg/config"
)

// --- Presets ---

func TestPreset(t *testing.T) {
	t.Parallel()

	t.Run("every preset validates cleanly", func(t *testing.T) {
		t.Parallel()

		for _, s := range []config.Strategy{
			config.StrategyFast,
			config.StrategyBalanced,
			config.StrategyRobust,
			config.StrategyAIOptimized,
		} {
			result := config.Preset(s).Validate()
			require.True(t, result.Valid, "preset %s: %v", s, result.Messages())
		}
	})

	t.Run("ai preset enables ai features and operation ttls", func(t *testing.T) {
		t.Parallel()

		cfg := config.Preset(config.StrategyAIOptimized)
		require.True(t, cfg.EnableAIFeatures)
		require.NotEmpty(t, cfg.OperationTTLs)
	})

	t.Run("robust outlives fast", func(t *testing.T) {
		t.Parallel()

		require.Greater(t,
			config.Preset(config.StrategyRobust).DefaultTTL,
			config.Preset(config.StrategyFast).DefaultTTL,
		)
	})

	t.Run("options override preset defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.New(config.StrategyBalanced,
			config.WithMaxConnections(42),
			config.WithRemoteURL("redis://localhost:6379/0"),
		)
		require.Equal(t, 42, cfg.MaxConnections)
		require.Equal(t, "redis://localhost:6379/0", cfg.RemoteURL)
	})
}

// --- OperationTTL ---

func TestConfig_OperationTTL(t *testing.T) {
	t.Parallel()

	cfg := config.New(config.StrategyAIOptimized, config.WithOperationTTL("qa", 90*time.Minute))

	require.Equal(t, 90*time.Minute, cfg.OperationTTL("qa"))
	require.Equal(t, cfg.DefaultTTL, cfg.OperationTTL("unknown-operation"))
}

// --- Validate ---

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("rejects out-of-range fields with field names", func(t *testing.T) {
		t.Parallel()

		cfg := config.New(config.StrategyBalanced,
			config.WithDefaultTTL(time.Second),
			config.WithMaxConnections(500),
			config.WithCompression(100, 20),
		)

		result := cfg.Validate()
		require.False(t, result.Valid)

		fields := make(map[string]bool)
		for _, issue := range result.Issues {
			fields[issue.Field] = true
		}
		require.True(t, fields["default_ttl"])
		require.True(t, fields["max_connections"])
		require.True(t, fields["compression_threshold"])
		require.True(t, fields["compression_level"])
	})

	t.Run("ai strategy requires ai features", func(t *testing.T) {
		t.Parallel()

		cfg := config.Preset(config.StrategyAIOptimized)
		cfg.EnableAIFeatures = false

		result := cfg.Validate()
		require.False(t, result.Valid)
		require.Contains(t, result.Messages()[0], "enable_ai_features")
	})

	t.Run("unknown strategy is flagged", func(t *testing.T) {
		t.Parallel()

		cfg := config.Preset(config.Strategy("turbo"))
		result := cfg.Validate()
		require.False(t, result.Valid)
	})

	t.Run("tls requires cert paths", func(t *testing.T) {
		t.Parallel()

		cfg := config.New(config.StrategyBalanced, config.WithSecurity(config.SecurityConfig{
			TLSEnabled: true,
		}))

		result := cfg.Validate()
		require.False(t, result.Valid)
		require.GreaterOrEqual(t, len(result.Issues), 3)
	})

	t.Run("tls paths must exist", func(t *testing.T) {
		t.Parallel()

		cfg := config.New(config.StrategyBalanced, config.WithSecurity(config.SecurityConfig{
			TLSEnabled:  true,
			TLSCertPath: "/nonexistent/cert.pem",
			TLSKeyPath:  "/nonexistent/key.pem",
			TLSCAPath:   "/nonexistent/ca.pem",
		}))

		require.False(t, cfg.Validate().Valid)
	})

	t.Run("acl username without password is flagged", func(t *testing.T) {
		t.Parallel()

		cfg := config.New(config.StrategyBalanced, config.WithSecurity(config.SecurityConfig{
			ACLUsername: "cache",
		}))

		result := cfg.Validate()
		require.False(t, result.Valid)
		require.Contains(t, result.Messages()[0], "acl")
	})
}

// --- ToMap / FromMap ---

func TestConfig_MapRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("round trip is field-equal for every preset", func(t *testing.T) {
		t.Parallel()

		for _, s := range []config.Strategy{
			config.StrategyFast,
			config.StrategyBalanced,
			config.StrategyRobust,
			config.StrategyAIOptimized,
		} {
			original := config.Preset(s)
			restored, err := config.FromMap(original.ToMap())
			require.NoError(t, err, "preset %s", s)
			require.Equal(t, original, restored, "preset %s", s)
		}
	})

	t.Run("round trip preserves security config", func(t *testing.T) {
		t.Parallel()

		original := config.New(config.StrategyRobust, config.WithSecurity(config.SecurityConfig{
			ACLUsername:        "cache",
			ACLPassword:        "secret",
			VerifyCertificates: true,
		}))

		restored, err := config.FromMap(original.ToMap())
		require.NoError(t, err)
		require.Equal(t, original, restored)
	})

	t.Run("unknown field fails with its name", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromMap(map[string]any{"strategy": "fast", "turbo_mode": true})
		require.ErrorIs(t, err, config.ErrUnknownField)
		require.Contains(t, err.Error(), "turbo_mode")
	})

	t.Run("malformed value fails with field-level message", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromMap(map[string]any{"max_connections": "lots"})
		require.ErrorIs(t, err, config.ErrInvalidConfig)
		require.Contains(t, err.Error(), "max_connections")
	})

	t.Run("accepts json-decoded float numbers", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromMap(map[string]any{
			"strategy":            "fast",
			"default_ttl_seconds": float64(300),
		})
		require.NoError(t, err)
		require.Equal(t, 5*time.Minute, cfg.DefaultTTL)
	})
}

// --- Fingerprint ---

func TestConfig_Fingerprint(t *testing.T) {
	t.Parallel()

	a := config.Preset(config.StrategyBalanced)
	b := config.Preset(config.StrategyBalanced)
	c := config.New(config.StrategyBalanced, config.WithMaxConnections(11))

	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

// --- LoadFile ---

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("loads yaml preset file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cache.yaml")
		content := []byte(`
strategy: robust
remote_url: redis://cache.internal:6379/0
default_ttl_seconds: 7200
operation_ttls:
  summarize: 86400
`)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		cfg, err := config.LoadFile(path)
		require.NoError(t, err)
		require.Equal(t, config.StrategyRobust, cfg.Strategy)
		require.Equal(t, 2*time.Hour, cfg.DefaultTTL)
		require.Equal(t, 24*time.Hour, cfg.OperationTTLs["summarize"])
	})

	t.Run("missing file fails", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadFile("/nonexistent/cache.yaml")
		require.ErrorIs(t, err, config.ErrFailedToLoadFile)
	})
}

// --- FromEnv ---

func TestFromEnv(t *testing.T) {
	t.Run("strategy seeds defaults and variables override", func(t *testing.T) {
		t.Setenv("CACHE_STRATEGY", "robust")
		t.Setenv("CACHE_MAX_CONNECTIONS", "33")
		t.Setenv("CACHE_OPERATION_TTLS", "summarize:24h,qa:2h")

		cfg, err := config.FromEnv()
		require.NoError(t, err)
		require.Equal(t, config.StrategyRobust, cfg.Strategy)
		require.Equal(t, 33, cfg.MaxConnections)
		require.Equal(t, config.Preset(config.StrategyRobust).DefaultTTL, cfg.DefaultTTL)
		require.Equal(t, 24*time.Hour, cfg.OperationTTLs["summarize"])
	})

	t.Run("security config attaches when credentials present", func(t *testing.T) {
		t.Setenv("CACHE_ACL_USERNAME", "cache")
		t.Setenv("CACHE_ACL_PASSWORD", "secret")

		cfg, err := config.FromEnv()
		require.NoError(t, err)
		require.NotNil(t, cfg.Security)
		require.True(t, cfg.Security.HasACL())
	})

	t.Run("malformed variable names the field", func(t *testing.T) {
		t.Setenv("CACHE_MAX_CONNECTIONS", "many")

		_, err := config.FromEnv()
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}
