package health_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachekit/pkg/cache"
	"github.com/dmitrymomot/cachekit/pkg/config"
	"github.com/dmitrymomot/cachekit/pkg/health"
	"github.com/dmitrymomot/cachekit/pkg/monitor"
	"github.com/dmitrymomot/cachekit/pkg/security"
)

func newSurfaceForTest(t *testing.T, opts ...health.SurfaceOption[string]) (*health.Surface[string], *cache.Memory[string]) {
	t.Helper()

	c := cache.NewTesting[string]()
	t.Cleanup(func() { c.Close() })

	return health.NewSurface[string](c, config.New(config.StrategyBalanced), opts...), c
}

// --- Health ---

func TestSurface_Health(t *testing.T) {
	t.Parallel()

	t.Run("healthy cache produces healthy snapshot", func(t *testing.T) {
		t.Parallel()

		s, _ := newSurfaceForTest(t)

		resp := s.Health(context.Background())
		require.Equal(t, health.StatusHealthy, resp.Status)
		require.Contains(t, resp.Checks, "cache")
	})

	t.Run("extra checks participate", func(t *testing.T) {
		t.Parallel()

		s, _ := newSurfaceForTest(t, health.WithCheck[string]("upstream", func(context.Context) error {
			return health.ErrDegraded
		}))

		resp := s.Health(context.Background())
		require.Equal(t, health.StatusDegraded, resp.Status)
		require.Contains(t, resp.Checks, "upstream")
	})

	t.Run("closed cache is unhealthy", func(t *testing.T) {
		t.Parallel()

		s, c := newSurfaceForTest(t)
		require.NoError(t, c.Close())

		resp := s.Health(context.Background())
		require.Equal(t, health.StatusUnhealthy, resp.Status)
	})
}

// --- Metrics ---

func TestSurface_Metrics(t *testing.T) {
	t.Parallel()

	t.Run("without monitor returns ErrNoMonitor", func(t *testing.T) {
		t.Parallel()

		s, _ := newSurfaceForTest(t)

		_, err := s.Metrics()
		require.ErrorIs(t, err, health.ErrNoMonitor)

		_, err = s.SlowOperations(2)
		require.ErrorIs(t, err, health.ErrNoMonitor)
	})

	t.Run("reflects recorded operations", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New()
		c := cache.NewTesting[string](cache.WithMemoryRecorder[string](mon))
		defer c.Close()

		s := health.NewSurface[string](c, config.New(config.StrategyBalanced),
			health.WithMonitor[string](mon),
		)

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
		_, _ = c.Get(ctx, "k")
		_, _ = c.Get(ctx, "missing")

		stats, err := s.Metrics()
		require.NoError(t, err)
		require.Equal(t, 1, stats.Hits)
		require.Equal(t, 1, stats.Misses)
		require.InDelta(t, 0.5, stats.HitRate, 1e-9)
	})

	t.Run("empty monitor reports zero stats", func(t *testing.T) {
		t.Parallel()

		s, _ := newSurfaceForTest(t, health.WithMonitor[string](monitor.New()))

		stats, err := s.Metrics()
		require.NoError(t, err)
		require.Zero(t, stats.TotalMeasurements)
		require.Zero(t, stats.HitRate)
		require.NotNil(t, stats.Categories)
	})
}

// --- Invalidate ---

func TestSurface_Invalidate(t *testing.T) {
	t.Parallel()

	t.Run("removes matching keys", func(t *testing.T) {
		t.Parallel()

		s, c := newSurfaceForTest(t)

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "doc:1", "a", time.Minute))
		require.NoError(t, c.Set(ctx, "doc:2", "b", time.Minute))
		require.NoError(t, c.Set(ctx, "other", "c", time.Minute))

		count, err := s.Invalidate(ctx, "doc:*")
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("rejects overly broad patterns", func(t *testing.T) {
		t.Parallel()

		s, _ := newSurfaceForTest(t)

		_, err := s.Invalidate(context.Background(), "*")
		require.ErrorIs(t, err, cache.ErrInvalidPattern)
	})
}

// --- Config / security review ---

func TestSurface_ValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		s, _ := newSurfaceForTest(t)
		require.True(t, s.ValidateConfig().Valid)
	})

	t.Run("invalid config reports field issues", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string]()
		defer c.Close()

		cfg := config.New(config.StrategyBalanced, config.WithDefaultTTL(time.Second))
		s := health.NewSurface[string](c, cfg)

		result := s.ValidateConfig()
		require.False(t, result.Valid)
		require.NotEmpty(t, result.Issues)
		require.Equal(t, "default_ttl", result.Issues[0].Field)
	})
}

func TestSurface_SecurityStatus(t *testing.T) {
	t.Parallel()

	c := cache.NewTesting[string]()
	defer c.Close()

	cfg := config.New(config.StrategyBalanced, config.WithRemoteURL("redis://localhost:6379/0"))
	s := health.NewSurface[string](c, cfg)

	status := s.SecurityStatus()
	require.Equal(t, security.LevelLow, status.Level)
}
