package cachekit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachekit"
	"github.com/dmitrymomot/cachekit/pkg/health"
	"github.com/dmitrymomot/cachekit/pkg/registry"
)

func TestPublicAPI(t *testing.T) {
	t.Parallel()

	t.Run("memory-only cache round trip", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		c, err := cachekit.New[string](ctx, cachekit.NewConfig(cachekit.StrategyBalanced))
		require.NoError(t, err)
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "v", got)

		_, err = c.Get(ctx, "missing")
		require.ErrorIs(t, err, cachekit.ErrNotFound)
	})

	t.Run("get or set computes once", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		c, err := cachekit.New[int](ctx, cachekit.NewConfig(cachekit.StrategyFast))
		require.NoError(t, err)
		defer c.Close()

		got, err := cachekit.GetOrSet(ctx, c, "answer", func(context.Context) (int, time.Duration, error) {
			return 42, time.Minute, nil
		})
		require.NoError(t, err)
		require.Equal(t, 42, got)
	})

	t.Run("registry and surface wire together", func(t *testing.T) {
		t.Parallel()

		reg := cachekit.NewRegistry[string]()
		defer reg.Close()

		ctx := context.Background()
		cfg := cachekit.NewConfig(cachekit.StrategyBalanced)

		c, id, err := reg.GetOrCreate(ctx, cfg)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		mon := cachekit.NewMonitor()
		surface := cachekit.NewSurface[string](c, cfg, health.WithMonitor[string](mon))

		resp := surface.Health(ctx)
		require.Equal(t, health.StatusHealthy, resp.Status)

		report, err := reg.Cleanup()
		require.NoError(t, err)
		require.Equal(t, 1, report.Cleaned)
	})

	t.Run("invalid config surfaces ErrInvalidConfig", func(t *testing.T) {
		t.Parallel()

		cfg := cachekit.NewConfig("made-up-strategy")
		_, err := cachekit.New[string](context.Background(), cfg)
		require.ErrorIs(t, err, cachekit.ErrInvalidConfig)
	})

	t.Run("registry builder override", func(t *testing.T) {
		t.Parallel()

		reg := cachekit.NewRegistry(registry.WithBuilder(func(ctx context.Context, cfg cachekit.Config) (cachekit.Cache[string], error) {
			return cachekit.New[string](ctx, cfg)
		}))
		defer reg.Close()

		_, _, err := reg.GetOrCreate(context.Background(), cachekit.NewConfig(cachekit.StrategyFast))
		require.NoError(t, err)
	})
}
