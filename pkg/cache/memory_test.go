package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachekit/pkg/cache"
	"github.com/dmitrymomot/cachekit/pkg/monitor"
)

// --- Memory: Get / Set ---

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string]()
		defer c.Close()

		_, err := c.Get(context.Background(), "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("returns stored value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[int]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", 42, time.Minute))

		val, err := c.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, 42, val)
	})

	t.Run("returns ErrNotFound for expired key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", "value", time.Millisecond))

		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "key")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("zero TTL uses default", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string](cache.WithDefaultTTL[string](50 * time.Millisecond))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", "value", 0))

		time.Sleep(60 * time.Millisecond)

		_, err := c.Get(ctx, "key")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative TTL never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string](cache.WithDefaultTTL[string](time.Millisecond))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", "value", -1))

		time.Sleep(10 * time.Millisecond)

		val, err := c.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, "value", val)
	})

	t.Run("set on closed cache returns ErrClosed", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string]()
		require.NoError(t, c.Close())
		require.ErrorIs(t, c.Set(context.Background(), "k", "v", time.Minute), cache.ErrClosed)
	})
}

// --- Memory: LRU eviction ---

func TestMemory_LRU(t *testing.T) {
	t.Parallel()

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string](cache.WithMaxEntries[string](2))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
		require.NoError(t, c.Set(ctx, "b", "2", time.Minute))

		// Access "a" to make it recently used.
		_, err := c.Get(ctx, "a")
		require.NoError(t, err)

		// Add "c" — should evict "b" (LRU), not "a".
		require.NoError(t, c.Set(ctx, "c", "3", time.Minute))

		ok, err := c.Exists(ctx, "a")
		require.NoError(t, err)
		require.True(t, ok, "a should still exist (recently used)")

		ok, err = c.Exists(ctx, "b")
		require.NoError(t, err)
		require.False(t, ok, "b should have been evicted")
	})

	t.Run("untouched entries evict in insertion order", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string](cache.WithMaxEntries[string](3))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "first", "1", time.Minute))
		require.NoError(t, c.Set(ctx, "second", "2", time.Minute))
		require.NoError(t, c.Set(ctx, "third", "3", time.Minute))
		require.NoError(t, c.Set(ctx, "fourth", "4", time.Minute))

		ok, err := c.Exists(ctx, "first")
		require.NoError(t, err)
		require.False(t, ok, "oldest insertion evicts first")

		require.Equal(t, 3, c.Len())
	})

	t.Run("eviction callback fires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string](cache.WithMaxEntries[string](1))
		defer c.Close()

		var mu sync.Mutex
		var evicted []string
		c.SetEvictCallback(func(key string, _ string) {
			mu.Lock()
			evicted = append(evicted, key)
			mu.Unlock()
		})

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
		require.NoError(t, c.Set(ctx, "b", "2", time.Minute))

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, []string{"a"}, evicted)
	})
}

// --- Memory: InvalidatePattern ---

func TestMemory_InvalidatePattern(t *testing.T) {
	t.Parallel()

	t.Run("removes matching keys only", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "user:1", "a", time.Minute))
		require.NoError(t, c.Set(ctx, "user:2", "b", time.Minute))
		require.NoError(t, c.Set(ctx, "session:9", "c", time.Minute))

		count, err := c.InvalidatePattern(ctx, "user:*")
		require.NoError(t, err)
		require.Equal(t, 2, count)

		_, err = c.Get(ctx, "user:1")
		require.ErrorIs(t, err, cache.ErrNotFound)
		_, err = c.Get(ctx, "user:2")
		require.ErrorIs(t, err, cache.ErrNotFound)

		val, err := c.Get(ctx, "session:9")
		require.NoError(t, err)
		require.Equal(t, "c", val)
	})

	t.Run("rejects overly broad patterns", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string]()
		defer c.Close()

		for _, pattern := range []string{"", "  ", "*", "**", "*?"} {
			_, err := c.InvalidatePattern(context.Background(), pattern)
			require.ErrorIs(t, err, cache.ErrInvalidPattern, "pattern %q", pattern)
		}
	})

	t.Run("no matches removes nothing", func(t *testing.T) {
		t.Parallel()

		c := cache.NewTesting[string]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

		count, err := c.InvalidatePattern(ctx, "other:*")
		require.NoError(t, err)
		require.Zero(t, count)
	})
}

// --- Memory: Ping / Close ---

func TestMemory_PingClose(t *testing.T) {
	t.Parallel()

	c := cache.NewTesting[string]()
	require.NoError(t, c.Ping(context.Background()))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close is idempotent")
	require.ErrorIs(t, c.Ping(context.Background()), cache.ErrClosed)
}

// --- Memory: telemetry ---

func TestMemory_Recorder(t *testing.T) {
	t.Parallel()

	t.Run("records hits and misses", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New()
		c := cache.NewTesting[string](cache.WithMemoryRecorder[string](mon))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

		_, _ = c.Get(ctx, "k")
		_, _ = c.Get(ctx, "missing")

		stats := mon.Stats()
		require.Equal(t, 1, stats.Hits)
		require.Equal(t, 1, stats.Misses)
	})

	t.Run("sizer feeds memory pressure series", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New(monitor.WithMemoryThresholds(10, 20))
		c := cache.NewTesting[string](
			cache.WithMemoryRecorder[string](mon),
			cache.WithSizer[string](func(v string) int { return len(v) }),
		)
		defer c.Close()

		require.NoError(t, c.Set(context.Background(), "k", "twelve bytes going over", time.Minute))

		warnings := mon.MemoryWarnings()
		require.NotEmpty(t, warnings)
		require.Equal(t, monitor.SeverityCritical, warnings[0].Severity)
	})
}

// --- Memory: concurrency ---

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewTesting[int](cache.WithMaxEntries[int](100))
	defer c.Close()

	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := range 100 {
				key := "k" + string(rune('a'+base))
				require.NoError(t, c.Set(ctx, key, base*100+j, time.Minute))
				_, _ = c.Get(ctx, key)
				_, _ = c.Exists(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}
