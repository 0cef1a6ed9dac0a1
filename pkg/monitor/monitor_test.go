package monitor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachekit/pkg/monitor"
)

// --- Stats ---

func TestMonitor_Stats(t *testing.T) {
	t.Parallel()

	t.Run("empty monitor returns zero values without error", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()

		stats := m.Stats()
		require.Zero(t, stats.HitRate)
		require.Zero(t, stats.TotalMeasurements)
		require.Empty(t, stats.Categories)
		require.Empty(t, stats.Invalidation.TopPatterns)
	})

	t.Run("computes hit rate from get measurements", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		m.Record(monitor.CategoryGet, time.Millisecond, monitor.Context{Hit: true})
		m.Record(monitor.CategoryGet, time.Millisecond, monitor.Context{Hit: true})
		m.Record(monitor.CategoryGet, time.Millisecond, monitor.Context{Hit: true})
		m.Record(monitor.CategoryGet, time.Millisecond, monitor.Context{Hit: false})

		stats := m.Stats()
		require.Equal(t, 3, stats.Hits)
		require.Equal(t, 1, stats.Misses)
		require.InDelta(t, 0.75, stats.HitRate, 1e-9)
	})

	t.Run("computes per-category average and median", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		m.Record(monitor.CategorySet, 10*time.Millisecond, monitor.Context{})
		m.Record(monitor.CategorySet, 20*time.Millisecond, monitor.Context{})
		m.Record(monitor.CategorySet, 90*time.Millisecond, monitor.Context{})

		stats := m.Stats()
		cs := stats.Categories[monitor.CategorySet]
		require.Equal(t, 3, cs.Count)
		require.Equal(t, 40*time.Millisecond, cs.AvgDuration)
		require.Equal(t, 20*time.Millisecond, cs.MedianDuration)
	})

	t.Run("aggregates compression ratio and bytes saved", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		m.Record(monitor.CategoryCompression, time.Millisecond, monitor.Context{
			OriginalBytes:   4000,
			CompressedBytes: 1000,
		})
		m.Record(monitor.CategoryCompression, time.Millisecond, monitor.Context{
			OriginalBytes:   2000,
			CompressedBytes: 1000,
		})

		stats := m.Stats()
		require.Equal(t, 2, stats.Compression.Count)
		require.InDelta(t, 3.0, stats.Compression.AvgRatio, 1e-9)
		require.Equal(t, int64(4000), stats.Compression.BytesSaved)
	})

	t.Run("counts invalidation patterns", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		m.Record(monitor.CategoryInvalidation, time.Millisecond, monitor.Context{Pattern: "user:*", KeysAffected: 2})
		m.Record(monitor.CategoryInvalidation, time.Millisecond, monitor.Context{Pattern: "user:*", KeysAffected: 1})
		m.Record(monitor.CategoryInvalidation, time.Millisecond, monitor.Context{Pattern: "session:*", KeysAffected: 5})

		stats := m.Stats()
		require.Equal(t, 3, stats.Invalidation.Count)
		require.NotEmpty(t, stats.Invalidation.TopPatterns)
		require.Equal(t, "user:*", stats.Invalidation.TopPatterns[0].Pattern)
		require.Equal(t, 2, stats.Invalidation.TopPatterns[0].Count)
	})

	t.Run("enforces max measurement count", func(t *testing.T) {
		t.Parallel()

		m := monitor.New(monitor.WithMaxMeasurements(10))
		for range 25 {
			m.Record(monitor.CategoryGet, time.Millisecond, monitor.Context{Hit: true})
		}

		stats := m.Stats()
		require.Equal(t, 10, stats.TotalMeasurements)
	})
}

// --- SlowOperations ---

func TestMonitor_SlowOperations(t *testing.T) {
	t.Parallel()

	t.Run("detects the outlier per category", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		for range 9 {
			m.Record(monitor.CategoryGet, 10*time.Millisecond, monitor.Context{Hit: true})
		}
		m.Record(monitor.CategoryGet, 100*time.Millisecond, monitor.Context{Hit: true})

		slow := m.SlowOperations(2.0)
		require.Len(t, slow[monitor.CategoryGet], 1)
		require.Equal(t, 100*time.Millisecond, slow[monitor.CategoryGet][0].Duration)
	})

	t.Run("baselines are per category", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		// Key generation is cheap; 5ms is an outlier there but normal for sets.
		for range 9 {
			m.Record(monitor.CategoryKeyGeneration, time.Millisecond, monitor.Context{})
		}
		m.Record(monitor.CategoryKeyGeneration, 5*time.Millisecond, monitor.Context{})
		for range 10 {
			m.Record(monitor.CategorySet, 5*time.Millisecond, monitor.Context{})
		}

		slow := m.SlowOperations(2.0)
		require.Len(t, slow[monitor.CategoryKeyGeneration], 1)
		require.Empty(t, slow[monitor.CategorySet])
	})

	t.Run("empty monitor returns empty map", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		require.Empty(t, m.SlowOperations(2.0))
	})
}

// --- MemoryWarnings ---

func TestMonitor_MemoryWarnings(t *testing.T) {
	t.Parallel()

	t.Run("silent when usage is within bounds", func(t *testing.T) {
		t.Parallel()

		m := monitor.New(monitor.WithMemoryThresholds(1000, 2000))
		m.Record(monitor.CategorySet, time.Millisecond, monitor.Context{MemoryBytes: 100})

		require.Empty(t, m.MemoryWarnings())
	})

	t.Run("warning threshold breach", func(t *testing.T) {
		t.Parallel()

		m := monitor.New(monitor.WithMemoryThresholds(1000, 2000))
		m.Record(monitor.CategorySet, time.Millisecond, monitor.Context{MemoryBytes: 1500})

		warnings := m.MemoryWarnings()
		require.Len(t, warnings, 1)
		require.Equal(t, monitor.SeverityWarning, warnings[0].Severity)
	})

	t.Run("critical breach sorts first", func(t *testing.T) {
		t.Parallel()

		m := monitor.New(monitor.WithMemoryThresholds(1000, 2000))
		m.Record(monitor.CategorySet, time.Millisecond, monitor.Context{MemoryBytes: 2500})

		warnings := m.MemoryWarnings()
		require.NotEmpty(t, warnings)
		require.Equal(t, monitor.SeverityCritical, warnings[0].Severity)
	})
}

// --- InvalidationRecommendations ---

func TestMonitor_InvalidationRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("silent on a quiet system", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		m.Record(monitor.CategoryInvalidation, time.Millisecond, monitor.Context{Pattern: "user:1:*"})

		require.Empty(t, m.InvalidationRecommendations())
	})

	t.Run("flags full-cache patterns", func(t *testing.T) {
		t.Parallel()

		m := monitor.New(monitor.WithInvalidationRateWarning(1e9))
		m.Record(monitor.CategoryInvalidation, time.Millisecond, monitor.Context{Pattern: "*"})

		recs := m.InvalidationRecommendations()
		require.NotEmpty(t, recs)
		require.Equal(t, "*", recs[0].Pattern)
	})
}

// --- Reset / Export ---

func TestMonitor_Reset(t *testing.T) {
	t.Parallel()

	t.Run("clears data but preserves configuration", func(t *testing.T) {
		t.Parallel()

		m := monitor.New(monitor.WithMemoryThresholds(1000, 2000), monitor.WithMaxMeasurements(5))
		m.Record(monitor.CategoryGet, time.Millisecond, monitor.Context{Hit: true})
		m.Reset()

		require.Zero(t, m.Stats().TotalMeasurements)

		dump := m.Export()
		require.Equal(t, int64(1000), dump.WarningBytes)
		require.Equal(t, 5, dump.MaxMeasurements)
	})
}

func TestMonitor_Export(t *testing.T) {
	t.Parallel()

	t.Run("returns a copy of measurements", func(t *testing.T) {
		t.Parallel()

		m := monitor.New()
		m.Record(monitor.CategoryGet, time.Millisecond, monitor.Context{Hit: true})

		dump := m.Export()
		require.Len(t, dump.Measurements, 1)

		// Mutating the export must not affect the monitor.
		dump.Measurements[0].Category = monitor.CategoryDelete
		require.Equal(t, 1, m.Stats().Hits)
	})
}

// --- Concurrency ---

func TestMonitor_ConcurrentRecord(t *testing.T) {
	t.Parallel()

	m := monitor.New(monitor.WithMaxMeasurements(100000))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				m.Record(monitor.CategoryGet, time.Millisecond, monitor.Context{Hit: true})
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1000, m.Stats().TotalMeasurements)
}
