package cache

import (
	"time"

	"github.com/dmitrymomot/cachekit/pkg/monitor"
)

// MemoryOption configures the in-memory cache.
type MemoryOption[V any] func(*memoryOptions[V])

type memoryOptions[V any] struct {
	recorder        monitor.Recorder
	sizer           func(V) int
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

func defaultMemoryOptions[V any]() *memoryOptions[V] {
	return &memoryOptions[V]{
		recorder:        monitor.NopRecorder{},
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
		maxEntries:      0, // 0 = unlimited
	}
}

// WithDefaultTTL sets the default expiration for cache entries when
// Set is called with a zero TTL.
// Default: 1 hour.
func WithDefaultTTL[V any](d time.Duration) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often expired entries are removed
// by the background janitor goroutine. Zero disables the janitor;
// expired entries are then dropped lazily on access.
// Default: 1 minute.
func WithCleanupInterval[V any](d time.Duration) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries sets the maximum number of entries in the cache.
// When the limit is reached, the least recently used entry is evicted.
// Zero means unlimited.
// Default: 0 (unlimited).
func WithMaxEntries[V any](n int) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		o.maxEntries = n
	}
}

// WithMemoryRecorder sets the performance recorder that receives get, set,
// delete, and invalidation measurements.
// Default: no-op.
func WithMemoryRecorder[V any](r monitor.Recorder) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithSizer sets the function used to estimate a stored value's size in
// bytes, feeding the recorder's memory-pressure series.
// Default: none (sizes report as zero).
func WithSizer[V any](fn func(V) int) MemoryOption[V] {
	return func(o *memoryOptions[V]) {
		o.sizer = fn
	}
}
