package cache

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/cachekit/pkg/logger"
	"github.com/dmitrymomot/cachekit/pkg/monitor"
)

// TwoTierOption configures the two-tier cache.
type TwoTierOption[V any] func(*twoTierOptions[V])

type twoTierOptions[V any] struct {
	recorder          monitor.Recorder
	logger            *slog.Logger
	sizer             func(V) int
	prefix            string
	defaultTTL        time.Duration
	compressThreshold int
	compressLevel     int
	memoryEntries     int
}

func defaultTwoTierOptions[V any]() *twoTierOptions[V] {
	return &twoTierOptions[V]{
		recorder:          monitor.NopRecorder{},
		logger:            logger.NewNope(),
		defaultTTL:        time.Hour,
		compressThreshold: 4096,
		compressLevel:     6,
		memoryEntries:     5000,
	}
}

// WithTwoTierDefaultTTL sets the default expiration applied when Set is
// called with a zero TTL.
// Default: 1 hour.
func WithTwoTierDefaultTTL[V any](d time.Duration) TwoTierOption[V] {
	return func(o *twoTierOptions[V]) {
		o.defaultTTL = d
	}
}

// WithTwoTierPrefix sets a key prefix for remote operations. Keys are
// stored as "{prefix}:{key}", namespacing caches that share one Redis
// instance.
func WithTwoTierPrefix[V any](prefix string) TwoTierOption[V] {
	return func(o *twoTierOptions[V]) {
		o.prefix = prefix
	}
}

// WithTwoTierCompression sets the size threshold (bytes) above which remote
// payloads are compressed, and the gzip level.
// Default: 4096 bytes, level 6.
func WithTwoTierCompression[V any](thresholdBytes, level int) TwoTierOption[V] {
	return func(o *twoTierOptions[V]) {
		if thresholdBytes > 0 {
			o.compressThreshold = thresholdBytes
		}
		if level >= 1 && level <= 9 {
			o.compressLevel = level
		}
	}
}

// WithTwoTierMemoryEntries bounds the memory tier's entry count.
// Default: 5000.
func WithTwoTierMemoryEntries[V any](n int) TwoTierOption[V] {
	return func(o *twoTierOptions[V]) {
		if n > 0 {
			o.memoryEntries = n
		}
	}
}

// WithTwoTierRecorder sets the performance recorder for all operations.
// Default: no-op.
func WithTwoTierRecorder[V any](r monitor.Recorder) TwoTierOption[V] {
	return func(o *twoTierOptions[V]) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithTwoTierLogger sets the logger for degraded-operation warnings.
// Default: discard.
func WithTwoTierLogger[V any](l *slog.Logger) TwoTierOption[V] {
	return func(o *twoTierOptions[V]) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTwoTierSizer sets the function estimating a memory-tier value's size
// in bytes for memory-pressure reporting.
// Default: none.
func WithTwoTierSizer[V any](fn func(V) int) TwoTierOption[V] {
	return func(o *twoTierOptions[V]) {
		o.sizer = fn
	}
}
