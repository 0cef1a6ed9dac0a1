package monitor

import "time"

// Option configures the monitor.
type Option func(*options)

type options struct {
	retention                time.Duration
	maxMeasurements          int
	maxMemorySamples         int
	memoryWarningBytes       int64
	memoryCriticalBytes      int64
	invalidationsPerHourWarn float64
}

func defaultOptions() *options {
	return &options{
		retention:                24 * time.Hour,
		maxMeasurements:          10000,
		maxMemorySamples:         240,
		memoryWarningBytes:       64 << 20,  // 64 MiB
		memoryCriticalBytes:      128 << 20, // 128 MiB
		invalidationsPerHourWarn: 60,
	}
}

// WithRetention sets how long measurements are kept before the lazy purge
// drops them.
// Default: 24 hours.
func WithRetention(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.retention = d
		}
	}
}

// WithMaxMeasurements caps the number of retained measurements. The oldest
// measurements are dropped first.
// Default: 10000.
func WithMaxMeasurements(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMeasurements = n
		}
	}
}

// WithMemoryThresholds sets the warning and critical memory-usage thresholds
// used by Stats and MemoryWarnings.
// Default: 64 MiB warning, 128 MiB critical.
func WithMemoryThresholds(warning, critical int64) Option {
	return func(o *options) {
		if warning > 0 {
			o.memoryWarningBytes = warning
		}
		if critical > warning {
			o.memoryCriticalBytes = critical
		}
	}
}

// WithInvalidationRateWarning sets the invalidation events-per-hour rate
// above which recommendations start firing.
// Default: 60 events/hour.
func WithInvalidationRateWarning(perHour float64) Option {
	return func(o *options) {
		if perHour > 0 {
			o.invalidationsPerHourWarn = perHour
		}
	}
}
