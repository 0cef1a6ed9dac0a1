package monitor

import (
	"slices"
	"sync"
	"time"
)

// Category identifies the kind of cache operation a measurement belongs to.
type Category string

const (
	CategoryKeyGeneration Category = "key_generation"
	CategoryGet           Category = "get"
	CategorySet           Category = "set"
	CategoryDelete        Category = "delete"
	CategoryCompression   Category = "compression"
	CategoryInvalidation  Category = "invalidation"
)

// Context carries category-specific details for a single measurement.
// Only the fields relevant to the category need to be set.
type Context struct {
	// Pattern is the glob pattern for invalidation measurements.
	Pattern string

	// TextLength is the input size for key-generation measurements.
	TextLength int

	// OriginalBytes and CompressedBytes describe a compression measurement.
	OriginalBytes   int
	CompressedBytes int

	// KeysAffected is the number of keys removed by an invalidation.
	KeysAffected int

	// MemoryBytes is the reporting cache's current memory-tier footprint.
	MemoryBytes int64

	// Hit marks a get measurement as a cache hit.
	Hit bool

	// Failed marks the operation as unsuccessful (e.g. a remote write error).
	Failed bool
}

// Ratio returns the compression ratio (original / compressed), or 0 when
// the measurement carries no compression data.
func (c Context) Ratio() float64 {
	if c.OriginalBytes <= 0 || c.CompressedBytes <= 0 {
		return 0
	}
	return float64(c.OriginalBytes) / float64(c.CompressedBytes)
}

// Measurement is one recorded cache operation.
type Measurement struct {
	Timestamp time.Time     `json:"timestamp"`
	Category  Category      `json:"category"`
	Duration  time.Duration `json:"duration"`
	Context   Context       `json:"context"`
}

// Recorder is the capability interface components use to report measurements.
// Inject NopRecorder when telemetry is not needed; callers never branch on nil.
type Recorder interface {
	Record(category Category, duration time.Duration, c Context)
}

// NopRecorder discards all measurements.
type NopRecorder struct{}

func (NopRecorder) Record(Category, time.Duration, Context) {}

// memorySample is one point of the memory-growth time series.
type memorySample struct {
	at    time.Time
	bytes int64
}

// Monitor records cache operation measurements and computes aggregate
// statistics over them. Safe for concurrent use.
//
// Measurements are retained up to the configured retention window or the
// maximum measurement count, whichever bound is hit first; the purge runs
// lazily on each statistics query.
type Monitor struct {
	measurements []Measurement
	memSamples   []memorySample
	opts         *options
	mu           sync.Mutex
}

// New creates a performance monitor.
//
// Example:
//
//	m := monitor.New(
//	    monitor.WithRetention(6 * time.Hour),
//	    monitor.WithMaxMeasurements(50000),
//	    monitor.WithMemoryThresholds(64<<20, 128<<20),
//	)
func New(opts ...Option) *Monitor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Monitor{opts: o}
}

// Record stores one measurement. Safe for concurrent use from many
// operation call-sites.
func (m *Monitor) Record(category Category, duration time.Duration, c Context) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.measurements = append(m.measurements, Measurement{
		Category:  category,
		Duration:  duration,
		Timestamp: now,
		Context:   c,
	})

	if c.MemoryBytes > 0 {
		m.memSamples = append(m.memSamples, memorySample{at: now, bytes: c.MemoryBytes})
		if len(m.memSamples) > m.opts.maxMemorySamples {
			m.memSamples = slices.Delete(m.memSamples, 0, len(m.memSamples)-m.opts.maxMemorySamples)
		}
	}

	// Hard cap so an idle-stats workload cannot grow unbounded between queries.
	if len(m.measurements) > m.opts.maxMeasurements {
		m.measurements = slices.Delete(m.measurements, 0, len(m.measurements)-m.opts.maxMeasurements)
	}
}

// Reset clears all measurements and memory samples. Configured thresholds
// and retention limits are preserved: configuration and data have
// independent lifecycles.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.measurements = nil
	m.memSamples = nil
}

// Export returns a deep copy of all retained measurements together with the
// monitor's configured limits. The result is JSON-marshalable.
func (m *Monitor) Export() Export {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeLocked(time.Now())

	return Export{
		Measurements:    slices.Clone(m.measurements),
		Retention:       m.opts.retention,
		MaxMeasurements: m.opts.maxMeasurements,
		WarningBytes:    m.opts.memoryWarningBytes,
		CriticalBytes:   m.opts.memoryCriticalBytes,
	}
}

// Export is a full raw dump of the monitor's state.
type Export struct {
	Measurements    []Measurement `json:"measurements"`
	Retention       time.Duration `json:"retention"`
	MaxMeasurements int           `json:"max_measurements"`
	WarningBytes    int64         `json:"memory_warning_bytes"`
	CriticalBytes   int64         `json:"memory_critical_bytes"`
}

// purgeLocked drops measurements older than the retention window and trims
// to the maximum count. Caller must hold the mutex.
func (m *Monitor) purgeLocked(now time.Time) {
	cutoff := now.Add(-m.opts.retention)

	i := 0
	for i < len(m.measurements) && m.measurements[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		m.measurements = slices.Delete(m.measurements, 0, i)
	}

	if len(m.measurements) > m.opts.maxMeasurements {
		m.measurements = slices.Delete(m.measurements, 0, len(m.measurements)-m.opts.maxMeasurements)
	}
}

var _ Recorder = (*Monitor)(nil)
var _ Recorder = NopRecorder{}
