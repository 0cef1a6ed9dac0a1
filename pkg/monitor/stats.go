package monitor

import (
	"slices"
	"sort"
	"time"
)

// CategoryStats aggregates durations for one operation category.
type CategoryStats struct {
	Count          int           `json:"count"`
	AvgDuration    time.Duration `json:"avg_duration"`
	MedianDuration time.Duration `json:"median_duration"`
}

// CompressionStats aggregates compression measurements.
type CompressionStats struct {
	Count      int     `json:"count"`
	AvgRatio   float64 `json:"avg_ratio"`
	BytesSaved int64   `json:"bytes_saved"`
}

// MemoryStats reports current memory-tier pressure and a linear growth
// projection toward the configured thresholds.
type MemoryStats struct {
	CurrentBytes  int64   `json:"current_bytes"`
	WarningBytes  int64   `json:"warning_bytes"`
	CriticalBytes int64   `json:"critical_bytes"`
	GrowthPerHour float64 `json:"growth_bytes_per_hour"`

	// HoursToWarning and HoursToCritical are 0 when usage is not growing
	// or the threshold is already exceeded.
	HoursToWarning  float64 `json:"hours_to_warning"`
	HoursToCritical float64 `json:"hours_to_critical"`
}

// PatternCount is one invalidation pattern with its occurrence count.
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// InvalidationStats aggregates invalidation measurements.
type InvalidationStats struct {
	Count         int            `json:"count"`
	EventsPerHour float64        `json:"events_per_hour"`
	TopPatterns   []PatternCount `json:"top_patterns"`
}

// Stats is the aggregate snapshot returned by Monitor.Stats.
type Stats struct {
	TotalMeasurements int                        `json:"total_measurements"`
	Hits              int                        `json:"hits"`
	Misses            int                        `json:"misses"`
	HitRate           float64                    `json:"hit_rate"`
	Categories        map[Category]CategoryStats `json:"categories"`
	Compression       CompressionStats           `json:"compression"`
	Memory            MemoryStats                `json:"memory"`
	Invalidation      InvalidationStats          `json:"invalidation"`
}

// Stats purges expired measurements and computes an aggregate snapshot.
// On an empty monitor it returns zero rates and empty maps, never an error.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.purgeLocked(now)

	s := Stats{
		TotalMeasurements: len(m.measurements),
		Categories:        make(map[Category]CategoryStats),
	}

	durations := make(map[Category][]time.Duration)
	var ratioSum float64
	var patterns []string
	var firstInval, lastInval time.Time

	for _, meas := range m.measurements {
		durations[meas.Category] = append(durations[meas.Category], meas.Duration)

		switch meas.Category {
		case CategoryGet:
			if meas.Context.Hit {
				s.Hits++
			} else {
				s.Misses++
			}
		case CategoryCompression:
			if r := meas.Context.Ratio(); r > 0 {
				s.Compression.Count++
				ratioSum += r
				s.Compression.BytesSaved += int64(meas.Context.OriginalBytes - meas.Context.CompressedBytes)
			}
		case CategoryInvalidation:
			if meas.Context.Pattern != "" {
				patterns = append(patterns, meas.Context.Pattern)
			}
			if firstInval.IsZero() {
				firstInval = meas.Timestamp
			}
			lastInval = meas.Timestamp
			s.Invalidation.Count++
		}
	}

	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	if s.Compression.Count > 0 {
		s.Compression.AvgRatio = ratioSum / float64(s.Compression.Count)
	}

	for cat, ds := range durations {
		s.Categories[cat] = CategoryStats{
			Count:          len(ds),
			AvgDuration:    avgDuration(ds),
			MedianDuration: medianDuration(ds),
		}
	}

	s.Invalidation.TopPatterns = topPatterns(patterns, 5)
	s.Invalidation.EventsPerHour = eventsPerHour(s.Invalidation.Count, firstInval, lastInval, now)

	s.Memory = m.memoryStatsLocked()

	return s
}

// Severity orders warnings and recommendations; critical items sort first.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Warning is one memory-pressure finding.
type Warning struct {
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	CurrentBytes int64    `json:"current_bytes"`
	Threshold    int64    `json:"threshold"`
}

// MemoryWarnings reports threshold breaches and near-term projected breaches,
// critical findings first. A healthy system produces no warnings.
func (m *Monitor) MemoryWarnings() []Warning {
	m.mu.Lock()
	ms := m.memoryStatsLocked()
	m.mu.Unlock()

	var warnings []Warning

	switch {
	case ms.CurrentBytes >= ms.CriticalBytes:
		warnings = append(warnings, Warning{
			Severity:     SeverityCritical,
			Message:      "memory usage exceeds critical threshold",
			CurrentBytes: ms.CurrentBytes,
			Threshold:    ms.CriticalBytes,
		})
	case ms.CurrentBytes >= ms.WarningBytes:
		warnings = append(warnings, Warning{
			Severity:     SeverityWarning,
			Message:      "memory usage exceeds warning threshold",
			CurrentBytes: ms.CurrentBytes,
			Threshold:    ms.WarningBytes,
		})
	}

	// Projected breach within an hour is worth surfacing even when the
	// current value is still below both thresholds.
	if ms.CurrentBytes < ms.WarningBytes && ms.HoursToWarning > 0 && ms.HoursToWarning <= 1 {
		warnings = append(warnings, Warning{
			Severity:     SeverityWarning,
			Message:      "memory usage projected to reach warning threshold within an hour",
			CurrentBytes: ms.CurrentBytes,
			Threshold:    ms.WarningBytes,
		})
	}

	slices.SortStableFunc(warnings, func(a, b Warning) int {
		return severityRank(a.Severity) - severityRank(b.Severity)
	})

	return warnings
}

// Recommendation is one invalidation-pattern finding.
type Recommendation struct {
	Severity Severity `json:"severity"`
	Pattern  string   `json:"pattern,omitempty"`
	Message  string   `json:"message"`
}

// InvalidationRecommendations analyzes invalidation frequency and pattern
// breadth, critical findings first. Quiet on healthy systems.
func (m *Monitor) InvalidationRecommendations() []Recommendation {
	s := m.Stats()

	var recs []Recommendation

	if s.Invalidation.EventsPerHour > m.opts.invalidationsPerHourWarn*2 {
		recs = append(recs, Recommendation{
			Severity: SeverityCritical,
			Message:  "invalidation rate is more than twice the configured warning rate; consider longer TTLs or narrower patterns",
		})
	} else if s.Invalidation.EventsPerHour > m.opts.invalidationsPerHourWarn {
		recs = append(recs, Recommendation{
			Severity: SeverityWarning,
			Message:  "invalidation rate exceeds the configured warning rate",
		})
	}

	for _, pc := range s.Invalidation.TopPatterns {
		if pc.Pattern == "*" || pc.Pattern == "**" {
			recs = append(recs, Recommendation{
				Severity: SeverityWarning,
				Pattern:  pc.Pattern,
				Message:  "full-cache invalidation pattern in use; prefer key-prefix patterns",
			})
		}
	}

	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return severityRank(a.Severity) - severityRank(b.Severity)
	})

	return recs
}

// SlowOperation is one measurement that exceeded its category baseline.
type SlowOperation struct {
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Context   Context       `json:"context"`
}

// SlowOperations returns, per category, the measurements whose duration
// exceeds thresholdMultiplier times that category's mean duration. The
// baseline is per-category: key generation and remote writes have very
// different inherent costs.
func (m *Monitor) SlowOperations(thresholdMultiplier float64) map[Category][]SlowOperation {
	if thresholdMultiplier <= 0 {
		thresholdMultiplier = 2.0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeLocked(time.Now())

	byCategory := make(map[Category][]Measurement)
	for _, meas := range m.measurements {
		byCategory[meas.Category] = append(byCategory[meas.Category], meas)
	}

	result := make(map[Category][]SlowOperation)
	for cat, ms := range byCategory {
		ds := make([]time.Duration, len(ms))
		for i, meas := range ms {
			ds[i] = meas.Duration
		}
		threshold := time.Duration(float64(avgDuration(ds)) * thresholdMultiplier)

		for _, meas := range ms {
			if meas.Duration > threshold {
				result[cat] = append(result[cat], SlowOperation{
					Duration:  meas.Duration,
					Timestamp: meas.Timestamp,
					Context:   meas.Context,
				})
			}
		}
	}

	return result
}

// memoryStatsLocked computes memory pressure from the sample series.
// Caller must hold the mutex.
func (m *Monitor) memoryStatsLocked() MemoryStats {
	ms := MemoryStats{
		WarningBytes:  m.opts.memoryWarningBytes,
		CriticalBytes: m.opts.memoryCriticalBytes,
	}

	if len(m.memSamples) == 0 {
		return ms
	}

	first := m.memSamples[0]
	last := m.memSamples[len(m.memSamples)-1]
	ms.CurrentBytes = last.bytes

	elapsed := last.at.Sub(first.at).Hours()
	if elapsed > 0 {
		ms.GrowthPerHour = float64(last.bytes-first.bytes) / elapsed
	}

	if ms.GrowthPerHour > 0 {
		if ms.CurrentBytes < ms.WarningBytes {
			ms.HoursToWarning = float64(ms.WarningBytes-ms.CurrentBytes) / ms.GrowthPerHour
		}
		if ms.CurrentBytes < ms.CriticalBytes {
			ms.HoursToCritical = float64(ms.CriticalBytes-ms.CurrentBytes) / ms.GrowthPerHour
		}
	}

	return ms
}

func avgDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

func medianDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	sorted := slices.Clone(ds)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func topPatterns(patterns []string, limit int) []PatternCount {
	if len(patterns) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, p := range patterns {
		counts[p]++
	}

	result := make([]PatternCount, 0, len(counts))
	for p, n := range counts {
		result = append(result, PatternCount{Pattern: p, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Pattern < result[j].Pattern
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func eventsPerHour(count int, first, last, now time.Time) float64 {
	if count == 0 || first.IsZero() {
		return 0
	}

	span := last.Sub(first).Hours()
	if span < 1.0/60 {
		// Too short a window to extrapolate a meaningful hourly rate;
		// fall back to the window since the first event.
		span = now.Sub(first).Hours()
	}
	if span <= 0 {
		return float64(count)
	}
	return float64(count) / span
}
