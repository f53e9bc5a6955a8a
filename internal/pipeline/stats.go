package pipeline

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs float64
}

// PhaseSnapshot is a point-in-time aggregate of one pipeline phase's
// durations within the rolling window.
type PhaseSnapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Stats tracks per-phase pipeline timings within a rolling window. It is
// passed into the pipeline by injection; there is no global instance.
type Stats struct {
	mu     sync.Mutex
	phases map[string][]sample
	maxAge time.Duration
}

// NewStats creates a collector keeping samples for maxAge (default 1h).
func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		phases: make(map[string][]sample),
		maxAge: maxAge,
	}
}

// Record adds one timing sample for a phase.
func (s *Stats) Record(phase string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(phase, now)
	s.phases[phase] = append(s.phases[phase], sample{
		timestamp:  now,
		durationMs: float64(d) / float64(time.Millisecond),
	})
}

// Snapshot aggregates every phase currently in the window.
func (s *Stats) Snapshot() map[string]PhaseSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]PhaseSnapshot, len(s.phases))
	for phase := range s.phases {
		s.pruneLocked(phase, now)
		samples := s.phases[phase]
		if len(samples) == 0 {
			continue
		}

		values := make([]float64, 0, len(samples))
		var sum float64
		for _, sm := range samples {
			values = append(values, sm.durationMs)
			sum += sm.durationMs
		}
		sort.Float64s(values)

		out[phase] = PhaseSnapshot{
			Count: len(values),
			MinMs: values[0],
			MaxMs: values[len(values)-1],
			AvgMs: sum / float64(len(values)),
			P50Ms: percentile(values, 50),
			P95Ms: percentile(values, 95),
			P99Ms: percentile(values, 99),
		}
	}
	return out
}

func (s *Stats) pruneLocked(phase string, now time.Time) {
	cutoff := now.Add(-s.maxAge)
	samples := s.phases[phase]
	writeIdx := 0
	for _, sm := range samples {
		if !sm.timestamp.Before(cutoff) {
			samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.phases[phase] = samples[:writeIdx]
}

func percentile(sortedValues []float64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return sortedValues[0]
	}
	if pct >= 100 {
		return sortedValues[len(sortedValues)-1]
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return sortedValues[lower]
	}
	weight := index - float64(lower)
	return sortedValues[lower] + (sortedValues[upper]-sortedValues[lower])*weight
}
