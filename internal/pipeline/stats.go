package pipeline

import (
	"slices"
	"sync"
	"time"
)

type renderSample struct {
	at       time.Time
	duration time.Duration
	failed   bool
}

// StatsSnapshot aggregates the renders seen within the stats window.
// Latencies cover successful renders only.
type StatsSnapshot struct {
	Renders  int     `json:"renders"`
	Failures int     `json:"failures"`
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// RenderStats keeps a rolling window of render outcomes.
type RenderStats struct {
	mu      sync.Mutex
	samples []renderSample
	window  time.Duration
}

func NewRenderStats(window time.Duration) *RenderStats {
	if window <= 0 {
		window = time.Hour
	}
	return &RenderStats{
		samples: make([]renderSample, 0, 256),
		window:  window,
	}
}

// Record adds one render outcome.
func (s *RenderStats) Record(d time.Duration, err error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, renderSample{at: now, duration: max(d, 0), failed: err != nil})
}

func (s *RenderStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	var snap StatsSnapshot
	ms := make([]float64, 0, len(s.samples))
	var sum float64
	for _, sm := range s.samples {
		if sm.failed {
			snap.Failures++
			continue
		}
		v := float64(sm.duration) / float64(time.Millisecond)
		ms = append(ms, v)
		sum += v
	}
	snap.Renders = len(ms)
	if len(ms) == 0 {
		return snap
	}
	slices.Sort(ms)

	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = sum / float64(len(ms))
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	snap.P99Ms = percentile(ms, 99)
	return snap
}

func (s *RenderStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm renderSample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return sorted[0]
	case pct >= 100:
		return sorted[len(sorted)-1]
	}
	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
