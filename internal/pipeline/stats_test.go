package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestRenderStatsSnapshotPercentiles(t *testing.T) {
	stats := NewRenderStats(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, nil)
	}

	snap := stats.Snapshot()
	if snap.Renders != 5 {
		t.Fatalf("expected renders=5, got %d", snap.Renders)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"min", snap.MinMs, 100},
		{"max", snap.MaxMs, 500},
		{"avg", snap.AvgMs, 300},
		{"p50", snap.P50Ms, 300},
		{"p95", snap.P95Ms, 480},
		{"p99", snap.P99Ms, 496},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("expected %s=%v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestRenderStatsFailuresExcludedFromLatency(t *testing.T) {
	stats := NewRenderStats(time.Hour)
	stats.Record(10*time.Millisecond, nil)
	stats.Record(time.Second, errors.New("parse: bad input"))

	snap := stats.Snapshot()
	if snap.Renders != 1 || snap.Failures != 1 {
		t.Fatalf("expected 1 render and 1 failure, got %+v", snap)
	}
	if snap.MaxMs != 10 {
		t.Errorf("expected max=10, got %v", snap.MaxMs)
	}
}

func TestRenderStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewRenderStats(10 * time.Millisecond)
	stats.Record(100*time.Millisecond, nil)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Renders != 0 {
		t.Fatalf("expected renders=0 after prune, got %d", snap.Renders)
	}

	stats.Record(200*time.Millisecond, nil)
	snap := stats.Snapshot()
	if snap.Renders != 1 {
		t.Fatalf("expected renders=1 for fresh sample, got %d", snap.Renders)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%v max=%v", snap.MinMs, snap.MaxMs)
	}
}

func TestRenderStatsClampsNegativeDuration(t *testing.T) {
	stats := NewRenderStats(time.Hour)
	stats.Record(-10*time.Millisecond, nil)
	snap := stats.Snapshot()
	if snap.Renders != 1 {
		t.Fatalf("expected renders=1, got %d", snap.Renders)
	}
	if snap.MinMs != 0 {
		t.Fatalf("expected clamped duration=0, got %v", snap.MinMs)
	}
}

func TestRenderStatsEmpty(t *testing.T) {
	if snap := NewRenderStats(0).Snapshot(); snap != (StatsSnapshot{}) {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}
