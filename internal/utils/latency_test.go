package utils

import (
	"testing"
	"time"
)

func TestLatencyTrackerPercentile(t *testing.T) {
	tracker := NewLatencyTracker(10)
	for _, d := range []time.Duration{
		10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond,
		40 * time.Millisecond, 50 * time.Millisecond,
	} {
		tracker.Observe(d)
	}

	if tracker.Count() != 5 {
		t.Fatalf("count = %d, want 5", tracker.Count())
	}
	if p95 := tracker.Percentile(95); p95 != 40*time.Millisecond {
		t.Fatalf("p95 = %v, want 40ms with the floor-index convention", p95)
	}
	if p0 := tracker.Percentile(0); p0 != 10*time.Millisecond {
		t.Fatalf("p0 = %v, want 10ms", p0)
	}
	if p100 := tracker.Percentile(100); p100 != 50*time.Millisecond {
		t.Fatalf("p100 = %v, want 50ms", p100)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	tracker := NewLatencyTracker(4)
	if tracker.Count() != 0 {
		t.Fatalf("count = %d, want 0", tracker.Count())
	}
	if p := tracker.Percentile(95); p != 0 {
		t.Fatalf("p95 on empty tracker = %v, want 0", p)
	}
}

func TestLatencyTrackerEvictsOldest(t *testing.T) {
	tracker := NewLatencyTracker(3)
	for i := 0; i < 10; i++ {
		tracker.Observe(time.Duration(i) * time.Millisecond)
	}

	if tracker.Count() != 3 {
		t.Fatalf("count = %d, want 3", tracker.Count())
	}
	// Only the last three observations (7ms, 8ms, 9ms) survive.
	if min := tracker.Percentile(0); min != 7*time.Millisecond {
		t.Fatalf("oldest held = %v, want 7ms", min)
	}
	if max := tracker.Percentile(100); max != 9*time.Millisecond {
		t.Fatalf("newest held = %v, want 9ms", max)
	}
}
