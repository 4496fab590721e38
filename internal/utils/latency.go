package utils

import (
	"sort"
	"sync"
	"time"
)

// LatencyTracker holds a bounded ring of recent duration samples for cheap
// percentile estimates of view recomputation cost. Once the ring is full each
// new sample evicts the oldest one.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	next    int
	full    bool
}

// NewLatencyTracker creates a tracker bounded to size samples.
func NewLatencyTracker(size int) *LatencyTracker {
	if size <= 0 {
		size = 512
	}
	return &LatencyTracker{samples: make([]time.Duration, size)}
}

// Observe records one duration.
func (l *LatencyTracker) Observe(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.samples[l.next] = d
	l.next++
	if l.next == len(l.samples) {
		l.next = 0
		l.full = true
	}
}

// Count returns the number of samples currently held.
func (l *LatencyTracker) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held()
}

// Percentile returns the duration at percentile p (0-100) over the held
// samples, using the floor-index convention. Zero when no samples exist.
func (l *LatencyTracker) Percentile(p float64) time.Duration {
	l.mu.Lock()
	n := l.held()
	sorted := make([]time.Duration, n)
	copy(sorted, l.samples[:n])
	l.mu.Unlock()

	if n == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	switch {
	case p <= 0:
		return sorted[0]
	case p >= 100:
		return sorted[n-1]
	}
	return sorted[int(p/100*float64(n-1))]
}

func (l *LatencyTracker) held() int {
	if l.full {
		return len(l.samples)
	}
	return l.next
}
