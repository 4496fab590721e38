package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels successful view recomputations.
	OutcomeSuccess = "success"
	// OutcomeError labels failed recomputations (source or cache issues).
	OutcomeError = "error"
)

var (
	recomputesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "occurrence_engine",
			Name:      "recomputes_total",
			Help:      "Total number of derived-view recomputations, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	recomputeDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "occurrence_engine",
			Name:      "recompute_seconds",
			Help:      "Derived-view recomputation latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	snapshotOccurrences = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "occurrence_engine",
			Name:      "snapshot_occurrences",
			Help:      "Number of occurrences in the current data snapshot.",
		},
	)

	snapshotInvalidTimestamps = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "occurrence_engine",
			Name:      "snapshot_invalid_timestamps",
			Help:      "Occurrences in the current snapshot whose creation timestamp failed to parse.",
		},
	)

	rejectedRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "occurrence_engine",
			Name:      "rejected_records_total",
			Help:      "Wire records dropped for invalid enumeration values.",
		},
	)
)

// Register attaches occurrence-engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		recomputesTotal,
		recomputeDurationSeconds,
		snapshotOccurrences,
		snapshotInvalidTimestamps,
		rejectedRecordsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRecompute records one derived-view recomputation.
func ObserveRecompute(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	recomputesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	recomputeDurationSeconds.Observe(duration.Seconds())
}

// ObserveSnapshot records the size and data quality of a refreshed snapshot.
func ObserveSnapshot(total, invalidTimestamps, rejected int) {
	snapshotOccurrences.Set(float64(total))
	snapshotInvalidTimestamps.Set(float64(invalidTimestamps))
	if rejected > 0 {
		rejectedRecordsTotal.Add(float64(rejected))
	}
}
