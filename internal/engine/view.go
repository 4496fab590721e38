// Package engine is the occurrence analytics core: pure computations over an
// occurrence list, a filter state, a baseline table, and an injected current
// time. Nothing in this package reads a clock, logs, or performs I/O, so
// every result is reproducible from its inputs.
package engine

import (
	"time"

	"github.com/agencyops/occurrence-engine/internal/baselines"
	"github.com/agencyops/occurrence-engine/internal/filters"
	"github.com/agencyops/occurrence-engine/internal/models"
)

const dailySeriesDays = 30

// BuildView recomputes the full dashboard state for one (population, filter)
// snapshot: the filtered subset in original order plus every derived table
// and counter the cards and charts consume. Deterministic given the same
// inputs; callers may memoize the result keyed on those inputs without
// changing observable behaviour.
func BuildView(population []models.Occurrence, criteria filters.Criteria, table baselines.Table, now time.Time) models.DerivedView {
	ev := NewEvaluator(population)
	filtered := ev.Filter(population, criteria, now)

	return models.DerivedView{
		GeneratedAt:  now,
		Filtered:     filtered,
		Counters:     Summarize(filtered, ev, now),
		ByStatus:     CountByStatus(filtered),
		BySeverity:   CountBySeverity(filtered),
		AgingTable:   AgingTable(filtered, now),
		AgingSummary: SummarizeAging(ActiveElapsedHours(filtered, now)),
		Criticality:  ScoreGroups(filtered, table, now),
		TopEquipment: TopN(CountByEquipment(filtered), 5),
		TopVendors:   TopN(CountByVendor(filtered), 5),
		TopAgencies:  TopN(CountByAgency(filtered), 5),
		DailySeries:  DailySeries(filtered, now, dailySeriesDays),
	}
}
