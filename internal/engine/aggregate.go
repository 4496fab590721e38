package engine

import (
	"sort"
	"time"

	"github.com/agencyops/occurrence-engine/internal/models"
)

// CountBy groups occurrences by an arbitrary key in encounter order. Blank
// keys are skipped. The input slice is never mutated.
func CountBy(occs []models.Occurrence, keyOf func(models.Occurrence) string) []models.CountRow {
	index := make(map[string]int, len(occs))
	rows := make([]models.CountRow, 0)
	for _, occ := range occs {
		key := keyOf(occ)
		if key == "" {
			continue
		}
		if i, seen := index[key]; seen {
			rows[i].Count++
			continue
		}
		index[key] = len(rows)
		rows = append(rows, models.CountRow{Key: key, Count: 1})
	}
	return rows
}

// CountByStatus groups by lifecycle state.
func CountByStatus(occs []models.Occurrence) []models.CountRow {
	return CountBy(occs, func(o models.Occurrence) string { return string(o.Status) })
}

// CountBySeverity groups by severity.
func CountBySeverity(occs []models.Occurrence) []models.CountRow {
	return CountBy(occs, func(o models.Occurrence) string { return string(o.Severity) })
}

// CountByEquipment groups by equipment type.
func CountByEquipment(occs []models.Occurrence) []models.CountRow {
	return CountBy(occs, func(o models.Occurrence) string { return o.Equipment })
}

// CountByVendor groups by responsible vendor.
func CountByVendor(occs []models.Occurrence) []models.CountRow {
	return CountBy(occs, func(o models.Occurrence) string { return o.Vendor })
}

// CountByAgency groups by location.
func CountByAgency(occs []models.Occurrence) []models.CountRow {
	return CountBy(occs, func(o models.Occurrence) string { return o.Agency })
}

// TopN returns the n highest-count rows. Ties keep their original encounter
// order so repeated recomputations are deterministic.
func TopN(rows []models.CountRow, n int) []models.CountRow {
	sorted := append([]models.CountRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// DailySeries buckets occurrences by calendar day over the trailing window
// ending today. Days without occurrences still appear with zero counts so
// chart axes stay continuous.
func DailySeries(occs []models.Occurrence, now time.Time, days int) []models.TimeSeriesRow {
	if days <= 0 {
		return []models.TimeSeriesRow{}
	}

	first := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))
	rows := make([]models.TimeSeriesRow, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i)
		rows[i] = models.TimeSeriesRow{Date: date, BySeverity: make(map[models.Severity]int)}
		index[date.Format("2006-01-02")] = i
	}

	for _, occ := range occs {
		if !occ.HasValidCreatedAt() {
			continue
		}
		day := occ.CreatedAt.In(now.Location()).Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			continue
		}
		rows[i].Total++
		rows[i].BySeverity[occ.Severity]++
	}
	return rows
}

// AgingTable distributes active occurrences over the fixed aging ranges,
// splitting each bucket by whether the promised resolution would land inside
// the SLA deadline. Records without a valid timestamp are excluded here and
// show up in the data-quality tally instead.
func AgingTable(occs []models.Occurrence, now time.Time) []models.AgingTableRow {
	ranges := AgingRanges()
	rows := make([]models.AgingTableRow, len(ranges))
	index := make(map[string]int, len(ranges))
	for i, r := range ranges {
		rows[i] = models.AgingTableRow{Range: r.Label, Category: r.Category}
		index[r.Label] = i
	}

	for _, occ := range occs {
		if !occ.IsActive() || !occ.HasValidCreatedAt() {
			continue
		}
		bucket := BucketFor(now.Sub(occ.CreatedAt).Hours())
		i := index[bucket.Label]
		rows[i].Total++

		info, _ := ClassifySLA(occ, now)
		switch {
		case !occ.HasForecast():
			rows[i].NoForecast++
		case occ.ForecastClosure.After(info.Deadline):
			rows[i].ForecastBeyondSLA++
		default:
			rows[i].ForecastWithinSLA++
		}
	}
	return rows
}

// ActiveElapsedHours collects the elapsed hours of active occurrences with
// valid timestamps, the input to SummarizeAging.
func ActiveElapsedHours(occs []models.Occurrence, now time.Time) []float64 {
	out := make([]float64, 0, len(occs))
	for _, occ := range occs {
		if !occ.IsActive() || !occ.HasValidCreatedAt() {
			continue
		}
		out = append(out, now.Sub(occ.CreatedAt).Hours())
	}
	return out
}

// Summarize computes the dashboard card counters for a filtered subset. The
// reincident counter uses the loose rule against the evaluator's full
// population, not the filtered view.
func Summarize(filtered []models.Occurrence, ev *Evaluator, now time.Time) models.SummaryCounters {
	counters := models.SummaryCounters{Total: len(filtered)}
	agencies := make(map[string]struct{})

	for _, occ := range filtered {
		if occ.IsOpen() {
			counters.Pending++
		}
		if occ.Severity == models.SeverityCritical {
			counters.CriticalSeverity++
		}
		if info, ok := ClassifySLA(occ, now); ok {
			switch info.Status {
			case models.SLABreached:
				counters.Breached++
			case models.SLADueToday:
				counters.DueToday++
			}
		}
		if occ.HasValidCreatedAt() && sameCalendarDay(occ.CreatedAt, now) {
			counters.CreatedToday++
		}
		if !occ.HasValidCreatedAt() {
			counters.InvalidTimestamps++
		}
		if ev != nil && ev.IsLooseReincident(occ.ID) {
			counters.Reincident++
		}
		if occ.Agency != "" {
			agencies[occ.Agency] = struct{}{}
		}
	}
	counters.AffectedAgencies = len(agencies)
	return counters
}
