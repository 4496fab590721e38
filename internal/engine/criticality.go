package engine

import (
	"sort"
	"time"

	"github.com/agencyops/occurrence-engine/internal/baselines"
	"github.com/agencyops/occurrence-engine/internal/models"
)

const trailingVolumeWindow = 30 * 24 * time.Hour

// ScoreGroups produces one criticality row per (equipment, segment) pair in
// the supplied occurrences, sorted by score descending with a stable
// tie-break on encounter order. Each of the four sub-scores is clamped to
// [0,25] before summing and the total to [0,100], so every row satisfies
// 0 <= score <= 100 by construction.
func ScoreGroups(occs []models.Occurrence, table baselines.Table, now time.Time) []models.CriticalityRow {
	type groupKey struct {
		equipment string
		segment   models.Segment
	}

	order := make([]groupKey, 0)
	groups := make(map[groupKey][]models.Occurrence)
	for _, occ := range occs {
		key := groupKey{equipment: occ.Equipment, segment: occ.Segment}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], occ)
	}

	rows := make([]models.CriticalityRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, scoreGroup(key.equipment, key.segment, groups[key], table.Lookup(key.equipment), now))
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	return rows
}

func scoreGroup(equipment string, segment models.Segment, group []models.Occurrence, baseline baselines.Baseline, now time.Time) models.CriticalityRow {
	row := models.CriticalityRow{
		Equipment: equipment,
		Segment:   segment,
		Total:     len(group),
	}

	row.AvgAgingDays = averageAgingDays(group, now)
	trailing := trailingWindowSet(group, now)
	row.Trailing30dCount = len(trailing)
	row.SLABreachPct = slaBreachPct(group, now)
	row.ReincidencePct = repeatedReasonPct(trailing)

	if baseline.AgingDays > 0 {
		row.AgingScore = clamp((row.AvgAgingDays-baseline.AgingDays)/baseline.AgingDays*100*0.25, 0, 25)
	}
	if baseline.VolumeCount > 0 {
		row.VolumePctOfBaseline = float64(row.Trailing30dCount) / baseline.VolumeCount * 100
		row.VolumeScore = clamp((row.VolumePctOfBaseline-100)*0.10, 0, 25)
	}
	row.ReincidenceScore = clamp(row.ReincidencePct*0.25, 0, 25)
	row.SLAScore = clamp((row.SLABreachPct-baseline.SLABreachPct)*0.5, 0, 25)

	row.Score = clamp(row.AgingScore+row.VolumeScore+row.ReincidenceScore+row.SLAScore, 0, 100)
	row.VolumeAnomaly = row.VolumePctOfBaseline > 200
	row.SLADirection = slaDirection(row.SLABreachPct - baseline.SLABreachPct)
	return row
}

// averageAgingDays covers open occurrences with valid timestamps; aging is
// only defined while work remains open.
func averageAgingDays(group []models.Occurrence, now time.Time) float64 {
	sum := 0.0
	count := 0
	for _, occ := range group {
		if !occ.IsOpen() || !occ.HasValidCreatedAt() {
			continue
		}
		sum += now.Sub(occ.CreatedAt).Hours() / 24
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func trailingWindowSet(group []models.Occurrence, now time.Time) []models.Occurrence {
	out := make([]models.Occurrence, 0, len(group))
	cutoff := now.Add(-trailingVolumeWindow)
	for _, occ := range group {
		if !occ.HasValidCreatedAt() {
			continue
		}
		if occ.CreatedAt.Before(cutoff) || occ.CreatedAt.After(now) {
			continue
		}
		out = append(out, occ)
	}
	return out
}

func slaBreachPct(group []models.Occurrence, now time.Time) float64 {
	valid := 0
	breached := 0
	for _, occ := range group {
		if !occ.HasValidCreatedAt() {
			continue
		}
		valid++
		if IsBreachedForScoring(occ, now) {
			breached++
		}
	}
	if valid == 0 {
		return 0
	}
	return float64(breached) / float64(valid) * 100
}

// repeatedReasonPct is the share of the trailing-window set whose reason code
// shows up more than once inside that same set.
func repeatedReasonPct(trailing []models.Occurrence) float64 {
	if len(trailing) == 0 {
		return 0
	}
	counts := make(map[string]int, len(trailing))
	for _, occ := range trailing {
		counts[occ.ReasonOrDefault()]++
	}
	repeated := 0
	for _, occ := range trailing {
		if counts[occ.ReasonOrDefault()] > 1 {
			repeated++
		}
	}
	return float64(repeated) / float64(len(trailing)) * 100
}

func slaDirection(deltaPct float64) models.SLADirection {
	switch {
	case deltaPct > 5:
		return models.SLAAboveBaseline
	case deltaPct < -5:
		return models.SLABelowBaseline
	default:
		return models.SLANormal
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
