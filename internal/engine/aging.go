package engine

import (
	"math"
	"sort"

	"github.com/agencyops/occurrence-engine/internal/models"
)

// AgingRange is one fixed elapsed-time bucket: lower-inclusive,
// upper-exclusive, with the top range open-ended.
type AgingRange struct {
	Label    string
	MinHours float64
	MaxHours float64
	Category models.AgingCategory
}

// agingRanges covers [0, inf) contiguously. The category is display grouping
// only; boundary logic uses the hour bounds.
var agingRanges = []AgingRange{
	{Label: "0-30min", MinHours: 0, MaxHours: 0.5, Category: models.AgingExcellent},
	{Label: "30-60min", MinHours: 0.5, MaxHours: 1, Category: models.AgingExcellent},
	{Label: "1-2h", MinHours: 1, MaxHours: 2, Category: models.AgingAcceptable},
	{Label: "2-4h", MinHours: 2, MaxHours: 4, Category: models.AgingAcceptable},
	{Label: "4-8h", MinHours: 4, MaxHours: 8, Category: models.AgingAcceptable},
	{Label: "8-12h", MinHours: 8, MaxHours: 12, Category: models.AgingNearLimit},
	{Label: "12-24h", MinHours: 12, MaxHours: 24, Category: models.AgingWithinSLA},
	{Label: "24-48h", MinHours: 24, MaxHours: 48, Category: models.AgingAboveSLA},
	{Label: "48-72h", MinHours: 48, MaxHours: 72, Category: models.AgingNeedsAttention},
	{Label: "3-5d", MinHours: 72, MaxHours: 120, Category: models.AgingCritical},
	{Label: ">5d", MinHours: 120, MaxHours: math.Inf(1), Category: models.AgingCritical},
}

// BucketFor maps a non-negative elapsed duration in hours to its aging range.
// Negative values (clock skew upstream) fall into the first bucket.
func BucketFor(elapsedHours float64) AgingRange {
	for _, r := range agingRanges {
		if elapsedHours < r.MaxHours {
			return r
		}
	}
	return agingRanges[len(agingRanges)-1]
}

// AgingRanges returns the ordered bucket definitions.
func AgingRanges() []AgingRange {
	return append([]AgingRange(nil), agingRanges...)
}

// RangeLabels returns the ordered bucket labels. It must stay in step with
// models.AgingRangeLabels, the vocabulary the filter codec validates against.
func RangeLabels() []string {
	labels := make([]string, len(agingRanges))
	for i, r := range agingRanges {
		labels[i] = r.Label
	}
	return labels
}

// SummarizeAging condenses a list of elapsed-hours samples from active
// occurrences. Excellence is the share at or under 8h, critical the share
// over 72h. The median uses the lower-middle convention: the value at the
// floor-indexed 50th percentile of the sorted list.
func SummarizeAging(elapsedHours []float64) models.AgingSummary {
	summary := models.AgingSummary{ActiveCount: len(elapsedHours)}
	if len(elapsedHours) == 0 {
		return summary
	}

	excellent := 0
	critical := 0
	for _, h := range elapsedHours {
		if h <= 8 {
			excellent++
		}
		if h > 72 {
			critical++
		}
	}
	total := float64(len(elapsedHours))
	summary.ExcellencePct = float64(excellent) / total * 100
	summary.CriticalPct = float64(critical) / total * 100

	sorted := append([]float64(nil), elapsedHours...)
	sort.Float64s(sorted)
	summary.MedianHours = sorted[(len(sorted)-1)/2]
	return summary
}
