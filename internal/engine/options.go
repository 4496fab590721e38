package engine

import (
	"sort"

	"github.com/agencyops/occurrence-engine/internal/models"
)

// VendorOptions lists the distinct vendors appearing on occurrences carried
// by the selected carriers, sorted. When the selection maps to no vendors at
// all (stale carrier, inconsistent data) the full vendor list is returned so
// the user never faces an empty dropdown they cannot recover from.
func VendorOptions(population []models.Occurrence, selectedCarriers []string) []string {
	if len(selectedCarriers) > 0 {
		narrowed := distinct(population, func(o models.Occurrence) string {
			if containsString(selectedCarriers, o.Carrier) {
				return o.Vendor
			}
			return ""
		})
		if len(narrowed) > 0 {
			return narrowed
		}
	}
	return distinct(population, func(o models.Occurrence) string { return o.Vendor })
}

// EquipmentOptions lists the distinct equipment types in the selected
// segments, with the same fall-back-to-everything behaviour as VendorOptions.
// Narrowing is a UI convenience only; it never constrains what the predicate
// evaluator will accept.
func EquipmentOptions(population []models.Occurrence, selectedSegments []models.Segment) []string {
	if len(selectedSegments) > 0 {
		narrowed := distinct(population, func(o models.Occurrence) string {
			if containsSegment(selectedSegments, o.Segment) {
				return o.Equipment
			}
			return ""
		})
		if len(narrowed) > 0 {
			return narrowed
		}
	}
	return distinct(population, func(o models.Occurrence) string { return o.Equipment })
}

// BuildFilterOptions assembles the selectable values for every criterion from
// the current population.
func BuildFilterOptions(population []models.Occurrence, selectedCarriers []string, selectedSegments []models.Segment) models.FilterOptions {
	return models.FilterOptions{
		Segments:   []models.Segment{models.SegmentAA, models.SegmentAB},
		Equipments: EquipmentOptions(population, selectedSegments),
		Vendors:    VendorOptions(population, selectedCarriers),
		Carriers:   distinct(population, func(o models.Occurrence) string { return o.Carrier }),
		Agencies:   distinct(population, func(o models.Occurrence) string { return o.AgencyNumber() }),
		Regions:    distinct(population, func(o models.Occurrence) string { return o.Region }),
		ReasonCodes: distinct(population, func(o models.Occurrence) string {
			return o.ReasonOrDefault()
		}),
		AgingRanges: RangeLabels(),
		Statuses: []models.Status{
			models.StatusToStart, models.StatusInProgress, models.StatusClosed,
			models.StatusBlocked, models.StatusCancelled,
		},
		Severities: []models.Severity{
			models.SeverityCritical, models.SeverityHigh, models.SeverityMedium, models.SeverityLow,
		},
	}
}

func distinct(population []models.Occurrence, keyOf func(models.Occurrence) string) []string {
	seen := make(map[string]struct{}, len(population))
	out := make([]string, 0)
	for _, occ := range population {
		key := keyOf(occ)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
