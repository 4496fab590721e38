package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/agencyops/occurrence-engine/internal/models"
)

// reincidenceWindow bounds how far apart two failures may be and still count
// as the same repeating pattern under the strict rule.
const reincidenceWindow = 4 * 24 * time.Hour

// IsReincidentStrict reports whether another occurrence in the population
// shares the same description, equipment, and agency within the trailing
// four-day window. The population must be the FULL dataset, never a filtered
// subset: reincidence is a property of the whole history, and must not change
// because the viewer narrowed an unrelated filter.
func IsReincidentStrict(occ models.Occurrence, population []models.Occurrence) bool {
	if !occ.HasValidCreatedAt() {
		return false
	}
	for _, other := range population {
		if other.ID == occ.ID || !other.HasValidCreatedAt() {
			continue
		}
		if strictKey(other) != strictKey(occ) {
			continue
		}
		diff := occ.CreatedAt.Sub(other.CreatedAt)
		if diff < 0 {
			diff = -diff
		}
		if diff <= reincidenceWindow {
			return true
		}
	}
	return false
}

// IsReincidentLoose is the summary-counter variant: any other occurrence on
// the same equipment at the same agency counts, regardless of description or
// time distance. Kept as a separate named rule from IsReincidentStrict; the
// dashboard uses both and they must not be merged.
func IsReincidentLoose(occ models.Occurrence, population []models.Occurrence) bool {
	for _, other := range population {
		if other.ID == occ.ID {
			continue
		}
		if looseKey(other) == looseKey(occ) {
			return true
		}
	}
	return false
}

// strictKey joins the identity fields of the strict rule. The description is
// compared case-insensitively: upstream systems disagree on letter case for
// the same fault text, and a casing difference is not a different failure.
func strictKey(o models.Occurrence) string {
	return strings.ToLower(o.Description) + "\x1f" + o.Equipment + "\x1f" + o.Agency
}

func looseKey(o models.Occurrence) string {
	return o.Equipment + "\x1f" + o.Agency
}

// strictReincidentSet precomputes the IDs flagged by IsReincidentStrict for a
// whole population in O(n log n), so the predicate evaluator and counters do
// not pay the pairwise cost per occurrence.
func strictReincidentSet(population []models.Occurrence) map[string]struct{} {
	type stamped struct {
		id string
		at time.Time
	}
	groups := make(map[string][]stamped)
	for _, occ := range population {
		if !occ.HasValidCreatedAt() {
			continue
		}
		key := strictKey(occ)
		groups[key] = append(groups[key], stamped{id: occ.ID, at: occ.CreatedAt})
	}

	flagged := make(map[string]struct{})
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].at.Before(members[j].at) })
		// Nearest neighbour in time is adjacent after sorting.
		for i, m := range members {
			if i > 0 && m.at.Sub(members[i-1].at) <= reincidenceWindow {
				flagged[m.id] = struct{}{}
				flagged[members[i-1].id] = struct{}{}
			}
		}
	}
	return flagged
}

// looseReincidentSet precomputes the IDs flagged by IsReincidentLoose.
func looseReincidentSet(population []models.Occurrence) map[string]struct{} {
	counts := make(map[string]int, len(population))
	for _, occ := range population {
		counts[looseKey(occ)]++
	}
	flagged := make(map[string]struct{})
	for _, occ := range population {
		if counts[looseKey(occ)] > 1 {
			flagged[occ.ID] = struct{}{}
		}
	}
	return flagged
}
