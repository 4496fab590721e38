package engine

import (
	"strings"
	"time"

	"github.com/agencyops/occurrence-engine/internal/filters"
	"github.com/agencyops/occurrence-engine/internal/models"
)

// Evaluator applies a composite filter state to occurrences. It is built from
// the full unfiltered population so population-level properties (reincidence)
// are fixed before any filtering happens.
type Evaluator struct {
	strictReincident map[string]struct{}
	looseReincident  map[string]struct{}
}

// NewEvaluator precomputes population-level indexes for the predicate.
func NewEvaluator(population []models.Occurrence) *Evaluator {
	return &Evaluator{
		strictReincident: strictReincidentSet(population),
		looseReincident:  looseReincidentSet(population),
	}
}

// Matches evaluates every active criterion against one occurrence with AND
// semantics. The function is pure: occurrence, criteria, and the current
// instant are its only inputs (plus the population indexes fixed at
// construction). Evaluation order is an optimisation only; the result is
// order-independent. A malformed creation timestamp fails only the
// time-dependent criteria, not the record as a whole.
func (e *Evaluator) Matches(occ models.Occurrence, c filters.Criteria, now time.Time) bool {
	if start, end, ok := c.PeriodRange(now); ok {
		if !occ.HasValidCreatedAt() {
			return false
		}
		if occ.CreatedAt.Before(start) || occ.CreatedAt.After(end) {
			return false
		}
	}

	if len(c.Segments) > 0 && !containsSegment(c.Segments, occ.Segment) {
		return false
	}
	if len(c.Equipments) > 0 && !containsString(c.Equipments, occ.Equipment) {
		return false
	}
	if len(c.Statuses) > 0 && !containsStatus(c.Statuses, occ.Status) {
		return false
	}
	if len(c.EquipmentStates) > 0 && !containsState(c.EquipmentStates, occ.EquipmentState) {
		return false
	}
	if len(c.Vendors) > 0 && !containsString(c.Vendors, occ.Vendor) {
		return false
	}
	if len(c.Severities) > 0 && !containsSeverity(c.Severities, occ.Severity) {
		return false
	}

	// An active carrier filter never matches a blank carrier; "no carrier
	// recorded" is not the same as "no constraint".
	if len(c.Carriers) > 0 {
		if strings.TrimSpace(occ.Carrier) == "" || !containsString(c.Carriers, occ.Carrier) {
			return false
		}
	}

	if c.SerialNumber != "" &&
		!strings.Contains(strings.ToLower(occ.SerialNumber), strings.ToLower(c.SerialNumber)) {
		return false
	}
	if c.DescriptionContains != "" &&
		!strings.Contains(strings.ToLower(occ.Description), strings.ToLower(c.DescriptionContains)) {
		return false
	}

	if len(c.AgencyNumbers) > 0 && !containsString(c.AgencyNumbers, occ.AgencyNumber()) {
		return false
	}
	if len(c.Regions) > 0 && !containsString(c.Regions, occ.Region) {
		return false
	}
	if len(c.AgencyTypes) > 0 && !containsAgencyType(c.AgencyTypes, occ.AgencyType) {
		return false
	}

	if c.VIP != filters.TriAny && occ.IsVIP() != (c.VIP == filters.TriYes) {
		return false
	}
	if c.HasImpediment != filters.TriAny && occ.HasImpediment != (c.HasImpediment == filters.TriYes) {
		return false
	}

	if c.DueWithin24h && !dueWithin24h(occ, now) {
		return false
	}

	if c.ReincidentOnly {
		if _, ok := e.strictReincident[occ.ID]; !ok {
			return false
		}
	}

	// The aging filter only makes sense for occurrences still being worked;
	// while it is active, everything else drops out of the view.
	if len(c.AgingRanges) > 0 {
		if !occ.IsActive() || !occ.HasValidCreatedAt() {
			return false
		}
		bucket := BucketFor(now.Sub(occ.CreatedAt).Hours())
		if !containsString(c.AgingRanges, bucket.Label) {
			return false
		}
	}

	if c.HighPriorityOnly && !occ.Severity.IsHighPriority() {
		return false
	}

	if len(c.ReasonCodes) > 0 && !containsString(c.ReasonCodes, occ.ReasonOrDefault()) {
		return false
	}
	if len(c.BlockerReasons) > 0 && !containsString(c.BlockerReasons, occ.BlockerReasonOrDefault()) {
		return false
	}

	return true
}

// Filter returns the matching subset in original order. The input slice is
// never mutated.
func (e *Evaluator) Filter(occs []models.Occurrence, c filters.Criteria, now time.Time) []models.Occurrence {
	out := make([]models.Occurrence, 0, len(occs))
	for _, occ := range occs {
		if e.Matches(occ, c, now) {
			out = append(out, occ)
		}
	}
	return out
}

// IsStrictReincident exposes the precomputed strict flag for one occurrence.
func (e *Evaluator) IsStrictReincident(id string) bool {
	_, ok := e.strictReincident[id]
	return ok
}

// IsLooseReincident exposes the precomputed loose flag for one occurrence.
func (e *Evaluator) IsLooseReincident(id string) bool {
	_, ok := e.looseReincident[id]
	return ok
}

// dueWithin24h implements the "due within 24h" toggle: open work whose SLA
// deadline is ahead but at most 24 hours away.
func dueWithin24h(occ models.Occurrence, now time.Time) bool {
	if occ.Status == models.StatusClosed || !occ.HasValidCreatedAt() {
		return false
	}
	hoursElapsed := now.Sub(occ.CreatedAt).Hours()
	hoursUntilDue := SLALimitHours(occ.Severity) - hoursElapsed
	return hoursUntilDue > 0 && hoursUntilDue <= 24
}

func containsString(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func containsSegment(set []models.Segment, value models.Segment) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func containsStatus(set []models.Status, value models.Status) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func containsState(set []models.EquipmentState, value models.EquipmentState) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func containsSeverity(set []models.Severity, value models.Severity) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func containsAgencyType(set []models.AgencyType, value models.AgencyType) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
