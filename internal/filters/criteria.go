// Package filters holds the composite filter state applied to occurrence
// views and its flat query-parameter encoding used for deep-linking.
package filters

import (
	"time"

	"github.com/agencyops/occurrence-engine/internal/models"
)

// TriState is a three-valued toggle: unset means "no constraint".
type TriState int

const (
	TriAny TriState = iota
	TriYes
	TriNo
)

// PeriodPreset names the creation-date windows selectable in the UI.
type PeriodPreset string

const (
	PeriodAll    PeriodPreset = ""
	PeriodToday  PeriodPreset = "today"
	PeriodLast24 PeriodPreset = "last24h"
	PeriodLast7  PeriodPreset = "last7d"
	PeriodLast30 PeriodPreset = "last30d"
	PeriodCustom PeriodPreset = "custom"
)

// Criteria is the full set of independent filter criteria for one viewing
// session. An empty slice, blank string, or TriAny means the criterion is
// inactive; criteria combine with AND semantics. The engine never mutates a
// Criteria value; the hosting application owns the single mutable instance.
type Criteria struct {
	Period      PeriodPreset
	PeriodStart time.Time
	PeriodEnd   time.Time

	Segments        []models.Segment
	Equipments      []string
	Statuses        []models.Status
	EquipmentStates []models.EquipmentState
	Vendors         []string
	Carriers        []string
	Severities      []models.Severity
	Regions         []string
	AgencyNumbers   []string
	AgencyTypes     []models.AgencyType
	ReasonCodes     []string
	BlockerReasons  []string
	AgingRanges     []string

	SerialNumber        string
	DescriptionContains string

	VIP           TriState
	HasImpediment TriState

	DueWithin24h     bool
	ReincidentOnly   bool
	HighPriorityOnly bool
}

// IsZero reports whether no criterion is active.
func (c Criteria) IsZero() bool {
	return c.Period == PeriodAll &&
		len(c.Segments) == 0 && len(c.Equipments) == 0 && len(c.Statuses) == 0 &&
		len(c.EquipmentStates) == 0 && len(c.Vendors) == 0 && len(c.Carriers) == 0 &&
		len(c.Severities) == 0 && len(c.Regions) == 0 && len(c.AgencyNumbers) == 0 &&
		len(c.AgencyTypes) == 0 && len(c.ReasonCodes) == 0 && len(c.BlockerReasons) == 0 &&
		len(c.AgingRanges) == 0 &&
		c.SerialNumber == "" && c.DescriptionContains == "" &&
		c.VIP == TriAny && c.HasImpediment == TriAny &&
		!c.DueWithin24h && !c.ReincidentOnly && !c.HighPriorityOnly
}

// PeriodRange resolves the active creation-date window, inclusive on both
// ends. ok is false when no period constraint applies. A custom end landing on
// a day boundary is pushed to the end of that day so a user picking "until the
// 15th" sees the whole 15th.
func (c Criteria) PeriodRange(now time.Time) (start, end time.Time, ok bool) {
	switch c.Period {
	case PeriodToday:
		start = startOfDay(now)
		return start, endOfDay(now), true
	case PeriodLast24:
		return now.Add(-24 * time.Hour), now, true
	case PeriodLast7:
		return now.AddDate(0, 0, -7), now, true
	case PeriodLast30:
		return now.AddDate(0, 0, -30), now, true
	case PeriodCustom:
		if c.PeriodStart.IsZero() && c.PeriodEnd.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		start = c.PeriodStart
		end = c.PeriodEnd
		if end.IsZero() {
			end = now
		} else if isDayBoundary(end) {
			end = endOfDay(end)
		}
		return start, end, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

func isDayBoundary(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
