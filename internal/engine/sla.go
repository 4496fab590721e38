package engine

import (
	"time"

	"github.com/agencyops/occurrence-engine/internal/models"
)

// SLALimitHours returns the service-level window for a severity: 24h for
// critical/high, 72h for everything else.
func SLALimitHours(sev models.Severity) float64 {
	if sev.IsHighPriority() {
		return 24
	}
	return 72
}

// SLAInfo is the outcome of classifying one occurrence against its deadline.
type SLAInfo struct {
	Deadline       time.Time
	HoursRemaining float64
	Status         models.SLAStatus
}

// ClassifySLA derives the deadline and SLA status of an occurrence at the
// injected instant. Closed and cancelled occurrences are always on time:
// finished work is never overdue. ok is false when the creation timestamp is
// malformed, in which case no classification is possible.
func ClassifySLA(occ models.Occurrence, now time.Time) (SLAInfo, bool) {
	if !occ.HasValidCreatedAt() {
		return SLAInfo{}, false
	}

	limit := SLALimitHours(occ.Severity)
	deadline := occ.CreatedAt.Add(time.Duration(limit * float64(time.Hour)))
	info := SLAInfo{
		Deadline:       deadline,
		HoursRemaining: deadline.Sub(now).Hours(),
	}

	switch {
	case occ.Status == models.StatusClosed || occ.Status == models.StatusCancelled:
		info.Status = models.SLAOnTime
	case now.After(deadline):
		info.Status = models.SLABreached
	case sameCalendarDay(deadline, now):
		info.Status = models.SLADueToday
	default:
		info.Status = models.SLAOnTime
	}
	return info, true
}

// IsBreachedForScoring is the criticality scorer's breach rule: elapsed time
// beyond the severity limit and status not closed. Unlike ClassifySLA it does
// NOT exempt cancelled occurrences. The two definitions diverge in the
// product today and are kept as separate named rules until the owners decide
// whether cancelled work should count (see DESIGN.md).
func IsBreachedForScoring(occ models.Occurrence, now time.Time) bool {
	if !occ.HasValidCreatedAt() || occ.Status == models.StatusClosed {
		return false
	}
	return now.Sub(occ.CreatedAt).Hours() > SLALimitHours(occ.Severity)
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
