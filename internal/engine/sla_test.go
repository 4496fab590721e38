package engine

import (
	"testing"
	"time"

	"github.com/agencyops/occurrence-engine/internal/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func TestSLALimitHours(t *testing.T) {
	cases := []struct {
		severity models.Severity
		want     float64
	}{
		{models.SeverityCritical, 24},
		{models.SeverityHigh, 24},
		{models.SeverityMedium, 72},
		{models.SeverityLow, 72},
	}
	for _, tc := range cases {
		if got := SLALimitHours(tc.severity); got != tc.want {
			t.Fatalf("SLALimitHours(%s) = %v, want %v", tc.severity, got, tc.want)
		}
	}
}

func TestClassifySLABreached(t *testing.T) {
	now := mustTime(t, "2026-03-10T18:00:00Z")
	occ := models.Occurrence{
		ID:        "OC-1",
		Status:    models.StatusInProgress,
		Severity:  models.SeverityHigh,
		CreatedAt: now.Add(-30 * time.Hour),
	}

	info, ok := ClassifySLA(occ, now)
	if !ok {
		t.Fatal("expected classification for valid timestamp")
	}
	if info.Status != models.SLABreached {
		t.Fatalf("status = %s, want %s", info.Status, models.SLABreached)
	}
	if info.HoursRemaining != -6 {
		t.Fatalf("hours remaining = %v, want -6", info.HoursRemaining)
	}
}

func TestClassifySLADueTodayLowSeverity(t *testing.T) {
	// A low-severity occurrence carries a 72h window, so one created three
	// days ago has its deadline later today.
	now := mustTime(t, "2026-03-10T10:00:00Z")
	occ := models.Occurrence{
		ID:        "OC-2",
		Status:    models.StatusToStart,
		Severity:  models.SeverityLow,
		CreatedAt: mustTime(t, "2026-03-07T14:00:00Z"),
	}

	info, ok := ClassifySLA(occ, now)
	if !ok {
		t.Fatal("expected classification for valid timestamp")
	}
	if info.Status != models.SLADueToday {
		t.Fatalf("status = %s, want %s", info.Status, models.SLADueToday)
	}
}

func TestClassifySLAExactDeadlineNotBreached(t *testing.T) {
	now := mustTime(t, "2026-03-10T12:00:00Z")
	occ := models.Occurrence{
		ID:        "OC-3",
		Status:    models.StatusInProgress,
		Severity:  models.SeverityCritical,
		CreatedAt: now.Add(-24 * time.Hour),
	}

	info, ok := ClassifySLA(occ, now)
	if !ok {
		t.Fatal("expected classification")
	}
	if info.HoursRemaining != 0 {
		t.Fatalf("hours remaining = %v, want 0", info.HoursRemaining)
	}
	if info.Status == models.SLABreached {
		t.Fatal("deadline instant must not count as breached")
	}
}

func TestClassifySLAClosedAlwaysOnTime(t *testing.T) {
	now := mustTime(t, "2026-03-10T12:00:00Z")
	for _, status := range []models.Status{models.StatusClosed, models.StatusCancelled} {
		occ := models.Occurrence{
			ID:        "OC-4",
			Status:    status,
			Severity:  models.SeverityCritical,
			CreatedAt: now.Add(-200 * time.Hour),
		}
		info, ok := ClassifySLA(occ, now)
		if !ok {
			t.Fatal("expected classification")
		}
		if info.Status != models.SLAOnTime {
			t.Fatalf("status for %s = %s, want %s", status, info.Status, models.SLAOnTime)
		}
	}
}

func TestClassifySLAInvalidTimestamp(t *testing.T) {
	occ := models.Occurrence{ID: "OC-5", Status: models.StatusToStart, Severity: models.SeverityHigh}
	if _, ok := ClassifySLA(occ, time.Now()); ok {
		t.Fatal("expected no classification for malformed timestamp")
	}
}

func TestIsBreachedForScoringCountsCancelled(t *testing.T) {
	now := mustTime(t, "2026-03-10T12:00:00Z")
	base := models.Occurrence{
		ID:        "OC-6",
		Severity:  models.SeverityHigh,
		CreatedAt: now.Add(-30 * time.Hour),
	}

	cancelled := base
	cancelled.Status = models.StatusCancelled
	if !IsBreachedForScoring(cancelled, now) {
		t.Fatal("cancelled occurrence past the limit must count for scoring")
	}

	closed := base
	closed.Status = models.StatusClosed
	if IsBreachedForScoring(closed, now) {
		t.Fatal("closed occurrence must not count for scoring")
	}
}
