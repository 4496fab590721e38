package engine

import (
	"testing"
	"time"

	"github.com/agencyops/occurrence-engine/internal/models"
)

func occAt(id, description, equipment, agency string, at time.Time) models.Occurrence {
	return models.Occurrence{
		ID:          id,
		Agency:      agency,
		Equipment:   equipment,
		Description: description,
		CreatedAt:   at,
		Status:      models.StatusInProgress,
		Severity:    models.SeverityMedium,
	}
}

func TestIsReincidentStrictSymmetric(t *testing.T) {
	base := mustTime(t, "2026-03-01T10:00:00Z")
	a := occAt("A", "dispenser jam", "ATM", "0001 Centro", base)
	b := occAt("B", "Dispenser Jam", "ATM", "0001 Centro", base.Add(48*time.Hour))
	population := []models.Occurrence{a, b}

	if !IsReincidentStrict(a, population) {
		t.Fatal("A should be reincident with B in range")
	}
	if !IsReincidentStrict(b, population) {
		t.Fatal("reincidence must be symmetric")
	}
}

func TestIsReincidentStrictDescriptionCaseInsensitive(t *testing.T) {
	base := mustTime(t, "2026-03-01T10:00:00Z")
	a := occAt("A", "DISPENSER JAM", "ATM", "0001 Centro", base)
	b := occAt("B", "dispenser jam", "ATM", "0001 Centro", base.Add(time.Hour))
	c := occAt("C", "dispenser stuck", "ATM", "0001 Centro", base.Add(2*time.Hour))
	population := []models.Occurrence{a, b, c}

	if !IsReincidentStrict(a, population) {
		t.Fatal("casing differences must not hide a repeat failure")
	}
	if IsReincidentStrict(c, population) {
		t.Fatal("different fault text must not match")
	}
}

func TestIsReincidentStrictOutsideWindow(t *testing.T) {
	base := mustTime(t, "2026-03-01T10:00:00Z")
	a := occAt("A", "dispenser jam", "ATM", "0001 Centro", base)
	b := occAt("B", "dispenser jam", "ATM", "0001 Centro", base.Add(97*time.Hour))
	population := []models.Occurrence{a, b}

	if IsReincidentStrict(a, population) {
		t.Fatal("97h apart must not count under the four-day window")
	}
}

func TestIsReincidentStrictDifferentAgency(t *testing.T) {
	base := mustTime(t, "2026-03-01T10:00:00Z")
	a := occAt("A", "dispenser jam", "ATM", "0001 Centro", base)
	b := occAt("B", "dispenser jam", "ATM", "0002 Norte", base.Add(time.Hour))
	population := []models.Occurrence{a, b}

	if IsReincidentStrict(a, population) {
		t.Fatal("different agencies must not match")
	}
}

func TestIsReincidentStrictIgnoresSelf(t *testing.T) {
	a := occAt("A", "dispenser jam", "ATM", "0001 Centro", mustTime(t, "2026-03-01T10:00:00Z"))
	if IsReincidentStrict(a, []models.Occurrence{a}) {
		t.Fatal("an occurrence is not reincident with itself")
	}
}

func TestIsReincidentStrictInvalidTimestamp(t *testing.T) {
	a := occAt("A", "dispenser jam", "ATM", "0001 Centro", time.Time{})
	b := occAt("B", "dispenser jam", "ATM", "0001 Centro", mustTime(t, "2026-03-01T10:00:00Z"))
	population := []models.Occurrence{a, b}

	if IsReincidentStrict(a, population) {
		t.Fatal("malformed timestamp cannot satisfy a time-window rule")
	}
	if IsReincidentStrict(b, population) {
		t.Fatal("partner with malformed timestamp must be skipped")
	}
}

func TestIsReincidentLooseIgnoresTimeAndDescription(t *testing.T) {
	a := occAt("A", "dispenser jam", "ATM", "0001 Centro", mustTime(t, "2026-01-01T10:00:00Z"))
	b := occAt("B", "no power", "ATM", "0001 Centro", mustTime(t, "2026-03-01T10:00:00Z"))
	population := []models.Occurrence{a, b}

	if !IsReincidentLoose(a, population) || !IsReincidentLoose(b, population) {
		t.Fatal("same equipment and agency must count under the loose rule")
	}
	if IsReincidentStrict(a, population) {
		t.Fatal("strict rule must not match differing descriptions")
	}
}

func TestStrictSetMatchesPairwiseRule(t *testing.T) {
	base := mustTime(t, "2026-03-01T10:00:00Z")
	population := []models.Occurrence{
		occAt("A", "dispenser jam", "ATM", "0001 Centro", base),
		occAt("B", "dispenser jam", "ATM", "0001 Centro", base.Add(90*time.Hour)),
		occAt("C", "dispenser jam", "ATM", "0001 Centro", base.Add(300*time.Hour)),
		occAt("D", "no power", "ATM", "0001 Centro", base),
	}

	ev := NewEvaluator(population)
	for _, occ := range population {
		want := IsReincidentStrict(occ, population)
		if got := ev.IsStrictReincident(occ.ID); got != want {
			t.Fatalf("precomputed flag for %s = %v, pairwise rule says %v", occ.ID, got, want)
		}
	}
}
