package engine

import (
	"testing"
	"time"

	"github.com/agencyops/occurrence-engine/internal/models"
)

func TestCountByEncounterOrder(t *testing.T) {
	occs := []models.Occurrence{
		{ID: "1", Vendor: "NCR"},
		{ID: "2", Vendor: "Diebold"},
		{ID: "3", Vendor: "NCR"},
		{ID: "4", Vendor: ""},
	}

	rows := CountByVendor(occs)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank key skipped)", len(rows))
	}
	if rows[0].Key != "NCR" || rows[0].Count != 2 {
		t.Fatalf("first row = %+v, want NCR/2", rows[0])
	}
	if rows[1].Key != "Diebold" || rows[1].Count != 1 {
		t.Fatalf("second row = %+v, want Diebold/1", rows[1])
	}
}

func TestTopNStableTies(t *testing.T) {
	rows := []models.CountRow{
		{Key: "a", Count: 2},
		{Key: "b", Count: 5},
		{Key: "c", Count: 2},
		{Key: "d", Count: 1},
	}

	top := TopN(rows, 3)
	if len(top) != 3 {
		t.Fatalf("got %d rows, want 3", len(top))
	}
	if top[0].Key != "b" || top[1].Key != "a" || top[2].Key != "c" {
		t.Fatalf("order = %v, want b,a,c (ties keep encounter order)", top)
	}
	if rows[0].Key != "a" {
		t.Fatal("TopN mutated its input")
	}
}

func TestDailySeriesZeroFills(t *testing.T) {
	now := mustTime(t, "2026-03-10T12:00:00Z")
	occs := []models.Occurrence{
		{ID: "1", Severity: models.SeverityHigh, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "2", Severity: models.SeverityLow, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "3", Severity: models.SeverityHigh, CreatedAt: now.Add(-40 * 24 * time.Hour)},
		{ID: "4", Severity: models.SeverityHigh},
	}

	rows := DailySeries(occs, now, 7)
	if len(rows) != 7 {
		t.Fatalf("got %d rows, want 7", len(rows))
	}
	total := 0
	for _, row := range rows {
		total += row.Total
	}
	// The 40-day-old and the malformed record fall outside the series.
	if total != 2 {
		t.Fatalf("series total = %d, want 2", total)
	}
	day := rows[4]
	if day.Total != 2 || day.BySeverity[models.SeverityHigh] != 1 || day.BySeverity[models.SeverityLow] != 1 {
		t.Fatalf("bucket for -2d = %+v", day)
	}
	if rows[6].Date.Format("2006-01-02") != "2026-03-10" {
		t.Fatalf("last bucket = %s, want today", rows[6].Date.Format("2006-01-02"))
	}
}

func TestAgingTableForecastSplit(t *testing.T) {
	now := mustTime(t, "2026-03-10T12:00:00Z")
	occs := []models.Occurrence{
		// 30h old critical: deadline was 6h ago, forecast 6h ahead is beyond it.
		{ID: "1", Status: models.StatusInProgress, Severity: models.SeverityCritical,
			CreatedAt: now.Add(-30 * time.Hour), ForecastClosure: now.Add(6 * time.Hour)},
		// 5h old high: forecast lands well inside the 24h window.
		{ID: "2", Status: models.StatusToStart, Severity: models.SeverityHigh,
			CreatedAt: now.Add(-5 * time.Hour), ForecastClosure: now.Add(10 * time.Hour)},
		// No forecast at all.
		{ID: "3", Status: models.StatusInProgress, Severity: models.SeverityMedium,
			CreatedAt: now.Add(-5 * time.Hour)},
		// Closed records never enter the aging table.
		{ID: "4", Status: models.StatusClosed, Severity: models.SeverityLow,
			CreatedAt: now.Add(-5 * time.Hour)},
	}

	rows := AgingTable(occs, now)
	byRange := make(map[string]models.AgingTableRow, len(rows))
	total := 0
	for _, row := range rows {
		byRange[row.Range] = row
		total += row.Total
	}

	if total != 3 {
		t.Fatalf("table total = %d, want 3", total)
	}
	if r := byRange["24-48h"]; r.Total != 1 || r.ForecastBeyondSLA != 1 {
		t.Fatalf("24-48h row = %+v", r)
	}
	if r := byRange["4-8h"]; r.Total != 2 || r.ForecastWithinSLA != 1 || r.NoForecast != 1 {
		t.Fatalf("4-8h row = %+v", r)
	}
}

func TestSummarizeCounters(t *testing.T) {
	now := mustTime(t, "2026-03-10T12:00:00Z")
	population := samplePopulation(t)
	ev := NewEvaluator(population)

	counters := Summarize(population, ev, now)
	if counters.Total != 5 {
		t.Fatalf("total = %d, want 5", counters.Total)
	}
	if counters.Pending != 4 {
		t.Fatalf("pending = %d, want 4 (closed record excluded)", counters.Pending)
	}
	if counters.CriticalSeverity != 1 {
		t.Fatalf("critical = %d, want 1", counters.CriticalSeverity)
	}
	if counters.Breached != 2 {
		t.Fatalf("breached = %d, want 2", counters.Breached)
	}
	if counters.InvalidTimestamps != 1 {
		t.Fatalf("invalid timestamps = %d, want 1", counters.InvalidTimestamps)
	}
	if counters.AffectedAgencies != 3 {
		t.Fatalf("agencies = %d, want 3", counters.AffectedAgencies)
	}
	// OC-1/OC-2 share an ATM at 0005 Centro; OC-4/OC-5 share one at 4410.
	if counters.Reincident != 4 {
		t.Fatalf("reincident = %d, want 4", counters.Reincident)
	}
}
