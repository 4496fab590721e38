package models

import "time"

// SLAStatus classifies an occurrence against its service-level deadline.
type SLAStatus string

const (
	SLAOnTime   SLAStatus = "on_time"
	SLADueToday SLAStatus = "due_today"
	SLABreached SLAStatus = "breached"
)

// AgingCategory groups aging ranges for display purposes only; numeric
// boundaries live with the bucketizer.
type AgingCategory string

const (
	AgingExcellent      AgingCategory = "excellent"
	AgingAcceptable     AgingCategory = "acceptable"
	AgingNearLimit      AgingCategory = "near_limit"
	AgingWithinSLA      AgingCategory = "within_sla"
	AgingAboveSLA       AgingCategory = "above_sla"
	AgingNeedsAttention AgingCategory = "needs_attention"
	AgingCritical       AgingCategory = "critical"
)

// AgingRangeLabels is the ordered vocabulary of the aging-range filter. The
// numeric bucket bounds live with the bucketizer, which keeps its ranges in
// exactly this order.
var AgingRangeLabels = []string{
	"0-30min", "30-60min", "1-2h", "2-4h", "4-8h", "8-12h",
	"12-24h", "24-48h", "48-72h", "3-5d", ">5d",
}

// ValidAgingRange reports whether a label names a known aging bucket.
func ValidAgingRange(label string) bool {
	for _, l := range AgingRangeLabels {
		if l == label {
			return true
		}
	}
	return false
}

// SLADirection compares a group's SLA breach rate against its baseline.
type SLADirection string

const (
	SLAAboveBaseline SLADirection = "above"
	SLABelowBaseline SLADirection = "below"
	SLANormal        SLADirection = "normal"
)

// SummaryCounters feeds the dashboard cards.
type SummaryCounters struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	CriticalSeverity  int `json:"criticalSeverity"`
	Breached          int `json:"breached"`
	DueToday          int `json:"dueToday"`
	CreatedToday      int `json:"createdToday"`
	Reincident        int `json:"reincident"`
	AffectedAgencies  int `json:"affectedAgencies"`
	InvalidTimestamps int `json:"invalidTimestamps"`
}

// CountRow is one grouping bucket in encounter order.
type CountRow struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// AgingTableRow aggregates active occurrences falling into one aging range,
// split by how the promised resolution compares to the SLA deadline.
type AgingTableRow struct {
	Range             string        `json:"range"`
	Category          AgingCategory `json:"category"`
	Total             int           `json:"total"`
	ForecastWithinSLA int           `json:"forecastWithinSla"`
	ForecastBeyondSLA int           `json:"forecastBeyondSla"`
	NoForecast        int           `json:"noForecast"`
}

// AgingSummary condenses the aging distribution for the headline widgets.
type AgingSummary struct {
	ActiveCount   int     `json:"activeCount"`
	ExcellencePct float64 `json:"excellencePct"`
	CriticalPct   float64 `json:"criticalPct"`
	MedianHours   float64 `json:"medianHours"`
}

// CriticalityRow carries the 0-100 composite score for one equipment group.
type CriticalityRow struct {
	Equipment           string       `json:"equipment"`
	Segment             Segment      `json:"segment"`
	Total               int          `json:"total"`
	Score               float64      `json:"score"`
	AgingScore          float64      `json:"agingScore"`
	VolumeScore         float64      `json:"volumeScore"`
	ReincidenceScore    float64      `json:"reincidenceScore"`
	SLAScore            float64      `json:"slaScore"`
	AvgAgingDays        float64      `json:"avgAgingDays"`
	Trailing30dCount    int          `json:"trailing30dCount"`
	VolumePctOfBaseline float64      `json:"volumePctOfBaseline"`
	SLABreachPct        float64      `json:"slaBreachPct"`
	ReincidencePct      float64      `json:"reincidencePct"`
	VolumeAnomaly       bool         `json:"volumeAnomaly"`
	SLADirection        SLADirection `json:"slaDirection"`
}

// TimeSeriesRow is one calendar day in a trailing window. Days without
// occurrences appear with zero counts.
type TimeSeriesRow struct {
	Date       time.Time        `json:"date"`
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"bySeverity"`
}

// FilterOptions lists the selectable values for each criterion, already
// narrowed by any upstream selection.
type FilterOptions struct {
	Segments    []Segment  `json:"segments"`
	Equipments  []string   `json:"equipments"`
	Vendors     []string   `json:"vendors"`
	Carriers    []string   `json:"carriers"`
	Agencies    []string   `json:"agencies"`
	Regions     []string   `json:"regions"`
	ReasonCodes []string   `json:"reasonCodes"`
	AgingRanges []string   `json:"agingRanges"`
	Statuses    []Status   `json:"statuses"`
	Severities  []Severity `json:"severities"`
}

// DerivedView is the full recomputed dashboard state for one filter snapshot.
// It is ephemeral: rebuilt from scratch whenever the data or filters change.
type DerivedView struct {
	GeneratedAt  time.Time        `json:"generatedAt"`
	Filtered     []Occurrence     `json:"filtered"`
	Counters     SummaryCounters  `json:"counters"`
	ByStatus     []CountRow       `json:"byStatus"`
	BySeverity   []CountRow       `json:"bySeverity"`
	AgingTable   []AgingTableRow  `json:"agingTable"`
	AgingSummary AgingSummary     `json:"agingSummary"`
	Criticality  []CriticalityRow `json:"criticality"`
	TopEquipment []CountRow       `json:"topEquipment"`
	TopVendors   []CountRow       `json:"topVendors"`
	TopAgencies  []CountRow       `json:"topAgencies"`
	DailySeries  []TimeSeriesRow  `json:"dailySeries"`
}
