package filters

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/agencyops/occurrence-engine/internal/models"
)

// Query parameter names. One criterion maps to one parameter name;
// multi-selects repeat the parameter once per value, so free-text values may
// contain any character the URL encoder can carry.
const (
	paramPeriod        = "period"
	paramFrom          = "from"
	paramTo            = "to"
	paramSegment       = "segment"
	paramEquipment     = "equipment"
	paramStatus        = "status"
	paramEquipState    = "equipmentStatus"
	paramVendor        = "vendor"
	paramCarrier       = "carrier"
	paramSeverity      = "severity"
	paramRegion        = "region"
	paramAgency        = "agency"
	paramAgencyType    = "agencyType"
	paramReason        = "reason"
	paramBlockerReason = "blockerReason"
	paramAging         = "aging"
	paramSerial        = "serial"
	paramQuery         = "q"
	paramVIP           = "vip"
	paramImpediment    = "impediment"
	paramDue24h        = "due24h"
	paramReincident    = "reincident"
	paramHighPriority  = "highPriority"
)

const dateLayout = "2006-01-02T15:04:05Z07:00"

// Encode serialises the criteria into flat query parameters. Inactive
// criteria are omitted so Decode on the result restores an equivalent state.
func Encode(c Criteria) url.Values {
	values := url.Values{}

	if c.Period != PeriodAll {
		values.Set(paramPeriod, string(c.Period))
	}
	if c.Period == PeriodCustom {
		if !c.PeriodStart.IsZero() {
			values.Set(paramFrom, c.PeriodStart.Format(dateLayout))
		}
		if !c.PeriodEnd.IsZero() {
			values.Set(paramTo, c.PeriodEnd.Format(dateLayout))
		}
	}

	addAll(values, paramSegment, segmentsToStrings(c.Segments))
	addAll(values, paramEquipment, c.Equipments)
	addAll(values, paramStatus, statusesToStrings(c.Statuses))
	addAll(values, paramEquipState, statesToStrings(c.EquipmentStates))
	addAll(values, paramVendor, c.Vendors)
	addAll(values, paramCarrier, c.Carriers)
	addAll(values, paramSeverity, severitiesToStrings(c.Severities))
	addAll(values, paramRegion, c.Regions)
	addAll(values, paramAgency, c.AgencyNumbers)
	addAll(values, paramAgencyType, agencyTypesToStrings(c.AgencyTypes))
	addAll(values, paramReason, c.ReasonCodes)
	addAll(values, paramBlockerReason, c.BlockerReasons)
	addAll(values, paramAging, c.AgingRanges)

	if c.SerialNumber != "" {
		values.Set(paramSerial, c.SerialNumber)
	}
	if c.DescriptionContains != "" {
		values.Set(paramQuery, c.DescriptionContains)
	}
	encodeTri(values, paramVIP, c.VIP)
	encodeTri(values, paramImpediment, c.HasImpediment)
	if c.DueWithin24h {
		values.Set(paramDue24h, "1")
	}
	if c.ReincidentOnly {
		values.Set(paramReincident, "1")
	}
	if c.HighPriorityOnly {
		values.Set(paramHighPriority, "1")
	}

	return values
}

// Decode reconstructs filter criteria from query parameters. Unspecified
// parameters default to "no constraint"; unknown enumeration values are
// rejected so a mistyped deep link fails loudly instead of silently matching
// everything.
func Decode(values url.Values) (Criteria, error) {
	var c Criteria

	if raw := values.Get(paramPeriod); raw != "" {
		preset, err := parsePeriodPreset(raw)
		if err != nil {
			return Criteria{}, err
		}
		c.Period = preset
	}
	if raw := values.Get(paramFrom); raw != "" {
		t, err := parseParamTime(paramFrom, raw)
		if err != nil {
			return Criteria{}, err
		}
		c.PeriodStart = t
	}
	if raw := values.Get(paramTo); raw != "" {
		t, err := parseParamTime(paramTo, raw)
		if err != nil {
			return Criteria{}, err
		}
		c.PeriodEnd = t
	}
	if (!c.PeriodStart.IsZero() || !c.PeriodEnd.IsZero()) && c.Period == PeriodAll {
		c.Period = PeriodCustom
	}

	var err error
	if c.Segments, err = parseList(values[paramSegment], models.ParseSegment); err != nil {
		return Criteria{}, err
	}
	c.Equipments = listParam(values, paramEquipment)
	if c.Statuses, err = parseList(values[paramStatus], models.ParseStatus); err != nil {
		return Criteria{}, err
	}
	if c.EquipmentStates, err = parseList(values[paramEquipState], models.ParseEquipmentState); err != nil {
		return Criteria{}, err
	}
	c.Vendors = listParam(values, paramVendor)
	c.Carriers = listParam(values, paramCarrier)
	if c.Severities, err = parseList(values[paramSeverity], models.ParseSeverity); err != nil {
		return Criteria{}, err
	}
	c.Regions = listParam(values, paramRegion)
	c.AgencyNumbers = listParam(values, paramAgency)
	if c.AgencyTypes, err = parseList(values[paramAgencyType], models.ParseAgencyType); err != nil {
		return Criteria{}, err
	}
	c.ReasonCodes = listParam(values, paramReason)
	c.BlockerReasons = listParam(values, paramBlockerReason)
	c.AgingRanges = listParam(values, paramAging)
	for _, label := range c.AgingRanges {
		if !models.ValidAgingRange(label) {
			return Criteria{}, fmt.Errorf("unknown aging range %q", label)
		}
	}

	c.SerialNumber = values.Get(paramSerial)
	c.DescriptionContains = values.Get(paramQuery)

	if c.VIP, err = decodeTri(values, paramVIP); err != nil {
		return Criteria{}, err
	}
	if c.HasImpediment, err = decodeTri(values, paramImpediment); err != nil {
		return Criteria{}, err
	}
	c.DueWithin24h = values.Get(paramDue24h) == "1"
	c.ReincidentOnly = values.Get(paramReincident) == "1"
	c.HighPriorityOnly = values.Get(paramHighPriority) == "1"

	return c, nil
}

func parsePeriodPreset(raw string) (PeriodPreset, error) {
	switch PeriodPreset(raw) {
	case PeriodToday, PeriodLast24, PeriodLast7, PeriodLast30, PeriodCustom:
		return PeriodPreset(raw), nil
	default:
		return PeriodAll, fmt.Errorf("unknown period preset %q", raw)
	}
}

func parseParamTime(name, raw string) (time.Time, error) {
	for _, layout := range []string{dateLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s value %q", name, raw)
}

func addAll(values url.Values, key string, items []string) {
	for _, item := range items {
		values.Add(key, item)
	}
}

func listParam(values url.Values, key string) []string {
	raw := values[key]
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseList[T comparable](raw []string, parse func(string) (T, error)) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var zero T
	out := make([]T, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(p) == "" {
			continue
		}
		v, err := parse(p)
		if err != nil {
			return nil, err
		}
		if v == zero {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func encodeTri(values url.Values, key string, tri TriState) {
	switch tri {
	case TriYes:
		values.Set(key, "1")
	case TriNo:
		values.Set(key, "0")
	}
}

func decodeTri(values url.Values, key string) (TriState, error) {
	raw := values.Get(key)
	switch raw {
	case "":
		return TriAny, nil
	case "1", "true", "yes":
		return TriYes, nil
	case "0", "false", "no":
		return TriNo, nil
	default:
		return TriAny, fmt.Errorf("invalid %s value %q", key, raw)
	}
}

func segmentsToStrings(items []models.Segment) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = string(v)
	}
	return out
}

func statusesToStrings(items []models.Status) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = string(v)
	}
	return out
}

func statesToStrings(items []models.EquipmentState) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = string(v)
	}
	return out
}

func severitiesToStrings(items []models.Severity) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = string(v)
	}
	return out
}

func agencyTypesToStrings(items []models.AgencyType) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = string(v)
	}
	return out
}
