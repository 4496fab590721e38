package models

import (
	"fmt"
	"strings"
	"time"
)

// ReasonNotInformed is substituted for blank reason codes before any comparison,
// so "no reason recorded" is filterable like any other reason.
const ReasonNotInformed = "not_informed"

// Occurrence is one reported equipment-failure incident at a bank location.
// Records are created upstream and never mutated by the engine.
type Occurrence struct {
	ID              string         `json:"id"`
	Agency          string         `json:"agency"`
	Segment         Segment        `json:"segment"`
	Equipment       string         `json:"equipment"`
	Vendor          string         `json:"vendor"`
	Carrier         string         `json:"transportadora"`
	Status          Status         `json:"status"`
	Severity        Severity       `json:"severity"`
	EquipmentState  EquipmentState `json:"statusEquipamento"`
	CreatedAt       time.Time      `json:"createdAt"`
	CreatedAtRaw    string         `json:"createdAtRaw,omitempty"`
	ForecastClosure time.Time      `json:"dataPrevisaoEncerramento,omitempty"`
	Description     string         `json:"description"`
	ReasonCode      string         `json:"motivoOcorrencia,omitempty"`
	BlockerReason   string         `json:"motivoImpedimento,omitempty"`
	HasImpediment   bool           `json:"possuiImpedimento"`
	Region          string         `json:"estado"`
	AgencyType      AgencyType     `json:"tipoAgencia"`
	SerialNumber    string         `json:"serialNumber"`
}

// HasValidCreatedAt reports whether the creation timestamp parsed successfully.
// A zero CreatedAt marks a malformed source timestamp; such records are excluded
// from time-dependent computations but stay eligible for everything else.
func (o Occurrence) HasValidCreatedAt() bool {
	return !o.CreatedAt.IsZero()
}

// HasForecast reports whether a promised-resolution timestamp is present.
func (o Occurrence) HasForecast() bool {
	return !o.ForecastClosure.IsZero()
}

// AgencyNumber extracts the first run of digits embedded in the agency name.
// Returns "" when the name carries no digits.
func (o Occurrence) AgencyNumber() string {
	start := -1
	for i, r := range o.Agency {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return o.Agency[start:i]
		}
	}
	if start >= 0 {
		return o.Agency[start:]
	}
	return ""
}

// IsVIP reports whether the location is a VIP agency: its extracted agency
// number ends in 0 or 5.
func (o Occurrence) IsVIP() bool {
	num := o.AgencyNumber()
	if num == "" {
		return false
	}
	last := num[len(num)-1]
	return last == '0' || last == '5'
}

// IsActive reports whether the occurrence is in a working state (aging applies).
func (o Occurrence) IsActive() bool {
	return o.Status == StatusToStart || o.Status == StatusInProgress
}

// IsOpen reports whether the occurrence has not reached a terminal state.
func (o Occurrence) IsOpen() bool {
	return o.Status != StatusClosed && o.Status != StatusCancelled
}

// ReasonOrDefault returns the reason code, falling back to ReasonNotInformed.
func (o Occurrence) ReasonOrDefault() string {
	if strings.TrimSpace(o.ReasonCode) == "" {
		return ReasonNotInformed
	}
	return o.ReasonCode
}

// BlockerReasonOrDefault returns the blocker reason, falling back to ReasonNotInformed.
func (o Occurrence) BlockerReasonOrDefault() string {
	if strings.TrimSpace(o.BlockerReason) == "" {
		return ReasonNotInformed
	}
	return o.BlockerReason
}

// Segment is the broad equipment category an occurrence belongs to.
type Segment string

const (
	SegmentAA Segment = "AA"
	SegmentAB Segment = "AB"
)

// ParseSegment validates a raw segment value.
func ParseSegment(value string) (Segment, error) {
	switch Segment(strings.ToUpper(strings.TrimSpace(value))) {
	case SegmentAA:
		return SegmentAA, nil
	case SegmentAB:
		return SegmentAB, nil
	default:
		return "", fmt.Errorf("unknown segment %q", value)
	}
}

// Status enumerates occurrence lifecycle states.
type Status string

const (
	StatusToStart    Status = "to_start"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
	StatusBlocked    Status = "blocked"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates a raw status value.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusToStart:
		return StatusToStart, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusClosed:
		return StatusClosed, nil
	case StatusBlocked:
		return StatusBlocked, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown status %q", value)
	}
}

// Severity captures impact levels and drives the SLA window.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ParseSeverity validates a raw severity value.
func ParseSeverity(value string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(value))) {
	case SeverityCritical:
		return SeverityCritical, nil
	case SeverityHigh:
		return SeverityHigh, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityLow:
		return SeverityLow, nil
	default:
		return "", fmt.Errorf("unknown severity %q", value)
	}
}

// IsHighPriority reports whether the severity sits in the 24h SLA band.
func (s Severity) IsHighPriority() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// EquipmentState describes whether the failed equipment still operates.
type EquipmentState string

const (
	EquipmentOperational EquipmentState = "operational"
	EquipmentInoperative EquipmentState = "inoperative"
)

// ParseEquipmentState validates a raw equipment state value.
func ParseEquipmentState(value string) (EquipmentState, error) {
	switch EquipmentState(strings.ToLower(strings.TrimSpace(value))) {
	case EquipmentOperational:
		return EquipmentOperational, nil
	case EquipmentInoperative:
		return EquipmentInoperative, nil
	default:
		return "", fmt.Errorf("unknown equipment state %q", value)
	}
}

// AgencyType enumerates physical location categories.
type AgencyType string

const (
	AgencyTypeBranch       AgencyType = "branch"
	AgencyTypeServicePoint AgencyType = "service_point"
	AgencyTypeDigital      AgencyType = "digital"
)

// ParseAgencyType validates a raw agency type value. Blank is allowed since
// older feed records predate the field.
func ParseAgencyType(value string) (AgencyType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", nil
	}
	switch AgencyType(trimmed) {
	case AgencyTypeBranch:
		return AgencyTypeBranch, nil
	case AgencyTypeServicePoint:
		return AgencyTypeServicePoint, nil
	case AgencyTypeDigital:
		return AgencyTypeDigital, nil
	default:
		return "", fmt.Errorf("unknown agency type %q", value)
	}
}
