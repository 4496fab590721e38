package utils

import (
	"strings"
	"time"
)

// creationLayouts are the timestamp formats the upstream occurrence feed has
// been observed to emit, tried in order.
var creationLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a raw feed timestamp. ok is false when no known
// layout matches; callers keep the raw value and treat the record as having a
// malformed creation time rather than substituting "now".
func ParseTimestamp(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range creationLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
