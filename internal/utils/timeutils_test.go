package utils

import (
	"testing"
	"time"
)

func TestParseTimestampLayouts(t *testing.T) {
	cases := []string{
		"2026-03-10T12:00:00Z",
		"2026-03-10T12:00:00.123456789Z",
		"2026-03-10 12:00:00",
		"2026-03-10T12:00:00",
		"10/03/2026 12:00:00",
		"10/03/2026 12:00",
		"2026-03-10",
	}
	for _, raw := range cases {
		parsed, ok := ParseTimestamp(raw)
		if !ok {
			t.Fatalf("ParseTimestamp(%q) failed", raw)
		}
		if parsed.Year() != 2026 || parsed.Month() != time.March || parsed.Day() != 10 {
			t.Fatalf("ParseTimestamp(%q) = %v", raw, parsed)
		}
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	for _, raw := range []string{"", "  ", "31/02/2026 09:00:00", "March 10th", "1741608000"} {
		if _, ok := ParseTimestamp(raw); ok {
			t.Fatalf("ParseTimestamp(%q) should fail", raw)
		}
	}
}

