// Package baselines provides the static reference table the criticality
// scorer measures equipment groups against.
package baselines

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultKey is the fallback row applied to equipment types missing from the table.
const DefaultKey = "default"

// Baseline carries the expected reference values for one equipment type.
type Baseline struct {
	AgingDays    float64 `yaml:"agingDays"`
	VolumeCount  float64 `yaml:"volumeCount"`
	SLABreachPct float64 `yaml:"slaBreachPct"`
}

// Table is an immutable lookup of equipment baselines with a guaranteed
// default entry. Lookup never fails; unknown equipment falls back to default.
type Table struct {
	entries  map[string]Baseline
	fallback Baseline
}

// Default returns the built-in table containing only the default row.
func Default() Table {
	return Table{fallback: Baseline{AgingDays: 7, VolumeCount: 3, SLABreachPct: 15}}
}

// New builds a table from explicit entries. The entry keyed "default"
// overrides the built-in fallback when present.
func New(entries map[string]Baseline) Table {
	t := Default()
	if len(entries) == 0 {
		return t
	}
	t.entries = make(map[string]Baseline, len(entries))
	for name, b := range entries {
		if name == DefaultKey {
			t.fallback = b
			continue
		}
		t.entries[name] = b
	}
	return t
}

// Load reads a YAML baseline table keyed by equipment name. A missing file is
// an error; a file without a default row keeps the built-in fallback.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read baselines: %w", err)
	}
	var entries map[string]Baseline
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return Table{}, fmt.Errorf("parse baselines: %w", err)
	}
	return New(entries), nil
}

// Lookup returns the baseline for an equipment type, falling back to the
// default row. Scoring therefore never aborts for an uncatalogued equipment.
func (t Table) Lookup(equipment string) Baseline {
	if b, ok := t.entries[equipment]; ok {
		return b
	}
	return t.fallback
}
