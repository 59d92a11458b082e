package script

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Offset is an authored reveal time. Numbers are milliseconds, strings are
// Go durations ("1.5s"). Negative or unparseable values become zero; Clamped
// records that this happened so validation can report it.
type Offset struct {
	D       time.Duration
	Clamped bool
}

// UnmarshalYAML never fails: an invalid offset is clamped, not rejected.
func (o *Offset) UnmarshalYAML(node *yaml.Node) error {
	o.D, o.Clamped = parseOffset(node)
	return nil
}

// JSONSchema describes the accepted authoring forms.
func (Offset) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "number", Description: "milliseconds from conversation start"},
			{Type: "string", Description: "Go duration from conversation start, e.g. 1.5s"},
		},
	}
}

func parseOffset(node *yaml.Node) (time.Duration, bool) {
	if node == nil || node.Kind == 0 {
		return 0, false
	}
	if node.Kind != yaml.ScalarNode {
		return 0, true
	}
	value := strings.TrimSpace(node.Value)
	if value == "" || node.Tag == "!!null" {
		return 0, false
	}

	if ms, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
			return 0, true
		}
		return time.Duration(ms * float64(time.Millisecond)), false
	}

	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, true
	}
	return d, false
}

// ClampOffset applies the same rule to an offset built in code.
func ClampOffset(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
