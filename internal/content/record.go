package content

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	// OrderField is the optional numeric sort key of a record.
	OrderField = "order"
	// TitleField is the conventional display title of a record.
	TitleField = "title"
	// SourceField is the synthetic field holding the project-relative source path.
	SourceField = "_file"
	// DefaultOrder is used for records without a numeric order so they sort last.
	DefaultOrder = 1_000_000
)

// Record is one parsed JSON content file. Keys are passed to templates verbatim.
type Record map[string]any

// Set is an ordered collection of records, unique by resolved source path.
type Set []Record

// Title returns the record's title, or "" when it is absent or not a string.
func (r Record) Title() string {
	s, _ := r[TitleField].(string)
	return s
}

// Source returns the project-relative path the record was loaded from.
func (r Record) Source() string {
	s, _ := r[SourceField].(string)
	return s
}

// Order returns the record's numeric order. ok is false when the field is
// missing; err is set when it is present but not a finite number.
func (r Record) Order() (order float64, ok bool, err error) {
	v, present := r[OrderField]
	if !present {
		return DefaultOrder, false, nil
	}
	var f float64
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
		if err != nil {
			return DefaultOrder, false, fmt.Errorf("order %q: %w", n.String(), err)
		}
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return DefaultOrder, false, fmt.Errorf("order must be a number, got %s", kindOf(v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultOrder, false, fmt.Errorf("order must be finite, got %v", f)
	}
	return f, true, nil
}

// Titles lists the titles of every record in order.
func (s Set) Titles() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, r.Title())
	}
	return out
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
