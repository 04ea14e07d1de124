package airtable

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one row in a remote table: the store's internal identifier plus a
// mapping of field name to value.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// EqualsFormula renders the store's field-equality filter expression.
func EqualsFormula(field, value string) string {
	return fmt.Sprintf("{%s} = '%s'", field, value)
}

// String returns the named field coerced to a string. Missing fields yield "".
func (r *Record) String(name string) string {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return ""
	}

	switch typed := v.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Float returns the named field coerced to a float64. Missing or
// non-numeric fields yield 0.
func (r *Record) Float(name string) float64 {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return 0
	}

	switch typed := v.(type) {
	case float64:
		return typed
	case int:
		return float64(typed)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int returns the named field coerced to an int.
func (r *Record) Int(name string) int {
	return int(r.Float(name))
}

// Strings returns the named field as a slice of strings. Scalar string values
// become a one-element slice; list values keep their order.
func (r *Record) Strings(name string) []string {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return nil
	}

	switch typed := v.(type) {
	case []string:
		return typed
	case []any:
		values := make([]string, 0, len(typed))
		for _, item := range typed {
			if item == nil {
				continue
			}
			values = append(values, fmt.Sprintf("%v", item))
		}
		return values
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	default:
		return nil
	}
}

// FirstLink returns the first record ID of a linked-record field. Linked
// fields arrive from the store as a list of record IDs.
func (r *Record) FirstLink(name string) string {
	links := r.Strings(name)
	if len(links) == 0 {
		return ""
	}
	return links[0]
}
