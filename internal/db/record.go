package db

import (
	"encoding/json"
	"math"

	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// Record is a raw document in storage-native form.
//
// Backends decode values into Go natives: string, bool, numeric types,
// []any, map[string]any and nil. The identifier lives under id.Field.
type Record map[string]any

// ID returns the record identifier as a string.
func (r Record) ID() string {
	return id.String(r[id.Field])
}

// String returns a string field or "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// StringPtr returns a string field or nil when absent or null.
func (r Record) StringPtr(key string) *string {
	s, ok := r[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// Float returns a numeric field as float64, or def when absent.
func (r Record) Float(key string, def float64) float64 {
	if f, ok := toFloat(r[key]); ok {
		return f
	}
	return def
}

// FloatPtr returns a numeric field or nil when absent or null.
func (r Record) FloatPtr(key string) *float64 {
	f, ok := toFloat(r[key])
	if !ok {
		return nil
	}
	return &f
}

// Int returns a numeric field truncated to int, or def when absent.
func (r Record) Int(key string, def int) int {
	if f, ok := toFloat(r[key]); ok {
		return int(f)
	}
	return def
}

// Bool returns a boolean field or def when absent.
func (r Record) Bool(key string, def bool) bool {
	if b, ok := r[key].(bool); ok {
		return b
	}
	return def
}

// Strings returns a string-array field. Non-string elements are skipped; absent yields an empty slice.
func (r Record) Strings(key string) []string {
	switch t := r[key].(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// Map returns an object field or nil.
func (r Record) Map(key string) map[string]any {
	m, _ := r[key].(map[string]any)
	return m
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
