package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// The accessors below read a column regardless of whether the record came from
// the memory store (Go values) or from Postgres (decoded JSON).

// String returns the column as a string, or "" when absent or NULL.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// StringPtr returns nil for an absent or NULL column.
func (r Record) StringPtr(key string) *string {
	if r[key] == nil {
		return nil
	}
	if p, ok := r[key].(*string); ok {
		return p
	}
	s := r.String(key)
	return &s
}

// Bool returns the column as a bool.
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case *bool:
		return v != nil && *v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// BoolPtr returns nil for an absent or NULL column.
func (r Record) BoolPtr(key string) *bool {
	if r[key] == nil {
		return nil
	}
	if p, ok := r[key].(*bool); ok {
		return p
	}
	b := r.Bool(key)
	return &b
}

// Decimal returns the column as a decimal, zero when absent.
func (r Record) Decimal(key string) decimal.Decimal {
	d, _ := toDecimal(r[key])
	return d
}

// DecimalPtr returns nil for an absent or NULL column.
func (r Record) DecimalPtr(key string) *decimal.Decimal {
	d, ok := toDecimal(r[key])
	if !ok {
		return nil
	}
	return &d
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// Int64 returns the column as an integer.
func (r Record) Int64(key string) int64 {
	switch n := r[key].(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, _ := n.Float64()
			return int64(f)
		}
		return i
	default:
		return 0
	}
}

// Float returns the column as a float64.
func (r Record) Float(key string) float64 {
	switch n := r[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case decimal.Decimal:
		return n.InexactFloat64()
	default:
		return 0
	}
}

// Time returns the column as a time, zero when absent or unparseable.
func (r Record) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v == nil {
			return time.Time{}
		}
		return *v
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

// TimePtr returns nil for an absent or NULL column.
func (r Record) TimePtr(key string) *time.Time {
	t := r.Time(key)
	if t.IsZero() {
		return nil
	}
	return &t
}

// Strings returns an array column as a string slice.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Map returns an object column, e.g. jsonb.
func (r Record) Map(key string) map[string]interface{} {
	switch v := r[key].(type) {
	case map[string]interface{}:
		return v
	case Record:
		return v
	default:
		return nil
	}
}
