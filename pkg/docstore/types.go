package docstore

import (
	"fmt"
	"time"
)

type sentinel int

// ServerTimestamp used as a field value on Create or Update is replaced by the backend's clock.
const ServerTimestamp sentinel = 1

func (s sentinel) String() string { return "ServerTimestamp" }

// Fields is the payload of a document, keyed by field name.
type Fields map[string]any

// Document is a stored record with its id attached.
type Document struct {
	ID     string
	Fields Fields
}

// Filter is an equality condition on a top-level field.
type Filter struct {
	Field string
	Value any
}

// Eq builds a Filter matching documents whose field equals value.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// ListOptions holds filter, ordering and pagination parameters for List.
type ListOptions struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Clone returns a shallow copy of f with ServerTimestamp values replaced by now.
func (f Fields) Clone(now time.Time) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if v == ServerTimestamp {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

// Has reports whether key is present, even with a nil value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the string at key, or "".
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

// Float returns the number at key as float64. ok is false when absent or not numeric.
func (f Fields) Float(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Int returns the number at key as int.
func (f Fields) Int(key string) int {
	n, _ := f.Float(key)
	return int(n)
}

// Bool returns the bool at key, or def when absent.
func (f Fields) Bool(key string, def bool) bool {
	if v, ok := f[key].(bool); ok {
		return v
	}
	return def
}

// Time returns the timestamp at key. RFC 3339 strings are accepted for text backends.
func (f Fields) Time(key string) time.Time {
	switch v := f[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Strings returns the list of strings at key.
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
