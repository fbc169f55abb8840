// Package settings holds loosely typed key/value tables used to configure
// level generation and environments. Values come from YAML documents,
// command-line key=value pairs or code, and are read back with typed
// lookups that distinguish a missing key from one of the wrong type.
package settings

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LookupResult reports the outcome of a typed read.
type LookupResult int

const (
	NotFound LookupResult = iota
	Found
	TypeMismatch
)

// String returns the result name.
func (r LookupResult) String() string {
	switch r {
	case NotFound:
		return "NotFound"
	case Found:
		return "Found"
	case TypeMismatch:
		return "TypeMismatch"
	default:
		return "Unknown"
	}
}

// Table maps keys to scalar values.
type Table map[string]any

// Insert sets key to value, replacing any previous value.
func (t Table) Insert(key string, value any) {
	t[key] = value
}

// Keys returns the table keys in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge copies every entry of other into t.
func (t Table) Merge(other Table) {
	for k, v := range other {
		t[k] = v
	}
}

// LookupInt reads an integral value. Floats without a fractional part and
// numeric strings are accepted.
func (t Table) LookupInt(key string) (int, LookupResult) {
	v, ok := t[key]
	if !ok {
		return 0, NotFound
	}
	n, ok := toInt64(v)
	if !ok || n < math.MinInt || n > math.MaxInt {
		return 0, TypeMismatch
	}
	return int(n), Found
}

// LookupUint32 reads an integral value in [0, 2^32).
func (t Table) LookupUint32(key string) (uint32, LookupResult) {
	v, ok := t[key]
	if !ok {
		return 0, NotFound
	}
	n, ok := toInt64(v)
	if !ok || n < 0 || n > math.MaxUint32 {
		return 0, TypeMismatch
	}
	return uint32(n), Found
}

// LookupFloat reads a numeric value.
func (t Table) LookupFloat(key string) (float64, LookupResult) {
	v, ok := t[key]
	if !ok {
		return 0, NotFound
	}
	switch x := v.(type) {
	case float64:
		return x, Found
	case float32:
		return float64(x), Found
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, TypeMismatch
		}
		return f, Found
	}
	if n, ok := toInt64(v); ok {
		return float64(n), Found
	}
	return 0, TypeMismatch
}

// LookupString reads a string value. Numbers are not converted.
func (t Table) LookupString(key string) (string, LookupResult) {
	v, ok := t[key]
	if !ok {
		return "", NotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", TypeMismatch
	}
	return s, Found
}

// LookupBool reads a boolean value.
func (t Table) LookupBool(key string) (bool, LookupResult) {
	v, ok := t[key]
	if !ok {
		return false, NotFound
	}
	switch x := v.(type) {
	case bool:
		return x, Found
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, TypeMismatch
		}
		return b, Found
	}
	return false, TypeMismatch
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), x <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case float32:
		return floatToInt64(float64(x))
	case float64:
		return floatToInt64(x)
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 0, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt64(f)
		}
	}
	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// FromYAML decodes a flat YAML mapping into a table. Nested mappings are
// flattened into dotted keys.
func FromYAML(data []byte) (Table, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("settings: cannot parse yaml: %w", err)
	}
	t := Table{}
	flatten(t, "", raw)
	return t, nil
}

func flatten(t Table, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(t, key, nested)
			continue
		}
		t[key] = v
	}
}

// FromFlags builds a table from key=value pairs. Values are decoded as YAML
// scalars so "width=14" stores an int and "name=level" a string.
func FromFlags(pairs []string) (Table, error) {
	t := Table{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("settings: expected key=value, got %q", pair)
		}
		var decoded any
		if err := yaml.Unmarshal([]byte(value), &decoded); err != nil || decoded == nil {
			decoded = value
		}
		switch decoded.(type) {
		case map[string]any, []any:
			decoded = value
		}
		t[key] = decoded
	}
	return t, nil
}
