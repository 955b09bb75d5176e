package domain

import (
	"fmt"
	"sort"
)

// MetaKind identifies the shape of a MetaValue.
type MetaKind int

// Metadata value kinds supported by the vector index.
const (
	// MetaString is a plain string value.
	MetaString MetaKind = iota

	// MetaNumber is a numeric value (stored as float64).
	MetaNumber

	// MetaBool is a boolean value.
	MetaBool

	// MetaStringList is a list of strings.
	MetaStringList
)

// MetaValue is a metadata value restricted to the shapes the vector
// index accepts: string, number, boolean, or list of strings.
// The zero value is the empty string.
type MetaValue struct {
	kind MetaKind
	str  string
	num  float64
	b    bool
	list []string
}

// String constructs a string metadata value.
func String(s string) MetaValue { return MetaValue{kind: MetaString, str: s} }

// Number constructs a numeric metadata value.
func Number(n float64) MetaValue { return MetaValue{kind: MetaNumber, num: n} }

// Bool constructs a boolean metadata value.
func Bool(b bool) MetaValue { return MetaValue{kind: MetaBool, b: b} }

// StringList constructs a string-list metadata value.
func StringList(list []string) MetaValue {
	return MetaValue{kind: MetaStringList, list: list}
}

// Kind returns the shape of the value.
func (v MetaValue) Kind() MetaKind { return v.kind }

// Str returns the string content. Valid for MetaString.
func (v MetaValue) Str() string { return v.str }

// Num returns the numeric content. Valid for MetaNumber.
func (v MetaValue) Num() float64 { return v.num }

// Boolean returns the boolean content. Valid for MetaBool.
func (v MetaValue) Boolean() bool { return v.b }

// List returns the string-list content. Valid for MetaStringList.
func (v MetaValue) List() []string { return v.list }

// Interface returns the value as a plain Go value, the inverse of
// sanitization for round-trip checks.
func (v MetaValue) Interface() any {
	switch v.kind {
	case MetaNumber:
		return v.num
	case MetaBool:
		return v.b
	case MetaStringList:
		return v.list
	default:
		return v.str
	}
}

// Metadata is a sanitized metadata map safe to persist in the index.
type Metadata map[string]MetaValue

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts the metadata back to a plain map.
func (m Metadata) Interface() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}

// SanitizeMetadata converts an arbitrary metadata map into the shapes
// the vector index accepts. It is total: every input produces a valid
// result. Nil values are dropped, primitives are kept, lists become
// lists of strings, and anything else is stringified.
//
// Sanitizing an already-sanitized map (via Interface) is a no-op.
func SanitizeMetadata(raw map[string]any) Metadata {
	clean := make(Metadata, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		clean[k] = sanitizeValue(v)
	}
	return clean
}

// sanitizeValue coerces a single value into a MetaValue.
func sanitizeValue(v any) MetaValue {
	switch val := v.(type) {
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case int:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case float32:
		return Number(float64(val))
	case float64:
		return Number(val)
	case []string:
		return StringList(append([]string(nil), val...))
	case []any:
		list := make([]string, len(val))
		for i, item := range val {
			list[i] = stringify(item)
		}
		return StringList(list)
	default:
		return String(stringify(val))
	}
}

// stringify renders a non-primitive value as a string.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
