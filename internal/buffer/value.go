package buffer

import "fmt"

// ValueKind identifies the variant of a property value.
type ValueKind uint8

// Property value kinds. Entry property maps are opaque to the core:
// scripts attach arbitrary metadata and read it back unchanged, but the
// values are typed rather than raw interface{} soup.
const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
	ValueMap
	ValueSeq
)

// Value is one property value: a tagged union of the primitive kinds a
// script can round-trip through an entry's property map.
type Value struct {
	Kind ValueKind

	Str  string
	Num  float64
	Bool bool
	Map  map[string]Value
	Seq  []Value
}

// StringValue creates a string property value.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// NumberValue creates a numeric property value.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Num: n}
}

// BoolValue creates a boolean property value.
func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

// ValueFromAny converts a bridge-produced Go value into a Value.
func ValueFromAny(v any) (Value, error) {
	switch val := v.(type) {
	case string:
		return StringValue(val), nil
	case bool:
		return BoolValue(val), nil
	case int:
		return NumberValue(float64(val)), nil
	case int64:
		return NumberValue(float64(val)), nil
	case float64:
		return NumberValue(val), nil
	case []any:
		seq := make([]Value, len(val))
		for i, item := range val {
			conv, err := ValueFromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			seq[i] = conv
		}
		return Value{Kind: ValueSeq, Seq: seq}, nil
	case map[string]any:
		m := make(map[string]Value, len(val))
		for k, item := range val {
			conv, err := ValueFromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = conv
		}
		return Value{Kind: ValueMap, Map: m}, nil
	case nil:
		return Value{}, fmt.Errorf("nil property value: %w", ErrInvalidArgument)
	default:
		return Value{}, fmt.Errorf("property value %T: %w", v, ErrInvalidArgument)
	}
}

// Any converts the value back to the generic shape the bridge consumes.
func (v Value) Any() any {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return v.Num
	case ValueBool:
		return v.Bool
	case ValueSeq:
		out := make([]any, len(v.Seq))
		for i, item := range v.Seq {
			out[i] = item.Any()
		}
		return out
	case ValueMap:
		out := make(map[string]any, len(v.Map))
		for k, item := range v.Map {
			out[k] = item.Any()
		}
		return out
	default:
		return nil
	}
}
