package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is an immutable tagged union holding one cell of a value column.
// The zero Value is null.
type Value struct {
	kind Kind
	bits uint64 // bool, int64, float64 and duration payloads
	str  string
	ref  any // time.Time, []Value or an opaque value
}

// Null returns the null value
func Null() Value { return Value{} }

// Bool returns a boolean value
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = 1
	}
	return v
}

// Int returns an integer value
func Int(i int64) Value { return Value{kind: KindInt, bits: uint64(i)} }

// Float returns a floating point value
func Float(f float64) Value { return Value{kind: KindFloat, bits: math.Float64bits(f)} }

// String returns a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Time returns a timestamp value
func Time(t time.Time) Value { return Value{kind: KindTime, ref: t} }

// Duration returns a duration value
func Duration(d time.Duration) Value { return Value{kind: KindDuration, bits: uint64(d)} }

// List returns a list value; the slice is not copied.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, ref: items}
}

// Any wraps an opaque Go value
func Any(x any) Value {
	if x == nil {
		return Null()
	}
	return Value{kind: KindAny, ref: x}
}

// Of converts a native Go value to a Value.
func Of(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Bool(v)
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return Int(int64(v))
		}
		return Any(v)
	case uint64:
		if v <= math.MaxInt64 {
			return Int(int64(v))
		}
		return Any(v)
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case string:
		return String(v)
	case time.Time:
		return Time(v)
	case time.Duration:
		return Duration(v)
	case []Value:
		return List(v...)
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = Of(item)
		}
		return List(items...)
	default:
		return Any(v)
	}
}

// Kind returns the runtime kind of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload
func (v Value) AsBool() (bool, bool) { return v.bits == 1, v.kind == KindBool }

// AsInt returns the integer payload
func (v Value) AsInt() (int64, bool) { return int64(v.bits), v.kind == KindInt }

// AsFloat returns the float payload, widening integers
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return math.Float64frombits(v.bits), true
	case KindInt:
		return float64(int64(v.bits)), true
	default:
		return 0, false
	}
}

// AsString returns the string payload
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsTime returns the timestamp payload
func (v Value) AsTime() (time.Time, bool) {
	t, ok := v.ref.(time.Time)
	return t, ok && v.kind == KindTime
}

// AsDuration returns the duration payload
func (v Value) AsDuration() (time.Duration, bool) {
	return time.Duration(int64(v.bits)), v.kind == KindDuration
}

// AsList returns the list items
func (v Value) AsList() ([]Value, bool) {
	items, ok := v.ref.([]Value)
	return items, ok && v.kind == KindList
}

// Len returns the element count used when exploding rows: the list length
// for lists, 1 for any other value.
func (v Value) Len() int {
	if items, ok := v.AsList(); ok {
		return len(items)
	}
	return 1
}

// Interface returns the native Go representation (nil for null).
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.bits == 1
	case KindInt:
		return int64(v.bits)
	case KindFloat:
		return math.Float64frombits(v.bits)
	case KindString:
		return v.str
	case KindDuration:
		return time.Duration(int64(v.bits))
	case KindList:
		items, _ := v.AsList()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item.Interface()
		}
		return out
	default:
		return v.ref
	}
}

// String returns the display form also used for pivot column names.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.bits == 1)
	case KindInt:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindFloat:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case KindString:
		return v.str
	case KindTime:
		t, _ := v.AsTime()
		return t.Format(time.RFC3339Nano)
	case KindDuration:
		return time.Duration(int64(v.bits)).String()
	case KindList:
		items, _ := v.AsList()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v.ref)
	}
}

// Equal reports structural equality: same kind and same payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool, KindInt, KindDuration:
		return v.bits == o.bits
	case KindFloat:
		// bitwise, so 0.0 and -0.0 differ; every NaN equals every NaN
		return v.bits == o.bits ||
			(math.IsNaN(math.Float64frombits(v.bits)) && math.IsNaN(math.Float64frombits(o.bits)))
	case KindString:
		return v.str == o.str
	case KindTime:
		a, _ := v.AsTime()
		b, _ := o.AsTime()
		return a.Equal(b)
	case KindList:
		a, _ := v.AsList()
		b, _ := o.AsList()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	default:
		return fmt.Sprintf("%#v", v.ref) == fmt.Sprintf("%#v", o.ref)
	}
}

// Compare orders two values: nulls first, numbers numerically, other
// values of the same kind by payload, mixed kinds by kind.
func (v Value) Compare(o Value) int {
	if v.kind == KindNull || o.kind == KindNull {
		return cmpInt(boolRank(!v.IsNull()), boolRank(!o.IsNull()))
	}
	if v.kind == KindInt && o.kind == KindInt {
		a, b := int64(v.bits), int64(o.bits)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	if a, ok := v.AsFloat(); ok {
		if b, ok := o.AsFloat(); ok {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	}
	if v.kind != o.kind {
		return cmpInt(int(v.kind), int(o.kind))
	}
	switch v.kind {
	case KindBool, KindDuration:
		return cmpInt(int(int64(v.bits)), int(int64(o.bits)))
	case KindString:
		return strings.Compare(v.str, o.str)
	case KindTime:
		a, _ := v.AsTime()
		b, _ := o.AsTime()
		return a.Compare(b)
	case KindList:
		a, _ := v.AsList()
		b, _ := o.AsList()
		for i := 0; i < len(a) && i < len(b); i++ {
			if c := a[i].Compare(b[i]); c != 0 {
				return c
			}
		}
		return cmpInt(len(a), len(b))
	default:
		return strings.Compare(v.String(), o.String())
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
