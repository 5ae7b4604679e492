// Package series provides the value column: a named, typed, immutable
// sequence of values.
package series

import (
	"fmt"
	"slices"
	"time"

	"github.com/paveg/canopy/internal/convert"
	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/value"
)

// Native lists the Go element types accepted by New.
type Native interface {
	bool | int | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 |
		float32 | float64 | string | time.Time | time.Duration
}

// Series represents a typed value column
type Series struct {
	name   string
	values []value.Value
	typ    value.Type
}

// New creates a new Series from a slice of native values
func New[T Native](name string, values []T) *Series {
	var zero T
	vals := make([]value.Value, len(values))
	for i, v := range values {
		vals[i] = value.Of(v)
	}
	return &Series{
		name:   name,
		values: vals,
		typ:    value.TypeOf(value.Of(zero).Kind()),
	}
}

// NewNullable creates a Series from pointers, nil pointers becoming nulls
func NewNullable[T Native](name string, values []*T) *Series {
	var zero T
	vals := make([]value.Value, len(values))
	nullable := false
	for i, v := range values {
		if v == nil {
			nullable = true
			continue
		}
		vals[i] = value.Of(*v)
	}
	return &Series{
		name:   name,
		values: vals,
		typ:    value.Type{Kind: value.Of(zero).Kind(), Nullable: nullable},
	}
}

// FromValues creates a Series whose type is inferred from the values
func FromValues(name string, values []value.Value) *Series {
	s, _ := assign("FromValues", name, values, value.InferType(values))
	return s
}

// Of creates a Series from arbitrary Go values, inferring the type
func Of(name string, values ...any) *Series {
	vals := make([]value.Value, len(values))
	for i, v := range values {
		vals[i] = value.Of(v)
	}
	return FromValues(name, vals)
}

// NewWithType creates a Series with an explicit type. Values must be
// assignable to the type.
func NewWithType(name string, values []value.Value, typ value.Type) (*Series, error) {
	return assign("NewWithType", name, values, typ)
}

// Nulls creates a Series of n nulls with the given kind
func Nulls(name string, n int, kind value.Kind) *Series {
	return &Series{name: name, values: make([]value.Value, n), typ: value.NullableOf(kind)}
}

// Name returns the column name
func (s *Series) Name() string {
	return s.name
}

// Len returns the length of the series
func (s *Series) Len() int {
	return len(s.values)
}

// Type returns the declared element type
func (s *Series) Type() value.Type {
	return s.typ
}

// Values returns a copy of the values
func (s *Series) Values() []value.Value {
	return slices.Clone(s.values)
}

// Value returns the value at index without bounds checking beyond the
// runtime's own.
func (s *Series) Value(index int) value.Value {
	return s.values[index]
}

// Get returns the value at the given index
func (s *Series) Get(index int) (any, error) {
	if index < 0 || index >= len(s.values) {
		return nil, dferrors.NewIndexError("Get", index, len(s.values))
	}
	return s.values[index], nil
}

// IsNull checks if the value at index is null
func (s *Series) IsNull(index int) bool {
	return s.values[index].IsNull()
}

// GetAsString returns the display form of the value at index
func (s *Series) GetAsString(index int) string {
	return s.values[index].String()
}

// HasNulls reports whether any element is null
func (s *Series) HasNulls() bool {
	for _, v := range s.values {
		if v.IsNull() {
			return true
		}
	}
	return false
}

// Rename returns a Series with the new name; the receiver itself when the
// name is unchanged.
func (s *Series) Rename(name string) *Series {
	if name == s.name {
		return s
	}
	return &Series{name: name, values: s.values, typ: s.typ}
}

// WithNullable returns a Series whose type has the given nullability.
func (s *Series) WithNullable(nullable bool) *Series {
	if s.typ.Nullable == nullable {
		return s
	}
	return &Series{name: s.name, values: s.values, typ: s.typ.WithNullable(nullable)}
}

// Slice returns rows [start, end). The result shares storage.
func (s *Series) Slice(start, end int) *Series {
	return &Series{name: s.name, values: s.values[start:end:end], typ: s.typ}
}

// Take gathers rows by index. A negative index produces a null and forces
// the type nullable.
func (s *Series) Take(indices []int) *Series {
	vals := make([]value.Value, len(indices))
	typ := s.typ
	for i, idx := range indices {
		if idx < 0 {
			typ.Nullable = true
			continue
		}
		vals[i] = s.values[idx]
	}
	return &Series{name: s.name, values: vals, typ: typ}
}

// Filter keeps the rows for which pred returns true
func (s *Series) Filter(pred func(index int, v value.Value) bool) *Series {
	vals := make([]value.Value, 0, len(s.values))
	for i, v := range s.values {
		if pred(i, v) {
			vals = append(vals, v)
		}
	}
	return &Series{name: s.name, values: vals, typ: s.typ}
}

// ReplaceAll rebuilds the column from new values of the same length. Each
// value must be assignable to the declared kind; integers stored in float
// columns are widened and nulls widen nullability.
func (s *Series) ReplaceAll(values []value.Value) (*Series, error) {
	if len(values) != len(s.values) {
		return nil, dferrors.NewValidationError("ReplaceAll", s.name,
			fmt.Sprintf("expected %d values, got %d", len(s.values), len(values)))
	}
	return assign("ReplaceAll", s.name, values, s.typ)
}

func assign(op, name string, values []value.Value, typ value.Type) (*Series, error) {
	vals := make([]value.Value, len(values))
	for i, v := range values {
		if !typ.Accepts(v.Kind()) {
			return nil, dferrors.NewTypeError(op, name,
				fmt.Sprintf("value %v of kind %s at row %d is not assignable to %s", v, v.Kind(), i, typ))
		}
		switch {
		case v.IsNull():
			typ.Nullable = true
		case typ.Kind == value.KindFloat && v.Kind() == value.KindInt:
			f, _ := v.AsFloat()
			v = value.Float(f)
		}
		vals[i] = v
	}
	return &Series{name: name, values: vals, typ: typ}, nil
}

// ConvertTo converts every element to kind using reg. A missing converter
// is an error; a converter failing on one element turns that element into
// null and makes the result nullable.
func (s *Series) ConvertTo(reg *convert.Registry, kind value.Kind) (*Series, error) {
	if s.typ.Kind == kind {
		return s, nil
	}
	typ := value.Type{Kind: kind, Nullable: s.typ.Nullable}
	vals := make([]value.Value, len(s.values))
	for i, v := range s.values {
		if v.IsNull() || v.Kind() == kind {
			vals[i] = v
			continue
		}
		fn, ok := reg.Lookup(v.Kind(), kind)
		if !ok {
			return nil, dferrors.NewTypeError("ConvertTo", s.name,
				fmt.Sprintf("no converter from %s to %s", v.Kind(), kind))
		}
		converted, err := fn(v)
		if err != nil {
			typ.Nullable = true
			continue
		}
		vals[i] = converted
	}
	return &Series{name: s.name, values: vals, typ: typ}, nil
}

// Equal reports whether both series have the same name, type and values
func (s *Series) Equal(o *Series) bool {
	if s.name != o.name || s.typ != o.typ || len(s.values) != len(o.values) {
		return false
	}
	return value.TupleEqual(s.values, o.values)
}

// String returns a string representation of the series
func (s *Series) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)", s.typ, s.name, s.Len())
}
