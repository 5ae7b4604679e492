// Package value provides the tagged value representation shared by every
// column of a DataFrame, together with runtime type descriptors and the
// widening rules used when columns of different types are merged.
package value

import "fmt"

// Kind identifies the runtime kind of a Value or column.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindDuration
	KindList
	KindAny
	// KindGroup and KindFrame only describe columns, never single values.
	KindGroup
	KindFrame
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int64",
	KindFloat:    "float64",
	KindString:   "string",
	KindTime:     "time",
	KindDuration: "duration",
	KindList:     "list",
	KindAny:      "any",
	KindGroup:    "group",
	KindFrame:    "frame",
}

// String returns the kind name
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("value: unknown kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name produced by MarshalText
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("value: unknown kind %q", text)
}

// Type is the runtime type descriptor of a column.
type Type struct {
	Kind     Kind
	Nullable bool
}

// TypeOf returns a non-nullable Type of kind k.
func TypeOf(k Kind) Type {
	return Type{Kind: k}
}

// NullableOf returns a nullable Type of kind k.
func NullableOf(k Kind) Type {
	return Type{Kind: k, Nullable: true}
}

// WithNullable returns t with the nullable flag set to nullable.
func (t Type) WithNullable(nullable bool) Type {
	t.Nullable = nullable
	return t
}

// String returns e.g. "int64" or "string?"
func (t Type) String() string {
	if t.Nullable && t.Kind != KindNull {
		return t.Kind.String() + "?"
	}
	return t.Kind.String()
}

// Accepts reports whether a value of kind k can be stored in a column of
// type t without conversion. Null is always accepted; nullability is
// widened by the caller.
func (t Type) Accepts(k Kind) bool {
	if k == KindNull || t.Kind == KindAny || t.Kind == k {
		return true
	}
	return t.Kind == KindFloat && k == KindInt
}

// widening resolves the common kind of two distinct non-null value kinds.
// Pairs missing from the table widen to KindAny.
var widening = map[[2]Kind]Kind{
	{KindInt, KindFloat}: KindFloat,
	{KindFloat, KindInt}: KindFloat,
}

// CommonKind returns the narrowest kind able to hold values of both a and b.
func CommonKind(a, b Kind) Kind {
	switch {
	case a == b:
		return a
	case a == KindNull:
		return b
	case b == KindNull:
		return a
	}
	if k, ok := widening[[2]Kind{a, b}]; ok {
		return k
	}
	return KindAny
}

// CommonType merges two column types.
func CommonType(a, b Type) Type {
	return Type{
		Kind:     CommonKind(a.Kind, b.Kind),
		Nullable: a.Nullable || b.Nullable || a.Kind == KindNull || b.Kind == KindNull,
	}
}

// InferType returns the common type of a set of values. An empty set or a
// set of only nulls yields a nullable KindNull type.
func InferType(values []Value) Type {
	t := Type{Kind: KindNull}
	for _, v := range values {
		if v.IsNull() {
			t.Nullable = true
			continue
		}
		t.Kind = CommonKind(t.Kind, v.Kind())
	}
	if t.Kind == KindNull {
		t.Nullable = true
	}
	return t
}
