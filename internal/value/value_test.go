package value_test

import (
	"math"
	"testing"
	"time"

	"github.com/paveg/canopy/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		kind value.Kind
	}{
		{"nil", nil, value.KindNull},
		{"int", 3, value.KindInt},
		{"int32", int32(3), value.KindInt},
		{"float32", float32(1.5), value.KindFloat},
		{"string", "x", value.KindString},
		{"bool", true, value.KindBool},
		{"time", ts, value.KindTime},
		{"duration", time.Second, value.KindDuration},
		{"list", []any{1, "a"}, value.KindList},
		{"struct", struct{ A int }{1}, value.KindAny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, value.Of(tt.in).Kind())
		})
	}
}

func TestEqualIsStructural(t *testing.T) {
	assert.True(t, value.Int(1).Equal(value.Int(1)))
	assert.False(t, value.Int(1).Equal(value.Float(1)))
	assert.True(t, value.Null().Equal(value.Null()))
	assert.True(t, value.List(value.Int(1), value.String("a")).Equal(value.Of([]any{1, "a"})))
	assert.False(t, value.List(value.Int(1)).Equal(value.List(value.Int(1), value.Int(2))))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, value.Null().Compare(value.Int(0)))
	assert.Equal(t, 1, value.Int(2).Compare(value.Float(1.5)))
	assert.Equal(t, 0, value.String("a").Compare(value.String("a")))
	assert.Equal(t, -1, value.String("a").Compare(value.String("b")))
}

func TestCompareLargeInts(t *testing.T) {
	big := value.Int(1 << 53)
	bigger := value.Int(1<<53 + 1)

	assert.Equal(t, 1, bigger.Compare(big))
	assert.Equal(t, -1, big.Compare(bigger))
	assert.Equal(t, 0, bigger.Compare(value.Int(1<<53+1)))
	assert.Equal(t, -1, value.Int(math.MinInt64).Compare(value.Int(math.MaxInt64)))
}

func TestFloatEqualityAgreesWithHash(t *testing.T) {
	tests := []struct {
		name  string
		a, b  value.Value
		equal bool
	}{
		{"signed zeros", value.Float(0), value.Float(math.Copysign(0, -1)), false},
		{"same zero", value.Float(0), value.Float(0), true},
		{"nan payloads", value.Float(math.NaN()), value.Float(math.Float64frombits(0x7ff8000000000001)), true},
		{"plain", value.Float(1.5), value.Float(1.5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			sameHash := value.HashTuple([]value.Value{tt.a}) == value.HashTuple([]value.Value{tt.b})
			if tt.equal {
				assert.True(t, sameHash)
			}
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "null", value.Null().String())
	assert.Equal(t, "42", value.Int(42).String())
	assert.Equal(t, "1.5", value.Float(1.5).String())
	assert.Equal(t, "[1, x]", value.List(value.Int(1), value.String("x")).String())
}

func TestLen(t *testing.T) {
	assert.Equal(t, 3, value.Of([]any{1, 2, 3}).Len())
	assert.Equal(t, 0, value.List().Len())
	assert.Equal(t, 1, value.Int(5).Len())
	assert.Equal(t, 1, value.Null().Len())
}

func TestCommonKind(t *testing.T) {
	tests := []struct {
		a, b, want value.Kind
	}{
		{value.KindInt, value.KindInt, value.KindInt},
		{value.KindInt, value.KindFloat, value.KindFloat},
		{value.KindNull, value.KindString, value.KindString},
		{value.KindString, value.KindInt, value.KindAny},
		{value.KindBool, value.KindTime, value.KindAny},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"_"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, value.CommonKind(tt.a, tt.b))
		})
	}
}

func TestInferType(t *testing.T) {
	assert.Equal(t, value.TypeOf(value.KindInt), value.InferType([]value.Value{value.Int(1), value.Int(2)}))
	assert.Equal(t, value.NullableOf(value.KindFloat),
		value.InferType([]value.Value{value.Int(1), value.Null(), value.Float(2)}))
	assert.Equal(t, value.NullableOf(value.KindNull), value.InferType(nil))
	assert.Equal(t, "int64?", value.NullableOf(value.KindInt).String())
}

func TestTupleIndex(t *testing.T) {
	idx := value.NewTupleIndex(4)
	keys := [][]value.Value{
		{value.String("London"), value.Int(1)},
		{value.String("Paris"), value.Int(1)},
		{value.String("London"), value.Int(1)},
		{value.String("London"), value.Int(2)},
	}
	for row, key := range keys {
		idx.Add(key, row)
	}

	require.Equal(t, 3, idx.Len())
	assert.Equal(t, []int{0, 2}, idx.Rows(0))
	assert.Equal(t, []int{1}, idx.Rows(1))
	assert.Equal(t, 2, idx.Lookup([]value.Value{value.String("London"), value.Int(2)}))
	assert.Equal(t, -1, idx.Lookup([]value.Value{value.String("Rome"), value.Int(2)}))
	assert.Equal(t, value.HashTuple(keys[0]), value.HashTuple(keys[2]))
}

func TestKindText(t *testing.T) {
	for _, k := range []value.Kind{value.KindNull, value.KindInt, value.KindGroup, value.KindFrame} {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var back value.Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	var k value.Kind
	assert.Error(t, k.UnmarshalText([]byte("decimal")))
	_, err := value.Kind(200).MarshalText()
	assert.Error(t, err)
}
