package convert_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/paveg/canopy/internal/convert"
	"github.com/paveg/canopy/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConversions(t *testing.T) {
	reg := convert.NewDefaultRegistry()

	tests := []struct {
		name string
		in   value.Value
		to   value.Kind
		want value.Value
	}{
		{"int to float", value.Int(2), value.KindFloat, value.Float(2)},
		{"integral float to int", value.Float(3), value.KindInt, value.Int(3)},
		{"string to int", value.String(" 42 "), value.KindInt, value.Int(42)},
		{"string to float", value.String("1.25"), value.KindFloat, value.Float(1.25)},
		{"string to bool", value.String("true"), value.KindBool, value.Bool(true)},
		{"int to string", value.Int(7), value.KindString, value.String("7")},
		{"bool to int", value.Bool(true), value.KindInt, value.Int(1)},
		{"string to duration", value.String("1m"), value.KindDuration, value.Duration(time.Minute)},
		{"null stays null", value.Null(), value.KindInt, value.Null()},
		{"same kind", value.String("a"), value.KindString, value.String("a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Convert(tt.in, tt.to)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestTemporalConversions(t *testing.T) {
	reg := convert.NewDefaultRegistry()

	got, err := reg.Convert(value.String("2024-03-01"), value.KindTime)
	require.NoError(t, err)
	ts, ok := got.AsTime()
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	millis, err := reg.Convert(got, value.KindInt)
	require.NoError(t, err)
	back, err := reg.Convert(millis, value.KindTime)
	require.NoError(t, err)
	assert.True(t, got.Equal(back))
}

func TestConversionFailures(t *testing.T) {
	reg := convert.NewDefaultRegistry()

	_, err := reg.Convert(value.String("abc"), value.KindInt)
	require.Error(t, err)
	assert.NotErrorIs(t, err, convert.ErrNoConverter)

	_, err = reg.Convert(value.Float(1.5), value.KindInt)
	require.Error(t, err)

	_, err = reg.Convert(value.Bool(true), value.KindTime)
	assert.ErrorIs(t, err, convert.ErrNoConverter)
}

func TestFloatToIntBounds(t *testing.T) {
	reg := convert.NewDefaultRegistry()

	tests := []struct {
		name string
		in   float64
		want value.Value
		ok   bool
	}{
		{"two to the 63", math.Exp2(63), value.Null(), false},
		{"minus two to the 63", -math.Exp2(63), value.Int(math.MinInt64), true},
		{"largest below two to the 63", math.Nextafter(math.Exp2(63), 0), value.Int(int64(math.Nextafter(math.Exp2(63), 0))), true},
		{"infinity", math.Inf(1), value.Null(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Convert(value.Float(tt.in), value.KindInt)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestRegistryMemoizesLookups(t *testing.T) {
	reg := convert.NewDefaultRegistry()
	assert.Equal(t, 0, reg.CacheSize())

	_, ok := reg.Lookup(value.KindInt, value.KindFloat)
	require.True(t, ok)
	_, ok = reg.Lookup(value.KindInt, value.KindFloat)
	require.True(t, ok)
	_, ok = reg.Lookup(value.KindBool, value.KindTime)
	require.False(t, ok)
	assert.Equal(t, 2, reg.CacheSize())

	reg.Register(value.KindBool, value.KindTime, func(v value.Value) (value.Value, error) {
		return value.Null(), errors.New("unused")
	})
	assert.Equal(t, 0, reg.CacheSize())
	_, ok = reg.Lookup(value.KindBool, value.KindTime)
	assert.True(t, ok)
}

func TestEmptyRegistry(t *testing.T) {
	reg := convert.NewRegistry()

	_, ok := reg.Lookup(value.KindInt, value.KindFloat)
	assert.False(t, ok)
	_, ok = reg.Lookup(value.KindInt, value.KindAny)
	assert.True(t, ok)
}
