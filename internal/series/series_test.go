package series

import (
	"testing"
	"time"

	"github.com/paveg/canopy/internal/convert"
	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeries(t *testing.T) {
	tests := []struct {
		name        string
		series      *Series
		expectedLen int
		expected    value.Type
	}{
		{"string series", New("names", []string{"alice", "bob", "charlie"}), 3, value.TypeOf(value.KindString)},
		{"int64 series", New("ages", []int64{25, 30, 35}), 3, value.TypeOf(value.KindInt)},
		{"int32 series", New("ages", []int32{25, 30}), 2, value.TypeOf(value.KindInt)},
		{"float64 series", New("scores", []float64{85.5, 92.0, 78.3}), 3, value.TypeOf(value.KindFloat)},
		{"bool series", New("active", []bool{true, false, true}), 3, value.TypeOf(value.KindBool)},
		{"time series", New("at", []time.Time{time.Now()}), 1, value.TypeOf(value.KindTime)},
		{"empty string series", New("empty", []string{}), 0, value.TypeOf(value.KindString)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedLen, tt.series.Len())
			assert.Equal(t, tt.expected, tt.series.Type())
		})
	}
}

func TestNewNullable(t *testing.T) {
	one, three := int64(1), int64(3)
	s := NewNullable("n", []*int64{&one, nil, &three})

	assert.Equal(t, value.NullableOf(value.KindInt), s.Type())
	assert.True(t, s.IsNull(1))
	assert.Equal(t, "3", s.GetAsString(2))
}

func TestOfInfersWidenedType(t *testing.T) {
	s := Of("mixed", 1, 2.5, nil)
	assert.Equal(t, value.NullableOf(value.KindFloat), s.Type())

	s = Of("any", 1, "a")
	assert.Equal(t, value.KindAny, s.Type().Kind)
}

func TestGet(t *testing.T) {
	s := New("a", []int64{1, 2, 3})

	v, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)

	_, err = s.Get(3)
	require.ErrorIs(t, err, dferrors.ErrIndexOutOfBounds)
	_, err = s.Get(-1)
	require.ErrorIs(t, err, dferrors.ErrIndexOutOfBounds)
}

func TestRename(t *testing.T) {
	s := New("a", []int64{1})
	assert.Same(t, s, s.Rename("a"))

	renamed := s.Rename("b")
	assert.Equal(t, "b", renamed.Name())
	assert.Equal(t, "a", s.Name())
}

func TestTakeSliceFilter(t *testing.T) {
	s := New("a", []int64{10, 20, 30, 40})

	taken := s.Take([]int{3, -1, 0})
	assert.Equal(t, []value.Value{value.Int(40), value.Null(), value.Int(10)}, taken.Values())
	assert.True(t, taken.Type().Nullable)
	assert.False(t, s.Type().Nullable)

	sliced := s.Slice(1, 3)
	assert.Equal(t, []value.Value{value.Int(20), value.Int(30)}, sliced.Values())

	filtered := s.Filter(func(_ int, v value.Value) bool {
		i, _ := v.AsInt()
		return i > 15
	})
	assert.Equal(t, 3, filtered.Len())
}

func TestReplaceAll(t *testing.T) {
	s := New("price", []float64{1, 2})

	t.Run("widens ints and nulls", func(t *testing.T) {
		replaced, err := s.ReplaceAll([]value.Value{value.Int(3), value.Null()})
		require.NoError(t, err)
		assert.Equal(t, value.NullableOf(value.KindFloat), replaced.Type())
		assert.Equal(t, value.Float(3), replaced.Value(0))
	})

	t.Run("rejects unassignable values", func(t *testing.T) {
		_, err := s.ReplaceAll([]value.Value{value.String("x"), value.Float(1)})
		require.ErrorIs(t, err, dferrors.ErrTypeIncompatibility)
	})

	t.Run("rejects length mismatch", func(t *testing.T) {
		_, err := s.ReplaceAll([]value.Value{value.Float(1)})
		require.ErrorIs(t, err, dferrors.ErrInvalidInput)
	})
}

func TestConvertTo(t *testing.T) {
	reg := convert.NewDefaultRegistry()

	t.Run("parse strings", func(t *testing.T) {
		s := New("n", []string{"1", "2"})
		converted, err := s.ConvertTo(reg, value.KindInt)
		require.NoError(t, err)
		assert.Equal(t, value.TypeOf(value.KindInt), converted.Type())
		assert.Equal(t, []value.Value{value.Int(1), value.Int(2)}, converted.Values())
	})

	t.Run("failed element becomes null", func(t *testing.T) {
		s := New("n", []string{"1", "oops"})
		converted, err := s.ConvertTo(reg, value.KindInt)
		require.NoError(t, err)
		assert.True(t, converted.Type().Nullable)
		assert.True(t, converted.IsNull(1))
	})

	t.Run("missing converter fails", func(t *testing.T) {
		s := New("b", []bool{true})
		_, err := s.ConvertTo(reg, value.KindTime)
		require.ErrorIs(t, err, dferrors.ErrTypeIncompatibility)
	})

	t.Run("nulls pass through", func(t *testing.T) {
		s := Of("n", "1", nil)
		converted, err := s.ConvertTo(reg, value.KindInt)
		require.NoError(t, err)
		assert.True(t, converted.IsNull(1))
	})
}

func TestSeriesString(t *testing.T) {
	s := New("age", []int64{1, 2})
	assert.Equal(t, "Series[int64]: age (len=2)", s.String())
}
