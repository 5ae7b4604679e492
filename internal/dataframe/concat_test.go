//nolint:testpackage // tests reach unexported helpers
package dataframe

import (
	"testing"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcat(t *testing.T) {
	t.Run("union of columns", func(t *testing.T) {
		a := MustNew(series.New("x", []int64{1, 2}))
		b := MustNew(series.New("y", []string{"p"}), series.New("x", []float64{2.5}))

		out, err := Concat(a, nil, b)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())
		assert.Equal(t, []string{"x", "y"}, out.ColumnNames())
		assert.Equal(t, value.TypeOf(value.KindFloat), mustSeries(t, out, "x").Type())
		assert.Equal(t, []any{1.0, 2.0, 2.5}, cells(t, out, "x"))
		assert.Equal(t, []any{nil, nil, "p"}, cells(t, out, "y"))
		assert.Equal(t, value.NullableOf(value.KindString), mustSeries(t, out, "y").Type())
	})

	t.Run("mixed kinds widen to any", func(t *testing.T) {
		out, err := Concat(MustNew(series.New("x", []int64{1})), MustNew(series.New("x", []string{"a"})))
		require.NoError(t, err)
		assert.Equal(t, value.TypeOf(value.KindAny), mustSeries(t, out, "x").Type())
	})

	t.Run("groups merge recursively", func(t *testing.T) {
		top, err := people(t).Slice(0, 2)
		require.NoError(t, err)
		bottom, err := people(t).Drop(Path("name", "lastName"))
		require.NoError(t, err)

		out, err := Concat(top, bottom)
		require.NoError(t, err)
		assert.Equal(t, 9, out.Len())
		assert.Equal(t, []string{"firstName", "lastName"}, groupNames(t, out, "name"))
		assert.Equal(t, []any{"Cooper", "Dylan", nil, nil, nil, nil, nil, nil, nil}, cells(t, out, "name.lastName"))
	})

	t.Run("missing group", func(t *testing.T) {
		top := MustNew(series.New("id", []int64{1}))
		out, err := Concat(top, people(t).slice(0, 1))
		require.NoError(t, err)
		assert.Equal(t, []any{nil, "Alice"}, cells(t, out, "name.firstName"))
	})

	t.Run("frame cells", func(t *testing.T) {
		inner := MustNew(series.New("k", []int64{1}))
		a := MustNew(NewFrameColumn("f", []*DataFrame{inner}))
		b := MustNew(series.New("id", []int64{7, 8}))

		out, err := Concat(a, b)
		require.NoError(t, err)
		col, _ := out.Column("f")
		frames := col.(*FrameColumn).Frames()
		assert.Equal(t, []*DataFrame{inner, nil, nil}, frames)
	})

	t.Run("column kind clash", func(t *testing.T) {
		a := MustNew(series.New("name", []string{"x"}))
		_, err := Concat(a, people(t))
		assert.ErrorIs(t, err, dferrors.ErrTypeIncompatibility)
	})

	t.Run("nothing to concatenate", func(t *testing.T) {
		out, err := Concat()
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
		assert.Equal(t, 0, out.Width())
	})
}
