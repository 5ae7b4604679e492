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

func sales(t *testing.T) *DataFrame {
	t.Helper()
	df, err := New(
		series.New("region", []string{"north", "north", "south", "north"}),
		series.Of("product", "apple", "pear", "apple", "apple"),
		series.New("qty", []int64{1, 2, 3, 4}),
	)
	require.NoError(t, err)
	return df
}

func TestGroupByPivotCount(t *testing.T) {
	df := MustNew(
		series.New("city", []string{"London", "London", "Paris"}),
		series.New("age", []int64{15, 45, 20}),
	)
	g, err := df.GroupBy(ByName("city"))
	require.NoError(t, err)

	out, err := g.Pivot(PivotOptions{Keys: Paths("city"), Reducers: []Reducer{Count()}})
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.Equal(t, []string{"London", "Paris"}, out.ColumnNames())
	assert.Equal(t, []any{int64(2)}, cells(t, out, "London"))
	assert.Equal(t, []any{int64(1)}, cells(t, out, "Paris"))
}

func TestPivotWithOuterKeys(t *testing.T) {
	g, err := sales(t).GroupBy(ByName("region", "product"))
	require.NoError(t, err)

	out, err := g.Pivot(PivotOptions{Keys: Paths("product"), Reducers: []Reducer{Sum(Path("qty"))}})
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "apple", "pear"}, out.ColumnNames())
	assert.Equal(t, []any{"north", "south"}, cells(t, out, "region"))
	assert.Equal(t, []any{int64(5), int64(3)}, cells(t, out, "apple"))
	assert.Equal(t, []any{int64(2), nil}, cells(t, out, "pear"))

	t.Run("default replaces empties", func(t *testing.T) {
		zero := value.Int(0)
		out, err := g.Pivot(PivotOptions{
			Keys:     Paths("product"),
			Reducers: []Reducer{Sum(Path("qty"))},
			Default:  &zero,
		})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(2), int64(0)}, cells(t, out, "pear"))
	})

	t.Run("reducer empty value", func(t *testing.T) {
		out, err := g.Pivot(PivotOptions{
			Keys:     Paths("product"),
			Reducers: []Reducer{Sum(Path("qty")).WithEmpty(value.Int(-1))},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(2), int64(-1)}, cells(t, out, "pear"))
	})

	t.Run("matches by default", func(t *testing.T) {
		out, err := g.Pivot(PivotOptions{Keys: Paths("product")})
		require.NoError(t, err)
		assert.Equal(t, []any{true, false}, cells(t, out, "pear"))
		assert.Equal(t, []any{true, true}, cells(t, out, "apple"))
	})
}

func TestPivotOptions(t *testing.T) {
	df := sales(t)

	t.Run("nested keys", func(t *testing.T) {
		out, err := Pivot(df, PivotOptions{Keys: Paths("region", "product"), Reducers: []Reducer{Count()}})
		require.NoError(t, err)
		assert.Equal(t, []string{"north", "south"}, out.ColumnNames())
		assert.Equal(t, []string{"apple", "pear"}, groupNames(t, out, "north"))
		assert.Equal(t, []string{"apple"}, groupNames(t, out, "south"))
		assert.Equal(t, []any{int64(2)}, cells(t, out, "north.apple"))
		assert.Equal(t, []any{int64(1)}, cells(t, out, "south.apple"))
	})

	t.Run("into", func(t *testing.T) {
		g, err := df.GroupBy(ByName("region"))
		require.NoError(t, err)
		out, err := g.Pivot(PivotOptions{Keys: Paths("product"), Reducers: []Reducer{Count()}, Into: Path("byProduct")})
		require.NoError(t, err)
		assert.Equal(t, []string{"region", "byProduct"}, out.ColumnNames())
		assert.Equal(t, []any{int64(1), int64(0)}, cells(t, out, "byProduct.pear"))
	})

	t.Run("order", func(t *testing.T) {
		out, err := Pivot(df, PivotOptions{Keys: Paths("product"), Order: []string{"pear"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"pear", "apple"}, out.ColumnNames())
	})

	t.Run("several reducers", func(t *testing.T) {
		out, err := Pivot(df, PivotOptions{
			Keys:     Paths("product"),
			Reducers: []Reducer{Count(), Sum(Path("qty"))},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "pear"}, out.ColumnNames())
		assert.Equal(t, []string{"count", "sum"}, groupNames(t, out, "apple"))
		assert.Equal(t, []any{int64(8)}, cells(t, out, "apple.sum"))
		assert.Equal(t, []any{int64(1)}, cells(t, out, "pear.count"))
	})

	t.Run("null key", func(t *testing.T) {
		withNull := MustNew(series.Of("product", "apple", nil), series.New("qty", []int64{1, 2}))
		out, err := Pivot(withNull, PivotOptions{Keys: Paths("product"), Reducers: []Reducer{Sum(Path("qty"))}})
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "null"}, out.ColumnNames())
	})

	t.Run("non string keys", func(t *testing.T) {
		out, err := Pivot(df, PivotOptions{Keys: Paths("qty")})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3", "4"}, out.ColumnNames())
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Pivot(df, PivotOptions{})
		assert.ErrorIs(t, err, dferrors.ErrInvalidInput)

		_, err = Pivot(df, PivotOptions{Keys: Paths("color")})
		assert.ErrorIs(t, err, dferrors.ErrMissingPath)
	})
}
