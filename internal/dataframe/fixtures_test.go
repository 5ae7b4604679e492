//nolint:testpackage // tests reach unexported helpers
package dataframe

import (
	"testing"

	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
	"github.com/stretchr/testify/require"
)

// people returns a table with a nested name group:
// name{firstName, lastName}, age, city, weight, isHappy.
func people(t *testing.T) *DataFrame {
	t.Helper()
	name, err := New(
		series.New("firstName", []string{"Alice", "Bob", "Charlie", "Charlie", "Bob", "Alice", "Charlie"}),
		series.New("lastName", []string{"Cooper", "Dylan", "Daniels", "Chaplin", "Marley", "Wolf", "Byrd"}),
	)
	require.NoError(t, err)
	df, err := New(
		NewGroupColumn("name", name),
		series.New("age", []int64{15, 45, 20, 40, 30, 20, 30}),
		series.Of("city", "London", "Dubai", "Moscow", "Milan", "Tokyo", nil, "Moscow"),
		series.Of("weight", 54, 87, nil, nil, 68, 55, 90),
		series.New("isHappy", []bool{true, true, false, true, true, false, true}),
	)
	require.NoError(t, err)
	return df
}

func mustSeries(t *testing.T, df *DataFrame, path string) *series.Series {
	t.Helper()
	s, err := df.Series(ParsePath(path))
	require.NoError(t, err)
	return s
}

// cells returns the native values of the value column at path
func cells(t *testing.T, df *DataFrame, path string) []any {
	t.Helper()
	s := mustSeries(t, df, path)
	out := make([]any, s.Len())
	for i, v := range s.Values() {
		out[i] = v.Interface()
	}
	return out
}

func ints(xs ...int64) []value.Value {
	out := make([]value.Value, len(xs))
	for i, x := range xs {
		out[i] = value.Int(x)
	}
	return out
}
