// Package testutil provides shared fixtures and assertions for canopy tests:
// - Checked Arrow allocators that fail the test on leaked buffers
// - A people table with a nested name group
// - An employee table with configurable size
// - An orders table holding one nested frame per customer
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/canopy/internal/dataframe"
	"github.com/paveg/canopy/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in employee tables.
	defaultRowCount = 4
)

// TestMemoryContext provides a checked allocator verified on release.
type TestMemoryContext struct {
	Allocator *memory.CheckedAllocator
	tb        testing.TB
}

// Release asserts that every buffer taken from the allocator was freed.
func (tmc *TestMemoryContext) Release() {
	tmc.tb.Helper()
	tmc.Allocator.AssertSize(tmc.tb, 0)
}

// SetupMemoryTest creates a checked allocator for Arrow conversions.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewCheckedAllocator(memory.NewGoAllocator()),
		tb:        tb,
	}
}

// CreatePeople returns seven people with the columns
// name{firstName, lastName}, age, city (nullable), weight (nullable) and
// isHappy.
func CreatePeople(tb testing.TB) *dataframe.DataFrame {
	tb.Helper()
	name, err := dataframe.New(
		series.New("firstName", []string{"Alice", "Bob", "Charlie", "Charlie", "Bob", "Alice", "Charlie"}),
		series.New("lastName", []string{"Cooper", "Dylan", "Daniels", "Chaplin", "Marley", "Wolf", "Byrd"}),
	)
	require.NoError(tb, err)
	df, err := dataframe.New(
		dataframe.NewGroupColumn("name", name),
		series.New("age", []int64{15, 45, 20, 40, 30, 20, 30}),
		series.Of("city", "London", "Dubai", "Moscow", "Milan", "Tokyo", nil, "Moscow"),
		series.Of("weight", 54, 87, nil, nil, 68, 55, 90),
		series.New("isHappy", []bool{true, true, false, true, true, false, true}),
	)
	require.NoError(tb, err)
	return df
}

// CreateOrders returns three customers with a frame column of their
// orders. The last customer has no orders frame at all.
func CreateOrders(tb testing.TB) *dataframe.DataFrame {
	tb.Helper()
	ann, err := dataframe.New(
		series.New("item", []string{"book", "pen"}),
		series.New("price", []float64{12.5, 1.2}),
	)
	require.NoError(tb, err)
	ben, err := dataframe.New(
		series.New("item", []string{"lamp"}),
		series.New("price", []float64{30}),
	)
	require.NoError(tb, err)
	df, err := dataframe.New(
		series.New("customer", []string{"ann", "ben", "cid"}),
		dataframe.NewFrameColumn("orders", []*dataframe.DataFrame{ann, ben, nil}),
	)
	require.NoError(tb, err)
	return df
}

// EmployeeOption configures CreateEmployees.
type EmployeeOption func(*employeeConfig)

type employeeConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
}

// WithNulls makes every third salary null.
func WithNulls() EmployeeOption {
	return func(cfg *employeeConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows.
func WithRowCount(count int) EmployeeOption {
	return func(cfg *employeeConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() EmployeeOption {
	return func(cfg *employeeConfig) {
		cfg.withActive = true
	}
}

// CreateEmployees creates a flat employee table.
//
// Default columns:
// - name (string): ["Alice", "Bob", "Charlie", "David"]
// - age (int64): [25, 30, 35, 28]
// - department (string): ["Engineering", "Sales", "Engineering", "Marketing"]
// - salary (int64): [100000, 80000, 120000, 75000]
func CreateEmployees(tb testing.TB, opts ...EmployeeOption) *dataframe.DataFrame {
	tb.Helper()
	cfg := &employeeConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	salaries := cycle(cfg.rowCount, []int64{100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000})
	salaryPtrs := make([]*int64, len(salaries))
	for i := range salaries {
		if cfg.includeNulls && i%3 == 2 {
			continue
		}
		salaryPtrs[i] = &salaries[i]
	}

	cols := []dataframe.Column{
		series.New("name", cycle(cfg.rowCount, []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"})),
		series.New("age", cycle(cfg.rowCount, []int64{25, 30, 35, 28, 32, 45, 29, 38})),
		series.New("department", cycle(cfg.rowCount,
			[]string{"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales"})),
		series.NewNullable("salary", salaryPtrs),
	}
	if cfg.withActive {
		cols = append(cols, series.New("active", cycle(cfg.rowCount, []bool{true, true, false, true, true, false, true, false})))
	}

	df, err := dataframe.New(cols...)
	require.NoError(tb, err)
	return df
}

func cycle[T any](count int, base []T) []T {
	out := make([]T, count)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}

// AssertDataFrameEqual compares schemas first, then every value.
func AssertDataFrameEqual(t *testing.T, expected, actual *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, expected, "expected DataFrame should not be nil")
	require.NotNil(t, actual, "actual DataFrame should not be nil")

	assert.Equal(t, expected.Len(), actual.Len(), "DataFrame lengths should match")
	if !assert.True(t, expected.Schema().Equal(actual.Schema()), "schemas differ:\nexpected:\n%s\nactual:\n%s",
		expected.Schema(), actual.Schema()) {
		return
	}
	assert.True(t, expected.Equal(actual), "values differ:\nexpected rows: %v\nactual rows: %v",
		expected.Rows(), actual.Rows())
}

// AssertDataFrameHasColumns verifies the top-level column names, in order.
func AssertDataFrameHasColumns(t *testing.T, df *dataframe.DataFrame, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Equal(t, expectedColumns, df.ColumnNames())
}
