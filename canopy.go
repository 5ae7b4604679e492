// Package canopy provides typed, columnar, nested in-memory tables.
// This package is the sole public API for the library.
//
// A DataFrame is an ordered list of named columns of equal length. A
// column holds values (Series), a nested DataFrame for every row
// (FrameColumn) or a group of child columns (GroupColumn), so tables can
// nest to any depth. Every operation returns a new DataFrame and leaves
// its receiver unchanged.
package canopy

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/canopy/internal/convert"
	"github.com/paveg/canopy/internal/dataframe"
	"github.com/paveg/canopy/internal/io"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
)

type (
	Value = value.Value
	Kind  = value.Kind
	Type  = value.Type

	Series      = series.Series
	Native      = series.Native
	Column      = dataframe.Column
	GroupColumn = dataframe.GroupColumn
	FrameColumn = dataframe.FrameColumn

	DataFrame        = dataframe.DataFrame
	DataRow          = dataframe.DataRow
	ColumnPath       = dataframe.ColumnPath
	ColumnSelector   = dataframe.ColumnSelector
	GroupedDataFrame = dataframe.GroupedDataFrame
	Reducer          = dataframe.Reducer
	Schema           = dataframe.Schema
	ColumnSchema     = dataframe.ColumnSchema

	ColumnTree     = dataframe.ColumnTree
	TreeRef        = dataframe.TreeRef
	ColumnToInsert = dataframe.ColumnToInsert

	JoinType       = dataframe.JoinType
	JoinPair       = dataframe.JoinPair
	JoinOptions    = dataframe.JoinOptions
	PivotOptions   = dataframe.PivotOptions
	ExplodeOptions = dataframe.ExplodeOptions

	ConverterRegistry = convert.Registry
)

const (
	KindNull     = value.KindNull
	KindBool     = value.KindBool
	KindInt      = value.KindInt
	KindFloat    = value.KindFloat
	KindString   = value.KindString
	KindTime     = value.KindTime
	KindDuration = value.KindDuration
	KindList     = value.KindList
	KindAny      = value.KindAny
	KindGroup    = value.KindGroup
	KindFrame    = value.KindFrame
)

const (
	InnerJoin     = dataframe.InnerJoin
	LeftJoin      = dataframe.LeftJoin
	RightJoin     = dataframe.RightJoin
	FullOuterJoin = dataframe.FullOuterJoin
	ExcludeJoin   = dataframe.ExcludeJoin
)

// NewDataFrame creates a DataFrame from columns of equal length with
// unique names.
func NewDataFrame(columns ...Column) (*DataFrame, error) {
	return dataframe.New(columns...)
}

// NewSeries creates a non-nullable value column
func NewSeries[T Native](name string, values []T) *Series {
	return series.New(name, values)
}

// NewNullableSeries creates a value column where nil entries are nulls
func NewNullableSeries[T Native](name string, values []*T) *Series {
	return series.NewNullable(name, values)
}

// SeriesOf creates a value column from Go values, inferring its type
func SeriesOf(name string, values ...any) *Series {
	return series.Of(name, values...)
}

// ValueOf wraps a Go value; slices become list values
func ValueOf(x any) Value { return value.Of(x) }

// NewGroupColumn nests the columns of df under name
func NewGroupColumn(name string, df *DataFrame) *GroupColumn {
	return dataframe.NewGroupColumn(name, df)
}

// NewFrameColumn creates a column holding one DataFrame per row
func NewFrameColumn(name string, frames []*DataFrame) *FrameColumn {
	return dataframe.NewFrameColumn(name, frames)
}

// Path builds a column path from names
func Path(names ...string) ColumnPath { return dataframe.Path(names...) }

// Paths builds one single-name path per name
func Paths(names ...string) []ColumnPath { return dataframe.Paths(names...) }

// ParsePath splits a dotted path such as "name.firstName"
func ParsePath(s string) ColumnPath { return dataframe.ParsePath(s) }

// Concat unions frames by column name
func Concat(frames ...*DataFrame) (*DataFrame, error) {
	return dataframe.Concat(frames...)
}

// Pivot spreads df into a single row keyed by the distinct values of the
// pivot keys
func Pivot(df *DataFrame, opts PivotOptions) (*DataFrame, error) {
	return dataframe.Pivot(df, opts)
}

// Remove detaches columns and reports where they were
func Remove(df *DataFrame, paths ...ColumnPath) (*DataFrame, *ColumnTree, error) {
	return dataframe.Remove(df, paths...)
}

// Insert places columns at their paths
func Insert(df *DataFrame, items ...ColumnToInsert) (*DataFrame, error) {
	return dataframe.Insert(df, items...)
}

// NewConverterRegistry returns a registry with the default converters
func NewConverterRegistry() *ConverterRegistry {
	return convert.NewDefaultRegistry()
}

// ToRecord copies df into an Arrow record owned by the caller
func ToRecord(df *DataFrame, mem memory.Allocator) (arrow.Record, error) {
	return io.ToRecord(df, mem)
}

// FromRecord builds a DataFrame from an Arrow record
func FromRecord(rec arrow.Record) (*DataFrame, error) {
	return io.FromRecord(rec)
}

// Cols selects the columns at paths
func Cols(paths ...ColumnPath) ColumnSelector { return dataframe.Cols(paths...) }

// ByName selects top-level columns by name
func ByName(names ...string) ColumnSelector { return dataframe.ByName(names...) }

// All selects every top-level column
func All() ColumnSelector { return dataframe.All() }

// Leaves selects every non-group column, depth first
func Leaves() ColumnSelector { return dataframe.Leaves() }

// Where selects the leaf columns for which pred holds
func Where(pred func(path ColumnPath, col Column) bool) ColumnSelector { return dataframe.Where(pred) }

// OfKind selects the leaf columns whose type has one of kinds
func OfKind(kinds ...Kind) ColumnSelector { return dataframe.OfKind(kinds...) }

// ColGroup selects the existing group column at path
func ColGroup(path ColumnPath) ColumnSelector { return dataframe.ColGroup(path) }

// Range selects the columns from one path to another, inclusive
func Range(from, to ColumnPath) ColumnSelector { return dataframe.Range(from, to) }

// Single requires sel to resolve to exactly one column
func Single(sel ColumnSelector) ColumnSelector { return dataframe.Single(sel) }

// Count returns a reducer counting rows
func Count() Reducer { return dataframe.Count() }

// Matches returns a reducer that is true for every non-empty group
func Matches() Reducer { return dataframe.Matches() }

// Sum returns a reducer summing the column at path
func Sum(path ColumnPath) Reducer { return dataframe.Sum(path) }

// Mean returns a reducer averaging the column at path
func Mean(path ColumnPath) Reducer { return dataframe.Mean(path) }

// Min returns a reducer for the smallest non-null value at path
func Min(path ColumnPath) Reducer { return dataframe.Min(path) }

// Max returns a reducer for the largest non-null value at path
func Max(path ColumnPath) Reducer { return dataframe.Max(path) }

// First returns a reducer for the first value at path
func First(path ColumnPath) Reducer { return dataframe.First(path) }

// Last returns a reducer for the last value at path
func Last(path ColumnPath) Reducer { return dataframe.Last(path) }

// Values returns a reducer collecting the values at path into a list
func Values(path ColumnPath) Reducer { return dataframe.Values(path) }

// Aggregate returns a reducer named name computed by fn over each group
func Aggregate(name string, fn func(rows *DataFrame) (Value, error)) Reducer {
	return dataframe.Aggregate(name, fn)
}
