// Package dataframe provides typed, columnar and nested DataFrame operations:
// structural column surgery, group-by, pivot, join, explode and concat.
package dataframe

import (
	"fmt"
	"strings"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/validation"
	"github.com/paveg/canopy/internal/value"
)

// DataFrame represents an ordered set of named columns sharing one row count.
// A DataFrame is never modified after construction; operations return new
// frames that share untouched columns.
type DataFrame struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New creates a new DataFrame. Column names must be unique and all columns
// must have the same length.
func New(columns ...Column) (*DataFrame, error) {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name()
	}
	if err := validation.ValidateUniqueNames("New", names...); err != nil {
		return nil, err
	}
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}
	for _, c := range columns {
		if err := validation.ValidateLength(rows, c.Len(), "New", "column "+c.Name()); err != nil {
			return nil, err
		}
	}
	return newFrame(columns, rows), nil
}

// MustNew is like New but panics on invalid input
func MustNew(columns ...Column) *DataFrame {
	df, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return df
}

// Empty returns a DataFrame with no columns and no rows
func Empty() *DataFrame {
	return newFrame(nil, 0)
}

func newFrame(columns []Column, rows int) *DataFrame {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c.Name()] = i
	}
	return &DataFrame{columns: columns, index: index, rows: rows}
}

// ColumnNames returns the top-level column names in order
func (df *DataFrame) ColumnNames() []string {
	names := make([]string, len(df.columns))
	for i, c := range df.columns {
		names[i] = c.Name()
	}
	return names
}

// Columns returns the top-level columns in order
func (df *DataFrame) Columns() []Column {
	out := make([]Column, len(df.columns))
	copy(out, df.columns)
	return out
}

// Len returns the number of rows
func (df *DataFrame) Len() int {
	return df.rows
}

// Width returns the number of top-level columns
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// HasColumn checks if a top-level column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.index[name]
	return ok
}

// Column returns the top-level column with the given name
func (df *DataFrame) Column(name string) (Column, bool) {
	i, ok := df.index[name]
	if !ok {
		return nil, false
	}
	return df.columns[i], true
}

// Get resolves path by walking group columns
func (df *DataFrame) Get(path ColumnPath) (Column, error) {
	return df.resolve("Get", path)
}

func (df *DataFrame) resolve(op string, path ColumnPath) (Column, error) {
	if len(path) == 0 {
		return nil, dferrors.NewInvalidInputError(op, "empty column path")
	}
	cur := df
	for i, name := range path {
		col, ok := cur.Column(name)
		if !ok {
			return nil, dferrors.NewColumnNotFoundError(op, path[:i+1].String())
		}
		if i == len(path)-1 {
			return col, nil
		}
		g, ok := col.(*GroupColumn)
		if !ok {
			return nil, dferrors.NewNotAGroupError(op, path[:i+1].String())
		}
		cur = g.df
	}
	return nil, dferrors.NewColumnNotFoundError(op, path.String())
}

// Series resolves path to a value column
func (df *DataFrame) Series(path ColumnPath) (*series.Series, error) {
	col, err := df.resolve("Series", path)
	if err != nil {
		return nil, err
	}
	s, ok := col.(*series.Series)
	if !ok {
		return nil, dferrors.NewTypeError("Series", path.String(), "not a value column")
	}
	return s, nil
}

// Row returns row index
func (df *DataFrame) Row(index int) (DataRow, error) {
	if err := validation.ValidateIndex(index, df.rows, "Row"); err != nil {
		return DataRow{}, err
	}
	return DataRow{df: df, index: index}, nil
}

// Rows returns all rows in order
func (df *DataFrame) Rows() []DataRow {
	rows := make([]DataRow, df.rows)
	for i := range rows {
		rows[i] = DataRow{df: df, index: i}
	}
	return rows
}

// Slice creates a new DataFrame containing rows from start (inclusive) to
// end (exclusive). Columns share their storage with df.
func (df *DataFrame) Slice(start, end int) (*DataFrame, error) {
	if err := validation.ValidateRange(start, end, df.rows, "Slice"); err != nil {
		return nil, err
	}
	return df.slice(start, end), nil
}

func (df *DataFrame) slice(start, end int) *DataFrame {
	cols := make([]Column, len(df.columns))
	for i, c := range df.columns {
		cols[i] = sliceColumn(c, start, end)
	}
	return newFrame(cols, end-start)
}

// Take gathers rows by index
func (df *DataFrame) Take(indices []int) (*DataFrame, error) {
	for _, idx := range indices {
		if err := validation.ValidateIndex(idx, df.rows, "Take"); err != nil {
			return nil, err
		}
	}
	return df.take(indices), nil
}

// take gathers rows; -1 produces an all-null row.
func (df *DataFrame) take(indices []int) *DataFrame {
	cols := make([]Column, len(df.columns))
	for i, c := range df.columns {
		cols[i] = takeColumn(c, indices)
	}
	return newFrame(cols, len(indices))
}

// nullRows returns n all-null rows with the schema of df
func (df *DataFrame) nullRows(n int) *DataFrame {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = -1
	}
	return df.take(indices)
}

// Filter keeps the rows for which pred returns true
func (df *DataFrame) Filter(pred func(row DataRow) bool) *DataFrame {
	indices := make([]int, 0, df.rows)
	for i := 0; i < df.rows; i++ {
		if pred(DataRow{df: df, index: i}) {
			indices = append(indices, i)
		}
	}
	return df.take(indices)
}

// Equal reports structural equality of names, types and values
func (df *DataFrame) Equal(o *DataFrame) bool {
	if df == o {
		return true
	}
	if df == nil || o == nil || df.rows != o.rows || len(df.columns) != len(o.columns) {
		return false
	}
	for i := range df.columns {
		if !columnsEqual(df.columns[i], o.columns[i]) {
			return false
		}
	}
	return true
}

// withColumns returns a frame with the same row count and new columns
func (df *DataFrame) withColumns(cols []Column) *DataFrame {
	return newFrame(cols, df.rows)
}

// leafPaths lists every non-group column path depth first
func (df *DataFrame) leafPaths() []ColumnPath {
	var out []ColumnPath
	var walk func(prefix ColumnPath, d *DataFrame)
	walk = func(prefix ColumnPath, d *DataFrame) {
		for _, c := range d.columns {
			p := prefix.Child(c.Name())
			if g, ok := c.(*GroupColumn); ok {
				walk(p, g.df)
				continue
			}
			out = append(out, p)
		}
	}
	walk(nil, df)
	return out
}

// String returns a string representation of the DataFrame
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return fmt.Sprintf("DataFrame[%dx0]", df.rows)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "DataFrame[%dx%d]", df.rows, len(df.columns))
	var walk func(indent string, d *DataFrame)
	walk = func(indent string, d *DataFrame) {
		for _, c := range d.columns {
			fmt.Fprintf(&sb, "\n%s%s: %s", indent, c.Name(), c.Type())
			if g, ok := c.(*GroupColumn); ok {
				walk(indent+"  ", g.df)
			}
		}
	}
	walk("  ", df)
	return sb.String()
}

// DataRow is a view of one row of a DataFrame
type DataRow struct {
	df    *DataFrame
	index int
}

// Index returns the row position within its DataFrame
func (r DataRow) Index() int { return r.index }

// Frame returns the row as a single-row DataFrame
func (r DataRow) Frame() *DataFrame { return r.df.slice(r.index, r.index+1) }

// ColumnNames returns the names of the row's columns
func (r DataRow) ColumnNames() []string { return r.df.ColumnNames() }

// Get returns the cell of the named top-level column
func (r DataRow) Get(name string) (any, error) {
	col, ok := r.df.Column(name)
	if !ok {
		return nil, dferrors.NewColumnNotFoundError("Get", name)
	}
	return col.Get(r.index)
}

// Value returns the value at path; the path must end at a value column
func (r DataRow) Value(path ColumnPath) (value.Value, error) {
	s, err := r.df.Series(path)
	if err != nil {
		return value.Null(), err
	}
	return s.Value(r.index), nil
}

// Values returns the row's cells in column order
func (r DataRow) Values() []any {
	out := make([]any, len(r.df.columns))
	for i, c := range r.df.columns {
		out[i], _ = c.Get(r.index)
	}
	return out
}

// String renders the row as name=value pairs
func (r DataRow) String() string {
	parts := make([]string, len(r.df.columns))
	for i, c := range r.df.columns {
		cell, _ := c.Get(r.index)
		switch v := cell.(type) {
		case *DataFrame:
			if v == nil {
				parts[i] = c.Name() + "=null"
			} else {
				parts[i] = fmt.Sprintf("%s=<%d rows>", c.Name(), v.Len())
			}
		default:
			parts[i] = fmt.Sprintf("%s=%v", c.Name(), cell)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
