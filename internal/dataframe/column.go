package dataframe

import (
	"fmt"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
)

// Column is a named, typed column of a DataFrame. It is implemented by
// *series.Series (one value per row), *GroupColumn (a nested DataFrame
// sharing the parent's rows) and *FrameColumn (an independent DataFrame per
// row). Engines dispatch on the concrete type with type switches.
type Column interface {
	Name() string
	Len() int
	Type() value.Type
	Get(index int) (any, error)
	String() string
}

var (
	_ Column = (*series.Series)(nil)
	_ Column = (*GroupColumn)(nil)
	_ Column = (*FrameColumn)(nil)
)

// GroupColumn wraps a nested DataFrame whose row i belongs to row i of the
// parent.
type GroupColumn struct {
	name string
	df   *DataFrame
}

// NewGroupColumn creates a group column over df
func NewGroupColumn(name string, df *DataFrame) *GroupColumn {
	if df == nil {
		df = Empty()
	}
	return &GroupColumn{name: name, df: df}
}

// Name returns the column name
func (g *GroupColumn) Name() string { return g.name }

// Len returns the number of rows
func (g *GroupColumn) Len() int { return g.df.Len() }

// Type returns the group type descriptor
func (g *GroupColumn) Type() value.Type { return value.TypeOf(value.KindGroup) }

// Frame returns the nested DataFrame
func (g *GroupColumn) Frame() *DataFrame { return g.df }

// Get returns row index of the nested DataFrame as a DataRow
func (g *GroupColumn) Get(index int) (any, error) {
	row, err := g.df.Row(index)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Rename returns a group with the new name; the receiver when unchanged
func (g *GroupColumn) Rename(name string) *GroupColumn {
	if name == g.name {
		return g
	}
	return &GroupColumn{name: name, df: g.df}
}

// ReplaceAll rebuilds the group from one row per element. An element may be
// a DataRow, a single-row *DataFrame or nil for an all-null row.
func (g *GroupColumn) ReplaceAll(rows []any) (*GroupColumn, error) {
	if len(rows) != g.Len() {
		return nil, dferrors.NewValidationError("ReplaceAll", g.name,
			fmt.Sprintf("expected %d rows, got %d", g.Len(), len(rows)))
	}
	parts := make([]*DataFrame, 0, len(rows)+1)
	parts = append(parts, g.df.slice(0, 0))
	for i, row := range rows {
		switch r := row.(type) {
		case nil:
			parts = append(parts, g.df.nullRows(1))
		case DataRow:
			parts = append(parts, r.Frame())
		case *DataFrame:
			if r == nil {
				parts = append(parts, g.df.nullRows(1))
				continue
			}
			if r.Len() != 1 {
				return nil, dferrors.NewTypeError("ReplaceAll", g.name,
					fmt.Sprintf("row %d: expected a single-row DataFrame, got %d rows", i, r.Len()))
			}
			parts = append(parts, r)
		default:
			return nil, dferrors.NewTypeError("ReplaceAll", g.name,
				fmt.Sprintf("row %d: %T is not a data row", i, row))
		}
	}
	df, err := Concat(parts...)
	if err != nil {
		return nil, dferrors.Wrap("ReplaceAll", err)
	}
	return &GroupColumn{name: g.name, df: df}, nil
}

// String returns a string representation of the column
func (g *GroupColumn) String() string {
	return fmt.Sprintf("Group: %s (len=%d, columns=%v)", g.name, g.Len(), g.df.ColumnNames())
}

// FrameColumn holds one independent DataFrame, or nil, per row.
type FrameColumn struct {
	name   string
	frames []*DataFrame
}

// NewFrameColumn creates a frame column. nil cells are allowed.
func NewFrameColumn(name string, frames []*DataFrame) *FrameColumn {
	return &FrameColumn{name: name, frames: frames}
}

// Name returns the column name
func (f *FrameColumn) Name() string { return f.name }

// Len returns the number of cells
func (f *FrameColumn) Len() int { return len(f.frames) }

// Type returns the frame type descriptor; nullable when any cell is nil
func (f *FrameColumn) Type() value.Type {
	for _, fr := range f.frames {
		if fr == nil {
			return value.NullableOf(value.KindFrame)
		}
	}
	return value.TypeOf(value.KindFrame)
}

// Frame returns the DataFrame in cell index
func (f *FrameColumn) Frame(index int) *DataFrame { return f.frames[index] }

// Frames returns a copy of all cells
func (f *FrameColumn) Frames() []*DataFrame {
	out := make([]*DataFrame, len(f.frames))
	copy(out, f.frames)
	return out
}

// Get returns the DataFrame at index
func (f *FrameColumn) Get(index int) (any, error) {
	if index < 0 || index >= len(f.frames) {
		return nil, dferrors.NewIndexError("Get", index, len(f.frames))
	}
	return f.frames[index], nil
}

// Rename returns a frame column with the new name; the receiver when unchanged
func (f *FrameColumn) Rename(name string) *FrameColumn {
	if name == f.name {
		return f
	}
	return &FrameColumn{name: name, frames: f.frames}
}

// ReplaceAll rebuilds the column from *DataFrame or nil cells
func (f *FrameColumn) ReplaceAll(cells []any) (*FrameColumn, error) {
	if len(cells) != len(f.frames) {
		return nil, dferrors.NewValidationError("ReplaceAll", f.name,
			fmt.Sprintf("expected %d cells, got %d", len(f.frames), len(cells)))
	}
	frames := make([]*DataFrame, len(cells))
	for i, cell := range cells {
		switch c := cell.(type) {
		case nil:
		case *DataFrame:
			frames[i] = c
		default:
			return nil, dferrors.NewTypeError("ReplaceAll", f.name,
				fmt.Sprintf("cell %d: %T is not a DataFrame", i, cell))
		}
	}
	return &FrameColumn{name: f.name, frames: frames}, nil
}

// String returns a string representation of the column
func (f *FrameColumn) String() string {
	return fmt.Sprintf("Frame: %s (len=%d)", f.name, len(f.frames))
}

func renameColumn(c Column, name string) Column {
	switch col := c.(type) {
	case *series.Series:
		return col.Rename(name)
	case *GroupColumn:
		return col.Rename(name)
	case *FrameColumn:
		return col.Rename(name)
	}
	panic(fmt.Sprintf("dataframe: unsupported column %T", c))
}

// takeColumn gathers rows by index; -1 yields a null row.
func takeColumn(c Column, indices []int) Column {
	switch col := c.(type) {
	case *series.Series:
		return col.Take(indices)
	case *GroupColumn:
		return &GroupColumn{name: col.name, df: col.df.take(indices)}
	case *FrameColumn:
		frames := make([]*DataFrame, len(indices))
		for i, idx := range indices {
			if idx >= 0 {
				frames[i] = col.frames[idx]
			}
		}
		return &FrameColumn{name: col.name, frames: frames}
	}
	panic(fmt.Sprintf("dataframe: unsupported column %T", c))
}

func sliceColumn(c Column, start, end int) Column {
	switch col := c.(type) {
	case *series.Series:
		return col.Slice(start, end)
	case *GroupColumn:
		return &GroupColumn{name: col.name, df: col.df.slice(start, end)}
	case *FrameColumn:
		return &FrameColumn{name: col.name, frames: col.frames[start:end:end]}
	}
	panic(fmt.Sprintf("dataframe: unsupported column %T", c))
}

func columnsEqual(a, b Column) bool {
	switch x := a.(type) {
	case *series.Series:
		y, ok := b.(*series.Series)
		return ok && x.Equal(y)
	case *GroupColumn:
		y, ok := b.(*GroupColumn)
		return ok && x.name == y.name && x.df.Equal(y.df)
	case *FrameColumn:
		y, ok := b.(*FrameColumn)
		if !ok || x.name != y.name || len(x.frames) != len(y.frames) {
			return false
		}
		for i := range x.frames {
			if (x.frames[i] == nil) != (y.frames[i] == nil) {
				return false
			}
			if x.frames[i] != nil && !x.frames[i].Equal(y.frames[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// cellSize is the number of rows a cell expands to: list length, frame
// rows (0 for a missing frame) or 1 for scalars.
func cellSize(c Column, row int) int {
	switch col := c.(type) {
	case *series.Series:
		return col.Value(row).Len()
	case *FrameColumn:
		if col.frames[row] == nil {
			return 0
		}
		return col.frames[row].Len()
	}
	return 1
}
