package dataframe

import (
	"github.com/paveg/canopy/internal/convert"
	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/validation"
	"github.com/paveg/canopy/internal/value"
)

// Select returns the columns at paths as top-level columns, in request order
func (df *DataFrame) Select(paths ...ColumnPath) (*DataFrame, error) {
	cols := make([]Column, len(paths))
	names := make([]string, len(paths))
	for i, p := range paths {
		col, err := df.resolve("Select", p)
		if err != nil {
			return nil, err
		}
		cols[i] = col
		names[i] = col.Name()
	}
	if err := validation.ValidateUniqueNames("Select", names...); err != nil {
		return nil, err
	}
	return df.withColumns(cols), nil
}

// SelectBy returns the columns resolved by sel as top-level columns
func (df *DataFrame) SelectBy(sel ColumnSelector) (*DataFrame, error) {
	paths, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	return df.Select(paths...)
}

// Drop removes the columns at paths
func (df *DataFrame) Drop(paths ...ColumnPath) (*DataFrame, error) {
	out, _, err := Remove(df, paths...)
	return out, err
}

// Add appends top-level columns
func (df *DataFrame) Add(columns ...Column) (*DataFrame, error) {
	return df.AddAt(nil, columns...)
}

// AddAt appends columns to the group at path, creating it when missing
func (df *DataFrame) AddAt(group ColumnPath, columns ...Column) (*DataFrame, error) {
	items := make([]ColumnToInsert, len(columns))
	for i, c := range columns {
		items[i] = ColumnToInsert{Path: group.Child(c.Name()), Column: c}
	}
	return Insert(df, items...)
}

// Replace puts col where the column at path was
func (df *DataFrame) Replace(path ColumnPath, col Column) (*DataFrame, error) {
	rest, tree, err := Remove(df, path)
	if err != nil {
		return nil, err
	}
	ref, _ := tree.Find(path)
	return Insert(rest, ColumnToInsert{Path: path.Parent().Child(col.Name()), Column: col, Ref: &ref})
}

// Rename renames the column at path, keeping its position and nesting
func (df *DataFrame) Rename(path ColumnPath, newName string) (*DataFrame, error) {
	col, err := df.resolve("Rename", path)
	if err != nil {
		return nil, err
	}
	if col.Name() == newName {
		return df, nil
	}
	rest, tree, err := Remove(df, path)
	if err != nil {
		return nil, err
	}
	ref, _ := tree.Find(path)
	return Insert(rest, ColumnToInsert{Path: path.Parent().Child(newName), Column: col, Ref: &ref})
}

// MoveTo moves the columns at paths to the end of the group at group,
// creating the group when missing. A nil group moves to the top level.
func (df *DataFrame) MoveTo(group ColumnPath, paths ...ColumnPath) (*DataFrame, error) {
	cols := make([]Column, len(paths))
	for i, p := range paths {
		col, err := df.resolve("MoveTo", p)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	rest, _, err := Remove(df, paths...)
	if err != nil {
		return nil, err
	}
	items := make([]ColumnToInsert, len(cols))
	for i, c := range cols {
		items[i] = ColumnToInsert{Path: group.Child(c.Name()), Column: c}
	}
	return Insert(rest, items...)
}

// Ungroup replaces the group at path by its children
func (df *DataFrame) Ungroup(path ColumnPath) (*DataFrame, error) {
	col, err := df.resolve("Ungroup", path)
	if err != nil {
		return nil, err
	}
	g, ok := col.(*GroupColumn)
	if !ok {
		return nil, dferrors.NewNotAGroupError("Ungroup", path.String())
	}
	rest, tree, err := Remove(df, path)
	if err != nil {
		return nil, err
	}
	ref, _ := tree.Find(path)
	items := make([]ColumnToInsert, len(g.df.columns))
	for i, c := range g.df.columns {
		items[i] = ColumnToInsert{Path: path.Parent().Child(c.Name()), Column: c, Ref: &ref}
	}
	return Insert(rest, items...)
}

// Flatten moves every leaf column to the top level in depth-first order.
// Clashing names get a numeric suffix.
func (df *DataFrame) Flatten() *DataFrame {
	taken := make(map[string]struct{})
	var cols []Column
	for _, p := range df.leafPaths() {
		col, _ := df.resolve("Flatten", p)
		name := uniqueName(col.Name(), func(n string) bool {
			_, ok := taken[n]
			return ok
		})
		taken[name] = struct{}{}
		cols = append(cols, renameColumn(col, name))
	}
	return df.withColumns(cols)
}

// SelectRange returns the sibling columns from from to to, both inclusive
func (df *DataFrame) SelectRange(from, to ColumnPath) (*DataFrame, error) {
	paths, err := Range(from, to)(df)
	if err != nil {
		return nil, err
	}
	return df.Select(paths...)
}

// Convert converts the value column at path to kind using reg
func (df *DataFrame) Convert(path ColumnPath, reg *convert.Registry, kind value.Kind) (*DataFrame, error) {
	s, err := df.Series(path)
	if err != nil {
		return nil, dferrors.Wrap("Convert", err)
	}
	converted, err := s.ConvertTo(reg, kind)
	if err != nil {
		return nil, err
	}
	return df.Replace(path, converted)
}

// ReplaceValues rebuilds the value column at path from new values
func (df *DataFrame) ReplaceValues(path ColumnPath, values []value.Value) (*DataFrame, error) {
	s, err := df.Series(path)
	if err != nil {
		return nil, dferrors.Wrap("ReplaceValues", err)
	}
	replaced, err := s.ReplaceAll(values)
	if err != nil {
		return nil, err
	}
	return df.Replace(path, replaced)
}

// Map computes a value column from each row and appends it
func (df *DataFrame) Map(name string, fn func(row DataRow) (value.Value, error)) (*DataFrame, error) {
	values := make([]value.Value, df.rows)
	for i := range values {
		v, err := fn(DataRow{df: df, index: i})
		if err != nil {
			return nil, dferrors.Wrap("Map", err)
		}
		values[i] = v
	}
	return df.Add(series.FromValues(name, values))
}
