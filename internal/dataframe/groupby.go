package dataframe

import (
	"fmt"
	"time"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
	"go.uber.org/zap"
)

// GroupedDataFrame is the result of GroupBy: one key row per distinct key
// tuple, in first occurrence order, each owning the frame of its rows.
type GroupedDataFrame struct {
	keys     *DataFrame
	keyPaths []ColumnPath
	groups   *FrameColumn
	source   *DataFrame
}

// GroupBy partitions rows by the values of the key columns resolved by
// keys. Group columns used as keys contribute all their leaves. Rows keep
// their original order within a group.
func (df *DataFrame) GroupBy(keys ColumnSelector) (grouped *GroupedDataFrame, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if grouped != nil {
			n = grouped.Len()
		}
		observe("groupBy", start, df.Len(), &err, zap.Int("groups", n))
	}()

	paths, err := df.Resolve(keys)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, &dferrors.DataFrameError{
			Kind:    dferrors.KindMissingPath,
			Op:      "GroupBy",
			Message: "no key columns selected",
		}
	}

	keyDF, err := nestedSelect("GroupBy", df, paths)
	if err != nil {
		return nil, err
	}
	leaves, err := keyLeaves("GroupBy", df, paths)
	if err != nil {
		return nil, err
	}

	index := value.NewTupleIndex(df.rows)
	for r := 0; r < df.rows; r++ {
		index.Add(tupleAt(leaves, r), r)
	}

	perm := make([]int, 0, df.rows)
	offsets := make([]int, index.Len()+1)
	firsts := make([]int, index.Len())
	for ord := 0; ord < index.Len(); ord++ {
		rows := index.Rows(ord)
		firsts[ord] = rows[0]
		perm = append(perm, rows...)
		offsets[ord+1] = len(perm)
	}
	permuted := df.take(perm)
	frames := make([]*DataFrame, index.Len())
	for ord := range frames {
		frames[ord] = permuted.slice(offsets[ord], offsets[ord+1])
	}

	name := uniqueName(engineConfig().GroupColumnName, keyDF.HasColumn)
	return &GroupedDataFrame{
		keys:     keyDF.take(firsts),
		keyPaths: paths,
		groups:   NewFrameColumn(name, frames),
		source:   df.slice(0, 0),
	}, nil
}

// nestedSelect builds a frame of the columns at paths keeping their group
// nesting.
func nestedSelect(op string, df *DataFrame, paths []ColumnPath) (*DataFrame, error) {
	items := make([]ColumnToInsert, len(paths))
	for i, p := range paths {
		col, err := df.resolve(op, p)
		if err != nil {
			return nil, err
		}
		items[i] = ColumnToInsert{Path: p, Column: col}
	}
	out, err := insertLevel(nil, items, nil, df.rows)
	if err != nil {
		return nil, dferrors.Wrap(op, err)
	}
	return newFrame(out, df.rows), nil
}

// keyLeaves resolves key paths to value columns, expanding groups.
func keyLeaves(op string, df *DataFrame, paths []ColumnPath) ([]*series.Series, error) {
	var out []*series.Series
	for _, p := range paths {
		col, err := df.resolve(op, p)
		if err != nil {
			return nil, err
		}
		switch c := col.(type) {
		case *series.Series:
			out = append(out, c)
		case *GroupColumn:
			for _, leaf := range c.df.leafPaths() {
				sub, err := keyLeaves(op, c.df, []ColumnPath{leaf})
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			}
		case *FrameColumn:
			return nil, dferrors.NewTypeError(op, p.String(), "frame columns cannot be used as keys")
		}
	}
	return out, nil
}

func tupleAt(cols []*series.Series, row int) []value.Value {
	key := make([]value.Value, len(cols))
	for i, c := range cols {
		key[i] = c.Value(row)
	}
	return key
}

// Keys returns the key columns, one row per group
func (g *GroupedDataFrame) Keys() *DataFrame { return g.keys }

// KeyPaths returns the paths of the key columns
func (g *GroupedDataFrame) KeyPaths() []ColumnPath { return g.keyPaths }

// Groups returns the frame column holding every group's rows
func (g *GroupedDataFrame) Groups() *FrameColumn { return g.groups }

// Len returns the number of groups
func (g *GroupedDataFrame) Len() int { return g.groups.Len() }

// Group returns the rows of group i
func (g *GroupedDataFrame) Group(i int) (*DataFrame, error) {
	cell, err := g.groups.Get(i)
	if err != nil {
		return nil, err
	}
	return cell.(*DataFrame), nil
}

// DataFrame returns the keys followed by the trailing frame column
func (g *GroupedDataFrame) DataFrame() *DataFrame {
	cols := append(g.keys.Columns(), g.groups)
	return newFrame(cols, g.Len())
}

// Concat returns all group rows back as one frame, in group order
func (g *GroupedDataFrame) Concat() (*DataFrame, error) {
	parts := make([]*DataFrame, 0, g.Len()+1)
	parts = append(parts, g.source)
	parts = append(parts, g.groups.frames...)
	return concatFrames(parts)
}

// Count appends the number of rows of every group to the keys
func (g *GroupedDataFrame) Count() (*DataFrame, error) {
	counts := make([]int64, g.Len())
	for i, f := range g.groups.frames {
		counts[i] = int64(f.Len())
	}
	name := uniqueName(engineConfig().CountColumnName, g.keys.HasColumn)
	return g.keys.Add(series.New(name, counts))
}

// Aggregate appends one column per reducer to the keys
func (g *GroupedDataFrame) Aggregate(reducers ...Reducer) (result *DataFrame, err error) {
	defer observe("aggregate", time.Now(), g.Len(), &err, zap.Int("reducers", len(reducers)))

	cols := make([]Column, len(reducers))
	for j, r := range reducers {
		values := make([]value.Value, g.Len())
		for i, f := range g.groups.frames {
			v, err := r.apply(f)
			if err != nil {
				return nil, dferrors.Wrap("Aggregate", err)
			}
			values[i] = v
		}
		cols[j] = series.FromValues(r.Name, values)
	}
	return g.keys.Add(cols...)
}

// Filter keeps the groups for which pred returns true
func (g *GroupedDataFrame) Filter(pred func(key DataRow, rows *DataFrame) bool) *GroupedDataFrame {
	var keep []int
	for i, f := range g.groups.frames {
		if pred(DataRow{df: g.keys, index: i}, f) {
			keep = append(keep, i)
		}
	}
	return &GroupedDataFrame{
		keys:     g.keys.take(keep),
		keyPaths: g.keyPaths,
		groups:   takeColumn(g.groups, keep).(*FrameColumn),
		source:   g.source,
	}
}

// String returns a string representation of the grouping
func (g *GroupedDataFrame) String() string {
	return fmt.Sprintf("GroupedDataFrame[%d groups, keys=%v]", g.Len(), g.keys.ColumnNames())
}
