package dataframe

import (
	"time"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
	"go.uber.org/zap"
)

// ExplodeOptions specifies parameters for explode operations
type ExplodeOptions struct {
	// Paths lists the columns to unpack; all top-level columns when empty.
	// A group path targets every column under it.
	Paths []ColumnPath
	// DropEmpty removes rows whose targets are all empty. Nil uses the
	// configured default.
	DropEmpty *bool
}

// Explode unpacks list and frame cells of the target columns into rows.
// Each source row becomes as many rows as its largest target cell; shorter
// cells are padded with nulls and non-target columns are repeated. A nested
// frame cell becomes a column group holding the frame's columns.
func (df *DataFrame) Explode(opts ExplodeOptions) (result *DataFrame, err error) {
	defer observe("explode", time.Now(), df.Len(), &err, zap.Int("targets", len(opts.Paths)))

	dropEmpty := engineConfig().ExplodeDropEmpty
	if opts.DropEmpty != nil {
		dropEmpty = *opts.DropEmpty
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = make([]ColumnPath, 0, df.Width())
		for _, name := range df.ColumnNames() {
			paths = append(paths, Path(name))
		}
	}
	targets := newColumnTree()
	var cols []Column
	for _, p := range paths {
		col, err := df.resolve("Explode", p)
		if err != nil {
			return nil, err
		}
		if g, ok := col.(*GroupColumn); ok {
			for _, rel := range g.df.leafPaths() {
				markTarget(targets, p.Concat(rel))
			}
			for _, rel := range g.df.leafPaths() {
				leaf, _ := g.df.resolve("Explode", rel)
				cols = append(cols, leaf)
			}
			continue
		}
		markTarget(targets, p)
		cols = append(cols, col)
	}

	unpackable := false
	for _, c := range cols {
		if explodable(c) {
			unpackable = true
			break
		}
	}
	if !unpackable {
		return df, nil
	}

	sizes := make([]int, df.Len())
	total := 0
	for row := range sizes {
		size := 0
		for _, c := range cols {
			size = max(size, cellSize(c, row))
		}
		if size == 0 && !dropEmpty {
			size = 1
		}
		sizes[row] = size
		total += size
	}
	repeat := make([]int, 0, total)
	for row, n := range sizes {
		for range n {
			repeat = append(repeat, row)
		}
	}

	out, err := explodeLevel(df, targets, 0, sizes, repeat)
	if err != nil {
		return nil, err
	}
	return newFrame(out, total), nil
}

func markTarget(t *ColumnTree, p ColumnPath) {
	node := 0
	for _, name := range p {
		child := t.childNamed(node, name)
		if child < 0 {
			child = t.addChild(node, name, 0)
		}
		node = child
	}
	t.nodes[node].removed = true
}

func explodable(c Column) bool {
	switch col := c.(type) {
	case *FrameColumn:
		return true
	case *series.Series:
		for _, v := range col.Values() {
			if v.Kind() == value.KindList {
				return true
			}
		}
	}
	return false
}

func explodeLevel(df *DataFrame, targets *ColumnTree, node int, sizes, repeat []int) ([]Column, error) {
	out := make([]Column, len(df.columns))
	for i, c := range df.columns {
		child := targets.childNamed(node, c.Name())
		switch {
		case child < 0:
			out[i] = takeColumn(c, repeat)
		case targets.nodes[child].removed:
			col, err := explodeColumn(c, sizes, len(repeat))
			if err != nil {
				return nil, err
			}
			out[i] = col
		default:
			g := c.(*GroupColumn)
			sub, err := explodeLevel(g.df, targets, child, sizes, repeat)
			if err != nil {
				return nil, err
			}
			out[i] = &GroupColumn{name: g.name, df: newFrame(sub, len(repeat))}
		}
	}
	return out, nil
}

func explodeColumn(c Column, sizes []int, total int) (Column, error) {
	switch col := c.(type) {
	case *series.Series:
		values := make([]value.Value, 0, total)
		for row, n := range sizes {
			v := col.Value(row)
			items, isList := v.AsList()
			if !isList {
				items = []value.Value{v}
			}
			for k := range n {
				if k < len(items) {
					values = append(values, items[k])
				} else {
					values = append(values, value.Null())
				}
			}
		}
		if k := col.Type().Kind; k == value.KindList || k == value.KindAny {
			return series.FromValues(col.Name(), values), nil
		}
		s, err := series.NewWithType(col.Name(), values, col.Type())
		if err != nil {
			return nil, dferrors.Wrap("Explode", err)
		}
		return s, nil

	case *FrameColumn:
		parts := make([]*DataFrame, 0, len(sizes))
		for _, f := range col.frames {
			if f != nil {
				parts = append(parts, f)
			}
		}
		union, err := concatFrames(parts)
		if err != nil {
			return nil, dferrors.Wrap("Explode", err)
		}
		indices := make([]int, 0, total)
		offset := 0
		for row, n := range sizes {
			rows := 0
			if f := col.frames[row]; f != nil {
				rows = f.Len()
			}
			for k := range n {
				if k < rows {
					indices = append(indices, offset+k)
				} else {
					indices = append(indices, -1)
				}
			}
			offset += rows
		}
		return &GroupColumn{name: col.name, df: union.take(indices)}, nil
	}
	return nil, dferrors.NewTypeError("Explode", c.Name(), "column cannot be exploded")
}
