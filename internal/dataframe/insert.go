package dataframe

import (
	"math"
	"slices"
	"time"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/validation"
	"go.uber.org/zap"
)

// ColumnToInsert is one column to insert at Path. Ref, when set, points at
// the removal tree node whose original position the column should take.
type ColumnToInsert struct {
	Path   ColumnPath
	Column Column
	Ref    *TreeRef
}

// Insert inserts columns at their paths, creating groups for paths that do
// not exist yet. Columns anchored to a removal tree go back to their
// original positions; all others are appended in request order.
func Insert(df *DataFrame, items ...ColumnToInsert) (result *DataFrame, err error) {
	defer observe("insert", time.Now(), df.Len(), &err, zap.Int("columns", len(items)))

	if len(items) == 0 {
		return df, nil
	}
	rows := df.rows
	if len(df.columns) == 0 && df.rows == 0 && items[0].Column != nil {
		rows = items[0].Column.Len()
	}
	for _, it := range items {
		if len(it.Path) == 0 {
			return nil, dferrors.NewInvalidInputError("Insert", "empty column path")
		}
		if it.Column == nil {
			return nil, dferrors.NewInvalidInputError("Insert", "nil column for "+it.Path.String())
		}
		if err = validation.ValidateLength(rows, it.Column.Len(), "Insert", "column "+it.Path.String()); err != nil {
			return nil, err
		}
	}
	cols, err := insertLevel(df.columns, items, nil, rows)
	if err != nil {
		return nil, err
	}
	return newFrame(cols, rows), nil
}

type slot struct {
	key   int
	isNew bool
	seq   int
	col   Column
}

// insertLevel merges items into the columns of one level. prefix is the
// path of the level; every item path starts with it.
func insertLevel(existing []Column, items []ColumnToInsert, prefix ColumnPath, rows int) ([]Column, error) {
	depth := len(prefix)

	var names []string
	byName := make(map[string][]ColumnToInsert)
	for _, it := range items {
		name := it.Path[depth]
		if _, ok := byName[name]; !ok {
			names = append(names, name)
		}
		byName[name] = append(byName[name], it)
	}

	tree, parent := levelAnchor(items, depth)
	slots := existingSlots(existing, tree, parent)
	position := make(map[string]int, len(existing))
	for i, c := range existing {
		position[c.Name()] = i
	}

	for seq, name := range names {
		group := byName[name]
		path := prefix.Child(name)

		if i, ok := position[name]; ok {
			for _, it := range group {
				if len(it.Path) == depth+1 {
					return nil, dferrors.NewColumnExistsError("Insert", path.String())
				}
			}
			g, ok := existing[i].(*GroupColumn)
			if !ok {
				return nil, dferrors.NewStructuralError("Insert", path.String(), "column is not a column group")
			}
			sub, err := insertLevel(g.df.columns, group, path, rows)
			if err != nil {
				return nil, err
			}
			slots[i].col = &GroupColumn{name: g.name, df: newFrame(sub, rows)}
			continue
		}

		col, err := newLevelColumn(group, path, rows)
		if err != nil {
			return nil, err
		}
		key := math.MaxInt
		for _, it := range group {
			if k, ok := anchorKey(it, tree, parent, depth); ok && k < key {
				key = k
			}
		}
		slots = append(slots, slot{key: key, isNew: true, seq: seq, col: col})
	}

	slices.SortStableFunc(slots, func(a, b slot) int {
		switch {
		case a.key != b.key:
			if a.key < b.key {
				return -1
			}
			return 1
		case a.isNew != b.isNew:
			if a.isNew {
				return -1
			}
			return 1
		}
		return a.seq - b.seq
	})

	out := make([]Column, len(slots))
	for i, s := range slots {
		out[i] = s.col
	}
	return out, nil
}

// newLevelColumn builds the column for a name that does not exist yet at
// this level.
func newLevelColumn(group []ColumnToInsert, path ColumnPath, rows int) (Column, error) {
	depth := len(path) - 1
	var terminal, deeper []ColumnToInsert
	for _, it := range group {
		if len(it.Path) == depth+1 {
			terminal = append(terminal, it)
		} else {
			deeper = append(deeper, it)
		}
	}

	switch {
	case len(terminal) > 1:
		return nil, dferrors.NewColumnExistsError("Insert", path.String())
	case len(terminal) == 1 && len(deeper) == 0:
		return renameColumn(terminal[0].Column, path.Last()), nil
	case len(terminal) == 1:
		g, ok := terminal[0].Column.(*GroupColumn)
		if !ok {
			return nil, dferrors.NewStructuralError("Insert", path.String(), "column is not a column group")
		}
		sub, err := insertLevel(g.df.columns, deeper, path, rows)
		if err != nil {
			return nil, err
		}
		return &GroupColumn{name: path.Last(), df: newFrame(sub, rows)}, nil
	}
	sub, err := insertLevel(nil, deeper, path, rows)
	if err != nil {
		return nil, err
	}
	return &GroupColumn{name: path.Last(), df: newFrame(sub, rows)}, nil
}

// levelAnchor finds the removal tree node standing for the level at depth.
func levelAnchor(items []ColumnToInsert, depth int) (*ColumnTree, int) {
	for _, it := range items {
		if it.Ref == nil || it.Ref.tree == nil {
			continue
		}
		if it.Ref.tree.depth(it.Ref.node) > depth {
			return it.Ref.tree, it.Ref.tree.ancestorAt(it.Ref.node, depth)
		}
	}
	return nil, -1
}

// anchorKey returns the original index the item should take at this level.
func anchorKey(it ColumnToInsert, tree *ColumnTree, parent, depth int) (int, bool) {
	if tree == nil || it.Ref == nil || it.Ref.tree != tree {
		return 0, false
	}
	if tree.depth(it.Ref.node) <= depth {
		return 0, false
	}
	a := tree.ancestorAt(it.Ref.node, depth+1)
	if tree.nodes[a].parent != parent {
		return 0, false
	}
	return tree.nodes[a].originalIndex, true
}

// existingSlots assigns original indices to surviving columns by skipping
// the positions of removed siblings.
func existingSlots(existing []Column, tree *ColumnTree, parent int) []slot {
	slots := make([]slot, len(existing), len(existing)+4)
	var removed map[int]struct{}
	if tree != nil {
		removed = tree.removedIndices(parent)
	}
	next := 0
	for i, c := range existing {
		for {
			if _, skip := removed[next]; !skip {
				break
			}
			next++
		}
		slots[i] = slot{key: next, col: c}
		next++
	}
	return slots
}
