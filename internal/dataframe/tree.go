package dataframe

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

// treeNode is one column position recorded while removing columns.
type treeNode struct {
	name          string
	originalIndex int
	removed       bool
	column        Column
	parent        int
	children      []int
}

// ColumnTree records the positions of removed columns so that a later
// Insert can put columns back where they were. Nodes live in a flat slice
// and reference each other by index; node 0 is the root.
type ColumnTree struct {
	nodes []treeNode
}

func newColumnTree() *ColumnTree {
	return &ColumnTree{nodes: []treeNode{{parent: -1, originalIndex: -1}}}
}

// TreeRef points at one node of a ColumnTree.
type TreeRef struct {
	tree *ColumnTree
	node int
}

// Root returns a reference to the root node
func (t *ColumnTree) Root() TreeRef { return TreeRef{tree: t, node: 0} }

// Find returns the node addressed by path
func (t *ColumnTree) Find(path ColumnPath) (TreeRef, bool) {
	node := 0
	for _, name := range path {
		node = t.childNamed(node, name)
		if node < 0 {
			return TreeRef{}, false
		}
	}
	return TreeRef{tree: t, node: node}, true
}

// Removed returns the outermost removed nodes in original column order.
func (t *ColumnTree) Removed() []TreeRef {
	var out []TreeRef
	var walk func(node int)
	walk = func(node int) {
		for _, c := range t.sortedChildren(node) {
			if t.nodes[c].removed {
				out = append(out, TreeRef{tree: t, node: c})
				continue
			}
			walk(c)
		}
	}
	walk(0)
	return out
}

// ToInsert returns the removed columns as insertions anchored at their
// original positions. Inserting them into the result of Remove restores the
// original DataFrame.
func (t *ColumnTree) ToInsert() []ColumnToInsert {
	refs := t.Removed()
	out := make([]ColumnToInsert, len(refs))
	for i, ref := range refs {
		r := ref
		out[i] = ColumnToInsert{Path: r.Path(), Column: r.Column(), Ref: &r}
	}
	return out
}

func (t *ColumnTree) childNamed(node int, name string) int {
	for _, c := range t.nodes[node].children {
		if t.nodes[c].name == name {
			return c
		}
	}
	return -1
}

func (t *ColumnTree) addChild(node int, name string, originalIndex int) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{name: name, originalIndex: originalIndex, parent: node})
	t.nodes[node].children = append(t.nodes[node].children, id)
	return id
}

func (t *ColumnTree) sortedChildren(node int) []int {
	children := slices.Clone(t.nodes[node].children)
	slices.SortStableFunc(children, func(a, b int) int {
		return t.nodes[a].originalIndex - t.nodes[b].originalIndex
	})
	return children
}

func (t *ColumnTree) depth(node int) int {
	d := 0
	for node > 0 {
		node = t.nodes[node].parent
		d++
	}
	return d
}

// ancestorAt walks up from node to the ancestor at the given depth
func (t *ColumnTree) ancestorAt(node, depth int) int {
	for d := t.depth(node); d > depth; d-- {
		node = t.nodes[node].parent
	}
	return node
}

func (t *ColumnTree) path(node int) ColumnPath {
	var p ColumnPath
	for node > 0 {
		p = append(p, t.nodes[node].name)
		node = t.nodes[node].parent
	}
	slices.Reverse(p)
	return p
}

// removedIndices returns the original indices of removed children of node
func (t *ColumnTree) removedIndices(node int) map[int]struct{} {
	out := make(map[int]struct{})
	for _, c := range t.nodes[node].children {
		if t.nodes[c].removed {
			out[t.nodes[c].originalIndex] = struct{}{}
		}
	}
	return out
}

// Path returns the column path of the node
func (r TreeRef) Path() ColumnPath { return r.tree.path(r.node) }

// Name returns the column name of the node
func (r TreeRef) Name() string { return r.tree.nodes[r.node].name }

// OriginalIndex returns the position among siblings before removal
func (r TreeRef) OriginalIndex() int { return r.tree.nodes[r.node].originalIndex }

// Removed reports whether the column itself was removed
func (r TreeRef) Removed() bool { return r.tree.nodes[r.node].removed }

// Column returns the removed column, nil for nodes that were only traversed
func (r TreeRef) Column() Column { return r.tree.nodes[r.node].column }

// Depth returns the nesting depth; the root has depth 0
func (r TreeRef) Depth() int { return r.tree.depth(r.node) }

// Remove removes the columns at paths. Groups that lose all their children
// are removed too. The returned tree records where every removed column
// was.
func Remove(df *DataFrame, paths ...ColumnPath) (result *DataFrame, tree *ColumnTree, err error) {
	defer observe("remove", time.Now(), df.Len(), &err, zap.Int("columns", len(paths)))

	tree = newColumnTree()
	for _, p := range paths {
		var col Column
		col, err = df.resolve("Remove", p)
		if err != nil {
			return nil, nil, err
		}
		node, cur := 0, df
		for i, name := range p {
			child := tree.childNamed(node, name)
			if child < 0 {
				child = tree.addChild(node, name, cur.index[name])
			}
			node = child
			if i < len(p)-1 {
				cur = cur.columns[cur.index[name]].(*GroupColumn).df
			}
		}
		tree.nodes[node].removed = true
		tree.nodes[node].column = col
	}
	return df.withColumns(tree.rebuild(df, 0)), tree, nil
}

func (t *ColumnTree) rebuild(df *DataFrame, node int) []Column {
	kept := make([]Column, 0, len(df.columns))
	for _, col := range df.columns {
		child := t.childNamed(node, col.Name())
		if child < 0 {
			kept = append(kept, col)
			continue
		}
		if t.nodes[child].removed {
			continue
		}
		g := col.(*GroupColumn)
		sub := t.rebuild(g.df, child)
		if len(sub) == 0 {
			t.nodes[child].removed = true
			t.nodes[child].column = col
			continue
		}
		kept = append(kept, &GroupColumn{name: g.name, df: g.df.withColumns(sub)})
	}
	return kept
}
