package dataframe

import (
	"slices"
	"strings"
)

// ColumnPath addresses a column by descending through group columns from
// the root of a DataFrame.
type ColumnPath []string

// Path builds a ColumnPath from its segments
func Path(names ...string) ColumnPath {
	return ColumnPath(names)
}

// ParsePath splits a dotted path such as "name.firstName"
func ParsePath(s string) ColumnPath {
	if s == "" {
		return nil
	}
	return ColumnPath(strings.Split(s, "."))
}

// Paths converts dotted names to paths
func Paths(names ...string) []ColumnPath {
	out := make([]ColumnPath, len(names))
	for i, n := range names {
		out[i] = ParsePath(n)
	}
	return out
}

// Equal reports segment-wise equality
func (p ColumnPath) Equal(o ColumnPath) bool {
	return slices.Equal(p, o)
}

// HasPrefix reports whether prefix is a leading part of p
func (p ColumnPath) HasPrefix(prefix ColumnPath) bool {
	return len(prefix) <= len(p) && slices.Equal(p[:len(prefix)], prefix)
}

// Parent returns the path without its last segment
func (p ColumnPath) Parent() ColumnPath {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1 : len(p)-1]
}

// Last returns the last segment
func (p ColumnPath) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new path extended by name
func (p ColumnPath) Child(name string) ColumnPath {
	out := make(ColumnPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Concat returns a new path of p followed by o
func (p ColumnPath) Concat(o ColumnPath) ColumnPath {
	out := make(ColumnPath, 0, len(p)+len(o))
	out = append(out, p...)
	return append(out, o...)
}

// String returns the dotted form
func (p ColumnPath) String() string {
	return strings.Join(p, ".")
}

func (p ColumnPath) key() string {
	return strings.Join(p, "\x1f")
}

// DropStartWrt returns the suffix of child after the longest common prefix
// with parent.
func DropStartWrt(parent, child ColumnPath) ColumnPath {
	i := 0
	for i < len(parent) && i < len(child) && parent[i] == child[i] {
		i++
	}
	return slices.Clone(child[i:])
}

// DropOverlappingStartOfChild removes the longest prefix of child that is
// also a suffix of parent.
func DropOverlappingStartOfChild(parent, child ColumnPath) ColumnPath {
	n := min(len(parent), len(child))
	for k := n; k > 0; k-- {
		if slices.Equal(parent[len(parent)-k:], child[:k]) {
			return slices.Clone(child[k:])
		}
	}
	return slices.Clone(child)
}
