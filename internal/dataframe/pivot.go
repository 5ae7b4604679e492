package dataframe

import (
	"slices"
	"time"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
	"go.uber.org/zap"
)

// PivotOptions configures a pivot.
type PivotOptions struct {
	// Keys are the columns whose distinct values become column names.
	// Several keys nest: the first key names the outermost group.
	Keys []ColumnPath
	// Reducers fold the rows of every cell. Matches is used when empty.
	// With several reducers each pivot column is a group of reducer
	// outputs named after the reducers.
	Reducers []Reducer
	// Default, when set, replaces every reducer's empty value.
	Default *value.Value
	// Into nests all pivot columns under the group at this path.
	Into ColumnPath
	// Order lists first-level column names that go first, in this order.
	Order []string
}

// Pivot spreads the whole frame into a single row
func Pivot(df *DataFrame, opts PivotOptions) (result *DataFrame, err error) {
	defer observe("pivot", time.Now(), df.Len(), &err)
	return pivotBuckets(newFrame(nil, 1), []*DataFrame{df}, opts)
}

// Pivot spreads every group. Group keys that are also pivot keys are
// dropped from the output keys; groups whose remaining keys are equal end
// up in the same output row.
func (g *GroupedDataFrame) Pivot(opts PivotOptions) (result *DataFrame, err error) {
	defer observe("pivot", time.Now(), g.source.Len(), &err, zap.Int("groups", g.Len()))

	var outerPaths []ColumnPath
	for _, p := range g.keyPaths {
		if !slices.ContainsFunc(opts.Keys, p.Equal) {
			outerPaths = append(outerPaths, p)
		}
	}

	if len(outerPaths) == 0 {
		whole, err := g.Concat()
		if err != nil {
			return nil, err
		}
		return pivotBuckets(newFrame(nil, 1), []*DataFrame{whole}, opts)
	}

	keyDF, err := nestedSelect("Pivot", g.keys, outerPaths)
	if err != nil {
		return nil, err
	}
	leaves, err := keyLeaves("Pivot", g.keys, outerPaths)
	if err != nil {
		return nil, err
	}
	index := value.NewTupleIndex(g.Len())
	for i := 0; i < g.Len(); i++ {
		index.Add(tupleAt(leaves, i), i)
	}

	firsts := make([]int, index.Len())
	buckets := make([]*DataFrame, index.Len())
	for ord := range buckets {
		members := index.Rows(ord)
		firsts[ord] = members[0]
		if len(members) == 1 {
			buckets[ord] = g.groups.frames[members[0]]
			continue
		}
		parts := make([]*DataFrame, len(members))
		for i, m := range members {
			parts[i] = g.groups.frames[m]
		}
		if buckets[ord], err = concatFrames(parts); err != nil {
			return nil, err
		}
	}
	return pivotBuckets(keyDF.take(firsts), buckets, opts)
}

type pivotCell struct {
	bucket int
	column string
}

// pivotBuckets builds one output row per bucket on top of outer.
func pivotBuckets(outer *DataFrame, buckets []*DataFrame, opts PivotOptions) (*DataFrame, error) {
	if len(opts.Keys) == 0 {
		return nil, dferrors.NewInvalidInputError("Pivot", "at least one pivot key is required")
	}
	reducers := opts.Reducers
	if len(reducers) == 0 {
		reducers = []Reducer{Matches()}
	}
	nullName := engineConfig().NullKeyName

	var columns []ColumnPath
	seen := make(map[string]struct{})
	cells := make(map[pivotCell][]int)
	for b, frame := range buckets {
		keys := make([]*series.Series, len(opts.Keys))
		for k, p := range opts.Keys {
			s, err := frame.Series(p)
			if err != nil {
				return nil, dferrors.Wrap("Pivot", err)
			}
			keys[k] = s
		}
		for r := 0; r < frame.Len(); r++ {
			names := make(ColumnPath, len(keys))
			for k, s := range keys {
				names[k] = keyName(s.Value(r), nullName)
			}
			id := names.key()
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				columns = append(columns, names)
			}
			cell := pivotCell{bucket: b, column: id}
			cells[cell] = append(cells[cell], r)
		}
	}

	if len(opts.Order) > 0 {
		rank := make(map[string]int, len(opts.Order))
		for i, name := range opts.Order {
			rank[name] = i
		}
		rankOf := func(p ColumnPath) int {
			if r, ok := rank[p[0]]; ok {
				return r
			}
			return len(opts.Order)
		}
		slices.SortStableFunc(columns, func(a, b ColumnPath) int {
			return rankOf(a) - rankOf(b)
		})
	}

	items := make([]ColumnToInsert, 0, len(columns)*len(reducers))
	for _, names := range columns {
		for _, red := range reducers {
			values := make([]value.Value, len(buckets))
			for b, frame := range buckets {
				rows, ok := cells[pivotCell{bucket: b, column: names.key()}]
				if !ok {
					values[b] = red.Empty
					if opts.Default != nil {
						values[b] = *opts.Default
					}
					continue
				}
				v, err := red.apply(frame.take(rows))
				if err != nil {
					return nil, dferrors.Wrap("Pivot", err)
				}
				values[b] = v
			}
			path := opts.Into.Concat(names)
			if len(reducers) > 1 {
				path = path.Child(red.Name)
			}
			items = append(items, ColumnToInsert{Path: path, Column: series.FromValues(path.Last(), values)})
		}
	}
	return Insert(outer, items...)
}

// keyName is the column name produced for a pivot key value
func keyName(v value.Value, nullName string) string {
	if v.IsNull() {
		return nullName
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	return v.String()
}
