package dataframe

import (
	"time"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
	"go.uber.org/zap"
)

// JoinType represents the type of join operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullOuterJoin
	// ExcludeJoin keeps the left rows without a match, left columns only.
	ExcludeJoin
)

// String returns the join type name
func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullOuterJoin:
		return "OUTER"
	case ExcludeJoin:
		return "EXCLUDE"
	}
	return "UNKNOWN"
}

// JoinPair matches a left key column with a right key column
type JoinPair struct {
	Left  ColumnPath
	Right ColumnPath
}

// On pairs identically named columns, given as dotted paths
func On(names ...string) []JoinPair {
	pairs := make([]JoinPair, len(names))
	for i, n := range names {
		p := ParsePath(n)
		pairs[i] = JoinPair{Left: p, Right: p}
	}
	return pairs
}

// JoinOptions specifies parameters for join operations
type JoinOptions struct {
	Type JoinType
	// On lists the key pairs. When empty, top-level columns present on
	// both sides are used.
	On []JoinPair
	// AddNewColumns set to false turns the join into a row filter: only
	// left columns are kept and every left row appears at most once.
	AddNewColumns *bool
}

// Join joins df with right. Group keys are compared on the leaf columns
// present under both groups; leaves found on one side only are ignored.
func (df *DataFrame) Join(right *DataFrame, opts *JoinOptions) (result *DataFrame, err error) {
	if opts == nil {
		opts = &JoinOptions{}
	}
	defer observe("join", time.Now(), df.Len()+right.Len(), &err, zap.Stringer("type", opts.Type))

	pairs, err := joinPairs(df, right, opts.On)
	if err != nil {
		return nil, err
	}
	leftKeys := make([]*series.Series, len(pairs))
	rightKeys := make([]*series.Series, len(pairs))
	rightPaths := make([]ColumnPath, len(pairs))
	for i, p := range pairs {
		if leftKeys[i], err = joinKey(df, p.Left); err != nil {
			return nil, err
		}
		if rightKeys[i], err = joinKey(right, p.Right); err != nil {
			return nil, err
		}
		rightPaths[i] = p.Right
	}

	addColumns := opts.AddNewColumns == nil || *opts.AddNewColumns
	if opts.Type == ExcludeJoin {
		addColumns = false
	}

	index := value.NewTupleIndex(right.Len())
	for r := 0; r < right.Len(); r++ {
		index.Add(tupleAt(rightKeys, r), r)
	}

	matched := make([]bool, right.Len())
	var li, ri []int
	for l := 0; l < df.Len(); l++ {
		var matches []int
		if ord := index.Lookup(tupleAt(leftKeys, l)); ord >= 0 {
			matches = index.Rows(ord)
		}
		switch {
		case opts.Type == ExcludeJoin:
			if len(matches) == 0 {
				li, ri = append(li, l), append(ri, -1)
			}
		case len(matches) == 0:
			if opts.Type == LeftJoin || opts.Type == FullOuterJoin {
				li, ri = append(li, l), append(ri, -1)
			}
		case !addColumns:
			li, ri = append(li, l), append(ri, matches[0])
			for _, m := range matches {
				matched[m] = true
			}
		default:
			for _, m := range matches {
				li, ri = append(li, l), append(ri, m)
				matched[m] = true
			}
		}
	}
	if opts.Type == RightJoin || opts.Type == FullOuterJoin {
		for r, ok := range matched {
			if !ok {
				li, ri = append(li, -1), append(ri, r)
			}
		}
	}

	leftPart := df.take(li)
	if leftPart, err = fillRightOnlyKeys(leftPart, pairs, leftKeys, rightKeys, li, ri); err != nil {
		return nil, err
	}
	if !addColumns {
		return leftPart, nil
	}

	rest, _, err := Remove(right, rightPaths...)
	if err != nil {
		return nil, err
	}
	rightPart := rest.take(ri)

	cols := leftPart.Columns()
	taken := make(map[string]struct{}, len(cols)+rightPart.Width())
	for _, c := range cols {
		taken[c.Name()] = struct{}{}
	}
	for _, c := range rightPart.columns {
		name := uniqueName(c.Name(), func(n string) bool {
			_, ok := taken[n]
			return ok
		})
		taken[name] = struct{}{}
		cols = append(cols, renameColumn(c, name))
	}
	return newFrame(cols, len(li)), nil
}

// joinPairs resolves and expands the key pairs of a join
func joinPairs(left, right *DataFrame, on []JoinPair) ([]JoinPair, error) {
	if len(on) == 0 {
		for _, c := range left.columns {
			if right.HasColumn(c.Name()) {
				on = append(on, JoinPair{Left: Path(c.Name()), Right: Path(c.Name())})
			}
		}
	}

	var out []JoinPair
	for _, p := range on {
		lc, err := left.resolve("Join", p.Left)
		if err != nil {
			return nil, err
		}
		rc, err := right.resolve("Join", p.Right)
		if err != nil {
			return nil, err
		}
		lg, lok := lc.(*GroupColumn)
		rg, rok := rc.(*GroupColumn)
		switch {
		case lok && rok:
			for _, rel := range lg.df.leafPaths() {
				if _, err := rg.df.resolve("Join", rel); err == nil {
					out = append(out, JoinPair{Left: p.Left.Concat(rel), Right: p.Right.Concat(rel)})
				}
			}
		case lok || rok:
			return nil, dferrors.NewTypeError("Join", p.Left.String(),
				"cannot match a column group with a value column")
		default:
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, &dferrors.DataFrameError{
			Kind:    dferrors.KindMissingPath,
			Op:      "Join",
			Message: "no join columns",
		}
	}
	return out, nil
}

func joinKey(df *DataFrame, path ColumnPath) (*series.Series, error) {
	s, err := df.Series(path)
	if err != nil {
		return nil, dferrors.Wrap("Join", err)
	}
	return s, nil
}

// fillRightOnlyKeys copies the right key values into the left key columns
// of rows that exist only on the right.
func fillRightOnlyKeys(left *DataFrame, pairs []JoinPair, leftKeys, rightKeys []*series.Series, li, ri []int) (*DataFrame, error) {
	rightOnly := false
	for _, l := range li {
		if l < 0 {
			rightOnly = true
			break
		}
	}
	if !rightOnly {
		return left, nil
	}
	for k, p := range pairs {
		col, err := left.Series(p.Left)
		if err != nil {
			return nil, err
		}
		values := col.Values()
		for i, l := range li {
			if l < 0 {
				values[i] = rightKeys[k].Value(ri[i])
			}
		}
		lt, rt := leftKeys[k].Type(), rightKeys[k].Type()
		typ := value.CommonType(lt, rt).WithNullable(lt.Nullable || rt.Nullable)
		filled, err := series.NewWithType(col.Name(), values, typ)
		if err != nil {
			return nil, dferrors.Wrap("Join", err)
		}
		if left, err = left.Replace(p.Left, filled); err != nil {
			return nil, err
		}
	}
	return left, nil
}

// InnerJoin keeps matching rows only
func (df *DataFrame) InnerJoin(right *DataFrame, on ...JoinPair) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: InnerJoin, On: on})
}

// LeftJoin keeps every left row
func (df *DataFrame) LeftJoin(right *DataFrame, on ...JoinPair) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: LeftJoin, On: on})
}

// RightJoin keeps every right row
func (df *DataFrame) RightJoin(right *DataFrame, on ...JoinPair) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: RightJoin, On: on})
}

// OuterJoin keeps every row of both sides
func (df *DataFrame) OuterJoin(right *DataFrame, on ...JoinPair) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: FullOuterJoin, On: on})
}

// ExcludeJoin keeps the left rows that have no match
func (df *DataFrame) ExcludeJoin(right *DataFrame, on ...JoinPair) (*DataFrame, error) {
	return df.Join(right, &JoinOptions{Type: ExcludeJoin, On: on})
}

// FilterJoin keeps the left rows that have a match, left columns only
func (df *DataFrame) FilterJoin(right *DataFrame, on ...JoinPair) (*DataFrame, error) {
	addColumns := false
	return df.Join(right, &JoinOptions{Type: InnerJoin, On: on, AddNewColumns: &addColumns})
}
