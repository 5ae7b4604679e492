package dataframe

import (
	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/validation"
	"github.com/paveg/canopy/internal/value"
)

// ColumnSelector resolves a set of column paths against a DataFrame
type ColumnSelector func(df *DataFrame) ([]ColumnPath, error)

// Resolve applies sel to df
func (df *DataFrame) Resolve(sel ColumnSelector) ([]ColumnPath, error) {
	if sel == nil {
		return nil, dferrors.NewInvalidInputError("Resolve", "nil column selector")
	}
	return sel(df)
}

// Cols selects the given paths, which must all exist
func Cols(paths ...ColumnPath) ColumnSelector {
	return func(df *DataFrame) ([]ColumnPath, error) {
		for _, p := range paths {
			if _, err := df.resolve("Cols", p); err != nil {
				return nil, err
			}
		}
		return paths, nil
	}
}

// ByName selects dotted column names such as "name.firstName"
func ByName(names ...string) ColumnSelector {
	return Cols(Paths(names...)...)
}

// All selects every top-level column
func All() ColumnSelector {
	return func(df *DataFrame) ([]ColumnPath, error) {
		out := make([]ColumnPath, len(df.columns))
		for i, c := range df.columns {
			out[i] = Path(c.Name())
		}
		return out, nil
	}
}

// Leaves selects every non-group column, depth first
func Leaves() ColumnSelector {
	return func(df *DataFrame) ([]ColumnPath, error) {
		return df.leafPaths(), nil
	}
}

// Where selects the leaf columns for which pred returns true
func Where(pred func(path ColumnPath, col Column) bool) ColumnSelector {
	return func(df *DataFrame) ([]ColumnPath, error) {
		var out []ColumnPath
		for _, p := range df.leafPaths() {
			col, _ := df.resolve("Where", p)
			if pred(p, col) {
				out = append(out, p)
			}
		}
		return out, nil
	}
}

// OfKind selects the leaf columns of the given kinds
func OfKind(kinds ...value.Kind) ColumnSelector {
	return Where(func(_ ColumnPath, col Column) bool {
		for _, k := range kinds {
			if col.Type().Kind == k {
				return true
			}
		}
		return false
	})
}

// Single requires sel to resolve to exactly one column
func Single(sel ColumnSelector) ColumnSelector {
	return func(df *DataFrame) ([]ColumnPath, error) {
		paths, err := df.Resolve(sel)
		if err != nil {
			return nil, err
		}
		switch len(paths) {
		case 0:
			return nil, &dferrors.DataFrameError{
				Kind:    dferrors.KindMissingPath,
				Op:      "Single",
				Message: "selector matched no columns",
			}
		case 1:
			return paths, nil
		}
		return nil, dferrors.NewTooManyError("Single", "selector matched more than one column")
	}
}

// ColGroup selects the existing group column at path
func ColGroup(path ColumnPath) ColumnSelector {
	return func(df *DataFrame) ([]ColumnPath, error) {
		col, err := df.resolve("ColGroup", path)
		if err != nil {
			return nil, err
		}
		if _, ok := col.(*GroupColumn); !ok {
			return nil, dferrors.NewNotAGroupError("ColGroup", path.String())
		}
		return []ColumnPath{path}, nil
	}
}

// Range selects the sibling columns between from and to, both inclusive
func Range(from, to ColumnPath) ColumnSelector {
	return func(df *DataFrame) ([]ColumnPath, error) {
		if !from.Parent().Equal(to.Parent()) {
			return nil, dferrors.NewInvalidInputError("Range",
				"columns '"+from.String()+"' and '"+to.String()+"' are not siblings")
		}
		if _, err := df.resolve("Range", from); err != nil {
			return nil, err
		}
		if _, err := df.resolve("Range", to); err != nil {
			return nil, err
		}
		container := df
		if parent := from.Parent(); len(parent) > 0 {
			col, _ := df.resolve("Range", parent)
			container = col.(*GroupColumn).df
		}
		start, end := container.index[from.Last()], container.index[to.Last()]
		if err := validation.ValidateOrder("Range", from.String(), start, to.String(), end); err != nil {
			return nil, err
		}
		out := make([]ColumnPath, 0, end-start+1)
		for _, c := range container.columns[start : end+1] {
			out = append(out, from.Parent().Child(c.Name()))
		}
		return out, nil
	}
}
