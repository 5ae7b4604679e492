package dataframe

import (
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/validation"
	"github.com/paveg/canopy/internal/value"
	"golang.org/x/exp/constraints"
)

// Reducer folds the rows of a group into one value. Empty is the value of
// a combination that has no rows at all.
type Reducer struct {
	Name   string
	Empty  value.Value
	Reduce func(rows *DataFrame) (value.Value, error)
}

// Into returns the reducer with a different output name
func (r Reducer) Into(name string) Reducer {
	r.Name = name
	return r
}

// WithEmpty returns the reducer with a different empty value
func (r Reducer) WithEmpty(v value.Value) Reducer {
	r.Empty = v
	return r
}

func (r Reducer) apply(rows *DataFrame) (value.Value, error) {
	if rows.Len() == 0 {
		return r.Empty, nil
	}
	return r.Reduce(rows)
}

// Count counts rows; empty combinations count 0
func Count() Reducer {
	return Reducer{
		Name:  "count",
		Empty: value.Int(0),
		Reduce: func(rows *DataFrame) (value.Value, error) {
			return value.Int(int64(rows.Len())), nil
		},
	}
}

// Matches reports whether any row exists; empty combinations are false
func Matches() Reducer {
	return Reducer{
		Name:  "matches",
		Empty: value.Bool(false),
		Reduce: func(*DataFrame) (value.Value, error) {
			return value.Bool(true), nil
		},
	}
}

// Sum adds the non-null numbers of the column at path
func Sum(path ColumnPath) Reducer {
	return numericReducer("sum", path, func(s *series.Series) value.Value {
		if s.Type().Kind == value.KindInt {
			return value.Int(sum(collect(s, value.Value.AsInt)))
		}
		return value.Float(sum(collect(s, value.Value.AsFloat)))
	})
}

// Mean averages the non-null numbers of the column at path
func Mean(path ColumnPath) Reducer {
	return numericReducer("mean", path, func(s *series.Series) value.Value {
		xs := collect(s, value.Value.AsFloat)
		if len(xs) == 0 {
			return value.Null()
		}
		return value.Float(sum(xs) / float64(len(xs)))
	})
}

// Min returns the smallest non-null value of the column at path
func Min(path ColumnPath) Reducer {
	return valueReducer("min", path, func(s *series.Series) value.Value {
		return extremum(s, -1)
	})
}

// Max returns the largest non-null value of the column at path
func Max(path ColumnPath) Reducer {
	return valueReducer("max", path, func(s *series.Series) value.Value {
		return extremum(s, 1)
	})
}

// First returns the value of the first row
func First(path ColumnPath) Reducer {
	return valueReducer(path.Last(), path, func(s *series.Series) value.Value {
		return s.Value(0)
	})
}

// Last returns the value of the last row
func Last(path ColumnPath) Reducer {
	return valueReducer(path.Last(), path, func(s *series.Series) value.Value {
		return s.Value(s.Len() - 1)
	})
}

// Values collects the column values of all rows into a list
func Values(path ColumnPath) Reducer {
	return valueReducer(path.Last(), path, func(s *series.Series) value.Value {
		return value.List(s.Values()...)
	})
}

// Aggregate wraps an arbitrary reduction; empty combinations are null
func Aggregate(name string, fn func(rows *DataFrame) (value.Value, error)) Reducer {
	return Reducer{Name: name, Empty: value.Null(), Reduce: fn}
}

func valueReducer(name string, path ColumnPath, fn func(*series.Series) value.Value) Reducer {
	return Reducer{
		Name:  name,
		Empty: value.Null(),
		Reduce: func(rows *DataFrame) (value.Value, error) {
			s, err := rows.Series(path)
			if err != nil {
				return value.Null(), err
			}
			return fn(s), nil
		},
	}
}

func numericReducer(name string, path ColumnPath, fn func(*series.Series) value.Value) Reducer {
	return valueReducer(name, path, fn).withCheck(func(s *series.Series) error {
		return validation.ValidateKind(name, path.String(), s.Type(),
			value.KindInt, value.KindFloat, value.KindNull)
	}, path)
}

func (r Reducer) withCheck(check func(*series.Series) error, path ColumnPath) Reducer {
	reduce := r.Reduce
	r.Reduce = func(rows *DataFrame) (value.Value, error) {
		s, err := rows.Series(path)
		if err != nil {
			return value.Null(), err
		}
		if err := check(s); err != nil {
			return value.Null(), err
		}
		return reduce(rows)
	}
	return r
}

func collect[T constraints.Integer | constraints.Float](s *series.Series, as func(value.Value) (T, bool)) []T {
	out := make([]T, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if x, ok := as(s.Value(i)); ok {
			out = append(out, x)
		}
	}
	return out
}

func sum[T constraints.Integer | constraints.Float](xs []T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}

// extremum returns the smallest (sign -1) or largest (sign 1) non-null value
func extremum(s *series.Series, sign int) value.Value {
	best := value.Null()
	for i := 0; i < s.Len(); i++ {
		v := s.Value(i)
		if v.IsNull() {
			continue
		}
		if best.IsNull() || v.Compare(best)*sign > 0 {
			best = v
		}
	}
	return best
}
