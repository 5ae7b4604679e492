package dataframe

import (
	"fmt"
	"time"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
	"go.uber.org/zap"
)

// Concat stacks frames vertically. Columns are matched by name and kept in
// first-appearance order; a column missing from a frame contributes null
// rows. Value types widen to their common type and groups merge
// recursively. Nil frames are skipped.
func Concat(frames ...*DataFrame) (result *DataFrame, err error) {
	rows := 0
	for _, f := range frames {
		if f != nil {
			rows += f.Len()
		}
	}
	defer observe("concat", time.Now(), rows, &err, zap.Int("frames", len(frames)))

	return concatFrames(frames)
}

func concatFrames(frames []*DataFrame) (*DataFrame, error) {
	parts := make([]*DataFrame, 0, len(frames))
	for _, f := range frames {
		if f != nil {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return Empty(), nil
	case 1:
		return parts[0], nil
	}

	var names []string
	seen := make(map[string]struct{})
	rows := 0
	for _, p := range parts {
		rows += p.Len()
		for _, c := range p.columns {
			if _, ok := seen[c.Name()]; !ok {
				seen[c.Name()] = struct{}{}
				names = append(names, c.Name())
			}
		}
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		pieces := make([]Column, len(parts))
		for j, p := range parts {
			if c, ok := p.Column(name); ok {
				pieces[j] = c
			}
		}
		col, err := concatColumn(name, pieces, parts)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return newFrame(cols, rows), nil
}

// concatColumn merges the pieces of one column. A nil piece stands for a
// frame lacking the column.
func concatColumn(name string, pieces []Column, parts []*DataFrame) (Column, error) {
	var kind value.Kind
	for _, c := range pieces {
		if c == nil {
			continue
		}
		k := columnKind(c)
		if kind == value.KindNull {
			kind = k
			continue
		}
		if kind != k {
			return nil, dferrors.NewTypeError("Concat", name,
				fmt.Sprintf("cannot concatenate %s and %s columns", kindLabel(kind), kindLabel(k)))
		}
	}

	switch kind {
	case value.KindGroup:
		frames := make([]*DataFrame, len(pieces))
		for i, c := range pieces {
			if c == nil {
				frames[i] = newFrame(nil, parts[i].Len())
				continue
			}
			frames[i] = c.(*GroupColumn).df
		}
		df, err := concatFrames(frames)
		if err != nil {
			return nil, dferrors.Wrap("Concat", err)
		}
		return &GroupColumn{name: name, df: df}, nil

	case value.KindFrame:
		var cells []*DataFrame
		for i, c := range pieces {
			if c == nil {
				cells = append(cells, make([]*DataFrame, parts[i].Len())...)
				continue
			}
			cells = append(cells, c.(*FrameColumn).frames...)
		}
		return &FrameColumn{name: name, frames: cells}, nil
	}

	typ := value.Type{Kind: value.KindNull}
	var values []value.Value
	for i, c := range pieces {
		if c == nil {
			values = append(values, make([]value.Value, parts[i].Len())...)
			typ.Nullable = true
			continue
		}
		s := c.(*series.Series)
		typ.Kind = value.CommonKind(typ.Kind, s.Type().Kind)
		typ.Nullable = typ.Nullable || s.Type().Nullable
		values = append(values, s.Values()...)
	}
	if typ.Kind == value.KindNull {
		typ.Nullable = true
	}
	out, err := series.NewWithType(name, values, typ)
	if err != nil {
		return nil, dferrors.Wrap("Concat", err)
	}
	return out, nil
}

// columnKind classifies a column for concatenation; every value column
// shares one class.
func columnKind(c Column) value.Kind {
	switch c.(type) {
	case *GroupColumn:
		return value.KindGroup
	case *FrameColumn:
		return value.KindFrame
	}
	return value.KindAny
}

func kindLabel(k value.Kind) string {
	if k == value.KindAny {
		return "value"
	}
	return k.String()
}
