// Package io converts DataFrames to and from Apache Arrow records.
//
// Column groups map to struct columns and frame columns to lists of
// structs, so nested DataFrames survive a round trip. List values are
// written as lists of strings and opaque values as strings.
//
// Memory management: records returned by ToRecord are allocated from the
// given allocator and must be released by the caller.
package io

import (
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/canopy/internal/dataframe"
	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/logging"
	"github.com/paveg/canopy/internal/monitoring"
	"github.com/paveg/canopy/internal/series"
	"github.com/paveg/canopy/internal/value"
	"go.uber.org/zap"
)

// ToArrowSchema converts a DataFrame schema to an Arrow schema
func ToArrowSchema(s *dataframe.Schema) (*arrow.Schema, error) {
	fields, err := arrowFields(s)
	if err != nil {
		return nil, err
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowFields(s *dataframe.Schema) ([]arrow.Field, error) {
	if s == nil {
		return nil, nil
	}
	fields := make([]arrow.Field, 0, len(s.Columns))
	for _, c := range s.Columns {
		dt, err := arrowType(c)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{
			Name:     c.Name,
			Type:     dt,
			Nullable: c.Nullable || c.Type == value.KindNull,
		})
	}
	return fields, nil
}

func arrowType(c dataframe.ColumnSchema) (arrow.DataType, error) {
	switch c.Type {
	case value.KindNull:
		return arrow.Null, nil
	case value.KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case value.KindInt:
		return arrow.PrimitiveTypes.Int64, nil
	case value.KindFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case value.KindString, value.KindAny:
		return arrow.BinaryTypes.String, nil
	case value.KindTime:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case value.KindDuration:
		return arrow.FixedWidthTypes.Duration_ns, nil
	case value.KindList:
		return arrow.ListOf(arrow.BinaryTypes.String), nil
	case value.KindGroup, value.KindFrame:
		children, err := arrowFields(c.Children)
		if err != nil {
			return nil, err
		}
		st := arrow.StructOf(children...)
		if c.Type == value.KindGroup {
			return st, nil
		}
		return arrow.ListOf(st), nil
	}
	return nil, dferrors.NewTypeError("ToArrowSchema", c.Name, fmt.Sprintf("unsupported column type %s", c.Type))
}

// ToRecord copies df into a new Arrow record allocated from mem
func ToRecord(df *dataframe.DataFrame, mem memory.Allocator) (rec arrow.Record, err error) {
	defer observe("toRecord", time.Now(), df.Len(), &err)

	schema, err := ToArrowSchema(df.Schema())
	if err != nil {
		return nil, err
	}
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, col := range df.Columns() {
		if err = appendColumn(b.Field(i), col); err != nil {
			return nil, err
		}
	}
	return b.NewRecord(), nil
}

func appendColumn(b array.Builder, col dataframe.Column) error {
	switch c := col.(type) {
	case *series.Series:
		for i, v := range c.Values() {
			if err := appendValue(b, v); err != nil {
				return dferrors.NewTypeError("ToRecord", c.Name(), fmt.Sprintf("row %d: %v", i, err))
			}
		}
	case *dataframe.GroupColumn:
		sb := b.(*array.StructBuilder)
		frame := c.Frame()
		for i := 0; i < frame.Len(); i++ {
			sb.Append(true)
		}
		return appendFields(sb, frame)
	case *dataframe.FrameColumn:
		lb := b.(*array.ListBuilder)
		sb := lb.ValueBuilder().(*array.StructBuilder)
		for _, f := range c.Frames() {
			if f == nil {
				lb.AppendNull()
				continue
			}
			lb.Append(true)
			for i := 0; i < f.Len(); i++ {
				sb.Append(true)
			}
			if err := appendFields(sb, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// appendFields fills the struct children from the columns of frame; fields
// the frame lacks get nulls.
func appendFields(sb *array.StructBuilder, frame *dataframe.DataFrame) error {
	st := sb.Type().(*arrow.StructType)
	for j, field := range st.Fields() {
		fb := sb.FieldBuilder(j)
		col, ok := frame.Column(field.Name)
		if !ok {
			for i := 0; i < frame.Len(); i++ {
				fb.AppendNull()
			}
			continue
		}
		if err := appendColumn(fb, col); err != nil {
			return err
		}
	}
	return nil
}

func appendValue(b array.Builder, v value.Value) error {
	if v.IsNull() {
		b.AppendNull()
		return nil
	}
	ok := true
	switch bb := b.(type) {
	case *array.BooleanBuilder:
		var x bool
		if x, ok = v.AsBool(); ok {
			bb.Append(x)
		}
	case *array.Int64Builder:
		var x int64
		if x, ok = v.AsInt(); ok {
			bb.Append(x)
		}
	case *array.Float64Builder:
		var x float64
		if x, ok = v.AsFloat(); ok {
			bb.Append(x)
		}
	case *array.StringBuilder:
		bb.Append(stringOf(v))
	case *array.TimestampBuilder:
		var t time.Time
		if t, ok = v.AsTime(); ok {
			bb.Append(arrow.Timestamp(t.UnixMicro()))
		}
	case *array.DurationBuilder:
		var d time.Duration
		if d, ok = v.AsDuration(); ok {
			bb.Append(arrow.Duration(d))
		}
	case *array.ListBuilder:
		var items []value.Value
		if items, ok = v.AsList(); ok {
			bb.Append(true)
			vb := bb.ValueBuilder().(*array.StringBuilder)
			for _, item := range items {
				if item.IsNull() {
					vb.AppendNull()
					continue
				}
				vb.Append(stringOf(item))
			}
		}
	default:
		ok = false
	}
	if !ok {
		return fmt.Errorf("cannot write %s value to %s", v.Kind(), b.Type())
	}
	return nil
}

func stringOf(v value.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	return v.String()
}

// FromRecord builds a DataFrame from an Arrow record. Lists of structs
// become frame columns and structs become column groups.
func FromRecord(rec arrow.Record) (df *dataframe.DataFrame, err error) {
	rows := int(rec.NumRows())
	defer observe("fromRecord", time.Now(), rows, &err)

	cols := make([]dataframe.Column, 0, rec.NumCols())
	for i, field := range rec.Schema().Fields() {
		col, err := fromArray(field, rec.Column(i), 0, rows)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return dataframe.New(cols...)
}

// fromArray converts rows [offset, offset+n) of arr
func fromArray(field arrow.Field, arr arrow.Array, offset, n int) (dataframe.Column, error) {
	switch a := arr.(type) {
	case *array.Struct:
		frame, err := fromStruct(field, a, offset, n)
		if err != nil {
			return nil, err
		}
		return dataframe.NewGroupColumn(field.Name, frame), nil

	case *array.List:
		st, ok := a.ListValues().(*array.Struct)
		if !ok {
			break
		}
		elem := a.DataType().(*arrow.ListType).ElemField()
		frames := make([]*dataframe.DataFrame, n)
		for i := range frames {
			if a.IsNull(offset + i) {
				continue
			}
			start, end := a.ValueOffsets(offset + i)
			frame, err := fromStruct(elem, st, int(start), int(end-start))
			if err != nil {
				return nil, err
			}
			frames[i] = frame
		}
		return dataframe.NewFrameColumn(field.Name, frames), nil
	}

	kind, err := kindOf(field.Name, arr.DataType())
	if err != nil {
		return nil, err
	}
	values := make([]value.Value, n)
	for i := range values {
		values[i] = valueAt(arr, offset+i)
	}
	s, err := series.NewWithType(field.Name, values, value.Type{Kind: kind, Nullable: field.Nullable})
	if err != nil {
		return nil, dferrors.Wrap("FromRecord", err)
	}
	return s, nil
}

func fromStruct(field arrow.Field, st *array.Struct, offset, n int) (*dataframe.DataFrame, error) {
	typ := field.Type.(*arrow.StructType)
	cols := make([]dataframe.Column, 0, st.NumField())
	for j := 0; j < st.NumField(); j++ {
		col, err := fromArray(typ.Field(j), st.Field(j), offset, n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return dataframe.New(cols...)
}

func kindOf(name string, dt arrow.DataType) (value.Kind, error) {
	switch dt.ID() {
	case arrow.NULL:
		return value.KindNull, nil
	case arrow.BOOL:
		return value.KindBool, nil
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return value.KindInt, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return value.KindFloat, nil
	case arrow.STRING:
		return value.KindString, nil
	case arrow.TIMESTAMP:
		return value.KindTime, nil
	case arrow.DURATION:
		return value.KindDuration, nil
	case arrow.LIST:
		return value.KindList, nil
	}
	return value.KindNull, dferrors.NewTypeError("FromRecord", name, fmt.Sprintf("unsupported arrow type %s", dt))
}

func valueAt(arr arrow.Array, i int) value.Value {
	if arr.IsNull(i) {
		return value.Null()
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return value.Bool(a.Value(i))
	case *array.Int8:
		return value.Int(int64(a.Value(i)))
	case *array.Int16:
		return value.Int(int64(a.Value(i)))
	case *array.Int32:
		return value.Int(int64(a.Value(i)))
	case *array.Int64:
		return value.Int(a.Value(i))
	case *array.Float32:
		return value.Float(float64(a.Value(i)))
	case *array.Float64:
		return value.Float(a.Value(i))
	case *array.String:
		return value.String(strings.Clone(a.Value(i)))
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return value.Time(a.Value(i).ToTime(unit))
	case *array.Duration:
		unit := a.DataType().(*arrow.DurationType).Unit
		return value.Duration(time.Duration(a.Value(i)) * unit.Multiplier())
	case *array.List:
		start, end := a.ValueOffsets(i)
		items := make([]value.Value, 0, end-start)
		for j := start; j < end; j++ {
			items = append(items, valueAt(a.ListValues(), int(j)))
		}
		return value.List(items...)
	}
	return value.Null()
}

func observe(op string, start time.Time, rows int, errp *error) {
	elapsed := time.Since(start)
	monitoring.ObserveGlobal(op, rows, elapsed, *errp)
	logging.Debug("arrow conversion",
		zap.String("op", op),
		zap.Int("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
}
