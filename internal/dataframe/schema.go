package dataframe

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/value"
)

// ColumnSchema describes one column. Children is set for groups and for
// frame columns, where it is the union of the nested frames' schemas.
type ColumnSchema struct {
	Name     string     `json:"name"`
	Type     value.Kind `json:"type"`
	Nullable bool       `json:"nullable"`
	Children *Schema    `json:"children,omitempty"`
}

// Schema describes the column tree of a DataFrame
type Schema struct {
	Columns []ColumnSchema `json:"columns"`
}

// Schema returns the schema of df
func (df *DataFrame) Schema() *Schema {
	s := &Schema{Columns: make([]ColumnSchema, 0, len(df.columns))}
	for _, c := range df.columns {
		s.Columns = append(s.Columns, columnSchema(c))
	}
	return s
}

func columnSchema(c Column) ColumnSchema {
	cs := ColumnSchema{Name: c.Name(), Type: c.Type().Kind, Nullable: c.Type().Nullable}
	switch col := c.(type) {
	case *GroupColumn:
		cs.Children = col.df.Schema()
	case *FrameColumn:
		heads := make([]*DataFrame, 0, len(col.frames))
		for _, f := range col.frames {
			if f != nil {
				heads = append(heads, f.slice(0, 0))
			}
		}
		if union, err := concatFrames(heads); err == nil {
			cs.Children = union.Schema()
		}
	}
	return cs
}

// Column returns the top-level column schema named name
func (s *Schema) Column(name string) (ColumnSchema, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSchema{}, false
}

// Equal reports whether both schemas describe the same tree
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.Columns) != len(o.Columns) {
		return false
	}
	for i, c := range s.Columns {
		d := o.Columns[i]
		if c.Name != d.Name || c.Type != d.Type || c.Nullable != d.Nullable || !c.Children.Equal(d.Children) {
			return false
		}
	}
	return true
}

// String renders one column per line, indenting nested columns
func (s *Schema) String() string {
	var sb strings.Builder
	s.write(&sb, 0)
	return sb.String()
}

func (s *Schema) write(sb *strings.Builder, depth int) {
	for _, c := range s.Columns {
		typ := value.Type{Kind: c.Type, Nullable: c.Nullable}
		fmt.Fprintf(sb, "%s%s: %s\n", strings.Repeat("  ", depth), c.Name, typ)
		if c.Children != nil {
			c.Children.write(sb, depth+1)
		}
	}
}

// JSON encodes the schema
func (s *Schema) JSON() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, dferrors.NewInternalError("Schema", err)
	}
	return data, nil
}

// ParseSchema decodes a schema produced by JSON
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, dferrors.NewInvalidInputError("ParseSchema", err.Error())
	}
	return &s, nil
}
