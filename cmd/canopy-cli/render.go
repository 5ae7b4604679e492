package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/paveg/canopy"
)

// render prints df as a table. Groups are flattened into dotted headers
// and nested frames are summarised by their shape.
func render(w io.Writer, df *canopy.DataFrame) {
	paths := leafPaths(df, nil)
	cols := make([]canopy.Column, len(paths))
	header := make([]string, len(paths))
	for i, p := range paths {
		cols[i], _ = df.Get(p)
		header[i] = p.String()
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(header)
	for row := 0; row < df.Len(); row++ {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cell, err := c.Get(row)
			if err != nil {
				cells[i] = "?"
				continue
			}
			cells[i] = cellString(cell)
		}
		table.Append(cells)
	}
	if len(header) > 0 {
		footer := make([]string, len(header))
		footer[0] = fmt.Sprintf("%d rows", df.Len())
		table.SetFooter(footer)
	}
	table.Render()
}

func leafPaths(df *canopy.DataFrame, prefix canopy.ColumnPath) []canopy.ColumnPath {
	var out []canopy.ColumnPath
	for _, c := range df.Columns() {
		path := prefix.Child(c.Name())
		if g, ok := c.(*canopy.GroupColumn); ok {
			out = append(out, leafPaths(g.Frame(), path)...)
			continue
		}
		out = append(out, path)
	}
	return out
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case canopy.Value:
		if v.IsNull() {
			return "null"
		}
		return v.String()
	case *canopy.DataFrame:
		if v == nil {
			return "null"
		}
		return fmt.Sprintf("[%d x %d]", v.Len(), v.Width())
	}
	return fmt.Sprint(cell)
}
