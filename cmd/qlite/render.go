package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/qlite/qlite"
)

func renderRows(names []string, rows []qlite.Row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := table.Row{}
	for _, n := range names {
		header = append(header, n)
	}
	tw.AppendHeader(header)

	for _, r := range rows {
		out := table.Row{}
		for _, n := range names {
			out = append(out, renderValue(r[n]))
		}
		tw.AppendRow(out)
	}
	return tw.Render()
}

func renderValue(v qlite.Value) string {
	switch v.Type() {
	case qlite.KindNull:
		return "NULL"
	case qlite.KindBlob:
		return fmt.Sprintf("x'%x'", v.Blob().Data)
	default:
		return v.Text()
	}
}
