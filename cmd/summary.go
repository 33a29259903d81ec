package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/ldebruijn/graphql-persist/internal/business/extract"
	"io"
	"strings"
)

func printSummary(out io.Writer, manifest *extract.Manifest) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Id", "Type", "Name", "Fragments"})

	for _, entry := range manifest.SortedByID() {
		name := entry.Name
		if name == "" {
			name = "<anonymous>"
		}
		t.AppendRow(table.Row{entry.ID, entry.Operation, name, strings.Join(entry.Fragments, ", ")})
	}

	t.AppendFooter(table.Row{"Total", manifest.Len()})
	t.Render()
}
