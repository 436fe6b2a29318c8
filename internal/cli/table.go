package cli

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column over rows of type T.
type column[T any] struct {
	header string
	align  text.Align
	value  func(T) string
}

var modelColumns = []column[modelSummary]{
	{"ID", text.AlignRight, func(m modelSummary) string { return strconv.FormatInt(m.ID, 10) }},
	{"Name", text.AlignLeft, func(m modelSummary) string { return m.Name }},
	{"Type", text.AlignLeft, func(m modelSummary) string { return m.Type }},
	{"Fields", text.AlignLeft, func(m modelSummary) string { return strings.Join(m.Fields, ", ") }},
	{"Templates", text.AlignLeft, func(m modelSummary) string { return strings.Join(m.Templates, ", ") }},
	{"Notes", text.AlignRight, func(m modelSummary) string { return strconv.Itoa(m.Notes) }},
}

var deckColumns = []column[deckSummary]{
	{"ID", text.AlignRight, func(d deckSummary) string { return strconv.FormatInt(d.ID, 10) }},
	{"Name", text.AlignLeft, func(d deckSummary) string { return d.Name }},
	{"Kind", text.AlignLeft, func(d deckSummary) string {
		if d.Filtered {
			return "filtered"
		}
		return "normal"
	}},
	{"Cards", text.AlignRight, func(d deckSummary) string { return strconv.Itoa(d.Cards) }},
}

var mediaColumns = []column[mediaSummary]{
	{"File", text.AlignRight, func(m mediaSummary) string { return m.File }},
	{"Name", text.AlignLeft, func(m mediaSummary) string { return m.Name }},
	{"Size", text.AlignRight, func(m mediaSummary) string {
		if m.Missing {
			return "missing"
		}
		return humanize.Bytes(uint64(m.Size))
	}},
}

// renderTable draws items as a rounded table titled title. A non-empty
// footer is written under the rows, one cell per column.
func renderTable[T any](title string, cols []column[T], items []T, footer ...string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.header
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.align,
			AlignFooter: c.align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, item := range items {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = c.value(item)
		}
		tw.AppendRow(row)
	}

	if len(footer) > 0 {
		row := make(table.Row, len(cols))
		for i := range row {
			if i < len(footer) {
				row[i] = footer[i]
			} else {
				row[i] = ""
			}
		}
		tw.AppendFooter(row)
	}
	return tw.Render()
}
