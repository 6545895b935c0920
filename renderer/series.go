package renderer

import (
	"bytes"

	"github.com/etnz/tradebook/date"
	md "github.com/nao1215/markdown"
)

// SeriesMarkdown renders a date series as a two columns table. format prints
// each value.
func SeriesMarkdown(title string, h *date.History[float64], format func(float64) string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if h.Len() == 0 {
		doc.PlainText("No data.")
		return doc.String()
	}
	doc.PlainText(h.Range().String())

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Date", "Value"},
		Rows:      [][]string{},
	}
	for on, v := range h.Values() {
		table.Rows = append(table.Rows, []string{on.String(), format(v)})
	}
	doc.Table(table)
	return doc.String()
}
