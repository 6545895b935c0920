package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/tradebook"
	md "github.com/nao1215/markdown"
)

// RecordsMarkdown renders trade rows as the record browser table. The index
// column is the handle expected by edit and delete.
func RecordsMarkdown(rows []tradebook.Row, f Formatter) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Records")
	if len(rows) == 0 {
		doc.PlainText("No record.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"#", "Date", "Instrument", "Side", "Quantity", "Price", "Total", "Note"},
		Rows:   [][]string{},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(r.Index),
			r.Date.String(),
			r.Instrument,
			r.Side.Label(),
			f.Quantity(r.Quantity),
			f.Price(r.Price),
			f.Total(r.Total()),
			r.Note,
		})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("%d record(s).", len(rows)))
	return doc.String()
}
