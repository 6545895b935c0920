package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/etnz/tradebook"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// IssuesMarkdown lists the rejected records and unmatched sells of the report.
// It writes nothing when the book is clean.
func IssuesMarkdown(w io.Writer, r *tradebook.Report) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprint(w, "## Data Issues\n\n")
		for _, e := range r.Rejected {
			fmt.Fprintf(w, "- rejected: %v\n", e)
		}
		for _, e := range r.Unmatched {
			fmt.Fprintf(w, "- unmatched: %v\n", e)
		}
		fmt.Fprintln(w)
		return len(r.Rejected)+len(r.Unmatched) > 0
	})
}
