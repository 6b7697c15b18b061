package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/seoscan/internal/model"
	"github.com/rodaine/table"
)

// TableWriter renders the audit summary as a console table.
// It intentionally shows only aggregated numbers; the per-page detail is
// the text writer's job.
type TableWriter struct {
	baseWriter
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer) *TableWriter {
	return &TableWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the report summary as a table.
func (w *TableWriter) Write(report *model.AuditReport) (int, error) {
	return w.WriteSummary(summaryOf(report))
}

// WriteSummary renders the summary as a table.
func (w *TableWriter) WriteSummary(summary *model.AuditSummary) (int, error) {
	counter := &countingWriter{w: w.output}

	fmt.Fprintf(counter, "Domain: %s\n", summary.Domain)
	fmt.Fprintf(counter, "Audited: %s\n", summary.DateAudited.Format("2006-01-02 15:04:05"))
	if summary.Error != "" {
		fmt.Fprintf(counter, "Status: FAILED - %s\n", summary.Error)
	}
	fmt.Fprintln(counter)

	tbl := table.New("Category", "Issues").WithWriter(counter)
	for _, category := range model.Categories() {
		tbl.AddRow(string(category), strconv.Itoa(summary.CategoryCounts[category]))
	}
	tbl.AddRow("Total", strconv.Itoa(summary.TotalIssues))
	tbl.Print()

	fmt.Fprintf(counter, "\nPages crawled: %d, pages with issues: %d\n",
		summary.PagesCrawled, summary.PagesWithIssues)

	return counter.n, counter.err
}

// countingWriter tracks bytes written and the first error so the table
// library's Print, which returns nothing, still yields a byte count.
type countingWriter struct {
	w   io.Writer
	n   int
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += n
	c.err = err
	return n, err
}
