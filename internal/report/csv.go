package report

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/nao1215/seoscan/internal/model"
)

// issueRow is one CSV record. The report is flattened to one row per
// issue so the output imports cleanly into spreadsheets.
type issueRow struct {
	URL      string `csv:"url"`
	Category string `csv:"category"`
	Issue    string `csv:"issue"`
}

// summaryRow is one CSV record of the aggregated summary.
type summaryRow struct {
	Domain   string `csv:"domain"`
	Category string `csv:"category"`
	Count    int    `csv:"count"`
}

// CSVWriter outputs reports as CSV.
//
// Design decision: We use gocsv rather than encoding/csv directly so the
// row layout lives in struct tags next to the types, and header emission
// stays consistent with the rest of the codebase's marshaling style.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one row per issue, ordered by page and then by category.
func (w *CSVWriter) Write(report *model.AuditReport) (int, error) {
	rows := make([]issueRow, 0, report.TotalIssues())
	for _, page := range report.Pages {
		for _, category := range model.Categories() {
			for _, issue := range page.Get(category) {
				rows = append(rows, issueRow{
					URL:      page.URL,
					Category: string(category),
					Issue:    issue,
				})
			}
		}
	}

	counter := &countingWriter{w: w.output}
	if err := gocsv.Marshal(&rows, counter); err != nil {
		return counter.n, err
	}
	return counter.n, counter.err
}

// WriteSummary outputs one row per category with its issue count.
func (w *CSVWriter) WriteSummary(summary *model.AuditSummary) (int, error) {
	rows := make([]summaryRow, 0, len(model.Categories()))
	for _, category := range model.Categories() {
		rows = append(rows, summaryRow{
			Domain:   summary.Domain,
			Category: string(category),
			Count:    summary.CategoryCounts[category],
		})
	}

	counter := &countingWriter{w: w.output}
	if err := gocsv.Marshal(&rows, counter); err != nil {
		return counter.n, err
	}
	return counter.n, counter.err
}
