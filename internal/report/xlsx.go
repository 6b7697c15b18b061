package report

import (
	"fmt"
	"io"

	"github.com/nao1215/seoscan/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the generated workbook.
const (
	sheetIssues  = "Issues"
	sheetSummary = "Summary"
)

// XLSXWriter outputs reports as Excel workbooks.
// The workbook has an Issues sheet with one row per issue and a Summary
// sheet with per-category counts.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
// The destination receives a binary workbook, so it should be a file,
// never a terminal.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report as a workbook.
func (w *XLSXWriter) Write(report *model.AuditReport) (int, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }() //nolint:errcheck // Best effort cleanup

	if err := w.buildIssuesSheet(f, report); err != nil {
		return 0, err
	}
	if err := w.buildSummarySheet(f, summaryOf(report)); err != nil {
		return 0, err
	}

	return w.flush(f)
}

// WriteSummary outputs a workbook containing only the Summary sheet.
func (w *XLSXWriter) WriteSummary(summary *model.AuditSummary) (int, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }() //nolint:errcheck // Best effort cleanup

	if err := f.SetSheetName(f.GetSheetName(0), sheetSummary); err != nil {
		return 0, err
	}
	if err := w.fillSummarySheet(f, summary); err != nil {
		return 0, err
	}

	return w.flush(f)
}

// buildIssuesSheet renames the default sheet and fills it with one row
// per issue.
func (w *XLSXWriter) buildIssuesSheet(f *excelize.File, report *model.AuditReport) error {
	if err := f.SetSheetName(f.GetSheetName(0), sheetIssues); err != nil {
		return err
	}

	header := []interface{}{"URL", "Category", "Issue"}
	if err := f.SetSheetRow(sheetIssues, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, page := range report.Pages {
		for _, category := range model.Categories() {
			for _, issue := range page.Get(category) {
				cell, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return err
				}
				values := []interface{}{page.URL, string(category), issue}
				if err := f.SetSheetRow(sheetIssues, cell, &values); err != nil {
					return err
				}
				row++
			}
		}
	}

	return nil
}

// buildSummarySheet adds the Summary sheet next to the Issues sheet.
func (w *XLSXWriter) buildSummarySheet(f *excelize.File, summary *model.AuditSummary) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	return w.fillSummarySheet(f, summary)
}

// fillSummarySheet fills the Summary sheet with audit metadata and
// per-category counts.
func (w *XLSXWriter) fillSummarySheet(f *excelize.File, summary *model.AuditSummary) error {
	rows := [][]interface{}{
		{"Domain", summary.Domain},
		{"Audit Date", summary.DateAudited.Format("2006-01-02 15:04:05")},
		{"Pages Crawled", summary.PagesCrawled},
		{"Pages With Issues", summary.PagesWithIssues},
		{"Total Issues", summary.TotalIssues},
	}
	if summary.Error != "" {
		rows = append(rows, []interface{}{"Error", summary.Error})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Category", "Issues"})
	for _, category := range model.Categories() {
		rows = append(rows, []interface{}{string(category), summary.CategoryCounts[category]})
	}

	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := values
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

// flush serializes the workbook to the destination.
func (w *XLSXWriter) flush(f *excelize.File) (int, error) {
	n, err := f.WriteTo(w.output)
	if err != nil {
		return int(n), fmt.Errorf("failed to write xlsx workbook: %w", err)
	}
	return int(n), nil
}
