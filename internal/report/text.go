package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display and for saving as a
// plain .txt audit file.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// showClean controls whether categories with no issues are listed
	// per page.
	showClean bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowClean configures the writer to list issue-free categories.
func WithShowClean(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showClean = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		showClean:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *TextWriter) Write(report *model.AuditReport) (int, error) {
	var sb strings.Builder

	summary := summaryOf(report)

	w.writeHeader(&sb, summary)
	w.writeSummary(&sb, summary)
	w.writePages(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs only the aggregated summary.
func (w *TextWriter) WriteSummary(summary *model.AuditSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSummary(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with audit information.
func (w *TextWriter) writeHeader(sb *strings.Builder, summary *model.AuditSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SEO AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Domain:         %s\n", summary.Domain))
	sb.WriteString(fmt.Sprintf("Audit Date:     %s\n", summary.DateAudited.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Crawled:  %d\n", summary.PagesCrawled))

	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:         FAILED - %s\n", summary.Error))
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the per-category issue summary section.
func (w *TextWriter) writeSummary(sb *strings.Builder, summary *model.AuditSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUE SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, category := range model.Categories() {
		sb.WriteString(fmt.Sprintf("  %-26s %d\n", string(category)+":", summary.CategoryCounts[category]))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  %-26s %d issues on %d pages\n", "TOTAL:", summary.TotalIssues, summary.PagesWithIssues))
	sb.WriteString("\n")
}

// writePages writes the per-page issue listing.
func (w *TextWriter) writePages(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Pages) == 0 {
		sb.WriteString("  No issues found on any crawled page.\n\n")
		return
	}

	for _, page := range report.Pages {
		sb.WriteString(fmt.Sprintf("URL: %s\n", page.URL))

		for _, category := range model.Categories() {
			issues := page.Get(category)
			if len(issues) == 0 && !w.showClean {
				continue
			}

			sb.WriteString(fmt.Sprintf("  %s:\n", category))
			if len(issues) == 0 {
				sb.WriteString("    (none)\n")
				continue
			}
			for _, issue := range issues {
				sb.WriteString(fmt.Sprintf("    - %s\n", issue))
			}
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by seoscan\n")
	sb.WriteString("https://github.com/nao1215/seoscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
