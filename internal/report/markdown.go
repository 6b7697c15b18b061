package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/seoscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	summary := summaryOf(report)

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSummary(md, summary)
	w.writePages(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs only the aggregated summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.AuditSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSummary(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.AuditSummary) {
	md.H1("SEO Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", "`" + summary.Domain + "`"},
			{"Audit Date", summary.DateAudited.Format("2006-01-02 15:04:05 MST")},
			{"Pages Crawled", strconv.Itoa(summary.PagesCrawled)},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on summary state.
func (w *MarkdownWriter) getStatusText(summary *model.AuditSummary) string {
	if summary.Error != "" {
		return "❌ Failed - " + summary.Error
	}
	return "✅ Complete"
}

// writeSummary writes the issue summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.AuditSummary) {
	md.H2("Issue Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.Categories())+1)
	for _, category := range model.Categories() {
		rows = append(rows, []string{string(category), strconv.Itoa(summary.CategoryCounts[category])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.TotalIssues) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Issues"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.HasIssues() {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for issue distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.AuditSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Distribution by Category"),
		piechart.WithShowData(true),
	)

	for _, category := range model.Categories() {
		if count := summary.CategoryCounts[category]; count > 0 {
			chart.LabelAndIntValue(string(category), uint64(count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the issue volume.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.AuditSummary) {
	switch {
	case summary.Error != "":
		md.Cautionf("The audit failed before completing: %s", summary.Error)
	case summary.TotalIssues == 0:
		md.Tip("No SEO issues detected on any crawled page.")
	case summary.PagesWithIssues == summary.PagesCrawled && summary.PagesCrawled > 0:
		md.Warningf(
			"Every crawled page has at least one issue. %d issue(s) across %d page(s).",
			summary.TotalIssues, summary.PagesWithIssues,
		)
	default:
		md.Importantf(
			"%d issue(s) found on %d of %d crawled page(s).",
			summary.TotalIssues, summary.PagesWithIssues, summary.PagesCrawled,
		)
	}
	md.PlainText("")
}

// writePages writes the per-page issue sections.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Pages) == 0 {
		md.PlainText("No issues found on any crawled page.")
		md.PlainText("")
		return
	}

	for _, page := range report.Pages {
		md.H3(page.URL)
		md.PlainText("")

		for _, category := range model.Categories() {
			issues := page.Get(category)
			if len(issues) == 0 {
				continue
			}

			md.PlainText("**" + string(category) + "**")
			md.PlainText("")
			md.BulletList(issues...)
			md.PlainText("")
		}
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seoscan](https://github.com/nao1215/seoscan)*")
}
