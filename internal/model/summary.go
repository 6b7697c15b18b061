package model

import "time"

// AuditSummary is a condensed view of an AuditReport.
// It is what the table writer and the history listing render, and it is
// stored alongside the full report in the database for cheap listing.
//
// Design decision: We derive a separate summary rather than computing
// counts in each writer because:
// 1. Every writer shows the same numbers, so they are computed once
// 2. The database can store it as a small JSON blob for history listings
// 3. It keeps presentation code free of aggregation logic
type AuditSummary struct {
	// Domain is the audited root URL.
	Domain string `json:"domain"`

	// DateAudited is when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// PagesCrawled is the number of pages fetched and analyzed.
	PagesCrawled int `json:"pages_crawled"`

	// PagesWithIssues is the number of pages that produced at least
	// one issue.
	PagesWithIssues int `json:"pages_with_issues"`

	// TotalIssues is the issue count across all pages and categories.
	TotalIssues int `json:"total_issues"`

	// CategoryCounts maps each category to its total issue count.
	// Categories with zero issues are present with a zero value so
	// writers can render complete summaries.
	CategoryCounts map[Category]int `json:"category_counts"`

	// Error contains the fatal error message if the audit failed.
	Error string `json:"error,omitempty"`
}

// NewAuditSummary derives a summary from a finished report.
func NewAuditSummary(report *AuditReport) *AuditSummary {
	summary := &AuditSummary{
		Domain:          report.Domain,
		DateAudited:     report.DateAudited,
		PagesCrawled:    report.Stats.PagesCrawled,
		PagesWithIssues: len(report.Pages),
		CategoryCounts:  make(map[Category]int, len(Categories())),
		Error:           report.ErrorMessage,
	}

	for _, category := range Categories() {
		summary.CategoryCounts[category] = 0
	}

	for _, page := range report.Pages {
		for category, issues := range page.Issues {
			summary.CategoryCounts[category] += len(issues)
			summary.TotalIssues += len(issues)
		}
	}

	return summary
}

// HasIssues reports whether the audit found any issue at all.
func (s *AuditSummary) HasIssues() bool {
	return s.TotalIssues > 0
}
