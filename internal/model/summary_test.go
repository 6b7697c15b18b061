package model

import "testing"

// TestNewAuditSummary tests summary derivation from a report.
func TestNewAuditSummary(t *testing.T) {
	t.Parallel()

	t.Run("aggregates per-category counts", func(t *testing.T) {
		t.Parallel()

		report := NewAuditReport("http://example.com")
		report.Stats.PagesCrawled = 5

		first := NewPageIssues("http://example.com/")
		first.Add(CategoryTitle, "Missing Title Tag")
		first.Add(CategoryHeading, "No H1 Tag Found")
		second := NewPageIssues("http://example.com/about")
		second.Add(CategoryTitle, "Title Tag Length Issue (Current: 5 chars)")
		report.AddPage(first)
		report.AddPage(second)

		summary := NewAuditSummary(report)

		if summary.PagesCrawled != 5 {
			t.Errorf("expected 5 pages crawled, got %d", summary.PagesCrawled)
		}
		if summary.PagesWithIssues != 2 {
			t.Errorf("expected 2 pages with issues, got %d", summary.PagesWithIssues)
		}
		if summary.TotalIssues != 3 {
			t.Errorf("expected 3 total issues, got %d", summary.TotalIssues)
		}
		if summary.CategoryCounts[CategoryTitle] != 2 {
			t.Errorf("expected 2 title issues, got %d", summary.CategoryCounts[CategoryTitle])
		}
		if summary.CategoryCounts[CategoryHeading] != 1 {
			t.Errorf("expected 1 heading issue, got %d", summary.CategoryCounts[CategoryHeading])
		}
	})

	t.Run("zero-issue categories are present with zero counts", func(t *testing.T) {
		t.Parallel()

		report := NewAuditReport("http://example.com")
		summary := NewAuditSummary(report)

		if summary.HasIssues() {
			t.Error("expected no issues")
		}
		for _, category := range Categories() {
			count, ok := summary.CategoryCounts[category]
			if !ok {
				t.Errorf("category %q missing from counts", category)
			}
			if count != 0 {
				t.Errorf("category %q: expected 0, got %d", category, count)
			}
		}
	})

	t.Run("carries the fatal error message", func(t *testing.T) {
		t.Parallel()

		report := NewAuditReport("http://example.com")
		report.ErrorMessage = "dial tcp: connection refused"

		summary := NewAuditSummary(report)
		if summary.Error != "dial tcp: connection refused" {
			t.Errorf("unexpected error: %q", summary.Error)
		}
	})
}
