package model

import "time"

// AuditStatus is the terminal (or in-flight) state of a crawl.
type AuditStatus string

// Audit states. A crawl moves from running to exactly one of complete or
// failed. Per-page fetch and parse errors never cause the failed state;
// only an error before the crawl loop starts does.
const (
	// StatusRunning means the crawl loop is still processing the frontier.
	StatusRunning AuditStatus = "running"

	// StatusComplete means the frontier emptied or the page cap was reached.
	StatusComplete AuditStatus = "complete"

	// StatusFailed means a fatal setup error aborted the entire crawl.
	StatusFailed AuditStatus = "failed"
)

// CrawlStats holds counters describing one crawl.
//
// PagesCrawled counts pages that were fetched and analyzed, including
// pages with zero issues (which produce no PageIssues record). This is
// what lets callers distinguish a clean site from a crawl that found
// nothing.
type CrawlStats struct {
	// PagesCrawled is the number of pages fetched and analyzed.
	PagesCrawled int `json:"pages_crawled"`

	// PagesFailed is the number of pages abandoned due to fetch or
	// parse errors.
	PagesFailed int `json:"pages_failed"`

	// PagesSkipped is the number of non-HTML responses skipped.
	PagesSkipped int `json:"pages_skipped"`

	// URLsDiscovered is the number of unique in-scope URLs seen,
	// whether or not they were visited before the crawl ended.
	URLsDiscovered int `json:"urls_discovered"`
}

// AuditReport is the result of auditing one domain.
// It is created before the crawl starts, filled by the pipeline steps,
// and serialized as JSON for the history database.
type AuditReport struct {
	// Domain is the normalized root URL the crawl started from.
	Domain string `json:"domain"`

	// DateAudited is when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// Status is the crawl state. See AuditStatus.
	Status AuditStatus `json:"status"`

	// Pages contains one record per analyzed page that had at least one
	// issue, in the order pages were analyzed. Pages without issues are
	// omitted; see CrawlStats.PagesCrawled for the full count.
	Pages []*PageIssues `json:"pages,omitempty"`

	// Stats describes the crawl itself.
	Stats CrawlStats `json:"stats"`

	// Summary is the aggregated view derived after the crawl.
	Summary *AuditSummary `json:"summary,omitempty"`

	// Error contains the fatal error if the audit failed.
	// Excluded from JSON; ErrorMessage carries the serialized form.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error.
	ErrorMessage string `json:"error,omitempty"`
}

// NewAuditReport creates a report for the given domain in the running state.
func NewAuditReport(domain string) *AuditReport {
	return &AuditReport{
		Domain:      domain,
		DateAudited: time.Now(),
		Status:      StatusRunning,
		Pages:       make([]*PageIssues, 0),
	}
}

// AddPage appends a page record to the report.
func (r *AuditReport) AddPage(page *PageIssues) {
	r.Pages = append(r.Pages, page)
}

// TotalIssues returns the number of issues across all recorded pages.
func (r *AuditReport) TotalIssues() int {
	total := 0
	for _, page := range r.Pages {
		total += page.TotalIssues()
	}
	return total
}

// Fail records a fatal error and moves the report to the failed state.
// Pages accumulated before the failure are kept.
func (r *AuditReport) Fail(err error) {
	r.Status = StatusFailed
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}
