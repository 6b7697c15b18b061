package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/seoscan/internal/model"
	"golang.org/x/net/html/charset"
)

// Analyzer inspects one parsed page and reports its SEO issues.
// Implementations must be pure: no network access, no mutable state, and
// identical output for identical input documents.
type Analyzer interface {
	Analyze(pageURL string, doc *goquery.Document) *model.PageIssues
}

// errParsePage marks a fetched response whose body could not be decoded
// or parsed. Unlike fetch failures, which are expected on a live site,
// a parse failure is surprising and logs at error level.
var errParsePage = errors.New("failed to parse page")

// ProgressFunc is invoked by the crawl loop after each frontier pop with
// the number of visited URLs and the page cap. It runs on the crawl
// goroutine, so implementations should be fast and must not block.
//
// Design decision: The loop pushes progress to a callback instead of
// exposing a counter for callers to poll because it removes the only
// piece of shared mutable state that would otherwise cross a goroutine
// boundary.
type ProgressFunc func(visited, maxPages int)

// Spider crawls the pages of a single domain sequentially.
//
// The loop is strictly single-threaded: one URL is fetched, parsed, and
// analyzed at a time. That is a deliberate simplicity choice; auditing a
// site is bounded by the page cap, not by fetch throughput.
type Spider struct {
	// client performs the HTTP fetches. Its Timeout is the per-fetch
	// budget; the crawl as a whole has none.
	client *http.Client

	// analyzer produces the per-page issue records.
	analyzer Analyzer

	// maxPages limits the total number of URLs visited.
	maxPages int

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// userAgent identifies seoscan in requests.
	userAgent string

	// cookie is an optional Cookie header value for authenticated crawls.
	cookie string

	// headers are optional extra request headers from site config.
	headers map[string]string

	// progress, when set, is called after each frontier pop.
	progress ProgressFunc

	// logger receives per-page warnings and errors.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the maximum number of URLs to visit.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		if maxPages > 0 {
			s.maxPages = maxPages
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithCookie sets a Cookie header sent with every request.
func WithCookie(cookie string) SpiderOption {
	return func(s *Spider) {
		s.cookie = cookie
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) SpiderOption {
	return func(s *Spider) {
		s.headers = headers
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) SpiderOption {
	return func(s *Spider) {
		s.progress = fn
	}
}

// WithLogger sets a custom logger for per-page events.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider that fetches with the given client and
// analyzes pages with the given analyzer.
//
// Design decision: We require an external client because the per-fetch
// timeout is configuration, not crawl logic, and tests can substitute an
// httptest client without touching the loop.
func NewSpider(client *http.Client, analyzer Analyzer, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      client,
		analyzer:    analyzer,
		maxPages:    50,
		maxBodySize: 5 * 1024 * 1024,
		userAgent:   "seoscan/2.0 (+https://github.com/nao1215/seoscan)",
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Crawl audits the domain rooted at target and returns one PageIssues
// record per analyzed page that had issues, in analysis order, together
// with crawl statistics.
//
// The only fatal error is an unusable target URL. Everything after the
// loop starts is tolerated: fetch failures and parse failures abandon
// the URL, non-HTML responses are skipped, and the loop carries on until
// the frontier empties, the page cap is hit, or the context is
// cancelled.
func (s *Spider) Crawl(ctx context.Context, target string) ([]*model.PageIssues, model.CrawlStats, error) {
	var stats model.CrawlStats

	seed, err := NormalizeTarget(target)
	if err != nil {
		return nil, stats, fmt.Errorf("invalid target URL %q: %w", target, err)
	}

	frontier := NewFrontier(seed, s.maxPages)
	records := make([]*model.PageIssues, 0)

	for frontier.ShouldContinue() {
		select {
		case <-ctx.Done():
			stats.URLsDiscovered = frontier.DiscoveredCount()
			return records, stats, ctx.Err()
		default:
		}

		current, ok := frontier.NextCandidate()
		if !ok {
			break
		}

		// Visited before the fetch: a failing URL is never retried and
		// the page cap counts attempts.
		frontier.MarkVisited(current)
		if s.progress != nil {
			s.progress(frontier.VisitedCount(), s.maxPages)
		}

		doc, err := s.fetchDocument(ctx, current)
		if err != nil {
			stats.PagesFailed++
			if errors.Is(err, errParsePage) {
				s.logger.Error("failed to parse page", "url", current, "error", err)
			} else {
				s.logger.Warn("failed to fetch page", "url", current, "error", err)
			}
			continue
		}
		if doc == nil {
			// Non-HTML response. Not an error, just nothing to analyze.
			stats.PagesSkipped++
			s.logger.Debug("skipping non-HTML response", "url", current)
			continue
		}

		stats.PagesCrawled++

		issues := s.analyzer.Analyze(current, doc)
		if issues != nil && issues.HasIssues() {
			records = append(records, issues)
		}

		for _, link := range extractLinks(current, doc) {
			frontier.Offer(link)
		}
	}

	stats.URLsDiscovered = frontier.DiscoveredCount()
	return records, stats, nil
}

// fetchDocument fetches one URL and parses it into a goquery document.
// It returns (nil, nil) for non-HTML responses.
func (s *Spider) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, nil
	}

	// Decode to UTF-8 before parsing; not every site serves UTF-8.
	body := io.LimitReader(resp.Body, s.maxBodySize)
	reader, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errParsePage, err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errParsePage, err)
	}
	return doc, nil
}

// extractLinks collects every anchor href on the page, resolved against
// the page URL. Scope filtering is the frontier's job, not this one's.
func extractLinks(pageURL string, doc *goquery.Document) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || href == "#" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})

	return links
}
