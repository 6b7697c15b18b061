package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nao1215/seoscan/internal/analyzer"
	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/crawler"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/model"
)

// CrawlStep crawls the target domain and analyzes every fetched page.
// This is the step that does nearly all of the work: it owns the spider,
// feeds each parsed page through the SEO analyzer, and records both the
// per-page issues and the crawl statistics on the report.
//
// Design decision: Crawling and analysis run in one step rather than two
// because the analyzer needs the parsed document, which only exists
// while the spider holds it. Splitting them would mean keeping every
// parsed page in memory for the whole crawl.
type CrawlStep struct {
	// client is the HTTP client used for fetching. Its Timeout is the
	// per-fetch budget.
	client *http.Client

	// maxPages limits total pages to visit.
	maxPages int

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// userAgent is the User-Agent header to send with requests.
	userAgent string

	// cookie is an optional Cookie header for authenticated crawls.
	cookie string

	// headers are optional extra request headers from site config.
	headers map[string]string

	// progress, when set, receives crawl progress updates.
	progress crawler.ProgressFunc

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlMaxPages sets the maximum pages to visit.
func WithCrawlMaxPages(maxPages int) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxPages = maxPages
	}
}

// WithCrawlMaxBodySize sets the maximum response body size in bytes.
// Responses larger than this are truncated to prevent memory exhaustion.
func WithCrawlMaxBodySize(maxBodySize int64) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxBodySize = maxBodySize
	}
}

// WithCrawlUserAgent sets the User-Agent header for HTTP requests.
// A descriptive User-Agent helps site operators identify scanner traffic.
func WithCrawlUserAgent(userAgent string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.userAgent = userAgent
	}
}

// WithCrawlCookie sets a Cookie header for authenticated crawls.
func WithCrawlCookie(cookie string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.cookie = cookie
	}
}

// WithCrawlHeaders sets extra HTTP headers sent with every request.
func WithCrawlHeaders(headers map[string]string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.headers = headers
	}
}

// WithCrawlProgress sets the progress callback invoked per visited page.
func WithCrawlProgress(fn crawler.ProgressFunc) CrawlStepOption {
	return func(s *CrawlStep) {
		s.progress = fn
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a new crawling step.
func NewCrawlStep(client *http.Client, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		client:      client,
		maxPages:    config.DefaultMaxPages,
		maxBodySize: config.DefaultMaxBodySize,
		userAgent:   config.DefaultUserAgent,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step. Pages and statistics collected before an
// error stay on the report, so a cancelled crawl still reports its
// partial results.
func (s *CrawlStep) Do(ctx context.Context, report *model.AuditReport) error {
	spiderOpts := []crawler.SpiderOption{
		crawler.WithMaxPages(s.maxPages),
		crawler.WithMaxBodySize(s.maxBodySize),
		crawler.WithUserAgent(s.userAgent),
		crawler.WithLogger(s.logger),
	}
	if s.cookie != "" {
		spiderOpts = append(spiderOpts, crawler.WithCookie(s.cookie))
	}
	if len(s.headers) > 0 {
		spiderOpts = append(spiderOpts, crawler.WithHeaders(s.headers))
	}
	if s.progress != nil {
		spiderOpts = append(spiderOpts, crawler.WithProgress(s.progress))
	}

	spider := crawler.NewSpider(s.client, analyzer.New(), spiderOpts...)

	pages, stats, err := spider.Crawl(ctx, report.Domain)

	for _, page := range pages {
		report.AddPage(page)
	}
	report.Stats = stats

	if err != nil {
		return err
	}

	s.logger.Info("crawl completed",
		"domain", report.Domain,
		"pages_crawled", stats.PagesCrawled,
		"pages_failed", stats.PagesFailed,
		"urls_discovered", stats.URLsDiscovered,
	)

	return nil
}

// SummarizeStep derives the aggregated summary from the crawl results.
//
// Design decision: Summarization is a separate step rather than part of
// the crawl because the summary must also be derivable for failed
// audits, where the crawl step never ran to completion.
type SummarizeStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// SummarizeStepOption configures a SummarizeStep.
type SummarizeStepOption func(*SummarizeStep)

// WithSummarizeLogger sets a custom logger for the summarize step.
func WithSummarizeLogger(logger *slog.Logger) SummarizeStepOption {
	return func(s *SummarizeStep) {
		s.logger = logger
	}
}

// NewSummarizeStep creates a new summarization step.
func NewSummarizeStep(opts ...SummarizeStepOption) *SummarizeStep {
	s := &SummarizeStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do derives and attaches the summary.
func (s *SummarizeStep) Do(_ context.Context, report *model.AuditReport) error {
	report.Summary = model.NewAuditSummary(report)

	s.logger.Debug("summary derived",
		"domain", report.Domain,
		"total_issues", report.Summary.TotalIssues,
		"pages_with_issues", report.Summary.PagesWithIssues,
	)

	return nil
}

// PersistStep stores the finished report in the audit history database.
//
// Design decision: Persistence is a pipeline step rather than CLI code
// because batch audits run the same pipeline per domain, and each report
// should be saved the moment its audit finishes rather than after the
// whole batch.
type PersistStep struct {
	// db is the audit history database. A nil db makes the step a no-op,
	// which is how --no-save is implemented.
	db *database.AuditDB

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a new persistence step.
func NewPersistStep(db *database.AuditDB, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the report to the history database.
func (s *PersistStep) Do(ctx context.Context, report *model.AuditReport) error {
	if s.db == nil {
		s.logger.Debug("history database disabled, skipping save")
		return nil
	}

	if err := s.db.SaveAuditReport(ctx, report); err != nil {
		return err
	}

	s.logger.Info("report saved to history", "domain", report.Domain)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// MaxPages is the maximum number of pages to visit per domain.
	MaxPages int

	// Cookie is the cookie string to send with HTTP requests.
	Cookie string

	// Headers are additional HTTP headers to send with requests.
	Headers map[string]string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Progress receives crawl progress updates, if set.
	Progress crawler.ProgressFunc
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineMaxPages sets the maximum pages to visit.
func WithPipelineMaxPages(maxPages int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxPages = maxPages
	}
}

// WithPipelineCookie sets the cookie for HTTP requests.
func WithPipelineCookie(cookie string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Cookie = cookie
	}
}

// WithPipelineHeaders sets additional HTTP headers.
func WithPipelineHeaders(headers map[string]string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Headers = headers
	}
}

// WithPipelineUserAgent sets the User-Agent header for HTTP requests.
func WithPipelineUserAgent(userAgent string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.UserAgent = userAgent
	}
}

// WithPipelineMaxBodySize sets the maximum response body size in bytes.
func WithPipelineMaxBodySize(maxBodySize int64) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxBodySize = maxBodySize
	}
}

// WithPipelineProgress sets the crawl progress callback.
func WithPipelineProgress(fn crawler.ProgressFunc) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Progress = fn
	}
}

// DefaultPipeline creates a pipeline with the standard audit steps:
// crawl, summarize, persist.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want the full audit
// 2. Reduces boilerplate in CLI
// 3. Ensures consistent ordering
//
// Pass a nil db to skip history persistence.
func DefaultPipeline(client *http.Client, db *database.AuditDB, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		MaxPages:    config.DefaultMaxPages,
		UserAgent:   config.DefaultUserAgent,
		MaxBodySize: config.DefaultMaxBodySize,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	crawlOpts := []CrawlStepOption{
		WithCrawlMaxPages(cfg.MaxPages),
		WithCrawlUserAgent(cfg.UserAgent),
		WithCrawlMaxBodySize(cfg.MaxBodySize),
		WithCrawlLogger(p.logger),
	}
	if cfg.Cookie != "" {
		crawlOpts = append(crawlOpts, WithCrawlCookie(cfg.Cookie))
	}
	if len(cfg.Headers) > 0 {
		crawlOpts = append(crawlOpts, WithCrawlHeaders(cfg.Headers))
	}
	if cfg.Progress != nil {
		crawlOpts = append(crawlOpts, WithCrawlProgress(cfg.Progress))
	}

	p.AddSteps(
		NewCrawlStep(client, crawlOpts...),
		NewSummarizeStep(WithSummarizeLogger(p.logger)),
		NewPersistStep(db, WithPersistLogger(p.logger)),
	)

	return p
}
