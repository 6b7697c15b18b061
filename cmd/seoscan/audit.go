package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/crawler"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/log"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/pipeline"
	"github.com/nao1215/seoscan/internal/report"
	"github.com/spf13/cobra"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [domain]",
		Short: "Audit a website for on-page SEO issues",
		Long: `Audit crawls a website and analyzes every HTML page for SEO issues.

Each page is checked for:
- Title tag presence and length
- Meta description presence and length
- Heading structure (missing or duplicated H1 tags)
- Excessive external links
- Images without alt text

Examples:
  # Audit a single site
  seoscan audit example.com

  # Audit multiple sites concurrently
  seoscan audit site1.com site2.com site3.com

  # Limit the crawl to 20 pages
  seoscan audit --max-pages 20 example.com

  # Write a Markdown report to a file
  seoscan audit -f markdown -o report.md example.com

  # Export findings as an Excel workbook
  seoscan audit -f xlsx -o report.xlsx example.com

Configuration file (.seoscan) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
    staging.example.com:
      maxPages: 100`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per domain")
	cmd.Flags().IntP("depth", "d", config.DefaultDepth,
		"Crawl depth setting (accepted for compatibility, not enforced)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Network timeout for each request")

	// Batch auditing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent audits when multiple domains are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan in current or home directory)")

	// Report flags
	cmd.Flags().StringP("format", "f", string(config.FormatText),
		"Report format: text, table, csv, json, markdown, or xlsx")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (with multiple domains each gets a per-domain suffix)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not store the audit in the history database")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Depth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	cfg.SiteConfigs, err = config.LoadSiteConfigs(cfg.ConfigFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	cfg.Format = config.Format(format)

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (domains to audit)
	cfg.Targets = args

	return cfg, nil
}

// runAudit executes the audit.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more domains as arguments)")
	}

	logger.Info("starting audit",
		"targets", cfg.Targets,
		"maxPages", cfg.MaxPages,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.AuditDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client := &http.Client{Timeout: cfg.Timeout}

	// Use batch processor for concurrent auditing if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAudit(ctx, cfg, client, db, logger)
	}

	// Single target or sequential auditing
	return runSequentialAudit(ctx, cfg, client, db, logger)
}

// runSequentialAudit audits targets one at a time.
func runSequentialAudit(ctx context.Context, cfg *config.Config, client *http.Client, db *database.AuditDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Get site-specific configuration
		siteConfig := getSiteConfig(cfg, target)

		// Create pipeline with site-specific options
		p := createPipelineForTarget(client, db, logger, cfg, siteConfig, progressPrinter())

		auditReport := model.NewAuditReport(target)

		fmt.Printf("Auditing %s...\n", target)
		startTime := time.Now()

		// Execute the pipeline
		if err := p.Execute(ctx, auditReport); err != nil {
			fmt.Fprintln(os.Stderr)
			logger.Error("audit failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Fprintln(os.Stderr)
		fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, auditReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchAudit audits multiple targets concurrently using BatchProcessor.
func runBatchAudit(ctx context.Context, cfg *config.Config, client *http.Client, db *database.AuditDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	// Warn user about batch processing limitation
	if cfg.SiteConfigs != nil && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; site-specific configs (cookies, headers, maxPages) are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--batch 1) to apply per-site settings.\n\n")
	}

	// Create batch processor with pipeline factory
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			// Batch processing uses default site config only.
			// Site-specific configs would require per-target pipeline creation.
			var siteConfig config.SiteConfig
			if cfg.SiteConfigs != nil {
				siteConfig = cfg.SiteConfigs.Defaults
			}
			// No per-page progress output; interleaved updates from
			// concurrent crawls would be unreadable.
			return createPipelineForTarget(client, db, logger, cfg, siteConfig, nil)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(auditReport *model.AuditReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Audit completed: %s\n", index+1, len(cfg.Targets), auditReport.Domain)

		// Generate and output report
		if err := outputReport(cfg, auditReport); err != nil {
			logger.Error("report failed", "target", auditReport.Domain, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// progressPrinter returns a progress callback that rewrites a single
// status line on stderr as pages are crawled.
func progressPrinter() crawler.ProgressFunc {
	return func(visited, maxPages int) {
		fmt.Fprintf(os.Stderr, "\r  %d/%d pages crawled", visited, maxPages)
	}
}

// getSiteConfig returns the site-specific configuration for a target.
// Falls back to defaults if no site-specific config exists. Config file
// entries are keyed by host, so the target is normalized first.
func getSiteConfig(cfg *config.Config, target string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}

	u, err := crawler.NormalizeTarget(target)
	if err != nil {
		return cfg.SiteConfigs.Defaults
	}
	return cfg.SiteConfigs.GetSiteConfig(u.Host)
}

// createPipelineForTarget creates a pipeline with the given configuration.
func createPipelineForTarget(client *http.Client, db *database.AuditDB, logger *slog.Logger, cfg *config.Config, siteConfig config.SiteConfig, progress crawler.ProgressFunc) *pipeline.Pipeline {
	// continueOnError keeps summarize and persist running after a crawl
	// failure so partial results are still reported and recorded.
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	}

	// Determine max pages (site-specific overrides global)
	maxPages := cfg.MaxPages
	if siteConfig.MaxPages > 0 {
		maxPages = siteConfig.MaxPages
	}
	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineMaxPages(maxPages),
		pipeline.WithPipelineUserAgent(userAgent),
		pipeline.WithPipelineMaxBodySize(cfg.MaxBodySize),
	}

	// Add cookie if configured
	if siteConfig.Cookie != "" {
		configOpts = append(configOpts, pipeline.WithPipelineCookie(siteConfig.Cookie))
	}

	// Add custom headers if configured
	if len(siteConfig.Headers) > 0 {
		configOpts = append(configOpts, pipeline.WithPipelineHeaders(siteConfig.Headers))
	}

	if progress != nil {
		configOpts = append(configOpts, pipeline.WithPipelineProgress(progress))
	}

	return pipeline.DefaultPipeline(client, db, pipelineOpts, configOpts...)
}

// outputPath returns the report file path for one domain. A single
// target uses the configured path as is. With multiple targets each
// domain gets its own file, so the reports do not overwrite each other.
func outputPath(cfg *config.Config, domain string) string {
	if len(cfg.Targets) <= 1 {
		return cfg.OutputFile
	}
	ext := filepath.Ext(cfg.OutputFile)
	return strings.TrimSuffix(cfg.OutputFile, ext) + "-" + sanitizeHost(domain) + ext
}

// sanitizeHost reduces a target to a string safe for file names.
func sanitizeHost(domain string) string {
	host := domain
	if u, err := crawler.NormalizeTarget(domain); err == nil && u.Host != "" {
		host = u.Host
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '-'
		}
	}, host)
}

// outputReport outputs the audit report in the requested format.
func outputReport(cfg *config.Config, auditReport *model.AuditReport) error {
	// Determine output destination
	var output *os.File
	if cfg.OutputFile != "" {
		path := outputPath(cfg, auditReport.Domain)

		// Create directories if they don't exist
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions.
		// Reports may reveal internal URLs of the audited site.
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	writer, err := writerForFormat(cfg.Format, output)
	if err != nil {
		return err
	}
	_, err = writer.Write(auditReport)
	return err
}

// writerForFormat maps a report format to its writer.
func writerForFormat(format config.Format, output *os.File) (report.Writer, error) {
	switch format {
	case config.FormatText:
		return report.NewTextWriter(output), nil
	case config.FormatTable:
		return report.NewTableWriter(output), nil
	case config.FormatCSV:
		return report.NewCSVWriter(output), nil
	case config.FormatJSON:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint()), nil
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(output), nil
	case config.FormatXLSX:
		return report.NewXLSXWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownFormat, format)
	}
}
