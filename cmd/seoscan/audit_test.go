package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/model"
)

// TestNewAuditCmd tests the audit command creation.
func TestNewAuditCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAuditCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "audit [domain]" {
			t.Errorf("expected use 'audit [domain]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has max-pages flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-pages")
		if flag == nil {
			t.Fatal("expected max-pages flag")
		}
		if flag.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", flag.Shorthand)
		}
		if flag.DefValue != "50" {
			t.Errorf("expected default '50', got %q", flag.DefValue)
		}
	})

	t.Run("has depth flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("depth")
		if flag == nil {
			t.Fatal("expected depth flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has batch flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("batch")
		if flag == nil {
			t.Fatal("expected batch flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has format flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
		if flag.DefValue != "text" {
			t.Errorf("expected default 'text', got %q", flag.DefValue)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has no-save flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("no-save")
		if flag == nil {
			t.Fatal("expected no-save flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("does not have db-dir flag (uses XDG)", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("db-dir")
		if flag != nil {
			t.Error("db-dir flag should not exist (always uses XDG data directory)")
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewAuditCmd()
		result := getVerboseFlag(cmd)
		if result {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		// Set verbose flag to true
		_ = root.PersistentFlags().Set("verbose", "true")

		// Get audit subcommand
		auditCmd, _, err := root.Find([]string{"audit"})
		if err != nil {
			t.Fatalf("failed to find audit command: %v", err)
		}

		result := getVerboseFlag(auditCmd)
		if !result {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewAuditCmd()
		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg == nil {
			t.Fatal("expected non-nil config")
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "example.com" {
			t.Errorf("expected targets [example.com], got %v", cfg.Targets)
		}
		if cfg.Format != config.FormatText {
			t.Errorf("expected format %q, got %q", config.FormatText, cfg.Format)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true by default")
		}
	})

	t.Run("builds config with custom max-pages", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("max-pages", "20")
		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxPages != 20 {
			t.Errorf("expected MaxPages 20, got %d", cfg.MaxPages)
		}
	})

	t.Run("builds config with custom batch size", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("batch", "5")
		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BatchSize != 5 {
			t.Errorf("expected BatchSize 5, got %d", cfg.BatchSize)
		}
	})

	t.Run("builds config with custom format", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("format", "markdown")
		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Format != config.FormatMarkdown {
			t.Errorf("expected format %q, got %q", config.FormatMarkdown, cfg.Format)
		}
	})

	t.Run("builds config with no-save", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("no-save", "true")
		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false with --no-save")
		}
	})

	t.Run("builds config with multiple targets", func(t *testing.T) {
		cmd := NewAuditCmd()
		cfg, err := buildConfig(cmd, []string{"site1.com", "site2.com", "site3.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Targets) != 3 {
			t.Errorf("expected 3 targets, got %d", len(cfg.Targets))
		}
	})

	t.Run("builds config with valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "seoscan.yaml")

		// Create a valid config file
		content := []byte(`
defaults:
  maxPages: 30
sites:
  example.com:
    cookie: session=xyz
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SiteConfigs == nil {
			t.Fatal("expected SiteConfigs to be loaded")
		}
		if cfg.SiteConfigs.Defaults.MaxPages != 30 {
			t.Errorf("expected default maxPages 30, got %d", cfg.SiteConfigs.Defaults.MaxPages)
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yaml")

		// Create an invalid config file
		content := []byte(`{invalid yaml`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("config", configPath)
		_, err := buildConfig(cmd, []string{"example.com"})
		if err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := buildConfig(cmd, []string{"example.com"})
		if err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})

	t.Run("builds config with output file", func(t *testing.T) {
		cmd := NewAuditCmd()
		_ = cmd.Flags().Set("output", "/tmp/report.json")
		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.OutputFile != "/tmp/report.json" {
			t.Errorf("expected OutputFile '/tmp/report.json', got %q", cfg.OutputFile)
		}
	})
}

// TestGetSiteConfig tests site configuration retrieval.
func TestGetSiteConfig(t *testing.T) {
	t.Parallel()

	t.Run("returns empty config for nil SiteConfigs", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			SiteConfigs: nil,
		}
		result := getSiteConfig(cfg, "example.com")
		if result.Cookie != "" {
			t.Error("expected empty cookie")
		}
	})

	t.Run("returns match for bare host target", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			SiteConfigs: &config.File{
				Sites: map[string]config.SiteConfig{
					"example.com": {
						Cookie:   "session=abc",
						MaxPages: 100,
					},
				},
			},
		}
		result := getSiteConfig(cfg, "example.com")
		if result.Cookie != "session=abc" {
			t.Errorf("expected cookie 'session=abc', got %q", result.Cookie)
		}
		if result.MaxPages != 100 {
			t.Errorf("expected maxPages 100, got %d", result.MaxPages)
		}
	})

	t.Run("returns match for target with scheme", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			SiteConfigs: &config.File{
				Sites: map[string]config.SiteConfig{
					"example.com": {
						Cookie: "session=abc",
					},
				},
			},
		}
		result := getSiteConfig(cfg, "https://example.com/start")
		if result.Cookie != "session=abc" {
			t.Errorf("expected cookie 'session=abc', got %q", result.Cookie)
		}
	})

	t.Run("returns defaults when no site match", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			SiteConfigs: &config.File{
				Defaults: config.SiteConfig{
					Cookie: "default=cookie",
				},
				Sites: map[string]config.SiteConfig{},
			},
		}
		result := getSiteConfig(cfg, "other.com")
		if result.Cookie != "default=cookie" {
			t.Errorf("expected cookie 'default=cookie', got %q", result.Cookie)
		}
	})
}

// testCmdReport builds a report with a few findings for output tests.
func testCmdReport() *model.AuditReport {
	r := model.NewAuditReport("http://example.com/")
	page := model.NewPageIssues("http://example.com/")
	page.Add(model.CategoryTitle, "Missing Title Tag")
	page.Add(model.CategoryImage, "2 Images Missing Alt Text")
	r.AddPage(page)
	r.Stats.PagesCrawled = 2
	r.Status = model.StatusComplete
	return r
}

// TestOutputReport tests the report output functionality.
func TestOutputReport(t *testing.T) {
	t.Run("outputs JSON report to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "report.json")

		cfg := &config.Config{
			Format:     config.FormatJSON,
			OutputFile: outputPath,
		}

		err := outputReport(cfg, testCmdReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Verify JSON content
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		var result map[string]interface{}
		if err := json.Unmarshal(content, &result); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}

		if result["version"] == "" {
			t.Error("expected version field in JSON output")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "subdir", "nested", "report.json")

		cfg := &config.Config{
			Format:     config.FormatJSON,
			OutputFile: outputPath,
		}

		err := outputReport(cfg, testCmdReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			t.Error("expected output file to be created in nested directory")
		}
	})

	t.Run("outputs text report to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "report.txt")

		cfg := &config.Config{
			Format:     config.FormatText,
			OutputFile: outputPath,
		}

		err := outputReport(cfg, testCmdReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}

		if !bytes.Contains(content, []byte("example.com")) {
			t.Error("expected report to contain domain")
		}
		if !bytes.Contains(content, []byte("Missing Title Tag")) {
			t.Error("expected report to contain issue text")
		}
	})

	t.Run("outputs markdown report to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "report.md")

		cfg := &config.Config{
			Format:     config.FormatMarkdown,
			OutputFile: outputPath,
		}

		err := outputReport(cfg, testCmdReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if !strings.Contains(string(content), "# SEO Audit Report") {
			t.Error("expected markdown header")
		}
	})

	t.Run("outputs xlsx workbook to file", func(t *testing.T) {
		tmpDir := t.TempDir()
		outputPath := filepath.Join(tmpDir, "report.xlsx")

		cfg := &config.Config{
			Format:     config.FormatXLSX,
			OutputFile: outputPath,
		}

		err := outputReport(cfg, testCmdReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		// xlsx files are zip archives
		if len(content) < 4 || content[0] != 'P' || content[1] != 'K' {
			t.Error("expected xlsx output to start with zip signature")
		}
	})

	t.Run("outputs to stdout when no file specified", func(t *testing.T) {
		cfg := &config.Config{
			Format:     config.FormatTable,
			OutputFile: "",
		}

		// This should not fail - just outputs to stdout
		err := outputReport(cfg, testCmdReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("returns error for unknown format", func(t *testing.T) {
		cfg := &config.Config{
			Format: config.Format("bogus"),
		}

		err := outputReport(cfg, testCmdReport())
		if err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

// TestOutputPath tests per-domain report path derivation.
func TestOutputPath(t *testing.T) {
	t.Parallel()

	t.Run("single target uses the configured path", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			Targets:    []string{"example.com"},
			OutputFile: "report.txt",
		}
		if got := outputPath(cfg, "example.com"); got != "report.txt" {
			t.Errorf("outputPath() = %q, want %q", got, "report.txt")
		}
	})

	t.Run("multiple targets get per-domain files", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			Targets:    []string{"a.example.com", "b.example.com"},
			OutputFile: "out/report.txt",
		}
		if got := outputPath(cfg, "a.example.com"); got != "out/report-a.example.com.txt" {
			t.Errorf("outputPath() = %q, want %q", got, "out/report-a.example.com.txt")
		}
		if got := outputPath(cfg, "b.example.com"); got != "out/report-b.example.com.txt" {
			t.Errorf("outputPath() = %q, want %q", got, "out/report-b.example.com.txt")
		}
	})

	t.Run("host with port is made file-safe", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			Targets:    []string{"http://127.0.0.1:8080", "example.com"},
			OutputFile: "report.txt",
		}
		if got := outputPath(cfg, "http://127.0.0.1:8080"); got != "report-127.0.0.1-8080.txt" {
			t.Errorf("outputPath() = %q, want %q", got, "report-127.0.0.1-8080.txt")
		}
	})
}

// TestWriterForFormat tests the format-to-writer mapping.
func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	for _, format := range config.Formats() {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			w, err := writerForFormat(format, os.Stdout)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w == nil {
				t.Error("expected non-nil writer")
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		_, err := writerForFormat(config.Format("bogus"), os.Stdout)
		if err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

// TestRunAuditCmdNoArgs tests runAuditCmd with no arguments.
func TestRunAuditCmdNoArgs(t *testing.T) {
	t.Parallel()

	// NewRootCmd already includes the audit subcommand
	rootCmd := NewRootCmd()
	// Execute "audit" with no args via root command
	rootCmd.SetArgs([]string{"audit"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for no arguments")
	}
	if !strings.Contains(err.Error(), "no target") {
		t.Errorf("expected 'no target' error, got: %v", err)
	}
}

// TestRunAuditCmdBadFormat tests runAuditCmd with an unknown format.
func TestRunAuditCmdBadFormat(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"audit", "--format", "bogus", "example.com"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "format") {
		t.Errorf("expected format error, got: %v", err)
	}
}

// TestRunAuditCmdXLSXWithoutOutput tests that xlsx requires --output.
func TestRunAuditCmdXLSXWithoutOutput(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"audit", "--format", "xlsx", "example.com"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for xlsx without --output")
	}
}
