package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/report"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

// noIssuesMessage is shown for audits that found nothing.
const noIssuesMessage = "No issues"

// NewHistoryCmd creates the history command.
// This command browses audit results stored in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "Browse stored audit results",
		Long: `History lists past audit results from the local database.

Audits are stored automatically unless 'seoscan audit' was run with
--no-save. Without arguments this command lists every audited domain.
With a domain it lists that domain's audit history, newest first.

Examples:
  # List all audited domains
  seoscan history

  # List audit history for a domain
  seoscan history example.com

  # Show a stored report by ID (use the listing to find IDs)
  seoscan history --id 5

  # Show a stored report as JSON
  seoscan history --id 5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("id", "i", 0,
		"Show the full stored report with this ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output the report in JSON format (only with --id)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	reportID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOutput && reportID == 0 {
		return errors.New("--json requires --id")
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if reportID > 0 {
		return showStoredReport(ctx, db, reportID, jsonOutput)
	}

	if len(args) == 0 {
		return listAuditedDomains(ctx, db)
	}
	return listAuditHistory(ctx, db, args[0])
}

// listAuditedDomains lists all domains that have audit records in the database.
func listAuditedDomains(ctx context.Context, db *database.AuditDB) error {
	domains, err := db.ListAuditedDomains(ctx)
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}

	if len(domains) == 0 {
		fmt.Println("No audited domains found in the database.")
		fmt.Println("\nUse 'seoscan audit <domain>' to audit a website.")
		return nil
	}

	fmt.Printf("Audited domains (%d):\n\n", len(domains))
	for _, domain := range domains {
		fmt.Printf("  • %s\n", domain)
	}
	fmt.Println("\nUse 'seoscan history <domain>' to see audit history for a domain.")

	return nil
}

// listAuditHistory lists all audit records for a specific domain.
func listAuditHistory(ctx context.Context, db *database.AuditDB, domain string) error {
	records, err := db.GetAuditHistoryWithMetadata(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(records) == 0 {
		fmt.Printf("No audit history found for %s\n", domain)
		fmt.Println("\nUse 'seoscan audit' to audit this domain.")
		return nil
	}

	fmt.Printf("Audit history for %s (%d audits):\n\n", domain, len(records))

	tbl := table.New("ID", "Date", "Issue Summary").WithWriter(os.Stdout)
	for _, meta := range records {
		tbl.AddRow(
			strconv.FormatInt(meta.ID, 10),
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatIssueSummary(meta.IssueSummary),
		)
	}
	tbl.Print()

	fmt.Println("\nUse 'seoscan history --id <id>' to show a stored report.")

	return nil
}

// formatIssueSummary formats the per-category issue counts into a short
// human-readable string. Categories without issues are omitted.
func formatIssueSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	for _, category := range model.Categories() {
		if v := summary[string(category)]; v > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", categoryAbbrev(category), v))
		}
	}

	if len(parts) == 0 {
		return noIssuesMessage
	}
	return strings.Join(parts, " ") + fmt.Sprintf(" (total %d)", summary["total"])
}

// categoryAbbrev returns a short label for a category, used in the
// history listing where the full names would not fit.
func categoryAbbrev(category model.Category) string {
	switch category {
	case model.CategoryTitle:
		return "Title"
	case model.CategoryMetaDescription:
		return "Meta"
	case model.CategoryHeading:
		return "Heading"
	case model.CategoryLink:
		return "Link"
	case model.CategoryImage:
		return "Image"
	default:
		return string(category)
	}
}

// showStoredReport renders a single stored report by ID.
func showStoredReport(ctx context.Context, db *database.AuditDB, id int64, jsonOutput bool) error {
	stored, err := db.GetAuditReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get report with ID %d: %w", id, err)
	}
	if stored == nil {
		return fmt.Errorf("report with ID %d not found", id)
	}

	var writer report.Writer
	if jsonOutput {
		writer = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		writer = report.NewTextWriter(os.Stdout)
	}
	_, err = writer.Write(stored)
	return err
}
