// Package main provides the entry point for the seoscan CLI.
//
// seoscan is an SEO auditing tool for websites. It crawls a site,
// analyzes each HTML page for common on-page SEO problems, and reports
// the findings grouped by category.
//
// Usage:
//
//	seoscan audit <domain>
//	seoscan history <domain>
//
// See --help for all available options.
package main

// main is the entry point for seoscan.
func main() {
	Execute()
}
