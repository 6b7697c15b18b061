// Package model defines the data structures shared across seoscan.
//
// The central types are AuditReport (the result of auditing one domain),
// PageIssues (the per-page analyzer output), and AuditSummary (the
// aggregated view used by report writers). All types are plain data with
// JSON tags so reports can be serialized for the history database and the
// JSON writer without conversion layers.
package model
