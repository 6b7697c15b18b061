// Package database provides SQLite-based storage for audit history.
//
// This package implements the AuditDB, which stores finished audit
// reports as JSON alongside a small per-category issue summary used for
// cheap history listings.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
