// Package log provides structured logging helpers for seoscan.
//
// Loggers are built on the standard library's log/slog and injected into
// components rather than configured globally, so the crawl core carries
// no ambient logging state. The RedactHandler wrapper keeps credentials
// from site configurations (cookies, authorization headers) out of log
// output.
package log
