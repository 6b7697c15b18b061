// Package analyzer implements the on-page SEO heuristics.
//
// The Analyzer is a pure function of a parsed document: it performs no
// network access and keeps no state between pages, so analyzing the same
// document twice yields identical records. All rules are evaluated
// unconditionally on every page; a category appears in the output only
// when it produced at least one issue.
package analyzer
