// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: a severity, a stable numeric code, a
// message, the primary source span, and optional notes. Producers collect
// diagnostics into a Bag; rendering lives in internal/diagfmt and never here.
package diag
