// Package driver orchestrates the debug-scope pipeline: it loads function
// fixtures, runs the AST scope walk and the MIR scope resolution against an
// in-memory backend, and collects diagnostics and timings per function.
// Directory runs fan out over a worker pool with a deterministic result
// order.
package driver
