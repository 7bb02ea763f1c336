// Package diag defines the diagnostic model shared by the remapping pipeline.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (see codes.go), a short Message, the Primary span and optional
// Notes with secondary spans.
//
// Remapping misses are never diagnostics: the engine degrades to null
// segments and counts the miss in its stats. Diagnostics cover what a user
// can act on: a dialect compile failure, a malformed or missing upstream map,
// a bad config or job file, I/O errors, and lexer complaints about the
// generated code.
//
// Producers add to the job's Bag; the lexer reports through its own
// string-kinded interface and lexer.ReporterAdapter. Rendering lives in
// internal/diagfmt.
package diag
