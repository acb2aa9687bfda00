// Package diag defines the diagnostic model shared by every lowering phase.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form (codes.go), a short Message, the Module it belongs to and
// a primary source.Span. Notes add secondary positions.
//
// Phases emit through a Reporter (BagReporter, DedupReporter) or build values
// with NewError; a phase that fails hands its Bag to the caller wrapped in
// *Error, which implements the error interface. errors.As recovers the
// diagnostics so the CLI can render them through internal/diagfmt.
//
// Package diag does not perform any formatting beyond the single-line
// FormatShort helper, and never performs IO.
package diag
