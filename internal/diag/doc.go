// Package diag defines the diagnostic model of the compiler.
//
// # Data model
//
// Issue is the central record. It contains:
//
//   - Severity – Note, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form and, for
//     warnings, the Category that toggles it (codes.go).
//   - Message – printf-rendered text.
//   - Primary span and its resolved 1-based line/column.
//   - Notes – secondary spans such as "previous definition is here". Notes
//     never count toward any limit.
//   - Node – a structural snapshot of the offending syntax node.
//   - Scope / Filterable / Name – identifier warnings that may be retracted
//     when a later declaration in the same scope makes them moot.
//
// # Ledger
//
// Ledger collects issues for one compilation unit. It applies warning
// category toggles, the ignore-warnings switch and the error ceiling: once
// the number of errors exceeds the ceiling, the emit that crossed it returns
// an *AbortError (errors.Is(err, ErrTooManyErrors)). The issue that crossed
// the ceiling is kept, so callers always see the complete list.
//
// # Producing issues
//
//	err := diag.ReportError(ledger, diag.SemDuplicateDefinition, span,
//		"duplicate definition of %s '%s'", "class", name).
//		WithNote(prev, "previous definition is here").
//		Emit()
//
// Builders for suppressed warnings are nil; every method on a nil builder is
// a no-op, so call sites chain without checking.
//
// Package diag does not render anything; see internal/diagfmt.
package diag
