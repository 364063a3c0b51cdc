package diag

import (
	"fmt"

	"ojc/internal/ast"
	"ojc/internal/source"
)

// ReportBuilder accumulates issue details before emitting to a Reporter.
type ReportBuilder struct {
	reporter Reporter
	issue    Issue
	emitted  bool
}

// NewReportBuilder constructs a builder bound to r. For warnings that r
// would discard it returns nil.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, format string, args ...any) *ReportBuilder {
	if r == nil {
		return nil
	}
	if sev == SevWarning && !r.Enabled(code) {
		return nil
	}
	return &ReportBuilder{
		reporter: r,
		issue: Issue{
			Severity: sev,
			Code:     code,
			Message:  sprintf(format, args),
			Primary:  primary,
		},
	}
}

// ReportError is a shortcut for SevError issues.
func ReportError(r Reporter, code Code, primary source.Span, format string, args ...any) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, format, args...)
}

// ReportWarning is a shortcut for SevWarning issues.
func ReportWarning(r Reporter, code Code, primary source.Span, format string, args ...any) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, format, args...)
}

// WithNote appends a note.
func (b *ReportBuilder) WithNote(sp source.Span, format string, args ...any) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue.Notes = append(b.issue.Notes, Note{Span: sp, Msg: sprintf(format, args)})
	return b
}

// WithNode records a snapshot of n.
func (b *ReportBuilder) WithNode(n ast.Node) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue.Node = ast.Snapshot(n)
	return b
}

// Filterable marks the issue as retractable when scope closes and name
// turns out to be declared there.
func (b *ReportBuilder) Filterable(scope any, name string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue.Scope = scope
	b.issue.Name = name
	b.issue.Filterable = true
	return b
}

// WithScope records the originating scope without making the issue filterable.
func (b *ReportBuilder) WithScope(scope any) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue.Scope = scope
	return b
}

// Emit sends the issue to the reporter exactly once and returns the
// reporter's verdict (an *AbortError when the error ceiling is crossed).
func (b *ReportBuilder) Emit() error {
	if b == nil || b.emitted {
		return nil
	}
	b.emitted = true
	is := b.issue
	return b.reporter.Report(&is)
}

// Issue returns the accumulated issue without emitting.
func (b *ReportBuilder) Issue() Issue {
	if b == nil {
		return Issue{}
	}
	return b.issue
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
