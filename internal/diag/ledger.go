package diag

import (
	"errors"
	"fmt"

	"ojc/internal/source"
)

// ErrTooManyErrors is matched by every *AbortError.
var ErrTooManyErrors = errors.New("too many errors")

// AbortError reports that the error ceiling was exceeded.
type AbortError struct {
	MaxErrors int
	Errors    int
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("too many errors (%d, limit %d)", e.Errors, e.MaxErrors)
}

func (e *AbortError) Is(target error) bool { return target == ErrTooManyErrors }

// Reporter: минимальный контракт получения диагностик.
type Reporter interface {
	Report(is *Issue) error
	// Enabled reports whether warnings with the given code would be kept.
	Enabled(code Code) bool
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(*Issue) error { return nil }
func (NopReporter) Enabled(Code) bool   { return false }

// LedgerOptions configures a Ledger.
type LedgerOptions struct {
	// MaxErrors is the error ceiling; 0 means unlimited.
	MaxErrors      int
	Warnings       Warnings
	IgnoreWarnings bool
}

// Ledger collects issues for one compilation unit in report order.
type Ledger struct {
	fs       *source.FileSet
	opts     LedgerOptions
	issues   []*Issue
	errors   int
	warnings int
	aborted  bool
}

// NewLedger creates a ledger resolving positions through fs. A nil
// Warnings map means DefaultWarnings.
func NewLedger(fs *source.FileSet, opts LedgerOptions) *Ledger {
	if opts.Warnings == nil {
		opts.Warnings = DefaultWarnings()
	}
	if opts.MaxErrors < 0 {
		opts.MaxErrors = 0
	}
	return &Ledger{fs: fs, opts: opts}
}

// Enabled is the warning gate: false when warnings are muted globally or
// the code's category is switched off. Errors are always enabled.
func (l *Ledger) Enabled(code Code) bool {
	if l == nil {
		return false
	}
	if l.opts.IgnoreWarnings {
		return false
	}
	return l.opts.Warnings.Enabled(code.Category())
}

// Report appends an issue. Warnings that fail the gate are discarded.
// When the error count exceeds MaxErrors the issue is still kept and an
// *AbortError is returned; every later error returns it again.
func (l *Ledger) Report(is *Issue) error {
	if l == nil || is == nil {
		return nil
	}
	if is.Severity == SevWarning && !l.Enabled(is.Code) {
		return nil
	}
	l.resolve(is)
	l.issues = append(l.issues, is)
	switch is.Severity {
	case SevError:
		l.errors++
		if l.opts.MaxErrors > 0 && l.errors > l.opts.MaxErrors {
			l.aborted = true
			return &AbortError{MaxErrors: l.opts.MaxErrors, Errors: l.errors}
		}
	case SevWarning:
		l.warnings++
	}
	return nil
}

func (l *Ledger) resolve(is *Issue) {
	if l.fs == nil {
		return
	}
	if f := l.fs.Get(is.Primary.File); f != nil {
		is.Path = f.Path
		is.Pos = f.LineCol(is.Primary.Start)
	}
	for i := range is.Notes {
		if f := l.fs.Get(is.Notes[i].Span.File); f != nil {
			is.Notes[i].Pos = f.LineCol(is.Notes[i].Span.Start)
		}
	}
}

// Filter keeps only the issues for which keep returns true.
func (l *Ledger) Filter(keep func(*Issue) bool) {
	if l == nil {
		return
	}
	out := l.issues[:0]
	l.errors, l.warnings = 0, 0
	for _, is := range l.issues {
		if !keep(is) {
			continue
		}
		out = append(out, is)
		switch is.Severity {
		case SevError:
			l.errors++
		case SevWarning:
			l.warnings++
		}
	}
	for i := len(out); i < len(l.issues); i++ {
		l.issues[i] = nil
	}
	l.issues = out
}

// Issues returns the collected issues in report order.
func (l *Ledger) Issues() []*Issue {
	if l == nil {
		return nil
	}
	return l.issues
}

func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.issues)
}

func (l *Ledger) ErrorCount() int {
	if l == nil {
		return 0
	}
	return l.errors
}

func (l *Ledger) WarningCount() int {
	if l == nil {
		return 0
	}
	return l.warnings
}

func (l *Ledger) HasErrors() bool { return l.ErrorCount() > 0 }

// Aborted reports whether the ceiling was crossed.
func (l *Ledger) Aborted() bool { return l != nil && l.aborted }
