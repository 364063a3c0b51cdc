package driver

import (
	"context"
	"errors"
	"fmt"

	"ojc/internal/ast"
	"ojc/internal/codegen"
	"ojc/internal/compiler"
	"ojc/internal/diag"
	"ojc/internal/observ"
	"ojc/internal/project"
	"ojc/internal/source"
	"ojc/internal/symbols"
)

// Unit is one source file of a session.
type Unit struct {
	// Envelope is the file the parser output was read from; empty for
	// envelopes handed over in memory.
	Envelope string
	Path     string
	File     source.FileID
	Input    compiler.Input
	Meta     project.FileMeta
	Result   *compiler.Result
	// Broken units failed to load and are skipped by CompileFiles.
	Broken bool
}

// Options configure a Session.
type Options struct {
	Compiler compiler.Options
	// Rules defaults to codegen.Rules().
	Rules *compiler.Rules
	// Jobs bounds parallel envelope decoding; <= 0 means GOMAXPROCS.
	Jobs     int
	Cache    *DiskCache
	Progress ProgressSink
	Observer PhaseObserver
}

// Session compiles a batch of files against shared registries. Loading is
// parallel; compilation is strictly sequential in import order so that
// every file sees the classes of the files it imports.
type Session struct {
	FileSet    *source.FileSet
	Registries *symbols.Registries
	Timer      *observ.Timer

	opts    Options
	units   []*Unit
	prelude []*Unit
	ledger  *diag.Ledger

	// CacheHit is set when LoadPrelude restored the registries from disk.
	CacheHit bool
}

// NewSession prepares an empty session.
func NewSession(opts Options) *Session {
	if opts.Rules == nil {
		opts.Rules = codegen.Rules()
	}
	fs := source.NewFileSet()
	return &Session{
		FileSet:    fs,
		Registries: symbols.NewRegistries(),
		Timer:      observ.NewTimer(),
		opts:       opts,
		ledger: diag.NewLedger(fs, diag.LedgerOptions{
			Warnings:       opts.Compiler.Warnings,
			IgnoreWarnings: opts.Compiler.IgnoreWarnings,
		}),
	}
}

// Options returns the session configuration.
func (s *Session) Options() Options { return s.opts }

// Units returns the loaded units in compilation order once Order has run,
// in load order before.
func (s *Session) Units() []*Unit { return s.units }

// Results returns the results of the compiled units, in compilation order.
func (s *Session) Results() []*compiler.Result {
	out := make([]*compiler.Result, 0, len(s.units))
	for _, u := range s.units {
		if u.Result != nil {
			out = append(out, u.Result)
		}
	}
	return out
}

// Issues returns session-level issues followed by the issues of every
// prelude and unit result.
func (s *Session) Issues() []*diag.Issue {
	out := append([]*diag.Issue(nil), s.ledger.Issues()...)
	for _, group := range [][]*Unit{s.prelude, s.units} {
		for _, u := range group {
			if u.Result != nil {
				out = append(out, u.Result.Issues...)
			}
		}
	}
	return out
}

// Counts tallies errors and warnings over Issues.
func (s *Session) Counts() (errs, warnings int) {
	for _, is := range s.Issues() {
		switch {
		case is.IsError():
			errs++
		case is.IsWarning():
			warnings++
		}
	}
	return errs, warnings
}

// HasErrors reports whether any issue is an error.
func (s *Session) HasErrors() bool {
	errs, _ := s.Counts()
	return errs > 0
}

func (s *Session) emit(ev Event) {
	if s.opts.Progress != nil {
		s.opts.Progress.OnEvent(ev)
	}
}

// phase starts a timed phase and returns the function that ends it.
func (s *Session) phase(name string) func(note string) {
	idx := s.Timer.Begin(name)
	if s.opts.Observer != nil {
		s.opts.Observer(PhaseEvent{Name: name})
	}
	return func(note string) {
		s.Timer.End(idx, note)
		if s.opts.Observer != nil {
			s.opts.Observer(PhaseEvent{Name: name, Done: true, Elapsed: s.Timer.Elapsed(idx)})
		}
	}
}

// report adds a session-level issue.
func (s *Session) report(sev diag.Severity, code diag.Code, sp source.Span, format string, args ...any) {
	_ = diag.NewReportBuilder(s.ledger, sev, code, sp, format, args...).Emit()
}

func noFile() source.Span { return source.Span{File: source.NoFile} }

// ErrNoSources is returned by Load when it is given nothing to load.
var ErrNoSources = errors.New("no sources")

func unitLabel(u *Unit) string {
	if u.Path != "" {
		return u.Path
	}
	if u.Envelope != "" {
		return u.Envelope
	}
	return fmt.Sprintf("file#%d", u.File)
}

// eventFile names u in progress events: the envelope it was loaded from,
// so events of every stage match the paths handed to Load.
func eventFile(u *Unit) string {
	if u.Envelope != "" {
		return u.Envelope
	}
	return unitLabel(u)
}

// importsOf lists the top-level @imports of prog.
func importsOf(path string, file source.FileID, prog *ast.Program) []project.ImportMeta {
	if prog == nil {
		return nil
	}
	var out []project.ImportMeta
	for _, n := range prog.Body {
		imp, ok := n.(*ast.ImportStatement)
		if !ok {
			continue
		}
		r := imp.Range()
		out = append(out, project.ImportMeta{
			Path:  project.ResolveImport(path, imp.Filename, imp.Local),
			Local: imp.Local,
			Span:  source.Span{File: file, Start: r.Start, End: r.End},
		})
	}
	return out
}

// Run loads the prelude and paths, orders the batch and compiles it.
func (s *Session) Run(ctx context.Context, prelude, paths []string) error {
	if err := s.LoadPrelude(ctx, prelude); err != nil {
		return err
	}
	if err := s.Load(ctx, paths); err != nil {
		return err
	}
	s.Order(ctx)
	return s.CompileFiles(ctx)
}
