package diag

import (
	"errors"
	"testing"

	"ojc/internal/ast"
	"ojc/internal/source"
)

func newTestLedger(opts LedgerOptions) (*Ledger, source.FileID) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Test.j", []byte("var a;\nfoo = 1;\n"))
	return NewLedger(fs, opts), id
}

func TestLedgerResolvesPositions(t *testing.T) {
	l, file := newTestLedger(LedgerOptions{})
	err := ReportError(l, SemDuplicateDefinition, source.Span{File: file, Start: 7, End: 10}, "duplicate definition of %s '%s'", "class", "Foo").
		WithNote(source.Span{File: file, Start: 4, End: 5}, "previous definition is here").
		Emit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	issues := l.Issues()
	if len(issues) != 1 {
		t.Fatalf("want 1 issue, got %d", len(issues))
	}
	is := issues[0]
	if is.Message != "duplicate definition of class 'Foo'" {
		t.Fatalf("message: %q", is.Message)
	}
	if is.Pos != (source.LineCol{Line: 2, Col: 1}) {
		t.Fatalf("pos: %+v", is.Pos)
	}
	if is.Notes[0].Pos != (source.LineCol{Line: 1, Col: 5}) {
		t.Fatalf("note pos: %+v", is.Notes[0].Pos)
	}
	if is.Path != "Test.j" {
		t.Fatalf("path: %q", is.Path)
	}
}

func TestLedgerCeiling(t *testing.T) {
	l, file := newTestLedger(LedgerOptions{MaxErrors: 2})
	span := source.Span{File: file}
	for i := 0; i < 2; i++ {
		if err := ReportError(l, SemDuplicateDefinition, span, "e").Emit(); err != nil {
			t.Fatalf("error %d tripped the ceiling: %v", i, err)
		}
	}
	// notes never count
	if err := ReportWarning(l, SemUnnecessaryForward, span, "w").WithNote(span, "n").Emit(); err != nil {
		t.Fatalf("warning tripped the ceiling: %v", err)
	}
	err := ReportError(l, SemDuplicateDefinition, span, "third").Emit()
	if !errors.Is(err, ErrTooManyErrors) {
		t.Fatalf("want ErrTooManyErrors, got %v", err)
	}
	var abort *AbortError
	if !errors.As(err, &abort) || abort.MaxErrors != 2 || abort.Errors != 3 {
		t.Fatalf("unexpected abort error %#v", err)
	}
	if l.ErrorCount() != 3 || l.Len() != 4 || !l.Aborted() {
		t.Fatalf("errors=%d len=%d aborted=%v", l.ErrorCount(), l.Len(), l.Aborted())
	}
}

func TestLedgerUnlimited(t *testing.T) {
	l, file := newTestLedger(LedgerOptions{MaxErrors: 0})
	for i := 0; i < 100; i++ {
		if err := ReportError(l, SemDuplicateDefinition, source.Span{File: file}, "e").Emit(); err != nil {
			t.Fatalf("unexpected abort at %d", i)
		}
	}
}

func TestDisabledCategoryIsSuppressed(t *testing.T) {
	w := DefaultWarnings()
	w[CatShadowedVars] = false
	l, file := newTestLedger(LedgerOptions{Warnings: w})

	b := ReportWarning(l, SemShadowedVar, source.Span{File: file}, "hidden")
	if b != nil {
		t.Fatalf("builder for a disabled category must be nil")
	}
	// nil builders chain
	if err := b.WithNote(source.Span{}, "x").WithNode(ast.Ident("a")).Emit(); err != nil {
		t.Fatalf("nil emit returned %v", err)
	}
	if err := ReportWarning(l, SemImplicitGlobal, source.Span{File: file}, "kept").Emit(); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 1 || l.Issues()[0].Code != SemImplicitGlobal {
		t.Fatalf("unexpected issues: %s", FormatShort(l.Issues(), nil, false))
	}
}

func TestIgnoreWarningsMutesEverything(t *testing.T) {
	l, file := newTestLedger(LedgerOptions{IgnoreWarnings: true})
	_ = ReportWarning(l, SemUnnecessaryForward, source.Span{File: file}, "w").Emit()
	_ = ReportError(l, SemDuplicateDefinition, source.Span{File: file}, "e").Emit()
	if l.Len() != 1 || !l.HasErrors() || l.WarningCount() != 0 {
		t.Fatalf("len=%d warnings=%d", l.Len(), l.WarningCount())
	}
}

func TestLedgerFilter(t *testing.T) {
	l, file := newTestLedger(LedgerOptions{})
	scope := new(int)
	_ = ReportWarning(l, SemImplicitGlobal, source.Span{File: file}, "a").Filterable(scope, "a").Emit()
	_ = ReportWarning(l, SemImplicitGlobal, source.Span{File: file}, "b").Filterable(scope, "b").Emit()
	l.Filter(func(is *Issue) bool { return !(is.Filterable && is.Scope == scope && is.Name == "a") })
	if l.Len() != 1 || l.Issues()[0].Name != "b" || l.WarningCount() != 1 {
		t.Fatalf("unexpected issues after filter: %s", FormatShort(l.Issues(), nil, false))
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	l, file := newTestLedger(LedgerOptions{})
	id := ast.Ident("foo")
	_ = ReportError(l, SemSymbolRedefined, source.Span{File: file}, "x").WithNode(id).Emit()
	id.Name = "bar"
	got, ok := l.Issues()[0].Node.(*ast.Identifier)
	if !ok || got.Name != "foo" {
		t.Fatalf("snapshot followed the mutation: %#v", l.Issues()[0].Node)
	}
}

func TestParseCategory(t *testing.T) {
	for _, name := range CategoryNames() {
		c, err := ParseCategory(name)
		if err != nil || c.String() != name {
			t.Fatalf("round trip %q: %v %v", name, c, err)
		}
	}
	if _, err := ParseCategory("nope"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		InpParseError:          "INP2001",
		SemUnimplementedMethod: "SEM3013",
		IOLoadFileError:        "IO4001",
		ProjNoSources:          "PRJ5001",
		ObsInfo:                "OBS6000",
		UnknownCode:            "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: want %s, got %s", code, want, got)
		}
	}
	if SemShadowedVar.Category() != CatShadowedVars || SemDuplicateDefinition.Category() != CatNone {
		t.Fatal("unexpected categories")
	}
}
