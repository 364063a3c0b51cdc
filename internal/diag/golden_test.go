package diag

import (
	"testing"

	"ojc/internal/source"
)

func TestFormatGolden(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/Sample.j", []byte("a\nb\n"), 0)
	otherFile := fs.Add("/workspace/lib/Other.j", []byte("x\n"), 0)

	issues := []*Issue{
		{
			Severity: SevError,
			Code:     SemDuplicateDefinition,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: otherFile, Start: 0, End: 0}, Msg: "previous definition is here"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SemImplicitGlobal,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "note SEM3001 lib/Other.j:1:1 previous definition is here\n" +
		"error SEM3001 testdata/golden/Sample.j:1:1 first line second\n" +
		"note SEM3001 testdata/golden/Sample.j:2:1 note line\n" +
		"warning SEM3007 testdata/golden/Sample.j:2:1 another"

	if got := FormatGolden(issues, fs, true); got != expected {
		t.Fatalf("unexpected golden issues:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortKeepsReportOrder(t *testing.T) {
	issues := []*Issue{
		{Severity: SevWarning, Code: SemShadowedVar, Message: "b", Path: "B.j", Pos: source.LineCol{Line: 9, Col: 1}},
		{Severity: SevError, Code: SemDuplicateDefinition, Message: "a", Path: "A.j", Pos: source.LineCol{Line: 1, Col: 2}},
	}
	expected := "warning SEM3009 B.j:9:1 b\nerror SEM3001 A.j:1:2 a"
	if got := FormatShort(issues, nil, false); got != expected {
		t.Fatalf("want %q, got %q", expected, got)
	}
}
