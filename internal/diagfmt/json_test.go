package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"ojc/internal/diag"
	"ojc/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/src/Sub.j", []byte("@import \"Base.j\"\n@implementation Sub : base\n@end\n"))
	sp := source.Span{File: fileID, Start: 39, End: 43}
	issues := []*diag.Issue{{
		Severity: diag.SevError,
		Code:     diag.SemUnknownSuperclass,
		Message:  "cannot find superclass 'base' of class 'Sub'",
		Primary:  sp,
		Notes:    []diag.Note{{Span: sp, Msg: "did you mean 'Base'?"}},
	}}

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, issues, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output IssuesOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || output.Errors != 1 || output.Warnings != 0 {
		t.Fatalf("unexpected counts: %+v", output)
	}

	is := output.Issues[0]
	if is.Severity != "ERROR" || is.Code != "SEM3018" {
		t.Errorf("unexpected severity/code %s %s", is.Severity, is.Code)
	}
	if is.Category != "" {
		t.Errorf("errors carry no warning category, got %q", is.Category)
	}
	want := LocationJSON{File: "Sub.j", StartByte: 39, EndByte: 43, StartLine: 2, StartCol: 23, EndLine: 2, EndCol: 27}
	if is.Location != want {
		t.Errorf("location = %+v, want %+v", is.Location, want)
	}
	if len(is.Notes) != 1 || is.Notes[0].Message != "did you mean 'Base'?" {
		t.Errorf("unexpected notes %+v", is.Notes)
	}
}

func TestJSONWithoutPositionsOrNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.j", []byte("debugger;\n"))
	issues := []*diag.Issue{{
		Severity: diag.SevWarning,
		Code:     diag.SemDebugger,
		Message:  "debugger statement",
		Primary:  source.Span{File: fileID, Start: 0, End: 9},
		Notes:    []diag.Note{{Span: source.Span{File: fileID}, Msg: "hidden"}},
	}}

	out := BuildIssuesOutput(issues, fs, JSONOpts{})
	is := out.Issues[0]
	if is.Location.StartLine != 0 || is.Location.StartCol != 0 {
		t.Errorf("positions must be omitted, got %+v", is.Location)
	}
	if is.Notes != nil {
		t.Errorf("notes must be omitted, got %+v", is.Notes)
	}
	if is.Category != "debugger" {
		t.Errorf("category = %q, want debugger", is.Category)
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.j", []byte("x = 1; y = 2; z = 3;\n"))
	var issues []*diag.Issue
	for i, name := range []string{"x", "y", "z"} {
		off := uint32(i * 7)
		issues = append(issues, &diag.Issue{
			Severity: diag.SevWarning,
			Code:     diag.SemImplicitGlobal,
			Message:  "implicitly creating the global variable '" + name + "'",
			Primary:  source.Span{File: fileID, Start: off, End: off + 1},
		})
	}

	out := BuildIssuesOutput(issues, fs, JSONOpts{Max: 2})
	if out.Count != 2 || len(out.Issues) != 2 {
		t.Fatalf("expected 2 issues after Max, got %d", out.Count)
	}
	if out.Warnings != 3 {
		t.Fatalf("totals must cover every issue, got %d warnings", out.Warnings)
	}
}
