package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSet_AddAndResolve(t *testing.T) {
	fs := NewFileSet()
	src := "@implementation Foo\n{\n    int x;\n}\n@end\n"
	id := fs.AddVirtual("Foo.j", []byte(src))

	f := fs.Get(id)
	if f == nil || f.Path != "Foo.j" {
		t.Fatalf("unexpected file: %+v", f)
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}

	// "int" starts on line 3, column 5
	off := uint32(len("@implementation Foo\n{\n    "))
	start, end := fs.Resolve(Span{File: id, Start: off, End: off + 3})
	if start != (LineCol{Line: 3, Col: 5}) {
		t.Fatalf("start = %+v", start)
	}
	if end != (LineCol{Line: 3, Col: 8}) {
		t.Fatalf("end = %+v", end)
	}
	if got := f.GetLine(3); got != "    int x;" {
		t.Fatalf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(42); got != "" {
		t.Fatalf("GetLine(42) = %q", got)
	}
}

func TestFileSet_FirstLineAndNoNewlines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("one.j", []byte("x = 1"))
	if got := fs.Get(id).LineCol(4); got != (LineCol{Line: 1, Col: 5}) {
		t.Fatalf("LineCol = %+v", got)
	}
	if got := fs.Get(id).GetLine(1); got != "x = 1" {
		t.Fatalf("GetLine(1) = %q", got)
	}
}

func TestFileSet_LatestWins(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a/b.j", []byte("1"))
	second := fs.AddVirtual("a/./b.j", []byte("2"))
	if first == second {
		t.Fatalf("expected distinct ids")
	}
	got, ok := fs.GetLatest("a/b.j")
	if !ok || got != second {
		t.Fatalf("GetLatest = %v, %v; want %v", got, ok, second)
	}
	if fs.Len() != 2 {
		t.Fatalf("Len = %d", fs.Len())
	}
	if fs.Get(FileID(99)) != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

func TestFileSet_LoadNormalization(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.j")
	raw := []byte("\xEF\xBB\xBFa\r\nb\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	exact, err := fs.Load(path, false)
	if err != nil {
		t.Fatalf("Load exact: %v", err)
	}
	if string(fs.Get(exact).Content) != string(raw) {
		t.Fatalf("exact load must keep bytes")
	}

	norm, err := fs.Load(path, true)
	if err != nil {
		t.Fatalf("Load normalized: %v", err)
	}
	f := fs.Get(norm)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("normalized content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}

func TestLineColTable(t *testing.T) {
	fs := NewFileSet()
	src := "ab\ncdef\n\nxyz"
	f := fs.Get(fs.AddVirtual("t.j", []byte(src)))
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // '\n' closes line 1
		{3, LineCol{Line: 2, Col: 1}}, // start of a line
		{5, LineCol{Line: 2, Col: 3}}, // middle of a line
		{8, LineCol{Line: 3, Col: 1}}, // empty line
		{9, LineCol{Line: 4, Col: 1}},
		{11, LineCol{Line: 4, Col: 3}},
		{12, LineCol{Line: 4, Col: 4}}, // end of file
	}
	for _, tt := range tests {
		if got := f.LineCol(tt.off); got != tt.want {
			t.Errorf("LineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}
