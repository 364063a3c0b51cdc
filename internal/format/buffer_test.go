package format

import (
	"strings"
	"testing"

	"ojc/internal/ast"
	"ojc/internal/source"
)

func newTestBuffer() *Buffer {
	return NewBuffer(Options{IndentString: " ", IndentWidth: 4}, nil)
}

func TestWriteIndentsLines(t *testing.T) {
	b := newTestBuffer()
	b.Write("{")
	b.Newline()
	b.Indent()
	b.Write("a;\nb;\n")
	b.Dedent()
	b.Write("}")
	want := "{\n    a;\n    b;\n}"
	if got := b.String(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRemoveKeepsIndentation(t *testing.T) {
	b := newTestBuffer()
	b.Indent()
	self := b.Write("self.")
	b.Write("count = 1;")
	if !b.Remove(self) {
		t.Fatal("nothing removed")
	}
	if b.Remove(self) {
		t.Fatal("second removal must report false")
	}
	if got := b.String(); got != "    count = 1;" {
		t.Fatalf("got %q", got)
	}
	if b.Remove(0) || b.Remove(99) {
		t.Fatal("invalid ids must be ignored")
	}
}

func TestSoftAndBlankLines(t *testing.T) {
	b := newTestBuffer()
	b.BlankLine() // start of output: no-op
	b.Write("a;")
	b.Newline()
	b.Newline()
	b.BlankLine()
	b.BlankLine()
	b.Write("b;")
	if got := b.String(); got != "a;\n\nb;" {
		t.Fatalf("got %q", got)
	}
}

func TestForkAndAppendForwardsRemoval(t *testing.T) {
	b := newTestBuffer()
	b.Write("start\n")
	b.Indent()
	child := b.Fork()
	ref := child.Write("self.")
	child.Write("x;\n")
	b.Append(child)
	b.Dedent()
	b.Write("end")
	if got := b.String(); got != "start\n    self.x;\nend" {
		t.Fatalf("got %q", got)
	}
	if !child.Remove(ref) {
		t.Fatal("removal through the child failed")
	}
	if got := b.String(); got != "start\n    x;\nend" {
		t.Fatalf("got %q", got)
	}
}

func TestDescriptorHooks(t *testing.T) {
	d, err := Load("cappuccino")
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuffer(Options{}, d)
	b.Write("var a = 1;")
	b.Newline()
	b.Before(ast.KindFunctionDeclaration)
	b.Write("function f() {}")
	b.After(ast.KindFunctionDeclaration)
	b.Write("f();")
	if got := b.String(); got != "var a = 1;\n\nfunction f() {}\n\nf();" {
		t.Fatalf("got %q", got)
	}

	id, err := Load("identity")
	if err != nil {
		t.Fatal(err)
	}
	if r := id.Rule(ast.KindFunctionDeclaration); len(r.Before)+len(r.After) != 0 {
		t.Fatal("identity format must not add layout")
	}
}

func TestParseRejectsBadDescriptors(t *testing.T) {
	bad := []string{
		"rules: {}",
		"name: x\nrules:\n  NoSuchNode:\n    before: [newline]\n",
		"name: x\nrules:\n  Program:\n    before: [tab]\n",
		"name: x\nrules:\n  Statement:\n    before: [newline]\n",
		"name: [",
	}
	for _, src := range bad {
		if _, err := Parse([]byte(src)); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
	if _, err := Load("no-such-format"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if names := Builtin(); strings.Join(names, ",") != "cappuccino,identity" {
		t.Fatalf("built-in formats: %v", names)
	}
}

func TestMappingsAndSourceMap(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("a.j", []byte("x = 1;\ny = 2;\n"), 0)
	src := fs.Get(id)

	b := newTestBuffer()
	b.Mark(0)
	b.Write("x = 1;\n")
	b.Indent()
	b.Mark(7)
	b.Write("y = 2;\n")

	ms := b.Mappings()
	if len(ms) != 2 {
		t.Fatalf("want 2 mappings, got %v", ms)
	}
	if ms[1] != (Mapping{GenLine: 1, GenCol: 4, Src: 7}) {
		t.Fatalf("second mapping: %+v", ms[1])
	}

	data, err := b.SourceMap(src, SourceMapOptions{File: "a.oj", SourcePath: "a.j"})
	if err != nil {
		t.Fatal(err)
	}
	// line 0: col 0 → src 0:0; line 1: col 4 → src 1:0
	if !strings.Contains(string(data), `"mappings":"AAAA;IACA"`) {
		t.Fatalf("unexpected source map %s", data)
	}
}

func TestVLQ(t *testing.T) {
	cases := map[int]string{0: "A", 1: "C", -1: "D", 15: "e", 16: "gB", -17: "jB"}
	for v, want := range cases {
		var sb strings.Builder
		writeVLQ(&sb, v)
		if sb.String() != want {
			t.Fatalf("%d: want %s, got %s", v, want, sb.String())
		}
	}
}
