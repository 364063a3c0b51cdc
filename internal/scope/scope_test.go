package scope

import (
	"testing"

	"ojc/internal/ast"
	"ojc/internal/format"
	"ojc/internal/symbols"
)

func TestResolutionWalksOutward(t *testing.T) {
	root := NewGlobal()
	fn := New(KindFunction, root)
	block := New(KindBlock, fn)

	root.Declare("g", &Binding{Kind: GlobalVar})
	fn.Declare("p", &Binding{Kind: FunctionParam})

	if b := block.Var("g"); b == nil || b.Kind != GlobalVar {
		t.Fatalf("global not visible: %+v", b)
	}
	if b := block.Var("p"); b == nil || b.Scope != fn {
		t.Fatalf("param not visible or wrong owner: %+v", b)
	}
	if block.Var("nope") != nil {
		t.Fatal("unknown name resolved")
	}
	if root.Var("p") != nil {
		t.Fatal("child binding leaked to the parent")
	}
	if block.GlobalVar("p") != nil || block.GlobalVar("g") == nil {
		t.Fatal("GlobalVar must look only at the root")
	}
	if block.Root() != root || block.VarScope() != fn || root.VarScope() != root {
		t.Fatal("root/var scope lookup wrong")
	}
}

func TestImplicitGlobalRecordsOriginScope(t *testing.T) {
	root := NewGlobal()
	fn := New(KindFunction, root)
	fn.DeclareGlobal("leak", &Binding{Kind: ImplicitGlobal})

	b := root.Own("leak")
	if b == nil || b.Scope != fn {
		t.Fatalf("implicit global not recorded with its scope: %+v", b)
	}
	fn.DeleteGlobal("leak")
	if fn.Var("leak") != nil {
		t.Fatal("global not deleted")
	}
}

func TestLocalVarScopes(t *testing.T) {
	root := NewGlobal()
	class := New(KindClass, root)
	method := New(KindMethod, class)
	fn := New(KindFunction, method)
	catch := New(KindBlock, fn)

	for _, s := range []*Scope{method, fn} {
		if !s.IsLocalVarScope() {
			t.Fatalf("%s should be a local var scope", s.Kind)
		}
	}
	for _, s := range []*Scope{root, class, catch} {
		if s.IsLocalVarScope() {
			t.Fatalf("%s should not be a local var scope", s.Kind)
		}
	}
}

func TestMethodContext(t *testing.T) {
	root := NewGlobal()
	cd := symbols.NewClassDef(symbols.Decl{}, "Foo", "", "")
	class := New(KindClass, root)
	class.Class = cd
	method := New(KindMethod, class)
	method.MethodType = "-"
	method.Selector = "bump:"
	inner := New(KindFunction, method)
	inner.FunctionName = "helper"

	if inner.ClassDef() != cd || inner.MethodScope() != method {
		t.Fatal("class/method lookup wrong")
	}
	if !inner.InInstanceMethod() || inner.CurrentSelector() != "bump:" {
		t.Fatal("method context lost in nested function")
	}
	if inner.CurrentFunctionName() != "helper" || method.CurrentFunctionName() != "" {
		t.Fatal("function name lookup wrong")
	}
	if root.ClassDef() != nil || root.MethodScope() != nil {
		t.Fatal("root has no class")
	}
}

func TestIvarRefs(t *testing.T) {
	s := New(KindMethod, NewGlobal())
	buf := format.NewBuffer(format.Options{}, nil)
	id := buf.Write("self.")
	s.AddIvarRef("count", IvarRef{Node: ast.Ident("count"), Buf: buf, Span: id})
	s.AddIvarRef("count", IvarRef{Node: ast.Ident("count"), Buf: buf})

	if got := len(s.IvarRefs("count")); got != 2 {
		t.Fatalf("want 2 refs, got %d", got)
	}
	kept := s.IvarRefs("count")[1:]
	s.KeepIvarRefs("count", kept)
	if got := len(s.IvarRefs("count")); got != 1 {
		t.Fatalf("want 1 ref kept, got %d", got)
	}
	s.KeepIvarRefs("count", nil)
	if s.IvarRefs("count") != nil {
		t.Fatal("refs not dropped")
	}

	fn := New(KindFunction, New(KindBlock, s))
	if !s.Encloses(fn) || !s.Encloses(s) || fn.Encloses(s) || s.Encloses(nil) {
		t.Fatal("Encloses wrong")
	}
}

func TestBindingDescriptions(t *testing.T) {
	cases := map[BindingKind]string{
		GlobalVar:      "a global",
		AtGlobal:       "a global",
		ImplicitGlobal: "an implicitly declared global",
		LocalVar:       "a variable in a containing closure",
		FunctionParam:  "a function parameter",
		MethodParam:    "a method parameter",
		FileVar:        "a file variable",
	}
	for k, want := range cases {
		if got := k.Description(); got != want {
			t.Fatalf("%s: want %q, got %q", k, want, got)
		}
	}
}
