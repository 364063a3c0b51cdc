package symbols

import (
	"testing"

	"ojc/internal/ast"
	"ojc/internal/source"
)

func TestRegistryKeepsIndexInLockstep(t *testing.T) {
	r := NewRegistry[int]()
	r.Add("CPView", 1)
	r.Add("CPWindow", 2)
	r.Add("CPView", 3)

	if r.Len() != 2 {
		t.Fatalf("want 2 entries, got %d", r.Len())
	}
	if v, ok := r.Get("CPView"); !ok || v != 3 {
		t.Fatalf("overwrite lost: %v %v", v, ok)
	}
	if got := r.Suggest("cpview"); got != "CPView" {
		t.Fatalf("suggest: %q", got)
	}
	if got := r.Suggest("CPVIEWS"); got != "" {
		t.Fatalf("unexpected suggestion %q", got)
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "CPView" || names[1] != "CPWindow" {
		t.Fatalf("order: %v", names)
	}
}

func TestRegistriesCategoryKey(t *testing.T) {
	regs := NewRegistries()
	base := NewClassDef(Decl{}, "Foo", "CPObject", "")
	cat := NewClassDef(Decl{}, "Foo", "", "Extras")
	regs.AddClassDef("Foo", base)
	regs.AddClassDef("Foo", cat)

	if regs.ClassDef("Foo") != base {
		t.Fatal("category replaced the base class")
	}
	if regs.ClassDef("Foo+Extras") != cat {
		t.Fatal("category not stored under the composite key")
	}
	if regs.ClassDef("Bar") != nil {
		t.Fatal("missing class must be nil")
	}
}

func TestFindMisspelledName(t *testing.T) {
	regs := NewRegistries()
	regs.AddClassDef("CPString", NewClassDef(Decl{}, "CPString", "", ""))
	regs.AddProtocolDef("CPCoding", NewProtocolDef(Decl{}, "CPCoding", nil))
	regs.AddTypeDef(&TypeDef{Name: "CGRect"})

	cases := map[string]string{
		"cpstring":  "CPString",
		"CPCODING":  "CPCoding",
		"cgrect":    "CGRect",
		"bool":      "BOOL",
		"cpinteger": "CPInteger",
		"nothing":   "",
	}
	for in, want := range cases {
		if got := regs.FindMisspelledName(in); got != want {
			t.Fatalf("%s: want %q, got %q", in, want, got)
		}
	}
}

func TestClassHierarchyLookups(t *testing.T) {
	regs := NewRegistries()
	root := NewClassDef(Decl{}, "Root", "", "")
	root.AddIvar(&Ivar{Name: "count", Type: "int"})
	root.AddInstanceMethod(NewMethodDef(Decl{}, "init", []string{"id"}))
	root.AddClassMethod(NewMethodDef(Decl{}, "alloc", []string{"id"}))
	child := NewClassDef(Decl{}, "Child", "Root", "")
	regs.AddClassDef("Root", root)
	regs.AddClassDef("Child", child)
	regs.AddClassDef("Orphan", NewClassDef(Decl{}, "Orphan", "Missing", ""))

	missing := regs.LinkSuperclasses()
	if len(missing) != 1 || missing[0] != "Orphan" {
		t.Fatalf("missing superclasses: %v", missing)
	}
	if child.Superclass != root {
		t.Fatal("superclass not linked")
	}
	if child.OwnInstanceMethod("init") != nil || child.InstanceMethod("init") == nil {
		t.Fatal("instance method lookup must walk the chain only when asked")
	}
	if child.ClassMethod("alloc") == nil {
		t.Fatal("class method lookup must walk the chain")
	}
	iv, owner := child.FindIvar("count")
	if iv == nil || owner != root {
		t.Fatalf("FindIvar: %v %v", iv, owner)
	}
	if child.Ivar("count") != nil {
		t.Fatal("Ivar must not walk the chain")
	}
}

func TestCyclicSuperclassChainTerminates(t *testing.T) {
	a := NewClassDef(Decl{}, "A", "B", "")
	b := NewClassDef(Decl{}, "B", "A", "")
	a.Superclass, b.Superclass = b, a
	if a.InstanceMethod("nope") != nil {
		t.Fatal("unexpected method")
	}
}

func TestUpgradeFromKeepsIdentity(t *testing.T) {
	fwd := NewForwardClassDef(Decl{Node: ast.ForwardClass("Foo")}, "Foo")
	ref := fwd
	full := NewClassDef(Decl{Node: ast.Class("Foo", "CPObject", nil)}, "Foo", "CPObject", "")
	full.AddIvar(&Ivar{Name: "x", Type: "int"})
	fwd.UpgradeFrom(full)

	if ref.Forward || ref.SuperclassName != "CPObject" || ref.Ivar("x") == nil {
		t.Fatalf("upgrade incomplete: %+v", ref)
	}
	if ref.Node.Kind() != ast.KindClassDeclaration {
		t.Fatalf("node not replaced: %v", ref.Node.Kind())
	}
}

func TestUnimplementedMethodsForProtocol(t *testing.T) {
	base := NewProtocolDef(Decl{}, "Base", nil)
	base.AddMethod(NewMethodDef(Decl{}, "baseWork", nil), false, true)
	p := NewProtocolDef(Decl{}, "Worker", []*ProtocolDef{base})
	p.AddMethod(NewMethodDef(Decl{}, "doWork", nil), false, true)
	p.AddMethod(NewMethodDef(Decl{}, "maybeWork", nil), false, false)
	p.AddMethod(NewMethodDef(Decl{}, "sharedWorker", nil), true, true)

	parent := NewClassDef(Decl{}, "Parent", "", "")
	parent.AddInstanceMethod(NewMethodDef(Decl{}, "baseWork", nil))
	c := NewClassDef(Decl{}, "C", "Parent", "")
	c.Superclass = parent

	got := c.UnimplementedMethodsForProtocol(p)
	if len(got) != 2 {
		t.Fatalf("want 2 missing methods, got %d: %+v", len(got), got)
	}
	if got[0].Method.Selector != "doWork" || got[0].Protocol != "Worker" || got[0].ClassMethod {
		t.Fatalf("first: %+v", got[0])
	}
	if got[1].Method.Selector != "sharedWorker" || !got[1].ClassMethod {
		t.Fatalf("second: %+v", got[1])
	}

	c.AddInstanceMethod(NewMethodDef(Decl{}, "doWork", nil))
	c.AddClassMethod(NewMethodDef(Decl{}, "sharedWorker", nil))
	if got := c.UnimplementedMethodsForProtocol(p); len(got) != 0 {
		t.Fatalf("still missing: %+v", got)
	}
}

func TestCategoryMethodsReachBase(t *testing.T) {
	base := NewClassDef(Decl{}, "Foo", "", "")
	cat := NewClassDef(Decl{}, "Foo", "", "Extras")
	cat.Base = base
	cat.AddInstanceMethod(NewMethodDef(Decl{}, "extra", nil))
	if base.OwnInstanceMethod("extra") == nil {
		t.Fatal("category method not visible on the base class")
	}
}

func TestSnapshotRestore(t *testing.T) {
	fs := source.NewFileSet()
	src := []byte("@implementation Foo : Bar\n@end\n")
	file := fs.Add("Foo.j", src, 0)

	regs := NewRegistries()
	bar := NewClassDef(Decl{File: file, Node: ast.At(ast.Ident("Bar"), 0, 3)}, "Bar", "", "")
	foo := NewClassDef(Decl{File: file, Node: ast.At(ast.Ident("Foo"), 26, 30)}, "Foo", "Bar", "")
	foo.AddIvar(&Ivar{
		Decl:      Decl{File: file, Node: ast.At(ast.Ident("ready"), 5, 10)},
		Name:      "ready",
		Type:      "BOOL",
		Accessors: &ast.Accessors{Readonly: true, Getter: ast.Ident("isReady")},
	})
	foo.AddInstanceMethod(NewMethodDef(Decl{File: file}, "isReady", []string{"BOOL"}))
	regs.AddClassDef("Bar", bar)
	regs.AddClassDef("Foo", foo)
	proto := NewProtocolDef(Decl{File: file}, "Doer", nil)
	proto.AddMethod(NewMethodDef(Decl{File: file}, "doIt", nil), false, true)
	regs.AddProtocolDef("Doer", proto)
	regs.AddTypeDef(&TypeDef{Name: "CGPoint"})

	snap := regs.Snapshot(fs)
	if len(snap.Files) != 1 {
		t.Fatalf("want 1 file, got %d", len(snap.Files))
	}

	fs2 := source.NewFileSet()
	restored := NewRegistries()
	restored.Restore(fs2, snap)

	rfoo := restored.ClassDef("Foo")
	if rfoo == nil || rfoo.Superclass != restored.ClassDef("Bar") {
		t.Fatalf("class not restored: %+v", rfoo)
	}
	iv := rfoo.Ivar("ready")
	if iv == nil || !iv.Readonly() || iv.Accessors.Getter.Name != "isReady" {
		t.Fatalf("ivar not restored: %+v", iv)
	}
	if rfoo.OwnInstanceMethod("isReady") == nil {
		t.Fatal("method not restored")
	}
	if p := restored.ProtocolDef("Doer"); p == nil || p.RequiredInstanceMethods.Get("doIt") == nil {
		t.Fatal("protocol not restored")
	}
	if restored.TypeDef("CGPoint") == nil {
		t.Fatal("typedef not restored")
	}
	span := rfoo.Span()
	if f := fs2.Get(span.File); f == nil || f.LineCol(span.Start).Line != 2 {
		t.Fatalf("restored span does not resolve: %+v", span)
	}
}
