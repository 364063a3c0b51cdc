package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ojc/internal/ast"
	"ojc/internal/codegen"
	"ojc/internal/compiler"
	"ojc/internal/diag"
	"ojc/internal/scope"
	"ojc/internal/source"
	"ojc/internal/symbols"
)

func compile(t *testing.T, prog *ast.Program, tweak func(*compiler.Options)) *compiler.Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.j", []byte("// generated by test\n"))
	opts := compiler.DefaultOptions()
	if tweak != nil {
		tweak(&opts)
	}
	res, err := compiler.Compile(fs, compiler.Input{File: id, Program: prog}, nil, opts, codegen.Rules())
	require.NoError(t, err)
	return res
}

func issuesWith(res *compiler.Result, code diag.Code) []*diag.Issue {
	var out []*diag.Issue
	for _, is := range res.Issues {
		if is.Code == code {
			out = append(out, is)
		}
	}
	return out
}

func classDef(t *testing.T, res *compiler.Result, name string) *symbols.ClassDef {
	t.Helper()
	def, ok := res.ClassDefs.Get(name)
	require.True(t, ok, "class %s not registered", name)
	return def
}

func withIdentity(o *compiler.Options) { o.Format = "identity" }

func TestVarDeclarationList(t *testing.T) {
	res := compile(t, ast.Prog(ast.Var(ast.Decl("a", ast.Num(1)), ast.Decl("b", ast.Num(2)))), nil)
	require.Empty(t, res.Issues)
	require.Equal(t, "var a = 1, b = 2;\n", res.Code)
}

func TestFunctionLayout(t *testing.T) {
	prog := ast.Prog(
		ast.Var(ast.Decl("a", ast.Num(1))),
		ast.Func("f", []string{"x"}, ast.Return(ast.Ident("x"))),
	)
	res := compile(t, prog, nil)
	require.Equal(t, "var a = 1;\n\nfunction f(x)\n{\n    return x;\n}\n", res.Code)

	res = compile(t, prog, withIdentity)
	require.Equal(t, "var a = 1;\nfunction f(x)\n{\n    return x;\n}\n", res.Code)
}

func TestPrecedenceParens(t *testing.T) {
	a, b, c := ast.Ident("a"), ast.Ident("b"), ast.Ident("c")
	cases := []struct {
		name string
		expr ast.Node
		want string
	}{
		{"lower on left", ast.Binary("*", ast.Binary("+", a, b), c), "(a + b) * c;\n"},
		{"left assoc", ast.Binary("-", ast.Binary("-", a, b), c), "a - b - c;\n"},
		{"equal on right", ast.Binary("-", a, ast.Binary("-", b, c)), "a - (b - c);\n"},
		{"number member", ast.Call(ast.Member(ast.Num(1), "toString")), "(1).toString();\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := compile(t, ast.Prog(ast.ExprStmt(tc.expr)), withIdentity)
			require.Equal(t, tc.want, res.Code)
		})
	}
}

func TestSequenceInitializerIsWrapped(t *testing.T) {
	res := compile(t, ast.Prog(ast.Var(ast.Decl("a", ast.Seq(ast.Num(1), ast.Num(2))))), withIdentity)
	require.Equal(t, "var a = (1, 2);\n", res.Code)
}

func TestImplicitGlobalInFunction(t *testing.T) {
	prog := ast.Prog(ast.Func("f", nil, ast.ExprStmt(ast.Assign(ast.Ident("x"), ast.Num(1)))))
	res := compile(t, prog, nil)
	got := issuesWith(res, diag.SemImplicitGlobal)
	require.Len(t, got, 1)
	require.Equal(t, "implicitly creating the global variable 'x' in the function 'f'; did you mean to use 'var x'?", got[0].Message)
	require.True(t, got[0].IsWarning())
}

func TestImplicitGlobalFilteredByLaterVar(t *testing.T) {
	prog := ast.Prog(ast.Func("f", nil,
		ast.ExprStmt(ast.Assign(ast.Ident("x"), ast.Num(1))),
		ast.Var(ast.Decl("x", nil)),
	))
	res := compile(t, prog, nil)
	require.Empty(t, res.Issues)
}

func TestImplicitGlobalSuggestsComma(t *testing.T) {
	prog := ast.Prog(ast.Func("f", nil,
		ast.Var(ast.Decl("a", ast.Num(1))),
		ast.ExprStmt(ast.Assign(ast.Ident("c"), ast.Num(3))),
	))
	res := compile(t, prog, nil)
	got := issuesWith(res, diag.SemImplicitGlobal)
	require.Len(t, got, 1)
	require.Equal(t, "implicitly creating the global variable 'c' in the function 'f'", got[0].Message)
	require.Len(t, got[0].Notes, 1)
	require.Equal(t, "did you mean to use a comma here?", got[0].Notes[0].Msg)
}

func TestImplicitGlobalWarningCanBeDisabled(t *testing.T) {
	prog := ast.Prog(ast.Func("f", nil, ast.ExprStmt(ast.Assign(ast.Ident("x"), ast.Num(1)))))
	res := compile(t, prog, func(o *compiler.Options) {
		o.Warnings = diag.DefaultWarnings()
		o.Warnings[diag.CatImplicitGlobals] = false
	})
	require.Empty(t, res.Issues)
}

func TestParameterShadowsFileVar(t *testing.T) {
	prog := ast.Prog(
		ast.Var(ast.Decl("x", nil)),
		ast.Func("f", []string{"x"}),
	)
	res := compile(t, prog, nil)
	got := issuesWith(res, diag.SemShadowedVar)
	require.Len(t, got, 1)
	require.Equal(t, "function parameter 'x' hides a file variable", got[0].Message)
	require.Len(t, got[0].Notes, 1)
	require.Equal(t, "hidden declaration is here", got[0].Notes[0].Msg)
}

func TestDebuggerStatement(t *testing.T) {
	prog := ast.Prog(&ast.DebuggerStatement{})
	res := compile(t, prog, nil)
	require.Equal(t, "debugger;\n", res.Code)
	require.Len(t, issuesWith(res, diag.SemDebugger), 1)

	res = compile(t, prog, func(o *compiler.Options) { o.IgnoreWarnings = true })
	require.Empty(t, res.Issues)
}

func TestIssuesRecordScope(t *testing.T) {
	prog := ast.Prog(&ast.DebuggerStatement{}, ast.Func("f", nil, &ast.DebuggerStatement{}))
	got := issuesWith(compile(t, prog, nil), diag.SemDebugger)
	require.Len(t, got, 2)

	top, ok := got[0].Scope.(*scope.Scope)
	require.True(t, ok, "file-level issue has no scope: %#v", got[0].Scope)
	require.Nil(t, top.Parent)

	inner, ok := got[1].Scope.(*scope.Scope)
	require.True(t, ok, "issue inside f has no scope: %#v", got[1].Scope)
	require.Equal(t, "f", inner.CurrentFunctionName())
	require.False(t, got[1].Filterable)
}

func TestEmptyClass(t *testing.T) {
	res := compile(t, ast.Prog(ast.Class("Foo", "", nil)), nil)
	require.Empty(t, res.Issues)
	want := "{\n" +
		"    var the_class = objj_allocateClassPair(Nil, \"Foo\"),\n" +
		"    meta_class = the_class.isa;\n" +
		"    objj_registerClassPair(the_class);\n" +
		"}\n"
	require.Equal(t, want, res.Code)
	classDef(t, res, "Foo")
}

func TestIvarReferenceGetsSelf(t *testing.T) {
	class := ast.Class("Counter", "", []*ast.IvarDeclaration{ast.Ivar("int", "count", nil)},
		ast.Method("-", "int", "value", nil, ast.Return(ast.Ident("count"))),
	)
	res := compile(t, ast.Prog(class), nil)
	require.Empty(t, res.Issues)
	require.Contains(t, res.Code, "return self.count;")
	require.Contains(t, res.Code, `class_addIvars(the_class, [new objj_ivar("count", "int")]);`)
	require.Contains(t, res.Code, "function $Counter__value(self, _cmd)")
}

func TestLocalHidesIvarRetractsSelf(t *testing.T) {
	class := ast.Class("Counter", "", []*ast.IvarDeclaration{ast.Ivar("int", "count", nil)},
		ast.Method("-", "void", "reset", nil,
			ast.ExprStmt(ast.Assign(ast.Ident("count"), ast.Num(0))),
			ast.Var(ast.Decl("count", nil)),
		),
	)
	res := compile(t, ast.Prog(class), nil)
	require.NotContains(t, res.Code, "self.count")
	require.Contains(t, res.Code, "count = 0;")

	retracted := issuesWith(res, diag.SemLocalHidesIvar)
	require.Len(t, retracted, 1)
	require.Equal(t, "reference to local variable 'count' hides an instance variable", retracted[0].Message)

	shadowed := issuesWith(res, diag.SemShadowedVar)
	require.Len(t, shadowed, 1)
	require.Equal(t, "local declaration of 'count' hides an instance variable", shadowed[0].Message)
}

func TestNestedFunctionLocalHidesIvar(t *testing.T) {
	class := ast.Class("Counter", "", []*ast.IvarDeclaration{ast.Ivar("int", "count", nil)},
		ast.Method("-", "void", "run", nil,
			ast.ExprStmt(ast.Assign(ast.Ident("count"), ast.Num(1))),
			ast.Func("f", nil, ast.Var(ast.Decl("count", nil))),
			ast.Func("g", nil,
				ast.ExprStmt(ast.Assign(ast.Ident("count"), ast.Num(2))),
				ast.Var(ast.Decl("count", nil)),
			),
		),
	)
	res := compile(t, ast.Prog(class), nil)

	shadowed := issuesWith(res, diag.SemShadowedVar)
	require.Len(t, shadowed, 2)
	for _, is := range shadowed {
		require.Equal(t, "local declaration of 'count' hides an instance variable", is.Message)
	}

	// only the reference inside g belongs to g's local
	require.Contains(t, res.Code, "self.count = 1;")
	require.Contains(t, res.Code, "count = 2;")
	require.NotContains(t, res.Code, "self.count = 2;")
	require.Len(t, issuesWith(res, diag.SemLocalHidesIvar), 1)
}

func TestImplicitGlobalInMethod(t *testing.T) {
	class := ast.Class("Foo", "", nil,
		ast.Method("-", "void", "go", nil, ast.ExprStmt(ast.Assign(ast.Ident("total"), ast.Num(1)))),
	)
	res := compile(t, ast.Prog(class), nil)
	got := issuesWith(res, diag.SemImplicitGlobal)
	require.Len(t, got, 1)
	require.Equal(t, "implicitly creating the global variable 'total' in the method 'go'; did you mean to use 'var total'?", got[0].Message)
}

func TestAccessorsGenerateGetterAndSetter(t *testing.T) {
	class := ast.Class("Person", "", []*ast.IvarDeclaration{
		ast.Ivar("CPString", "title", &ast.Accessors{}),
	})
	res := compile(t, ast.Prog(class), nil)
	require.Empty(t, res.Issues)
	require.Contains(t, res.Code, `new objj_method(sel_getUid("title"),`)
	require.Contains(t, res.Code, "function $Person__title(self, _cmd)")
	require.Contains(t, res.Code, "return self.title;")
	require.Contains(t, res.Code, "function $Person__setTitle_(self, _cmd, newValue)")
	require.Contains(t, res.Code, "self.title = newValue;")
	require.Contains(t, res.Code, `["void", "CPString"]`)

	def := classDef(t, res, "Person")
	require.NotNil(t, def.InstanceMethod("title"))
	require.NotNil(t, def.InstanceMethod("setTitle:"))
}

func TestCopyAccessor(t *testing.T) {
	class := ast.Class("Person", "", []*ast.IvarDeclaration{
		ast.Ivar("CPString", "title", &ast.Accessors{Copy: true}),
	})
	res := compile(t, ast.Prog(class), nil)
	require.Contains(t, res.Code, "if (self.title !== newValue)")
	require.Contains(t, res.Code, "/* title = [newValue copy] */")
}

func TestExplicitGetterSuppressesAccessor(t *testing.T) {
	class := ast.Class("Person", "", []*ast.IvarDeclaration{
		ast.Ivar("CPString", "title", &ast.Accessors{}),
	},
		ast.Method("-", "CPString", "title", nil, ast.Return(ast.Ident("title"))),
	)
	res := compile(t, ast.Prog(class), nil)
	require.Equal(t, 1, strings.Count(res.Code, `sel_getUid("title")`))
	require.Equal(t, 1, strings.Count(res.Code, `sel_getUid("setTitle:")`))
}

func TestReadonlyAccessors(t *testing.T) {
	class := ast.Class("Task", "", []*ast.IvarDeclaration{
		ast.Ivar("BOOL", "ready", &ast.Accessors{Readonly: true, Getter: ast.Ident("isReady")}),
	})
	res := compile(t, ast.Prog(class), nil)
	require.Empty(t, res.Issues)
	require.Contains(t, res.Code, `sel_getUid("isReady")`)
	require.NotContains(t, res.Code, `sel_getUid("setReady:")`)
}

func TestReadonlyWithSetterIsError(t *testing.T) {
	class := ast.Class("Task", "", []*ast.IvarDeclaration{
		ast.Ivar("BOOL", "ready", &ast.Accessors{Readonly: true, Setter: ast.Ident("setReady")}),
	})
	res := compile(t, ast.Prog(class), nil)
	got := issuesWith(res, diag.SemReadonlySetter)
	require.Len(t, got, 1)
	require.True(t, got[0].IsError())
	require.NotContains(t, res.Code, `sel_getUid("setReady:")`)
}

func TestSetterConflictWithReadonlyIvar(t *testing.T) {
	class := ast.Class("Task", "", []*ast.IvarDeclaration{
		ast.Ivar("int", "count", &ast.Accessors{Readonly: true}),
	},
		ast.Method("-", "void", "setCount:", []*ast.MethodParam{ast.Param("int", "aCount")}),
	)
	res := compile(t, ast.Prog(class), nil)
	got := issuesWith(res, diag.SemSetterConflict)
	require.Len(t, got, 1)
	require.Equal(t, "setter method 'setCount:' cannot be defined for the readonly ivar 'count'", got[0].Message)
}

func runnerProtocol() *ast.ProtocolDeclaration {
	return ast.Protocol("Runner", []*ast.MethodDeclaration{
		ast.Prototype("-", "void", "doWork"),
		ast.Prototype("-", "void", "stop"),
	}, nil)
}

func TestProtocolDeclaration(t *testing.T) {
	res := compile(t, ast.Prog(runnerProtocol()), withIdentity)
	require.Empty(t, res.Issues)
	require.Contains(t, res.Code, `var the_protocol = objj_allocateProtocol("Runner");`)
	require.Contains(t, res.Code, `protocol_addMethodDescriptions(the_protocol, [new objj_method(sel_getUid("doWork"), Nil, ["void"]), new objj_method(sel_getUid("stop"), Nil, ["void"])], true, true);`)
	_, ok := res.ProtocolDefs.Get("Runner")
	require.True(t, ok)
}

func TestProtocolConformance(t *testing.T) {
	class := ast.Class("Robot", "", nil, ast.Method("-", "void", "stop", nil))
	class.Protocols = []*ast.Identifier{ast.Ident("Runner")}
	res := compile(t, ast.Prog(runnerProtocol(), class), nil)
	got := issuesWith(res, diag.SemUnimplementedMethod)
	require.Len(t, got, 1)
	require.Equal(t, "method 'doWork' in protocol 'Runner' not implemented", got[0].Message)
	require.Len(t, got[0].Notes, 1)
	require.Equal(t, "method 'doWork' declared here", got[0].Notes[0].Msg)
}

func TestUnknownProtocolSuggestion(t *testing.T) {
	class := ast.Class("Robot", "", nil)
	class.Protocols = []*ast.Identifier{ast.Ident("runner")}
	res := compile(t, ast.Prog(runnerProtocol(), class), nil)
	got := issuesWith(res, diag.SemUnknownProtocol)
	require.Len(t, got, 1)
	require.True(t, got[0].IsError())
	require.Equal(t, "cannot find protocol declaration for 'runner'; did you mean 'Runner'?", got[0].Message)
}

func TestProtocolNamedAfterPredefinedGlobal(t *testing.T) {
	proto := ast.Protocol("Worker", []*ast.MethodDeclaration{ast.Prototype("-", "void", "doWork")}, nil)
	res := compile(t, ast.Prog(proto), nil)
	got := issuesWith(res, diag.SemSymbolRedefined)
	require.Len(t, got, 1)
	require.True(t, got[0].IsError())
	require.Equal(t, "'Worker' is a predefined global", got[0].Message)
	_, ok := res.ProtocolDefs.Get("Worker")
	require.False(t, ok)
}

func TestClassAndProtocolShareName(t *testing.T) {
	class := func() ast.Node { return ast.Class("Runner", "", nil, ast.Method("-", "void", "doWork", nil)) }
	proto := func() ast.Node { return runnerProtocol() }
	cases := []struct {
		name  string
		nodes []ast.Node
	}{
		{"class first", []ast.Node{class(), proto()}},
		{"protocol first", []ast.Node{proto(), class()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := compile(t, ast.Prog(tc.nodes...), nil)
			require.Empty(t, issuesWith(res, diag.SemDuplicateDefinition))
			require.Empty(t, issuesWith(res, diag.SemSymbolRedefined))
			require.Empty(t, issuesWith(res, diag.SemDuplicateIgnored))
			_, ok := res.ProtocolDefs.Get("Runner")
			require.True(t, ok)
			classDef(t, res, "Runner")
		})
	}
}

func TestDuplicateClass(t *testing.T) {
	res := compile(t, ast.Prog(ast.Class("A", "", nil), ast.Class("A", "", nil)), nil)
	got := issuesWith(res, diag.SemDuplicateDefinition)
	require.Len(t, got, 1)
	require.Equal(t, "duplicate definition of class 'A'", got[0].Message)
	require.Equal(t, "previous definition is here", got[0].Notes[0].Msg)
}

func TestUnnecessaryForwardClass(t *testing.T) {
	res := compile(t, ast.Prog(ast.ForwardClass("A"), ast.Class("A", "", nil)), nil)
	got := issuesWith(res, diag.SemUnnecessaryForward)
	require.Len(t, got, 1)
	require.Equal(t, "@class definition 'A' is unnecessary", got[0].Message)
	require.Equal(t, "superceded by this definition", got[0].Notes[0].Msg)
	def := classDef(t, res, "A")
	require.False(t, def.Forward)
}

func TestCategoryPolicy(t *testing.T) {
	prog := ast.Prog(ast.Category("Foo", "Extras"))
	res := compile(t, prog, nil)
	require.Len(t, issuesWith(res, diag.SemMissingBaseClass), 1)

	res = compile(t, prog, func(o *compiler.Options) { o.CategoryPolicy = compiler.AllowMissingBase })
	require.Empty(t, res.Issues)
	require.Contains(t, res.Code, `var the_class = objj_getClass("Foo");`)
}

func TestCategoryMethodsReachBaseClass(t *testing.T) {
	prog := ast.Prog(
		ast.Class("Foo", "", nil),
		ast.Category("Foo", "Extras", ast.Method("-", "void", "extra", nil)),
	)
	res := compile(t, prog, nil)
	require.Empty(t, res.Issues)
	require.NotNil(t, classDef(t, res, "Foo").InstanceMethod("extra"))
}

func TestErrorCeilingAborts(t *testing.T) {
	prog := ast.Prog(
		ast.Class("A", "", nil),
		ast.Class("A", "", nil),
		ast.Class("A", "", nil),
		ast.Class("B", "", nil),
	)
	res := compile(t, prog, func(o *compiler.Options) { o.MaxErrors = 1 })
	require.True(t, res.Aborted)
	require.Equal(t, 2, res.ErrorCount())
	require.Contains(t, res.Code, `objj_allocateClassPair(Nil, "A")`)
	require.NotContains(t, res.Code, `"B"`)
}

func TestMessageSends(t *testing.T) {
	prog := ast.Prog(ast.ExprStmt(ast.Send(ast.Ident("foo"), "bar:baz:", ast.Num(1), ast.Num(2))))
	res := compile(t, prog, nil)
	require.Equal(t, "objj_msgSend(foo, \"bar:baz:\", 1, 2);\n", res.Code)

	class := ast.Class("Foo", "CPObject", nil,
		ast.Method("-", "id", "init", nil, ast.Return(ast.SuperSend("init"))),
		ast.Method("+", "id", "make", nil, ast.Return(ast.SuperSend("new"))),
	)
	res = compile(t, ast.Prog(class), nil)
	require.Contains(t, res.Code, `objj_msgSendSuper({ receiver:self, super_class:objj_getClass("Foo").super_class }, "init")`)
	require.Contains(t, res.Code, `objj_msgSendSuper({ receiver:self, super_class:objj_getMetaClass("Foo").super_class }, "new")`)
	require.Contains(t, res.Code, "class_addMethods(meta_class, [")
	require.Len(t, res.SuperclassRefs, 1)
}

func TestUnknownReceiverSuggestion(t *testing.T) {
	prog := ast.Prog(
		ast.Class("CPString", "", nil),
		ast.ExprStmt(ast.Send(ast.Ident("CPstring"), "alloc")),
	)
	res := compile(t, prog, func(o *compiler.Options) {
		o.Warnings = diag.DefaultWarnings()
		o.Warnings[diag.CatUnknownIdentifiers] = true
	})
	got := issuesWith(res, diag.SemUnknownIdentifier)
	require.Len(t, got, 1)
	require.Equal(t, "reference to unknown identifier 'CPstring'; did you mean 'CPString'?", got[0].Message)
}

func TestLiteralsAndDirectives(t *testing.T) {
	prog := ast.Prog(
		&ast.ImportStatement{Filename: "Foundation/Foundation.j"},
		ast.ExprStmt(&ast.ArrayLiteral{Elements: []ast.Node{ast.Num(1), ast.Num(2)}}),
		ast.ExprStmt(&ast.SelectorLiteral{Selector: "foo:"}),
		ast.TypeDef("CGFloat"),
	)
	res := compile(t, prog, withIdentity)
	require.Empty(t, res.Issues)
	require.Contains(t, res.Code, `objj_executeFile("Foundation/Foundation.j", NO);`)
	require.Contains(t, res.Code, `objj_msgSend(objj_msgSend(CPArray, "alloc"), "initWithObjects:count:", [1, 2], 2);`)
	require.Contains(t, res.Code, `sel_getUid("foo:");`)
	require.Contains(t, res.Code, `objj_allocateTypeDef("CGFloat")`)
	require.Len(t, res.Dependencies, 1)
	_, ok := res.TypeDefs.Get("CGFloat")
	require.True(t, ok)
}

func TestSourceMapTrailer(t *testing.T) {
	res := compile(t, ast.Prog(ast.Var(ast.Decl("a", ast.Num(1)))), func(o *compiler.Options) { o.SourceMap = true })
	require.True(t, strings.HasSuffix(res.Code, "//# sourceMappingURL=main.oj.map\n"))
	require.Contains(t, string(res.SourceMap), `"version":3`)
	require.Contains(t, string(res.SourceMap), `"file":"main.oj"`)
}

func TestCustomRule(t *testing.T) {
	rules := codegen.Rules()
	rules[ast.KindDebuggerStatement] = func(c *compiler.Compiler, _ ast.Node, _ *scope.Scope) error {
		c.Buffer().Write("/* debugger */")
		return nil
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.j", nil)
	res, err := compiler.Compile(fs, compiler.Input{File: id, Program: ast.Prog(&ast.DebuggerStatement{})}, nil, compiler.DefaultOptions(), rules)
	require.NoError(t, err)
	require.Empty(t, res.Issues)
	require.Equal(t, "/* debugger */\n", res.Code)

	// the package table is untouched
	res = compile(t, ast.Prog(&ast.DebuggerStatement{}), nil)
	require.Equal(t, "debugger;\n", res.Code)
}

func TestParseErrorBecomesIssue(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("broken.j", []byte("var = ;"))
	in := compiler.Input{File: id, ParseError: &ast.ParseError{Message: "Unexpected token", Pos: 4}}
	res, err := compiler.Compile(fs, in, nil, compiler.DefaultOptions(), codegen.Rules())
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	require.Equal(t, diag.InpParseError, res.Issues[0].Code)
	require.Equal(t, "Unexpected token", res.Issues[0].Message)
	require.IsType(t, (*scope.Scope)(nil), res.Issues[0].Scope)
	require.Empty(t, res.Code)
}
