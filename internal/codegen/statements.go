package codegen

import (
	"ojc/internal/ast"
	"ojc/internal/compiler"
	"ojc/internal/diag"
	"ojc/internal/scope"
)

func emptyStatement(c *compiler.Compiler, _ ast.Node, _ *scope.Scope) error {
	c.Buffer().Write(";")
	return nil
}

func blockStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	block := n.(*ast.BlockStatement)
	b := c.Buffer()
	b.Write("{")
	b.Newline()
	b.Indent()
	err := statements(c, block.Body, s)
	writeComments(c, block.End)
	b = c.Buffer()
	b.Dedent()
	b.Newline()
	b.Write("}")
	return err
}

// body compiles the body of a control statement: blocks go on the next
// line, single statements are indented under the header.
func body(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	b := c.Buffer()
	b.Newline()
	if n.Kind() == ast.KindBlockStatement {
		return c.CompileNode(n, s)
	}
	b.Indent()
	err := c.CompileNodeAs(n, s, ast.KindStatement)
	b.Dedent()
	return err
}

func expressionStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.ExpressionStatement)
	wrap := false
	switch stmt.Expression.Kind() {
	case ast.KindFunctionExpression, ast.KindObjectExpression:
		wrap = true
	}
	if err := compileWrapped(c, stmt.Expression, s, wrap); err != nil {
		return err
	}
	c.Buffer().Write(";")
	return nil
}

func ifStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.IfStatement)
	b := c.Buffer()
	b.Write("if (")
	if err := c.CompileNode(stmt.Test, s); err != nil {
		return err
	}
	b.Write(")")
	if err := body(c, stmt.Consequent, s); err != nil {
		return err
	}
	if stmt.Alternate == nil {
		return nil
	}
	b.Newline()
	b.Write("else")
	if stmt.Alternate.Kind() == ast.KindIfStatement {
		b.Write(" ")
		return c.CompileNode(stmt.Alternate, s)
	}
	return body(c, stmt.Alternate, s)
}

func labeledStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.LabeledStatement)
	b := c.Buffer()
	b.Write(stmt.Label.Name + ":")
	b.Newline()
	return c.CompileNodeAs(stmt.Body, s, ast.KindStatement)
}

func jump(c *compiler.Compiler, keyword string, label *ast.Identifier) {
	text := keyword
	if label != nil {
		text += " " + label.Name
	}
	c.Buffer().Write(text + ";")
}

func breakStatement(c *compiler.Compiler, n ast.Node, _ *scope.Scope) error {
	jump(c, "break", n.(*ast.BreakStatement).Label)
	return nil
}

func continueStatement(c *compiler.Compiler, n ast.Node, _ *scope.Scope) error {
	jump(c, "continue", n.(*ast.ContinueStatement).Label)
	return nil
}

func switchStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.SwitchStatement)
	b := c.Buffer()
	b.Write("switch (")
	if err := c.CompileNode(stmt.Discriminant, s); err != nil {
		return err
	}
	b.Write(")")
	b.Newline()
	b.Write("{")
	b.Newline()
	b.Indent()
	for _, sc := range stmt.Cases {
		if err := c.CompileNode(sc, s); err != nil {
			return err
		}
	}
	b.Dedent()
	b.Newline()
	b.Write("}")
	return nil
}

func switchCase(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	sc := n.(*ast.SwitchCase)
	b := c.Buffer()
	writeComments(c, sc.Start)
	if sc.Test == nil {
		b.Write("default:")
	} else {
		b.Write("case ")
		if err := c.CompileNode(sc.Test, s); err != nil {
			return err
		}
		b.Write(":")
	}
	b.Newline()
	b.Indent()
	err := statements(c, sc.Consequent, s)
	b.Dedent()
	return err
}

func returnStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.ReturnStatement)
	b := c.Buffer()
	if stmt.Argument == nil {
		b.Write("return;")
		return nil
	}
	b.Write("return ")
	if err := c.CompileNode(stmt.Argument, s); err != nil {
		return err
	}
	b.Write(";")
	return nil
}

func throwStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.ThrowStatement)
	b := c.Buffer()
	b.Write("throw ")
	if err := c.CompileNode(stmt.Argument, s); err != nil {
		return err
	}
	b.Write(";")
	return nil
}

func tryStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.TryStatement)
	b := c.Buffer()
	b.Write("try")
	if err := body(c, stmt.Block, s); err != nil {
		return err
	}
	if stmt.Handler != nil {
		b.Newline()
		if err := c.CompileNode(stmt.Handler, s); err != nil {
			return err
		}
	}
	if stmt.Finalizer != nil {
		b.Newline()
		b.Write("finally")
		return body(c, stmt.Finalizer, s)
	}
	return nil
}

// catchClause binds its parameter in a block scope of its own; vars
// declared in the body still belong to the enclosing function.
func catchClause(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	cc := n.(*ast.CatchClause)
	cs := scope.New(scope.KindBlock, s)
	b := c.Buffer()
	b.Write("catch (")
	if cc.Param != nil {
		cs.Declare(cc.Param.Name, &scope.Binding{Kind: scope.LocalVar, Node: cc.Param})
		b.Write(cc.Param.Name)
	}
	b.Write(")")
	return body(c, cc.Body, cs)
}

func whileStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.WhileStatement)
	b := c.Buffer()
	b.Write("while (")
	if err := c.CompileNode(stmt.Test, s); err != nil {
		return err
	}
	b.Write(")")
	return body(c, stmt.Body, s)
}

func doWhileStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.DoWhileStatement)
	b := c.Buffer()
	b.Write("do")
	if err := body(c, stmt.Body, s); err != nil {
		return err
	}
	b.Newline()
	b.Write("while (")
	if err := c.CompileNode(stmt.Test, s); err != nil {
		return err
	}
	b.Write(");")
	return nil
}

func forStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.ForStatement)
	b := c.Buffer()
	b.Write("for (")
	if err := c.CompileNode(stmt.Init, s); err != nil {
		return err
	}
	b.Write(";")
	if stmt.Test != nil {
		b.Write(" ")
		if err := c.CompileNode(stmt.Test, s); err != nil {
			return err
		}
	}
	b.Write(";")
	if stmt.Update != nil {
		b.Write(" ")
		if err := c.CompileNode(stmt.Update, s); err != nil {
			return err
		}
	}
	b.Write(")")
	return body(c, stmt.Body, s)
}

func forInStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	stmt := n.(*ast.ForInStatement)
	b := c.Buffer()
	b.Write("for (")
	var err error
	if id, ok := stmt.Left.(*ast.Identifier); ok {
		err = compileAssignTarget(c, id, s)
	} else {
		err = c.CompileNode(stmt.Left, s)
	}
	if err != nil {
		return err
	}
	b.Write(" in ")
	if err := c.CompileNode(stmt.Right, s); err != nil {
		return err
	}
	b.Write(")")
	return body(c, stmt.Body, s)
}

func debuggerStatement(c *compiler.Compiler, n ast.Node, _ *scope.Scope) error {
	if err := c.AddWarning(diag.SemDebugger, n, "debugger statement").Emit(); err != nil {
		return err
	}
	c.Buffer().Write("debugger;")
	return nil
}

func variableDeclaration(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	decl := n.(*ast.VariableDeclaration)
	b := c.Buffer()
	kind := decl.DeclKind
	if kind == "" {
		kind = "var"
	}
	b.Write(kind + " ")
	for i, d := range decl.Declarations {
		if i > 0 {
			b.Write(", ")
		}
		if err := c.CompileNode(d, s); err != nil {
			return err
		}
	}
	return nil
}

// variableDeclarator declares its name before compiling the initializer,
// so the initializer sees the local.
func variableDeclarator(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	d := n.(*ast.VariableDeclarator)
	if err := c.DeclareVar(d.ID, s, scope.LocalVar); err != nil {
		return err
	}
	b := c.Buffer()
	b.Mark(d.ID.Start)
	b.Write(d.ID.Name)
	if d.Init == nil {
		return nil
	}
	b.Write(" = ")
	return compileWrapped(c, d.Init, s, d.Init.Kind() == ast.KindSequenceExpression)
}
