package codegen

import (
	"strings"

	"ojc/internal/ast"
	"ojc/internal/compiler"
	"ojc/internal/scope"
)

func newFunctionScope(parent *scope.Scope, name string) *scope.Scope {
	fs := scope.New(scope.KindFunction, parent)
	fs.FunctionName = name
	return fs
}

// functionTail writes "(params)" and the body, declaring the parameters in
// fs. Identifier issues raised inside the function are filtered when it
// closes.
func functionTail(c *compiler.Compiler, params []*ast.Identifier, fnBody *ast.BlockStatement, fs *scope.Scope) error {
	names := make([]string, len(params))
	for i, p := range params {
		if err := c.DeclareVar(p, fs, scope.FunctionParam); err != nil {
			return err
		}
		names[i] = p.Name
	}
	b := c.Buffer()
	b.Write("(" + strings.Join(names, ", ") + ")")
	b.Newline()
	if fnBody == nil {
		fnBody = &ast.BlockStatement{}
	}
	if err := c.CompileNode(fnBody, fs); err != nil {
		return err
	}
	c.FilterIdentifierIssues(fs)
	return nil
}

// functionDeclaration binds the function's name in the enclosing var
// scope; an implicit global of that name created there becomes the local.
func functionDeclaration(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	fn := n.(*ast.FunctionDeclaration)
	name := ""
	if fn.ID != nil {
		name = fn.ID.Name
		target := s.VarScope()
		kind := scope.LocalVar
		if target.Parent == nil {
			kind = scope.FileVar
		}
		if g := s.GlobalVar(name); g != nil && g.Kind == scope.ImplicitGlobal && g.Scope == target {
			s.DeleteGlobal(name)
		}
		target.Declare(name, &scope.Binding{Kind: kind, Node: fn.ID, Scope: target})
	}
	b := c.Buffer()
	b.Mark(fn.Start)
	b.Write("function " + name)
	return functionTail(c, fn.Params, fn.Body, newFunctionScope(s, name))
}

// functionExpression binds its own name, if any, inside the function.
func functionExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	fn := n.(*ast.FunctionExpression)
	name := ""
	if fn.ID != nil {
		name = fn.ID.Name
	}
	fs := newFunctionScope(s, name)
	if fn.ID != nil {
		fs.Declare(name, &scope.Binding{Kind: scope.LocalVar, Node: fn.ID})
	}
	b := c.Buffer()
	if name != "" {
		b.Write("function " + name)
	} else {
		b.Write("function")
	}
	return functionTail(c, fn.Params, fn.Body, fs)
}
