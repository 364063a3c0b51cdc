package codegen

import (
	"fmt"
	"strconv"

	"ojc/internal/ast"
	"ojc/internal/compiler"
	"ojc/internal/scope"
)

// compileWrapped compiles n, in parentheses when wrap is set.
func compileWrapped(c *compiler.Compiler, n ast.Node, s *scope.Scope, wrap bool) error {
	if !wrap {
		return c.CompileNode(n, s)
	}
	c.Buffer().Write("(")
	if err := c.CompileNode(n, s); err != nil {
		return err
	}
	c.Buffer().Write(")")
	return nil
}

// operand compiles subnode as an operand of node.
func operand(c *compiler.Compiler, node, subnode ast.Node, s *scope.Scope, right bool) error {
	return compileWrapped(c, subnode, s, subnodeHasPrecedence(node, subnode, right))
}

// argument compiles an element of a comma-separated list.
func argument(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	return compileWrapped(c, n, s, n.Kind() == ast.KindSequenceExpression)
}

func arguments(c *compiler.Compiler, args []ast.Node, s *scope.Scope) error {
	b := c.Buffer()
	for i, a := range args {
		if i > 0 {
			b.Write(", ")
		}
		if err := argument(c, a, s); err != nil {
			return err
		}
	}
	return nil
}

// compileAssignTarget compiles an identifier being assigned with "=".
func compileAssignTarget(c *compiler.Compiler, id *ast.Identifier, s *scope.Scope) error {
	prev := s.Assignment
	s.Assignment = true
	err := c.CompileNode(id, s)
	s.Assignment = prev
	return err
}

func thisExpression(c *compiler.Compiler, _ ast.Node, _ *scope.Scope) error {
	c.Buffer().Write("this")
	return nil
}

func arrayExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	arr := n.(*ast.ArrayExpression)
	b := c.Buffer()
	b.Write("[")
	for i, el := range arr.Elements {
		if i > 0 {
			b.Write(", ")
		}
		if el == nil {
			continue
		}
		if err := argument(c, el, s); err != nil {
			return err
		}
	}
	if k := len(arr.Elements); k > 0 && arr.Elements[k-1] == nil {
		b.Write(",")
	}
	b.Write("]")
	return nil
}

func objectExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	obj := n.(*ast.ObjectExpression)
	b := c.Buffer()
	if len(obj.Properties) == 0 {
		b.Write("{}")
		return nil
	}
	b.Write("{")
	b.Newline()
	b.Indent()
	for i, p := range obj.Properties {
		if i > 0 {
			b.Write(",")
			b.Newline()
		}
		if err := c.CompileNode(p, s); err != nil {
			return err
		}
	}
	b.Dedent()
	b.Newline()
	b.Write("}")
	return nil
}

func propertyKey(c *compiler.Compiler, p *ast.Property, s *scope.Scope) error {
	b := c.Buffer()
	if p.Computed {
		b.Write("[")
		if err := c.CompileNode(p.Key, s); err != nil {
			return err
		}
		b.Write("]")
		return nil
	}
	switch k := p.Key.(type) {
	case *ast.Identifier:
		b.Write(k.Name)
	case *ast.Literal:
		b.Write(literalText(k))
	default:
		return fmt.Errorf("codegen: unexpected property key %s", p.Key.Kind())
	}
	return nil
}

func property(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	p := n.(*ast.Property)
	b := c.Buffer()
	if p.PropKind == "get" || p.PropKind == "set" {
		fn, ok := p.Value.(*ast.FunctionExpression)
		if !ok {
			return fmt.Errorf("codegen: %s accessor without function", p.PropKind)
		}
		b.Write(p.PropKind + " ")
		if err := propertyKey(c, p, s); err != nil {
			return err
		}
		return functionTail(c, fn.Params, fn.Body, newFunctionScope(s, ""))
	}
	if err := propertyKey(c, p, s); err != nil {
		return err
	}
	b.Write(": ")
	return argument(c, p.Value, s)
}

func sequenceExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	seq := n.(*ast.SequenceExpression)
	b := c.Buffer()
	for i, e := range seq.Expressions {
		if i > 0 {
			b.Write(", ")
		}
		if err := argument(c, e, s); err != nil {
			return err
		}
	}
	return nil
}

func isWordOperator(op string) bool {
	return op == "typeof" || op == "void" || op == "delete"
}

func unaryExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	u := n.(*ast.UnaryExpression)
	b := c.Buffer()
	b.Write(u.Operator)
	if isWordOperator(u.Operator) || startsWithOperator(u.Argument, u.Operator) {
		b.Write(" ")
	}
	return operand(c, u, u.Argument, s, false)
}

// startsWithOperator catches "- -x" and "+ ++x", which must not fuse.
func startsWithOperator(n ast.Node, op string) bool {
	if op != "-" && op != "+" {
		return false
	}
	switch x := n.(type) {
	case *ast.UnaryExpression:
		return x.Operator == op
	case *ast.UpdateExpression:
		return x.Prefix && x.Operator[:1] == op
	}
	return false
}

func updateExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	u := n.(*ast.UpdateExpression)
	b := c.Buffer()
	if u.Prefix {
		b.Write(u.Operator)
		return operand(c, u, u.Argument, s, false)
	}
	if err := operand(c, u, u.Argument, s, false); err != nil {
		return err
	}
	b.Write(u.Operator)
	return nil
}

func infix(c *compiler.Compiler, node, left ast.Node, op string, right ast.Node, s *scope.Scope) error {
	if err := operand(c, node, left, s, false); err != nil {
		return err
	}
	c.Buffer().Write(" " + op + " ")
	return operand(c, node, right, s, true)
}

func binaryExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	e := n.(*ast.BinaryExpression)
	return infix(c, e, e.Left, e.Operator, e.Right, s)
}

func logicalExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	e := n.(*ast.LogicalExpression)
	return infix(c, e, e.Left, e.Operator, e.Right, s)
}

// assignmentExpression routes a plain "=" to a bare identifier through the
// assignment checks. Assigning to @deref(ref) calls the reference.
func assignmentExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	a := n.(*ast.AssignmentExpression)
	b := c.Buffer()
	if deref, ok := a.Left.(*ast.Dereference); ok && a.Operator == "=" {
		if err := compileWrapped(c, deref.Expression, s, calleeNeedsParens(deref.Expression)); err != nil {
			return err
		}
		b.Write("(")
		if err := argument(c, a.Right, s); err != nil {
			return err
		}
		b.Write(")")
		return nil
	}
	var err error
	if id, ok := a.Left.(*ast.Identifier); ok && a.Operator == "=" {
		err = compileAssignTarget(c, id, s)
	} else {
		err = c.CompileNode(a.Left, s)
	}
	if err != nil {
		return err
	}
	b.Write(" " + a.Operator + " ")
	return argument(c, a.Right, s)
}

func conditionalExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	e := n.(*ast.ConditionalExpression)
	b := c.Buffer()
	if err := operand(c, e, e.Test, s, false); err != nil {
		return err
	}
	b.Write(" ? ")
	if err := argument(c, e.Consequent, s); err != nil {
		return err
	}
	b.Write(" : ")
	return argument(c, e.Alternate, s)
}

func newExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	e := n.(*ast.NewExpression)
	b := c.Buffer()
	b.Write("new ")
	wrap := e.Callee.Kind() == ast.KindCallExpression || e.Callee.Kind() == ast.KindMessageSend ||
		subnodeHasPrecedence(e, e.Callee, false)
	if err := compileWrapped(c, e.Callee, s, wrap); err != nil {
		return err
	}
	b.Write("(")
	if err := arguments(c, e.Arguments, s); err != nil {
		return err
	}
	b.Write(")")
	return nil
}

func callExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	e := n.(*ast.CallExpression)
	b := c.Buffer()
	if err := operand(c, e, e.Callee, s, false); err != nil {
		return err
	}
	b.Write("(")
	if err := arguments(c, e.Arguments, s); err != nil {
		return err
	}
	b.Write(")")
	return nil
}

// memberExpression compiles its object as a plain reference, whatever
// the surrounding assignment or message context.
func memberExpression(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	e := n.(*ast.MemberExpression)
	b := c.Buffer()

	assignment, receiver, parent := s.Assignment, s.Receiver, s.MemberParent
	s.Assignment, s.Receiver, s.MemberParent = false, false, true
	defer func() { s.Assignment, s.Receiver, s.MemberParent = assignment, receiver, parent }()

	wrap := false
	if p, ok := expressionPrecedence[e.Object.Kind()]; ok && p > expressionPrecedence[ast.KindNewExpression] {
		wrap = true
	}
	if lit, ok := e.Object.(*ast.Literal); ok {
		if _, isNum := lit.Value.(float64); isNum && lit.Regex == nil {
			wrap = true
		}
	}
	if err := compileWrapped(c, e.Object, s, wrap); err != nil {
		return err
	}
	s.MemberParent = parent
	if e.Computed {
		b.Write("[")
		if err := c.CompileNode(e.Property, s); err != nil {
			return err
		}
		b.Write("]")
		return nil
	}
	switch p := e.Property.(type) {
	case *ast.Identifier:
		b.Write("." + p.Name)
	default:
		return fmt.Errorf("codegen: unexpected member property %s", e.Property.Kind())
	}
	return nil
}

// identifier emits a variable reference. Inside an instance method a name
// that is not a local resolves to an ivar and is prefixed with "self."; the
// prefix is recorded so a later declaration can take it back.
func identifier(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	id := n.(*ast.Identifier)
	b := c.Buffer()
	name := id.Name
	if lvar := s.Var(name); (lvar == nil || lvar.Kind.IsGlobal()) && s.InInstanceMethod() {
		if iv := c.IvarForCurrentClass(name, s); iv != nil {
			span := b.Write("self.")
			s.MethodScope().AddIvarRef(name, scope.IvarRef{Node: id, Buf: b, Span: span, From: s.VarScope()})
			b.Mark(id.Start)
			b.Write(name)
			return nil
		}
	}
	if err := c.CheckIdentifierReference(id, s); err != nil {
		return err
	}
	b.Mark(id.Start)
	b.Write(name)
	return nil
}

func literal(c *compiler.Compiler, n ast.Node, _ *scope.Scope) error {
	c.Buffer().Write(literalText(n.(*ast.Literal)))
	return nil
}

func literalText(l *ast.Literal) string {
	if l.Regex != nil {
		return "/" + l.Regex.Pattern + "/" + l.Regex.Flags
	}
	if l.Raw != "" {
		return l.Raw
	}
	switch v := l.Value.(type) {
	case nil:
		return "null"
	case string:
		return compiler.QuoteJS(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprint(l.Value)
}
