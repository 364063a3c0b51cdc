package compiler

import (
	"fmt"

	"ojc/internal/ast"
	"ojc/internal/diag"
	"ojc/internal/scope"
	"ojc/internal/symbols"
)

const anonymousFunction = "(anonymous)"

// CheckIdentifierReference runs the checks for an identifier the code
// generator is about to emit as a variable reference.
func (c *Compiler) CheckIdentifierReference(id *ast.Identifier, s *scope.Scope) error {
	if s.Assignment {
		return c.CheckAssignment(id, s)
	}
	return c.CheckForUnknownIdentifier(id, s)
}

// CheckAssignment handles an identifier on the left of "=". Assigning to a
// read-only predefined global warns. Assigning to an undeclared name
// creates a global; inside a function or method that global is implicit
// and warned about.
func (c *Compiler) CheckAssignment(id *ast.Identifier, s *scope.Scope) error {
	if s.MemberParent {
		return nil
	}
	name := id.Name
	if g, ok := c.globals.Lookup(name); ok {
		if !g.Writable {
			return c.AddWarning(diag.SemReadOnlyGlobal, id, "assigning to a read-only predefined global").Emit()
		}
		return nil
	}

	binding := s.Var(name)
	if binding == nil {
		unique, err := c.IsUniqueGlobalSymbol(id, s, id)
		if err != nil || !unique {
			return err
		}
	} else if !binding.Kind.IsGlobal() {
		return nil
	}

	varScope := s.VarScope()
	implicit := varScope.IsLocalVarScope() &&
		(binding == nil || (binding.Kind == scope.ImplicitGlobal && binding.Scope != varScope))
	if implicit {
		if err := c.warnImplicitGlobal(id, varScope); err != nil {
			return err
		}
	}
	if binding == nil || implicit {
		kind := scope.GlobalVar
		if implicit {
			kind = scope.ImplicitGlobal
		}
		s.DeclareGlobal(name, &scope.Binding{Kind: kind, Node: id, Scope: varScope})
	}
	return nil
}

func (c *Compiler) warnImplicitGlobal(id *ast.Identifier, varScope *scope.Scope) error {
	if !c.ShouldWarnAbout(diag.SemImplicitGlobal) {
		return nil
	}
	entity, entityName := "function", varScope.FunctionName
	if varScope.Kind == scope.KindMethod {
		entity, entityName = "method", varScope.Selector
	}
	if entityName == "" {
		entityName = anonymousFunction
	}
	msg := fmt.Sprintf("implicitly creating the global variable '%s' in the %s '%s'", id.Name, entity, entityName)

	varDecl := c.findPreviousVarDeclaration()
	if varDecl == nil {
		msg += fmt.Sprintf("; did you mean to use 'var %s'?", id.Name)
	}
	b := c.AddWarning(diag.SemImplicitGlobal, id, "%s", msg).Filterable(varScope, id.Name)
	if varDecl != nil {
		sp := c.Span(varDecl)
		if sp.End > sp.Start {
			sp.Start = sp.End - 1
		}
		b.WithNote(sp, "did you mean to use a comma here?")
	}
	return b.Emit()
}

// findPreviousVarDeclaration recognises
//
//	var a = 1,
//	    b = 2;
//	    c = 3;
//
// where the author meant a comma: the statement holding the assignment is
// an expression statement of an assignment or sequence, and the statement
// before it is a var declaration.
func (c *Compiler) findPreviousVarDeclaration() *ast.VariableDeclaration {
	stmt, ok := c.enclosingStatement().(*ast.ExpressionStatement)
	if !ok {
		return nil
	}
	switch stmt.Expression.(type) {
	case *ast.AssignmentExpression, *ast.SequenceExpression:
	default:
		return nil
	}
	decl, _ := c.statementBefore(stmt).(*ast.VariableDeclaration)
	return decl
}

// CheckForUnknownIdentifier warns about a reference that resolves to
// nothing. A misspelled class, protocol or type name gets a suggestion when
// the identifier is a message receiver.
func (c *Compiler) CheckForUnknownIdentifier(id *ast.Identifier, s *scope.Scope) error {
	if !c.ShouldWarnAbout(diag.SemUnknownIdentifier) {
		return nil
	}
	name := id.Name
	if s.Var(name) != nil || c.globals.Has(name) || c.isKnownSymbol(name) {
		return nil
	}
	if s.InInstanceMethod() && c.IvarForCurrentClass(name, s) != nil {
		return nil
	}
	msg := fmt.Sprintf("reference to unknown identifier '%s'", name)
	if s.Receiver {
		if alt := c.regs.FindMisspelledName(name); alt != "" {
			msg += fmt.Sprintf("; did you mean '%s'?", alt)
		}
	}
	return c.AddWarning(diag.SemUnknownIdentifier, id, "%s", msg).
		Filterable(s.VarScope(), name).
		Emit()
}

func (c *Compiler) isKnownSymbol(name string) bool {
	return c.regs.ClassDef(name) != nil || c.regs.ProtocolDef(name) != nil || c.regs.TypeDef(name) != nil
}

// DeclareVar binds id in the scope that owns it after checking it for
// shadowing. Locals and file vars go to the var scope; parameters to s.
func (c *Compiler) DeclareVar(id *ast.Identifier, s *scope.Scope, kind scope.BindingKind) error {
	target := s
	if kind == scope.LocalVar || kind == scope.FileVar {
		target = s.VarScope()
		if target.Parent == nil {
			kind = scope.FileVar
		}
	}
	if err := c.CheckForShadowedVars(id, s, target, kind); err != nil {
		return err
	}
	target.Declare(id.Name, &scope.Binding{Kind: kind, Node: id, Scope: target})
	return nil
}

// CheckForShadowedVars looks for what a new declaration of id in target
// would hide. An implicit global created in the same scope is turned into
// the local it was meant to be instead. References to an ivar of the same
// name emitted earlier in the method lose their "self." prefix.
func (c *Compiler) CheckForShadowedVars(id *ast.Identifier, s, target *scope.Scope, kind scope.BindingKind) error {
	name := id.Name
	var (
		hidden     string
		hiddenSpan = c.Span(nil)
		hasNote    bool
	)

	if def := s.Var(name); def != nil {
		sameScope := def.Scope == target || (def.Scope != nil && def.Scope.VarScope() == target && !def.Kind.IsGlobal())
		switch {
		case def.Kind == scope.ImplicitGlobal && def.Scope == target:
			s.DeleteGlobal(name)
			return nil
		case sameScope && (def.Kind == scope.LocalVar || def.Kind == scope.FileVar):
			return nil
		case def.Kind == scope.GlobalVar && target.Parent == nil:
			return nil
		default:
			hidden = def.Kind.Description()
			if def.Node != nil {
				hiddenSpan, hasNote = c.Span(def.Node), true
			}
		}
	} else if def := c.regs.ClassDef(name); def != nil {
		hidden, hiddenSpan, hasNote = "a class", def.Span(), def.Decl.Valid()
	} else if def := c.regs.ProtocolDef(name); def != nil {
		hidden, hiddenSpan, hasNote = "a protocol", def.Span(), def.Decl.Valid()
	} else if def := c.regs.TypeDef(name); def != nil {
		hidden, hiddenSpan, hasNote = "a typedef", def.Span(), def.Decl.Valid()
	} else if g, ok := c.globals.Lookup(name); ok {
		if g.IgnoreShadow {
			return nil
		}
		hidden = "a predefined global"
	} else if method := target.MethodScope(); method != nil && method.MethodType == "-" {
		if iv := c.IvarForCurrentClass(name, s); iv != nil {
			if err := c.retractIvarRefs(name, method, target.VarScope()); err != nil {
				return err
			}
			hidden = "an instance variable"
			hiddenSpan, hasNote = iv.Span(), iv.Decl.Valid()
		}
	}
	if hidden == "" {
		return nil
	}

	b := c.AddWarning(diag.SemShadowedVar, id, "%s '%s' hides %s", entityDescription(kind), name, hidden)
	if hasNote {
		b.WithNote(hiddenSpan, "hidden declaration is here")
	}
	return b.Emit()
}

// retractIvarRefs takes "self." back from the refs to name written inside
// within; refs elsewhere in the method still reach the ivar.
func (c *Compiler) retractIvarRefs(name string, method, within *scope.Scope) error {
	var kept []scope.IvarRef
	for _, ref := range method.IvarRefs(name) {
		if !within.Encloses(ref.From) {
			kept = append(kept, ref)
			continue
		}
		ref.Buf.Remove(ref.Span)
		err := c.AddWarning(diag.SemLocalHidesIvar, ref.Node,
			"reference to local variable '%s' hides an instance variable", name).Emit()
		if err != nil {
			return err
		}
	}
	method.KeepIvarRefs(name, kept)
	return nil
}

func entityDescription(kind scope.BindingKind) string {
	switch kind {
	case scope.FunctionParam:
		return "function parameter"
	case scope.MethodParam:
		return "method parameter"
	}
	return "local declaration of"
}

// IvarForCurrentClass resolves name to an ivar of the class whose method is
// being compiled, walking superclasses.
func (c *Compiler) IvarForCurrentClass(name string, s *scope.Scope) *symbols.Ivar {
	if s.MethodScope() == nil {
		return nil
	}
	def := s.ClassDef()
	if def == nil {
		return nil
	}
	if def.Base != nil {
		def = def.Base
	}
	iv, _ := def.FindIvar(name)
	return iv
}

// CheckForUnknownType warns when a class-typed annotation names nothing
// the registries know.
func (c *Compiler) CheckForUnknownType(n ast.Node, typeName string) error {
	if !c.ShouldWarnAbout(diag.SemUnknownType) || c.regs.IsKnownType(typeName) {
		return nil
	}
	msg := fmt.Sprintf("unknown type '%s'", typeName)
	if alt := c.regs.FindMisspelledName(typeName); alt != "" {
		msg += fmt.Sprintf("; did you mean '%s'?", alt)
	}
	return c.AddWarning(diag.SemUnknownType, n, "%s", msg).Emit()
}

// CheckType checks a type annotation: the type name itself when it is a
// class type, and every protocol in its id<...> list.
func (c *Compiler) CheckType(t *ast.ObjJType) error {
	if t == nil {
		return nil
	}
	if t.IsClass && t.Name != "" && t.Name != "id" {
		if err := c.CheckForUnknownType(t, t.Name); err != nil {
			return err
		}
	}
	return c.CheckTypeProtocols(t)
}

// CheckTypeProtocols warns about every protocol in an id<...> list that
// has not been declared.
func (c *Compiler) CheckTypeProtocols(t *ast.ObjJType) error {
	for _, p := range t.Protocols {
		if c.regs.ProtocolDef(p.Name) == nil {
			if err := c.UnknownProtocol(p, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// UnknownProtocol reports a reference to an undeclared protocol, as an
// error when a class adopts it and as a warning in type annotations.
func (c *Compiler) UnknownProtocol(id *ast.Identifier, isError bool) error {
	msg := fmt.Sprintf("cannot find protocol declaration for '%s'", id.Name)
	if alt := c.regs.SuggestProtocol(id.Name); alt != "" {
		msg += fmt.Sprintf("; did you mean '%s'?", alt)
	}
	if isError {
		return c.AddError(diag.SemUnknownProtocol, id, "%s", msg).Emit()
	}
	return c.AddWarning(diag.SemUnknownProtocol, id, "%s", msg).Emit()
}
