package compiler

import (
	"ojc/internal/ast"
	"ojc/internal/diag"
	"ojc/internal/scope"
	"ojc/internal/source"
)

// IsUniqueGlobalSymbol checks whether declaring the global id (through
// node: a class or protocol declaration, an @class, @global or @typedef
// statement, or an assignment target) collides with something already
// defined. It reports what it finds and says whether node may proceed.
func (c *Compiler) IsUniqueGlobalSymbol(node ast.Node, s *scope.Scope, id *ast.Identifier) (bool, error) {
	name := id.Name
	kind := node.Kind()
	// Statement forms report at their identifier.
	report := node
	switch kind {
	case ast.KindClassStatement, ast.KindGlobalStatement, ast.KindTypeDefStatement:
		report = id
	}

	if decl, ok := node.(*ast.ClassDeclaration); ok {
		def := c.regs.ClassDef(name)
		if decl.IsCategory() {
			if def == nil {
				if c.opts.CategoryPolicy == AllowMissingBase {
					return true, nil
				}
				err := c.AddError(diag.SemMissingBaseClass, decl.Name,
					"cannot find implementation declaration for '%s'", name).Emit()
				return false, err
			}
			key := name + "+" + decl.Category.Name
			if prev := c.regs.ClassDef(key); prev != nil {
				err := c.duplicateDefinition(node, "category", name+" ("+decl.Category.Name+")", false, prev.Span(), prev.Decl.Valid())
				return false, err
			}
			return true, nil
		}
		if def != nil {
			if !def.Forward {
				err := c.duplicateDefinition(node, "class", name, false, def.Span(), def.Decl.Valid())
				return false, err
			}
			if def.Decl.Valid() {
				err := c.scoped(diag.ReportWarning(c.ledger, diag.SemUnnecessaryForward, def.Span(),
					"@class definition '%s' is unnecessary", name)).
					WithNode(def.Decl.Node).
					WithNote(c.Span(node), "superceded by this definition").
					Emit()
				if err != nil {
					return false, err
				}
			}
			return true, nil
		}
	} else if def := c.regs.ClassDef(name); def != nil {
		switch kind {
		case ast.KindProtocolDeclaration:
			return true, nil
		case ast.KindClassStatement:
			return false, c.duplicateDefinition(id, "class", name, true, def.Span(), def.Decl.Valid())
		}
		return false, c.redefined(report, name, "previously defined as", "a class", def.Span(), def.Decl.Valid())
	}

	if def := c.regs.ProtocolDef(name); def != nil {
		switch kind {
		case ast.KindClassDeclaration:
			return true, nil
		case ast.KindProtocolDeclaration:
			return false, c.duplicateDefinition(node, "protocol", name, true, def.Span(), def.Decl.Valid())
		}
		return false, c.redefined(report, name, "previously defined as", "a protocol", def.Span(), def.Decl.Valid())
	}

	if b := s.GlobalVar(name); b != nil {
		if kind == ast.KindGlobalStatement {
			return false, c.duplicateDefinition(id, "global", name, true, c.Span(b.Node), b.Node != nil)
		}
		return false, c.redefined(report, name, "previously defined as", "a global", c.Span(b.Node), b.Node != nil)
	}

	if def := c.regs.TypeDef(name); def != nil {
		if kind == ast.KindTypeDefStatement {
			return false, c.duplicateDefinition(id, "typedef", name, true, def.Span(), def.Decl.Valid())
		}
		return false, c.redefined(report, name, "previously defined as", "a typedef", def.Span(), def.Decl.Valid())
	}

	if c.globals.Has(name) {
		if kind == ast.KindGlobalStatement {
			return false, c.duplicateDefinition(id, "predefined global", name, true, source.Span{}, false)
		}
		return false, c.redefined(report, name, "is", "a predefined global", source.Span{}, false)
	}
	return true, nil
}

// duplicateDefinition reports a second definition of name. Ignored
// duplicates are warnings, the rest errors.
func (c *Compiler) duplicateDefinition(n ast.Node, what, name string, ignored bool, prev source.Span, hasPrev bool) error {
	var b *diag.ReportBuilder
	if ignored {
		b = c.AddWarning(diag.SemDuplicateIgnored, n, "duplicate %s definition '%s' is ignored", what, name)
	} else {
		b = c.AddError(diag.SemDuplicateDefinition, n, "duplicate definition of %s '%s'", what, name)
	}
	if hasPrev {
		b.WithNote(prev, "previous definition is here")
	}
	return b.Emit()
}

func (c *Compiler) redefined(n ast.Node, name, verb, what string, prev source.Span, hasPrev bool) error {
	b := c.AddError(diag.SemSymbolRedefined, n, "'%s' %s %s", name, verb, what)
	if hasPrev {
		b.WithNote(prev, "definition is here")
	}
	return b.Emit()
}
