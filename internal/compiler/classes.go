package compiler

import (
	"fmt"
	"strings"

	"ojc/internal/ast"
	"ojc/internal/diag"
	"ojc/internal/format"
	"ojc/internal/scope"
	"ojc/internal/symbols"
)

// Decl wraps a node of the current file for the registries.
func (c *Compiler) Decl(n ast.Node) symbols.Decl {
	return symbols.Decl{File: c.file, Node: n}
}

// CreateClass builds the definition described by node without
// registering it.
func (c *Compiler) CreateClass(node *ast.ClassDeclaration) *symbols.ClassDef {
	var super, category string
	if node.Superclass != nil {
		super = node.Superclass.Name
	}
	if node.Category != nil {
		category = node.Category.Name
	}
	return symbols.NewClassDef(c.Decl(node), node.Name.Name, super, category)
}

// DefineClass registers def and returns the live definition: a forward
// declaration of the same name is upgraded in place, a category is
// attached to its base class. A named superclass is linked when already
// known and recorded for linking after the batch otherwise.
func (c *Compiler) DefineClass(node *ast.ClassDeclaration, def *symbols.ClassDef) *symbols.ClassDef {
	if def.IsCategory() {
		def.Base = c.regs.ClassDef(def.Name)
		c.regs.AddClassDef(def.Name, def)
		return def
	}
	if prev := c.regs.ClassDef(def.Name); prev != nil && prev.Forward {
		prev.UpgradeFrom(def)
		def = prev
	}
	c.regs.AddClassDef(def.Name, def)
	if node.Superclass != nil {
		def.Superclass = c.regs.ClassDef(node.Superclass.Name)
		if def.Superclass == def {
			def.Superclass = nil
		}
		c.superclassRefs = append(c.superclassRefs, SuperclassRef{Class: def, Superclass: node.Superclass, File: c.file})
	}
	return def
}

// SelectorOf builds a method's selector from its declaration alone.
func SelectorOf(m *ast.MethodDeclaration) string {
	if len(m.Selectors) == 0 || m.Selectors[0] == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.Selectors[0].Name)
	for i := range m.Params {
		if i > 0 && i < len(m.Selectors) && m.Selectors[i] != nil {
			sb.WriteString(m.Selectors[i].Name)
		}
		sb.WriteByte(':')
	}
	return sb.String()
}

// MakeSelector returns the selector of m and its type list (return type
// first, then one entry per parameter), checking the types on the way.
func (c *Compiler) MakeSelector(m *ast.MethodDeclaration) (string, []string, error) {
	selector := SelectorOf(m)
	types := make([]string, 0, len(m.Params)+1)
	types = append(types, m.ReturnType.TypeName())
	if err := c.CheckType(m.ReturnType); err != nil {
		return selector, types, err
	}
	for _, p := range m.Params {
		types = append(types, p.Type.TypeName())
		if p.Type == nil {
			err := c.AddWarning(diag.SemUntypedParameter, p.ID,
				"parameter '%s' of method '%s' has no type", p.ID.Name, selector).Emit()
			if err != nil {
				return selector, types, err
			}
			continue
		}
		if err := c.CheckType(p.Type); err != nil {
			return selector, types, err
		}
	}
	return selector, types, nil
}

// DeclareMethods records the methods of a class body before any of them
// is compiled, so accessor generation can see explicit implementations.
func (c *Compiler) DeclareMethods(node *ast.ClassDeclaration, def *symbols.ClassDef) {
	for _, n := range node.Body {
		m, ok := n.(*ast.MethodDeclaration)
		if !ok {
			continue
		}
		types := make([]string, 0, len(m.Params)+1)
		types = append(types, m.ReturnType.TypeName())
		for _, p := range m.Params {
			types = append(types, p.Type.TypeName())
		}
		md := symbols.NewMethodDef(c.Decl(m), SelectorOf(m), types)
		if m.MethodType == "+" {
			def.AddClassMethod(md)
		} else {
			def.AddInstanceMethod(md)
		}
	}
}

// MethodFunctionName is the name of the function implementing selector:
// $Class__sel_ with colons replaced by underscores.
func MethodFunctionName(class, selector string) string {
	return "$" + class + "__" + strings.ReplaceAll(selector, ":", "_")
}

// MethodEntry is one objj_method(...) element of a class_addMethods list.
type MethodEntry struct {
	Comments []string // emitted as // lines above the entry
	Selector string
	Function string // "" for an anonymous function
	Params   []string
	Types    []string
	// Body writes the statements of the method; the buffer is already
	// indented one level inside the braces.
	Body func(b *format.Buffer) error
}

// WriteMethodEntry appends e to b, separated from earlier entries by a
// comma.
func (c *Compiler) WriteMethodEntry(b *format.Buffer, e MethodEntry) error {
	if !b.Empty() {
		b.Write(",")
		b.Newline()
	}
	for _, line := range e.Comments {
		b.Write("// " + line)
		b.Newline()
	}
	b.Write("new objj_method(sel_getUid(" + QuoteJS(e.Selector) + "),")
	b.Newline()
	b.Write("function")
	if c.opts.MethodNames && e.Function != "" {
		b.Write(" " + e.Function)
	}
	b.Write("(" + strings.Join(append([]string{"self", "_cmd"}, e.Params...), ", ") + ")")
	b.Newline()
	b.Write("{")
	b.Newline()
	b.Indent()
	var err error
	if e.Body != nil {
		err = e.Body(b)
	}
	b.Dedent()
	b.Newline()
	b.Write("}")
	if c.opts.TypeSignatures {
		b.Write(",")
		b.Newline()
		b.Write("// argument types")
		b.Newline()
		b.Write(typeList(e.Types))
	}
	b.Write(")")
	return err
}

func typeList(types []string) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = QuoteJS(t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// GenerateAccessors emits getters and setters for the @accessors ivars of
// node into b and records them on def. Selectors the class implements
// itself are skipped.
func (c *Compiler) GenerateAccessors(node *ast.ClassDeclaration, def *symbols.ClassDef, b *format.Buffer) error {
	for _, ivar := range node.Ivars {
		acc := ivar.Accessors
		if acc == nil {
			continue
		}
		name, typ := ivar.ID.Name, ivar.Type.TypeName()
		attrs := symbols.AccessorAttributes(acc)

		getter := symbols.AccessorSelector(acc, symbols.Getter, name)
		if def.OwnInstanceMethod(getter) == nil {
			def.AddInstanceMethod(symbols.NewMethodDef(c.Decl(ivar), getter, []string{typ}))
			err := c.WriteMethodEntry(b, MethodEntry{
				Comments: []string{
					fmt.Sprintf("%s @accessors%s [getter]", name, attrs),
					fmt.Sprintf("- (%s)%s", typ, getter),
				},
				Selector: getter,
				Function: MethodFunctionName(def.Name, getter),
				Types:    []string{typ},
				Body: func(b *format.Buffer) error {
					b.Write("return self." + name + ";")
					return nil
				},
			})
			if err != nil {
				return err
			}
		}

		if acc.Readonly {
			if acc.Setter != nil {
				err := c.AddError(diag.SemReadonlySetter, acc.Setter, "setter cannot be specified for a readonly ivar").Emit()
				if err != nil {
					return err
				}
			}
			continue
		}

		setter := symbols.AccessorSelector(acc, symbols.Setter, name)
		if def.OwnInstanceMethod(setter) != nil {
			continue
		}
		def.AddInstanceMethod(symbols.NewMethodDef(c.Decl(ivar), setter, []string{"void", typ}))
		err := c.WriteMethodEntry(b, MethodEntry{
			Comments: []string{
				fmt.Sprintf("%s @accessors%s [setter]", name, attrs),
				fmt.Sprintf("- (void)%s(%s)newValue", setter, typ),
			},
			Selector: setter,
			Function: MethodFunctionName(def.Name, setter),
			Params:   []string{"newValue"},
			Types:    []string{"void", typ},
			Body: func(b *format.Buffer) error {
				if !acc.Copy {
					b.Write("self." + name + " = newValue;")
					return nil
				}
				b.Write("if (self." + name + " !== newValue)")
				b.Newline()
				b.Indent()
				b.Write("/* " + name + " = [newValue copy] */ self." + name +
					" = newValue == null ? null : newValue.isa.objj_msgSend0(newValue, \"copy\");")
				b.Dedent()
				return nil
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CheckForSetterConflicts rejects an explicit instance method that would
// act as the setter of a readonly ivar.
func (c *Compiler) CheckForSetterConflicts(m *ast.MethodDeclaration, s *scope.Scope, selector string) error {
	def := s.ClassDef()
	if def == nil || m.MethodType != "-" || !strings.HasPrefix(selector, "set") {
		return nil
	}
	if def.Base != nil {
		def = def.Base
	}
	for _, iv := range def.Ivars() {
		if !iv.Readonly() {
			continue
		}
		if symbols.AccessorSelector(iv.Accessors, symbols.Setter, iv.Name) != selector {
			continue
		}
		b := c.AddError(diag.SemSetterConflict, m,
			"setter method '%s' cannot be defined for the readonly ivar '%s'", selector, iv.Name)
		if iv.Decl.Valid() {
			b.WithNote(iv.Span(), "ivar declaration is here")
		}
		return b.Emit()
	}
	return nil
}

// CheckProtocolConformance warns once per required method of the adopted
// protocols that the class (with its superclasses) does not implement.
func (c *Compiler) CheckProtocolConformance(node *ast.ClassDeclaration, def *symbols.ClassDef) error {
	if !c.ShouldWarnAbout(diag.SemUnimplementedMethod) {
		return nil
	}
	if def.Base != nil {
		def = def.Base
	}
	for _, id := range node.Protocols {
		p := c.regs.ProtocolDef(id.Name)
		if p == nil {
			continue
		}
		for _, um := range def.UnimplementedMethodsForProtocol(p) {
			b := c.AddWarning(diag.SemUnimplementedMethod, id,
				"method '%s' in protocol '%s' not implemented", um.Method.Selector, um.Protocol)
			if um.Method.Decl.Valid() {
				b.WithNote(um.Method.Span(), "method '%s' declared here", um.Method.Selector)
			}
			if err := b.Emit(); err != nil {
				return err
			}
		}
	}
	return nil
}
