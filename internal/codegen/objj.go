package codegen

import (
	"strconv"
	"strings"

	"ojc/internal/ast"
	"ojc/internal/compiler"
	"ojc/internal/diag"
	"ojc/internal/format"
	"ojc/internal/scope"
	"ojc/internal/symbols"
)

var q = compiler.QuoteJS

func missingDefinition(what, name string) string {
	return "throw new SyntaxError(" + q("*** Could not find definition for "+what+" \""+name+"\"") + ");"
}

// classDeclaration emits the objj runtime calls that build a class or a
// category. Accessors are generated before the explicit methods; both
// end up in class_addMethods lists after the body.
func classDeclaration(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	node := n.(*ast.ClassDeclaration)
	name := node.Name.Name

	unique, err := c.IsUniqueGlobalSymbol(node, s, node.Name)
	if err != nil {
		return err
	}
	def := c.CreateClass(node)
	if unique {
		def = c.DefineClass(node, def)
	}
	for _, p := range node.Protocols {
		if c.Registries().ProtocolDef(p.Name) == nil {
			if err := c.UnknownProtocol(p, true); err != nil {
				return err
			}
			continue
		}
		def.Protocols = append(def.Protocols, p.Name)
	}

	b := c.Buffer()
	b.Mark(node.Start)
	b.Write("{")
	b.Newline()
	b.Indent()
	if node.IsCategory() {
		b.Write("var the_class = objj_getClass(" + q(name) + ");")
		b.Newline()
		b.Write("if (!the_class) " + missingDefinition("class", name))
		b.Newline()
		b.Write("var meta_class = the_class.isa;")
		b.Newline()
	} else {
		super := "Nil"
		if node.Superclass != nil {
			super = node.Superclass.Name
		}
		b.Write("var the_class = objj_allocateClassPair(" + super + ", " + q(name) + "),")
		b.Newline()
		b.Write("meta_class = the_class.isa;")
		b.Newline()
	}

	cs := scope.New(scope.KindClass, s)
	cs.Class = def

	if len(node.Ivars) > 0 {
		b.Write("class_addIvars(the_class, [")
		for i, iv := range node.Ivars {
			if i > 0 {
				b.Write(", ")
			}
			if err := c.CompileNode(iv, cs); err != nil {
				return err
			}
		}
		b.Write("]);")
		b.Newline()
	}
	if !node.IsCategory() {
		b.Write("objj_registerClassPair(the_class);")
		b.Newline()
	}

	c.DeclareMethods(node, def)
	instance, class := b.Fork(), b.Fork()
	instance.Indent()
	class.Indent()
	prevInstance, prevClass := c.SetMethodBuffers(instance, class)
	err = c.GenerateAccessors(node, def, instance)
	for _, m := range node.Body {
		if err != nil {
			break
		}
		err = c.CompileNode(m, cs)
	}
	c.SetMethodBuffers(prevInstance, prevClass)
	if err != nil {
		return err
	}

	addMethods(b, "the_class", instance)
	addMethods(b, "meta_class", class)

	if err := c.CheckProtocolConformance(node, def); err != nil {
		return err
	}
	b.Dedent()
	b.Newline()
	b.Write("}")
	return nil
}

func addMethods(b *format.Buffer, target string, methods *format.Buffer) {
	if methods.Empty() {
		return
	}
	b.Write("class_addMethods(" + target + ", [")
	b.Newline()
	b.Append(methods)
	b.Newline()
	b.Write("]);")
	b.Newline()
}

// ivarDeclaration records the ivar on the class in scope and emits its
// objj_ivar element.
func ivarDeclaration(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	iv := n.(*ast.IvarDeclaration)
	name, typ := iv.ID.Name, iv.Type.TypeName()
	if err := c.CheckType(iv.Type); err != nil {
		return err
	}
	if def := s.ClassDef(); def != nil {
		if prev := def.Ivar(name); prev != nil {
			b := c.AddError(diag.SemDuplicateDefinition, iv.ID, "duplicate definition of ivar '%s'", name)
			if prev.Decl.Valid() {
				b.WithNote(prev.Span(), "previous definition is here")
			}
			if err := b.Emit(); err != nil {
				return err
			}
		} else {
			def.AddIvar(&symbols.Ivar{Decl: c.Decl(iv), Name: name, Type: typ, Accessors: iv.Accessors})
		}
	}
	text := "new objj_ivar(" + q(name)
	if c.Options().TypeSignatures {
		text += ", " + q(typ)
	}
	c.Buffer().Write(text + ")")
	return nil
}

// objjType produces no code: types only feed checks and signatures.
func objjType(*compiler.Compiler, ast.Node, *scope.Scope) error { return nil }

// methodDeclaration compiles a method of the class in scope into the
// instance or class method list.
func methodDeclaration(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	m := n.(*ast.MethodDeclaration)
	selector, types, err := c.MakeSelector(m)
	if err != nil {
		return err
	}
	if err := c.CheckForSetterConflicts(m, s, selector); err != nil {
		return err
	}

	classMethod := m.MethodType == "+"
	className := ""
	if def := s.ClassDef(); def != nil {
		className = def.Name
		md := symbols.NewMethodDef(c.Decl(m), selector, types)
		if classMethod {
			def.AddClassMethod(md)
		} else {
			def.AddInstanceMethod(md)
		}
	}

	ms := scope.New(scope.KindMethod, s)
	ms.Selector = selector
	ms.MethodType = m.MethodType
	ms.Declare("self", &scope.Binding{Kind: scope.MethodParam, Node: m})
	ms.Declare("_cmd", &scope.Binding{Kind: scope.MethodParam, Node: m})
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		if err := c.DeclareVar(p.ID, ms, scope.MethodParam); err != nil {
			return err
		}
		params[i] = p.ID.Name
	}

	target := c.MethodBuffer(classMethod)
	if target == nil {
		target = c.Buffer()
	}
	err = c.WriteMethodEntry(target, compiler.MethodEntry{
		Selector: selector,
		Function: compiler.MethodFunctionName(className, selector),
		Params:   params,
		Types:    types,
		Body: func(mb *format.Buffer) error {
			if m.Body == nil {
				return nil
			}
			prev := c.SetBuffer(mb)
			defer c.SetBuffer(prev)
			if err := statements(c, m.Body.Body, ms); err != nil {
				return err
			}
			writeComments(c, m.Body.End)
			return nil
		},
	})
	if err != nil {
		return err
	}
	c.FilterIdentifierIssues(ms)
	return nil
}

// protocolDeclaration registers the protocol and emits its runtime
// description.
func protocolDeclaration(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	node := n.(*ast.ProtocolDeclaration)
	name := node.Name.Name
	regs := c.Registries()

	unique, err := c.IsUniqueGlobalSymbol(node, s, node.Name)
	if err != nil {
		return err
	}
	var inherited []*symbols.ProtocolDef
	for _, p := range node.Protocols {
		def := regs.ProtocolDef(p.Name)
		if def == nil {
			if err := c.UnknownProtocol(p, true); err != nil {
				return err
			}
			continue
		}
		inherited = append(inherited, def)
	}
	pdef := symbols.NewProtocolDef(c.Decl(node), name, inherited)

	type group struct {
		entries  []string
		required bool
		instance bool
	}
	groups := []*group{{required: true, instance: true}, {required: true}, {instance: true}, {}}
	for i, list := range [][]*ast.MethodDeclaration{node.Required, node.Optional} {
		required := i == 0
		for _, m := range list {
			selector, types, err := c.MakeSelector(m)
			if err != nil {
				return err
			}
			classMethod := m.MethodType == "+"
			pdef.AddMethod(symbols.NewMethodDef(c.Decl(m), selector, types), classMethod, required)
			g := groups[i*2]
			if classMethod {
				g = groups[i*2+1]
			}
			entry := "new objj_method(sel_getUid(" + q(selector) + "), Nil"
			if c.Options().TypeSignatures {
				entry += ", " + typeList(types)
			}
			g.entries = append(g.entries, entry+")")
		}
	}
	if unique {
		regs.AddProtocolDef(name, pdef)
	}

	b := c.Buffer()
	b.Mark(node.Start)
	b.Write("{")
	b.Newline()
	b.Indent()
	b.Write("var the_protocol = objj_allocateProtocol(" + q(name) + ");")
	b.Newline()
	for _, p := range node.Protocols {
		b.Write("var aProtocol = objj_getProtocol(" + q(p.Name) + ");")
		b.Newline()
		b.Write("if (!aProtocol) " + missingDefinition("protocol", p.Name))
		b.Newline()
		b.Write("protocol_addProtocol(the_protocol, aProtocol);")
		b.Newline()
	}
	b.Write("objj_registerProtocol(the_protocol);")
	b.Newline()
	for _, g := range groups {
		if len(g.entries) == 0 {
			continue
		}
		b.Write("protocol_addMethodDescriptions(the_protocol, [" + strings.Join(g.entries, ", ") + "], " +
			strconv.FormatBool(g.required) + ", " + strconv.FormatBool(g.instance) + ");")
		b.Newline()
	}
	b.Dedent()
	b.Write("}")
	return nil
}

func typeList(types []string) string {
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = q(t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func messageSelector(m *ast.MessageSend) string {
	if len(m.Selectors) == 0 || m.Selectors[0] == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.Selectors[0].Name)
	for i := range m.Arguments {
		if i > 0 && i < len(m.Selectors) && m.Selectors[i] != nil {
			sb.WriteString(m.Selectors[i].Name)
		}
		sb.WriteByte(':')
	}
	return sb.String()
}

// messageSend emits objj_msgSend, or objj_msgSendSuper for sends to super.
func messageSend(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	m := n.(*ast.MessageSend)
	b := c.Buffer()
	if m.SuperObject {
		b.Write("objj_msgSendSuper({ receiver:self, super_class:" + superClassExpr(s) + " }")
	} else {
		b.Write("objj_msgSend(")
		prev := s.Receiver
		s.Receiver = m.Receiver.Kind() == ast.KindIdentifier
		err := argument(c, m.Receiver, s)
		s.Receiver = prev
		if err != nil {
			return err
		}
	}
	b.Write(", " + q(messageSelector(m)))
	for _, list := range [][]ast.Node{m.Arguments, m.Parameters} {
		for _, a := range list {
			b.Write(", ")
			if err := argument(c, a, s); err != nil {
				return err
			}
		}
	}
	b.Write(")")
	return nil
}

func superClassExpr(s *scope.Scope) string {
	def := s.ClassDef()
	if def == nil {
		return "self.isa.super_class"
	}
	if m := s.MethodScope(); m != nil && m.MethodType == "+" {
		return "objj_getMetaClass(" + q(def.Name) + ").super_class"
	}
	return "objj_getClass(" + q(def.Name) + ").super_class"
}

func selectorLiteral(c *compiler.Compiler, n ast.Node, _ *scope.Scope) error {
	c.Buffer().Write("sel_getUid(" + q(n.(*ast.SelectorLiteral).Selector) + ")")
	return nil
}

func protocolLiteral(c *compiler.Compiler, n ast.Node, _ *scope.Scope) error {
	lit := n.(*ast.ProtocolLiteral)
	if c.Registries().ProtocolDef(lit.Name.Name) == nil {
		msg := "cannot find protocol declaration for '" + lit.Name.Name + "'"
		if alt := c.Registries().SuggestProtocol(lit.Name.Name); alt != "" {
			msg += "; did you mean '" + alt + "'?"
		}
		if err := c.AddWarning(diag.SemProtocolUnknownInLiteral, lit.Name, "%s", msg).Emit(); err != nil {
			return err
		}
	}
	c.Buffer().Write("objj_getProtocol(" + q(lit.Name.Name) + ")")
	return nil
}

func elementList(c *compiler.Compiler, elems []ast.Node, s *scope.Scope) error {
	b := c.Buffer()
	b.Write("[")
	if err := arguments(c, elems, s); err != nil {
		return err
	}
	b.Write("]")
	return nil
}

func arrayLiteral(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	lit := n.(*ast.ArrayLiteral)
	b := c.Buffer()
	b.Write(`objj_msgSend(objj_msgSend(CPArray, "alloc"), "initWithObjects:count:", `)
	if err := elementList(c, lit.Elements, s); err != nil {
		return err
	}
	b.Write(", " + strconv.Itoa(len(lit.Elements)) + ")")
	return nil
}

func dictionaryLiteral(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	lit := n.(*ast.DictionaryLiteral)
	b := c.Buffer()
	b.Write(`objj_msgSend(objj_msgSend(CPDictionary, "alloc"), "initWithObjects:forKeys:", `)
	if err := elementList(c, lit.Values, s); err != nil {
		return err
	}
	b.Write(", ")
	if err := elementList(c, lit.Keys, s); err != nil {
		return err
	}
	b.Write(")")
	return nil
}

// reference turns @ref(x) into a getter/setter closure over x.
func reference(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	ref := n.(*ast.Reference)
	b := c.Buffer()
	b.Write("function(__input) { if (arguments.length) return ")
	if err := compileAssignTarget(c, ref.Element, s); err != nil {
		return err
	}
	b.Write(" = __input; return ")
	if err := c.CompileNode(ref.Element, s); err != nil {
		return err
	}
	b.Write("; }")
	return nil
}

func dereference(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	d := n.(*ast.Dereference)
	if err := compileWrapped(c, d.Expression, s, calleeNeedsParens(d.Expression)); err != nil {
		return err
	}
	c.Buffer().Write("()")
	return nil
}

func calleeNeedsParens(n ast.Node) bool {
	p, ok := expressionPrecedence[n.Kind()]
	return ok && p > expressionPrecedence[ast.KindCallExpression]
}

func importStatement(c *compiler.Compiler, n ast.Node, _ *scope.Scope) error {
	imp := n.(*ast.ImportStatement)
	c.AddDependency(imp)
	local := "NO"
	if imp.Local {
		local = "YES"
	}
	c.Buffer().Write("objj_executeFile(" + q(imp.Filename) + ", " + local + ");")
	return nil
}

// classStatement records an @class forward declaration; it emits nothing.
func classStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	st := n.(*ast.ClassStatement)
	unique, err := c.IsUniqueGlobalSymbol(st, s, st.ID)
	if err != nil || !unique {
		return err
	}
	c.Registries().AddClassDef(st.ID.Name, symbols.NewForwardClassDef(c.Decl(st), st.ID.Name))
	return nil
}

// globalStatement declares an @global; it emits nothing.
func globalStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	st := n.(*ast.GlobalStatement)
	unique, err := c.IsUniqueGlobalSymbol(st, s, st.ID)
	if err != nil || !unique {
		return err
	}
	s.DeclareGlobal(st.ID.Name, &scope.Binding{Kind: scope.AtGlobal, Node: st.ID, Scope: s.Root()})
	return nil
}

func typeDefStatement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	st := n.(*ast.TypeDefStatement)
	unique, err := c.IsUniqueGlobalSymbol(st, s, st.ID)
	if err != nil {
		return err
	}
	if unique {
		c.Registries().AddTypeDef(&symbols.TypeDef{Decl: c.Decl(st), Name: st.ID.Name})
	}
	b := c.Buffer()
	b.Mark(st.Start)
	b.Write("{var the_typedef = objj_allocateTypeDef(" + q(st.ID.Name) + ");")
	b.Newline()
	b.Write("objj_registerTypeDef(the_typedef);")
	b.Newline()
	b.Write("}")
	return nil
}
