// Package scope implements the scope chain the compiler resolves
// identifiers against.
//
// Scopes form a pure tree: a child points at its parent and nothing points
// back. The root (global) scope doubles as the table of globals, including
// implicit globals created by assignment inside functions and methods.
package scope

import (
	"ojc/internal/ast"
	"ojc/internal/format"
	"ojc/internal/symbols"
)

// Kind classifies a scope.
type Kind uint8

const (
	KindGlobal Kind = iota
	KindClass
	KindProtocol
	KindFunction
	KindMethod
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindClass:
		return "class"
	case KindProtocol:
		return "protocol"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindBlock:
		return "block"
	}
	return "invalid"
}

// BindingKind says how a name was introduced.
type BindingKind uint8

const (
	GlobalVar BindingKind = iota
	AtGlobal
	ImplicitGlobal
	LocalVar
	FunctionParam
	MethodParam
	// FileVar is a "var" at the top level of a file.
	FileVar
)

func (k BindingKind) String() string {
	switch k {
	case GlobalVar:
		return "global var"
	case AtGlobal:
		return "@global"
	case ImplicitGlobal:
		return "implicit global"
	case LocalVar:
		return "local var"
	case FunctionParam:
		return "function parameter"
	case MethodParam:
		return "method parameter"
	case FileVar:
		return "file var"
	}
	return "unknown"
}

// Description is the phrase used when a declaration hides this binding.
func (k BindingKind) Description() string {
	switch k {
	case GlobalVar, AtGlobal:
		return "a global"
	case ImplicitGlobal:
		return "an implicitly declared global"
	case LocalVar:
		return "a variable in a containing closure"
	case FunctionParam:
		return "a function parameter"
	case MethodParam:
		return "a method parameter"
	case FileVar:
		return "a file variable"
	}
	return "a variable"
}

// IsGlobal reports whether bindings of this kind live in the root scope.
func (k BindingKind) IsGlobal() bool {
	return k == GlobalVar || k == AtGlobal || k == ImplicitGlobal
}

// Binding is what a name resolves to.
type Binding struct {
	Kind BindingKind
	Node ast.Node
	// Scope is the scope that created the binding. For globals this is the
	// scope the assignment happened in, not the root.
	Scope *Scope
}

// IvarRef is emitted "self." text for a bare ivar reference, kept so it
// can be retracted if a later var declaration turns the name local.
type IvarRef struct {
	Node ast.Node
	Buf  *format.Buffer
	Span format.SpanID
	// From is the var scope the reference was written in.
	From *Scope
}

// Scope is one link of the chain.
type Scope struct {
	Kind   Kind
	Parent *Scope

	vars     map[string]*Binding
	ivarRefs map[string][]IvarRef

	// Walk state, set by the code generator while it compiles the subtree
	// this scope belongs to.
	Assignment   bool // compiling the target of a plain "="
	Receiver     bool // compiling the receiver of a message send
	MemberParent bool // compiling the object of a member expression
	FunctionName string
	Selector     string
	MethodType   string // "+" or "-"
	Class        *symbols.ClassDef
}

// New creates a scope under parent (nil for the global scope).
func New(kind Kind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent, vars: make(map[string]*Binding)}
}

// NewGlobal creates a root scope.
func NewGlobal() *Scope { return New(KindGlobal, nil) }

// Var resolves name outward through the chain.
func (s *Scope) Var(name string) *Binding {
	for cur := s; cur != nil; cur = cur.Parent {
		if b, ok := cur.vars[name]; ok {
			return b
		}
	}
	return nil
}

// Own returns the binding declared in s itself.
func (s *Scope) Own(name string) *Binding {
	return s.vars[name]
}

// GlobalVar looks only at the root.
func (s *Scope) GlobalVar(name string) *Binding {
	return s.Root().vars[name]
}

// Declare binds name in s. The binding's Scope is set to s when empty.
func (s *Scope) Declare(name string, b *Binding) {
	if b.Scope == nil {
		b.Scope = s
	}
	s.vars[name] = b
}

// DeclareGlobal binds name in the root scope; b.Scope keeps the scope the
// caller passes (usually the one where the assignment happened).
func (s *Scope) DeclareGlobal(name string, b *Binding) {
	if b.Scope == nil {
		b.Scope = s
	}
	s.Root().vars[name] = b
}

// DeleteGlobal removes name from the root scope.
func (s *Scope) DeleteGlobal(name string) {
	delete(s.Root().vars, name)
}

// IsLocalVarScope reports whether s is a function or method scope, the
// boundary past which an undeclared assignment creates a global.
func (s *Scope) IsLocalVarScope() bool {
	return s.Kind == KindFunction || s.Kind == KindMethod
}

// Root walks to the global scope.
func (s *Scope) Root() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// VarScope returns the nearest scope that owns "var" declarations: a
// function, a method, or the root.
func (s *Scope) VarScope() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.IsLocalVarScope() || cur.Parent == nil {
			return cur
		}
	}
	return s
}

// MethodScope returns the nearest enclosing method scope or nil.
func (s *Scope) MethodScope() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == KindMethod {
			return cur
		}
	}
	return nil
}

// ClassDef returns the class being compiled, or nil outside a class.
func (s *Scope) ClassDef() *symbols.ClassDef {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Class != nil {
			return cur.Class
		}
	}
	return nil
}

// CurrentFunctionName is the innermost function name, or "".
func (s *Scope) CurrentFunctionName() string {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == KindFunction {
			return cur.FunctionName
		}
		if cur.Kind == KindMethod {
			return ""
		}
	}
	return ""
}

// CurrentSelector is the selector of the innermost method, or "".
func (s *Scope) CurrentSelector() string {
	if m := s.MethodScope(); m != nil {
		return m.Selector
	}
	return ""
}

// InInstanceMethod reports whether s is inside a "-" method.
func (s *Scope) InInstanceMethod() bool {
	m := s.MethodScope()
	return m != nil && m.MethodType == "-"
}

// AddIvarRef records ref under name in s.
func (s *Scope) AddIvarRef(name string, ref IvarRef) {
	if s.ivarRefs == nil {
		s.ivarRefs = make(map[string][]IvarRef)
	}
	s.ivarRefs[name] = append(s.ivarRefs[name], ref)
}

// IvarRefs returns the refs recorded under name in s.
func (s *Scope) IvarRefs(name string) []IvarRef {
	return s.ivarRefs[name]
}

// KeepIvarRefs replaces the refs recorded under name in s.
func (s *Scope) KeepIvarRefs(name string, refs []IvarRef) {
	if len(refs) == 0 {
		delete(s.ivarRefs, name)
		return
	}
	s.ivarRefs[name] = refs
}

// Encloses reports whether inner is s or nested somewhere below it.
func (s *Scope) Encloses(inner *Scope) bool {
	for cur := inner; cur != nil; cur = cur.Parent {
		if cur == s {
			return true
		}
	}
	return false
}

// Names returns the names bound in s itself.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.vars))
	for name := range s.vars {
		out = append(out, name)
	}
	return out
}
