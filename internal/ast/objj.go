package ast

// Objective-J nodes. The parser delivers their semantic annotations in a
// side object named "objj"; the decoder flattens it into the fields below.

type (
	// ObjJType is a declared type such as "int", "CPString" or "id<Proto>".
	ObjJType struct {
		Pos
		Name      string
		IsClass   bool // not a predefined scalar type
		Protocols []*Identifier
	}

	// Accessors is the @accessors(...) descriptor of an ivar.
	Accessors struct {
		Property  *Identifier
		Getter    *Identifier
		Setter    *Identifier
		Readonly  bool
		Readwrite bool
		Copy      bool
	}

	IvarDeclaration struct {
		Pos
		Type      *ObjJType
		ID        *Identifier
		Accessors *Accessors
		IsOutlet  bool
	}

	MethodParam struct {
		Type *ObjJType // nil means untyped ("id")
		ID   *Identifier
	}

	MethodDeclaration struct {
		Pos
		MethodType   string // "+" or "-"
		ReturnType   *ObjJType
		Selectors    []*Identifier // entries after the first may be nil for bare ':'
		Params       []*MethodParam
		TakesVarArgs bool
		Action       bool
		Body         *BlockStatement // nil in protocols
	}

	ClassDeclaration struct {
		Pos
		Name       *Identifier
		Superclass *Identifier
		Category   *Identifier
		Protocols  []*Identifier
		Ivars      []*IvarDeclaration
		Body       []Node
	}

	ProtocolDeclaration struct {
		Pos
		Name      *Identifier
		Protocols []*Identifier
		Required  []*MethodDeclaration
		Optional  []*MethodDeclaration
	}

	MessageSend struct {
		Pos
		Receiver    Node // nil when SuperObject is set
		SuperObject bool
		Selectors   []*Identifier
		Arguments   []Node
		Parameters  []Node // trailing varargs
	}

	SelectorLiteral struct {
		Pos
		Selector string
	}

	ProtocolLiteral struct {
		Pos
		Name *Identifier
	}

	ArrayLiteral struct {
		Pos
		Elements []Node
	}

	DictionaryLiteral struct {
		Pos
		Keys   []Node
		Values []Node
	}

	Reference struct {
		Pos
		Element *Identifier
	}

	Dereference struct {
		Pos
		Expression Node
	}

	ImportStatement struct {
		Pos
		Filename string
		Local    bool // "file.j" rather than <Framework/file.j>
	}

	ClassStatement struct {
		Pos
		ID *Identifier
	}

	GlobalStatement struct {
		Pos
		ID *Identifier
	}

	TypeDefStatement struct {
		Pos
		ID *Identifier
	}
)

func (*ObjJType) Kind() Kind            { return KindObjJType }
func (*IvarDeclaration) Kind() Kind     { return KindIvarDeclaration }
func (*MethodDeclaration) Kind() Kind   { return KindMethodDeclaration }
func (*ClassDeclaration) Kind() Kind    { return KindClassDeclaration }
func (*ProtocolDeclaration) Kind() Kind { return KindProtocolDeclaration }
func (*MessageSend) Kind() Kind         { return KindMessageSend }
func (*SelectorLiteral) Kind() Kind     { return KindSelectorLiteral }
func (*ProtocolLiteral) Kind() Kind     { return KindProtocolLiteral }
func (*ArrayLiteral) Kind() Kind        { return KindArrayLiteral }
func (*DictionaryLiteral) Kind() Kind   { return KindDictionaryLiteral }
func (*Reference) Kind() Kind           { return KindReference }
func (*Dereference) Kind() Kind         { return KindDereference }
func (*ImportStatement) Kind() Kind     { return KindImportStatement }
func (*ClassStatement) Kind() Kind      { return KindClassStatement }
func (*GlobalStatement) Kind() Kind     { return KindGlobalStatement }
func (*TypeDefStatement) Kind() Kind    { return KindTypeDefStatement }

// TypeName returns the declared type name, "id" when the type is absent.
func (t *ObjJType) TypeName() string {
	if t == nil || t.Name == "" {
		return "id"
	}
	return t.Name
}

// IsCategory reports whether the declaration is a category on an existing class.
func (c *ClassDeclaration) IsCategory() bool {
	return c.Category != nil
}
