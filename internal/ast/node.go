package ast

// Pos is the half-open byte range [Start, End) a node covers in its source file.
type Pos struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// Range returns the node's byte range.
func (p Pos) Range() Pos { return p }

// Node is implemented by every syntax tree node. Nodes are always pointers,
// so a Node value also serves as the node's identity.
type Node interface {
	Kind() Kind
	Range() Pos
}

// Comment is a source comment reported by the parser alongside the tree.
type Comment struct {
	Pos
	Block bool
	Value string
}

type (
	Program struct {
		Pos
		Body []Node
	}

	EmptyStatement struct{ Pos }

	BlockStatement struct {
		Pos
		Body []Node
	}

	ExpressionStatement struct {
		Pos
		Expression Node
	}

	IfStatement struct {
		Pos
		Test       Node
		Consequent Node
		Alternate  Node
	}

	LabeledStatement struct {
		Pos
		Label *Identifier
		Body  Node
	}

	BreakStatement struct {
		Pos
		Label *Identifier
	}

	ContinueStatement struct {
		Pos
		Label *Identifier
	}

	SwitchStatement struct {
		Pos
		Discriminant Node
		Cases        []*SwitchCase
	}

	SwitchCase struct {
		Pos
		Test       Node // nil for default
		Consequent []Node
	}

	ReturnStatement struct {
		Pos
		Argument Node
	}

	ThrowStatement struct {
		Pos
		Argument Node
	}

	TryStatement struct {
		Pos
		Block     *BlockStatement
		Handler   *CatchClause
		Finalizer *BlockStatement
	}

	CatchClause struct {
		Pos
		Param *Identifier
		Body  *BlockStatement
	}

	WhileStatement struct {
		Pos
		Test Node
		Body Node
	}

	DoWhileStatement struct {
		Pos
		Body Node
		Test Node
	}

	ForStatement struct {
		Pos
		Init   Node
		Test   Node
		Update Node
		Body   Node
	}

	ForInStatement struct {
		Pos
		Left  Node
		Right Node
		Body  Node
	}

	DebuggerStatement struct{ Pos }

	FunctionDeclaration struct {
		Pos
		ID     *Identifier
		Params []*Identifier
		Body   *BlockStatement
	}

	FunctionExpression struct {
		Pos
		ID     *Identifier
		Params []*Identifier
		Body   *BlockStatement
	}

	VariableDeclaration struct {
		Pos
		DeclKind     string // "var"
		Declarations []*VariableDeclarator
	}

	VariableDeclarator struct {
		Pos
		ID   *Identifier
		Init Node
	}

	ThisExpression struct{ Pos }

	ArrayExpression struct {
		Pos
		Elements []Node // nil entries are holes
	}

	ObjectExpression struct {
		Pos
		Properties []*Property
	}

	Property struct {
		Pos
		Key      Node
		Value    Node
		Computed bool
		PropKind string // "init", "get", "set"
	}

	SequenceExpression struct {
		Pos
		Expressions []Node
	}

	UnaryExpression struct {
		Pos
		Operator string
		Prefix   bool
		Argument Node
	}

	BinaryExpression struct {
		Pos
		Operator string
		Left     Node
		Right    Node
	}

	AssignmentExpression struct {
		Pos
		Operator string
		Left     Node
		Right    Node
	}

	UpdateExpression struct {
		Pos
		Operator string
		Prefix   bool
		Argument Node
	}

	LogicalExpression struct {
		Pos
		Operator string
		Left     Node
		Right    Node
	}

	ConditionalExpression struct {
		Pos
		Test       Node
		Consequent Node
		Alternate  Node
	}

	NewExpression struct {
		Pos
		Callee    Node
		Arguments []Node
	}

	CallExpression struct {
		Pos
		Callee    Node
		Arguments []Node
	}

	MemberExpression struct {
		Pos
		Object   Node
		Property Node
		Computed bool
	}

	Identifier struct {
		Pos
		Name string
	}

	// Literal keeps the raw source text; Value is the decoded value
	// (string, float64, bool or nil).
	Literal struct {
		Pos
		Value any
		Raw   string
		Regex *RegexLiteral
	}

	RegexLiteral struct {
		Pattern string
		Flags   string
	}
)

func (*Program) Kind() Kind               { return KindProgram }
func (*EmptyStatement) Kind() Kind        { return KindEmptyStatement }
func (*BlockStatement) Kind() Kind        { return KindBlockStatement }
func (*ExpressionStatement) Kind() Kind   { return KindExpressionStatement }
func (*IfStatement) Kind() Kind           { return KindIfStatement }
func (*LabeledStatement) Kind() Kind      { return KindLabeledStatement }
func (*BreakStatement) Kind() Kind        { return KindBreakStatement }
func (*ContinueStatement) Kind() Kind     { return KindContinueStatement }
func (*SwitchStatement) Kind() Kind       { return KindSwitchStatement }
func (*SwitchCase) Kind() Kind            { return KindSwitchCase }
func (*ReturnStatement) Kind() Kind       { return KindReturnStatement }
func (*ThrowStatement) Kind() Kind        { return KindThrowStatement }
func (*TryStatement) Kind() Kind          { return KindTryStatement }
func (*CatchClause) Kind() Kind           { return KindCatchClause }
func (*WhileStatement) Kind() Kind        { return KindWhileStatement }
func (*DoWhileStatement) Kind() Kind      { return KindDoWhileStatement }
func (*ForStatement) Kind() Kind          { return KindForStatement }
func (*ForInStatement) Kind() Kind        { return KindForInStatement }
func (*DebuggerStatement) Kind() Kind     { return KindDebuggerStatement }
func (*FunctionDeclaration) Kind() Kind   { return KindFunctionDeclaration }
func (*FunctionExpression) Kind() Kind    { return KindFunctionExpression }
func (*VariableDeclaration) Kind() Kind   { return KindVariableDeclaration }
func (*VariableDeclarator) Kind() Kind    { return KindVariableDeclarator }
func (*ThisExpression) Kind() Kind        { return KindThisExpression }
func (*ArrayExpression) Kind() Kind       { return KindArrayExpression }
func (*ObjectExpression) Kind() Kind      { return KindObjectExpression }
func (*Property) Kind() Kind              { return KindProperty }
func (*SequenceExpression) Kind() Kind    { return KindSequenceExpression }
func (*UnaryExpression) Kind() Kind       { return KindUnaryExpression }
func (*BinaryExpression) Kind() Kind      { return KindBinaryExpression }
func (*AssignmentExpression) Kind() Kind  { return KindAssignmentExpression }
func (*UpdateExpression) Kind() Kind      { return KindUpdateExpression }
func (*LogicalExpression) Kind() Kind     { return KindLogicalExpression }
func (*ConditionalExpression) Kind() Kind { return KindConditionalExpression }
func (*NewExpression) Kind() Kind         { return KindNewExpression }
func (*CallExpression) Kind() Kind        { return KindCallExpression }
func (*MemberExpression) Kind() Kind      { return KindMemberExpression }
func (*Identifier) Kind() Kind            { return KindIdentifier }
func (*Literal) Kind() Kind               { return KindLiteral }

// SetRange overwrites the node's byte range.
func (p *Pos) SetRange(start, end uint32) {
	p.Start, p.End = start, end
}
