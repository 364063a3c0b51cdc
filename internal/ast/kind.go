package ast

import "fmt"

// Kind is the closed set of node types the compiler understands.
// The parser names each kind by its ESTree type string; Objective-J
// extensions carry the "objj_" prefix.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindProgram
	KindEmptyStatement
	KindBlockStatement
	KindExpressionStatement
	KindIfStatement
	KindLabeledStatement
	KindBreakStatement
	KindContinueStatement
	KindSwitchStatement
	KindSwitchCase
	KindReturnStatement
	KindThrowStatement
	KindTryStatement
	KindCatchClause
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindForInStatement
	KindDebuggerStatement
	KindFunctionDeclaration
	KindVariableDeclaration
	KindVariableDeclarator
	KindFunctionExpression
	KindThisExpression
	KindArrayExpression
	KindObjectExpression
	KindProperty
	KindSequenceExpression
	KindUnaryExpression
	KindBinaryExpression
	KindAssignmentExpression
	KindUpdateExpression
	KindLogicalExpression
	KindConditionalExpression
	KindNewExpression
	KindCallExpression
	KindMemberExpression
	KindIdentifier
	KindLiteral

	KindClassDeclaration
	KindProtocolDeclaration
	KindIvarDeclaration
	KindMethodDeclaration
	KindObjJType
	KindMessageSend
	KindSelectorLiteral
	KindProtocolLiteral
	KindArrayLiteral
	KindDictionaryLiteral
	KindReference
	KindDereference
	KindImportStatement
	KindClassStatement
	KindGlobalStatement
	KindTypeDefStatement

	// KindStatement is virtual: no node carries it. It is passed as an
	// override to compile an expression or declaration in statement position.
	KindStatement

	KindCount
)

var kindNames = [KindCount]string{
	KindInvalid:               "Invalid",
	KindProgram:               "Program",
	KindEmptyStatement:        "EmptyStatement",
	KindBlockStatement:        "BlockStatement",
	KindExpressionStatement:   "ExpressionStatement",
	KindIfStatement:           "IfStatement",
	KindLabeledStatement:      "LabeledStatement",
	KindBreakStatement:        "BreakStatement",
	KindContinueStatement:     "ContinueStatement",
	KindSwitchStatement:       "SwitchStatement",
	KindSwitchCase:            "SwitchCase",
	KindReturnStatement:       "ReturnStatement",
	KindThrowStatement:        "ThrowStatement",
	KindTryStatement:          "TryStatement",
	KindCatchClause:           "CatchClause",
	KindWhileStatement:        "WhileStatement",
	KindDoWhileStatement:      "DoWhileStatement",
	KindForStatement:          "ForStatement",
	KindForInStatement:        "ForInStatement",
	KindDebuggerStatement:     "DebuggerStatement",
	KindFunctionDeclaration:   "FunctionDeclaration",
	KindVariableDeclaration:   "VariableDeclaration",
	KindVariableDeclarator:    "VariableDeclarator",
	KindFunctionExpression:    "FunctionExpression",
	KindThisExpression:        "ThisExpression",
	KindArrayExpression:       "ArrayExpression",
	KindObjectExpression:      "ObjectExpression",
	KindProperty:              "Property",
	KindSequenceExpression:    "SequenceExpression",
	KindUnaryExpression:       "UnaryExpression",
	KindBinaryExpression:      "BinaryExpression",
	KindAssignmentExpression:  "AssignmentExpression",
	KindUpdateExpression:      "UpdateExpression",
	KindLogicalExpression:     "LogicalExpression",
	KindConditionalExpression: "ConditionalExpression",
	KindNewExpression:         "NewExpression",
	KindCallExpression:        "CallExpression",
	KindMemberExpression:      "MemberExpression",
	KindIdentifier:            "Identifier",
	KindLiteral:               "Literal",
	KindClassDeclaration:      "objj_ClassDeclaration",
	KindProtocolDeclaration:   "objj_ProtocolDeclaration",
	KindIvarDeclaration:       "objj_IvarDeclaration",
	KindMethodDeclaration:     "objj_MethodDeclaration",
	KindObjJType:              "objj_ObjectiveJType",
	KindMessageSend:           "objj_MessageSendExpression",
	KindSelectorLiteral:       "objj_SelectorLiteralExpression",
	KindProtocolLiteral:       "objj_ProtocolLiteralExpression",
	KindArrayLiteral:          "objj_ArrayLiteral",
	KindDictionaryLiteral:     "objj_DictionaryLiteral",
	KindReference:             "objj_Reference",
	KindDereference:           "objj_Dereference",
	KindImportStatement:       "objj_ImportStatement",
	KindClassStatement:        "objj_ClassStatement",
	KindGlobalStatement:       "objj_GlobalStatement",
	KindTypeDefStatement:      "objj_TypeDefStatement",
	KindStatement:             "Statement",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, KindCount)
	for k := KindInvalid + 1; k < KindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

func (k Kind) String() string {
	if k < KindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a parser type string to a Kind. Virtual kinds are not
// accepted: no parser produces them.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	if !ok || k.Virtual() {
		return KindInvalid, false
	}
	return k, true
}

// Virtual reports whether k exists only as a dispatch override.
func (k Kind) Virtual() bool {
	return k == KindStatement
}

// IsObjJ reports whether k is an Objective-J extension node.
func (k Kind) IsObjJ() bool {
	return k >= KindClassDeclaration && k <= KindTypeDefStatement
}
