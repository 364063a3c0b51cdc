package codegen

import "ojc/internal/ast"

// Binding strength of binary and logical operators; lower binds tighter.
var operatorPrecedence = map[string]int{
	"*": 3, "/": 3, "%": 3,
	"+": 4, "-": 4,
	"<<": 5, ">>": 5, ">>>": 5,
	"<": 6, "<=": 6, ">": 6, ">=": 6, "in": 6, "instanceof": 6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"&":  8,
	"^":  9,
	"|":  10,
	"&&": 11,
	"||": 12,
}

// Binding strength of expression kinds; kinds not listed never need
// parentheses.
var expressionPrecedence = map[ast.Kind]int{
	ast.KindMemberExpression:      0,
	ast.KindCallExpression:        1,
	ast.KindMessageSend:           1,
	ast.KindNewExpression:         2,
	ast.KindFunctionExpression:    3,
	ast.KindUnaryExpression:       4,
	ast.KindUpdateExpression:      4,
	ast.KindBinaryExpression:      5,
	ast.KindLogicalExpression:     6,
	ast.KindConditionalExpression: 7,
	ast.KindAssignmentExpression:  8,
	ast.KindSequenceExpression:    9,
}

func operatorOf(n ast.Node) string {
	switch x := n.(type) {
	case *ast.BinaryExpression:
		return x.Operator
	case *ast.LogicalExpression:
		return x.Operator
	}
	return ""
}

// subnodeHasPrecedence reports whether subnode must be parenthesized as an
// operand of node. A right operand of equal operator precedence is
// parenthesized too, preserving left associativity.
func subnodeHasPrecedence(node, subnode ast.Node, right bool) bool {
	sub, ok := expressionPrecedence[subnode.Kind()]
	if !ok {
		return false
	}
	outer, ok := expressionPrecedence[node.Kind()]
	if !ok {
		return false
	}
	if sub > outer {
		return true
	}
	if sub != outer {
		return false
	}
	switch node.Kind() {
	case ast.KindBinaryExpression, ast.KindLogicalExpression:
		op, subOp := operatorPrecedence[operatorOf(node)], operatorPrecedence[operatorOf(subnode)]
		return subOp > op || (right && subOp == op)
	}
	return false
}
