// Package codegen holds the rule table that turns an Objective-J syntax
// tree into JavaScript for the objj runtime.
package codegen

import (
	"math"

	"ojc/internal/ast"
	"ojc/internal/compiler"
	"ojc/internal/scope"
)

var table = compiler.Rules{
	ast.KindStatement: statement,

	ast.KindProgram:             program,
	ast.KindEmptyStatement:      emptyStatement,
	ast.KindBlockStatement:      blockStatement,
	ast.KindExpressionStatement: expressionStatement,
	ast.KindIfStatement:         ifStatement,
	ast.KindLabeledStatement:    labeledStatement,
	ast.KindBreakStatement:      breakStatement,
	ast.KindContinueStatement:   continueStatement,
	ast.KindSwitchStatement:     switchStatement,
	ast.KindSwitchCase:          switchCase,
	ast.KindReturnStatement:     returnStatement,
	ast.KindThrowStatement:      throwStatement,
	ast.KindTryStatement:        tryStatement,
	ast.KindCatchClause:         catchClause,
	ast.KindWhileStatement:      whileStatement,
	ast.KindDoWhileStatement:    doWhileStatement,
	ast.KindForStatement:        forStatement,
	ast.KindForInStatement:      forInStatement,
	ast.KindDebuggerStatement:   debuggerStatement,
	ast.KindFunctionDeclaration: functionDeclaration,
	ast.KindVariableDeclaration: variableDeclaration,
	ast.KindVariableDeclarator:  variableDeclarator,

	ast.KindFunctionExpression:    functionExpression,
	ast.KindThisExpression:        thisExpression,
	ast.KindArrayExpression:       arrayExpression,
	ast.KindObjectExpression:      objectExpression,
	ast.KindProperty:              property,
	ast.KindSequenceExpression:    sequenceExpression,
	ast.KindUnaryExpression:       unaryExpression,
	ast.KindBinaryExpression:      binaryExpression,
	ast.KindAssignmentExpression:  assignmentExpression,
	ast.KindUpdateExpression:      updateExpression,
	ast.KindLogicalExpression:     logicalExpression,
	ast.KindConditionalExpression: conditionalExpression,
	ast.KindNewExpression:         newExpression,
	ast.KindCallExpression:        callExpression,
	ast.KindMemberExpression:      memberExpression,
	ast.KindIdentifier:            identifier,
	ast.KindLiteral:               literal,

	ast.KindClassDeclaration:    classDeclaration,
	ast.KindProtocolDeclaration: protocolDeclaration,
	ast.KindIvarDeclaration:     ivarDeclaration,
	ast.KindMethodDeclaration:   methodDeclaration,
	ast.KindObjJType:            objjType,
	ast.KindMessageSend:         messageSend,
	ast.KindSelectorLiteral:     selectorLiteral,
	ast.KindProtocolLiteral:     protocolLiteral,
	ast.KindArrayLiteral:        arrayLiteral,
	ast.KindDictionaryLiteral:   dictionaryLiteral,
	ast.KindReference:           reference,
	ast.KindDereference:         dereference,
	ast.KindImportStatement:     importStatement,
	ast.KindClassStatement:      classStatement,
	ast.KindGlobalStatement:     globalStatement,
	ast.KindTypeDefStatement:    typeDefStatement,
}

func init() {
	if err := table.Validate(); err != nil {
		panic(err)
	}
}

// Rules returns a copy of the objj rule table. Callers may replace
// entries to customize output.
func Rules() *compiler.Rules {
	t := table
	return &t
}

// statement compiles n in statement position: pending comments first,
// then the node, then the terminator a bare declaration needs.
func statement(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	writeComments(c, n.Range().Start)
	b := c.Buffer()
	b.Mark(n.Range().Start)
	if err := c.CompileNode(n, s); err != nil {
		return err
	}
	if n.Kind() == ast.KindVariableDeclaration {
		c.Buffer().Write(";")
	}
	c.Buffer().Newline()
	return nil
}

func statements(c *compiler.Compiler, body []ast.Node, s *scope.Scope) error {
	for _, n := range body {
		if err := c.CompileNodeAs(n, s, ast.KindStatement); err != nil {
			return err
		}
	}
	return nil
}

func writeComments(c *compiler.Compiler, off uint32) {
	if !c.Options().IncludeComments {
		return
	}
	b := c.Buffer()
	for _, cm := range c.PendingComments(off) {
		if cm.Block {
			b.Write("/*" + cm.Value + "*/")
		} else {
			b.Write("//" + cm.Value)
		}
		b.Newline()
	}
}

func program(c *compiler.Compiler, n ast.Node, s *scope.Scope) error {
	p := n.(*ast.Program)
	if err := statements(c, p.Body, s); err != nil {
		return err
	}
	writeComments(c, math.MaxUint32)
	c.FilterIdentifierIssues(s)
	return nil
}
