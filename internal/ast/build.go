package ast

import (
	"strconv"
	"strings"
)

// Constructors for hand-built trees (tests, synthesized code). Positions
// default to zero; use At to place a node.

// At sets the byte range of n and returns it.
func At[T interface {
	Node
	SetRange(start, end uint32)
}](n T, start, end uint32) T {
	n.SetRange(start, end)
	return n
}

func Ident(name string) *Identifier { return &Identifier{Name: name} }

func Prog(body ...Node) *Program { return &Program{Body: body} }

func Block(body ...Node) *BlockStatement { return &BlockStatement{Body: body} }

func ExprStmt(e Node) *ExpressionStatement { return &ExpressionStatement{Expression: e} }

func Assign(left, right Node) *AssignmentExpression {
	return &AssignmentExpression{Operator: "=", Left: left, Right: right}
}

func Seq(exprs ...Node) *SequenceExpression { return &SequenceExpression{Expressions: exprs} }

func Var(decls ...*VariableDeclarator) *VariableDeclaration {
	return &VariableDeclaration{DeclKind: "var", Declarations: decls}
}

func Decl(name string, init Node) *VariableDeclarator {
	return &VariableDeclarator{ID: Ident(name), Init: init}
}

func Num(v float64) *Literal {
	return &Literal{Value: v, Raw: strconv.FormatFloat(v, 'g', -1, 64)}
}

func Str(s string) *Literal {
	return &Literal{Value: s, Raw: strconv.Quote(s)}
}

func Bool(b bool) *Literal {
	return &Literal{Value: b, Raw: strconv.FormatBool(b)}
}

func Null() *Literal { return &Literal{Raw: "null"} }

func This() *ThisExpression { return &ThisExpression{} }

func Return(arg Node) *ReturnStatement { return &ReturnStatement{Argument: arg} }

func Call(callee Node, args ...Node) *CallExpression {
	return &CallExpression{Callee: callee, Arguments: args}
}

func Member(object Node, property string) *MemberExpression {
	return &MemberExpression{Object: object, Property: Ident(property)}
}

func Binary(op string, left, right Node) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

func Func(name string, params []string, body ...Node) *FunctionDeclaration {
	fn := &FunctionDeclaration{Body: Block(body...)}
	if name != "" {
		fn.ID = Ident(name)
	}
	for _, p := range params {
		fn.Params = append(fn.Params, Ident(p))
	}
	return fn
}

func FuncExpr(params []string, body ...Node) *FunctionExpression {
	fn := &FunctionExpression{Body: Block(body...)}
	for _, p := range params {
		fn.Params = append(fn.Params, Ident(p))
	}
	return fn
}

// Type builds an Objective-J type. Names that are not predefined scalar types
// are flagged as class types.
func Type(name string) *ObjJType {
	return &ObjJType{Name: name, IsClass: !IsPredefinedType(name)}
}

func Ivar(typeName, name string, accessors *Accessors) *IvarDeclaration {
	return &IvarDeclaration{Type: Type(typeName), ID: Ident(name), Accessors: accessors}
}

func Param(typeName, name string) *MethodParam {
	p := &MethodParam{ID: Ident(name)}
	if typeName != "" {
		p.Type = Type(typeName)
	}
	return p
}

// Method builds a method declaration from a selector such as "setX:y:".
// Selector parts are split on ':'; params are matched in order.
func Method(methodType, returnType, selector string, params []*MethodParam, body ...Node) *MethodDeclaration {
	m := &MethodDeclaration{MethodType: methodType, Params: params}
	if returnType != "" {
		m.ReturnType = Type(returnType)
	}
	if strings.Contains(selector, ":") {
		parts := strings.Split(strings.TrimSuffix(selector, ":"), ":")
		for _, part := range parts {
			if part == "" {
				m.Selectors = append(m.Selectors, nil)
				continue
			}
			m.Selectors = append(m.Selectors, Ident(part))
		}
	} else {
		m.Selectors = []*Identifier{Ident(selector)}
	}
	m.Body = Block(body...)
	return m
}

// Prototype builds a bodiless method declaration as found in protocols.
func Prototype(methodType, returnType, selector string, params ...*MethodParam) *MethodDeclaration {
	m := Method(methodType, returnType, selector, params)
	m.Body = nil
	return m
}

func Class(name, superclass string, ivars []*IvarDeclaration, body ...Node) *ClassDeclaration {
	c := &ClassDeclaration{Name: Ident(name), Ivars: ivars, Body: body}
	if superclass != "" {
		c.Superclass = Ident(superclass)
	}
	return c
}

func Category(name, category string, body ...Node) *ClassDeclaration {
	return &ClassDeclaration{Name: Ident(name), Category: Ident(category), Body: body}
}

func Protocol(name string, required, optional []*MethodDeclaration) *ProtocolDeclaration {
	return &ProtocolDeclaration{Name: Ident(name), Required: required, Optional: optional}
}

func ForwardClass(name string) *ClassStatement { return &ClassStatement{ID: Ident(name)} }

func Global(name string) *GlobalStatement { return &GlobalStatement{ID: Ident(name)} }

func TypeDef(name string) *TypeDefStatement { return &TypeDefStatement{ID: Ident(name)} }

// Send builds a message send; selector parts are split on ':' like Method.
func Send(receiver Node, selector string, args ...Node) *MessageSend {
	ms := &MessageSend{Receiver: receiver, Arguments: args}
	if strings.Contains(selector, ":") {
		for _, part := range strings.Split(strings.TrimSuffix(selector, ":"), ":") {
			if part == "" {
				ms.Selectors = append(ms.Selectors, nil)
				continue
			}
			ms.Selectors = append(ms.Selectors, Ident(part))
		}
	} else {
		ms.Selectors = []*Identifier{Ident(selector)}
	}
	return ms
}

// SuperSend builds a message send to super.
func SuperSend(selector string, args ...Node) *MessageSend {
	ms := Send(nil, selector, args...)
	ms.SuperObject = true
	return ms
}
