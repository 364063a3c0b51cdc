package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const maxDecodeDepth = 2048

type fields map[string]json.RawMessage

type decoder struct {
	err   error
	depth int
	// path: ключи и индексы от корня до текущего узла
	path []string
}

func (d *decoder) fail(format string, args ...any) {
	if d.err != nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if at := d.where(); at != "" {
		msg = at + ": " + msg
	}
	d.err = fmt.Errorf("%w: %s", ErrMalformedTree, msg)
}

// where renders the current path as body[0].expression.
func (d *decoder) where() string {
	var sb strings.Builder
	for _, p := range d.path {
		if sb.Len() > 0 && !strings.HasPrefix(p, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(p)
	}
	return sb.String()
}

func (d *decoder) enter(seg string) { d.path = append(d.path, seg) }
func (d *decoder) leave()           { d.path = d.path[:len(d.path)-1] }

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func (d *decoder) object(raw json.RawMessage) fields {
	if isNull(raw) {
		return fields{}
	}
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		d.fail("expected object: %v", err)
		return fields{}
	}
	return f
}

func (d *decoder) get(f fields, key string, out any) {
	raw, ok := f[key]
	if !ok || isNull(raw) || d.err != nil {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		d.fail("field %q: %v", key, err)
	}
}

func (d *decoder) str(f fields, key string) string {
	var s string
	d.get(f, key, &s)
	return s
}

func (d *decoder) boolean(f fields, key string) bool {
	var b bool
	d.get(f, key, &b)
	return b
}

func (d *decoder) child(f fields, key string) Node {
	d.enter(key)
	defer d.leave()
	return d.node(f[key])
}

// required is child for the fields a node cannot do without.
func (d *decoder) required(f fields, key string) Node {
	d.enter(key)
	defer d.leave()
	n := d.node(f[key])
	if n == nil {
		d.fail("missing required child")
	}
	return n
}

func (d *decoder) children(f fields, key string) []Node {
	return d.list(f, key, false)
}

// elements is children with holes: null entries stay nil.
func (d *decoder) elements(f fields, key string) []Node {
	return d.list(f, key, true)
}

func (d *decoder) list(f fields, key string, holes bool) []Node {
	raw, ok := f[key]
	if !ok || isNull(raw) || d.err != nil {
		return nil
	}
	d.enter(key)
	defer d.leave()
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.fail("expected array: %v", err)
		return nil
	}
	out := make([]Node, 0, len(items))
	for i, item := range items {
		d.enter("[" + strconv.Itoa(i) + "]")
		n := d.node(item)
		if n == nil && !holes {
			d.fail("null element")
		}
		d.leave()
		out = append(out, n)
	}
	return out
}

func expect[T Node](d *decoder, n Node, what string) T {
	var zero T
	if n == nil {
		return zero
	}
	t, ok := n.(T)
	if !ok {
		d.fail("%s: unexpected %v", what, n.Kind())
		return zero
	}
	return t
}

func expectAll[T Node](d *decoder, nodes []Node, what string) []T {
	if nodes == nil {
		return nil
	}
	out := make([]T, len(nodes))
	for i, n := range nodes {
		out[i] = expect[T](d, n, what)
	}
	return out
}

func (d *decoder) ident(f fields, key string) *Identifier {
	return expect[*Identifier](d, d.child(f, key), key)
}

func (d *decoder) requiredIdent(f fields, key string) *Identifier {
	return expect[*Identifier](d, d.required(f, key), key)
}

func (d *decoder) idents(f fields, key string) []*Identifier {
	return expectAll[*Identifier](d, d.children(f, key), key)
}

func (d *decoder) block(f fields, key string) *BlockStatement {
	return expect[*BlockStatement](d, d.child(f, key), key)
}

func (d *decoder) requiredBlock(f fields, key string) *BlockStatement {
	return expect[*BlockStatement](d, d.required(f, key), key)
}

func (d *decoder) objjType(f fields, key string) *ObjJType {
	return expect[*ObjJType](d, d.child(f, key), key)
}

func (d *decoder) node(raw json.RawMessage) Node {
	if d.err != nil || isNull(raw) {
		return nil
	}
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDecodeDepth {
		d.fail("tree deeper than %d levels", maxDecodeDepth)
		return nil
	}

	f := d.object(raw)
	typ := d.str(f, "type")
	kind, ok := ParseKind(typ)
	if !ok {
		d.fail("unknown node type %q", typ)
		return nil
	}
	var pos Pos
	d.get(f, "start", &pos.Start)
	d.get(f, "end", &pos.End)
	if pos.End < pos.Start {
		d.fail("%s: end %d before start %d", typ, pos.End, pos.Start)
		return nil
	}

	var o fields
	if kind.IsObjJ() {
		o = d.object(f["objj"])
	}

	switch kind {
	case KindProgram:
		return &Program{Pos: pos, Body: d.children(f, "body")}
	case KindEmptyStatement:
		return &EmptyStatement{Pos: pos}
	case KindBlockStatement:
		return &BlockStatement{Pos: pos, Body: d.children(f, "body")}
	case KindExpressionStatement:
		return &ExpressionStatement{Pos: pos, Expression: d.required(f, "expression")}
	case KindIfStatement:
		return &IfStatement{Pos: pos, Test: d.required(f, "test"), Consequent: d.required(f, "consequent"), Alternate: d.child(f, "alternate")}
	case KindLabeledStatement:
		return &LabeledStatement{Pos: pos, Label: d.requiredIdent(f, "label"), Body: d.required(f, "body")}
	case KindBreakStatement:
		return &BreakStatement{Pos: pos, Label: d.ident(f, "label")}
	case KindContinueStatement:
		return &ContinueStatement{Pos: pos, Label: d.ident(f, "label")}
	case KindSwitchStatement:
		return &SwitchStatement{Pos: pos, Discriminant: d.required(f, "discriminant"), Cases: expectAll[*SwitchCase](d, d.children(f, "cases"), "cases")}
	case KindSwitchCase:
		return &SwitchCase{Pos: pos, Test: d.child(f, "test"), Consequent: d.children(f, "consequent")}
	case KindReturnStatement:
		return &ReturnStatement{Pos: pos, Argument: d.child(f, "argument")}
	case KindThrowStatement:
		return &ThrowStatement{Pos: pos, Argument: d.required(f, "argument")}
	case KindTryStatement:
		return &TryStatement{Pos: pos, Block: d.requiredBlock(f, "block"), Handler: expect[*CatchClause](d, d.child(f, "handler"), "handler"), Finalizer: d.block(f, "finalizer")}
	case KindCatchClause:
		return &CatchClause{Pos: pos, Param: d.ident(f, "param"), Body: d.requiredBlock(f, "body")}
	case KindWhileStatement:
		return &WhileStatement{Pos: pos, Test: d.required(f, "test"), Body: d.required(f, "body")}
	case KindDoWhileStatement:
		return &DoWhileStatement{Pos: pos, Body: d.required(f, "body"), Test: d.required(f, "test")}
	case KindForStatement:
		return &ForStatement{Pos: pos, Init: d.child(f, "init"), Test: d.child(f, "test"), Update: d.child(f, "update"), Body: d.required(f, "body")}
	case KindForInStatement:
		return &ForInStatement{Pos: pos, Left: d.required(f, "left"), Right: d.required(f, "right"), Body: d.required(f, "body")}
	case KindDebuggerStatement:
		return &DebuggerStatement{Pos: pos}
	case KindFunctionDeclaration:
		return &FunctionDeclaration{Pos: pos, ID: d.requiredIdent(f, "id"), Params: d.idents(f, "params"), Body: d.requiredBlock(f, "body")}
	case KindFunctionExpression:
		return &FunctionExpression{Pos: pos, ID: d.ident(f, "id"), Params: d.idents(f, "params"), Body: d.requiredBlock(f, "body")}
	case KindVariableDeclaration:
		declKind := d.str(f, "kind")
		if declKind == "" {
			declKind = "var"
		}
		return &VariableDeclaration{Pos: pos, DeclKind: declKind, Declarations: expectAll[*VariableDeclarator](d, d.children(f, "declarations"), "declarations")}
	case KindVariableDeclarator:
		return &VariableDeclarator{Pos: pos, ID: d.requiredIdent(f, "id"), Init: d.child(f, "init")}
	case KindThisExpression:
		return &ThisExpression{Pos: pos}
	case KindArrayExpression:
		return &ArrayExpression{Pos: pos, Elements: d.elements(f, "elements")}
	case KindObjectExpression:
		return &ObjectExpression{Pos: pos, Properties: expectAll[*Property](d, d.children(f, "properties"), "properties")}
	case KindProperty:
		propKind := d.str(f, "kind")
		if propKind == "" {
			propKind = "init"
		}
		return &Property{Pos: pos, Key: d.required(f, "key"), Value: d.required(f, "value"), Computed: d.boolean(f, "computed"), PropKind: propKind}
	case KindSequenceExpression:
		return &SequenceExpression{Pos: pos, Expressions: d.children(f, "expressions")}
	case KindUnaryExpression:
		return &UnaryExpression{Pos: pos, Operator: d.str(f, "operator"), Prefix: d.boolean(f, "prefix"), Argument: d.required(f, "argument")}
	case KindBinaryExpression:
		return &BinaryExpression{Pos: pos, Operator: d.str(f, "operator"), Left: d.required(f, "left"), Right: d.required(f, "right")}
	case KindAssignmentExpression:
		return &AssignmentExpression{Pos: pos, Operator: d.str(f, "operator"), Left: d.required(f, "left"), Right: d.required(f, "right")}
	case KindUpdateExpression:
		return &UpdateExpression{Pos: pos, Operator: d.str(f, "operator"), Prefix: d.boolean(f, "prefix"), Argument: d.required(f, "argument")}
	case KindLogicalExpression:
		return &LogicalExpression{Pos: pos, Operator: d.str(f, "operator"), Left: d.required(f, "left"), Right: d.required(f, "right")}
	case KindConditionalExpression:
		return &ConditionalExpression{Pos: pos, Test: d.required(f, "test"), Consequent: d.required(f, "consequent"), Alternate: d.required(f, "alternate")}
	case KindNewExpression:
		return &NewExpression{Pos: pos, Callee: d.required(f, "callee"), Arguments: d.children(f, "arguments")}
	case KindCallExpression:
		return &CallExpression{Pos: pos, Callee: d.required(f, "callee"), Arguments: d.children(f, "arguments")}
	case KindMemberExpression:
		return &MemberExpression{Pos: pos, Object: d.required(f, "object"), Property: d.required(f, "property"), Computed: d.boolean(f, "computed")}
	case KindIdentifier:
		name := d.str(f, "name")
		if name == "" {
			d.fail("identifier without a name")
			return nil
		}
		return &Identifier{Pos: pos, Name: name}
	case KindLiteral:
		return d.literal(pos, f)

	case KindObjJType:
		return &ObjJType{Pos: pos, Name: d.str(o, "name"), IsClass: d.boolean(o, "isClass"), Protocols: d.idents(o, "protocols")}
	case KindIvarDeclaration:
		return &IvarDeclaration{Pos: pos, Type: d.objjType(o, "type"), ID: d.requiredIdent(o, "id"), Accessors: d.accessors(o), IsOutlet: d.boolean(o, "isOutlet")}
	case KindMethodDeclaration:
		m := &MethodDeclaration{
			Pos:          pos,
			MethodType:   d.str(o, "methodType"),
			ReturnType:   d.objjType(o, "returnType"),
			Selectors:    d.idents(o, "selectors"),
			Params:       d.methodParams(o),
			TakesVarArgs: d.boolean(o, "takesVarArgs"),
			Action:       d.boolean(o, "action"),
			Body:         d.block(f, "body"),
		}
		if len(m.Selectors) == 0 {
			d.fail("method without selectors")
			return nil
		}
		return m
	case KindClassDeclaration:
		return &ClassDeclaration{
			Pos:        pos,
			Name:       d.requiredIdent(o, "name"),
			Superclass: d.ident(o, "superclass"),
			Category:   d.ident(o, "category"),
			Protocols:  d.idents(o, "protocols"),
			Ivars:      expectAll[*IvarDeclaration](d, d.children(o, "ivars"), "ivars"),
			Body:       d.children(f, "body"),
		}
	case KindProtocolDeclaration:
		return &ProtocolDeclaration{
			Pos:       pos,
			Name:      d.requiredIdent(o, "name"),
			Protocols: d.idents(o, "protocols"),
			Required:  expectAll[*MethodDeclaration](d, d.children(o, "required"), "required"),
			Optional:  expectAll[*MethodDeclaration](d, d.children(o, "optional"), "optional"),
		}
	case KindMessageSend:
		isSuper := d.boolean(o, "superObject")
		receiver := d.child
		if !isSuper {
			receiver = d.required
		}
		return &MessageSend{
			Pos:         pos,
			Receiver:    receiver(o, "receiver"),
			SuperObject: isSuper,
			Selectors:   d.idents(o, "selectors"),
			Arguments:   d.children(o, "arguments"),
			Parameters:  d.children(o, "parameters"),
		}
	case KindSelectorLiteral:
		return &SelectorLiteral{Pos: pos, Selector: d.str(o, "selector")}
	case KindProtocolLiteral:
		return &ProtocolLiteral{Pos: pos, Name: d.requiredIdent(o, "name")}
	case KindArrayLiteral:
		return &ArrayLiteral{Pos: pos, Elements: d.children(o, "elements")}
	case KindDictionaryLiteral:
		keys, values := d.children(o, "keys"), d.children(o, "values")
		if len(keys) != len(values) {
			d.fail("dictionary literal has %d keys and %d values", len(keys), len(values))
			return nil
		}
		return &DictionaryLiteral{Pos: pos, Keys: keys, Values: values}
	case KindReference:
		return &Reference{Pos: pos, Element: d.requiredIdent(o, "element")}
	case KindDereference:
		return &Dereference{Pos: pos, Expression: d.required(o, "expression")}
	case KindImportStatement:
		return &ImportStatement{Pos: pos, Filename: d.str(o, "filename"), Local: d.boolean(o, "local")}
	case KindClassStatement:
		return &ClassStatement{Pos: pos, ID: d.requiredIdent(o, "id")}
	case KindGlobalStatement:
		return &GlobalStatement{Pos: pos, ID: d.requiredIdent(o, "id")}
	case KindTypeDefStatement:
		return &TypeDefStatement{Pos: pos, ID: d.requiredIdent(o, "typedefname")}
	}
	d.fail("no decoder for %v", kind)
	return nil
}

func (d *decoder) literal(pos Pos, f fields) *Literal {
	lit := &Literal{Pos: pos, Raw: d.str(f, "raw")}
	if raw, ok := f["value"]; ok && !isNull(raw) {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			d.fail("literal value: %v", err)
			return nil
		}
		lit.Value = v
	}
	if raw, ok := f["regex"]; ok && !isNull(raw) {
		var re struct {
			Pattern string `json:"pattern"`
			Flags   string `json:"flags"`
		}
		if err := json.Unmarshal(raw, &re); err != nil {
			d.fail("literal regex: %v", err)
			return nil
		}
		lit.Regex = &RegexLiteral{Pattern: re.Pattern, Flags: re.Flags}
	}
	return lit
}

func (d *decoder) accessors(o fields) *Accessors {
	raw, ok := o["accessors"]
	if !ok || isNull(raw) {
		return nil
	}
	d.enter("accessors")
	defer d.leave()
	a := d.object(raw)
	return &Accessors{
		Property:  d.ident(a, "property"),
		Getter:    d.ident(a, "getter"),
		Setter:    d.ident(a, "setter"),
		Readonly:  d.boolean(a, "readonly"),
		Readwrite: d.boolean(a, "readwrite"),
		Copy:      d.boolean(a, "copy"),
	}
}

func (d *decoder) methodParams(o fields) []*MethodParam {
	raw, ok := o["params"]
	if !ok || isNull(raw) {
		return nil
	}
	d.enter("params")
	defer d.leave()
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.fail("expected array: %v", err)
		return nil
	}
	out := make([]*MethodParam, 0, len(items))
	for i, item := range items {
		d.enter("[" + strconv.Itoa(i) + "]")
		p := d.object(item)
		out = append(out, &MethodParam{Type: d.objjType(p, "type"), ID: d.requiredIdent(p, "id")})
		d.leave()
	}
	return out
}
