package ast

import "reflect"

// Snapshot returns a shallow structural copy of n. Diagnostics keep snapshots
// so later mutation of the tree cannot change what a recorded issue points at.
func Snapshot(n Node) Node {
	if n == nil {
		return nil
	}
	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return n
	}
	cp := reflect.New(v.Elem().Type())
	cp.Elem().Set(v.Elem())
	out, ok := cp.Interface().(Node)
	if !ok {
		return n
	}
	return out
}

// Name returns the identifier text most closely associated with n, or "".
func Name(n Node) string {
	switch x := n.(type) {
	case *Identifier:
		return x.Name
	case *VariableDeclarator:
		if x.ID != nil {
			return x.ID.Name
		}
	case *FunctionDeclaration:
		if x.ID != nil {
			return x.ID.Name
		}
	case *ClassDeclaration:
		if x.Name != nil {
			return x.Name.Name
		}
	case *ProtocolDeclaration:
		if x.Name != nil {
			return x.Name.Name
		}
	case *ClassStatement:
		if x.ID != nil {
			return x.ID.Name
		}
	case *GlobalStatement:
		if x.ID != nil {
			return x.ID.Name
		}
	case *TypeDefStatement:
		if x.ID != nil {
			return x.ID.Name
		}
	}
	return ""
}
