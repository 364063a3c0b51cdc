// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"
	"reflect"

	"fortio.org/safecast"

	"ojc/internal/ast"
)

var nodeType = reflect.TypeFor[ast.Node]()

// CheckSpanInvariants runs a minimal set of range invariants on a decoded tree:
// 1) the program range is non-empty and within the source text
// 2) every node range is ordered (start <= end)
// 3) every child range lies inside its parent's range
func CheckSpanInvariants(prog *ast.Program, source string) error {
	if prog == nil {
		return fmt.Errorf("nil program")
	}
	lenSource, err := safecast.Conv[uint32](len(source))
	if err != nil {
		return fmt.Errorf("len source overflow: %w", err)
	}
	r := prog.Range()
	if r.End <= r.Start && lenSource > 0 {
		return fmt.Errorf("program range is empty: %+v", r)
	}
	if r.End > lenSource {
		return fmt.Errorf("program range end beyond source: %d > %d", r.End, lenSource)
	}
	return checkChildren(reflect.ValueOf(prog).Elem(), prog)
}

func checkNode(n, parent ast.Node) error {
	r, pr := n.Range(), parent.Range()
	if r.End < r.Start {
		return fmt.Errorf("%v: end %d before start %d", n.Kind(), r.End, r.Start)
	}
	if r.Start < pr.Start || r.End > pr.End {
		return fmt.Errorf("%v range %+v is outside %v range %+v", n.Kind(), r, parent.Kind(), pr)
	}
	return checkChildren(reflect.ValueOf(n).Elem(), n)
}

// checkChildren visits the fields of a node struct. Helper structs that are
// not nodes themselves (method params, accessors) are walked with the
// enclosing node as parent.
func checkChildren(v reflect.Value, parent ast.Node) error {
	if v.Kind() != reflect.Struct {
		return nil
	}
	for i := range v.NumField() {
		if !v.Type().Field(i).IsExported() {
			continue
		}
		if err := checkValue(v.Field(i), parent); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(f reflect.Value, parent ast.Node) error {
	switch f.Kind() {
	case reflect.Interface, reflect.Pointer:
		if f.IsNil() {
			return nil
		}
		if f.Type().Implements(nodeType) || (f.Kind() == reflect.Interface && f.Elem().Type().Implements(nodeType)) {
			n, ok := f.Interface().(ast.Node)
			if !ok || reflect.ValueOf(n).IsNil() {
				return nil
			}
			return checkNode(n, parent)
		}
		if f.Kind() == reflect.Pointer {
			return checkChildren(f.Elem(), parent)
		}
	case reflect.Slice:
		for i := range f.Len() {
			if err := checkValue(f.Index(i), parent); err != nil {
				return err
			}
		}
	}
	return nil
}
