package symbols

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"ojc/internal/ast"
)

// AccessorKind selects the getter or the setter of an ivar.
type AccessorKind uint8

const (
	Getter AccessorKind = iota
	Setter
)

func (k AccessorKind) String() string {
	if k == Setter {
		return "setter"
	}
	return "getter"
}

// AccessorSelector computes the selector synthesized for an ivar.
//
// The base name is taken from property=, then from getter=/setter= for the
// matching kind, then from the ivar name without a leading underscore.
// Setters become "set<Base>:" unless setter= spelled them out.
func AccessorSelector(acc *ast.Accessors, kind AccessorKind, ivarName string) string {
	var explicit *ast.Identifier
	if acc != nil {
		if kind == Getter {
			explicit = acc.Getter
		} else {
			explicit = acc.Setter
		}
	}

	switch {
	case acc != nil && acc.Property != nil && acc.Property.Name != "":
		return synthesize(acc.Property.Name, kind)
	case explicit != nil && explicit.Name != "":
		name := stripColon(explicit.Name)
		if kind == Setter {
			return name + ":"
		}
		return name
	}

	name := ivarName
	if strings.HasPrefix(name, "_") && len(name) > 1 {
		name = name[1:]
	}
	return synthesize(name, kind)
}

func synthesize(base string, kind AccessorKind) string {
	if kind == Getter {
		return base
	}
	return "set" + capitalize(base) + ":"
}

func stripColon(s string) string {
	if len(s) > 1 && strings.HasSuffix(s, ":") {
		return s[:len(s)-1]
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// AccessorAttributes renders acc the way it is written in source, e.g.
// "(readonly, getter=isReady)". No attributes give "".
func AccessorAttributes(acc *ast.Accessors) string {
	if acc == nil {
		return ""
	}
	var attrs []string
	if acc.Readonly {
		attrs = append(attrs, "readonly")
	} else if acc.Copy {
		attrs = append(attrs, "copy")
	}
	if acc.Property != nil {
		attrs = append(attrs, "property="+acc.Property.Name)
	}
	if acc.Getter != nil {
		attrs = append(attrs, "getter="+acc.Getter.Name)
	}
	if acc.Setter != nil {
		attrs = append(attrs, "setter="+stripColon(acc.Setter.Name))
	}
	if len(attrs) == 0 {
		return ""
	}
	return "(" + strings.Join(attrs, ", ") + ")"
}
