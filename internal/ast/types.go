package ast

// predefinedTypes are the scalar and runtime types that never name a class.
var predefinedTypes = map[string]struct{}{
	"BOOL":           {},
	"byte":           {},
	"char":           {},
	"double":         {},
	"float":          {},
	"id":             {},
	"int":            {},
	"instancetype":   {},
	"JSObject":       {},
	"long":           {},
	"SEL":            {},
	"short":          {},
	"signed":         {},
	"unsigned":       {},
	"CPInteger":      {},
	"CPTimeInterval": {},
	"CPUInteger":     {},
	"void":           {},
}

// IsPredefinedType reports whether name is a built-in Objective-J type.
func IsPredefinedType(name string) bool {
	_, ok := predefinedTypes[name]
	return ok
}

// PredefinedTypes lists the built-in type names.
func PredefinedTypes() []string {
	out := make([]string, 0, len(predefinedTypes))
	for name := range predefinedTypes {
		out = append(out, name)
	}
	return out
}
