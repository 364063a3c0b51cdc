package symbols

// ProtocolDef describes a @protocol.
type ProtocolDef struct {
	Decl
	Name string
	// Protocols are the adopted protocols that could be resolved.
	Protocols []*ProtocolDef

	RequiredInstanceMethods *MethodSet
	RequiredClassMethods    *MethodSet
	OptionalInstanceMethods *MethodSet
	OptionalClassMethods    *MethodSet
}

func NewProtocolDef(decl Decl, name string, inherited []*ProtocolDef) *ProtocolDef {
	return &ProtocolDef{
		Decl:                    decl,
		Name:                    name,
		Protocols:               inherited,
		RequiredInstanceMethods: newMethodSet(),
		RequiredClassMethods:    newMethodSet(),
		OptionalInstanceMethods: newMethodSet(),
		OptionalClassMethods:    newMethodSet(),
	}
}

// AddMethod files m under the right list.
func (p *ProtocolDef) AddMethod(m *MethodDef, classMethod, required bool) {
	switch {
	case required && classMethod:
		p.RequiredClassMethods.Add(m)
	case required:
		p.RequiredInstanceMethods.Add(m)
	case classMethod:
		p.OptionalClassMethods.Add(m)
	default:
		p.OptionalInstanceMethods.Add(m)
	}
}

// TypeDef is a @typedef name.
type TypeDef struct {
	Decl
	Name string
}
