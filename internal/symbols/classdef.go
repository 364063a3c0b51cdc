package symbols

import (
	"ojc/internal/ast"
)

// Ivar is an instance variable of a class.
type Ivar struct {
	Decl
	Name      string
	Type      string
	Accessors *ast.Accessors
}

// Readonly reports whether the ivar's accessors forbid a setter.
func (iv *Ivar) Readonly() bool {
	return iv != nil && iv.Accessors != nil && iv.Accessors.Readonly
}

// ClassDef describes a class, a category on a class, or a forward
// declaration that may later be upgraded to a full class.
type ClassDef struct {
	Decl
	Name     string
	Category string

	// Forward is set for @class declarations until UpgradeFrom replaces them.
	Forward bool

	// SuperclassName is what the source said; Superclass is resolved by name
	// once the whole program is known and may stay nil.
	SuperclassName string
	Superclass     *ClassDef

	// Base is the class a category extends.
	Base *ClassDef

	Protocols []string

	instanceMethods *MethodSet
	classMethods    *MethodSet
	ivars           []*Ivar
	ivarIndex       map[string]*Ivar
}

// NewClassDef creates an empty class definition.
func NewClassDef(decl Decl, name, superclass, category string) *ClassDef {
	return &ClassDef{
		Decl:            decl,
		Name:            name,
		Category:        category,
		SuperclassName:  superclass,
		instanceMethods: newMethodSet(),
		classMethods:    newMethodSet(),
		ivarIndex:       make(map[string]*Ivar),
	}
}

// NewForwardClassDef creates the placeholder recorded by @class.
func NewForwardClassDef(decl Decl, name string) *ClassDef {
	c := NewClassDef(decl, name, "", "")
	c.Forward = true
	return c
}

// Key is the registry key: the name, or "name+category" for categories.
func (c *ClassDef) Key() string {
	if c.Category != "" {
		return c.Name + "+" + c.Category
	}
	return c.Name
}

func (c *ClassDef) IsCategory() bool { return c.Category != "" }

// UpgradeFrom turns a forward declaration into the full definition full.
// Existing pointers to c stay valid.
func (c *ClassDef) UpgradeFrom(full *ClassDef) {
	ims, cms := c.instanceMethods, c.classMethods
	*c = *full
	c.Forward = false
	for _, m := range ims.All() {
		if c.instanceMethods.Get(m.Selector) == nil {
			c.instanceMethods.Add(m)
		}
	}
	for _, m := range cms.All() {
		if c.classMethods.Get(m.Selector) == nil {
			c.classMethods.Add(m)
		}
	}
}

// AddInstanceMethod records m. Methods added to a category are also
// visible on its base class.
func (c *ClassDef) AddInstanceMethod(m *MethodDef) {
	c.instanceMethods.Add(m)
	if c.Base != nil && c.Base != c {
		c.Base.instanceMethods.Add(m)
	}
}

func (c *ClassDef) AddClassMethod(m *MethodDef) {
	c.classMethods.Add(m)
	if c.Base != nil && c.Base != c {
		c.Base.classMethods.Add(m)
	}
}

// OwnInstanceMethod looks only at c.
func (c *ClassDef) OwnInstanceMethod(selector string) *MethodDef {
	return c.instanceMethods.Get(selector)
}

func (c *ClassDef) OwnClassMethod(selector string) *MethodDef {
	return c.classMethods.Get(selector)
}

// InstanceMethod walks the superclass chain.
func (c *ClassDef) InstanceMethod(selector string) *MethodDef {
	for cur, n := c, 0; cur != nil && n < maxChain; cur, n = cur.Superclass, n+1 {
		if m := cur.instanceMethods.Get(selector); m != nil {
			return m
		}
	}
	return nil
}

// ClassMethod walks the superclass chain.
func (c *ClassDef) ClassMethod(selector string) *MethodDef {
	for cur, n := c, 0; cur != nil && n < maxChain; cur, n = cur.Superclass, n+1 {
		if m := cur.classMethods.Get(selector); m != nil {
			return m
		}
	}
	return nil
}

func (c *ClassDef) InstanceMethods() []*MethodDef { return c.instanceMethods.All() }
func (c *ClassDef) ClassMethods() []*MethodDef    { return c.classMethods.All() }

// AddIvar appends iv, replacing an ivar with the same name in place.
func (c *ClassDef) AddIvar(iv *Ivar) {
	if old, ok := c.ivarIndex[iv.Name]; ok {
		for i, cur := range c.ivars {
			if cur == old {
				c.ivars[i] = iv
			}
		}
	} else {
		c.ivars = append(c.ivars, iv)
	}
	c.ivarIndex[iv.Name] = iv
}

// Ivar looks only at c.
func (c *ClassDef) Ivar(name string) *Ivar {
	return c.ivarIndex[name]
}

// Ivars returns c's own ivars in declaration order.
func (c *ClassDef) Ivars() []*Ivar {
	out := make([]*Ivar, len(c.ivars))
	copy(out, c.ivars)
	return out
}

// FindIvar walks the superclass chain and also returns the class that
// declares the ivar.
func (c *ClassDef) FindIvar(name string) (*Ivar, *ClassDef) {
	for cur, n := c, 0; cur != nil && n < maxChain; cur, n = cur.Superclass, n+1 {
		if iv := cur.ivarIndex[name]; iv != nil {
			return iv, cur
		}
	}
	return nil, nil
}

// UnimplementedMethod is a required protocol method a class lacks.
type UnimplementedMethod struct {
	Method      *MethodDef
	Protocol    string
	ClassMethod bool
}

// UnimplementedMethodsForProtocol lists the required methods of p and of
// the protocols p adopts that neither c nor its superclasses implement.
// Optional methods never appear.
func (c *ClassDef) UnimplementedMethodsForProtocol(p *ProtocolDef) []UnimplementedMethod {
	var out []UnimplementedMethod
	seen := make(map[*ProtocolDef]bool)
	var walk func(p *ProtocolDef)
	walk = func(p *ProtocolDef) {
		if p == nil || seen[p] {
			return
		}
		seen[p] = true
		for _, m := range p.RequiredInstanceMethods.All() {
			if c.InstanceMethod(m.Selector) == nil {
				out = append(out, UnimplementedMethod{Method: m, Protocol: p.Name})
			}
		}
		for _, m := range p.RequiredClassMethods.All() {
			if c.ClassMethod(m.Selector) == nil {
				out = append(out, UnimplementedMethod{Method: m, Protocol: p.Name, ClassMethod: true})
			}
		}
		for _, inherited := range p.Protocols {
			walk(inherited)
		}
	}
	walk(p)
	return out
}

// maxChain bounds superclass walks; a cyclic chain from bad input must not hang.
const maxChain = 1024
