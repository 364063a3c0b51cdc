package symbols

import "ojc/internal/ast"

// Registries bundles the three independent namespaces of a session.
type Registries struct {
	Classes   *Registry[*ClassDef]
	Protocols *Registry[*ProtocolDef]
	TypeDefs  *Registry[*TypeDef]
}

func NewRegistries() *Registries {
	return &Registries{
		Classes:   NewRegistry[*ClassDef](),
		Protocols: NewRegistry[*ProtocolDef](),
		TypeDefs:  NewRegistry[*TypeDef](),
	}
}

// AddClassDef registers def under name, or under "name+category" when
// def is a category.
func (r *Registries) AddClassDef(name string, def *ClassDef) {
	if def.Category != "" {
		name += "+" + def.Category
	}
	r.Classes.Add(name, def)
}

// ClassDef returns the class registered under key, or nil.
func (r *Registries) ClassDef(key string) *ClassDef {
	def, _ := r.Classes.Get(key)
	return def
}

func (r *Registries) AddProtocolDef(name string, def *ProtocolDef) {
	r.Protocols.Add(name, def)
}

func (r *Registries) ProtocolDef(name string) *ProtocolDef {
	def, _ := r.Protocols.Get(name)
	return def
}

func (r *Registries) AddTypeDef(def *TypeDef) {
	r.TypeDefs.Add(def.Name, def)
}

func (r *Registries) TypeDef(name string) *TypeDef {
	def, _ := r.TypeDefs.Get(name)
	return def
}

// IsKnownType reports whether name is predefined or registered in any
// namespace.
func (r *Registries) IsKnownType(name string) bool {
	return ast.IsPredefinedType(name) ||
		r.Classes.Has(name) || r.Protocols.Has(name) || r.TypeDefs.Has(name)
}

var predefinedTypeIndex = NewMisspellingIndex(ast.PredefinedTypes()...)

// FindMisspelledName looks for name in the class, protocol, typedef and
// predefined type indices, in that order, ignoring case.
func (r *Registries) FindMisspelledName(name string) string {
	if s := r.Classes.Suggest(name); s != "" {
		return s
	}
	if s := r.Protocols.Suggest(name); s != "" {
		return s
	}
	if s := r.TypeDefs.Suggest(name); s != "" {
		return s
	}
	s, _ := predefinedTypeIndex.Lookup(name)
	return s
}

// SuggestProtocol is the protocol-only variant of FindMisspelledName.
func (r *Registries) SuggestProtocol(name string) string {
	return r.Protocols.Suggest(name)
}

// LinkSuperclasses resolves every SuperclassName that names a registered
// class and returns the class keys whose superclass could not be found.
func (r *Registries) LinkSuperclasses() []string {
	var missing []string
	r.Classes.Each(func(key string, def *ClassDef) {
		if def.SuperclassName == "" || def.IsCategory() {
			return
		}
		super := r.ClassDef(def.SuperclassName)
		if super == nil || super == def {
			def.Superclass = nil
			missing = append(missing, key)
			return
		}
		def.Superclass = super
	})
	return missing
}
