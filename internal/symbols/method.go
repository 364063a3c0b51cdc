package symbols

// MethodDef is one method known by selector.
type MethodDef struct {
	Decl
	Selector string
	// Types lists the return type followed by the parameter types.
	Types []string
}

func NewMethodDef(decl Decl, selector string, types []string) *MethodDef {
	return &MethodDef{Decl: decl, Selector: selector, Types: types}
}

// ReturnType is the declared return type, "id" when unknown.
func (m *MethodDef) ReturnType() string {
	if m == nil || len(m.Types) == 0 || m.Types[0] == "" {
		return "id"
	}
	return m.Types[0]
}

// MethodSet keeps methods by selector in declaration order.
type MethodSet struct {
	order []string
	bySel map[string]*MethodDef
}

func newMethodSet() *MethodSet {
	return &MethodSet{bySel: make(map[string]*MethodDef)}
}

// Add inserts or replaces the method with the same selector.
func (s *MethodSet) Add(m *MethodDef) {
	if _, ok := s.bySel[m.Selector]; !ok {
		s.order = append(s.order, m.Selector)
	}
	s.bySel[m.Selector] = m
}

func (s *MethodSet) Get(selector string) *MethodDef {
	if s == nil {
		return nil
	}
	return s.bySel[selector]
}

// All returns methods in declaration order.
func (s *MethodSet) All() []*MethodDef {
	if s == nil {
		return nil
	}
	out := make([]*MethodDef, 0, len(s.order))
	for _, sel := range s.order {
		out = append(out, s.bySel[sel])
	}
	return out
}

func (s *MethodSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
