package symbols

// Registry is a name → definition table with insertion order and a
// misspelling index. It does no collision detection: Add overwrites.
type Registry[T any] struct {
	items map[string]T
	order []string
	index *MisspellingIndex
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
		index: NewMisspellingIndex(),
	}
}

// Add inserts or overwrites name. It is the only way into the table.
func (r *Registry[T]) Add(name string, def T) {
	if _, exists := r.items[name]; !exists {
		r.order = append(r.order, name)
	}
	r.items[name] = def
	r.index.Add(name)
}

// Get returns the definition and whether it exists.
func (r *Registry[T]) Get(name string) (T, bool) {
	def, ok := r.items[name]
	return def, ok
}

func (r *Registry[T]) Has(name string) bool {
	_, ok := r.items[name]
	return ok
}

// Names returns keys in insertion order.
func (r *Registry[T]) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry[T]) Len() int { return len(r.items) }

// Suggest returns a registered name that differs from name only by case,
// or "" when there is none. An exact match is returned as is.
func (r *Registry[T]) Suggest(name string) string {
	canonical, _ := r.index.Lookup(name)
	return canonical
}

// Each calls fn for every entry in insertion order.
func (r *Registry[T]) Each(fn func(name string, def T)) {
	for _, name := range r.order {
		fn(name, r.items[name])
	}
}
