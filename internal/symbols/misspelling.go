package symbols

import "golang.org/x/text/cases"

// MisspellingIndex maps a case-folded name to the canonical spelling it was
// registered under. A later name with the same folding wins.
type MisspellingIndex struct {
	names map[string]string
}

func NewMisspellingIndex(names ...string) *MisspellingIndex {
	ix := &MisspellingIndex{names: make(map[string]string, len(names))}
	for _, n := range names {
		ix.Add(n)
	}
	return ix
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Add records name.
func (ix *MisspellingIndex) Add(name string) {
	ix.names[fold(name)] = name
}

// Lookup returns the canonical name that folds like name.
func (ix *MisspellingIndex) Lookup(name string) (string, bool) {
	if ix == nil {
		return "", false
	}
	canonical, ok := ix.names[fold(name)]
	return canonical, ok
}

func (ix *MisspellingIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.names)
}
