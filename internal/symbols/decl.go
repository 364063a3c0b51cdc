package symbols

import (
	"ojc/internal/ast"
	"ojc/internal/source"
)

// Decl ties a definition to the node that declared it and the file the
// node came from. Definitions outlive the compilation of their file.
type Decl struct {
	File source.FileID
	Node ast.Node
}

// Span returns the declaring node's location, or an empty span.
func (d Decl) Span() source.Span {
	if d.Node == nil {
		return source.Span{File: d.File}
	}
	r := d.Node.Range()
	return source.Span{File: d.File, Start: r.Start, End: r.End}
}

// Valid reports whether the declaration points at a node.
func (d Decl) Valid() bool { return d.Node != nil }
