package diag

import (
	"ojc/internal/ast"
	"ojc/internal/source"
)

// Note is a secondary location attached to an Issue.
type Note struct {
	Span source.Span
	Pos  source.LineCol
	Msg  string
}

// Issue is one reported error or warning.
type Issue struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Pos      source.LineCol // 1-based, resolved on Report
	Path     string
	Notes    []Note

	// Node is a shallow copy of the offending node taken at report time.
	Node ast.Node

	// Scope identifies the scope that produced an identifier warning;
	// Filterable issues may be dropped when that scope closes.
	Scope      any
	Filterable bool
	Name       string
}

func (is *Issue) IsError() bool   { return is != nil && is.Severity == SevError }
func (is *Issue) IsWarning() bool { return is != nil && is.Severity == SevWarning }

// Category returns the warning category of the issue's code.
func (is *Issue) Category() Category {
	if is == nil {
		return CatNone
	}
	return is.Code.Category()
}
