package ast

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is what the external parser hands over for one source file.
type Envelope struct {
	Path     string
	Source   *string // text the parser saw; nil means "read Path"
	Program  *Program
	Comments []Comment
	Error    *ParseError
}

// ParseError is a syntax error reported by the parser instead of a tree.
type ParseError struct {
	Message string `json:"message"`
	Pos     uint32 `json:"pos"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Message)
}

// ErrMalformedTree wraps every structural problem found while decoding.
var ErrMalformedTree = errors.New("malformed syntax tree")

type envelopeJSON struct {
	Path     string          `json:"path"`
	Source   *string         `json:"source"`
	Program  json.RawMessage `json:"program"`
	Comments []commentJSON   `json:"comments"`
	Error    *ParseError     `json:"error"`
}

type commentJSON struct {
	Type  string `json:"type"` // "Block" or "Line"
	Value string `json:"value"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// DecodeEnvelope validates data against the envelope schema and decodes it.
// A parse error in the envelope is returned as part of the envelope, not as err.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	if err := ValidateEnvelope(data); err != nil {
		return nil, err
	}
	var raw envelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTree, err)
	}
	env := &Envelope{
		Path:   raw.Path,
		Source: raw.Source,
		Error:  raw.Error,
	}
	for _, c := range raw.Comments {
		env.Comments = append(env.Comments, Comment{
			Pos:   Pos{Start: c.Start, End: c.End},
			Block: c.Type == "Block",
			Value: c.Value,
		})
	}
	if env.Error != nil {
		return env, nil
	}
	d := &decoder{}
	n := d.node(raw.Program)
	if d.err != nil {
		return nil, d.err
	}
	prog, ok := n.(*Program)
	if !ok {
		return nil, fmt.Errorf("%w: root node is %v, want Program", ErrMalformedTree, kindOf(n))
	}
	env.Program = prog
	return env, nil
}

// DecodeNode decodes a single node (and its subtree) from JSON.
func DecodeNode(data []byte) (Node, error) {
	d := &decoder{}
	n := d.node(data)
	if d.err != nil {
		return nil, d.err
	}
	return n, nil
}

func kindOf(n Node) Kind {
	if n == nil {
		return KindInvalid
	}
	return n.Kind()
}
