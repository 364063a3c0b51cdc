package compiler

import (
	"errors"
	"fmt"
	"strings"

	"ojc/internal/ast"
	"ojc/internal/scope"
)

// Rule emits code for one node kind. Rules call back into the compiler for
// semantic checks and for compiling children. The only errors a rule
// returns are the abort signal and internal invariant violations.
type Rule func(c *Compiler, n ast.Node, s *scope.Scope) error

// Rules is the dispatch table, indexed by node kind.
type Rules [ast.KindCount]Rule

// ErrIncompleteRules is returned by Validate.
var ErrIncompleteRules = errors.New("rule table incomplete")

// Validate checks that every kind, virtual ones included, has a rule.
func (r *Rules) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil table", ErrIncompleteRules)
	}
	var missing []string
	for k := ast.KindInvalid + 1; k < ast.KindCount; k++ {
		if r[k] == nil {
			missing = append(missing, k.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: no rule for %s", ErrIncompleteRules, strings.Join(missing, ", "))
	}
	return nil
}
