package format

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"ojc/internal/ast"
)

// Op is one layout instruction of a hook.
type Op uint8

const (
	OpNewline Op = iota + 1
	OpBlankLine
	OpSpace
	OpIndent
	OpDedent
)

var opNames = map[string]Op{
	"newline":    OpNewline,
	"blank-line": OpBlankLine,
	"space":      OpSpace,
	"indent":     OpIndent,
	"dedent":     OpDedent,
}

func (o Op) String() string {
	for name, op := range opNames {
		if op == o {
			return name
		}
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Rule is the layout applied around one node kind.
type Rule struct {
	Before []Op
	After  []Op
}

// Descriptor maps node kinds to layout rules.
type Descriptor struct {
	Name        string
	Description string
	rules       [ast.KindCount]Rule
}

// Rule returns the rule for k; the zero Rule when none is set.
func (d *Descriptor) Rule(k ast.Kind) Rule {
	if d == nil || k >= ast.KindCount {
		return Rule{}
	}
	return d.rules[k]
}

type descriptorFile struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Rules       map[string]ruleFile `yaml:"rules"`
}

type ruleFile struct {
	Before []string `yaml:"before"`
	After  []string `yaml:"after"`
}

// ErrUnknownDescriptor is returned for names that are neither built in nor
// readable files.
var ErrUnknownDescriptor = errors.New("unknown format")

//go:embed descriptors/*.yaml
var builtin embed.FS

// Builtin lists the embedded descriptor names.
func Builtin() []string {
	entries, err := builtin.ReadDir("descriptors")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

// Load returns a built-in descriptor by name, or reads nameOrPath as a
// YAML file when it is not a built-in name.
func Load(nameOrPath string) (*Descriptor, error) {
	if data, err := builtin.ReadFile(path.Join("descriptors", nameOrPath+".yaml")); err == nil {
		return Parse(data)
	}
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(nameOrPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w %q (built in: %s)", ErrUnknownDescriptor, nameOrPath, strings.Join(Builtin(), ", "))
		}
		return nil, fmt.Errorf("failed to read format %q: %w", nameOrPath, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", nameOrPath, err)
	}
	return d, nil
}

// Parse decodes and validates a YAML descriptor. Unknown node kinds and
// unknown ops are errors.
func Parse(data []byte) (*Descriptor, error) {
	var f descriptorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid format descriptor: %w", err)
	}
	if f.Name == "" {
		return nil, errors.New("invalid format descriptor: missing name")
	}
	d := &Descriptor{Name: f.Name, Description: f.Description}
	for kindName, rf := range f.Rules {
		k, ok := ast.ParseKind(kindName)
		if !ok {
			return nil, fmt.Errorf("format %s: unknown node type %q", f.Name, kindName)
		}
		before, err := parseOps(rf.Before)
		if err != nil {
			return nil, fmt.Errorf("format %s: %s.before: %w", f.Name, kindName, err)
		}
		after, err := parseOps(rf.After)
		if err != nil {
			return nil, fmt.Errorf("format %s: %s.after: %w", f.Name, kindName, err)
		}
		d.rules[k] = Rule{Before: before, After: after}
	}
	return d, nil
}

func parseOps(names []string) ([]Op, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ops := make([]Op, 0, len(names))
	for _, n := range names {
		op, ok := opNames[strings.TrimSpace(n)]
		if !ok {
			return nil, fmt.Errorf("unknown layout op %q", n)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Before applies the "before" layout for k.
func (b *Buffer) Before(k ast.Kind) {
	b.apply(b.format.Rule(k).Before)
}

// After applies the "after" layout for k.
func (b *Buffer) After(k ast.Kind) {
	b.apply(b.format.Rule(k).After)
}

func (b *Buffer) apply(ops []Op) {
	for _, op := range ops {
		switch op {
		case OpNewline:
			b.Newline()
		case OpBlankLine:
			b.BlankLine()
		case OpSpace:
			b.Space()
		case OpIndent:
			b.Indent()
		case OpDedent:
			b.Dedent()
		}
	}
}
