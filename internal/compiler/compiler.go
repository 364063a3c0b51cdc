// Package compiler is the single-pass Objective-J compiler engine.
//
// A Compiler owns the per-file state of one compilation: the output buffer,
// the diagnostics ledger, the scope chain and a reference to the shared
// symbol registries. Code generation itself lives in a rule table supplied
// by the caller (see package codegen); rules call back into the compiler for
// semantic checks and for compiling children.
package compiler

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"ojc/internal/ast"
	"ojc/internal/diag"
	"ojc/internal/format"
	"ojc/internal/scope"
	"ojc/internal/source"
	"ojc/internal/symbols"
)

// Input is one parsed source file.
type Input struct {
	File       source.FileID
	Program    *ast.Program
	Comments   []ast.Comment
	ParseError *ast.ParseError
}

// SuperclassRef records a class that named a superclass, for linking once
// every file of a batch is compiled.
type SuperclassRef struct {
	Class      *symbols.ClassDef
	Superclass *ast.Identifier
	File       source.FileID
}

// Dependency is an @import.
type Dependency struct {
	Path  string
	Local bool
	Node  *ast.ImportStatement
}

// Compiler compiles one file.
type Compiler struct {
	opts    Options
	fs      *source.FileSet
	file    source.FileID
	src     *source.File
	program *ast.Program

	comments    []ast.Comment
	nextComment int

	regs    *symbols.Registries
	globals symbols.Globals
	ledger  *diag.Ledger
	desc    *format.Descriptor
	rules   *Rules

	buf             *format.Buffer
	instanceMethods *format.Buffer
	classMethods    *format.Buffer

	root     *scope.Scope
	current  *scope.Scope
	lastNode ast.Node
	stack    []ast.Node

	superclassRefs []SuperclassRef
	dependencies   []Dependency
	aborted        bool
}

// New prepares a compiler for in. The registries are shared across files
// and may be nil for a standalone compilation.
func New(fs *source.FileSet, in Input, regs *symbols.Registries, opts Options) (*Compiler, error) {
	if fs == nil {
		return nil, errors.New("compiler: nil file set")
	}
	src := fs.Get(in.File)
	if src == nil {
		return nil, fmt.Errorf("compiler: unknown file id %d", in.File)
	}
	globals, err := symbols.PredefinedGlobals(opts.Environment)
	if err != nil {
		return nil, err
	}
	desc, err := format.Load(opts.Format)
	if err != nil {
		return nil, err
	}
	if regs == nil {
		regs = symbols.NewRegistries()
	}
	comments := append([]ast.Comment(nil), in.Comments...)
	sort.SliceStable(comments, func(i, j int) bool { return comments[i].Start < comments[j].Start })

	c := &Compiler{
		opts:     opts,
		fs:       fs,
		file:     in.File,
		src:      src,
		program:  in.Program,
		comments: comments,
		regs:     regs,
		globals:  globals,
		ledger:   diag.NewLedger(fs, opts.ledgerOptions()),
		desc:     desc,
		root:     scope.NewGlobal(),
	}
	c.buf = format.NewBuffer(opts.bufferOptions(), desc)
	return c, nil
}

// Options returns the options the compiler was built with.
func (c *Compiler) Options() Options { return c.opts }

// FileSet returns the file set spans resolve against.
func (c *Compiler) FileSet() *source.FileSet { return c.fs }

// File returns the file being compiled.
func (c *Compiler) File() *source.File { return c.src }

// Registries returns the shared symbol registries.
func (c *Compiler) Registries() *symbols.Registries { return c.regs }

// Globals returns the predefined globals of the configured environment.
func (c *Compiler) Globals() symbols.Globals { return c.globals }

// Ledger returns the diagnostics ledger.
func (c *Compiler) Ledger() *diag.Ledger { return c.ledger }

// RootScope returns the global scope of this file.
func (c *Compiler) RootScope() *scope.Scope { return c.root }

// Buffer returns the buffer rules currently write to.
func (c *Compiler) Buffer() *format.Buffer { return c.buf }

// SetBuffer redirects output to b and returns the previous buffer.
func (c *Compiler) SetBuffer(b *format.Buffer) *format.Buffer {
	prev := c.buf
	c.buf = b
	return prev
}

// MethodBuffer returns the buffer collecting instance or class methods of
// the class being compiled; nil outside a class.
func (c *Compiler) MethodBuffer(classMethod bool) *format.Buffer {
	if classMethod {
		return c.classMethods
	}
	return c.instanceMethods
}

// SetMethodBuffers installs the method buffers for a class body and
// returns the previous pair.
func (c *Compiler) SetMethodBuffers(instance, class *format.Buffer) (prevInstance, prevClass *format.Buffer) {
	prevInstance, prevClass = c.instanceMethods, c.classMethods
	c.instanceMethods, c.classMethods = instance, class
	return prevInstance, prevClass
}

// CompileNode compiles n with the rule registered for its own kind.
func (c *Compiler) CompileNode(n ast.Node, s *scope.Scope) error {
	if isNil(n) {
		return nil
	}
	return c.CompileNodeAs(n, s, n.Kind())
}

// CompileNodeAs compiles n with the rule registered for kind. When a rule
// re-enters the compiler for the node it is handling, format hooks are not
// applied a second time.
func (c *Compiler) CompileNodeAs(n ast.Node, s *scope.Scope, kind ast.Kind) error {
	if isNil(n) {
		return nil
	}
	if c.rules == nil {
		return errors.New("compiler: no rule table installed")
	}
	if kind <= ast.KindInvalid || kind >= ast.KindCount || c.rules[kind] == nil {
		return fmt.Errorf("compiler: no rule for %s", kind)
	}
	same := c.lastNode == n
	c.lastNode = n
	if !same {
		c.stack = append(c.stack, n)
		c.buf.Before(n.Kind())
	}
	outer := c.current
	c.current = s
	err := c.rules[kind](c, n, s)
	c.current = outer
	if !same {
		c.buf.After(n.Kind())
		c.stack = c.stack[:len(c.stack)-1]
	}
	return err
}

// CompileWithFormat runs rules over the whole program. It returns nil, an
// *AbortError when the error ceiling was hit, or an internal error.
func (c *Compiler) CompileWithFormat(rules *Rules) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	c.rules = rules
	if c.program == nil {
		return nil
	}
	err := c.CompileNode(c.program, c.root)
	if errors.Is(err, ErrTooManyErrors) {
		c.aborted = true
	}
	return err
}

// Aborted reports whether compilation stopped at the error ceiling.
func (c *Compiler) Aborted() bool { return c.aborted }

// Code returns the generated JavaScript. It always ends in exactly one
// newline; with source maps on, the sourceMappingURL trailer follows.
func (c *Compiler) Code() string {
	out := strings.TrimRight(c.buf.String(), "\n") + "\n"
	if c.opts.SourceMap {
		out += "//# sourceMappingURL=" + url.PathEscape(source.BaseName(c.DestPath())) + ".map\n"
	}
	return out
}

// DestPath is where the generated file goes.
func (c *Compiler) DestPath() string {
	return source.DestPath(c.src.Path, c.opts.OutputDir)
}

// SourceMap renders the v3 source map of the generated code.
func (c *Compiler) SourceMap() ([]byte, error) {
	return c.buf.SourceMap(c.src, format.SourceMapOptions{
		File:           source.BaseName(c.DestPath()),
		SourceRoot:     c.opts.SourceRoot,
		SourcePath:     source.BaseName(c.src.Path),
		IncludeContent: true,
	})
}

// Dependencies lists the @imports seen so far.
func (c *Compiler) Dependencies() []Dependency { return c.dependencies }

// AddDependency records an @import.
func (c *Compiler) AddDependency(n *ast.ImportStatement) {
	c.dependencies = append(c.dependencies, Dependency{Path: n.Filename, Local: n.Local, Node: n})
}

// SuperclassRefs lists the classes that named a superclass.
func (c *Compiler) SuperclassRefs() []SuperclassRef { return c.superclassRefs }

// Span converts a node of the current file into a span.
func (c *Compiler) Span(n ast.Node) source.Span {
	if isNil(n) {
		return source.Span{File: c.file}
	}
	r := n.Range()
	return source.Span{File: c.file, Start: r.Start, End: r.End}
}

// AddError starts an error anchored at n.
func (c *Compiler) AddError(code diag.Code, n ast.Node, format string, args ...any) *diag.ReportBuilder {
	return c.scoped(diag.ReportError(c.ledger, code, c.Span(n), format, args...).WithNode(n))
}

// AddWarning starts a warning anchored at n. It returns nil when the
// warning is disabled; the builder chain is nil-safe.
func (c *Compiler) AddWarning(code diag.Code, n ast.Node, format string, args ...any) *diag.ReportBuilder {
	return c.scoped(diag.ReportWarning(c.ledger, code, c.Span(n), format, args...).WithNode(n))
}

// scoped records on b the scope of the rule being run, the file scope
// between rules.
func (c *Compiler) scoped(b *diag.ReportBuilder) *diag.ReportBuilder {
	s := c.current
	if s == nil {
		s = c.root
	}
	if s == nil {
		return b
	}
	return b.WithScope(s)
}

// CurrentScope is the scope handed to the rule being run, nil between
// rules.
func (c *Compiler) CurrentScope() *scope.Scope { return c.current }

// ShouldWarnAbout reports whether warnings with code would be recorded.
func (c *Compiler) ShouldWarnAbout(code diag.Code) bool {
	return c.ledger.Enabled(code)
}

// FilterIdentifierIssues drops the unknown-identifier and implicit-global
// warnings raised inside s for names s has since declared.
func (c *Compiler) FilterIdentifierIssues(s *scope.Scope) {
	c.ledger.Filter(func(is *diag.Issue) bool {
		if !is.Filterable || is.Scope != any(s) {
			return true
		}
		b := s.Own(is.Name)
		return b == nil || b.Kind.IsGlobal()
	})
}

// PendingComments returns the comments that end at or before off and have
// not been handed out yet.
func (c *Compiler) PendingComments(off uint32) []ast.Comment {
	start := c.nextComment
	for c.nextComment < len(c.comments) && c.comments[c.nextComment].End <= off {
		c.nextComment++
	}
	return c.comments[start:c.nextComment]
}

// statementBefore returns the statement preceding stmt in the innermost
// statement list on the node stack that contains it.
func (c *Compiler) statementBefore(stmt ast.Node) ast.Node {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i] != stmt {
			continue
		}
		if i == 0 {
			return nil
		}
		body := statementList(c.stack[i-1])
		for j, n := range body {
			if n == stmt {
				if j == 0 {
					return nil
				}
				return body[j-1]
			}
		}
		return nil
	}
	return nil
}

// enclosingStatement returns the innermost statement on the node stack.
func (c *Compiler) enclosingStatement() ast.Node {
	for i := len(c.stack) - 1; i > 0; i-- {
		if statementList(c.stack[i-1]) != nil && isStatementIn(c.stack[i-1], c.stack[i]) {
			return c.stack[i]
		}
	}
	return nil
}

func statementList(n ast.Node) []ast.Node {
	switch x := n.(type) {
	case *ast.Program:
		return x.Body
	case *ast.BlockStatement:
		return x.Body
	case *ast.SwitchCase:
		return x.Consequent
	case *ast.MethodDeclaration:
		if x.Body != nil {
			return x.Body.Body
		}
	}
	return nil
}

func isStatementIn(list, n ast.Node) bool {
	for _, s := range statementList(list) {
		if s == n {
			return true
		}
	}
	return false
}

// Result is everything one compilation produced.
type Result struct {
	File           source.FileID
	Code           string
	SourceMap      []byte
	DestPath       string
	Issues         []*diag.Issue
	ClassDefs      *symbols.Registry[*symbols.ClassDef]
	ProtocolDefs   *symbols.Registry[*symbols.ProtocolDef]
	TypeDefs       *symbols.Registry[*symbols.TypeDef]
	SuperclassRefs []SuperclassRef
	Dependencies   []Dependency
	Aborted        bool
}

// ErrorCount counts error-severity issues.
func (r *Result) ErrorCount() int {
	n := 0
	for _, is := range r.Issues {
		if is.IsError() {
			n++
		}
	}
	return n
}

// Result collects the compiler's output. A source map is rendered only
// when enabled.
func (c *Compiler) Result() (*Result, error) {
	res := &Result{
		File:           c.file,
		Code:           c.Code(),
		DestPath:       c.DestPath(),
		Issues:         c.ledger.Issues(),
		ClassDefs:      c.regs.Classes,
		ProtocolDefs:   c.regs.Protocols,
		TypeDefs:       c.regs.TypeDefs,
		SuperclassRefs: c.superclassRefs,
		Dependencies:   c.dependencies,
		Aborted:        c.aborted,
	}
	if c.opts.SourceMap {
		sm, err := c.SourceMap()
		if err != nil {
			return nil, err
		}
		res.SourceMap = sm
	}
	return res, nil
}

// Compile runs one file through rules. A parse error in the input becomes
// the only issue of the result. Hitting the error ceiling is not an error
// here: the result comes back with Aborted set and the partial output.
func Compile(fs *source.FileSet, in Input, regs *symbols.Registries, opts Options, rules *Rules) (*Result, error) {
	c, err := New(fs, in, regs, opts)
	if err != nil {
		return nil, err
	}
	if in.ParseError != nil {
		sp := source.Span{File: in.File, Start: in.ParseError.Pos, End: in.ParseError.Pos}
		_ = c.scoped(diag.ReportError(c.ledger, diag.InpParseError, sp, "%s", in.ParseError.Message)).Emit()
		return &Result{
			File:     in.File,
			DestPath: c.DestPath(),
			Issues:   c.ledger.Issues(),
		}, nil
	}
	if err := c.CompileWithFormat(rules); err != nil && !errors.Is(err, ErrTooManyErrors) {
		return nil, err
	}
	return c.Result()
}

func isNil(n ast.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
