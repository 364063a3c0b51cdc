package compiler

import (
	"fmt"

	"ojc/internal/diag"
	"ojc/internal/format"
	"ojc/internal/symbols"
)

// CategoryPolicy decides what happens when a category names a class that
// has not been defined.
type CategoryPolicy uint8

const (
	// RequireBase reports "cannot find implementation declaration".
	RequireBase CategoryPolicy = iota
	// AllowMissingBase accepts the category silently.
	AllowMissingBase
)

func (p CategoryPolicy) String() string {
	if p == AllowMissingBase {
		return "allow-missing-base"
	}
	return "require-base"
}

// ParseCategoryPolicy accepts the names printed by String.
func ParseCategoryPolicy(s string) (CategoryPolicy, error) {
	switch s {
	case "", "require-base":
		return RequireBase, nil
	case "allow-missing-base":
		return AllowMissingBase, nil
	}
	return RequireBase, fmt.Errorf("unknown category policy %q (expected require-base or allow-missing-base)", s)
}

// Options configure one compilation.
type Options struct {
	// Environment selects the predefined globals: browser, node or bare.
	Environment string
	// MaxErrors is the error ceiling; 0 means unlimited.
	MaxErrors      int
	Warnings       diag.Warnings
	IgnoreWarnings bool

	// MethodNames gives method functions names like $Class__selector_.
	MethodNames bool
	// TypeSignatures attaches type lists to methods and ivars.
	TypeSignatures bool

	IndentString    string
	IndentWidth     int
	IncludeComments bool

	SourceMap  bool
	SourceRoot string
	// OutputDir is where generated files go; it only affects DestPath.
	OutputDir string

	// Format is a built-in descriptor name or a path to a YAML descriptor.
	Format string

	CategoryPolicy CategoryPolicy
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Environment:     symbols.EnvBrowser,
		MaxErrors:       20,
		Warnings:        diag.DefaultWarnings(),
		MethodNames:     true,
		TypeSignatures:  true,
		IndentString:    " ",
		IndentWidth:     4,
		IncludeComments: true,
		SourceRoot:      ".",
		Format:          "cappuccino",
	}
}

func (o Options) bufferOptions() format.Options {
	return format.Options{IndentString: o.IndentString, IndentWidth: o.IndentWidth}
}

func (o Options) ledgerOptions() diag.LedgerOptions {
	return diag.LedgerOptions{
		MaxErrors:      o.MaxErrors,
		Warnings:       o.Warnings,
		IgnoreWarnings: o.IgnoreWarnings,
	}
}
