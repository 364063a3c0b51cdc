package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ojc/internal/compiler"
	"ojc/internal/diag"
	"ojc/internal/format"
	"ojc/internal/project"
	"ojc/internal/symbols"
)

const noManifestMessage = "no ojc.toml found\nplease pass envelope files or directories explicitly, e.g.:\n  ojc compile build/parsed\nor run \"ojc init\" to create a project"

// sessionConfig is everything a compile or check run needs, after ojc.toml
// and the command line have been merged.
type sessionConfig struct {
	manifest *project.Manifest
	opts     compiler.Options
	roots    []string
	prelude  []string
	baseDir  string
}

// registerCompileFlags adds the flags shared by compile and check.
func registerCompileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "directory for generated .oj files (default: working directory)")
	f.String("format", "", "format descriptor: built-in name ("+strings.Join(format.Builtin(), ", ")+") or path to a YAML file")
	f.String("env", "", "predefined globals environment ("+strings.Join(symbols.Environments(), "|")+")")
	f.Int("max-errors", 0, "stop a file after this many errors (0 = unlimited)")
	f.StringSlice("warn", nil, "enable warning categories (or \"all\")")
	f.StringSlice("no-warn", nil, "disable warning categories (or \"all\")")
	f.Bool("ignore-warnings", false, "do not report warnings at all")
	f.Bool("source-map", false, "write a .map file next to every output")
	f.String("source-root", "", "sourceRoot recorded in source maps")
	f.Bool("method-names", true, "name method functions $Class__selector")
	f.Bool("type-signatures", true, "record method and ivar type signatures")
	f.Bool("include-comments", true, "re-emit comments preceding statements")
	f.String("indent-string", "", "indentation unit of generated code")
	f.Int("indent-width", 0, "indentation units per level")
	f.String("category-policy", "", "categories of unknown classes (require-base|allow-missing-base)")
	f.StringSlice("prelude", nil, "envelopes declared but not compiled (frameworks)")
	f.Int("jobs", 0, "parallel envelope decoding (0 = GOMAXPROCS)")
	f.Bool("no-cache", false, "do not use the prelude registry cache")
	f.Bool("clear-cache", false, "drop the prelude registry cache before running")
	f.String("ui", "auto", "progress interface (auto|on|off)")
	f.String("diagnostics", "pretty", "issue output (pretty|short|json)")
}

// resolveConfig loads ojc.toml (if any) and applies command-line overrides
// on top of it. Positional args replace [compile].sources.
func resolveConfig(cmd *cobra.Command, args []string) (*sessionConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg := &sessionConfig{opts: compiler.DefaultOptions(), baseDir: wd}

	manifest, found, err := project.LoadManifest(wd)
	if err != nil {
		return nil, err
	}
	if found {
		cfg.manifest = manifest
		cfg.baseDir = manifest.Root
		if err := manifest.Apply(&cfg.opts); err != nil {
			return nil, err
		}
		cfg.roots = manifest.SourceRoots()
		cfg.prelude = manifest.PreludePaths()
	}
	if len(args) > 0 {
		cfg.roots = args
	}
	if len(cfg.roots) == 0 {
		return nil, errors.New(noManifestMessage)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if _, err := symbols.PredefinedGlobals(cfg.opts.Environment); err != nil {
		return nil, err
	}
	if _, err := format.Load(cfg.opts.Format); err != nil {
		return nil, fmt.Errorf("--format: %w", err)
	}
	return cfg, nil
}

// applyFlags copies every flag the user set into cfg.
func applyFlags(cmd *cobra.Command, cfg *sessionConfig) error {
	f := cmd.Flags()
	o := &cfg.opts
	var err error
	str := func(name string, dst *string) {
		if err == nil && f.Changed(name) {
			*dst, err = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if err == nil && f.Changed(name) {
			*dst, err = f.GetInt(name)
			if err == nil && *dst < 0 {
				err = fmt.Errorf("--%s must not be negative", name)
			}
		}
	}
	flag := func(name string, dst *bool) {
		if err == nil && f.Changed(name) {
			*dst, err = f.GetBool(name)
		}
	}

	str("output", &o.OutputDir)
	str("format", &o.Format)
	str("env", &o.Environment)
	str("source-root", &o.SourceRoot)
	str("indent-string", &o.IndentString)
	num("max-errors", &o.MaxErrors)
	num("indent-width", &o.IndentWidth)
	flag("ignore-warnings", &o.IgnoreWarnings)
	flag("source-map", &o.SourceMap)
	flag("method-names", &o.MethodNames)
	flag("type-signatures", &o.TypeSignatures)
	flag("include-comments", &o.IncludeComments)
	if err != nil {
		return err
	}

	if f.Changed("category-policy") {
		value, _ := f.GetString("category-policy")
		p, perr := compiler.ParseCategoryPolicy(value)
		if perr != nil {
			return perr
		}
		o.CategoryPolicy = p
	}
	if f.Changed("prelude") {
		cfg.prelude, _ = f.GetStringSlice("prelude")
	}

	enable, _ := f.GetStringSlice("warn")
	disable, _ := f.GetStringSlice("no-warn")
	if len(enable)+len(disable) > 0 {
		w := o.Warnings.Clone()
		if err := setWarnings(w, enable, true); err != nil {
			return fmt.Errorf("--warn: %w", err)
		}
		if err := setWarnings(w, disable, false); err != nil {
			return fmt.Errorf("--no-warn: %w", err)
		}
		o.Warnings = w
	}
	return nil
}

func setWarnings(w diag.Warnings, names []string, on bool) error {
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			for _, n := range diag.CategoryNames() {
				c, _ := diag.ParseCategory(n)
				w[c] = on
			}
			continue
		}
		c, err := diag.ParseCategory(name)
		if err != nil {
			return err
		}
		w[c] = on
	}
	return nil
}
