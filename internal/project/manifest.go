package project

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ojc/internal/compiler"
	"ojc/internal/diag"
)

var (
	// ErrPackageSectionMissing indicates that [package] is missing in ojc.toml.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing in ojc.toml.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Manifest is a parsed ojc.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config

	meta toml.MetaData
}

// Config mirrors the sections of ojc.toml.
type Config struct {
	Package  PackageConfig   `toml:"package"`
	Compile  CompileConfig   `toml:"compile"`
	Warnings map[string]bool `toml:"warnings"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// CompileConfig holds [compile]. Keys absent from the file leave the
// corresponding option untouched.
type CompileConfig struct {
	Sources []string `toml:"sources"`
	// Prelude lists envelopes whose declarations are visible to every
	// source without being compiled to output (frameworks).
	Prelude         []string `toml:"prelude"`
	Output          string   `toml:"output"`
	Format          string   `toml:"format"`
	Environment     string   `toml:"environment"`
	MaxErrors       int      `toml:"max-errors"`
	MethodNames     bool     `toml:"method-names"`
	TypeSignatures  bool     `toml:"type-signatures"`
	IncludeComments bool     `toml:"include-comments"`
	SourceMap       bool     `toml:"source-map"`
	SourceRoot      string   `toml:"source-root"`
	IndentString    string   `toml:"indent-string"`
	IndentWidth     int      `toml:"indent-width"`
	CategoryPolicy  string   `toml:"category-policy"`
	IgnoreWarnings  bool     `toml:"ignore-warnings"`
}

// ManifestName is the project file LoadManifest looks for.
const ManifestName = "ojc.toml"

// LoadManifest finds ojc.toml from startDir upwards and parses it.
// ok is false when there is no manifest.
func LoadManifest(startDir string) (m *Manifest, ok bool, err error) {
	path, err := locateManifest(startDir)
	if err != nil || path == "" {
		return nil, false, err
	}
	m, err = LoadManifestFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// locateManifest returns the nearest ojc.toml at or above startDir, or ""
// when there is none. The walk stops at the first directory holding .git:
// a manifest outside the checkout never applies to it.
func locateManifest(startDir string) (string, error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		_, err := os.Stat(candidate)
		switch {
		case err == nil:
			return candidate, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadManifestFile parses the manifest at path.
func LoadManifestFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for name := range cfg.Warnings {
		if _, err := diag.ParseCategory(name); err != nil {
			return nil, fmt.Errorf("%s: [warnings]: %w", path, err)
		}
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		meta:   meta,
	}, nil
}

func (m *Manifest) defined(key string) bool {
	return m.meta.IsDefined("compile", key)
}

// Apply copies every key present in the manifest into opts. Relative
// paths are resolved against the manifest's directory.
func (m *Manifest) Apply(opts *compiler.Options) error {
	if m == nil {
		return nil
	}
	c := m.Config.Compile
	if m.defined("output") {
		opts.OutputDir = m.Resolve(c.Output)
	}
	if m.defined("format") {
		opts.Format = c.Format
		if strings.HasSuffix(c.Format, ".yaml") || strings.HasSuffix(c.Format, ".yml") {
			opts.Format = m.Resolve(c.Format)
		}
	}
	if m.defined("environment") {
		opts.Environment = c.Environment
	}
	if m.defined("max-errors") {
		if c.MaxErrors < 0 {
			return fmt.Errorf("%s: [compile].max-errors must not be negative", m.Path)
		}
		opts.MaxErrors = c.MaxErrors
	}
	if m.defined("method-names") {
		opts.MethodNames = c.MethodNames
	}
	if m.defined("type-signatures") {
		opts.TypeSignatures = c.TypeSignatures
	}
	if m.defined("include-comments") {
		opts.IncludeComments = c.IncludeComments
	}
	if m.defined("source-map") {
		opts.SourceMap = c.SourceMap
	}
	if m.defined("source-root") {
		opts.SourceRoot = c.SourceRoot
	}
	if m.defined("indent-string") {
		opts.IndentString = c.IndentString
	}
	if m.defined("indent-width") {
		if c.IndentWidth < 0 {
			return fmt.Errorf("%s: [compile].indent-width must not be negative", m.Path)
		}
		opts.IndentWidth = c.IndentWidth
	}
	if m.defined("ignore-warnings") {
		opts.IgnoreWarnings = c.IgnoreWarnings
	}
	if m.defined("category-policy") {
		p, err := compiler.ParseCategoryPolicy(c.CategoryPolicy)
		if err != nil {
			return fmt.Errorf("%s: %w", m.Path, err)
		}
		opts.CategoryPolicy = p
	}
	if len(m.Config.Warnings) > 0 {
		w := opts.Warnings.Clone()
		if w == nil {
			w = diag.DefaultWarnings()
		}
		for name, on := range m.Config.Warnings {
			cat, err := diag.ParseCategory(name)
			if err != nil {
				return fmt.Errorf("%s: [warnings]: %w", m.Path, err)
			}
			w[cat] = on
		}
		opts.Warnings = w
	}
	return nil
}

// SourceRoots returns the [compile].sources entries as absolute paths,
// or the project root when none are listed.
func (m *Manifest) SourceRoots() []string {
	if len(m.Config.Compile.Sources) == 0 {
		return []string{m.Root}
	}
	out := make([]string, len(m.Config.Compile.Sources))
	for i, s := range m.Config.Compile.Sources {
		out[i] = m.Resolve(s)
	}
	return out
}

// PreludePaths returns the [compile].prelude entries as absolute paths.
func (m *Manifest) PreludePaths() []string {
	out := make([]string, len(m.Config.Compile.Prelude))
	for i, p := range m.Config.Compile.Prelude {
		out[i] = m.Resolve(p)
	}
	return out
}

// Resolve makes p absolute relative to the manifest's directory.
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

// Template renders the ojc.toml written by "ojc init".
func Template(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[package]\nname = %q\n\n", name)
	sb.WriteString("[compile]\n")
	sb.WriteString("sources = [\"src\"]\n")
	sb.WriteString("prelude = []\n")
	sb.WriteString("output = \"build\"\n")
	sb.WriteString("format = \"cappuccino\"\n")
	sb.WriteString("environment = \"browser\"\n")
	sb.WriteString("max-errors = 20\n")
	sb.WriteString("source-map = false\n\n")
	sb.WriteString("[warnings]\n")
	for _, cat := range diag.CategoryNames() {
		c, _ := diag.ParseCategory(cat)
		fmt.Fprintf(&sb, "%s = %t\n", cat, diag.DefaultWarnings().Enabled(c))
	}
	return sb.String()
}
