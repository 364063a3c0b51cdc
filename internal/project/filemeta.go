package project

import (
	"path"
	"path/filepath"

	"ojc/internal/source"
)

// ImportMeta is one @import of a file. Local imports are resolved against
// the importing file's directory; framework imports keep their path.
type ImportMeta struct {
	Path  string
	Local bool
	Span  source.Span
}

// FileMeta describes a source file of a batch for ordering and caching.
type FileMeta struct {
	Path    string // slash-separated, cleaned
	Imports []ImportMeta
	Hash    Digest
}

// NormalizePath cleans p and converts it to forward slashes.
func NormalizePath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// ResolveImport returns the path an @import refers to. from is the path of
// the importing source file.
func ResolveImport(from, target string, local bool) string {
	if !local {
		return NormalizePath(target)
	}
	return path.Join(path.Dir(NormalizePath(from)), filepath.ToSlash(target))
}
