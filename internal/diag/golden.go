package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"ojc/internal/source"
)

type goldenIssue struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGolden renders issues into a stable, single-line-per-entry form
// suitable for golden files and test assertions. Entries are sorted by
// position; paths are relative to fs.BaseDir when fs is given.
func FormatGolden(issues []*Issue, fs *source.FileSet, includeNotes bool) string {
	return formatIssues(issues, fs, includeNotes, true)
}

// FormatShort renders issues in report order, one line each, for CLI output.
func FormatShort(issues []*Issue, fs *source.FileSet, includeNotes bool) string {
	return formatIssues(issues, fs, includeNotes, false)
}

func formatIssues(issues []*Issue, fs *source.FileSet, includeNotes, sorted bool) string {
	if len(issues) == 0 {
		return ""
	}

	rendered := make([]goldenIssue, 0, len(issues))
	for _, is := range issues {
		rendered = appendIssue(rendered, is, fs, includeNotes)
	}

	if sorted {
		sort.SliceStable(rendered, func(i, j int) bool {
			di, dj := rendered[i], rendered[j]
			if di.Path != dj.Path {
				return di.Path < dj.Path
			}
			if di.Line != dj.Line {
				return di.Line < dj.Line
			}
			if di.Column != dj.Column {
				return di.Column < dj.Column
			}
			if di.Severity != dj.Severity {
				return di.Severity < dj.Severity
			}
			if di.Code != dj.Code {
				return di.Code < dj.Code
			}
			return di.Message < dj.Message
		})
	}

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendIssue(out []goldenIssue, is *Issue, fs *source.FileSet, includeNotes bool) []goldenIssue {
	if is == nil {
		return out
	}
	loc := resolveSpan(fs, is.Primary, is.Path, is.Pos)
	out = append(out, goldenIssue{
		Severity: is.Severity.Label(),
		Code:     is.Code.ID(),
		Path:     loc.Path,
		Line:     loc.Line,
		Column:   loc.Column,
		Message:  sanitizeMessage(is.Message),
	})

	if includeNotes {
		for _, note := range is.Notes {
			nloc := resolveSpan(fs, note.Span, is.Path, note.Pos)
			out = append(out, goldenIssue{
				Severity: SevNote.Label(),
				Code:     is.Code.ID(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span, path string, pos source.LineCol) resolvedSpan {
	if fs != nil {
		if file := fs.Get(span.File); file != nil {
			lc := file.LineCol(span.Start)
			return resolvedSpan{
				Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
				Line:   lc.Line,
				Column: lc.Col,
			}
		}
	}
	return resolvedSpan{Path: normalizePath(path), Line: pos.Line, Column: pos.Col}
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
