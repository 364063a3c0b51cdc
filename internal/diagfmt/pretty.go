package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ojc/internal/diag"
	"ojc/internal/source"
)

type palette struct {
	err, warn, note *color.Color
	loc, gutter     *color.Color
	caret           *color.Color
	bold            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.loc, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.note
	}
}

// Pretty форматирует issues в человекочитаемый вид, в порядке ledger'а.
// Для каждого issue печатает:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, issues []*diag.Issue, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, is := range issues {
		if is == nil {
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fileOf(fs, is.Primary)
		fmt.Fprintf(w, "%s %s %s\n",
			p.loc.Sprint(location(f, fs, is.Primary, is.Path, opts.PathMode)+":"),
			p.severity(is.Severity).Sprintf("%s %s:", is.Severity.Label(), is.Code.ID()),
			p.bold.Sprint(is.Message))
		if f != nil {
			writeSnippet(w, p, f, is.Primary, opts)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range is.Notes {
			at := ""
			if nf := fileOf(fs, n.Span); nf != nil && n.Span != is.Primary {
				at = " (" + location(nf, fs, n.Span, "", opts.PathMode) + ")"
			}
			fmt.Fprintf(w, "  %s %s%s\n", p.note.Sprint("= note:"), n.Msg, at)
		}
	}
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil {
		return nil
	}
	return fs.Get(sp.File)
}

func location(f *source.File, fs *source.FileSet, sp source.Span, fallback string, mode PathMode) string {
	if f == nil {
		if fallback == "" {
			return "ojc"
		}
		return fallback
	}
	lc := f.LineCol(sp.Start)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), lc.Line, lc.Col)
}

// writeSnippet печатает строку span'а (и Context строк перед ней) с
// подчёркиванием. Многострочный span подчёркивается до конца первой строки.
func writeSnippet(w io.Writer, p palette, f *source.File, sp source.Span, opts PrettyOpts) {
	start := f.LineCol(sp.Start)
	line := f.GetLine(start.Line)
	if line == "" && int(sp.Start) >= len(f.Content) {
		return
	}
	first := int(start.Line)
	if opts.Context > 0 {
		first = max(1, first-int(opts.Context))
	}
	width := len(strconv.FormatUint(uint64(start.Line), 10))

	for n := first; n <= int(start.Line); n++ {
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), clip(f.GetLine(uint32(n)), opts.Width))
	}

	col := min(int(start.Col)-1, len(line))
	under := line[col:]
	if sp.End > sp.Start {
		end := f.LineCol(sp.End)
		if end.Line == start.Line {
			under = line[col:max(col, min(int(end.Col)-1, len(line)))]
		}
	} else {
		under = ""
	}
	n := max(1, runewidth.StringWidth(under))
	marker := "^" + strings.Repeat("~", n-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), indentFor(line[:col]), p.caret.Sprint(marker))
}

// indentFor returns blank padding as wide as prefix, keeping tabs so the
// caret lines up under tab-indented source.
func indentFor(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}

// Short пишет по одной строке на issue в порядке ledger'а.
func Short(w io.Writer, issues []*diag.Issue, fs *source.FileSet, includeNotes bool) {
	if out := diag.FormatShort(issues, fs, includeNotes); out != "" {
		fmt.Fprintln(w, out)
	}
}

// Summary renders the closing "N errors, M warnings" line.
func Summary(errs, warnings int, useColor bool) string {
	p := newPalette(useColor)
	plural := func(n int, word string) string {
		if n == 1 {
			return "1 " + word
		}
		return strconv.Itoa(n) + " " + word + "s"
	}
	e := plural(errs, "error")
	if errs > 0 {
		e = p.err.Sprint(e)
	}
	wn := plural(warnings, "warning")
	if warnings > 0 {
		wn = p.warn.Sprint(wn)
	}
	return e + ", " + wn
}
