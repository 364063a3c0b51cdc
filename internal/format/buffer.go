package format

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// SpanID addresses text previously written to a Buffer. Zero is "nothing".
type SpanID uint32

// Options control indentation.
type Options struct {
	IndentString string
	IndentWidth  int
}

func (o Options) withDefaults() Options {
	if o.IndentString == "" {
		o.IndentString = " "
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

type span struct {
	text    string
	group   SpanID // 0 for indentation
	removed bool
	src     uint32 // source offset mapped to the span start
	mapped  bool
}

// Buffer accumulates generated text as removable spans.
type Buffer struct {
	opt    Options
	unit   string
	format *Descriptor

	spans  []span
	groups [][]int

	level       int
	atLineStart bool
	newlines    int // trailing '\n' count of the output, saturating at 2

	pendingSrc uint32
	hasPending bool

	// set once the buffer has been appended to another one
	parent *Buffer
	remap  []SpanID
}

// NewBuffer creates an empty buffer. A nil descriptor disables hooks.
func NewBuffer(opt Options, d *Descriptor) *Buffer {
	opt = opt.withDefaults()
	return &Buffer{
		opt:         opt,
		unit:        strings.Repeat(opt.IndentString, opt.IndentWidth),
		format:      d,
		atLineStart: true,
		newlines:    2,
	}
}

// Fork creates an empty buffer with the same options, descriptor and
// indentation level. Its content is meant to be Appended later.
func (b *Buffer) Fork() *Buffer {
	c := NewBuffer(b.opt, b.format)
	c.level = b.level
	c.atLineStart = b.atLineStart
	c.newlines = b.newlines
	return c
}

// Descriptor returns the layout descriptor, possibly nil.
func (b *Buffer) Descriptor() *Descriptor { return b.format }

func (b *Buffer) nextGroup() SpanID {
	id, err := safecast.Conv[uint32](len(b.groups) + 1)
	if err != nil {
		panic(fmt.Errorf("buffer span overflow: %w", err))
	}
	b.groups = append(b.groups, nil)
	return SpanID(id)
}

func (b *Buffer) push(text string, group SpanID) {
	b.pushMapped(text, group, 0, false)
}

func (b *Buffer) pushMapped(text string, group SpanID, src uint32, mapped bool) {
	b.spans = append(b.spans, span{text: text, group: group, src: src, mapped: mapped})
	if group != 0 {
		b.groups[group-1] = append(b.groups[group-1], len(b.spans)-1)
	}
	b.track(text)
}

func (b *Buffer) track(text string) {
	if text == "" {
		return
	}
	b.atLineStart = text[len(text)-1] == '\n'
	trailing := len(text) - len(strings.TrimRight(text, "\n"))
	switch {
	case trailing == len(text):
		b.newlines = min(b.newlines+trailing, 2)
	default:
		b.newlines = min(trailing, 2)
	}
}

// Write appends s, indenting every line that starts inside s, and returns
// the id of the written text.
func (b *Buffer) Write(s string) SpanID {
	if s == "" {
		return 0
	}
	id := b.nextGroup()
	for len(s) > 0 {
		line := s
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			line = s[:i+1]
		}
		s = s[len(line):]
		if b.atLineStart && line != "\n" && b.level > 0 {
			b.push(strings.Repeat(b.unit, b.level), 0)
		}
		mapped := b.hasPending && strings.TrimSpace(line) != ""
		if mapped {
			b.hasPending = false
		}
		b.pushMapped(line, id, b.pendingSrc, mapped)
	}
	return id
}

// Writef is Write with fmt formatting.
func (b *Buffer) Writef(format string, args ...any) SpanID {
	return b.Write(fmt.Sprintf(format, args...))
}

// Remove tombstones the text written under id. It reports whether
// anything was removed.
func (b *Buffer) Remove(id SpanID) bool {
	if b.parent != nil {
		if id == 0 || int(id) > len(b.remap) {
			return false
		}
		return b.parent.Remove(b.remap[id-1])
	}
	if id == 0 || int(id) > len(b.groups) {
		return false
	}
	removed := false
	for _, idx := range b.groups[id-1] {
		if !b.spans[idx].removed {
			b.spans[idx].removed = true
			removed = true
		}
	}
	return removed
}

// Newline ends the current line unless the output already sits at the
// start of one.
func (b *Buffer) Newline() {
	if !b.atLineStart {
		b.push("\n", 0)
	}
}

// HardNewline always writes a line break.
func (b *Buffer) HardNewline() {
	b.push("\n", 0)
}

// BlankLine makes sure the output ends with an empty line. At the start of
// the output it does nothing.
func (b *Buffer) BlankLine() {
	b.Newline()
	if b.newlines < 2 {
		b.push("\n", 0)
	}
}

// Space writes a single space unless the output ends in whitespace.
func (b *Buffer) Space() {
	if b.atLineStart {
		return
	}
	if n := len(b.spans); n > 0 && strings.HasSuffix(b.spans[n-1].text, " ") {
		return
	}
	b.push(" ", 0)
}

// Indent increases the indentation level.
func (b *Buffer) Indent() { b.level++ }

// Dedent decreases the indentation level.
func (b *Buffer) Dedent() {
	if b.level > 0 {
		b.level--
	}
}

// Level returns the current indentation level.
func (b *Buffer) Level() int { return b.level }

// AtLineStart reports whether the next write begins a line.
func (b *Buffer) AtLineStart() bool { return b.atLineStart }

// Mark maps the next non-blank text written to the source offset off.
func (b *Buffer) Mark(off uint32) {
	b.pendingSrc, b.hasPending = off, true
}

// Append moves the live spans of child to the end of b. Span ids issued by
// child keep working: Remove on child is forwarded to b.
func (b *Buffer) Append(child *Buffer) {
	if child == nil || child == b {
		return
	}
	child.remap = make([]SpanID, len(child.groups))
	for i := range child.groups {
		child.remap[i] = b.nextGroup()
	}
	for _, sp := range child.spans {
		if sp.removed {
			continue
		}
		group := SpanID(0)
		if sp.group != 0 {
			group = child.remap[sp.group-1]
		}
		b.pushMapped(sp.text, group, sp.src, sp.mapped)
	}
	child.parent = b
	child.spans, child.groups = nil, nil
}

// Empty reports whether no live text has been written.
func (b *Buffer) Empty() bool {
	for _, sp := range b.spans {
		if !sp.removed && sp.text != "" {
			return false
		}
	}
	return true
}

// String concatenates the live spans.
func (b *Buffer) String() string {
	var sb strings.Builder
	for _, sp := range b.spans {
		if !sp.removed {
			sb.WriteString(sp.text)
		}
	}
	return sb.String()
}
