package format

import (
	"encoding/json"
	"strings"

	"ojc/internal/source"
)

// Mapping links a generated position to a source byte offset. Generated
// line and column are 0-based; columns count UTF-16 units.
type Mapping struct {
	GenLine int
	GenCol  int
	Src     uint32
}

// Mappings returns the marked positions of the live output in order.
func (b *Buffer) Mappings() []Mapping {
	var out []Mapping
	line, col := 0, 0
	for _, sp := range b.spans {
		if sp.removed {
			continue
		}
		if sp.mapped {
			lead := len(sp.text) - len(strings.TrimLeft(sp.text, " \t"))
			out = append(out, Mapping{GenLine: line, GenCol: col + utf16Len(sp.text[:lead]), Src: sp.src})
		}
		for _, part := range strings.SplitAfter(sp.text, "\n") {
			if strings.HasSuffix(part, "\n") {
				line++
				col = 0
				continue
			}
			col += utf16Len(part)
		}
	}
	return out
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
			continue
		}
		n++
	}
	return n
}

// SourceMapOptions name the files a source map refers to.
type SourceMapOptions struct {
	File       string // generated file name
	SourceRoot string
	SourcePath string // path of the source as seen from SourceRoot
	// IncludeContent embeds the source text.
	IncludeContent bool
}

type sourceMapV3 struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// SourceMap renders a version 3 source map of b's output against src.
func (b *Buffer) SourceMap(src *source.File, opt SourceMapOptions) ([]byte, error) {
	sm := sourceMapV3{
		Version:    3,
		File:       opt.File,
		SourceRoot: opt.SourceRoot,
		Sources:    []string{opt.SourcePath},
		Names:      []string{},
	}
	if opt.IncludeContent && src != nil {
		sm.SourcesContent = []string{string(src.Content)}
	}

	var sb strings.Builder
	var prevGenCol, prevSrcLine, prevSrcCol int
	genLine := 0
	first := true
	for _, m := range b.Mappings() {
		for genLine < m.GenLine {
			sb.WriteByte(';')
			genLine++
			prevGenCol = 0
			first = true
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		srcLine, srcCol := sourcePosition(src, m.Src)
		writeVLQ(&sb, m.GenCol-prevGenCol)
		writeVLQ(&sb, 0) // single source
		writeVLQ(&sb, srcLine-prevSrcLine)
		writeVLQ(&sb, srcCol-prevSrcCol)
		prevGenCol, prevSrcLine, prevSrcCol = m.GenCol, srcLine, srcCol
	}
	sm.Mappings = sb.String()
	return json.Marshal(sm)
}

// sourcePosition converts a byte offset into a 0-based line and UTF-16 column.
func sourcePosition(src *source.File, off uint32) (line, col int) {
	if src == nil {
		return 0, int(off)
	}
	lc := src.LineCol(off)
	text := src.GetLine(lc.Line)
	byteCol := int(lc.Col) - 1
	if byteCol > len(text) {
		byteCol = len(text)
	}
	return int(lc.Line) - 1, utf16Len(text[:byteCol])
}

const vlqChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func writeVLQ(sb *strings.Builder, v int) {
	u := v << 1
	if v < 0 {
		u = (-v << 1) | 1
	}
	for {
		digit := u & 31
		u >>= 5
		if u > 0 {
			digit |= 32
		}
		sb.WriteByte(vlqChars[digit])
		if u == 0 {
			return
		}
	}
}
