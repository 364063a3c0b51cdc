package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends s so that it also spans other. Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Tail returns the last n bytes of the span (the whole span if it is shorter).
func (s Span) Tail(n uint32) Span {
	if s.Len() <= n {
		return s
	}
	return Span{File: s.File, Start: s.End - n, End: s.End}
}

// At returns a zero-length span at the start of s.
func (s Span) At() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}
