package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{"disjoint, b after a", Span{1, 0, 4}, Span{1, 10, 12}, Span{1, 0, 12}},
		{"b before a", Span{1, 10, 12}, Span{1, 2, 3}, Span{1, 2, 12}},
		{"nested", Span{1, 0, 20}, Span{1, 5, 6}, Span{1, 0, 20}},
		{"different files keep receiver", Span{1, 0, 4}, Span{2, 0, 40}, Span{1, 0, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Fatalf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_Tail(t *testing.T) {
	sp := Span{File: 3, Start: 10, End: 25}
	if got := sp.Tail(1); got != (Span{File: 3, Start: 24, End: 25}) {
		t.Fatalf("Tail(1) = %v", got)
	}
	if got := sp.Tail(100); got != sp {
		t.Fatalf("Tail(100) = %v, want whole span", got)
	}
	if got := sp.At(); !got.Empty() || got.Start != 10 {
		t.Fatalf("At() = %v", got)
	}
}

func TestSpan_String(t *testing.T) {
	if got := (Span{File: 2, Start: 7, End: 9}).String(); got != "2:7-9" {
		t.Fatalf("String() = %q", got)
	}
}
