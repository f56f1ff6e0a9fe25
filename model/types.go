package model

import (
	"fmt"
	"strings"
)

// Word is a single surface token.
type Word string

// Sentence is a tokenized source-language input.
type Sentence []Word

// String returns the space-joined surface form.
func (s Sentence) String() string {
	return joinWords(s)
}

// Phrase is a target-language token sequence.
type Phrase []Word

// String returns the space-joined surface form.
func (p Phrase) String() string {
	return joinWords(p)
}

func joinWords(words []Word) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(w))
	}
	return sb.String()
}

// Span is a half-open range [Start, End) of source positions.
type Span struct {
	Start int
	End   int
}

// NewSpan creates a span covering [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Len returns the number of positions covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether s and o share at least one position.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Distance returns the reordering jump from s to o, the absolute gap
// between where s ended and where o begins.
func (s Span) Distance(o Span) int {
	d := o.Start - s.End
	if d < 0 {
		return -d
	}
	return d
}

// String returns a string representation of the Span.
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
