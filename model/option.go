package model

import (
	"sort"
)

// TranslationOption is a precomputed translation of one source span.
//
// Score is the weighted static model score of the option (translation
// features only); language-model, distortion, and word-penalty deltas
// are added when the option is applied during search.
//
// Linked holds further options that must be applied together with this
// one as an atomic group. Applying the head option applies every linked
// option in order; if any link clashes with the running coverage, the
// whole group fails.
type TranslationOption struct {
	Source   Span
	Target   Phrase
	Features []float64
	Score    float64
	Linked   []*TranslationOption
}

// TotalSpanLen returns the number of source positions covered by the
// option and its linked group.
func (o *TranslationOption) TotalSpanLen() int {
	n := o.Source.Len()
	for _, l := range o.Linked {
		n += l.Source.Len()
	}
	return n
}

// GroupScore returns the static score of the option including its
// linked group.
func (o *TranslationOption) GroupScore() float64 {
	s := o.Score
	for _, l := range o.Linked {
		s += l.Score
	}
	return s
}

// Link marks the given options as an atomic group headed by o.
func (o *TranslationOption) Link(linked ...*TranslationOption) *TranslationOption {
	o.Linked = append(o.Linked, linked...)
	return o
}

// OptionList is a collection of translation options sharing a source span.
type OptionList []*TranslationOption

// Sort orders the list by descending score. The sort is stable so that
// equal-scored options keep their insertion order.
func (l OptionList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Score > l[j].Score
	})
}

// OptionGrid holds the translation options of one sentence, indexed by
// source span. It is built once before search and read-only thereafter.
type OptionGrid struct {
	size  int
	cells [][]OptionList // [start][end-start-1]
}

// NewOptionGrid creates an empty grid for a sentence of n source words.
func NewOptionGrid(n int) *OptionGrid {
	cells := make([][]OptionList, n)
	for i := range cells {
		cells[i] = make([]OptionList, n-i)
	}
	return &OptionGrid{size: n, cells: cells}
}

// Size returns the source length the grid was built for.
func (g *OptionGrid) Size() int {
	return g.size
}

// Add inserts an option under its source span.
func (g *OptionGrid) Add(opt *TranslationOption) {
	s := opt.Source
	if s.Start < 0 || s.End > g.size || s.Len() <= 0 {
		return
	}
	g.cells[s.Start][s.Len()-1] = append(g.cells[s.Start][s.Len()-1], opt)
}

// At returns the options covering exactly the given span.
func (g *OptionGrid) At(span Span) OptionList {
	if span.Start < 0 || span.End > g.size || span.Len() <= 0 {
		return nil
	}
	return g.cells[span.Start][span.Len()-1]
}

// SortAll sorts every cell by descending score.
func (g *OptionGrid) SortAll() {
	for _, row := range g.cells {
		for _, l := range row {
			l.Sort()
		}
	}
}

// EachSpan calls fn for every span with at least one option, in
// ascending (start, length) order.
func (g *OptionGrid) EachSpan(fn func(span Span, opts OptionList)) {
	for start, row := range g.cells {
		for w, l := range row {
			if len(l) > 0 {
				fn(Span{Start: start, End: start + w + 1}, l)
			}
		}
	}
}
