package search

import (
	"math"
	"testing"

	"github.com/hupe1980/decgo/internal/bitmap"
	"github.com/hupe1980/decgo/model"
)

func opt(start, end int, target string, score float64) *model.TranslationOption {
	return &model.TranslationOption{
		Source: model.NewSpan(start, end),
		Target: model.Phrase{model.Word(target)},
		Score:  score,
	}
}

func grid(n int, opts ...*model.TranslationOption) *model.OptionGrid {
	g := model.NewOptionGrid(n)
	for _, o := range opts {
		g.Add(o)
	}
	g.SortAll()
	return g
}

func TestEstimateFuture_Composition(t *testing.T) {
	g := grid(3,
		opt(0, 1, "A", -1),
		opt(1, 2, "B", -2),
		opt(2, 3, "C", -3),
		opt(0, 2, "AB", -2.5),
	)
	m := EstimateFuture(g)

	if got := m.Get(0, 1); got != -1 {
		t.Errorf("expected -1 for [0,1), got %g", got)
	}
	// The phrase option beats the unigram composition for [0,2).
	if got := m.Get(0, 2); got != -2.5 {
		t.Errorf("expected -2.5 for [0,2), got %g", got)
	}
	// Whole span: best composition -2.5 + -3.
	if got := m.Get(0, 3); got != -5.5 {
		t.Errorf("expected -5.5 for [0,3), got %g", got)
	}
}

func TestEstimateFuture_UncoverableSpan(t *testing.T) {
	g := grid(2, opt(0, 1, "A", 0))
	m := EstimateFuture(g)

	if got := m.Get(1, 2); !math.IsInf(got, -1) {
		t.Errorf("expected -Inf for uncoverable span, got %g", got)
	}
	if got := m.Get(0, 2); !math.IsInf(got, -1) {
		t.Errorf("expected -Inf for span with uncoverable tail, got %g", got)
	}
}

func TestFutureFor_Runs(t *testing.T) {
	g := grid(4,
		opt(0, 1, "A", -1),
		opt(1, 2, "B", -2),
		opt(2, 3, "C", -4),
		opt(3, 4, "D", -8),
	)
	m := EstimateFuture(g)

	cov := bitmap.New(4).WithRange(1, 3)
	// Uncovered runs: [0,1) and [3,4).
	if got := m.FutureFor(cov); got != -9 {
		t.Errorf("expected -9, got %g", got)
	}

	full := bitmap.New(4).WithRange(0, 4)
	if got := m.FutureFor(full); got != 0 {
		t.Errorf("expected 0 for full coverage, got %g", got)
	}
}
