package search

import (
	"math"

	"github.com/hupe1980/decgo/internal/bitmap"
	"github.com/hupe1980/decgo/model"
)

// SquareMatrix is the triangular future-score table: Get(i, j) is the
// best achievable static score for covering the source span [i, j).
// Built once per sentence, read-only thereafter.
type SquareMatrix struct {
	n     int
	score []float64
}

func newSquareMatrix(n int) *SquareMatrix {
	m := &SquareMatrix{
		n:     n,
		score: make([]float64, n*(n+1)),
	}
	for i := range m.score {
		m.score[i] = math.Inf(-1)
	}
	return m
}

func (m *SquareMatrix) idx(i, j int) int {
	return i*(m.n+1) + j
}

// Get returns the best score for covering [i, j).
func (m *SquareMatrix) Get(i, j int) float64 {
	if i < 0 || j > m.n || i >= j {
		return 0
	}
	return m.score[m.idx(i, j)]
}

func (m *SquareMatrix) set(i, j int, v float64) {
	m.score[m.idx(i, j)] = v
}

// EstimateFuture builds the future-score table from the per-span
// option scores: each span's best static option, then the best
// composition of adjacent sub-spans.
func EstimateFuture(grid *model.OptionGrid) *SquareMatrix {
	n := grid.Size()
	m := newSquareMatrix(n)

	grid.EachSpan(func(span model.Span, opts model.OptionList) {
		best := m.Get(span.Start, span.End)
		for _, o := range opts {
			// Discontiguous linked groups contribute through their
			// head span only; the heuristic stays admissible.
			if o.Score > best {
				best = o.Score
			}
		}
		m.set(span.Start, span.End, best)
	})

	for width := 2; width <= n; width++ {
		for i := 0; i+width <= n; i++ {
			j := i + width
			best := m.Get(i, j)
			for k := i + 1; k < j; k++ {
				if combined := m.Get(i, k) + m.Get(k, j); combined > best {
					best = combined
				}
			}
			m.set(i, j, best)
		}
	}
	return m
}

// FutureFor returns the heuristic remaining score for the uncovered
// positions of cov: the sum over maximal uncovered runs. A run with no
// covering options yields -Inf, ranking dead-end hypotheses last.
func (m *SquareMatrix) FutureFor(cov bitmap.Coverage) float64 {
	var sum float64
	i := cov.NextUncovered(0)
	for i >= 0 {
		j := i
		for j < cov.Len() && !cov.Test(j) {
			j++
		}
		sum += m.Get(i, j)
		i = cov.NextUncovered(j)
	}
	return sum
}
