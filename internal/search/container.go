package search

import (
	"github.com/hupe1980/decgo/internal/bitmap"
)

// BitmapContainer groups the hypotheses of one stack sharing an exact
// coverage bitmap, together with the backwards edges feeding it.
// Every admitted hypothesis has the container's coverage; the
// container belongs to exactly one stack, that of its popcount.
type BitmapContainer struct {
	coverage bitmap.Coverage
	hypos    []Ref          // representatives, score-descending, ties in insertion order
	keys     map[string]Ref // recombination key -> representative
	edges    []*BackwardsEdge
}

func newBitmapContainer(cov bitmap.Coverage) *BitmapContainer {
	return &BitmapContainer{
		coverage: cov,
		keys:     make(map[string]Ref),
	}
}

// Coverage returns the identifying coverage bitmap.
func (c *BitmapContainer) Coverage() bitmap.Coverage {
	return c.coverage
}

// Hypotheses returns the representatives in descending score order.
func (c *BitmapContainer) Hypotheses() []Ref {
	return c.hypos
}

// AddEdge attaches an inbound transition. Edges are iterated in
// insertion order, which keeps tie-breaking deterministic.
func (c *BitmapContainer) AddEdge(e *BackwardsEdge) {
	c.edges = append(c.edges, e)
}

// insert places ref into the score-descending representative list.
// Equal scores keep insertion order.
func (c *BitmapContainer) insert(a *Arena, ref Ref) {
	total := a.Get(ref).Total
	i := len(c.hypos)
	for j, r := range c.hypos {
		if a.Get(r).Total < total {
			i = j
			break
		}
	}
	c.hypos = append(c.hypos, NilRef)
	copy(c.hypos[i+1:], c.hypos[i:])
	c.hypos[i] = ref
}

func (c *BitmapContainer) remove(ref Ref) {
	for i, r := range c.hypos {
		if r == ref {
			c.hypos = append(c.hypos[:i], c.hypos[i+1:]...)
			return
		}
	}
}

// Expand runs cube pruning over the container's inbound edges,
// emitting up to the pop limit of new hypotheses into st. Each
// iteration pops the globally best frontier cell across all edges,
// offers it for admission, and pushes the cell's grid successors
// regardless of the admission outcome.
func (c *BitmapContainer) Expand(s *Searcher, st *Stack) error {
	if len(c.edges) == 0 {
		return nil
	}
	for n := 0; n < s.cfg.PopLimit; n++ {
		var best *BackwardsEdge
		var bestScore float64
		for _, e := range c.edges {
			item, ok := e.Peek()
			if !ok {
				continue
			}
			if best == nil || item.Score > bestScore {
				best = e
				bestScore = item.Score
			}
		}
		if best == nil {
			return nil
		}

		item, _ := best.Pop()
		if _, err := st.Admit(s, Ref(item.Ref)); err != nil {
			return err
		}
		best.PushSuccessors(int(item.X), int(item.Y))
	}
	return nil
}
