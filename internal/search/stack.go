package search

import (
	"errors"
	"math"

	"github.com/hupe1980/decgo/internal/bitmap"
)

var (
	// ErrUnscoredHypothesis reports an unscored hypothesis reaching
	// admission. This is a programming defect, not a search condition;
	// it aborts the sentence.
	ErrUnscoredHypothesis = errors.New("search: unscored hypothesis offered for admission")
)

// Stack is the beam of all partial hypotheses sharing a coverage
// popcount, organized into bitmap containers. Admission applies the
// beam threshold, recombines against existing representatives, and
// evicts the weakest representatives once the size bound is exceeded.
type Stack struct {
	cfg        Config
	containers map[string]*BitmapContainer
	order      []*BitmapContainer // insertion order, for deterministic iteration
	best       float64            // best representative score across containers
	count      int                // number of representatives
}

func newStack(cfg Config) *Stack {
	return &Stack{
		cfg:        cfg,
		containers: make(map[string]*BitmapContainer),
		best:       math.Inf(-1),
	}
}

// Container returns the container for cov, creating it if absent.
func (st *Stack) Container(cov bitmap.Coverage) *BitmapContainer {
	key := cov.Key()
	if c, ok := st.containers[key]; ok {
		return c
	}
	c := newBitmapContainer(cov)
	st.containers[key] = c
	st.order = append(st.order, c)
	return c
}

// Containers returns the stack's containers in creation order.
func (st *Stack) Containers() []*BitmapContainer {
	return st.order
}

// Best returns the stack's best representative score.
func (st *Stack) Best() float64 {
	return st.best
}

// Len returns the number of representatives on the stack.
func (st *Stack) Len() int {
	return st.count
}

// Admit offers the hypothesis at ref to the stack. It returns whether
// the hypothesis became (or replaced) a representative. Rejection is
// final: a hypothesis turned away on beam or recombination grounds is
// never revisited.
func (st *Stack) Admit(s *Searcher, ref Ref) (bool, error) {
	h := s.arena.Get(ref)
	if h == nil || !h.Scored {
		return false, ErrUnscoredHypothesis
	}

	if st.cfg.BeamWidth > 0 && h.Total < st.best-st.cfg.BeamWidth {
		return false, nil
	}

	c := st.Container(h.Coverage)
	key := h.RecombinationKey()

	if old, ok := c.keys[key]; ok {
		oldH := s.arena.Get(old)
		if h.Total > oldH.Total {
			// h becomes the representative; the old one is retained
			// as an n-best alternative under h, keeping its own
			// chain as the suffix.
			c.remove(old)
			if st.cfg.NBest {
				h.Alt = old
			}
			c.keys[key] = ref
			c.insert(s.arena, ref)
			if h.Total > st.best {
				st.best = h.Total
			}
			return true, nil
		}
		if st.cfg.NBest {
			h.Alt = oldH.Alt
			oldH.Alt = ref
		}
		return false, nil
	}

	c.keys[key] = ref
	c.insert(s.arena, ref)
	st.count++
	if h.Total > st.best {
		st.best = h.Total
	}

	if st.cfg.StackSize > 0 {
		for st.count > st.cfg.StackSize {
			st.evictWorst(s)
		}
	}
	return true, nil
}

// evictWorst drops the weakest representative across all containers.
// Each container keeps its representatives score-descending, so only
// container tails need scanning.
func (st *Stack) evictWorst(s *Searcher) {
	var victim *BitmapContainer
	var victimRef Ref
	worst := math.Inf(1)
	for _, c := range st.order {
		if len(c.hypos) == 0 {
			continue
		}
		tail := c.hypos[len(c.hypos)-1]
		if total := s.arena.Get(tail).Total; total < worst {
			worst = total
			victim = c
			victimRef = tail
		}
	}
	if victim == nil {
		return
	}
	victim.remove(victimRef)
	delete(victim.keys, s.arena.Get(victimRef).RecombinationKey())
	st.count--
}
