package search

import (
	"github.com/hupe1980/decgo/internal/queue"
	"github.com/hupe1980/decgo/model"
)

// BackwardsEdge is one inbound transition of a bitmap container: it
// pairs the hypotheses of a predecessor container (axis x) with a
// translation-option list (axis y) and enumerates the resulting
// candidates in approximately descending score order, materializing
// grid cells lazily.
type BackwardsEdge struct {
	s       *Searcher
	hypos   []Ref            // top-K predecessor hypotheses, score-descending
	options model.OptionList // top-K options, score-descending
	queue   *queue.PriorityQueue
	seen    []bool // kx*ky, row-major
	kx, ky  int
	init    bool
}

func newBackwardsEdge(s *Searcher, prev *BitmapContainer, options model.OptionList) *BackwardsEdge {
	kx := len(prev.hypos)
	if kx > s.cfg.CubeK {
		kx = s.cfg.CubeK
	}
	ky := len(options)
	if ky > s.cfg.CubeK {
		ky = s.cfg.CubeK
	}

	// Both slices are built by bounded iteration over the sorted
	// source, never by a raw range copy into unfilled storage.
	e := &BackwardsEdge{
		s:       s,
		hypos:   make([]Ref, 0, kx),
		options: make(model.OptionList, 0, ky),
		queue:   queue.New(kx + ky),
		seen:    make([]bool, kx*ky),
		kx:      kx,
		ky:      ky,
	}
	for i := 0; i < kx; i++ {
		e.hypos = append(e.hypos, prev.hypos[i])
	}
	for i := 0; i < ky; i++ {
		e.options = append(e.options, options[i])
	}
	return e
}

func (e *BackwardsEdge) seenAt(x, y int) bool {
	return e.seen[x*e.ky+y]
}

// materialize builds the candidate at cell (x, y), marking it seen
// first so it can never be enqueued twice. On extension failure the
// cell is skipped and its neighbours are explored instead, so a
// per-hypothesis clash (e.g. a distortion-limit violation for one
// predecessor) does not wall off the rest of the grid.
func (e *BackwardsEdge) materialize(x, y int) {
	if x >= e.kx || y >= e.ky || e.seenAt(x, y) {
		return
	}
	e.seen[x*e.ky+y] = true

	ref, ok := e.s.extend(e.hypos[x], e.options[y])
	if !ok {
		e.materialize(x+1, y)
		e.materialize(x, y+1)
		return
	}
	e.queue.Push(queue.Item{
		Ref:   uint32(ref),
		X:     int32(x),
		Y:     int32(y),
		Score: e.s.arena.Get(ref).Total,
	})
}

func (e *BackwardsEdge) ensureInit() {
	if e.init {
		return
	}
	e.init = true
	e.materialize(0, 0)
}

// Peek returns the best frontier cell without consuming it. The false
// return replaces the null-hypothesis sentinel of classic cube-pruning
// implementations; callers never dereference an invalid cell.
func (e *BackwardsEdge) Peek() (queue.Item, bool) {
	e.ensureInit()
	return e.queue.Top()
}

// Pop consumes and returns the best frontier cell. It does not push
// successors; the caller does that after admission so that repeated
// next-best scans across all edges of a container stay cheap.
func (e *BackwardsEdge) Pop() (queue.Item, bool) {
	e.ensureInit()
	return e.queue.Pop()
}

// PushSuccessors materializes the right and lower neighbours of a
// consumed cell. Successors are explored even when the popped parent
// was pruned: the non-monotone language-model score can make a
// lower-ranked successor superior.
func (e *BackwardsEdge) PushSuccessors(x, y int) {
	e.materialize(x+1, y)
	e.materialize(x, y+1)
}

// Empty reports whether the frontier is exhausted.
func (e *BackwardsEdge) Empty() bool {
	e.ensureInit()
	return e.queue.Len() == 0
}
