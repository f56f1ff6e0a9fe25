package search

import (
	"log/slog"

	"github.com/hupe1980/decgo/feature"
	"github.com/hupe1980/decgo/internal/bitmap"
	"github.com/hupe1980/decgo/lm"
	"github.com/hupe1980/decgo/model"
)

// Config carries the per-sentence search parameters. It is an
// immutable value handed down from the decoder; there is no
// process-wide settings object.
type Config struct {
	// PopLimit bounds how many hypotheses a container emits per
	// expansion.
	PopLimit int
	// BeamWidth is the additive log-space admission window below the
	// stack's best score. Zero disables beam pruning.
	BeamWidth float64
	// StackSize bounds the number of representatives per stack. Zero
	// or negative means unbounded.
	StackSize int
	// CubeK bounds both axes of every cube-pruning grid.
	CubeK int
	// NBest enables recombination alternative chains for n-best
	// extraction.
	NBest bool
	// LMWeight scales language-model deltas.
	LMWeight float64
	// Features holds the feature functions scoring every transition,
	// dispatched in registration order.
	Features *feature.Registry
	// Distortion is the reordering legality limit used to prune edge
	// creation and extensions. Its cost contribution comes through
	// Features like any other function.
	Distortion feature.Distortion
}

// Searcher is the per-sentence execution context. It owns the arena,
// the stacks, and the future-score table; nothing in it is shared
// across sentences or goroutines.
type Searcher struct {
	cfg     Config
	lm      lm.Model
	arena   *Arena
	future  *SquareMatrix
	grid    *model.OptionGrid
	source  model.Sentence
	stacks  []*Stack
	logger  *slog.Logger
}

func newSearcher(cfg Config, lmModel lm.Model, source model.Sentence, grid *model.OptionGrid, logger *slog.Logger) *Searcher {
	n := len(source)
	hint := cfg.StackSize * (n + 1)
	if hint < 64 {
		hint = 64
	}
	if cfg.Features == nil {
		cfg.Features = feature.NewRegistry()
	}
	s := &Searcher{
		cfg:     cfg,
		lm:      lmModel,
		arena:   NewArena(hint),
		future:  EstimateFuture(grid),
		grid:    grid,
		source:  source,
		stacks:  make([]*Stack, n+1),
		logger:  logger,
	}
	for i := range s.stacks {
		s.stacks[i] = newStack(cfg)
	}
	return s
}

// extend applies opt (and its linked group, atomically) to the
// hypothesis at prev. It returns the scored successor reference, or
// false when the extension is illegal: coverage clash, linked-option
// violation, or a reordering jump beyond the distortion limit.
func (s *Searcher) extend(prev Ref, opt *model.TranslationOption) (Ref, bool) {
	prevH := s.arena.Get(prev)
	if prevH == nil || !prevH.Scored {
		return NilRef, false
	}
	if !s.cfg.Distortion.Allowed(prevH.Range, opt.Source) {
		return NilRef, false
	}

	cov := prevH.Coverage
	score := prevH.Score
	state := prevH.State
	lastRange := prevH.Range

	apply := func(o *model.TranslationOption) bool {
		if o.Source.Start < 0 || o.Source.End > cov.Len() {
			return false
		}
		if cov.Overlaps(o.Source.Start, o.Source.End) {
			return false
		}
		cov = cov.WithRange(o.Source.Start, o.Source.End)
		delta, next := s.lm.Transition(state, o.Target)
		state = next
		score += o.Score +
			s.cfg.LMWeight*delta +
			s.cfg.Features.Transition(lastRange, o.Source, o.Target)
		lastRange = o.Source
		return true
	}

	if !apply(opt) {
		return NilRef, false
	}
	for _, linked := range opt.Linked {
		// A partial application of a linked group is illegal; the
		// whole extension fails and nothing is committed.
		if !apply(linked) {
			return NilRef, false
		}
	}

	h := Hypothesis{
		Prev:     prev,
		Option:   opt,
		Coverage: cov,
		Range:    lastRange,
		Score:    score,
		State:    state,
	}
	s.scoreHypothesis(&h)
	return s.arena.Alloc(h), true
}

// scoreHypothesis finalizes the estimated score. Required before a
// hypothesis is exposed to pruning or ranking.
func (s *Searcher) scoreHypothesis(h *Hypothesis) {
	h.Future = s.future.FutureFor(h.Coverage)
	h.Total = h.Score + h.Future
	h.Scored = true
}

// groupCoverage returns the coverage reached by applying opt and its
// linked group from cov, or false if the group cannot apply.
func groupCoverage(cov bitmap.Coverage, opt *model.TranslationOption) (bitmap.Coverage, bool) {
	if opt.Source.Start < 0 || opt.Source.End > cov.Len() {
		return bitmap.Coverage{}, false
	}
	if cov.Overlaps(opt.Source.Start, opt.Source.End) {
		return bitmap.Coverage{}, false
	}
	out := cov.WithRange(opt.Source.Start, opt.Source.End)
	for _, l := range opt.Linked {
		if l.Source.Start < 0 || l.Source.End > out.Len() {
			return bitmap.Coverage{}, false
		}
		if out.Overlaps(l.Source.Start, l.Source.End) {
			return bitmap.Coverage{}, false
		}
		out = out.WithRange(l.Source.Start, l.Source.End)
	}
	return out, true
}
