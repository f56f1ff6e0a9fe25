package search

import (
	"context"
	"log/slog"

	"github.com/hupe1980/decgo/internal/bitmap"
	"github.com/hupe1980/decgo/lm"
	"github.com/hupe1980/decgo/model"
)

// Run decodes one sentence: it builds the future-score table, seeds
// stack 0 with the empty hypothesis, then walks the coverage lattice
// stack by stack, expanding every container under cube pruning and
// attaching forward edges from the finalized containers.
//
// The context is checked between stack expansions and between
// container expansions within a stack, never inside inner loops. On
// cancellation the partial stacks are discarded.
func Run(ctx context.Context, cfg Config, lmModel lm.Model, source model.Sentence, grid *model.OptionGrid, logger *slog.Logger) (*Outcome, error) {
	n := len(source)
	s := newSearcher(cfg, lmModel, source, grid, logger)

	initial := Hypothesis{
		Prev:     NilRef,
		Coverage: bitmap.New(n),
		Range:    model.Span{},
		State:    lmModel.Start(),
	}
	s.scoreHypothesis(&initial)
	ref := s.arena.Alloc(initial)
	if _, err := s.stacks[0].Admit(s, ref); err != nil {
		return nil, err
	}

	for p := 0; p <= n; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := s.stacks[p]

		for _, c := range st.Containers() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := c.Expand(s, st); err != nil {
				return nil, err
			}
		}
		logger.Debug("stack expanded",
			"popcount", p,
			"containers", len(st.Containers()),
			"hypotheses", st.Len(),
		)

		if p == n {
			break
		}
		for _, c := range st.Containers() {
			s.attachEdges(c)
		}
	}

	return &Outcome{
		arena:  s.arena,
		stacks: s.stacks,
		source: source,
		cfg:    cfg,
	}, nil
}

// attachEdges creates the forward transitions of a finalized
// container: one backwards edge per (target coverage, option group)
// reachable by applying a span's options. Options whose linked group
// cannot apply from this coverage are dropped here; distortion
// legality against individual predecessor hypotheses is re-checked
// during extension.
func (s *Searcher) attachEdges(c *BitmapContainer) {
	if len(c.hypos) == 0 {
		return
	}
	cov := c.Coverage()
	firstGap := cov.FirstUncovered()
	if firstGap < 0 {
		return
	}
	s.grid.EachSpan(func(span model.Span, opts model.OptionList) {
		if cov.Overlaps(span.Start, span.End) {
			return
		}
		// The usual reordering window: a span may not start beyond
		// the first uncovered position plus the distortion limit.
		if limit := s.cfg.Distortion.Limit; limit >= 0 && span.Start > firstGap+limit {
			return
		}

		// Group options by the coverage they produce. Plain options
		// share the span's coverage; linked groups can reach further.
		var plain model.OptionList
		var grouped map[string]*edgeGroup
		for _, opt := range opts {
			if len(opt.Linked) == 0 {
				plain = append(plain, opt)
				continue
			}
			target, ok := groupCoverage(cov, opt)
			if !ok {
				continue
			}
			if grouped == nil {
				grouped = make(map[string]*edgeGroup)
			}
			key := target.Key()
			g, ok := grouped[key]
			if !ok {
				g = &edgeGroup{coverage: target}
				grouped[key] = g
			}
			g.options = append(g.options, opt)
		}

		if len(plain) > 0 {
			target := cov.WithRange(span.Start, span.End)
			s.attachEdge(c, target, plain)
		}
		if grouped == nil {
			return
		}
		// Deterministic order over linked groups: options were seen
		// in score order, so attach in first-seen order.
		seen := make(map[string]bool)
		for _, opt := range opts {
			if len(opt.Linked) == 0 {
				continue
			}
			target, ok := groupCoverage(cov, opt)
			if !ok {
				continue
			}
			key := target.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			s.attachEdge(c, target, grouped[key].options)
		}
	})
}

type edgeGroup struct {
	coverage bitmap.Coverage
	options  model.OptionList
}

func (s *Searcher) attachEdge(prev *BitmapContainer, target bitmap.Coverage, opts model.OptionList) {
	q := target.Count()
	if q >= len(s.stacks) {
		return
	}
	dest := s.stacks[q].Container(target)
	dest.AddEdge(newBackwardsEdge(s, prev, opts))
}
