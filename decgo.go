package decgo

import (
	"context"

	"github.com/hupe1980/decgo/feature"
	"github.com/hupe1980/decgo/internal/search"
	"github.com/hupe1980/decgo/lm"
	"github.com/hupe1980/decgo/model"
	"github.com/hupe1980/decgo/searchgraph"
)

// PhraseTable supplies the precomputed translation options of a
// sentence, weighted and grouped by source span.
type PhraseTable interface {
	Options(s model.Sentence, w feature.Weights) (*model.OptionGrid, error)
}

// Aligned records which target phrase was emitted for which source span.
type Aligned struct {
	Span   model.Span
	Target model.Phrase
}

// Translation is one entry of an n-best list.
type Translation struct {
	Words     model.Phrase
	Score     float64
	Alignment []Aligned
}

// Result is the outcome of decoding one sentence. An empty NBest means
// no hypothesis reached full coverage; emitting a fallback is the
// caller's responsibility.
type Result struct {
	Source model.Sentence
	NBest  []Translation
	Graph  []searchgraph.Arc
}

// Best returns the 1-best translation, or nil for an empty search.
func (r *Result) Best() *Translation {
	if len(r.NBest) == 0 {
		return nil
	}
	return &r.NBest[0]
}

// Decoder translates sentences with cube-pruning beam search. It is
// immutable after construction and safe for concurrent use; every
// Decode call owns its private per-sentence search state.
type Decoder struct {
	table    PhraseTable
	lm       lm.Model
	weights  feature.Weights
	registry *feature.Registry
	cfg      search.Config
	nbest    int
	graph    bool
	logger   *Logger
}

// New creates a Decoder over the given phrase table, language model,
// and translation feature weights.
func New(table PhraseTable, lmModel lm.Model, weights feature.Weights, optFns ...Option) (*Decoder, error) {
	opts := options{
		popLimit:   DefaultPopLimit,
		stackSize:  DefaultStackSize,
		cubeK:      DefaultCubeK,
		nbestSize:  DefaultNBestSize,
		lmWeight:   DefaultLMWeight,
		distortion: feature.Distortion{Weight: DefaultDistortion, Limit: DefaultMaxJump},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if table == nil {
		return nil, ErrNilPhraseTable
	}
	if lmModel == nil {
		return nil, ErrNilLanguageModel
	}
	if opts.popLimit <= 0 {
		return nil, ErrInvalidPopLimit
	}
	if opts.cubeK <= 0 {
		return nil, ErrInvalidCubeK
	}
	if opts.beamWidth < 0 {
		return nil, ErrInvalidBeamWidth
	}
	if opts.nbestSize < 1 {
		opts.nbestSize = 1
	}
	if opts.logger == nil {
		opts.logger = NoopLogger()
	}

	// The registry is the single dispatch point for transition
	// scoring: the built-in models register first, then any functions
	// supplied by the caller, and the core iterates them in exactly
	// this order.
	registry := feature.NewRegistry()
	registry.Register(opts.distortion)
	registry.Register(feature.WordPenalty{Weight: opts.wordPenalty})
	if opts.registry != nil {
		for _, fn := range opts.registry.Functions() {
			registry.Register(fn)
		}
	}

	return &Decoder{
		table:    table,
		lm:       lmModel,
		weights:  weights,
		registry: registry,
		cfg: search.Config{
			PopLimit:   opts.popLimit,
			BeamWidth:  opts.beamWidth,
			StackSize:  opts.stackSize,
			CubeK:      opts.cubeK,
			NBest:      opts.nbestSize > 1,
			LMWeight:   opts.lmWeight,
			Features:   registry,
			Distortion: opts.distortion,
		},
		nbest:  opts.nbestSize,
		graph:  opts.searchGraph,
		logger: opts.logger,
	}, nil
}

// Decode translates one sentence. The context is honored between
// stack and container expansions; on cancellation the partial search
// is discarded and the context error returned.
func (d *Decoder) Decode(ctx context.Context, source model.Sentence) (*Result, error) {
	d.registry.InitSentence(source)
	defer d.registry.Cleanup()

	grid, err := d.table.Options(source, d.weights)
	if err != nil {
		d.logger.LogDecode(ctx, len(source), 0, 0, err)
		return nil, err
	}
	grid.SortAll()

	outcome, err := search.Run(ctx, d.cfg, d.lm, source, grid, d.logger.Logger)
	if err != nil {
		err = translateError(err)
		d.logger.LogDecode(ctx, len(source), 0, 0, err)
		return nil, err
	}

	res := &Result{Source: source}
	for _, der := range outcome.NBest(d.nbest) {
		res.NBest = append(res.NBest, Translation{
			Words:     der.Words,
			Score:     der.Score,
			Alignment: convertAlignment(der.Alignment),
		})
	}
	if d.graph {
		res.Graph = collectArcs(outcome)
	}

	var best float64
	if b := res.Best(); b != nil {
		best = b.Score
	}
	d.logger.LogDecode(ctx, len(source), len(res.NBest), best, nil)
	return res, nil
}

func convertAlignment(in []search.Aligned) []Aligned {
	out := make([]Aligned, 0, len(in))
	for _, a := range in {
		out = append(out, Aligned{Span: a.Span, Target: a.Target})
	}
	return out
}

func collectArcs(outcome *search.Outcome) []searchgraph.Arc {
	arcs := make([]searchgraph.Arc, 0, outcome.Arena().Len())
	outcome.Arena().Each(func(r search.Ref, h *search.Hypothesis) {
		arc := searchgraph.Arc{
			ID:    uint32(r),
			Back:  uint32(h.Prev),
			Alt:   uint32(h.Alt),
			Score: h.Score,
			Total: h.Total,
		}
		if h.Option != nil {
			arc.Output = h.TargetWords().String()
			arc.Start = h.Option.Source.Start
			arc.End = h.Option.Source.End
		}
		arcs = append(arcs, arc)
	})
	return arcs
}
