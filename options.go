package decgo

import (
	"github.com/hupe1980/decgo/feature"
)

// Defaults mirror the usual operating point of phrase-based decoders.
const (
	DefaultPopLimit   = 1000
	DefaultStackSize  = 200
	DefaultCubeK      = 50
	DefaultNBestSize  = 1
	DefaultMaxJump    = 6
	DefaultLMWeight   = 1.0
	DefaultDistortion = 0.1
)

type options struct {
	popLimit    int
	beamWidth   float64
	stackSize   int
	cubeK       int
	nbestSize   int
	lmWeight    float64
	wordPenalty float64
	distortion  feature.Distortion
	registry    *feature.Registry
	searchGraph bool
	logger      *Logger
}

// Option configures decoder construction.
type Option func(*options)

// WithPopLimit bounds how many hypotheses each container emits per
// expansion.
func WithPopLimit(n int) Option {
	return func(o *options) {
		o.popLimit = n
	}
}

// WithBeamWidth sets the additive log-space admission window below the
// best score of a stack. Zero disables beam pruning.
func WithBeamWidth(w float64) Option {
	return func(o *options) {
		o.beamWidth = w
	}
}

// WithStackSize bounds the number of hypothesis representatives kept
// per stack. Zero means unbounded.
func WithStackSize(n int) Option {
	return func(o *options) {
		o.stackSize = n
	}
}

// WithCubeK bounds both axes of every cube-pruning grid: at most k
// predecessor hypotheses are paired with at most k translation
// options per edge.
func WithCubeK(k int) Option {
	return func(o *options) {
		o.cubeK = k
	}
}

// WithNBestSize enables n-best extraction with the given list size.
// Sizes above one keep recombined hypotheses as alternatives instead
// of discarding them.
func WithNBestSize(n int) Option {
	return func(o *options) {
		o.nbestSize = n
	}
}

// WithLMWeight scales the language-model deltas.
func WithLMWeight(w float64) Option {
	return func(o *options) {
		o.lmWeight = w
	}
}

// WithWordPenalty sets the per-target-word penalty weight.
func WithWordPenalty(w float64) Option {
	return func(o *options) {
		o.wordPenalty = w
	}
}

// WithDistortion sets the reordering model, including the maximum
// reordering jump used to prune edge creation.
func WithDistortion(d feature.Distortion) Option {
	return func(o *options) {
		o.distortion = d
	}
}

// WithFeatureRegistry adds caller-supplied feature functions to the
// decoder. They score every transition and their per-sentence hooks
// run around each decode, after the built-in distortion and
// word-penalty functions, in registration order.
func WithFeatureRegistry(r *feature.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithSearchGraph records the full hypothesis forest on every result,
// ready for searchgraph.Write.
func WithSearchGraph() Option {
	return func(o *options) {
		o.searchGraph = true
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
