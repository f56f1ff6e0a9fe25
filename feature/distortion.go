package feature

import (
	"github.com/hupe1980/decgo/model"
)

// Distortion is a distance-based reordering model. Cost is the
// negative weighted jump distance between the end of the previously
// translated span and the start of the next one.
type Distortion struct {
	// Weight scales the jump distance. Must be >= 0.
	Weight float64
	// Limit caps the jump distance during search. A negative limit
	// means unlimited reordering.
	Limit int
}

// NewDistortion creates a distortion model with the given weight and
// an unlimited reordering window.
func NewDistortion(weight float64) Distortion {
	return Distortion{Weight: weight, Limit: -1}
}

// Cost returns the (non-positive) distortion score for continuing from
// prev to next.
func (d Distortion) Cost(prev, next model.Span) float64 {
	return -d.Weight * float64(prev.Distance(next))
}

// Allowed reports whether the jump from prev to next is within the
// reordering limit.
func (d Distortion) Allowed(prev, next model.Span) bool {
	if d.Limit < 0 {
		return true
	}
	return prev.Distance(next) <= d.Limit
}

// Name implements Function.
func (d Distortion) Name() string { return "distortion" }

// InitSentence implements Function.
func (d Distortion) InitSentence(model.Sentence) {}

// Transition implements Function.
func (d Distortion) Transition(prev, next model.Span, _ model.Phrase) float64 {
	return d.Cost(prev, next)
}

// Cleanup implements Function.
func (d Distortion) Cleanup() {}

// WordPenalty penalizes target length. Cost is -Weight per emitted
// target word, the usual counterweight to the language model's
// preference for short output.
type WordPenalty struct {
	Weight float64
}

// Cost returns the penalty for emitting the target phrase.
func (p WordPenalty) Cost(target model.Phrase) float64 {
	return -p.Weight * float64(len(target))
}

// Name implements Function.
func (p WordPenalty) Name() string { return "word-penalty" }

// InitSentence implements Function.
func (p WordPenalty) InitSentence(model.Sentence) {}

// Transition implements Function.
func (p WordPenalty) Transition(_, _ model.Span, target model.Phrase) float64 {
	return p.Cost(target)
}

// Cleanup implements Function.
func (p WordPenalty) Cleanup() {}
