package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/decgo/model"
)

func TestWeights_Dot(t *testing.T) {
	w := Weights{1, 2, 3}

	assert.InDelta(t, 14.0, w.Dot(Vector{1, 2, 3}), 1e-12)
	assert.InDelta(t, 5.0, w.Dot(Vector{1, 2}), 1e-12, "missing features count as zero")
	assert.InDelta(t, 14.0, w.Dot(Vector{1, 2, 3, 4}), 1e-12, "extra features are ignored")
	assert.Zero(t, Weights{}.Dot(Vector{1, 2}))
}

func TestDistortion(t *testing.T) {
	d := Distortion{Weight: 0.5, Limit: 2}

	assert.InDelta(t, 0.0, d.Cost(model.NewSpan(0, 1), model.NewSpan(1, 2)), 1e-12)
	assert.InDelta(t, -1.0, d.Cost(model.NewSpan(0, 1), model.NewSpan(3, 4)), 1e-12)
	assert.InDelta(t, -1.5, d.Cost(model.NewSpan(3, 4), model.NewSpan(1, 2)), 1e-12)

	assert.True(t, d.Allowed(model.NewSpan(0, 1), model.NewSpan(3, 4)))
	assert.False(t, d.Allowed(model.NewSpan(0, 1), model.NewSpan(4, 5)))

	unlimited := NewDistortion(0.5)
	assert.True(t, unlimited.Allowed(model.NewSpan(0, 1), model.NewSpan(100, 101)))
}

func TestWordPenalty(t *testing.T) {
	p := WordPenalty{Weight: 1}
	assert.InDelta(t, -2.0, p.Cost(model.Phrase{"a", "b"}), 1e-12)
	assert.Zero(t, p.Cost(nil))
}

type recordingFn struct {
	name   string
	delta  float64
	events *[]string
}

func (f recordingFn) Name() string { return f.name }

func (f recordingFn) InitSentence(model.Sentence) {
	*f.events = append(*f.events, "init:"+f.name)
}

func (f recordingFn) Transition(_, _ model.Span, _ model.Phrase) float64 {
	*f.events = append(*f.events, "transition:"+f.name)
	return f.delta
}

func (f recordingFn) Cleanup() {
	*f.events = append(*f.events, "cleanup:"+f.name)
}

func TestRegistry_DeterministicOrder(t *testing.T) {
	var events []string
	r := NewRegistry()
	r.Register(recordingFn{name: "a", events: &events})
	r.Register(recordingFn{name: "b", events: &events})

	r.InitSentence(model.Sentence{"x"})
	r.Transition(model.NewSpan(0, 1), model.NewSpan(1, 2), model.Phrase{"x"})
	r.Cleanup()

	assert.Equal(t, []string{
		"init:a", "init:b",
		"transition:a", "transition:b",
		"cleanup:a", "cleanup:b",
	}, events)
	assert.Len(t, r.Functions(), 2)
}

func TestRegistry_TransitionSumsDeltas(t *testing.T) {
	var events []string
	r := NewRegistry()
	r.Register(recordingFn{name: "a", delta: -1, events: &events})
	r.Register(Distortion{Weight: 0.5, Limit: -1})
	r.Register(WordPenalty{Weight: 1})

	// Jump distance 2, two target words.
	got := r.Transition(model.NewSpan(0, 1), model.NewSpan(3, 4), model.Phrase{"x", "y"})
	assert.InDelta(t, -1-1-2, got, 1e-12)

	var nilRegistry *Registry
	assert.Zero(t, nilRegistry.Transition(model.NewSpan(0, 1), model.NewSpan(1, 2), nil))
}
