package decgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/decgo/feature"
	"github.com/hupe1980/decgo/lm"
	"github.com/hupe1980/decgo/model"
	"github.com/hupe1980/decgo/phrasetable"
)

func testTable(t *testing.T) *phrasetable.Table {
	t.Helper()
	table := phrasetable.New()
	table.Add(model.Phrase{"a"}, model.Phrase{"A"}, feature.Vector{1})
	table.Add(model.Phrase{"a"}, model.Phrase{"A'"}, feature.Vector{0})
	table.Add(model.Phrase{"b"}, model.Phrase{"B"}, feature.Vector{1})
	table.Add(model.Phrase{"b"}, model.Phrase{"B'"}, feature.Vector{0})
	return table
}

func monotone() Option {
	return WithDistortion(feature.Distortion{Weight: 0, Limit: 0})
}

func TestNew_Validation(t *testing.T) {
	table := testTable(t)

	_, err := New(nil, lm.Uniform{}, feature.Weights{1})
	assert.ErrorIs(t, err, ErrNilPhraseTable)

	_, err = New(table, nil, feature.Weights{1})
	assert.ErrorIs(t, err, ErrNilLanguageModel)

	_, err = New(table, lm.Uniform{}, feature.Weights{1}, WithPopLimit(0))
	assert.ErrorIs(t, err, ErrInvalidPopLimit)

	_, err = New(table, lm.Uniform{}, feature.Weights{1}, WithCubeK(0))
	assert.ErrorIs(t, err, ErrInvalidCubeK)

	_, err = New(table, lm.Uniform{}, feature.Weights{1}, WithBeamWidth(-1))
	assert.ErrorIs(t, err, ErrInvalidBeamWidth)
}

func TestDecode_Best(t *testing.T) {
	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1}, monotone())
	require.NoError(t, err)

	res, err := dec.Decode(context.Background(), model.Sentence{"a", "b"})
	require.NoError(t, err)

	best := res.Best()
	require.NotNil(t, best)
	assert.Equal(t, "A B", best.Words.String())
	assert.InDelta(t, 2.0, best.Score, 1e-12)
	require.Len(t, best.Alignment, 2)
	assert.Equal(t, model.NewSpan(0, 1), best.Alignment[0].Span)
	assert.Equal(t, model.NewSpan(1, 2), best.Alignment[1].Span)
}

func TestDecode_NBest(t *testing.T) {
	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1},
		monotone(),
		WithNBestSize(4),
		WithPopLimit(4),
	)
	require.NoError(t, err)

	res, err := dec.Decode(context.Background(), model.Sentence{"a", "b"})
	require.NoError(t, err)

	require.Len(t, res.NBest, 4)
	scores := []float64{2, 1, 1, 0}
	for i, tr := range res.NBest {
		assert.InDelta(t, scores[i], tr.Score, 1e-12, "entry %d: %v", i, tr.Words)
	}
	seen := map[string]bool{}
	for _, tr := range res.NBest {
		seen[tr.Words.String()] = true
	}
	for _, want := range []string{"A B", "A B'", "A' B", "A' B'"} {
		assert.True(t, seen[want], "missing %q", want)
	}
}

// TestDecode_RescoreRoundTrip re-scores the 1-best from its alignment
// and expects the recorded score within floating-point epsilon.
func TestDecode_RescoreRoundTrip(t *testing.T) {
	table := testTable(t)
	weights := feature.Weights{1}
	dec, err := New(table, lm.Uniform{}, weights, monotone())
	require.NoError(t, err)

	source := model.Sentence{"a", "b"}
	res, err := dec.Decode(context.Background(), source)
	require.NoError(t, err)
	best := res.Best()
	require.NotNil(t, best)

	grid, err := table.Options(source, weights)
	require.NoError(t, err)

	var rescored float64
	for _, a := range best.Alignment {
		found := false
		for _, opt := range grid.At(a.Span) {
			if opt.Target.String() == a.Target.String() {
				rescored += opt.Score
				found = true
				break
			}
		}
		require.True(t, found, "alignment step %v not in table", a)
	}
	assert.InDelta(t, best.Score, rescored, 1e-9)
}

func TestDecode_EmptySource(t *testing.T) {
	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1})
	require.NoError(t, err)

	res, err := dec.Decode(context.Background(), nil)
	require.NoError(t, err)

	best := res.Best()
	require.NotNil(t, best)
	assert.Empty(t, best.Words)
	assert.Zero(t, best.Score)
}

func TestDecode_EmptySearch(t *testing.T) {
	table := phrasetable.New()
	table.Add(model.Phrase{"a"}, model.Phrase{"A"}, feature.Vector{0})
	dec, err := New(table, lm.Uniform{}, feature.Weights{1})
	require.NoError(t, err)

	// "b" has no translation: no hypothesis reaches full coverage.
	res, err := dec.Decode(context.Background(), model.Sentence{"a", "b"})
	require.NoError(t, err)
	assert.Nil(t, res.Best())
	assert.Empty(t, res.NBest)
}

func TestDecode_Deterministic(t *testing.T) {
	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1},
		monotone(),
		WithNBestSize(4),
	)
	require.NoError(t, err)

	a, err := dec.Decode(context.Background(), model.Sentence{"a", "b"})
	require.NoError(t, err)
	b, err := dec.Decode(context.Background(), model.Sentence{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, a.NBest, b.NBest)
}

func TestDecode_SearchGraph(t *testing.T) {
	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1},
		monotone(),
		WithSearchGraph(),
	)
	require.NoError(t, err)

	res, err := dec.Decode(context.Background(), model.Sentence{"a", "b"})
	require.NoError(t, err)

	require.NotEmpty(t, res.Graph)
	initial := res.Graph[0]
	assert.EqualValues(t, 1, initial.ID)
	assert.Zero(t, initial.Back)
	assert.Empty(t, initial.Output)

	// Every later arc points at an earlier one.
	for _, arc := range res.Graph[1:] {
		assert.Less(t, arc.Back, arc.ID)
		assert.NotEmpty(t, arc.Output)
	}
}

func TestDecode_Cancelled(t *testing.T) {
	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = dec.Decode(ctx, model.Sentence{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeBatch(t *testing.T) {
	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1}, monotone())
	require.NoError(t, err)

	sources := []model.Sentence{
		{"a"},
		{"a", "b"},
		{"b"},
	}
	results, err := dec.DecodeBatch(context.Background(), sources, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "A", results[0].Best().Words.String())
	assert.Equal(t, "A B", results[1].Best().Words.String())
	assert.Equal(t, "B", results[2].Best().Words.String())
}

func TestFeatureRegistryHooks(t *testing.T) {
	var events []string
	registry := feature.NewRegistry()
	registry.Register(hookFn{events: &events})

	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1},
		monotone(),
		WithFeatureRegistry(registry),
	)
	require.NoError(t, err)

	_, err = dec.Decode(context.Background(), model.Sentence{"a"})
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.Equal(t, "init", events[0])
	assert.Equal(t, "cleanup", events[len(events)-1])
	assert.Contains(t, events, "transition")
}

// TestFeatureRegistryScoring verifies that registered functions score
// every transition: a flat -1 per step lowers the two-step 1-best
// from 2 to 0.
func TestFeatureRegistryScoring(t *testing.T) {
	var events []string
	registry := feature.NewRegistry()
	registry.Register(hookFn{events: &events, delta: -1})

	dec, err := New(testTable(t), lm.Uniform{}, feature.Weights{1},
		monotone(),
		WithFeatureRegistry(registry),
	)
	require.NoError(t, err)

	res, err := dec.Decode(context.Background(), model.Sentence{"a", "b"})
	require.NoError(t, err)

	best := res.Best()
	require.NotNil(t, best)
	assert.Equal(t, "A B", best.Words.String())
	assert.InDelta(t, 0.0, best.Score, 1e-12)
}

type hookFn struct {
	delta  float64
	events *[]string
}

func (f hookFn) Name() string { return "hook" }

func (f hookFn) InitSentence(model.Sentence) {
	*f.events = append(*f.events, "init")
}

func (f hookFn) Transition(_, _ model.Span, _ model.Phrase) float64 {
	*f.events = append(*f.events, "transition")
	return f.delta
}

func (f hookFn) Cleanup() {
	*f.events = append(*f.events, "cleanup")
}
