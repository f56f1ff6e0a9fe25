package search

import (
	"sort"

	"github.com/hupe1980/decgo/model"
)

// Outcome is the finished search of one sentence: the hypothesis
// arena, the stacks, and the configuration it ran under.
type Outcome struct {
	arena  *Arena
	stacks []*Stack
	source model.Sentence
	cfg    Config
}

// Aligned records which target phrase was emitted for which source span.
type Aligned struct {
	Span   model.Span
	Target model.Phrase
}

// Derivation is one complete translation reconstructed from the
// hypothesis forest by walking back-pointers.
type Derivation struct {
	Words     model.Phrase
	Score     float64
	Alignment []Aligned
}

// Source returns the decoded sentence.
func (o *Outcome) Source() model.Sentence {
	return o.source
}

// Arena exposes the hypothesis forest, e.g. for search-graph dumps.
func (o *Outcome) Arena() *Arena {
	return o.arena
}

// FinalStack returns the stack of fully covered hypotheses.
func (o *Outcome) FinalStack() *Stack {
	return o.stacks[len(o.stacks)-1]
}

// Best returns the 1-best derivation, or false when no hypothesis
// reached full coverage (empty search).
func (o *Outcome) Best() (Derivation, bool) {
	nbest := o.NBest(1)
	if len(nbest) == 0 {
		return Derivation{}, false
	}
	return nbest[0], true
}

// NBest enumerates up to limit derivations in descending score order.
// Representatives on the final stack are expanded first; recombination
// alternative chains contribute detour derivations at every
// back-pointer node.
func (o *Outcome) NBest(limit int) []Derivation {
	if limit <= 0 {
		limit = 1
	}
	final := o.FinalStack()

	var reps []Ref
	for _, c := range final.Containers() {
		reps = append(reps, c.Hypotheses()...)
	}
	if len(reps) == 0 {
		return nil
	}
	sort.SliceStable(reps, func(i, j int) bool {
		return o.arena.Get(reps[i]).Total > o.arena.Get(reps[j]).Total
	})

	memo := make(map[Ref][]Derivation)
	var out []Derivation
	for _, r := range reps {
		out = append(out, o.derivations(r, limit, memo)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// derivations enumerates the best derivations ending in ref or one of
// its recombination alternatives, memoized per representative and
// truncated to limit at every level.
func (o *Outcome) derivations(ref Ref, limit int, memo map[Ref][]Derivation) []Derivation {
	if cached, ok := memo[ref]; ok {
		return cached
	}
	// Reserve the slot to cut accidental cycles short; chains only
	// point backwards, so this never triggers on well-formed forests.
	memo[ref] = nil

	var out []Derivation
	for r := ref; r != NilRef; r = o.arena.Get(r).Alt {
		h := o.arena.Get(r)
		if h.Option == nil {
			out = append(out, Derivation{Score: h.Score})
			continue
		}
		prevH := o.arena.Get(h.Prev)
		delta := h.Score - prevH.Score
		step := stepAlignment(h.Option)
		words := h.TargetWords()
		for _, tail := range o.derivations(h.Prev, limit, memo) {
			d := Derivation{
				Words:     append(append(model.Phrase{}, tail.Words...), words...),
				Score:     tail.Score + delta,
				Alignment: append(append([]Aligned{}, tail.Alignment...), step...),
			}
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	memo[ref] = out
	return out
}

func stepAlignment(opt *model.TranslationOption) []Aligned {
	out := []Aligned{{Span: opt.Source, Target: opt.Target}}
	for _, l := range opt.Linked {
		out = append(out, Aligned{Span: l.Source, Target: l.Target})
	}
	return out
}
