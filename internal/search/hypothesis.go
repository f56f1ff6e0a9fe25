package search

import (
	"strconv"
	"strings"

	"github.com/hupe1980/decgo/internal/bitmap"
	"github.com/hupe1980/decgo/lm"
	"github.com/hupe1980/decgo/model"
)

// Hypothesis is one node of the derivation forest: a partial
// translation reached by applying Option to the hypothesis at Prev.
// The initial hypothesis has Prev == NilRef and a nil Option.
//
// A hypothesis is immutable after scoring completes, except for Alt,
// which admission uses to chain recombined alternatives under their
// representative.
type Hypothesis struct {
	Prev     Ref
	Option   *model.TranslationOption
	Coverage bitmap.Coverage
	Range    model.Span // last-translated source range
	Score    float64    // accumulated weighted model score
	Future   float64    // heuristic remaining cost
	Total    float64    // Score + Future
	State    lm.State
	Alt      Ref // recombination alternative chain
	Scored   bool
}

// RecombinationKey identifies hypotheses that are interchangeable for
// all future extensions: same coverage, same continuation point for
// the distortion model, same language-model context.
func (h *Hypothesis) RecombinationKey() string {
	var sb strings.Builder
	sb.WriteString(h.Coverage.Key())
	sb.WriteByte(0)
	sb.WriteString(strconv.Itoa(h.Range.End))
	sb.WriteByte(0)
	sb.WriteString(h.State.Key())
	return sb.String()
}

// TargetWords returns the target tokens emitted by this single step,
// including linked options in application order.
func (h *Hypothesis) TargetWords() model.Phrase {
	if h.Option == nil {
		return nil
	}
	out := append(model.Phrase{}, h.Option.Target...)
	for _, l := range h.Option.Linked {
		out = append(out, l.Target...)
	}
	return out
}
