// Package lm defines the language model interface consumed by the
// decoder, plus two in-memory implementations: a backoff n-gram model
// and a uniform model for scaffolding and tests.
package lm

import (
	"strings"

	"github.com/hupe1980/decgo/model"
)

// State is the opaque language-model context carried by a partial
// translation. Two hypotheses with equal state keys are
// indistinguishable for all future language-model transitions.
type State struct {
	words []model.Word
}

// Key returns a hashable representation of the state.
func (s State) Key() string {
	var sb strings.Builder
	for i, w := range s.words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(w))
	}
	return sb.String()
}

// Words returns the context suffix held by the state.
func (s State) Words() []model.Word {
	return s.words
}

// Model scores target-language transitions.
//
// Transition returns the log-probability delta of appending target to
// the context state, together with the successor state. State is
// opaque to callers; its Key is used for hypothesis recombination.
type Model interface {
	// Order returns the n-gram order (1 for context-free models).
	Order() int
	// Start returns the begin-of-sentence state.
	Start() State
	// Transition scores appending target after state.
	Transition(st State, target model.Phrase) (float64, State)
}

// advance returns the successor context of st after emitting target,
// truncated to order-1 words.
func advance(st State, target model.Phrase, order int) State {
	keep := order - 1
	if keep <= 0 {
		return State{}
	}
	words := make([]model.Word, 0, len(st.words)+len(target))
	words = append(words, st.words...)
	words = append(words, target...)
	if len(words) > keep {
		words = words[len(words)-keep:]
	}
	return State{words: words}
}

// Uniform is a language model that assigns zero cost to every
// transition. Its state never distinguishes hypotheses during
// recombination.
type Uniform struct{}

// Order implements Model.
func (Uniform) Order() int { return 1 }

// Start implements Model.
func (Uniform) Start() State { return State{} }

// Transition implements Model.
func (Uniform) Transition(st State, _ model.Phrase) (float64, State) {
	return 0, st
}
