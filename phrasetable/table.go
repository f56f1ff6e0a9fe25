// Package phrasetable provides the in-memory phrase table consumed by
// the decoder, with a text loader for the usual
// "src ||| tgt ||| scores" format.
package phrasetable

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/decgo/feature"
	"github.com/hupe1980/decgo/model"
)

type entry struct {
	target   model.Phrase
	features feature.Vector
}

// Table is an in-memory phrase table keyed by source phrase.
type Table struct {
	entries      map[string][]entry
	maxPhraseLen int
}

// New creates an empty table.
func New() *Table {
	return &Table{
		entries: make(map[string][]entry),
	}
}

// Add inserts a translation of the given source phrase.
func (t *Table) Add(source model.Phrase, target model.Phrase, features feature.Vector) {
	key := source.String()
	t.entries[key] = append(t.entries[key], entry{target: target, features: features})
	if len(source) > t.maxPhraseLen {
		t.maxPhraseLen = len(source)
	}
}

// Len returns the number of distinct source phrases.
func (t *Table) Len() int {
	return len(t.entries)
}

// MaxPhraseLen returns the longest stored source phrase.
func (t *Table) MaxPhraseLen() int {
	return t.maxPhraseLen
}

// Options builds the per-sentence option grid: one weighted
// TranslationOption per matching table entry per source span.
func (t *Table) Options(s model.Sentence, w feature.Weights) (*model.OptionGrid, error) {
	grid := model.NewOptionGrid(len(s))
	for start := 0; start < len(s); start++ {
		end := start + t.maxPhraseLen
		if end > len(s) {
			end = len(s)
		}
		for j := start + 1; j <= end; j++ {
			key := joinSource(s[start:j])
			for _, e := range t.entries[key] {
				grid.Add(&model.TranslationOption{
					Source:   model.NewSpan(start, j),
					Target:   e.target,
					Features: e.features,
					Score:    w.Dot(e.features),
				})
			}
		}
	}
	return grid, nil
}

// Coverable returns the set of source positions covered by at least
// one table entry. A sentence with uncoverable positions cannot reach
// full coverage; Gaps reports those positions so callers can flag
// them before search.
func (t *Table) Coverable(s model.Sentence) *roaring.Bitmap {
	covered := roaring.New()
	for start := 0; start < len(s); start++ {
		end := start + t.maxPhraseLen
		if end > len(s) {
			end = len(s)
		}
		for j := start + 1; j <= end; j++ {
			if _, ok := t.entries[joinSource(s[start:j])]; ok {
				covered.AddRange(uint64(start), uint64(j))
			}
		}
	}
	return covered
}

// Gaps returns the uncoverable positions of s.
func (t *Table) Gaps(s model.Sentence) []int {
	covered := t.Coverable(s)
	var gaps []int
	for i := 0; i < len(s); i++ {
		if !covered.Contains(uint32(i)) {
			gaps = append(gaps, i)
		}
	}
	return gaps
}

func joinSource(words []model.Word) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(w))
	}
	return sb.String()
}
