// Package model defines core types used throughout decgo.
//
// # Source-side types
//
//   - Word, Sentence: input tokens
//   - Span: a half-open range [Start, End) of source positions
//
// # Translation types
//
//   - Phrase: a target-language token sequence
//   - TranslationOption: a precomputed translation of one source span,
//     optionally linked to further options that must be applied as an
//     atomic group
//   - OptionList: score-ordered options sharing a source span
//   - OptionGrid: per-sentence lookup of options by span
package model
