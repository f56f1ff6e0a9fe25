// Package decgo provides an embeddable phrase-based statistical
// machine translation decoder built around a cube-pruning beam search.
//
// # Quick Start
//
//	table, _ := phrasetable.Load(tableFile)
//	dec, _ := decgo.New(table, lm.Uniform{}, feature.Weights{1},
//	    decgo.WithPopLimit(1000),
//	    decgo.WithBeamWidth(5),
//	)
//	res, _ := dec.Decode(ctx, model.Sentence{"das", "ist", "gut"})
//	fmt.Println(res.Best().Words, res.Best().Score)
//
// # Search model
//
// Decoding walks the coverage lattice stack by stack: all partial
// translations covering the same number of source words share a
// stack, and within a stack the ones sharing an exact coverage bitmap
// share a container. Each container enumerates its candidates by cube
// pruning over its inbound edges, lazily pairing predecessor
// hypotheses with translation options in approximately best-first
// order, bounded by the pop limit. Admission into a stack applies an
// additive beam threshold, recombines hypotheses that are
// indistinguishable for all future extensions, and evicts the weakest
// representatives past the stack bound.
//
// The enumeration is an anytime approximation: the language-model
// score is non-monotone along the cube axes, so exact k-best order is
// traded for speed.
//
// # Determinism
//
// For identical inputs, weights, and models, decoding is
// deterministic: top-K selections use stable sorts, the cube frontier
// breaks score ties by grid position, and edges are iterated in
// insertion order.
//
// # Concurrency
//
// A Decoder is immutable after construction and safe for concurrent
// use; every Decode call owns its private per-sentence state. Use
// DecodeBatch to translate many sentences on parallel workers.
package decgo
