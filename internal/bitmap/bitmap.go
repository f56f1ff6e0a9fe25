// Package bitmap provides the fixed-length coverage bitmap over source
// positions. Coverage values are immutable: extension returns a new
// value, so back-pointer chains can share them freely.
package bitmap

import (
	"math/bits"
	"strings"
	"unsafe"
)

// Coverage is a fixed-length bit vector over source positions.
// The zero value is an empty coverage of length 0.
type Coverage struct {
	words []uint64
	size  int
}

// New creates an empty coverage for a sentence of n positions.
func New(n int) Coverage {
	return Coverage{
		words: make([]uint64, (n+63)/64),
		size:  n,
	}
}

// Len returns the number of source positions.
func (c Coverage) Len() int {
	return c.size
}

// Test reports whether position i is covered.
func (c Coverage) Test(i int) bool {
	if i < 0 || i >= c.size {
		return false
	}
	return c.words[i>>6]&(uint64(1)<<(uint(i)&63)) != 0
}

// Count returns the number of covered positions.
func (c Coverage) Count() int {
	count := 0
	for _, w := range c.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Full reports whether every position is covered.
func (c Coverage) Full() bool {
	return c.Count() == c.size
}

// Overlaps reports whether any position in [start, end) is covered.
func (c Coverage) Overlaps(start, end int) bool {
	for i := start; i < end; i++ {
		if c.Test(i) {
			return true
		}
	}
	return false
}

// WithRange returns a copy of c with [start, end) covered.
func (c Coverage) WithRange(start, end int) Coverage {
	out := Coverage{
		words: make([]uint64, len(c.words)),
		size:  c.size,
	}
	copy(out.words, c.words)
	for i := start; i < end && i < c.size; i++ {
		if i < 0 {
			continue
		}
		out.words[i>>6] |= uint64(1) << (uint(i) & 63)
	}
	return out
}

// FirstUncovered returns the lowest uncovered position, or -1 if the
// coverage is full.
func (c Coverage) FirstUncovered() int {
	for w, word := range c.words {
		if inv := ^word; inv != 0 {
			i := w*64 + bits.TrailingZeros64(inv)
			if i < c.size {
				return i
			}
			return -1
		}
	}
	return -1
}

// NextUncovered returns the lowest uncovered position >= i, or -1.
func (c Coverage) NextUncovered(i int) int {
	for ; i < c.size; i++ {
		if !c.Test(i) {
			return i
		}
	}
	return -1
}

// Equal reports whether c and o have the same bit pattern and length.
func (c Coverage) Equal(o Coverage) bool {
	if c.size != o.size {
		return false
	}
	for i := range c.words {
		if c.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Key returns a compact hashable representation of the bit pattern.
func (c Coverage) Key() string {
	if len(c.words) == 0 {
		return ""
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&c.words[0])), len(c.words)*8)
	return string(b)
}

// String renders the coverage as a 0/1 string, lowest position first.
func (c Coverage) String() string {
	var sb strings.Builder
	for i := 0; i < c.size; i++ {
		if c.Test(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
