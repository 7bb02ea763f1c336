// Package bitset provides a growable dense bitset over non-negative ints.
package bitset

import "math/bits"

type Set struct {
	words []uint64
}

// New creates a set sized for values below hint.
func New(hint int) *Set {
	if hint < 0 {
		hint = 0
	}
	return &Set{words: make([]uint64, 0, (hint+63)>>6)}
}

func (s *Set) grow(word int) {
	if word < len(s.words) {
		return
	}
	if word < cap(s.words) {
		s.words = s.words[:word+1]
		return
	}
	next := make([]uint64, word+1, max(2*cap(s.words), word+1))
	copy(next, s.words)
	s.words = next
}

// Add sets bit v; negative values are ignored.
func (s *Set) Add(v int) {
	if v < 0 {
		return
	}
	w := v >> 6
	s.grow(w)
	s.words[w] |= 1 << (uint(v) & 63)
}

// AddRange sets bits [from, to).
func (s *Set) AddRange(from, to int) {
	for v := max(from, 0); v < to; v++ {
		s.Add(v)
	}
}

// Has reports whether bit v is set.
func (s *Set) Has(v int) bool {
	if s == nil || v < 0 {
		return false
	}
	w := v >> 6
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<(uint(v)&63)) != 0
}

// Any reports whether any bit in [from, to) is set.
func (s *Set) Any(from, to int) bool {
	for v := max(from, 0); v < to; v++ {
		if s.Has(v) {
			return true
		}
	}
	return false
}

// Len returns the number of set bits.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clear drops every bit but keeps capacity.
func (s *Set) Clear() {
	clear(s.words)
	s.words = s.words[:0]
}
