// Package claim records which (line, column) positions have already been
// consumed by a mapping, so that no source byte or generated column is
// mapped twice.
package claim

import (
	"math/bits"

	"fortio.org/safecast"
)

const (
	colBits  = 12
	colLimit = 1 << colBits
	// lineLimit keeps packed keys inside uint32.
	lineLimit = 1 << 20
)

// Key is a packed (line, column) pair: line<<12 | col.
type Key uint32

// Pack packs a position; ok is false when it does not fit
// (negative values, col >= 4096 or line >= 1<<20).
func Pack(line, col int) (Key, bool) {
	if col < 0 || col >= colLimit || line < 0 || line >= lineLimit {
		return 0, false
	}
	l, err := safecast.Conv[uint32](line)
	if err != nil {
		return 0, false
	}
	c, err := safecast.Conv[uint32](col)
	if err != nil {
		return 0, false
	}
	return Key(l<<colBits | c), true
}

// Unpack is the inverse of Pack.
func (k Key) Unpack() (line, col int) {
	return int(k >> colBits), int(k & (colLimit - 1))
}

type wide struct{ line, col int }

// Set is a sparse set of positions. Packable positions live in a
// word-indexed bit map, the rest in a plain map.
// The zero value is not usable, use New.
type Set struct {
	words map[uint32]uint64
	wide  map[wide]struct{}
	n     int
}

func New() *Set {
	return &Set{words: make(map[uint32]uint64)}
}

// Has reports whether the position is claimed. Nil set claims nothing.
func (s *Set) Has(line, col int) bool {
	if s == nil {
		return false
	}
	if k, ok := Pack(line, col); ok {
		return s.words[uint32(k)>>6]&(1<<(uint32(k)&63)) != 0
	}
	_, ok := s.wide[wide{line, col}]
	return ok
}

// Claim marks the position and reports whether it was free before.
func (s *Set) Claim(line, col int) bool {
	if k, ok := Pack(line, col); ok {
		w, bit := uint32(k)>>6, uint64(1)<<(uint32(k)&63)
		if s.words[w]&bit != 0 {
			return false
		}
		s.words[w] |= bit
		s.n++
		return true
	}
	if s.wide == nil {
		s.wide = make(map[wide]struct{})
	}
	key := wide{line, col}
	if _, ok := s.wide[key]; ok {
		return false
	}
	s.wide[key] = struct{}{}
	s.n++
	return true
}

// HasRange reports whether any column in [from, to) on line is claimed.
func (s *Set) HasRange(line, from, to int) bool {
	for c := from; c < to; c++ {
		if s.Has(line, c) {
			return true
		}
	}
	return false
}

// ClaimRange marks every column in [from, to) on line.
func (s *Set) ClaimRange(line, from, to int) {
	for c := from; c < to; c++ {
		s.Claim(line, c)
	}
}

// Len returns the number of claimed positions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

// Reset forgets every claim but keeps allocated storage.
func (s *Set) Reset() {
	clear(s.words)
	clear(s.wide)
	s.n = 0
}

// Words returns the number of non-empty bit words, for stats.
func (s *Set) Words() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, w := range s.words {
		if bits.OnesCount64(w) > 0 {
			n++
		}
	}
	return n
}
