// Package chain composes the per-block dialect maps with a map of the merged
// document, producing one map from the final generated text straight back to
// the host document.
package chain

import (
	"errors"
	"fmt"

	"remap/internal/srcmap"
)

// DefaultMaxBacktrack is the engine.max_backtrack default: how far left a
// missed trace may look for a mapped column on the same inner line.
const DefaultMaxBacktrack = 64

// ErrBlockOrder is returned when blocks overlap or are not sorted by Start.
var ErrBlockOrder = errors.New("chain: blocks out of order")

// Indent is the whitespace re-added in front of every line of an embedded
// block. PerLine, when present, holds extra indentation on top of Common.
type Indent struct {
	Common  int
	PerLine []int
}

// At returns the indentation of inner line n.
func (in Indent) At(n int) int {
	if n >= 0 && n < len(in.PerLine) {
		return in.Common + in.PerLine[n]
	}
	return in.Common
}

// Origin places a block's inner source positions in the host document.
type Origin struct {
	Line int // host line of the snippet's first line
	Col  int // indentation stripped from the snippet
}

// Rewrite is an in-line edit on a template line of the merged text: from
// merged column Col on, the host text sits Shift columns further right.
// The lang attribute rewrite of an opening tag is one.
type Rewrite struct {
	Line  int // merged line
	Col   int
	Shift int
}

// Block is one compiled region embedded into the merged text.
type Block struct {
	// Start and End are the byte range [Start, End) of the embedded code.
	Start, End int
	// StartLine is the merged line holding Start; inner line 0.
	StartLine int

	SourceLines   int // lines of the region in the host document
	CompiledLines int // lines of the region after embedding

	Indent Indent
	Origin Origin

	// Map traces compiled snippet positions to the dedented dialect snippet.
	Map   srcmap.Lines
	Names []string

	// Rewrite is the edit of the block's opening tag; zero Shift for none.
	Rewrite Rewrite
}

// Delta is the number of lines the block adds to the merged text.
func (b *Block) Delta() int { return b.CompiledLines - b.SourceLines }

// Contains reports whether byte offset off lies inside the block.
func (b *Block) Contains(off int) bool { return off >= b.Start && off < b.End }

func (b *Block) String() string {
	return fmt.Sprintf("block[%d,%d) line %d lines %d->%d", b.Start, b.End, b.StartLine, b.SourceLines, b.CompiledLines)
}

func validate(blocks []Block) error {
	prevEnd := 0
	for i := range blocks {
		b := &blocks[i]
		if b.Start > b.End || b.Start < prevEnd || b.StartLine < 0 {
			return fmt.Errorf("%w: %s", ErrBlockOrder, b)
		}
		prevEnd = b.End
	}
	return nil
}

// layout holds the per-build lookups shared by Chain and Embed.
type layout struct {
	blocks  []Block
	deltas  []int // deltas[k]: lines added by blocks[:k]
	offsets []int // offsets[k]: names offset of blocks[k]
	names   []string
	edits   map[int][]Rewrite // by merged line
}

func newLayout(blocks []Block, baseNames []string) *layout {
	l := &layout{
		blocks:  blocks,
		deltas:  make([]int, len(blocks)+1),
		offsets: make([]int, len(blocks)),
		names:   append([]string{}, baseNames...),
	}
	for k := range blocks {
		l.deltas[k+1] = l.deltas[k] + blocks[k].Delta()
		l.offsets[k] = len(l.names)
		l.names = append(l.names, blocks[k].Names...)
		if rw := blocks[k].Rewrite; rw.Shift != 0 {
			if l.edits == nil {
				l.edits = make(map[int][]Rewrite)
			}
			l.edits[rw.Line] = append(l.edits[rw.Line], rw)
		}
	}
	return l
}

// hostCol moves a column of merged template line past the rewrites before it.
func (l *layout) hostCol(line, col int) int {
	out := col
	for _, rw := range l.edits[line] {
		if col >= rw.Col {
			out += rw.Shift
		}
	}
	return out
}

// blockAt returns the index of the block holding off, or -1.
func (l *layout) blockAt(off int) int {
	i := l.firstAfter(off)
	if i > 0 && l.blocks[i-1].Contains(off) {
		return i - 1
	}
	return -1
}

// firstAfter returns the number of blocks starting at or before off.
func (l *layout) firstAfter(off int) int {
	lo, hi := 0, len(l.blocks)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if l.blocks[mid].Start <= off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// templateDelta is the line shift for a position outside every block.
func (l *layout) templateDelta(off int) int {
	return l.deltas[l.firstAfter(off)]
}

// rebase moves an inner name index into the combined names table.
func (l *layout) rebase(k int, seg srcmap.Segment) srcmap.Segment {
	if seg.HasName() {
		seg.Name += l.offsets[k]
	}
	return seg
}
