package chain

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"remap/internal/source"
	"remap/internal/srcmap"
	"remap/internal/trace"
)

// Embed maps the merged text itself back to the host document. Lines of a
// block carry the block's own segments shifted by its indentation; template
// lines map every word start, and every rewrite point, to its host column.
func Embed(ctx context.Context, merged string, blocks []Block) (*Result, error) {
	if err := validate(blocks); err != nil {
		return nil, err
	}
	_, span := trace.Start(ctx, trace.ScopePass, "embed")

	lay := newLayout(blocks, nil)
	f := source.NewFile("merged", []byte(merged), source.FileVirtual)
	lines := f.Lines()

	var stats Stats
	out := make(srcmap.Lines, len(lines))
	for n, text := range lines {
		off := f.LineStart(n)
		end := off + len(text)
		if k := lay.blockAt(blockStartOn(lay, off, end)); k >= 0 {
			out[n] = embedBlockLine(lay, k, n)
			stats.Exact += len(out[n])
			continue
		}
		line := n - lay.templateDelta(off)
		for _, col := range templateCols(text, lay.edits[n]) {
			out[n] = append(out[n], srcmap.Mapped(col, line, lay.hostCol(n, col)))
			stats.Template++
		}
	}

	span.End(fmt.Sprintf("%d lines", len(lines)))
	return &Result{Lines: out, Names: lay.names, Stats: stats}, nil
}

// blockStartOn returns the start of a block beginning inside [off, end), so
// that the first code line of a block (which begins with its indentation) is
// recognised as a block line.
func blockStartOn(lay *layout, off, end int) int {
	i := lay.firstAfter(off)
	if i < len(lay.blocks) && lay.blocks[i].Start < end {
		return lay.blocks[i].Start
	}
	return off
}

func embedBlockLine(lay *layout, k, n int) []srcmap.Segment {
	b := &lay.blocks[k]
	inner := n - b.StartLine
	indent := b.Indent.At(inner)
	segs := b.Map.Line(inner)
	if len(segs) == 0 {
		return nil
	}
	out := make([]srcmap.Segment, 0, len(segs)+1)
	if indent > 0 {
		out = append(out, srcmap.Null(0))
	}
	for _, s := range segs {
		out = append(out, lay.rebase(k, shift(s, s.GenCol+indent, b.Origin)))
	}
	return out
}

func shift(s srcmap.Segment, col int, o Origin) srcmap.Segment {
	if !s.Mapped {
		return srcmap.Null(col)
	}
	out := srcmap.Mapped(col, s.SrcLine+o.Line, s.SrcCol+o.Col)
	out.Name = s.Name
	return out
}

// templateCols are the word starts of text plus the rewrite columns, sorted
// and unique.
func templateCols(text string, edits []Rewrite) []int {
	cols := slices.Collect(wordStarts(text))
	for _, rw := range edits {
		if rw.Col < len(text) {
			cols = append(cols, rw.Col)
		}
	}
	slices.Sort(cols)
	return slices.Compact(cols)
}

// wordStarts yields the columns where a run of non-space bytes begins.
func wordStarts(text string) iter.Seq[int] {
	return func(yield func(int) bool) {
		inWord := false
		for i := 0; i < len(text); i++ {
			space := text[i] == ' ' || text[i] == '\t' || text[i] == '\r'
			if !space && !inWord && !yield(i) {
				return
			}
			inWord = !space
		}
	}
}
