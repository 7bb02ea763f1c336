package chain

import (
	"context"
	"fmt"
	"strings"

	"remap/internal/source"
	"remap/internal/srcmap"
	"remap/internal/trace"
)

// Input is one chaining job: a base map from the final generated text to the
// merged text, plus the blocks embedded in the merged text.
type Input struct {
	Base      srcmap.Lines
	BaseNames []string
	Merged    string
	Blocks    []Block
	// Host is the document the output points into. When set, a segment
	// that would land past the end of its host line becomes null.
	Host string
}

type Options struct {
	// MaxBacktrack bounds the backtracking distance in columns, the same
	// as engine.max_backtrack: 0 (or less) disables backtracking.
	MaxBacktrack int
}

// Stats counts how base segments were resolved.
type Stats struct {
	Template    int `json:"template"`
	Exact       int `json:"exact"`
	Backtracked int `json:"backtracked"`
	Null        int `json:"null"`
	Missed      int `json:"missed"`
}

func (s Stats) String() string {
	return fmt.Sprintf("template=%d exact=%d backtracked=%d null=%d missed=%d",
		s.Template, s.Exact, s.Backtracked, s.Null, s.Missed)
}

type Result struct {
	Lines srcmap.Lines
	Names []string
	Stats Stats
}

type chainer struct {
	lay    *layout
	merged *source.File
	host   []string // nil: no bounds check
	limit  int
	stats  Stats
}

// Chain composes in.Base with the block maps. Segments landing in a block
// are traced through the block's map; the rest only shift by the line delta
// of the blocks above them.
func Chain(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := validate(in.Blocks); err != nil {
		return nil, err
	}
	_, span := trace.Start(ctx, trace.ScopePass, "chain")

	c := &chainer{
		lay:    newLayout(in.Blocks, in.BaseNames),
		merged: source.NewFile("merged", []byte(in.Merged), source.FileVirtual),
		limit:  max(opts.MaxBacktrack, 0),
	}
	if in.Host != "" {
		c.host = strings.Split(in.Host, "\n")
	}

	out := make(srcmap.Lines, len(in.Base))
	for g, segs := range in.Base {
		out[g] = c.line(segs)
	}

	span.WithExtra("blocks", fmt.Sprint(len(in.Blocks))).
		WithExtra("backtracked", fmt.Sprint(c.stats.Backtracked)).
		End(c.stats.String())
	return &Result{Lines: out, Names: c.lay.names, Stats: c.stats}, nil
}

func (c *chainer) line(segs []srcmap.Segment) []srcmap.Segment {
	var code, tmpl []srcmap.Segment
	for _, s := range segs {
		if !s.Mapped || s.Source != 0 {
			tmpl = append(tmpl, srcmap.Null(s.GenCol))
			c.stats.Null++
			continue
		}
		off := c.merged.Offset(s.SrcLine, s.SrcCol)
		if k := c.lay.blockAt(off); k >= 0 {
			code = append(code, c.block(k, s))
			continue
		}
		t := s
		t.SrcCol = c.lay.hostCol(s.SrcLine, s.SrcCol)
		t.SrcLine -= c.lay.templateDelta(off)
		if !c.fits(t) {
			tmpl = append(tmpl, srcmap.Null(s.GenCol))
			c.stats.Missed++
			continue
		}
		tmpl = append(tmpl, t)
		c.stats.Template++
	}
	return mergeRuns(code, tmpl)
}

// block traces a base segment through the map of block k.
func (c *chainer) block(k int, s srcmap.Segment) srcmap.Segment {
	b := &c.lay.blocks[k]
	line := s.SrcLine - b.StartLine
	col := max(0, s.SrcCol-b.Indent.At(line))

	inner, hit := b.Map.At(line, col)
	switch hit {
	case srcmap.HitMapped:
		if out := c.place(k, s.GenCol, inner, 0); c.fits(out) {
			c.stats.Exact++
			return out
		}
	case srcmap.HitNull:
		// явный null: не угадываем
		c.stats.Null++
		return srcmap.Null(s.GenCol)
	default:
		if col > 0 && c.limit > 0 {
			prev, ok := b.Map.Before(line, col)
			if ok && prev.Mapped && col-prev.GenCol <= c.limit {
				// сдвиг может вывести за конец строки хоста
				if out := c.place(k, s.GenCol, prev, col-prev.GenCol); c.fits(out) {
					c.stats.Backtracked++
					return out
				}
			}
		}
	}
	c.stats.Missed++
	return srcmap.Null(s.GenCol)
}

// fits reports whether s points inside the host document. A column equal
// to the line length (end of line) is allowed.
func (c *chainer) fits(s srcmap.Segment) bool {
	if c.host == nil {
		return true
	}
	return s.SrcLine >= 0 && s.SrcLine < len(c.host) && s.SrcCol >= 0 && s.SrcCol <= len(c.host[s.SrcLine])
}

// place moves an inner segment into host coordinates at genCol.
func (c *chainer) place(k, genCol int, inner srcmap.Segment, shift int) srcmap.Segment {
	b := &c.lay.blocks[k]
	out := srcmap.Mapped(genCol, inner.SrcLine+b.Origin.Line, inner.SrcCol+shift+b.Origin.Col)
	out.Name = inner.Name
	return c.lay.rebase(k, out)
}

// mergeRuns merges two column-sorted runs.
func mergeRuns(a, b []srcmap.Segment) []srcmap.Segment {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]srcmap.Segment, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if j >= len(b) || (i < len(a) && a[i].GenCol < b[j].GenCol) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	return out
}
