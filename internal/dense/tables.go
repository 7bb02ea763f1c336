package dense

import (
	"sort"
	"strings"

	"remap/internal/anchor"
	"remap/internal/locate"
	"remap/internal/srcmap"
	"remap/internal/tokindex"
)

// tables are the per-build lookup structures derived from the coarse map
// and the anchor list before any matching starts.
type tables struct {
	// lineMap[g] is the dialect line of generated line g, -1 if unknown.
	lineMap []int
	// cands[g] are the coarse (genCol, srcLine) pairs of generated line g,
	// sorted by column with duplicate columns spread apart.
	cands [][]locate.Candidate
	names *srcmap.Names
}

func (t *tables) guess(line int) int {
	if line < 0 || line >= len(t.lineMap) {
		return -1
	}
	return t.lineMap[line]
}

func (t *tables) candidates(line int) []locate.Candidate {
	if line < 0 || line >= len(t.cands) {
		return nil
	}
	return t.cands[line]
}

func buildTables(in *Input, doc *locate.Doc) *tables {
	n := len(in.Generated)
	t := &tables{
		lineMap: make([]int, n),
		cands:   make([][]locate.Candidate, n),
		names:   srcmap.NewNames(),
	}

	last := -1
	for g := range n {
		t.lineMap[g] = -1
		if g >= len(in.Coarse) {
			continue
		}
		for _, seg := range in.Coarse[g] {
			if seg.Mapped {
				last = seg.SrcLine
				t.lineMap[g] = seg.SrcLine
				break
			}
		}
		// строки без сегментов наследуют последнюю известную
		if t.lineMap[g] < 0 {
			t.lineMap[g] = last
		}
	}

	for g := 0; g < n && g < len(in.Coarse); g++ {
		var list []locate.Candidate
		for _, seg := range in.Coarse[g] {
			if seg.Mapped {
				list = append(list, locate.Candidate{GenCol: seg.GenCol, SrcLine: seg.SrcLine})
			}
		}
		if len(list) == 0 {
			continue
		}
		t.cands[g] = spreadColumns(list, in.Generated[g], doc)
	}

	for _, a := range in.Anchors {
		if a.Kind == anchor.Identifier {
			t.names.Add(a.Text)
		}
	}
	return t
}

// spreadColumns sorts list and moves entries sharing a generated column:
// to where the first identifier of their source line appears in the
// generated text, else to the next free column.
func spreadColumns(list []locate.Candidate, gen string, doc *locate.Doc) []locate.Candidate {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].GenCol != list[j].GenCol {
			return list[i].GenCol < list[j].GenCol
		}
		return list[i].SrcLine < list[j].SrcLine
	})

	seen := make(map[int]bool, len(list))
	for i := range list {
		c := &list[i]
		if !seen[c.GenCol] {
			seen[c.GenCol] = true
			continue
		}
		if id := firstIdent(doc, c.SrcLine); id != "" {
			if at := strings.Index(gen, id); at >= 0 && !seen[at] {
				c.GenCol = at
				seen[at] = true
				continue
			}
		}
		col := c.GenCol
		for seen[col] {
			col++
		}
		c.GenCol = col
		seen[col] = true
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].GenCol < list[j].GenCol })
	return list
}

func firstIdent(doc *locate.Doc, line int) string {
	if line < 0 || line >= doc.Tokens.Len() {
		return ""
	}
	for _, tok := range doc.Tokens.Line(line) {
		if tok.Kind == tokindex.Ident && !isDigit(tok.Text[0]) {
			return tok.Text
		}
	}
	return ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
