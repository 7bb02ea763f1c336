package dense

import (
	"sort"

	"remap/internal/srcmap"
)

// rank orders segments competing for one generated column.
type rank uint8

const (
	rankNull rank = iota
	rankEnd
	rankStart
)

type ranked struct {
	srcmap.Segment
	rank rank
	// fallback segments survive the front-padding demotion
	fallback bool
}

// assemble walks the anchors in order and fills every gap with a null
// segment, so the line is covered from column 0 to its end.
func (b *builder) assemble(ls *lineState) []ranked {
	var out []ranked
	last := 0
	for i, a := range ls.anchors {
		if a.Start.Char > last {
			out = append(out, ranked{Segment: srcmap.Null(last)})
		}
		if segs := ls.segs[i]; segs != nil {
			out = append(out, segs...)
		} else {
			out = append(out, ranked{Segment: srcmap.Null(a.Start.Char)})
		}
		end := a.End.Char
		if a.End.Line != a.Start.Line {
			end = len(ls.text)
		}
		last = max(last, end)
	}
	if last < len(ls.text) {
		out = append(out, ranked{Segment: srcmap.Null(last)})
	}
	return out
}

// finalize sorts and dedupes the line, inserts a fallback mapping when the
// line has none, and demotes a lone real segment at column 0.
func (b *builder) finalize(ls *lineState, segs []ranked) []srcmap.Segment {
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].GenCol < segs[j].GenCol })

	// одна запись на колонку: старший ранг, при равенстве первый
	deduped := segs[:0]
	for _, s := range segs {
		if n := len(deduped); n > 0 && deduped[n-1].GenCol == s.GenCol {
			if s.rank > deduped[n-1].rank {
				deduped[n-1] = s
			}
			continue
		}
		deduped = append(deduped, s)
	}

	mapped := 0
	for _, s := range deduped {
		if s.Mapped {
			mapped++
		}
	}

	if mapped == 0 {
		deduped = b.insertFallback(ls, deduped)
	} else if mapped == 1 {
		for i, s := range deduped {
			if s.Mapped && s.GenCol == 0 && !s.fallback {
				deduped[i] = ranked{Segment: srcmap.Null(0)}
				b.stats.Demoted++
			}
		}
	}

	out := make([]srcmap.Segment, len(deduped))
	for i, s := range deduped {
		out[i] = s.Segment
	}
	return out
}

// insertFallback points the first non-space generated column at the first
// code character of the line's best-guess source line.
func (b *builder) insertFallback(ls *lineState, segs []ranked) []ranked {
	src := b.tab.guess(ls.idx)
	if src < 0 {
		return segs
	}
	gen := 0
	for gen < len(ls.text) && isSpace(ls.text[gen]) {
		gen++
	}
	if gen == len(ls.text) {
		// пустая строка: нечего трассировать
		return segs
	}

	col := b.doc.FirstCode(src)
	if col < 0 {
		return segs
	}

	line, c := b.srcPos(src, col)
	seg := ranked{Segment: srcmap.Mapped(gen, line, c), rank: rankStart, fallback: true}
	b.stats.Inserted++

	at := sort.Search(len(segs), func(i int) bool { return segs[i].GenCol >= gen })
	if at < len(segs) && segs[at].GenCol == gen {
		segs[at] = seg
		return segs
	}
	segs = append(segs, ranked{})
	copy(segs[at+1:], segs[at:])
	segs[at] = seg
	return segs
}
