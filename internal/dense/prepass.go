package dense

import (
	"strings"
	"unicode/utf8"

	"remap/internal/anchor"
	"remap/internal/locate"
	"remap/internal/tokindex"
)

// Pre-passes claim structurally unambiguous matches before the generic
// matcher runs. They only consider the source lines the coarse map names
// for the generated line.

func candidateLines(cands []locate.Candidate) []int {
	seen := make(map[int]bool, len(cands))
	var out []int
	for _, c := range cands {
		if !seen[c.SrcLine] {
			seen[c.SrcLine] = true
			out = append(out, c.SrcLine)
		}
	}
	return out
}

// objectKeys maps identifiers written as object keys in the dialect:
// `key:` at the start of a line or after `{` / `,`, and the lone shorthand
// `{ key }`. When the generated code expands shorthand into `key: key`,
// the value twin is pointed at the same source key.
func (b *builder) objectKeys(ls *lineState) {
	lines := candidateLines(ls.cands)
	if len(lines) == 0 {
		return
	}
	for i, a := range ls.anchors {
		if a.Kind != anchor.Identifier || ls.done[i] {
			continue
		}
		for _, line := range lines {
			col := b.keyCol(line, a.Text)
			if col < 0 {
				continue
			}
			if b.doc.Masks.InComment(line, col) || b.doc.Masks.InString(line, col) {
				continue
			}
			end := col + len(a.Text)
			if b.claims.HasRange(line, col, end) || ls.genCols.Has(a.Start.Char) {
				continue
			}

			b.claims.ClaimRange(line, col, end)
			ls.occs.Bump(locate.OccKey{Line: line, Kind: anchor.Identifier, Text: a.Text})
			b.record(ls, i, line, col, len(a.Text), true)
			b.stats.ObjectKeys++
			b.valueTwin(ls, i, line, col)
			break
		}
	}
}

// valueTwin maps `key: key` where the dialect only wrote the key once.
func (b *builder) valueTwin(ls *lineState, i, line, col int) {
	if i+2 >= len(ls.anchors) {
		return
	}
	key, colon, val := ls.anchors[i], ls.anchors[i+1], ls.anchors[i+2]
	if colon.Kind != anchor.Operator || colon.Text != ":" {
		return
	}
	if val.Kind != anchor.Identifier || val.Text != key.Text || ls.done[i+2] || ls.genCols.Has(val.Start.Char) {
		return
	}
	// the twin is the same source token: only claimed once
	b.record(ls, i+2, line, col, len(val.Text), true)
	b.stats.ObjectKeys++
}

type keySlot struct {
	line int
	text string
}

// keyCol is the column of ident as an object key on source line, or -1.
// The answer does not depend on claims, so it is computed once per
// (line, text) and build.
func (b *builder) keyCol(line int, ident string) int {
	slot := keySlot{line, ident}
	if col, ok := b.keys[slot]; ok {
		return col
	}
	text := b.doc.Line(line)
	col := -1
	if at := strings.Index(text, ident); at >= 0 && colonKey(text, at, ident) {
		col = at
	} else {
		col = loneKey(text, ident, b.insideBraces(line))
	}
	b.keys[slot] = col
	return col
}

// insideBraces[p] reports whether the last brace before column p of the
// source line is an open one.
func (b *builder) insideBraces(line int) []bool {
	if in, ok := b.braces[line]; ok {
		return in
	}
	text := b.doc.Line(line)
	in := make([]bool, len(text)+1)
	open := false
	for p := 0; p < len(text); p++ {
		in[p] = open
		switch text[p] {
		case '{':
			open = true
		case '}':
			open = false
		}
	}
	in[len(text)] = open
	b.braces[line] = in
	return in
}

// colonKey: optional whitespace then `:` after the identifier, and start of
// line, `{` or `,` before it.
func colonKey(line string, at int, ident string) bool {
	j := at + len(ident)
	for j < len(line) && isSpace(line[j]) {
		j++
	}
	if j >= len(line) || line[j] != ':' {
		return false
	}
	k := at - 1
	for k >= 0 && isSpace(line[k]) {
		k--
	}
	return k < 0 || line[k] == '{' || line[k] == ','
}

// loneKey finds ident used as `{ ident }`, `{ a, ident }` or an unclosed
// `{ ident` inside an object literal on the line. braces comes from
// insideBraces for the same line.
func loneKey(line, ident string, braces []bool) int {
	for pos := strings.Index(line, ident); pos >= 0; {
		inside := braces[pos]

		k := pos - 1
		for k >= 0 && isSpace(line[k]) {
			k--
		}
		leftOK := (k < 0 && inside) || (k >= 0 && (line[k] == '{' || (line[k] == ',' && inside)))

		j := pos + len(ident)
		for j < len(line) && isSpace(line[j]) {
			j++
		}
		rightOK := (j >= len(line) && inside) || (j < len(line) && (line[j] == ',' || line[j] == '}'))

		if inside && leftOK && rightOK {
			return pos
		}
		next := strings.Index(line[pos+1:], ident)
		if next < 0 {
			break
		}
		pos += next + 1
	}
	return -1
}

// interpolations maps identifiers from template holes by searching only
// inside `${...}` / `#{...}` slices of the candidate lines. Range dots go
// first so that a `.slice` from `a[x..y]` is not taken as a plain word.
func (b *builder) interpolations(ls *lineState) {
	lines := candidateLines(ls.cands)
	if len(lines) == 0 {
		return
	}
	b.rangeDots(ls)

	for i, a := range ls.anchors {
		if a.Kind != anchor.Identifier || !a.InInterpolation || ls.done[i] {
			continue
		}
		for _, line := range lines {
			if col, ok := b.holeMatch(ls, a, line); ok {
				b.claims.ClaimRange(line, col, col+len(a.Text))
				b.record(ls, i, line, col, len(a.Text), true)
				b.stats.Interps++
				break
			}
		}
	}
}

// holeMatch returns the first unclaimed word-boundary hit of a.Text inside
// a hole of line.
func (b *builder) holeMatch(ls *lineState, a anchor.Anchor, line int) (int, bool) {
	text := b.doc.Line(line)
	if ls.genCols.Has(a.Start.Char) {
		return 0, false
	}
	for open := 0; open+1 < len(text); {
		at := indexOpener(text, open)
		if at < 0 {
			break
		}
		from := at + 2
		to := matchBrace(text, from)

		for search := from; search < to; {
			hit := strings.Index(text[search:to], a.Text)
			if hit < 0 {
				break
			}
			hit += search
			end := hit + len(a.Text)
			if !wordBefore(text, hit) && !wordAt(text, end) && !b.claims.HasRange(line, hit, end) {
				return hit, true
			}
			search = end
		}
		open = to + 1
	}
	return 0, false
}

func indexOpener(text string, from int) int {
	for i := from; i+1 < len(text); i++ {
		if (text[i] == '$' || text[i] == '#') && text[i+1] == '{' {
			return i
		}
	}
	return -1
}

// matchBrace returns the index of the `}` closing a hole whose body starts
// at from, or len(text) when the hole runs past the line.
func matchBrace(text string, from int) int {
	depth := 1
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(text)
}

// rangeDots binds an inclusive range `..` (not part of `...`) to the method
// call the compiler emitted for it: the first unmapped identifier written
// as `.name(` on the generated line. One binding per source line.
func (b *builder) rangeDots(ls *lineState) {
	lines := candidateLines(ls.cands)
	for _, line := range lines {
		text := b.doc.Line(line)
		for at := 0; at+1 < len(text); at++ {
			if !isRangeDots(text, at) {
				continue
			}
			if b.claims.Has(line, at) || b.claims.Has(line, at+1) {
				continue
			}
			i := b.methodAnchor(ls)
			if i < 0 {
				return
			}
			b.claims.ClaimRange(line, at, at+2)
			b.record(ls, i, line, at, 2, true)
			b.stats.Ranges++
			break
		}
	}
}

func isRangeDots(text string, at int) bool {
	if text[at] != '.' || text[at+1] != '.' {
		return false
	}
	if at > 0 && text[at-1] == '.' {
		return false
	}
	return at+2 >= len(text) || text[at+2] != '.'
}

func (b *builder) methodAnchor(ls *lineState) int {
	for i, a := range ls.anchors {
		if a.Kind != anchor.Identifier || ls.done[i] || a.Start.Line != a.End.Line {
			continue
		}
		if a.Start.Char > 0 && a.End.Char < len(ls.text) &&
			ls.text[a.Start.Char-1] == '.' && ls.text[a.End.Char] == '(' &&
			!ls.genCols.Has(a.Start.Char) {
			return i
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}

func wordBefore(s string, pos int) bool {
	if pos <= 0 || pos > len(s) {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return tokindex.IsWordRune(r)
}

func wordAt(s string, pos int) bool {
	if pos < 0 || pos >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return tokindex.IsWordRune(r)
}
