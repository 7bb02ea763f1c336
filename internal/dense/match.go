package dense

import (
	"unicode"
	"unicode/utf8"

	"remap/internal/anchor"
	"remap/internal/locate"
	"remap/internal/tokindex"
)

// mapAnchor runs the generic locator for anchor i and validates the hit.
func (b *builder) mapAnchor(ls *lineState, i int) {
	a := ls.anchors[i]

	switch {
	case a.Kind == anchor.Identifier && !b.doc.HasWord(a.Text):
		// compiler-injected name, nothing to point at
		b.drop(ls, i)
		return
	case a.Kind == anchor.InterpExpr:
		b.drop(ls, i)
		return
	case a.Kind == anchor.Operator && a.Text == "." && memberDot(ls.text, a.Start.Char):
		b.drop(ls, i)
		return
	}

	q := locate.Query{
		Anchor:     a,
		Search:     a.Text,
		Guess:      b.tab.guess(ls.idx),
		Candidates: ls.cands,
	}
	res, ok := b.loc.Find(q, ls.occs, b.claims, &b.stats.Locate)
	if !ok || !b.accept(ls, i, res) {
		b.drop(ls, i)
	}
}

// accept validates a locator hit, claims it and records its segments.
// Text mismatches advance the occurrence counter, collisions do not.
func (b *builder) accept(ls *lineState, i int, res locate.Result) bool {
	a := ls.anchors[i]
	src := slice(b.doc.Line(res.Line), res.Col, res.Col+res.Len)
	aliased := b.aliasMatch(a, src)

	if !aliased {
		mismatch := src != a.Text
		if !mismatch && !a.Synthetic && a.Start.Line == a.End.Line {
			mismatch = slice(ls.text, a.Start.Char, a.End.Char) != a.Text
		}
		if mismatch {
			ls.occs.Set(res.Key, res.Occ+1)
			return false
		}
	}

	if ls.genCols.Has(a.Start.Char) || b.claims.HasRange(res.Line, res.Col, res.Col+res.Len) {
		return false
	}
	b.claims.ClaimRange(res.Line, res.Col, res.Col+res.Len)
	if res.Key.Line == res.Line {
		ls.occs.Set(res.Key, res.Occ+1)
	}

	b.record(ls, i, res.Line, res.Col, res.Len, !a.Synthetic)
	return true
}

func (b *builder) aliasMatch(a anchor.Anchor, src string) bool {
	switch a.Kind {
	case anchor.Keyword, anchor.Operator:
		return src != a.Text && b.aliases.IsSpelling(a.Text, src)
	case anchor.InterpOpen:
		return a.Text == "${" && src == "#{"
	case anchor.Quote:
		return b.aliases.IsQuoteSpelling(a.Text, src)
	}
	return false
}

// memberDot reports a `.` whose next non-space character is a word rune:
// a property access whose identifier should own the span.
func memberDot(text string, col int) bool {
	for j := col + 1; j < len(text); {
		r, size := utf8.DecodeRuneInString(text[j:])
		if unicode.IsSpace(r) {
			j += size
			continue
		}
		return tokindex.IsWordRune(r)
	}
	return false
}

func slice(s string, from, to int) string {
	if from < 0 || to > len(s) || from > to {
		return ""
	}
	return s[from:to]
}
