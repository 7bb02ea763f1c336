package locate

import (
	"sort"
	"strings"

	"remap/internal/anchor"
	"remap/internal/claim"
)

// Candidate pairs a generated column with the source line the coarse map
// assigns to it.
type Candidate struct {
	GenCol  int
	SrcLine int
}

// Stats counts heuristic usage. Callers own the value; Find only adds.
type Stats struct {
	// Fallback is bumped once per look-ahead distance tried.
	Fallback  int
	IndexHits int
	TextHits  int
	Salvaged  int
	Guarded   int
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Fallback:  s.Fallback + o.Fallback,
		IndexHits: s.IndexHits + o.IndexHits,
		TextHits:  s.TextHits + o.TextHits,
		Salvaged:  s.Salvaged + o.Salvaged,
		Guarded:   s.Guarded + o.Guarded,
	}
}

// Query is one anchor lookup.
type Query struct {
	Anchor anchor.Anchor
	// Search is the text expected in the source; usually Anchor.Text.
	Search       string
	AllowLiteral bool
	// Guess is the line from the generated-to-source line map, -1 if none.
	Guess int
	// Candidates is the sorted coarse segment list of the generated line.
	Candidates []Candidate
}

// Result is a located source span.
type Result struct {
	Line int
	Col  int
	Len  int
	// Key and Occ identify the occurrence slot on the first guessed line.
	Key OccKey
	Occ int
}

// Locator resolves anchors against one Doc.
type Locator struct {
	doc       *Doc
	interp    *InterpScanner
	lookahead int
}

// New creates a locator. interp may be nil; lookahead < 0 means the default.
func New(doc *Doc, interp *InterpScanner, lookahead int) *Locator {
	if lookahead < 0 {
		lookahead = DefaultLookahead
	}
	return &Locator{doc: doc, interp: interp, lookahead: lookahead}
}

// Doc returns the document the locator searches.
func (l *Locator) Doc() *Doc { return l.doc }

// GuessLine picks the source line for a generated column: the candidate
// covering col, else fallback.
func GuessLine(cands []Candidate, col, fallback int) int {
	if len(cands) == 0 {
		return fallback
	}
	idx := sort.Search(len(cands), func(i int) bool { return cands[i].GenCol > col }) - 1
	if idx < 0 {
		idx = 0
	}
	if idx < len(cands)-1 && col >= cands[idx+1].GenCol {
		idx++
	}
	return cands[idx].SrcLine
}

func uniqueLines(cands []Candidate) []int {
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

// pick returns the occ-th match, or the first unclaimed one after it.
// When all remaining matches are claimed the occ-th is returned so that
// validation rejects it as a collision.
func pick(matches []span, occ, line int, claims *claim.Set) (span, bool) {
	if occ < 0 || occ >= len(matches) {
		return span{}, false
	}
	for _, m := range matches[occ:] {
		if !claims.HasRange(line, m.col, m.col+m.len) {
			return m, true
		}
	}
	return matches[occ], true
}

// onLine runs the index fast path and the text scan on one line.
func (l *Locator) onLine(q Query, line, occ int, claims *claim.Set, st *Stats) (span, bool) {
	if line < 0 || line >= len(l.doc.Lines) {
		return span{}, false
	}
	if q.Anchor.Kind.IdentLike() {
		if m, ok := pick(l.byIndex(q.Anchor, line, q.AllowLiteral), occ, line, claims); ok {
			st.IndexHits++
			return m, true
		}
	}
	if m, ok := pick(l.byText(q.Anchor, q.Search, line, q.AllowLiteral), occ, line, claims); ok {
		st.TextHits++
		return m, true
	}
	return span{}, false
}

// Find locates q. occs is the per generated line occurrence table; claims
// are the source positions already taken in this build.
func (l *Locator) Find(q Query, occs Occurrences, claims *claim.Set, st *Stats) (Result, bool) {
	if st == nil {
		st = &Stats{}
	}
	a := q.Anchor
	// якорь сам может разрешать поиск внутри литералов и дыр
	q.AllowLiteral = q.AllowLiteral || a.AllowLiteral || a.InInterpolation
	if q.Search == "" {
		q.Search = a.Text
	}
	line := GuessLine(q.Candidates, a.Start.Char, q.Guess)
	if line < 0 {
		return Result{}, false
	}
	key := OccKey{Line: line, Kind: a.Kind, Text: q.Search}
	occ := occs.Get(key)

	m, found := l.onLine(q, line, occ, claims, st)

	if !found && !isRiskyPunct(a) {
	scan:
		for delta := 1; delta <= l.lookahead; delta++ {
			st.Fallback++
			for _, alt := range [2]int{line - delta, line + delta} {
				altKey := OccKey{Line: alt, Kind: a.Kind, Text: q.Search}
				altOcc := occs.Get(altKey)
				if hit, ok := l.onLine(q, alt, altOcc, claims, st); ok {
					m, found, line = hit, true, alt
					occs.Set(altKey, altOcc+1)
					break scan
				}
			}
		}
	}

	if !found && len(q.Candidates) > 1 {
		for _, alt := range uniqueLines(q.Candidates) {
			if alt == line {
				continue
			}
			altKey := OccKey{Line: alt, Kind: a.Kind, Text: q.Search}
			altOcc := occs.Get(altKey)
			if hit, ok := l.onLine(q, alt, altOcc, claims, st); ok {
				m, found, line = hit, true, alt
				occs.Set(altKey, altOcc+1)
				st.Salvaged++
				break
			}
		}
	}

	if !found && a.Kind == anchor.Identifier && len(q.Candidates) > 0 {
		for _, alt := range uniqueLines(q.Candidates) {
			if idx := strings.Index(l.doc.Line(alt), a.Text+":"); idx >= 0 {
				m, found, line = span{idx, len(a.Text)}, true, alt
				st.Salvaged++
				break
			}
		}
	}

	if !found {
		return Result{}, false
	}
	if l.guarded(a, line, m.col) {
		st.Guarded++
		return Result{}, false
	}
	return Result{Line: line, Col: m.col, Len: m.len, Key: key, Occ: occ}, true
}

// guarded rejects positions inside comments, and inside strings unless
// the anchor kind belongs there.
func (l *Locator) guarded(a anchor.Anchor, line, col int) bool {
	if l.doc.Masks.InComment(line, col) {
		return true
	}
	if !l.doc.Masks.InString(line, col) {
		return false
	}
	switch a.Kind {
	case anchor.Quote, anchor.StringLiteral, anchor.InterpOpen, anchor.InterpClose, anchor.InterpExpr:
		return false
	}
	return !a.InInterpolation
}
