package locate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/internal/anchor"
	"remap/internal/claim"
)

func newLocator(lines ...string) *Locator {
	return New(NewDoc(lines, nil, nil), NewInterpScanner(16, time.Minute), -1)
}

func anc(kind anchor.Kind, text string, col int) anchor.Anchor {
	return anchor.Anchor{
		Text:  text,
		Kind:  kind,
		Start: anchor.Pos{Line: 0, Char: col},
		End:   anchor.Pos{Line: 0, Char: col + len(text)},
	}
}

func find(t *testing.T, l *Locator, a anchor.Anchor) (Result, bool) {
	t.Helper()
	return l.Find(Query{Anchor: a, Guess: 0}, Occurrences{}, claim.New(), &Stats{})
}

func TestFindRepeatedIdentifiersInOrder(t *testing.T) {
	l := newLocator("a + a")
	occs := Occurrences{}
	claims := claim.New()
	var st Stats

	r, ok := l.Find(Query{Anchor: anc(anchor.Identifier, "a", 0), Guess: 0}, occs, claims, &st)
	require.True(t, ok)
	assert.Equal(t, 0, r.Col)
	occs.Bump(r.Key)

	r, ok = l.Find(Query{Anchor: anc(anchor.Identifier, "a", 4), Guess: 0}, occs, claims, &st)
	require.True(t, ok)
	assert.Equal(t, 4, r.Col)
	assert.Equal(t, 1, r.Occ)
	assert.Equal(t, 2, st.IndexHits)
}

func TestFindSkipsClaimedOccurrence(t *testing.T) {
	l := newLocator("a + a")
	claims := claim.New()
	claims.Claim(0, 0)
	r, ok := l.Find(Query{Anchor: anc(anchor.Identifier, "a", 0), Guess: 0}, Occurrences{}, claims, nil)
	require.True(t, ok)
	assert.Equal(t, 4, r.Col)
	assert.Equal(t, 0, r.Occ)
}

func TestFindAliases(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		a      anchor.Anchor
		col    int
		length int
	}{
		{"strict equals", "x is y", anc(anchor.Operator, "===", 2), 2, 2},
		{"not equals", "a isnt b", anc(anchor.Operator, "!==", 2), 2, 4},
		{"or", "a or b", anc(anchor.Operator, "||", 2), 2, 2},
		{"const", "x := 1", anc(anchor.Keyword, "const", 0), 2, 2},
		{"function", "f := (x) -> x", anc(anchor.Keyword, "function", 0), 9, 2},
		{"plain operator", "a + b", anc(anchor.Operator, "+", 2), 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := find(t, newLocator(tt.src), tt.a)
			require.True(t, ok)
			assert.Equal(t, tt.col, r.Col)
			assert.Equal(t, tt.length, r.Len)
		})
	}
}

func TestFindRejectsOperatorInsideLongerOne(t *testing.T) {
	r, ok := find(t, newLocator("a == b = c"), anc(anchor.Operator, "=", 0))
	require.True(t, ok)
	assert.Equal(t, 7, r.Col)

	_, ok = find(t, newLocator("a => b"), anc(anchor.Operator, "=", 0))
	assert.False(t, ok)
}

func TestFindSkipsArrowHalves(t *testing.T) {
	r, ok := find(t, newLocator("(x) -> x - 1"), anc(anchor.Operator, "-", 0))
	require.True(t, ok)
	assert.Equal(t, 9, r.Col)

	_, ok = find(t, newLocator("(x) -> x"), anc(anchor.Operator, ">", 0))
	assert.False(t, ok)
}

func TestFindLookahead(t *testing.T) {
	l := newLocator("foo", "", "bar")
	var st Stats
	r, ok := l.Find(Query{Anchor: anc(anchor.Identifier, "bar", 0), Guess: 0}, Occurrences{}, claim.New(), &st)
	require.True(t, ok)
	assert.Equal(t, 2, r.Line)
	assert.Equal(t, 2, st.Fallback)
}

func TestFindNoLookaheadForRiskyPunct(t *testing.T) {
	l := newLocator("a", "b, c")
	var st Stats
	_, ok := l.Find(Query{Anchor: anc(anchor.Operator, ",", 1), Guess: 0}, Occurrences{}, claim.New(), &st)
	assert.False(t, ok)
	assert.Equal(t, 0, st.Fallback)
}

func TestFindIgnoresComments(t *testing.T) {
	_, ok := find(t, newLocator("x // y"), anc(anchor.Identifier, "y", 0))
	assert.False(t, ok)
}

func TestFindInterpolation(t *testing.T) {
	l := newLocator(`"hi ${name}"`)
	a := anc(anchor.Identifier, "name", 6)
	a.InInterpolation = true
	a.AllowLiteral = true
	r, ok := find(t, l, a)
	require.True(t, ok)
	assert.Equal(t, 6, r.Col)

	_, ok = find(t, l, anc(anchor.Identifier, "name", 6))
	assert.False(t, ok, "plain identifier must not match inside a hole")

	r, ok = find(t, newLocator(`"a #{b}"`), anc(anchor.InterpOpen, "${", 3))
	require.True(t, ok)
	assert.Equal(t, 3, r.Col)
	assert.Equal(t, 2, r.Len)

	r, ok = find(t, l, anc(anchor.InterpClose, "}", 10))
	require.True(t, ok)
	assert.Equal(t, 10, r.Col)
}

func TestFindHonoursAnchorFlags(t *testing.T) {
	l := newLocator(`"hi ${name}"`)
	a := anc(anchor.Identifier, "name", 6)
	a.InInterpolation = true
	r, ok := l.Find(Query{Anchor: a, Guess: 0}, Occurrences{}, claim.New(), nil)
	require.True(t, ok, "interpolation anchor must be found without Query.AllowLiteral")
	assert.Equal(t, 6, r.Col)

	b := anc(anchor.StringLiteral, "hello", 5)
	b.AllowLiteral = true
	r, ok = newLocator(`x = "hello"`).Find(Query{Anchor: b, Guess: 0}, Occurrences{}, claim.New(), nil)
	require.True(t, ok)
	assert.Equal(t, 5, r.Col)
}

func TestFindQuotesPreferTripleForms(t *testing.T) {
	r, ok := find(t, newLocator(`'''text'''`), anc(anchor.Quote, "'", 0))
	require.True(t, ok)
	assert.Equal(t, 0, r.Col)
	assert.Equal(t, 3, r.Len)
}

func TestFindStringContent(t *testing.T) {
	a := anc(anchor.StringLiteral, "hello", 5)
	a.AllowLiteral = true
	r, ok := find(t, newLocator(`x = "hello"`), a)
	require.True(t, ok)
	assert.Equal(t, 5, r.Col)
}

func TestFindObjectKeySalvage(t *testing.T) {
	l := newLocator(`status: "${a}"`)
	a := anc(anchor.Identifier, "status", 2)
	a.InInterpolation = true
	var st Stats
	r, ok := l.Find(Query{
		Anchor:     a,
		Guess:      0,
		Candidates: []Candidate{{GenCol: 0, SrcLine: 0}},
	}, Occurrences{}, claim.New(), &st)
	require.True(t, ok)
	assert.Equal(t, 0, r.Col)
	assert.Equal(t, 1, st.Salvaged)
}

func TestFindSegmentListSalvage(t *testing.T) {
	l := newLocator("a", "b", "c", "d", "e", "target")
	var st Stats
	r, ok := l.Find(Query{
		Anchor: anc(anchor.Identifier, "target", 12),
		Guess:  0,
		Candidates: []Candidate{
			{GenCol: 0, SrcLine: 0},
			{GenCol: 5, SrcLine: 5},
			{GenCol: 10, SrcLine: 0},
		},
	}, Occurrences{}, claim.New(), &st)
	require.True(t, ok)
	assert.Equal(t, 5, r.Line)
}

func TestGuessLine(t *testing.T) {
	cands := []Candidate{{0, 3}, {4, 5}, {9, 7}}
	assert.Equal(t, 3, GuessLine(cands, 2, -1))
	assert.Equal(t, 5, GuessLine(cands, 4, -1))
	assert.Equal(t, 7, GuessLine(cands, 100, -1))
	assert.Equal(t, 2, GuessLine(nil, 5, 2))
}

func TestScanInterp(t *testing.T) {
	toks := ScanInterp(`"${a + #{b}}" }`)
	require.Len(t, toks, 5)
	assert.True(t, toks[0].Open)
	assert.Equal(t, 0, toks[0].Depth)
	assert.Equal(t, "#{", toks[1].Text)
	assert.Equal(t, 1, toks[1].Depth)
	assert.False(t, toks[2].Open)
	assert.Equal(t, 1, toks[2].Depth)
	assert.Equal(t, 0, toks[4].Depth)

	s := NewInterpScanner(4, time.Minute)
	s.Line("${x}")
	s.Line("${x}")
	assert.Equal(t, uint64(1), s.Stats().Hits)
}

func TestDocHelpers(t *testing.T) {
	d := NewDoc([]string{`  "s" x`, "   "}, nil, nil)
	assert.True(t, d.HasWord("x"))
	assert.False(t, d.HasWord("i"))
	assert.Equal(t, 6, d.FirstCode(0))
	assert.Equal(t, -1, d.FirstCode(1))
	assert.Equal(t, "", d.Line(9))
}
