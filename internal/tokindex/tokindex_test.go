package tokindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTokens(t *testing.T) {
	toks := Line(2, `  if x.$y >= 10_0`)
	want := []Token{
		{Text: "if", Kind: Ident, Line: 2, Col: 2, Len: 2},
		{Text: "x", Kind: Ident, Line: 2, Col: 5, Len: 1},
		{Text: ".", Kind: Operator, Line: 2, Col: 6, Len: 1},
		{Text: "$y", Kind: Ident, Line: 2, Col: 7, Len: 2},
		{Text: ">", Kind: Operator, Line: 2, Col: 10, Len: 1},
		{Text: "=", Kind: Operator, Line: 2, Col: 11, Len: 1},
		{Text: "10_0", Kind: Ident, Line: 2, Col: 13, Len: 4},
	}
	assert.Equal(t, want, toks)
}

func TestLineUnicodeOffsetsAreBytes(t *testing.T) {
	toks := Line(0, "é := ж")
	require.Len(t, toks, 4)
	assert.Equal(t, "é", toks[0].Text)
	assert.Equal(t, 2, toks[0].Len)
	assert.Equal(t, 3, toks[1].Col)
	assert.Equal(t, "ж", toks[3].Text)
	assert.Equal(t, 6, toks[3].Col)
	assert.Equal(t, 8, toks[3].End())
}

func TestIndex(t *testing.T) {
	x := Build([]string{"a b", "", "c"})
	assert.Equal(t, 3, x.Len())
	assert.Len(t, x.Line(0), 2)
	assert.Empty(t, x.Line(1))
	assert.Nil(t, x.Line(7))
	assert.Nil(t, x.Line(-1))

	var nilIdx *Index
	assert.Nil(t, nilIdx.Line(0))
	assert.Equal(t, 0, nilIdx.Len())
}

func TestKindText(t *testing.T) {
	b, err := Operator.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "op", string(b))
	assert.Equal(t, "ident", Ident.String())
}
