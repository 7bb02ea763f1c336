package diagfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/internal/anchor"
)

func sampleAnchors() []anchor.Anchor {
	return []anchor.Anchor{
		{Text: "x", Kind: anchor.Identifier, Start: anchor.Pos{Line: 0, Char: 6}, End: anchor.Pos{Line: 0, Char: 7}},
		{Text: "name", Kind: anchor.Identifier, InInterpolation: true, Start: anchor.Pos{Line: 1, Char: 3}, End: anchor.Pos{Line: 1, Char: 7}},
	}
}

func TestFormatAnchorsPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatAnchorsPretty(&buf, sampleAnchors()))

	want := "  1: identifier         \"x\" at 1:7-1:8\n" +
		"  2: identifier         \"name\" at 2:4-2:8 (interp)\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatAnchorsJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatAnchorsJSON(&buf, sampleAnchors()))

	got, err := anchor.ParseJSON(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sampleAnchors(), got)
}

func TestFormatAnchorsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatAnchorsJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
