package literal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPlainString(t *testing.T) {
	// 0123456789
	// x := "ab"
	info := Scan(`x := "ab"`)
	assert.Equal(t, []Range{{5, 5}, {8, 8}, {6, 7}}, info.Literals)
	assert.Empty(t, info.Interps)
	assert.False(t, info.InLiteral(0))
	assert.True(t, info.InLiteral(5))
	assert.True(t, info.InLiteral(7))
	assert.True(t, info.InLiteral(8))
}

func TestScanInterpolation(t *testing.T) {
	// 0         1
	// 0123456789012345
	// "a${b + {c}}d"
	line := `"a${b + {c}}d"`
	info := Scan(line)

	require.Len(t, info.Interps, 1)
	assert.Equal(t, Range{4, 11}, info.Interps[0], "nested braces are depth counted")
	assert.True(t, info.InInterp(4))
	assert.True(t, info.InInterp(11))
	assert.False(t, info.InInterp(12))
	assert.True(t, info.HasInterps())

	// дырка целиком считается литералом
	assert.True(t, info.InLiteral(2))
	assert.True(t, info.InLiteral(3))
	assert.True(t, info.InLiteral(12))
	assert.True(t, info.InLiteral(13))
}

func TestScanSingleQuoteHasNoHoles(t *testing.T) {
	info := Scan(`'a${b}'`)
	assert.Empty(t, info.Interps)
	assert.True(t, info.InLiteral(3))
}

func TestScanHashInterpolation(t *testing.T) {
	info := Scan(`"#{name}"`)
	require.Len(t, info.Interps, 1)
	assert.Equal(t, Range{3, 7}, info.Interps[0])
}

func TestScanEscapes(t *testing.T) {
	info := Scan(`"a\"b" + c`)
	assert.True(t, info.InLiteral(5), "escaped quote does not close the string")
	assert.False(t, info.InLiteral(9))
}

func TestScanUnclosedStringRunsToEnd(t *testing.T) {
	info := Scan(`x = "abc`)
	assert.True(t, info.InLiteral(7))
}

func TestScanComments(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want bool
	}{
		{"a // b", 2, true},
		{"a // b", 5, true},
		{"a // b", 0, false},
		{"  # note", 2, true},
		{"a # not a comment", 2, false},
		{`"//" + x`, 7, false},
	}
	for _, tt := range tests {
		got := Scan(tt.line).InComment(tt.col)
		assert.Equal(t, tt.want, got, "%q col %d", tt.line, tt.col)
	}
}

func TestScannerCaches(t *testing.T) {
	s := NewScanner(4, time.Minute)
	a := s.Line(`"x"`)
	b := s.Line(`"x"`)
	assert.Equal(t, a, b)

	st := s.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, 1, st.Size)
}

func TestScannerNilFallsBack(t *testing.T) {
	var s *Scanner
	assert.Equal(t, Scan(`"x"`), s.Line(`"x"`))
	assert.Equal(t, uint64(0), s.Stats().Hits)
}

func TestScannerConcurrent(t *testing.T) {
	s := NewScanner(16, time.Minute)
	lines := []string{`"a${b}"`, "c // d", "e", `'f'`}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				l := lines[i%len(lines)]
				assert.Equal(t, Scan(l), s.Line(l))
			}
		}()
	}
	wg.Wait()
}

func TestMasksBlockComment(t *testing.T) {
	m := BuildMasks([]string{
		"a /* one",
		"two */ b",
	})
	assert.False(t, m.InComment(0, 0))
	assert.True(t, m.InComment(0, 2))
	assert.True(t, m.InComment(1, 0))
	assert.True(t, m.InComment(1, 5))
	assert.False(t, m.InComment(1, 7))
}

func TestMasksMultilineTemplate(t *testing.T) {
	// 0123456
	// x = `a
	// ${b} c`
	m := BuildMasks([]string{
		"x = `a",
		"${b} c`",
		"d",
	})
	assert.False(t, m.InString(0, 0))
	assert.True(t, m.InString(0, 4))
	assert.True(t, m.InString(0, 5))
	assert.True(t, m.InString(1, 0), "hole opener belongs to the literal")
	assert.False(t, m.InString(1, 2), "hole expression is code")
	assert.True(t, m.InString(1, 3), "hole closer belongs to the literal")
	assert.True(t, m.InString(1, 6))
	assert.False(t, m.InString(2, 0))
}

func TestMasksOutOfRange(t *testing.T) {
	m := BuildMasks([]string{"x"})
	assert.False(t, m.InString(-1, 0))
	assert.False(t, m.InComment(3, 0))
	var nilMasks *Masks
	assert.False(t, nilMasks.InString(0, 0))
}
