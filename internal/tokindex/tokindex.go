// Package tokindex slices dialect source lines into a flat token view used
// by the fast path of the anchor locator.
package tokindex

import (
	"unicode"
	"unicode/utf8"
)

// Kind separates word runs from single-character punctuation.
type Kind uint8

const (
	// Ident covers identifiers and numbers: maximal runs of letters, digits, `_`, `$`.
	Ident Kind = iota
	// Operator is any other non-space character, one per token.
	Operator
)

func (k Kind) String() string {
	if k == Ident {
		return "ident"
	}
	return "op"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Token is one lexical unit of a source line. Col and Len are byte based.
type Token struct {
	Text string
	Kind Kind
	Line int
	Col  int
	Len  int
}

// End returns the byte offset just past the token.
func (t Token) End() int { return t.Col + t.Len }

// IsWordRune reports whether r may appear inside an identifier run.
func IsWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.N, r)
}

// Index holds the tokens of every line.
type Index struct {
	lines [][]Token
}

// Build indexes all lines. No literal or comment awareness: filtering is the
// caller's job.
func Build(lines []string) *Index {
	idx := &Index{lines: make([][]Token, len(lines))}
	for n, text := range lines {
		idx.lines[n] = Line(n, text)
	}
	return idx
}

// Line tokenizes one line.
func Line(lineNo int, text string) []Token {
	var toks []Token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		if IsWordRune(r) {
			start := i
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if !IsWordRune(r) {
					break
				}
				i += size
			}
			toks = append(toks, Token{Text: text[start:i], Kind: Ident, Line: lineNo, Col: start, Len: i - start})
			continue
		}
		toks = append(toks, Token{Text: text[i : i+size], Kind: Operator, Line: lineNo, Col: i, Len: size})
		i += size
	}
	return toks
}

// Line returns the tokens of line n, or nil when out of range.
func (x *Index) Line(n int) []Token {
	if x == nil || n < 0 || n >= len(x.lines) {
		return nil
	}
	return x.lines[n]
}

// Len returns the number of indexed lines.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.lines)
}
