package lexer

import (
	"remap/internal/token"
)

const utf8RuneSelf = 0x80

// identRun returns the byte length of the identifier character at the
// cursor, or 0. ASCII goes through the class table, the rest through
// unicode.
func (lx *Lexer) identRun(first bool) int {
	if lx.cursor.EOF() {
		return 0
	}
	if b := lx.cursor.Peek(); b < utf8RuneSelf {
		if (first && isIdentStartByte(b)) || (!first && isIdentContinueByte(b)) {
			return 1
		}
		return 0
	}
	r, sz := lx.peekRune()
	if sz == 0 {
		return 0
	}
	if (first && isIdentStartRune(r)) || (!first && isIdentContinueRune(r)) {
		return sz
	}
	return 0
}

// scanIdentOrKeyword: идентификатор или зарезервированное слово, Text -
// ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	n := lx.identRun(true)
	if n == 0 {
		if lx.cursor.EOF() {
			return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start)}
		}
		// не буква: пусть разбирается как оператор (там же и репорт)
		return lx.scanOperatorOrPunct()
	}
	for ; n > 0; n = lx.identRun(false) {
		lx.cursor.BumpN(n)
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	kind := token.Ident
	if token.IsKeyword(text) {
		kind = token.Keyword
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}
