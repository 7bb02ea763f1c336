package lexer

import (
	"remap/internal/token"
)

// Поддержка: 0, 123, 0b..., 0o..., 0x..., 1.5, .5, 1e-3, 1_000, 10n.
// Неверные формы: репорт в opts.Reporter, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	// ведущая точка: значит формат ".digits"
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.eatDigits(isDec)
		return lx.finishNumber(start, true)
	}

	// ведущий 0 и база?
	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'b', 'B':
			lx.cursor.Bump()
			lx.eatDigits(func(b byte) bool { return b == '0' || b == '1' })
			return lx.finishNumber(start, false)
		case 'o', 'O':
			lx.cursor.Bump()
			lx.eatDigits(func(b byte) bool { return b >= '0' && b <= '7' })
			return lx.finishNumber(start, false)
		case 'x', 'X':
			lx.cursor.Bump()
			lx.eatDigits(isHex)
			return lx.finishNumber(start, false)
		}
	}

	lx.eatDigits(isDec)

	// дробная часть; "1..toString()": вторая точка уже не наша
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.eatDigits(isDec)
	}
	return lx.finishNumber(start, true)
}

func (lx *Lexer) eatDigits(ok func(byte) bool) {
	for {
		b := lx.cursor.Peek()
		if lx.cursor.EOF() || !(ok(b) || b == '_') {
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) finishNumber(start Mark, allowExp bool) token.Token {
	if allowExp && (lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E') {
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex("BadNumber", sp, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.eatDigits(isDec)
	}
	// bigint
	lx.cursor.Eat('n')
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.NumberLit, Span: sp, Text: lx.text(sp)}
}
