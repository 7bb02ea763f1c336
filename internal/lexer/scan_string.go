package lexer

import (
	"remap/internal/token"
)

// scanString: '...' или "..." с escape; перевод строки внутри: ошибка.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == quote {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
		if b == '\\' {
			// грубая обработка escape: съесть '\' и следующий байт
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		}
		if b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex("UnterminatedString", sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex("UnterminatedString", sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanTemplate сканирует кусок шаблонной строки. resume=true означает, что
// курсор стоит на `}`, закрывающей дырку.
func (lx *Lexer) scanTemplate(resume bool) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '`' или '}'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		case b == '`':
			lx.cursor.Bump()
			kind := token.NoSubstTemplate
			if resume {
				kind = token.TemplateTail
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		case b == '$' && lx.cursor.HasPrefix("${"):
			lx.cursor.BumpN(2)
			lx.holes = append(lx.holes, 0)
			kind := token.TemplateHead
			if resume {
				kind = token.TemplateMiddle
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex("UnterminatedTemplate", sp, "unterminated template literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanRegex: /body/flags; классы [...] могут содержать '/'.
func (lx *Lexer) scanRegex() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	inClass := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		case b == '\n':
			// не регэксп: откатываемся к оператору деления
			lx.cursor.Reset(start)
			return lx.scanOperatorOrPunct()
		case b == '[':
			inClass = true
		case b == ']':
			inClass = false
		case b == '/' && !inClass:
			lx.cursor.Bump()
			for isIdentContinueByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.RegexLit, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	lx.cursor.Reset(start)
	return lx.scanOperatorOrPunct()
}
