// Package lexer tokenizes generated (TypeScript-like) code for the anchor
// collector. It is a flat scanner: no parsing, but it tracks template
// literal holes and guesses regex literals from the previous token.
package lexer

import (
	"remap/internal/source"
	"remap/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
	// holes хранит глубину фигурных скобок внутри каждой открытой `${`
	holes []int
	prev  token.Token
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		if len(lx.holes) > 0 {
			lx.errLex("UnterminatedTemplate", lx.emptySpan(), "unterminated template literal")
			lx.holes = lx.holes[:0]
		}
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case ch >= utf8RuneSelf:
		// возможный Unicode идентификатор, scanIdentOrKeyword разберётся
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"' || ch == '\'':
		tok = lx.scanString(ch)

	case ch == '`':
		tok = lx.scanTemplate(false)

	case ch == '}' && lx.closesHole():
		lx.holes = lx.holes[:len(lx.holes)-1]
		tok = lx.scanTemplate(true)

	case ch == '/' && lx.regexAllowed():
		tok = lx.scanRegex()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	lx.prev = tok
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer up to and excluding EOF.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		if t.Kind == token.EOF {
			return out
		}
		out = append(out, t)
	}
}

// InHole reports whether the lexer is currently inside an interpolation hole.
func (lx *Lexer) InHole() bool { return len(lx.holes) > 0 }

func (lx *Lexer) closesHole() bool {
	n := len(lx.holes)
	return n > 0 && lx.holes[n-1] == 0
}

// regexAllowed: `/` starts a regex unless the previous token ends an
// expression (identifier, literal, closing bracket).
func (lx *Lexer) regexAllowed() bool {
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '/' && (b1 == '/' || b1 == '*') {
		return false
	}
	switch lx.prev.Kind {
	case token.Ident, token.NumberLit, token.StringLit, token.RegexLit,
		token.NoSubstTemplate, token.TemplateTail:
		return false
	case token.Keyword:
		return lx.prev.Text != "this" && lx.prev.Text != "super" &&
			lx.prev.Text != "true" && lx.prev.Text != "false" && lx.prev.Text != "null"
	case token.Punct:
		switch lx.prev.Text {
		case ")", "]", "}", "++", "--":
			return false
		}
	}
	return true
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
