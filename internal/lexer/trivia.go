package lexer

import (
	"bytes"

	"remap/internal/token"
)

// collectLeadingTrivia копит в lx.hold всё незначимое перед токеном:
// пробелы (' ', '\t', '\r') и переводы строк склеиваются в один элемент
// каждые, комментарии идут по одному. Незакрытый /* репортится и
// обрезается на EOF.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case isBlank(b):
			lx.skipWhile(isBlank)
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n':
			lx.skipWhile(func(b byte) bool { return b == '\n' })
			lx.pushTrivia(token.TriviaNewline, start)
		case b == '/' && lx.scanComment():
		default:
			return
		}
	}
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

func (lx *Lexer) skipWhile(pred func(byte) bool) {
	for !lx.cursor.EOF() && pred(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

// rest is the unread part of the cursor window.
func (lx *Lexer) rest() []byte {
	return lx.file.Content[lx.cursor.Off:lx.cursor.Limit]
}

// scanComment consumes //, /// or /* */ at the cursor. Anything else
// leaves the cursor alone and reports false: it is the '/' operator.
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	switch {
	case lx.cursor.HasPrefix("///"):
		lx.skipLine()
		lx.pushTrivia(token.TriviaDocLine, start)
	case lx.cursor.HasPrefix("//"):
		lx.skipLine()
		lx.pushTrivia(token.TriviaLineComment, start)
	case lx.cursor.HasPrefix("/*"):
		lx.cursor.BumpN(2)
		end := bytes.Index(lx.rest(), []byte("*/"))
		if end < 0 {
			lx.cursor.BumpN(len(lx.rest()))
			lx.errLex("UnterminatedComment", lx.cursor.SpanFrom(start), "unterminated block comment")
		} else {
			lx.cursor.BumpN(end + 2)
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
	default:
		return false
	}
	return true
}

// skipLine stops before the '\n'.
func (lx *Lexer) skipLine() {
	rest := lx.rest()
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		lx.cursor.BumpN(i)
		return
	}
	lx.cursor.BumpN(len(rest))
}
