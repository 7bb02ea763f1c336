package lexer

import (
	"remap/internal/token"
)

// Жадность: сначала длинные операторы, затем короткие.
var punctByLen = [][]string{
	{">>>="},
	{"===", "!==", "**=", "...", "<<=", ">>=", ">>>", "&&=", "||=", "??="},
	{"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>"},
}

const singlePunct = "{}()[];,<>+-*/%&|^!~?:=.@#"

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func() token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Punct, Span: sp, Text: lx.text(sp)}
	}

	for _, group := range punctByLen {
		for _, op := range group {
			if !lx.cursor.HasPrefix(op) {
				continue
			}
			// "a?.5:b": это тернарник, а не optional chaining
			if op == "?." {
				if _, b1, ok := lx.peekAt(2); ok && isDec(b1) {
					continue
				}
			}
			lx.cursor.BumpN(len(op))
			return emit()
		}
	}

	ch := lx.cursor.Peek()
	for i := 0; i < len(singlePunct); i++ {
		if singlePunct[i] != ch {
			continue
		}
		lx.cursor.Bump()
		lx.trackBrace(ch)
		return emit()
	}

	// неизвестный символ
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex("UnknownChar", sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// peekAt returns the byte at offset k from the cursor.
func (lx *Lexer) peekAt(k int) (byte, byte, bool) {
	off := int(lx.cursor.Off) + k
	if off >= int(lx.cursor.Limit) {
		return 0, 0, false
	}
	return lx.file.Content[off-1], lx.file.Content[off], true
}

func (lx *Lexer) trackBrace(ch byte) {
	n := len(lx.holes)
	if n == 0 {
		return
	}
	switch ch {
	case '{':
		lx.holes[n-1]++
	case '}':
		if lx.holes[n-1] > 0 {
			lx.holes[n-1]--
		}
	}
}
