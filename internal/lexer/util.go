package lexer

import (
	"unicode"
	"unicode/utf8"
)

// byte classes of the generated language, ASCII only
const (
	clsIdentStart uint8 = 1 << iota
	clsDigit
	clsHex
)

var byteClass = func() (t [utf8.RuneSelf]uint8) {
	for b := 'a'; b <= 'z'; b++ {
		t[b] |= clsIdentStart
	}
	for b := 'A'; b <= 'Z'; b++ {
		t[b] |= clsIdentStart
	}
	t['_'] |= clsIdentStart
	t['$'] |= clsIdentStart
	for b := '0'; b <= '9'; b++ {
		t[b] |= clsDigit | clsHex
	}
	for _, b := range "abcdefABCDEF" {
		t[b] |= clsHex
	}
	return t
}()

func hasClass(b byte, cls uint8) bool {
	return b < utf8.RuneSelf && byteClass[b]&cls != 0
}

func isIdentStartByte(b byte) bool    { return hasClass(b, clsIdentStart) }
func isIdentContinueByte(b byte) bool { return hasClass(b, clsIdentStart|clsDigit) }
func isDec(b byte) bool               { return hasClass(b, clsDigit) }
func isHex(b byte) bool               { return hasClass(b, clsHex) }

// Non-ASCII identifiers: any letter starts one, letters and digits continue.
func isIdentStartRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r)
}

// peekRune decodes the rune at the cursor; size 0 at EOF.
func (lx *Lexer) peekRune() (rune, int) {
	c := &lx.cursor
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.Peek(); b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
}

// bumpRune advances over one rune, or one byte of invalid UTF-8.
func (lx *Lexer) bumpRune() {
	_, size := lx.peekRune()
	lx.cursor.BumpN(size)
}

// isNumberAfterDot: ".5" starts a number, "." followed by anything else does not.
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}
