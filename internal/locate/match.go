package locate

import (
	"strings"

	"remap/internal/anchor"
	"remap/internal/tokindex"
)

// span is a candidate match on one line.
type span struct {
	col int
	len int
}

// forbiddenPairs are two-character operators a lone one-character match
// must not be cut out of.
var forbiddenPairs = map[string]bool{
	"=>": true, "=<": true,
	"==": true, "!=": true, ">=": true, "<=": true,
	"??": true, "&&": true, "||": true, "::": true, "->": true,
}

func isQuoteByte(b byte) bool { return b == '"' || b == '\'' || b == '`' }

// byIndex scans the token index of line for identifier-like anchors.
func (l *Locator) byIndex(a anchor.Anchor, line int, allowLit bool) []span {
	info := l.doc.info(line)
	var out []span
	for _, t := range l.doc.Tokens.Line(line) {
		if t.Kind != tokindex.Ident || t.Text != a.Text {
			continue
		}
		if !allowLit && info.InLiteral(t.Col) {
			continue
		}
		if a.InInterpolation {
			if !info.InInterp(t.Col) {
				continue
			}
		} else if info.HasInterps() && info.InInterp(t.Col) {
			continue
		}
		out = append(out, span{t.Col, t.Len})
	}
	return out
}

// byText scans the raw line text with kind-specific rules.
func (l *Locator) byText(a anchor.Anchor, search string, line int, allowLit bool) []span {
	text := l.doc.Line(line)
	if text == "" {
		return nil
	}
	info := l.doc.info(line)
	allowInside := allowLit || a.Kind == anchor.InterpOpen || a.Kind == anchor.InterpClose
	reg := l.doc.Aliases

	keywordAlias := ""
	if a.Kind == anchor.Keyword {
		if sp := reg.Spellings(a.Text); len(sp) > 0 {
			keywordAlias = sp[0]
		}
	}

	switch {
	case a.Kind == anchor.Identifier || a.Kind == anchor.NumberLiteral ||
		(a.Kind == anchor.Keyword && keywordAlias == ""):
		return l.words(a, search, line, allowInside)

	case a.Kind == anchor.Operator || keywordAlias != "":
		var cands []string
		if keywordAlias != "" {
			cands = append(cands, keywordAlias)
		}
		if a.Kind == anchor.Operator {
			cands = append(cands, reg.Spellings(a.Text)...)
			cands = append(cands, a.Text)
		}
		return operators(text, info.InLiteral, uniqueTrimmed(cands), allowInside)

	case a.Kind == anchor.Quote:
		cands := append(append([]string(nil), reg.QuoteSpellings(a.Text)...), a.Text)
		var out []span
		for _, c := range cands {
			for _, pos := range indexAll(text, c) {
				out = append(out, span{pos, len(c)})
			}
		}
		return out

	case a.Kind == anchor.InterpOpen || a.Kind == anchor.InterpClose:
		var out []span
		for _, tok := range l.interp.Line(text) {
			if a.Kind == anchor.InterpOpen && tok.Open {
				if a.Text != tok.Text && a.Text != "${" {
					continue
				}
				out = append(out, span{tok.Pos, len(tok.Text)})
			} else if a.Kind == anchor.InterpClose && !tok.Open {
				out = append(out, span{tok.Pos, 1})
			}
		}
		return out

	case a.Kind == anchor.StringLiteral:
		var out []span
		for _, pos := range indexAll(text, search) {
			end := pos + len(search)
			quoted := (pos > 0 && isQuoteByte(text[pos-1])) || (end < len(text) && isQuoteByte(text[end]))
			if quoted && (allowInside || info.InLiteral(pos)) {
				out = append(out, span{pos, len(search)})
			}
		}
		return out

	default:
		var out []span
		for _, pos := range indexAll(text, search) {
			if allowInside || !info.InLiteral(pos) {
				out = append(out, span{pos, len(search)})
			}
		}
		return out
	}
}

// words finds search on word boundaries, outside literals, comments and
// strings, honouring the interpolation rule.
func (l *Locator) words(a anchor.Anchor, search string, line int, allowInside bool) []span {
	text := l.doc.Line(line)
	info := l.doc.info(line)
	var out []span
	for _, pos := range indexAll(text, search) {
		end := pos + len(search)
		if isWordBefore(text, pos) || isWordAt(text, end) {
			continue
		}
		if !allowInside && info.InLiteral(pos) {
			continue
		}
		if l.doc.Masks.InComment(line, pos) || l.doc.Masks.InString(line, pos) {
			continue
		}
		if a.InInterpolation && info.HasInterps() && !info.InInterp(pos) {
			continue
		}
		out = append(out, span{pos, len(search)})
	}
	return out
}

// operators matches operator spellings. A one-character candidate is
// rejected when it is part of a longer operator at that position.
func operators(text string, inLiteral func(int) bool, cands []string, allowInside bool) []span {
	var out []span
	for _, c := range cands {
		punctMulti := len(c) >= 2 && punctOnly(c)
		unary := c == "-" || c == "+"
		for pos := 0; pos <= len(text)-len(c); {
			i := strings.Index(text[pos:], c)
			if i == -1 {
				break
			}
			pos += i
			if len(c) == 1 {
				var prev, next byte
				if pos > 0 {
					prev = text[pos-1]
				}
				if pos+1 < len(text) {
					next = text[pos+1]
				}
				if prev == c[0] || next == c[0] ||
					forbiddenPairs[string([]byte{prev, c[0]})] || forbiddenPairs[string([]byte{c[0], next})] {
					pos++
					continue
				}
			}
			leftOK := !isWordBefore(text, pos)
			rightOK := punctMulti || unary || !isWordAt(text, pos+len(c))
			if c == "." {
				leftOK, rightOK = true, true
			}
			if leftOK && rightOK && (allowInside || !inLiteral(pos)) {
				out = append(out, span{pos, len(c)})
			}
			pos += max(1, len(c))
		}
	}
	return out
}

// punctOnly: no letters, digits, `_` or `$`.
func punctOnly(s string) bool {
	for _, r := range s {
		if tokindex.IsWordRune(r) {
			return false
		}
	}
	return true
}

func uniqueTrimmed(cands []string) []string {
	out := cands[:0:0]
	for _, c := range cands {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		dup := false
		for _, o := range out {
			if o == c {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// indexAll returns every (possibly overlapping) start of sub in s.
func indexAll(s, sub string) []int {
	if sub == "" {
		return nil
	}
	var out []int
	for pos := 0; pos <= len(s)-len(sub); {
		i := strings.Index(s[pos:], sub)
		if i == -1 {
			break
		}
		out = append(out, pos+i)
		pos += i + 1
	}
	return out
}

// isRiskyPunct reports single-character operators too ambiguous to relocate across lines.
func isRiskyPunct(a anchor.Anchor) bool {
	return a.Kind == anchor.Operator && len(a.Text) == 1 && strings.ContainsAny(a.Text, ".,;:!&|-+*%<>?=")
}
