// Package locate finds the dialect source position of a generated-code
// anchor.
//
// Search order for one anchor: token index on the guessed line, text scan
// on the same line, neighbouring lines, other candidate lines from the
// coarse map, object-key salvage. A hit inside a comment (or inside a
// string, for kinds that may not live there) is discarded.
package locate

import (
	"unicode/utf8"

	"remap/internal/alias"
	"remap/internal/literal"
	"remap/internal/tokindex"
)

// Doc is the read-only view of one dialect snippet shared by every lookup
// of a build.
type Doc struct {
	Lines   []string
	Info    []literal.Info
	Masks   *literal.Masks
	Tokens  *tokindex.Index
	Aliases *alias.Registry
	words   map[string]struct{}
}

// NewDoc scans and indexes lines. scanner and aliases may be nil.
func NewDoc(lines []string, scanner *literal.Scanner, aliases *alias.Registry) *Doc {
	if aliases == nil {
		aliases = alias.Default()
	}
	d := &Doc{
		Lines:   lines,
		Info:    scanner.Lines(lines),
		Masks:   literal.BuildMasks(lines),
		Tokens:  tokindex.Build(lines),
		Aliases: aliases,
		words:   make(map[string]struct{}),
	}
	for n := 0; n < d.Tokens.Len(); n++ {
		for _, t := range d.Tokens.Line(n) {
			if t.Kind == tokindex.Ident {
				d.words[t.Text] = struct{}{}
			}
		}
	}
	return d
}

// Line returns line n or "".
func (d *Doc) Line(n int) string {
	if n < 0 || n >= len(d.Lines) {
		return ""
	}
	return d.Lines[n]
}

func (d *Doc) info(n int) literal.Info {
	if n < 0 || n >= len(d.Info) {
		return literal.Info{}
	}
	return d.Info[n]
}

// HasWord reports whether the identifier occurs anywhere in the snippet.
// Generated identifiers (compiler-injected names) are the ones that don't.
func (d *Doc) HasWord(w string) bool {
	_, ok := d.words[w]
	return ok
}

// FirstCode returns the first column of line n that is neither whitespace
// nor inside a literal, or -1.
func (d *Doc) FirstCode(n int) int {
	text := d.Line(n)
	info := d.info(n)
	for col := 0; col < len(text); {
		r, size := utf8.DecodeRuneInString(text[col:])
		if r != ' ' && r != '\t' && r != '\r' && r != '\f' && r != '\v' && !info.InLiteral(col) {
			return col
		}
		col += size
	}
	return -1
}

func isWordBefore(s string, pos int) bool {
	if pos <= 0 || pos > len(s) {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return tokindex.IsWordRune(r)
}

func isWordAt(s string, pos int) bool {
	if pos < 0 || pos >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return tokindex.IsWordRune(r)
}
