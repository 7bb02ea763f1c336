// Package host handles the document that embeds dialect blocks: it finds the
// `<script lang=...>` blocks, prepares the dedented snippets handed to the
// dialect compiler, splices the compiled code back in and translates
// compile errors into document positions.
package host

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Role tells the instance script apart from the module-level one.
type Role uint8

const (
	RoleInstance Role = iota
	RoleModule
)

func (r Role) String() string {
	if r == RoleModule {
		return "module"
	}
	return "instance"
}

// Script is one `<script>` element of the host document. Offsets are bytes.
type Script struct {
	Lang string
	Role Role
	// TagStart is the offset of `<script`.
	TagStart int
	// Start and End delimit the element content [Start, End).
	Start, End int
	// LangStart and LangEnd delimit the lang attribute value, -1 without one.
	LangStart, LangEnd int
}

// Content returns the raw element content.
func (s Script) Content(doc string) string {
	return doc[s.Start:s.End]
}

// ErrUnterminated is returned when a `<script>` is never closed.
var ErrUnterminated = errors.New("host: unterminated <script>")

// Scan lists every script element of doc in document order.
func Scan(doc string) ([]Script, error) {
	z := html.NewTokenizer(strings.NewReader(doc))
	var (
		out  []Script
		open *Script
		off  int
	)
	for {
		tt := z.Next()
		raw := z.Raw()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return out, err
			}
			if open != nil {
				return out, ErrUnterminated
			}
			return out, nil
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "script" {
				break
			}
			s := Script{TagStart: off, LangStart: -1, LangEnd: -1}
			readAttrs(z, hasAttr, &s)
			if from, to, ok := attrValue(raw, "lang"); ok {
				s.LangStart, s.LangEnd = off+from, off+to
			}
			s.Start = off + len(raw)
			open = &s
		case html.EndTagToken:
			if name, _ := z.TagName(); open != nil && string(name) == "script" {
				open.End = off
				out = append(out, *open)
				open = nil
			}
		}
		off += len(raw)
	}
}

// Extract returns the scripts written in lang.
func Extract(doc, lang string) ([]Script, error) {
	all, err := Scan(doc)
	var out []Script
	for _, s := range all {
		if s.Lang == lang {
			out = append(out, s)
		}
	}
	return out, err
}

func readAttrs(z *html.Tokenizer, more bool, s *Script) {
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		switch string(key) {
		case "lang":
			s.Lang = string(val)
		case "context":
			if string(val) == "module" {
				s.Role = RoleModule
			}
		case "module":
			s.Role = RoleModule
		}
	}
}

// attrValue finds the value of attribute name inside a raw start tag and
// returns its byte range without quotes.
func attrValue(raw []byte, name string) (int, int, bool) {
	lower := bytes.ToLower(raw)
	for from := 0; ; {
		at := bytes.Index(lower[from:], []byte(name))
		if at < 0 {
			return 0, 0, false
		}
		at += from
		from = at + len(name)
		if at == 0 || !isAttrSpace(raw[at-1]) {
			continue
		}
		j := from
		for j < len(raw) && isAttrSpace(raw[j]) {
			j++
		}
		if j >= len(raw) || raw[j] != '=' {
			continue
		}
		j++
		for j < len(raw) && isAttrSpace(raw[j]) {
			j++
		}
		if j >= len(raw) {
			return 0, 0, false
		}
		if q := raw[j]; q == '"' || q == '\'' {
			end := bytes.IndexByte(raw[j+1:], q)
			if end < 0 {
				return 0, 0, false
			}
			return j + 1, j + 1 + end, true
		}
		end := j
		for end < len(raw) && !isAttrSpace(raw[end]) && raw[end] != '>' && raw[end] != '/' {
			end++
		}
		return j, end, true
	}
}

func isAttrSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
