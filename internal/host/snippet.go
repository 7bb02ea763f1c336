package host

import (
	"strings"
)

// Snippet is the dialect code of one script, as handed to the compiler.
type Snippet struct {
	Script Script
	// Code is the content without leading blank lines, trailing whitespace
	// or common indentation.
	Code string
	// Indent is the common indentation removed from every code line.
	Indent string
	// Line is the document line (0-based) holding the first line of Code.
	Line int
	// Lines counts the lines of the raw content, partial first and last
	// lines included.
	Lines int
}

// Prepare cuts the snippet of s out of doc.
func Prepare(doc string, s Script) Snippet {
	content := s.Content(doc)
	trimmed := trimLeadingBlankLines(strings.TrimRightFunc(content, isSpaceRune))
	code, indent := Dedent(trimmed)
	return Snippet{
		Script: s,
		Code:   code,
		Indent: indent,
		Line:   firstCodeLine(doc, s.Start),
		Lines:  strings.Count(content, "\n") + 1,
	}
}

// Dedent strips the indentation common to all non-blank lines. Lines that
// do not start with exactly that indentation are kept as they are.
func Dedent(text string) (string, string) {
	lines := strings.Split(text, "\n")
	width := -1
	first := ""
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeftFunc(line, isSpaceRune))
		if width < 0 || n < width {
			width = n
		}
		if first == "" {
			first = line
		}
	}
	if width <= 0 {
		return text, ""
	}
	indent := first[:width]
	for i, line := range lines {
		if strings.TrimSpace(line) != "" && strings.HasPrefix(line, indent) {
			lines[i] = line[width:]
		}
	}
	return strings.Join(lines, "\n"), indent
}

func trimLeadingBlankLines(s string) string {
	for {
		nl := strings.IndexAny(s, "\r\n")
		if nl < 0 || strings.Trim(s[:nl], " \t") != "" {
			return s
		}
		s = s[nl+1:]
	}
}

// firstCodeLine returns the 0-based line of the first non-space byte at or
// after off, or the line of off when only whitespace follows.
func firstCodeLine(doc string, off int) int {
	i := off
	for i < len(doc) && isSpaceByte(doc[i]) {
		i++
	}
	if i >= len(doc) {
		i = off
	}
	return strings.Count(doc[:i], "\n")
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isSpaceRune(r rune) bool {
	return r < 0x80 && isSpaceByte(byte(r))
}
