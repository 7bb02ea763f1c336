package host

import (
	"fmt"
	"regexp"
	"strings"

	"remap/internal/diag"
	"remap/internal/source"
)

// highlightWidth is how many columns a translated compile error covers.
const highlightWidth = 4

// maxExpected caps the "Expected:" alternatives kept in a compiler message.
const maxExpected = 4

// CompileError is a dialect compiler failure at a byte offset of the
// dedented snippet.
type CompileError struct {
	Offset  int    `json:"offset" toml:"offset"`
	Message string `json:"message" toml:"message"`
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Position is a translated compile error: a 0-based document line and the
// highlighted column range [Col, EndCol).
type Position struct {
	Line   int
	Col    int
	EndCol int
}

// Locate translates a snippet offset into the document. An offset sitting on
// whitespace is moved back to the preceding code byte.
func Locate(doc string, sn Snippet, offset int) Position {
	code := sn.Code
	off := min(max(offset, 0), len(code))
	if off < len(code) && isSpaceByte(code[off]) {
		for off > 0 && isSpaceByte(code[off]) {
			off--
		}
	}

	relLine := strings.Count(code[:off], "\n")
	relCol := off - (strings.LastIndexByte(code[:off], '\n') + 1)

	line := sn.Line + relLine
	col := len(sn.Indent) + relCol

	text := lineAt(doc, line)
	end := min(col+highlightWidth, len(text))
	if end < col {
		end = col
	}
	if w := end - col; w < highlightWidth {
		col = max(0, col-(highlightWidth-w))
	}
	return Position{Line: line, Col: col, EndCol: end}
}

// Diagnose turns a compile failure of sn into a HostCompileError.
func Diagnose(f *source.File, sn Snippet, ce *CompileError) diag.Diagnostic {
	doc := string(f.Content)
	pos := Locate(doc, sn, ce.Offset)
	start := f.Offset(pos.Line, pos.Col)
	end := f.Offset(pos.Line, pos.EndCol)
	span := source.SpanOf(f.ID, start, end)
	return diag.NewError(diag.HostCompileError, span, TidyMessage(ce.Message, sn.Line))
}

var (
	headerRe  = regexp.MustCompile(`^(.*?:)(\d+)(:\d+)\s+`)
	trailerRe = regexp.MustCompile(`\s*ts\(-1\)\s*$`)
)

// TidyMessage shortens a compiler message: the "Expected:" list is cut to a
// few entries, the position header moves to its own paragraph and its line
// number is shifted by lineShift.
func TidyMessage(msg string, lineShift int) string {
	if at := strings.Index(msg, "Expected:"); at >= 0 {
		head := msg[:at+len("Expected:")]
		tail := strings.Split(msg[at+len("Expected:"):], "\n")

		found := len(tail)
		for i, l := range tail {
			if strings.HasPrefix(strings.TrimSpace(l), "Found:") {
				found = i
				break
			}
		}
		var expected []string
		for _, l := range tail[:found] {
			if strings.TrimSpace(l) != "" {
				expected = append(expected, l)
			}
		}
		var b strings.Builder
		b.WriteString(head)
		for i, l := range expected {
			if i == maxExpected {
				b.WriteString("\n\t…")
				break
			}
			b.WriteString("\n")
			b.WriteString(l)
		}
		for _, l := range tail[found:] {
			b.WriteString("\n")
			b.WriteString(l)
		}
		msg = b.String()
	}
	msg = trailerRe.ReplaceAllString(msg, "")
	return headerRe.ReplaceAllStringFunc(msg, func(h string) string {
		m := headerRe.FindStringSubmatch(h)
		var n int
		if _, err := fmt.Sscan(m[2], &n); err != nil {
			return h
		}
		return fmt.Sprintf("%s%d%s\n\n", m[1], n+lineShift, m[3])
	})
}

func lineAt(doc string, line int) string {
	for range line {
		nl := strings.IndexByte(doc, '\n')
		if nl < 0 {
			return ""
		}
		doc = doc[nl+1:]
	}
	if nl := strings.IndexByte(doc, '\n'); nl >= 0 {
		doc = doc[:nl]
	}
	return strings.TrimSuffix(doc, "\r")
}

