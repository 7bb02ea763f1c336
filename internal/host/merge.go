package host

import (
	"strings"

	"remap/internal/chain"
	"remap/internal/source"
	"remap/internal/srcmap"
)

// Part is one snippet together with what the dialect compiler made of it.
// A part without Map is left in the document untouched.
type Part struct {
	Snippet Snippet
	Code    string
	Map     srcmap.Lines
	Names   []string
}

// Merged is the host document with every compiled part spliced in.
type Merged struct {
	Text   string
	Blocks []chain.Block
	// Roles holds the role of every block, in block order.
	Roles []Role
	// Kept lists the indexes of parts left verbatim.
	Kept []int
}

// Merge replaces the content of every mapped part with its compiled code,
// indented like the snippet was, and rewrites the lang attribute to target.
// Parts must be in document order.
func Merge(doc string, parts []Part, target string) *Merged {
	var (
		b      strings.Builder
		m      = &Merged{}
		last   int
		start  = make([]int, 0, len(parts))
		langAt = make([]int, 0, len(parts)) // offset after the new lang value, -1 for none
	)
	b.Grow(len(doc))

	for i, p := range parts {
		s := p.Snippet.Script
		if p.Map == nil || s.Start < last {
			m.Kept = append(m.Kept, i)
			continue
		}
		lang := -1
		if s.LangStart >= 0 {
			b.WriteString(doc[last:s.LangStart])
			b.WriteString(target)
			lang = b.Len()
			b.WriteString(doc[s.LangEnd:s.Start])
		} else {
			b.WriteString(doc[last:s.Start])
		}

		body := reindent(p.Code, p.Snippet.Indent)
		at := b.Len()
		b.WriteString(body)
		last = s.End

		indent := len(p.Snippet.Indent)
		m.Blocks = append(m.Blocks, chain.Block{
			Start:         at + 1 + indent,
			End:           at + len(body),
			SourceLines:   p.Snippet.Lines,
			CompiledLines: strings.Count(body, "\n") + 1,
			Indent:        chain.Indent{Common: indent},
			Origin:        chain.Origin{Line: p.Snippet.Line, Col: indent},
			Map:           p.Map,
			Names:         p.Names,
		})
		m.Roles = append(m.Roles, s.Role)
		start = append(start, at)
		if shift := (s.LangEnd - s.LangStart) - len(target); lang >= 0 && shift != 0 {
			langAt = append(langAt, lang)
			m.Blocks[len(m.Blocks)-1].Rewrite.Shift = shift
		} else {
			langAt = append(langAt, -1)
		}
	}
	b.WriteString(doc[last:])
	m.Text = b.String()

	f := source.NewFile("merged", []byte(m.Text), source.FileVirtual)
	for i := range m.Blocks {
		// the body opens with a newline: code starts on the next line
		line, _ := f.Position(start[i])
		m.Blocks[i].StartLine = line + 1
		if langAt[i] >= 0 {
			rw := &m.Blocks[i].Rewrite
			rw.Line, rw.Col = f.Position(langAt[i])
		}
	}
	return m
}

// reindent puts the compiled code on its own lines, every line prefixed by
// indent.
func reindent(code, indent string) string {
	code = strings.TrimRight(code, "\r\n")
	lines := strings.Split(code, "\n")
	var b strings.Builder
	b.WriteByte('\n')
	for _, line := range lines {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
