package literal

import (
	"remap/internal/bitset"
)

// Masks marks, per line, the columns inside comments and inside string
// literals. Unlike Scan it carries state across lines, so block comments and
// multi-line template literals are covered. Interpolation expressions inside
// strings are code, not string.
type Masks struct {
	comment []*bitset.Set
	str     []*bitset.Set
}

// frame is one level of string/interpolation nesting; quote == 0 means code
// inside an interpolation hole.
type frame struct {
	quote byte
	depth int
}

// BuildMasks scans lines once, top to bottom.
func BuildMasks(lines []string) *Masks {
	m := &Masks{
		comment: make([]*bitset.Set, len(lines)),
		str:     make([]*bitset.Set, len(lines)),
	}
	inBlock := false
	var stack []frame

	for ln, line := range lines {
		cm := bitset.New(len(line))
		sm := bitset.New(len(line))
		m.comment[ln] = cm
		m.str[ln] = sm

		for col := 0; col < len(line); col++ {
			ch := line[col]
			var next byte
			if col+1 < len(line) {
				next = line[col+1]
			}

			if inBlock {
				cm.Add(col)
				if ch == '*' && next == '/' {
					cm.Add(col + 1)
					inBlock = false
					col++
				}
				continue
			}

			if n := len(stack); n > 0 && stack[n-1].quote != 0 {
				top := stack[n-1]
				sm.Add(col)
				switch {
				case ch == '\\':
					if col+1 < len(line) {
						sm.Add(col + 1)
						col++
					}
				case interpolates(top.quote) && isInterpOpen(line, col):
					sm.Add(col + 1)
					stack = append(stack, frame{depth: 1})
					col++
				case ch == top.quote:
					stack = stack[:n-1]
				}
				continue
			}

			// code: top level or inside an interpolation hole
			switch {
			case ch == '/' && next == '/':
				cm.AddRange(col, len(line))
				col = len(line)
			case ch == '/' && next == '*':
				cm.Add(col)
				cm.Add(col + 1)
				inBlock = true
				col++
			case ch == '#' && next != '{' && len(stack) == 0 && leadingOnly(line, col):
				cm.AddRange(col, len(line))
				col = len(line)
			case isQuote(ch):
				stack = append(stack, frame{quote: ch})
				sm.Add(col)
			case len(stack) > 0 && ch == '{':
				stack[len(stack)-1].depth++
			case len(stack) > 0 && ch == '}':
				top := &stack[len(stack)-1]
				top.depth--
				if top.depth == 0 {
					stack = stack[:len(stack)-1]
					sm.Add(col)
				}
			}
		}
	}
	return m
}

func leadingOnly(line string, col int) bool {
	for i := 0; i < col; i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return false
		}
	}
	return true
}

// InComment reports whether (line, col) lies inside a comment.
func (m *Masks) InComment(line, col int) bool {
	if m == nil || line < 0 || line >= len(m.comment) {
		return false
	}
	return m.comment[line].Has(col)
}

// InString reports whether (line, col) lies inside a string literal,
// delimiters included.
func (m *Masks) InString(line, col int) bool {
	if m == nil || line < 0 || line >= len(m.str) {
		return false
	}
	return m.str[line].Has(col)
}
