// Package literal classifies bytes of dialect source lines as string
// literal, interpolation hole or comment.
package literal

// Range is an inclusive byte range within one line.
type Range struct {
	Start int
	End   int // включительно
}

// Contains reports whether col lies in r.
func (r Range) Contains(col int) bool {
	return col >= r.Start && col <= r.End
}

// Len returns the number of bytes covered.
func (r Range) Len() int { return r.End - r.Start + 1 }

func appendRange(rs []Range, start, end int) []Range {
	if end >= start {
		rs = append(rs, Range{Start: start, End: end})
	}
	return rs
}

func inside(col int, rs []Range) bool {
	for _, r := range rs {
		if r.Contains(col) {
			return true
		}
	}
	return false
}

// Info is the scan result for one line.
type Info struct {
	// Literals covers quote characters, literal text and whole `${...}` holes.
	Literals []Range
	// Interps covers the expression text inside interpolation holes,
	// including the closing brace.
	Interps []Range
	// Comments covers `//` and line-leading `#` comments through end of line.
	Comments []Range
}

// InLiteral reports whether col is inside a string/template literal or a comment.
func (i Info) InLiteral(col int) bool {
	return inside(col, i.Literals) || inside(col, i.Comments)
}

// InInterp reports whether col is inside an interpolation expression.
func (i Info) InInterp(col int) bool { return inside(col, i.Interps) }

// InComment reports whether col is inside a line comment.
func (i Info) InComment(col int) bool { return inside(col, i.Comments) }

// HasInterps reports whether the line carries any interpolation.
func (i Info) HasInterps() bool { return len(i.Interps) > 0 }
