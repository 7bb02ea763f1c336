// Package anchor describes the spans of generated code the engine tries to
// map back to dialect source, and produces them.
//
// An Anchor is immutable once produced. Positions are zero-based line and
// byte column pairs over the generated text.
package anchor

import (
	"fmt"
	"sort"
)

// Kind is the semantic class of an anchor.
type Kind uint8

const (
	Identifier Kind = iota
	StringLiteral
	NumberLiteral
	Operator
	Keyword
	// InterpOpen is `${` in generated code; `${` or `#{` in the dialect.
	InterpOpen
	// InterpClose is the `}` ending an interpolation hole.
	InterpClose
	// InterpExpr marks the first character of a hole expression.
	InterpExpr
	// Quote is a single string delimiter character.
	Quote
)

var kindNames = [...]string{
	Identifier:    "identifier",
	StringLiteral: "stringLiteral",
	NumberLiteral: "numericLiteral",
	Operator:      "operator",
	Keyword:       "keyword",
	InterpOpen:    "interpolationOpen",
	InterpClose:   "interpolationClose",
	InterpExpr:    "interpolationExpr",
	Quote:         "quote",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("anchor: unknown kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	// старое имя из внешних обходчиков
	if s == "numberLiteral" {
		*k = NumberLiteral
		return nil
	}
	return fmt.Errorf("anchor: unknown kind %q", s)
}

// Score ranks kinds when two anchors overlap; the higher one survives.
func (k Kind) Score() int {
	switch k {
	case Identifier:
		return 5
	case StringLiteral, NumberLiteral, Quote:
		return 4
	case InterpOpen, InterpClose:
		return 3
	case InterpExpr:
		return 2
	case Keyword:
		return 1
	default:
		return 0
	}
}

// IdentLike reports whether the token index can serve the kind.
func (k Kind) IdentLike() bool {
	return k == Identifier || k == Keyword || k == NumberLiteral
}

// Pos is a zero-based position in generated text.
type Pos struct {
	Line int `json:"line"`
	Char int `json:"character"`
}

func (p Pos) Less(o Pos) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Char < o.Char
}

// Anchor is one mappable span of generated code.
type Anchor struct {
	Text  string `json:"text"`
	Start Pos    `json:"start"`
	End   Pos    `json:"end"`
	Kind  Kind   `json:"kind"`
	// InInterpolation is set for identifiers inside a template hole.
	InInterpolation bool `json:"inInterpolation,omitempty"`
	// AllowLiteral lets the locator match inside dialect string literals.
	AllowLiteral bool `json:"allowLiteral,omitempty"`
	// Synthetic marks anchors produced by macro fusion.
	Synthetic bool `json:"-"`
}

// Len returns the generated width on the start line.
func (a Anchor) Len() int {
	if a.End.Line != a.Start.Line {
		return 0
	}
	return a.End.Char - a.Start.Char
}

func (a Anchor) String() string {
	return fmt.Sprintf("%s %q %d:%d-%d:%d", a.Kind, a.Text, a.Start.Line, a.Start.Char, a.End.Line, a.End.Char)
}

// Source yields the ordered anchors of a piece of generated code.
type Source interface {
	Anchors(code string) ([]Anchor, error)
}

// Dedupe sorts anchors by start and resolves overlaps: of two overlapping
// anchors the one with the higher Kind.Score survives, ties keep the
// earlier (longer) one.
func Dedupe(anchors []Anchor) []Anchor {
	if len(anchors) == 0 {
		return nil
	}
	sorted := append([]Anchor(nil), anchors...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start.Less(b.Start)
		}
		// при равном старте длинный идёт первым
		return b.End.Less(a.End)
	})

	out := make([]Anchor, 0, len(sorted))
	last := sorted[0]
	for _, cur := range sorted[1:] {
		overlap := cur.Start.Less(last.End) && last.Start.Less(cur.End)
		if !overlap {
			out = append(out, last)
			last = cur
			continue
		}
		if cur.Kind.Score() > last.Kind.Score() {
			last = cur
		}
	}
	return append(out, last)
}

// ByLine groups anchors by start line, preserving order. The result has
// at least lines entries.
func ByLine(anchors []Anchor, lines int) [][]Anchor {
	n := lines
	for _, a := range anchors {
		if a.Start.Line >= n {
			n = a.Start.Line + 1
		}
	}
	out := make([][]Anchor, n)
	for _, a := range anchors {
		if a.Start.Line < 0 {
			continue
		}
		out[a.Start.Line] = append(out[a.Start.Line], a)
	}
	return out
}
