package srcmap

import (
	"fmt"
	"slices"
	"strings"

	"remap/internal/vlq"
)

// Lines is a decoded mappings table: one segment slice per generated line.
type Lines [][]Segment

// FromRaw converts the compiler's `lines: number[][][]` table.
func FromRaw(raw [][][]int) (Lines, error) {
	out := make(Lines, len(raw))
	for i, line := range raw {
		segs := make([]Segment, 0, len(line))
		for j, f := range line {
			s, err := FromFields(f)
			if err != nil {
				return nil, fmt.Errorf("line %d segment %d: %w", i, j, err)
			}
			segs = append(segs, s)
		}
		out[i] = segs
	}
	return out, nil
}

// Raw converts back to the array-of-arrays shape.
func (l Lines) Raw() [][][]int {
	out := make([][][]int, len(l))
	for i, line := range l {
		out[i] = make([][]int, len(line))
		for j, s := range line {
			out[i][j] = s.Fields()
		}
	}
	return out
}

// Line returns segments of line n or nil when out of range.
func (l Lines) Line(n int) []Segment {
	if n < 0 || n >= len(l) {
		return nil
	}
	return l[n]
}

// Sorted reports whether every line is strictly ascending by GenCol.
func (l Lines) Sorted() bool {
	for _, line := range l {
		for i := 1; i < len(line); i++ {
			if line[i].GenCol <= line[i-1].GenCol {
				return false
			}
		}
	}
	return true
}

// Clone deep-copies the table.
func (l Lines) Clone() Lines {
	out := make(Lines, len(l))
	for i, line := range l {
		out[i] = slices.Clone(line)
	}
	return out
}

// Encode produces the VLQ `mappings` string. Every field except the
// generated column is delta-encoded across the whole map; the generated
// column resets on each line.
func (l Lines) Encode() string {
	var b strings.Builder
	var src, line, col, name int
	for i, segs := range l {
		if i > 0 {
			b.WriteByte(';')
		}
		genCol := 0
		for j, s := range segs {
			if j > 0 {
				b.WriteByte(',')
			}
			vlq.Append(&b, s.GenCol-genCol)
			genCol = s.GenCol
			if !s.Mapped {
				continue
			}
			vlq.Append(&b, s.Source-src)
			src = s.Source
			vlq.Append(&b, s.SrcLine-line)
			line = s.SrcLine
			vlq.Append(&b, s.SrcCol-col)
			col = s.SrcCol
			if s.HasName() {
				vlq.Append(&b, s.Name-name)
				name = s.Name
			}
		}
	}
	return b.String()
}

// Decode parses a `mappings` string. The result has one entry per `;`
// separated group, so an empty mappings string decodes to a single empty line.
func Decode(mappings string) (Lines, error) {
	groups := strings.Split(mappings, ";")
	out := make(Lines, len(groups))
	var src, line, col, name int
	for i, group := range groups {
		genCol := 0
		if group == "" {
			out[i] = []Segment{}
			continue
		}
		parts := strings.Split(group, ",")
		segs := make([]Segment, 0, len(parts))
		for j, part := range parts {
			if part == "" {
				continue
			}
			f, err := vlq.Decode(part)
			if err != nil {
				return nil, fmt.Errorf("line %d segment %d: %w", i, j, err)
			}
			switch len(f) {
			case 1:
				genCol += f[0]
				segs = append(segs, Null(genCol))
			case 4, 5:
				genCol += f[0]
				src += f[1]
				line += f[2]
				col += f[3]
				s := Segment{GenCol: genCol, Mapped: true, Source: src, SrcLine: line, SrcCol: col, Name: NoName}
				if len(f) == 5 {
					name += f[4]
					s.Name = name
				}
				segs = append(segs, s)
			default:
				return nil, fmt.Errorf("line %d segment %d: %d fields", i, j, len(f))
			}
		}
		out[i] = segs
	}
	return out, nil
}
