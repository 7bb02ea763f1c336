// Package srcmap models version 3 source maps: segments, per-line segment
// tables, the JSON envelope and position lookups.
package srcmap

import "fmt"

// NoName marks a segment without a names-table entry.
const NoName = -1

// Segment is one mapping entry on a generated line. A segment is either null
// (only GenCol is meaningful: "this column has no source counterpart") or
// mapped to a zero-based source position.
type Segment struct {
	GenCol  int
	Mapped  bool
	Source  int
	SrcLine int
	SrcCol  int
	Name    int
}

// Null builds a null segment at genCol.
func Null(genCol int) Segment {
	return Segment{GenCol: genCol, Name: NoName}
}

// Mapped builds a segment pointing at source 0, line/col.
func Mapped(genCol, srcLine, srcCol int) Segment {
	return Segment{GenCol: genCol, Mapped: true, SrcLine: srcLine, SrcCol: srcCol, Name: NoName}
}

// WithName returns a copy carrying names-table index idx.
func (s Segment) WithName(idx int) Segment {
	s.Name = idx
	return s
}

// HasName reports whether the segment references the names table.
func (s Segment) HasName() bool { return s.Mapped && s.Name >= 0 }

// Fields returns the raw array shape: [gen] or [gen, src, line, col(, name)].
func (s Segment) Fields() []int {
	if !s.Mapped {
		return []int{s.GenCol}
	}
	if s.HasName() {
		return []int{s.GenCol, s.Source, s.SrcLine, s.SrcCol, s.Name}
	}
	return []int{s.GenCol, s.Source, s.SrcLine, s.SrcCol}
}

// FromFields parses the raw array shape. Two- and three-field arrays are
// invalid per the v3 format.
func FromFields(f []int) (Segment, error) {
	switch len(f) {
	case 1:
		return Null(f[0]), nil
	case 4:
		return Segment{GenCol: f[0], Mapped: true, Source: f[1], SrcLine: f[2], SrcCol: f[3], Name: NoName}, nil
	case 5:
		return Segment{GenCol: f[0], Mapped: true, Source: f[1], SrcLine: f[2], SrcCol: f[3], Name: f[4]}, nil
	default:
		return Segment{}, fmt.Errorf("segment has %d fields (want 1, 4 or 5)", len(f))
	}
}

func (s Segment) String() string {
	if !s.Mapped {
		return fmt.Sprintf("[%d]", s.GenCol)
	}
	if s.HasName() {
		return fmt.Sprintf("[%d,%d,%d,%d,%d]", s.GenCol, s.Source, s.SrcLine, s.SrcCol, s.Name)
	}
	return fmt.Sprintf("[%d,%d,%d,%d]", s.GenCol, s.Source, s.SrcLine, s.SrcCol)
}
