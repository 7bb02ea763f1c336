package srcmap

import "sort"

// Hit classifies the outcome of an exact trace.
type Hit uint8

const (
	// Miss: no segment starts at the queried column.
	Miss Hit = iota
	// HitNull: a null segment starts exactly there.
	HitNull
	// HitMapped: a mapped segment starts exactly there.
	HitMapped
)

func (h Hit) String() string {
	switch h {
	case HitNull:
		return "null"
	case HitMapped:
		return "mapped"
	default:
		return "miss"
	}
}

// At returns the segment that starts exactly at (line, col).
func (l Lines) At(line, col int) (Segment, Hit) {
	segs := l.Line(line)
	i := sort.Search(len(segs), func(i int) bool { return segs[i].GenCol >= col })
	if i < len(segs) && segs[i].GenCol == col {
		if segs[i].Mapped {
			return segs[i], HitMapped
		}
		return segs[i], HitNull
	}
	return Segment{}, Miss
}

// Before returns the last segment on line with GenCol < col.
func (l Lines) Before(line, col int) (Segment, bool) {
	segs := l.Line(line)
	i := sort.Search(len(segs), func(i int) bool { return segs[i].GenCol >= col })
	if i == 0 {
		return Segment{}, false
	}
	return segs[i-1], true
}

// Lookup resolves a generated position the way map consumers do: the
// segment covering col is the last one with GenCol <= col. A null segment
// covering col yields ok=false.
func (l Lines) Lookup(line, col int) (Segment, bool) {
	s, ok := l.Before(line, col+1)
	if !ok || !s.Mapped {
		return Segment{}, false
	}
	return s, true
}
