// Package dense builds a gap-free segment table for one compilation stage:
// generated code on one side, the dialect snippet it was compiled from on
// the other, a coarse line-level map in between.
//
// Per generated line the builder fuses macro anchors, runs the special
// construct pre-passes (object keys, interpolations, range dots), maps
// identifiers and fused macros, then everything else, and finally fills the
// gaps with null segments.
package dense

import (
	"context"
	"errors"
	"fmt"

	"remap/internal/alias"
	"remap/internal/anchor"
	"remap/internal/bitset"
	"remap/internal/claim"
	"remap/internal/literal"
	"remap/internal/locate"
	"remap/internal/srcmap"
	"remap/internal/trace"
)

// Input is everything one build reads. It is not modified.
type Input struct {
	// Generated holds the lines of the generated code.
	Generated []string
	// Anchors are the generated-code anchors of every line.
	Anchors []anchor.Anchor
	// Coarse is the line-granularity map from the dialect compiler.
	Coarse srcmap.Lines
	// Source holds the lines of the (dedented) dialect snippet.
	Source []string
	// LineOffset and ColOffset shift emitted source positions: the snippet
	// line 0 is LineOffset in the host document, and ColOffset is the
	// indentation removed before compiling.
	LineOffset int
	ColOffset  int
}

// Options tune one build. Caches are shared between builds and may be nil.
type Options struct {
	Lookahead int // < 0 selects locate.DefaultLookahead
	Aliases   *alias.Registry
	Literals  *literal.Scanner
	Interp    *locate.InterpScanner
}

// DefaultOptions returns options with the default look-ahead and no caches.
func DefaultOptions() Options {
	return Options{Lookahead: -1}
}

// Stats are the heuristic counters of one build.
type Stats struct {
	Lines   int `json:"lines"`
	Anchors int `json:"anchors"`
	Mapped  int `json:"mapped"`
	// Dropped counts anchors processed without a mapping.
	Dropped int `json:"dropped"`
	// Inserted counts lines rescued by fallback insertion.
	Inserted int `json:"inserted"`
	// Demoted counts lone column-0 segments turned into nulls.
	Demoted    int          `json:"demoted"`
	ObjectKeys int          `json:"object_keys"`
	Interps    int          `json:"interps"`
	Ranges     int          `json:"ranges"`
	Locate     locate.Stats `json:"locate"`
}

// FallbackTotal is the number of look-ahead steps across the build.
func (s Stats) FallbackTotal() int { return s.Locate.Fallback }

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Lines:      s.Lines + o.Lines,
		Anchors:    s.Anchors + o.Anchors,
		Mapped:     s.Mapped + o.Mapped,
		Dropped:    s.Dropped + o.Dropped,
		Inserted:   s.Inserted + o.Inserted,
		Demoted:    s.Demoted + o.Demoted,
		ObjectKeys: s.ObjectKeys + o.ObjectKeys,
		Interps:    s.Interps + o.Interps,
		Ranges:     s.Ranges + o.Ranges,
		Locate:     s.Locate.Add(o.Locate),
	}
}

// DropTotal is the number of anchors left unmapped.
func (s Stats) DropTotal() int { return s.Dropped }

func (s Stats) String() string {
	return fmt.Sprintf("anchors=%d mapped=%d dropped=%d fallbacks=%d inserted=%d demoted=%d",
		s.Anchors, s.Mapped, s.Dropped, s.Locate.Fallback, s.Inserted, s.Demoted)
}

// Result is a finished dense map.
type Result struct {
	Lines srcmap.Lines
	Names []string
	Stats Stats
}

// Map wraps the result into a version 3 map.
func (r *Result) Map(file, source, content string) *srcmap.Map {
	return srcmap.New(file, source, content, r.Names, r.Lines)
}

// ErrOffset is returned for negative line or column offsets.
var ErrOffset = errors.New("dense: negative source offset")

// builder holds the build-scoped state: the read-only document, lookup
// tables and the claims that persist across generated lines.
type builder struct {
	in      *Input
	doc     *locate.Doc
	loc     *locate.Locator
	aliases *alias.Registry
	tab     *tables
	claims  *claim.Set
	stats   Stats

	// per-build memo of the object-key pre-pass
	keys   map[keySlot]int
	braces map[int][]bool
}

// Build produces the dense map. Misses never fail a build: they become null
// segments and show up in Stats.
func Build(ctx context.Context, in Input, opts Options) (*Result, error) {
	if in.LineOffset < 0 || in.ColOffset < 0 {
		return nil, ErrOffset
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "dense")

	aliases := opts.Aliases
	if aliases == nil {
		aliases = alias.Default()
	}
	doc := locate.NewDoc(in.Source, opts.Literals, aliases)
	b := &builder{
		in:      &in,
		doc:     doc,
		loc:     locate.New(doc, opts.Interp, opts.Lookahead),
		aliases: aliases,
		tab:     buildTables(&in, doc),
		claims:  claim.New(),
		keys:    make(map[keySlot]int),
		braces:  make(map[int][]bool),
	}

	byLine := anchor.ByLine(in.Anchors, len(in.Generated))
	out := make(srcmap.Lines, len(in.Generated))
	for g := range in.Generated {
		out[g] = b.line(ctx, g, byLine[g])
	}
	b.stats.Lines = len(in.Generated)

	span.WithExtra("mapped", fmt.Sprint(b.stats.Mapped)).
		WithExtra("dropped", fmt.Sprint(b.stats.Dropped)).
		End(fmt.Sprintf("%d lines", len(in.Generated)))

	return &Result{Lines: out, Names: b.tab.names.Slice(), Stats: b.stats}, nil
}

// lineState is the working context of one generated line.
type lineState struct {
	idx     int
	text    string
	anchors []anchor.Anchor
	// done marks anchors already processed, mapped or dropped.
	done    []bool
	segs    [][]ranked
	genCols *bitset.Set
	occs    locate.Occurrences
	cands   []locate.Candidate
}

func (b *builder) line(ctx context.Context, g int, raw []anchor.Anchor) []srcmap.Segment {
	_, span := trace.Start(ctx, trace.ScopeLine, fmt.Sprintf("line:%d", g))
	defer span.End("")

	anchors := fuse(raw, b.aliases)
	ls := &lineState{
		idx:     g,
		text:    b.in.Generated[g],
		anchors: anchors,
		done:    make([]bool, len(anchors)),
		segs:    make([][]ranked, len(anchors)),
		genCols: bitset.New(len(b.in.Generated[g])),
		occs:    make(locate.Occurrences),
		cands:   b.tab.candidates(g),
	}
	b.stats.Anchors += len(anchors)

	b.objectKeys(ls)
	b.interpolations(ls)
	b.rangeDots(ls)

	for i, a := range ls.anchors {
		if !ls.done[i] && (a.Kind == anchor.Identifier || a.Synthetic) {
			b.mapAnchor(ls, i)
		}
	}
	for i := range ls.anchors {
		if !ls.done[i] {
			b.mapAnchor(ls, i)
		}
	}

	return b.finalize(ls, b.assemble(ls))
}

// srcPos converts a snippet position into the emitted source position.
func (b *builder) srcPos(line, col int) (int, int) {
	return b.in.LineOffset + line, b.in.ColOffset + col
}

// record stores the start segment (named for identifiers) and, for single
// line anchors, the end segment of an accepted mapping.
func (b *builder) record(ls *lineState, i, line, col, length int, withEnd bool) {
	a := ls.anchors[i]
	srcLine, srcCol := b.srcPos(line, col)
	start := srcmap.Mapped(a.Start.Char, srcLine, srcCol)
	if a.Kind == anchor.Identifier {
		if id, ok := b.tab.names.Index(a.Text); ok {
			start = start.WithName(id)
		}
	}
	segs := []ranked{{Segment: start, rank: rankStart}}
	if withEnd && a.Start.Line == a.End.Line {
		segs = append(segs, ranked{Segment: srcmap.Mapped(a.End.Char, srcLine, srcCol+length), rank: rankEnd})
	}
	ls.segs[i] = segs
	ls.done[i] = true
	ls.genCols.Add(a.Start.Char)
	b.stats.Mapped++
}

func (b *builder) drop(ls *lineState, i int) {
	ls.done[i] = true
	b.stats.Dropped++
}
