package fuzztests

import (
	"testing"

	"remap/internal/anchor"
	"remap/internal/diag"
	"remap/internal/lexer"
	"remap/internal/source"
	"remap/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addGeneratedSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.ts", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: &lexer.ReporterAdapter{Bag: bag}})
		prevEnd := uint32(0)
		// каждый токен продвигает позицию, иначе лексер зациклится
		for range len(input) + 2 {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				return
			}
			if tok.Span.End < tok.Span.Start || tok.Span.Start < prevEnd {
				t.Fatalf("bad token span %v after %d", tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
		}
		t.Fatalf("no EOF after %d tokens: %q", len(input)+2, truncateForLog(input, 200))
	})
}

func FuzzCollectAnchors(f *testing.F) {
	addGeneratedSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		anchors := anchor.Collect(string(input), nil)
		for i, a := range anchors {
			if a.End.Less(a.Start) {
				t.Fatalf("anchor %d %q ends before it starts", i, a.Text)
			}
			if i > 0 && a.Start.Less(anchors[i-1].End) {
				t.Fatalf("anchors %d and %d overlap after dedupe", i-1, i)
			}
		}
	})
}
