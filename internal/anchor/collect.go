package anchor

import (
	"strings"
	"time"

	"remap/internal/lexer"
	"remap/internal/lru"
	"remap/internal/source"
	"remap/internal/token"
)

// DefaultCacheSize bounds the number of memoised generated snippets.
const DefaultCacheSize = 200

// Collector lexes generated code into anchors. It is the built-in Source.
// Results are cached by exact code text and shared between callers; treat
// returned slices as read-only.
type Collector struct {
	cache    *lru.Cache[string, []Anchor]
	reporter lexer.Reporter
}

// NewCollector creates a collector with a bounded LRU+TTL cache.
// reporter may be nil.
func NewCollector(size int, ttl time.Duration, reporter lexer.Reporter) *Collector {
	return &Collector{
		cache:    lru.New[string, []Anchor](size, ttl),
		reporter: reporter,
	}
}

// Anchors implements Source.
func (c *Collector) Anchors(code string) ([]Anchor, error) {
	if c == nil {
		return Collect(code, nil), nil
	}
	return c.cache.GetOrCompute(code, func(code string) []Anchor {
		return Collect(code, c.reporter)
	}), nil
}

// Stats exposes cache counters.
func (c *Collector) Stats() lru.Stats {
	if c == nil {
		return lru.Stats{}
	}
	return c.cache.Stats()
}

type collector struct {
	file *source.File
	out  []Anchor
}

func (c *collector) pos(off uint32) Pos {
	line, col := c.file.Position(int(off))
	return Pos{Line: line, Char: col}
}

func (c *collector) add(kind Kind, text string, start, end uint32, inHole bool) {
	a := Anchor{Text: text, Start: c.pos(start), End: c.pos(end), Kind: kind}
	if inHole && kind == Identifier {
		a.InInterpolation = true
		a.AllowLiteral = true
	}
	if kind == Quote || kind == StringLiteral {
		a.AllowLiteral = true
	}
	c.out = append(c.out, a)
}

// quoted emits the delimiters of a string-like token and, when it fits on
// one line without escapes, its content.
func (c *collector) quoted(tok token.Token, openQuote, closeQuote bool) {
	sp := tok.Span
	if openQuote {
		c.add(Quote, tok.Text[:1], sp.Start, sp.Start+1, false)
	}
	if openQuote && closeQuote && len(tok.Text) > 2 {
		body := tok.Text[1 : len(tok.Text)-1]
		if !strings.ContainsAny(body, "\\\n") {
			c.add(StringLiteral, body, sp.Start+1, sp.End-1, false)
		}
	}
	if closeQuote {
		c.add(Quote, tok.Text[len(tok.Text)-1:], sp.End-1, sp.End, false)
	}
}

// Collect lexes code and returns deduplicated anchors in source order.
func Collect(code string, reporter lexer.Reporter) []Anchor {
	file := source.NewFile("<generated>", []byte(code), source.FileVirtual)
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	c := &collector{file: file}

	depth := 0
	exprPending := false
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		sp := tok.Span
		if exprPending && !tok.ClosesHole() {
			c.add(InterpExpr, "<expr>", sp.Start, sp.Start+1, false)
		}
		exprPending = false
		inHole := depth > 0

		switch tok.Kind {
		case token.Ident:
			c.add(Identifier, tok.Text, sp.Start, sp.End, inHole)
		case token.Keyword:
			c.add(Keyword, tok.Text, sp.Start, sp.End, false)
		case token.NumberLit:
			c.add(NumberLiteral, tok.Text, sp.Start, sp.End, false)
		case token.StringLit, token.NoSubstTemplate:
			c.quoted(tok, true, true)
		case token.TemplateHead:
			c.quoted(tok, true, false)
			c.add(InterpOpen, "${", sp.End-2, sp.End, false)
			depth++
			exprPending = true
		case token.TemplateMiddle:
			c.add(InterpClose, "}", sp.Start, sp.Start+1, false)
			c.add(InterpOpen, "${", sp.End-2, sp.End, false)
			exprPending = true
		case token.TemplateTail:
			c.add(InterpClose, "}", sp.Start, sp.Start+1, false)
			c.quoted(tok, false, true)
			depth = max(depth-1, 0)
		case token.Punct:
			c.add(Operator, tok.Text, sp.Start, sp.End, false)
		}
	}
	return Dedupe(c.out)
}
