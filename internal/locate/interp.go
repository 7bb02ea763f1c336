package locate

import (
	"time"

	"remap/internal/lru"
)

const (
	// DefaultInterpCacheSize bounds memoised interpolation scans.
	DefaultInterpCacheSize = 5_000
	// DefaultLookahead is how many lines above and below the guess are searched.
	DefaultLookahead = 3
)

// InterpTok is an interpolation delimiter found on a line.
type InterpTok struct {
	Open  bool
	Text  string // "${", "#{" or "}"
	Pos   int
	Depth int
}

// ScanInterp lists `${`/`#{` openers and `}` closers with nesting depth.
// It ignores quoting: a `}` of an object literal counts as well.
func ScanInterp(line string) []InterpTok {
	var out []InterpTok
	depth := 0
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case (ch == '$' || ch == '#') && i+1 < len(line) && line[i+1] == '{':
			out = append(out, InterpTok{Open: true, Text: line[i : i+2], Pos: i, Depth: depth})
			depth++
			i++
		case ch == '}':
			depth = max(0, depth-1)
			out = append(out, InterpTok{Text: "}", Pos: i, Depth: depth})
		}
	}
	return out
}

// InterpScanner memoises ScanInterp per line text.
type InterpScanner struct {
	cache *lru.Cache[string, []InterpTok]
}

func NewInterpScanner(size int, ttl time.Duration) *InterpScanner {
	return &InterpScanner{cache: lru.New[string, []InterpTok](size, ttl)}
}

func (s *InterpScanner) Line(line string) []InterpTok {
	if s == nil {
		return ScanInterp(line)
	}
	return s.cache.GetOrCompute(line, ScanInterp)
}

// Stats exposes cache counters.
func (s *InterpScanner) Stats() lru.Stats {
	if s == nil {
		return lru.Stats{}
	}
	return s.cache.Stats()
}
