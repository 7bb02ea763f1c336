package literal

import (
	"strings"
	"time"

	"remap/internal/lru"
)

const (
	// DefaultCacheSize bounds the number of memoised lines.
	DefaultCacheSize = 10_000
	// DefaultTTL is how long a memoised line stays valid.
	DefaultTTL = 30 * time.Minute
)

func isQuote(c byte) bool { return c == '\'' || c == '"' || c == '`' }

// interpolates reports whether quote q supports `${`/`#{` holes.
func interpolates(q byte) bool { return q == '"' || q == '`' }

func isInterpOpen(line string, i int) bool {
	return i+1 < len(line) && (line[i] == '$' || line[i] == '#') && line[i+1] == '{'
}

// Scan classifies one line. It is pure; use Scanner for the cached variant.
func Scan(line string) Info {
	var info Info
	n := len(line)
	i := 0
	for i < n {
		ch := line[i]

		if isQuote(ch) {
			quote := ch
			partStart := i
			info.Literals = appendRange(info.Literals, i, i) // открывающая кавычка
			i++
			closed := false
			for i < n {
				c := line[i]
				if c == '\\' {
					i += 2
					continue
				}
				if interpolates(quote) && isInterpOpen(line, i) {
					// текст до дырки
					info.Literals = appendRange(info.Literals, partStart+1, i-1)
					holeStart := i
					i += 2
					exprStart := i
					depth := 1
					for i < n && depth > 0 {
						switch line[i] {
						case '{':
							depth++
						case '}':
							depth--
						}
						i++
					}
					info.Interps = appendRange(info.Interps, exprStart, i-1)
					info.Literals = appendRange(info.Literals, holeStart, i-1)
					partStart = i - 1
					continue
				}
				if c == quote {
					info.Literals = appendRange(info.Literals, i, i) // закрывающая
					i++
					closed = true
					break
				}
				i++
			}
			if i > n {
				i = n
			}
			if closed {
				info.Literals = appendRange(info.Literals, partStart+1, i-2)
			} else {
				// незакрытая строка тянется до конца строки
				info.Literals = appendRange(info.Literals, partStart+1, n-1)
			}
			continue
		}

		if ch == '/' && i+1 < n && line[i+1] == '/' {
			info.Comments = appendRange(info.Comments, i, n-1)
			break
		}
		if ch == '#' && strings.TrimSpace(line[:i]) == "" {
			info.Comments = appendRange(info.Comments, i, n-1)
			break
		}
		i++
	}
	return info
}

// Scanner memoises Scan results per unique line text. Safe for concurrent use.
type Scanner struct {
	cache *lru.Cache[string, Info]
}

// NewScanner creates a scanner with a bounded LRU+TTL cache.
func NewScanner(size int, ttl time.Duration) *Scanner {
	return &Scanner{cache: lru.New[string, Info](size, ttl)}
}

// Line returns the (possibly cached) classification of line.
func (s *Scanner) Line(line string) Info {
	if s == nil {
		return Scan(line)
	}
	return s.cache.GetOrCompute(line, Scan)
}

// Lines classifies every line.
func (s *Scanner) Lines(lines []string) []Info {
	out := make([]Info, len(lines))
	for i, l := range lines {
		out[i] = s.Line(l)
	}
	return out
}

// Stats exposes cache counters.
func (s *Scanner) Stats() lru.Stats {
	if s == nil {
		return lru.Stats{}
	}
	return s.cache.Stats()
}
