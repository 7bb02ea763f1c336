// Package alias holds the equivalence table between generated-language
// tokens and their dialect spellings.
//
// Single-token entries (one generated token) are consulted by the locator
// and the validator; multi-token entries (macros) drive anchor fusion.
// Adding an entry is the only step needed to teach the engine a new
// dialect construct.
package alias

import (
	"fmt"
	"strings"
	"unicode"
)

// Entry maps a generated token sequence to its accepted dialect spellings.
// The first Dialect spelling is canonical; macros use only that one.
type Entry struct {
	Generated []string `toml:"generated"`
	Dialect   []string `toml:"dialect"`
}

// Macro is a multi-token entry in the shape used by fusion.
type Macro struct {
	Search  []string
	Replace string
}

// Punct reports whether the replacement has no letters or digits; fused
// anchors of such macros are operators, the rest are keywords.
func (m Macro) Punct() bool { return IsPunct(m.Replace) }

// defaults are the built-in aliases for the civet dialect.
var defaults = []Entry{
	{Generated: []string{"="}, Dialect: []string{"="}},
	{Generated: []string{"==="}, Dialect: []string{"is"}},
	{Generated: []string{"!=="}, Dialect: []string{"isnt ", "is not "}},
	{Generated: []string{"&&"}, Dialect: []string{"and"}},
	{Generated: []string{"||"}, Dialect: []string{"or "}},
	{Generated: []string{"!"}, Dialect: []string{"not "}},
	{Generated: []string{"let"}, Dialect: []string{".="}},
	{Generated: []string{"const"}, Dialect: []string{":="}},
	{Generated: []string{"function"}, Dialect: []string{"->"}},

	{Generated: []string{"if", "(", "!"}, Dialect: []string{"unless"}},
	// numbers.slice(a, b) <-> numbers[a...b]
	{Generated: []string{".", "slice", "("}, Dialect: []string{"..."}},
}

// quote aliases: triple-quoted dialect strings compile to plain quotes
var defaultQuotes = map[string][]string{
	"`": {`"""`, `'''`, "```"},
	`"`: {`"""`},
	"'": {`'''`},
}

// Registry is the derived lookup structure. It is immutable after
// construction and safe to share between builds.
type Registry struct {
	single map[string][]string
	macros map[string][]Macro
	quotes map[string][]string
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := New(nil)
	if err != nil {
		// встроенная таблица всегда валидна
		panic(err)
	}
	return r
}

// New builds a registry from the defaults plus extra entries. Later
// single-token entries for the same generated token extend the spelling list.
func New(extra []Entry) (*Registry, error) {
	r := &Registry{
		single: make(map[string][]string),
		macros: make(map[string][]Macro),
		quotes: make(map[string][]string, len(defaultQuotes)),
	}
	for q, spellings := range defaultQuotes {
		r.quotes[q] = append([]string(nil), spellings...)
	}
	for _, e := range defaults {
		r.add(e)
	}
	for i, e := range extra {
		if len(e.Generated) == 0 || len(e.Dialect) == 0 {
			return nil, fmt.Errorf("alias %d: generated and dialect must be non-empty", i)
		}
		for _, g := range e.Generated {
			if g == "" {
				return nil, fmt.Errorf("alias %d: empty generated token", i)
			}
		}
		r.add(e)
	}
	return r, nil
}

func (r *Registry) add(e Entry) {
	if len(e.Generated) == 1 {
		g := e.Generated[0]
		for _, d := range e.Dialect {
			if !contains(r.single[g], d) {
				r.single[g] = append(r.single[g], d)
			}
		}
		return
	}
	first := e.Generated[0]
	r.macros[first] = append(r.macros[first], Macro{
		Search:  append([]string(nil), e.Generated...),
		Replace: e.Dialect[0],
	})
}

// Spellings returns the dialect spellings of a single generated token.
func (r *Registry) Spellings(generated string) []string {
	return r.single[generated]
}

// Has reports whether the generated token has a single-token alias.
func (r *Registry) Has(generated string) bool {
	_, ok := r.single[generated]
	return ok
}

// Macros returns the multi-token entries whose sequence starts with first.
func (r *Registry) Macros(first string) []Macro {
	return r.macros[first]
}

// QuoteSpellings returns the dialect quote forms accepted for a generated quote.
func (r *Registry) QuoteSpellings(quote string) []string {
	return r.quotes[quote]
}

// IsSpelling reports whether src is an accepted dialect spelling of the
// single generated token. Spellings are compared trimmed, since entries
// like "or " carry a trailing separator that the matched slice does not.
func (r *Registry) IsSpelling(generated, src string) bool {
	src = strings.TrimSpace(src)
	for _, s := range r.single[generated] {
		if strings.TrimSpace(s) == src {
			return true
		}
	}
	return false
}

// IsQuoteSpelling reports whether src is an accepted form of quote.
func (r *Registry) IsQuoteSpelling(quote, src string) bool {
	return contains(r.quotes[quote], src)
}

// IsPunct reports whether s consists only of non letter, non digit runes.
func IsPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if unicode.IsLetter(c) || unicode.IsNumber(c) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
