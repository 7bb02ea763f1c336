package token

import "remap/internal/source"

// Token is one lexeme of generated code. Text is the exact source slice;
// Leading holds the whitespace and comments before it.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

type kindFlags uint8

const (
	flagLiteral kindFlags = 1 << iota
	flagTemplate
	flagOpensHole  // chunk ends with ${
	flagClosesHole // chunk starts with }
)

var kindTraits = [...]kindFlags{
	NumberLit:       flagLiteral,
	StringLit:       flagLiteral,
	RegexLit:        flagLiteral,
	NoSubstTemplate: flagLiteral | flagTemplate,
	TemplateHead:    flagLiteral | flagTemplate | flagOpensHole,
	TemplateMiddle:  flagLiteral | flagTemplate | flagOpensHole | flagClosesHole,
	TemplateTail:    flagLiteral | flagTemplate | flagClosesHole,
	Punct:           0,
}

func (k Kind) has(f kindFlags) bool {
	return int(k) < len(kindTraits) && kindTraits[k]&f != 0
}

// IsLiteral covers numbers, strings, regexes and every template chunk.
func (t Token) IsLiteral() bool { return t.Kind.has(flagLiteral) }

func (t Token) IsTemplate() bool { return t.Kind.has(flagTemplate) }

// OpensHole reports a chunk ending in `${`.
func (t Token) OpensHole() bool { return t.Kind.has(flagOpensHole) }

// ClosesHole reports a chunk starting at the `}` of a hole.
func (t Token) ClosesHole() bool { return t.Kind.has(flagClosesHole) }

func (t Token) IsPunctOrOp() bool { return t.Kind == Punct }
func (t Token) IsKeyword() bool   { return t.Kind == Keyword }
func (t Token) IsIdent() bool     { return t.Kind == Ident }
