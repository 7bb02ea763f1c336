package token

// Kind represents the category of a generated-code token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the input.
	EOF

	// Ident represents an identifier, including contextual keywords.
	Ident
	// Keyword represents a reserved word.
	Keyword

	// NumberLit represents a numeric literal (decimal, hex, octal, binary, bigint).
	NumberLit
	// StringLit represents a single or double quoted string literal.
	StringLit
	// RegexLit represents a regular expression literal.
	RegexLit
	// NoSubstTemplate is a template literal without holes: `...`.
	NoSubstTemplate
	// TemplateHead is the chunk from the opening backtick to the first `${`.
	TemplateHead
	// TemplateMiddle is a chunk between a hole's `}` and the next `${`.
	TemplateMiddle
	// TemplateTail is the chunk from the last hole's `}` to the closing backtick.
	TemplateTail

	// Punct represents an operator or punctuation; Text tells which.
	Punct
)

var kindNames = [...]string{
	Invalid:         "Invalid",
	EOF:             "EOF",
	Ident:           "Ident",
	Keyword:         "Keyword",
	NumberLit:       "NumberLit",
	StringLit:       "StringLit",
	RegexLit:        "RegexLit",
	NoSubstTemplate: "NoSubstTemplate",
	TemplateHead:    "TemplateHead",
	TemplateMiddle:  "TemplateMiddle",
	TemplateTail:    "TemplateTail",
	Punct:           "Punct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
