package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"remap/internal/source"
	"remap/internal/token"
)

// TokenOutput is one lexer token in `remap tokenize --format json`.
type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// significant returns tokens up to and including EOF.
func significant(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

func triviaKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	out := make([]string, len(tok.Leading))
	for i, tr := range tok.Leading {
		out[i] = tr.Kind.String()
	}
	return out
}

// FormatTokensPretty печатает токены по одному на строку с 1-based позициями
// и видами ведущих trivia.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var sb strings.Builder
	for i, tok := range significant(tokens) {
		start, end := fs.Resolve(tok.Span)
		fmt.Fprintf(&sb, "%3d: %-15s", i+1, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		fmt.Fprintf(&sb, " at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if kinds := triviaKinds(tok); kinds != nil {
			fmt.Fprintf(&sb, " (leading: %s)", strings.Join(kinds, ", "))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	toks := significant(tokens)
	out := make([]TokenOutput, len(toks))
	for i, tok := range toks {
		out[i] = TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: triviaKinds(tok),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
