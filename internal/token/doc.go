// Package token defines lexical token kinds and trivia for the generated
// (TypeScript-like) code the anchor collector walks.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly (Start..End).
//   - Template literals are split at interpolation holes: the chunks are
//     NoSubstTemplate, TemplateHead, TemplateMiddle and TemplateTail tokens,
//     the hole expressions are ordinary tokens between them.
//   - Comments are leading Trivia and never appear in the main token stream.
package token
