package lexer

import "remap/internal/source"

// Reporter receives lexer complaints about the generated code. kind is one
// of UnknownChar, UnterminatedString, UnterminatedTemplate,
// UnterminatedRegex, UnterminatedComment or BadNumber; ReporterAdapter maps
// them to diag codes.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

type Options struct {
	// Reporter может быть nil: ошибки молча пропускаются, лексинг идёт дальше.
	Reporter Reporter
}

func (lx *Lexer) errLex(kind string, sp source.Span, msg string) {
	if r := lx.opts.Reporter; r != nil {
		r.Report(kind, sp, msg)
	}
}
