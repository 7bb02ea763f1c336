package lexer

import (
	"remap/internal/diag"
	"remap/internal/source"
)

// ReporterAdapter переводит строковые виды ошибок лексера в коды diag
// и складывает их в Bag как предупреждения: сгенерированный код чужой,
// и ошибка в нём не должна ронять сборку карты.
type ReporterAdapter struct {
	Bag *diag.Bag
}

var lexCodes = map[string]diag.Code{
	"UnknownChar":          diag.LexUnknownChar,
	"UnterminatedString":   diag.LexUnterminatedString,
	"UnterminatedTemplate": diag.LexUnterminatedTemplate,
	"UnterminatedRegex":    diag.LexUnterminatedRegex,
	"UnterminatedComment":  diag.LexUnterminatedBlockComment,
	"BadNumber":            diag.LexBadNumber,
}

// Report implements Reporter.
func (r *ReporterAdapter) Report(kind string, span source.Span, msg string) {
	if r == nil || r.Bag == nil {
		return
	}
	code, ok := lexCodes[kind]
	if !ok {
		code = diag.LexInfo
	}
	r.Bag.Add(diag.New(diag.SevWarning, code, span, msg))
}
