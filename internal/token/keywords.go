package token

// reserved words; contextual ones (of, as, type, get, set, ...) stay identifiers
var keywords = map[string]struct{}{
	"break":      {},
	"case":       {},
	"catch":      {},
	"class":      {},
	"const":      {},
	"continue":   {},
	"debugger":   {},
	"default":    {},
	"delete":     {},
	"do":         {},
	"else":       {},
	"enum":       {},
	"export":     {},
	"extends":    {},
	"false":      {},
	"finally":    {},
	"for":        {},
	"function":   {},
	"if":         {},
	"import":     {},
	"in":         {},
	"instanceof": {},
	"let":        {},
	"new":        {},
	"null":       {},
	"return":     {},
	"super":      {},
	"switch":     {},
	"this":       {},
	"throw":      {},
	"true":       {},
	"try":        {},
	"typeof":     {},
	"var":        {},
	"void":       {},
	"while":      {},
	"with":       {},
	"yield":      {},
}

// IsKeyword сообщает, зарезервировано ли слово. Регистрозависимо.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
