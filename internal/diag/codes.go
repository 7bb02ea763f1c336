package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические (сгенерированный код)
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexUnterminatedRegex        Code = 1006

	// Карты
	MapInfo            Code = 2000
	MapMalformed       Code = 2001
	MapMissing         Code = 2002
	MapOutOfBounds     Code = 2003
	MapUnsortedColumns Code = 2004
	MapDuplicateColumn Code = 2005
	MapBadSourceIndex  Code = 2006
	MapBadNameIndex    Code = 2007

	// Документ-хозяин и внешний компилятор
	HostInfo            Code = 3000
	HostCompileError    Code = 3001
	HostMissingCompiled Code = 3002
	HostBlockMismatch   Code = 3003
	HostNoBlocks        Code = 3004
	HostUnterminatedTag Code = 3005

	// Ввод/вывод
	IOLoadFileError  Code = 4000
	IOWriteFileError Code = 4001
	IOCacheError     Code = 4002

	// Конфигурация и задания
	CfgInfo       Code = 5000
	CfgParseError Code = 5001
	CfgBadValue   Code = 5002
	CfgJobInvalid Code = 5003

	// Наблюдаемость
	ObsInfo     Code = 6000
	ObsTimings  Code = 6001
	ObsMapStats Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexUnterminatedTemplate:     "Unterminated template literal",
		LexUnterminatedRegex:        "Unterminated regular expression",
		MapInfo:                     "Map information",
		MapMalformed:                "Malformed source map",
		MapMissing:                  "Missing source map",
		MapOutOfBounds:              "Segment points outside the source",
		MapUnsortedColumns:          "Segments are not sorted by generated column",
		MapDuplicateColumn:          "Duplicate generated column",
		MapBadSourceIndex:           "Segment references an unknown source",
		MapBadNameIndex:             "Segment references an unknown name",
		HostInfo:                    "Host document information",
		HostCompileError:            "Dialect compile error",
		HostMissingCompiled:         "No compiled output for block",
		HostBlockMismatch:           "Compiled outputs do not match the document blocks",
		HostNoBlocks:                "Document has no dialect blocks",
		HostUnterminatedTag:         "Unterminated script tag",
		IOLoadFileError:             "I/O load file error",
		IOWriteFileError:            "I/O write file error",
		IOCacheError:                "Cache error",
		CfgInfo:                     "Configuration information",
		CfgParseError:               "Cannot parse configuration",
		CfgBadValue:                 "Invalid configuration value",
		CfgJobInvalid:               "Invalid job manifest",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		ObsMapStats:                 "Mapping statistics",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("MAP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("HST%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Observability reports whether c is a timings/stats style record rather
// than a problem with the input.
func (c Code) Observability() bool {
	return c >= ObsInfo && c < 7000
}
