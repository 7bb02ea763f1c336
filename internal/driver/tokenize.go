package driver

import (
	"fmt"
	"io"
	"os"

	"remap/internal/anchor"
	"remap/internal/diag"
	"remap/internal/lexer"
	"remap/internal/source"
	"remap/internal/token"
)

// StdinPath makes Tokenize read the generated code from standard input.
const StdinPath = "-"

// TokenizeResult is a generated-code file run through the lexer and the
// anchor collector.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // без EOF
	Anchors []anchor.Anchor
	Bag     *diag.Bag
}

// Tokenize lexes a generated-code file. Lexer problems land in Bag as
// warnings.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := loadGenerated(fs, path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(id)
	bag := diag.NewBag(maxDiagnostics)

	tokens := lexer.New(file, lexer.Options{Reporter: &lexer.ReporterAdapter{Bag: bag}}).All()
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		// коллектор лексит заново; его жалобы совпали бы с уже собранными
		Anchors: anchor.Collect(string(file.Content), nil),
		Bag:     bag,
	}, nil
}

func loadGenerated(fs *source.FileSet, path string) (source.FileID, error) {
	if path != StdinPath {
		return fs.Load(path)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return 0, fmt.Errorf("read stdin: %w", err)
	}
	return fs.AddVirtual("<stdin>", data), nil
}
