// Package source holds loaded documents and the byte offset <-> line/column
// arithmetic every other package relies on. Lines and columns handed to
// the mapping engine are zero-based; LineCol is the 1-based human form.
package source

// FileID is an index into the owning FileSet.
type FileID uint32

// FileFlags records how a file got into the set and what Load changed.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // из памяти: stdin, тесты
	FileHadBOM                               // BOM срезан при загрузке
	FileNormalizedCRLF                       // \r\n заменены на \n
)

func (f FileFlags) Has(flag FileFlags) bool { return f&flag != 0 }

// File is one document. Content is post-normalization; every span and
// position refers to it.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position for messages.
type LineCol struct {
	Line uint32
	Col  uint32
}
