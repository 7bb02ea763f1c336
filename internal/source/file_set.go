package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// FileSet owns loaded files. IDs are dense and never reused; adding a
// path again creates a new file and the path index moves to it.
type FileSet struct {
	files   []*File
	byPath  map[string]FileID
	baseDir string // для относительных путей в выводе, "" = рабочий каталог
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

func (s *FileSet) SetBaseDir(dir string) { s.baseDir = dir }

// BaseDir falls back to the working directory when unset.
func (s *FileSet) BaseDir() string {
	if s.baseDir != "" {
		return s.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// Add takes ownership of content, which must already be normalized.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f := NewFile(path, content, flags)
	f.ID = FileID(n)
	s.files = append(s.files, f)
	s.byPath[f.Path] = f.ID
	return f.ID
}

// NewFile builds a standalone File with ID 0.
func NewFile(path string, content []byte, flags FileFlags) *File {
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// ReadFile reads a file from disk and normalizes it the way editors
// present it: the UTF-8 BOM is dropped and CRLF becomes LF. Line numbers
// and in-line columns are unaffected, which is what map positions use.
func ReadFile(path string) ([]byte, FileFlags, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	content, flags := normalize(content)
	return content, flags, nil
}

// Load reads path through ReadFile and adds it.
func (s *FileSet) Load(path string) (FileID, error) {
	content, flags, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	return s.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content under name, flagged FileVirtual.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

func (s *FileSet) Len() int { return len(s.files) }

// Has reports whether id names a file of this set.
func (s *FileSet) Has(id FileID) bool {
	return s != nil && int(id) < len(s.files)
}

// Get panics on an unknown id; check with Has first when unsure.
func (s *FileSet) Get(id FileID) *File { return s.files[id] }

// GetLatest returns the newest file added under path.
func (s *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := s.byPath[normalizePath(path)]
	return id, ok
}

func (s *FileSet) GetByPath(path string) (*File, bool) {
	id, ok := s.GetLatest(path)
	if !ok {
		return nil, false
	}
	return s.files[id], true
}

// Resolve turns a span into 1-based start and end positions.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	idx := s.files[span.File].LineIdx
	return toLineCol(idx, span.Start), toLineCol(idx, span.End)
}

// LineCount returns the number of lines; a trailing newline opens an empty last line.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// LineStart returns the byte offset where 0-based line starts.
// Lines past the end clamp to len(Content).
func (f *File) LineStart(line int) int {
	if line >= f.LineCount() {
		return len(f.Content)
	}
	return int(lineStart(f.LineIdx, line))
}

// Position converts a byte offset into a 0-based line and byte column.
func (f *File) Position(off int) (line, col int) {
	if off < 0 {
		return 0, 0
	}
	uoff, err := safecast.Conv[uint32](min(off, len(f.Content)))
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	line = lineOf(f.LineIdx, uoff)
	return line, int(uoff - lineStart(f.LineIdx, line))
}

// Offset is the inverse of Position.
func (f *File) Offset(line, col int) int {
	return f.LineStart(line) + col
}

// Lines splits the content into lines without their terminators.
func (f *File) Lines() []string {
	return strings.Split(string(f.Content), "\n")
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > f.LineCount() {
		return ""
	}
	start := f.LineStart(int(lineNum) - 1)
	end := len(f.Content)
	if int(lineNum)-1 < len(f.LineIdx) {
		end = int(f.LineIdx[lineNum-1])
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for output. mode is absolute, relative
// (to baseDir, or the working directory when empty), basename, or auto:
// short or relative paths as they are, long absolute ones as a basename.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
