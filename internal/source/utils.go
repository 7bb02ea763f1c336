package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	crlf    = []byte("\r\n")
)

// normalize strips a leading BOM and rewrites CRLF to LF. Lone CRs stay.
// The input slice is never modified.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, crlf) {
		content = bytes.ReplaceAll(content, crlf, []byte{'\n'})
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off, b := range content {
		if b != '\n' {
			continue
		}
		u, err := safecast.Conv[uint32](off)
		if err != nil {
			panic(fmt.Errorf("line index overflow: %w", err))
		}
		idx = append(idx, u)
	}
	return idx
}

// lineOf is the 0-based line holding off: the number of '\n' before it.
func lineOf(lineIdx []uint32, off uint32) int {
	return sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
}

// lineStart is the offset of 0-based line.
func lineStart(lineIdx []uint32, line int) uint32 {
	if line <= 0 {
		return 0
	}
	return lineIdx[line-1] + 1
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line := lineOf(lineIdx, off)
	n, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line overflow: %w", err))
	}
	return LineCol{Line: n, Col: off - lineStart(lineIdx, line) + 1}
}

// normalizePath gives paths one slash style for output and lookups.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
