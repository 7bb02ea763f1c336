package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("page.svelte", []byte("hello world"), 0)
	id2 := fs.Add("page.svelte", []byte("hello universe"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", id1, id2)
	}

	// GetLatest должен вернуть последнюю версию
	latest, ok := fs.GetLatest("page.svelte")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("old version lost: %q", got)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.civet", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3} // позиции символов \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
	if file.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", file.LineCount())
	}
}

func TestPositionAndOffset(t *testing.T) {
	f := NewFile("x", []byte("ab\ncde\n\nf"), 0)
	tests := []struct {
		off, line, col int
	}{
		{0, 0, 0},
		{2, 0, 2}, // сам '\n' принадлежит первой строке
		{3, 1, 0},
		{5, 1, 2},
		{7, 2, 0},
		{8, 3, 0},
		{9, 3, 1},
	}
	for _, tt := range tests {
		line, col := f.Position(tt.off)
		if line != tt.line || col != tt.col {
			t.Errorf("Position(%d) = (%d,%d), want (%d,%d)", tt.off, line, col, tt.line, tt.col)
		}
		if got := f.Offset(tt.line, tt.col); got != tt.off {
			t.Errorf("Offset(%d,%d) = %d, want %d", tt.line, tt.col, got, tt.off)
		}
	}
	if got := f.LineStart(10); got != len(f.Content) {
		t.Errorf("LineStart past end = %d", got)
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.civet", []byte("α\nb"))

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})
	if start != (LineCol{Line: 1, Col: 1}) || end != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("unexpected resolve %+v %+v", start, end)
	}
	start, _ = fs.Resolve(Span{File: id, Start: 3, End: 4})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("second line resolved to %+v", start)
	}
}

func TestGetLine(t *testing.T) {
	f := NewFile("x", []byte("one\ntwo\n"), 0)
	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "", 4: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
	if lines := f.Lines(); len(lines) != 3 || lines[1] != "two" {
		t.Errorf("Lines() = %q", lines)
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.svelte")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
	if _, ok := fs.GetByPath(path); !ok {
		t.Error("GetByPath did not find loaded file")
	}
}

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")
	inside := filepath.Join(base, "nested", "page.svelte")
	outside := filepath.Join(tmp, "other", "page.svelte")

	got, err := RelativePath(inside, base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != "nested/page.svelte" {
		t.Errorf("expected relative path, got %q", got)
	}

	got, err = RelativePath(outside, base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != normalizePath(outside) {
		t.Errorf("expected absolute fallback, got %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 2, End: 5}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 6}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 9}); got != a {
		t.Errorf("Cover across files must be a no-op, got %v", got)
	}
	if !a.Contains(4) || a.Contains(6) || a.Len() != 2 {
		t.Errorf("Contains/Len on %v", a)
	}
}

func TestSpanOfClamps(t *testing.T) {
	if got := SpanOf(3, 5, 9); got != (Span{File: 3, Start: 5, End: 9}) {
		t.Errorf("SpanOf = %v", got)
	}
	if got := SpanOf(0, -1, 4); got.Start != 0 || got.End != 4 {
		t.Errorf("negative start not clamped: %v", got)
	}
	if got := SpanOf(0, 7, 2); !got.Empty() || got.Start != 7 {
		t.Errorf("inverted span = %v", got)
	}
}
