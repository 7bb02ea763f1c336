package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"remap/internal/diag"
	"remap/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	// Создаём FileSet
	fs := source.NewFileSet()

	// Добавляем тестовый файл
	content := []byte("  s = \"unterminated string\n")
	fileID := fs.AddVirtual("/home/user/project/src/page.svelte", content)

	// Устанавливаем базовую директорию для relative paths
	fs.SetBaseDir("/home/user/project")

	// Создаём диагностику
	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 6, End: 26},
		"Unterminated string literal",
	)
	bag.Add(d)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{
			name:     "Absolute path",
			mode:     PathModeAbsolute,
			contains: "/home/user/project/src/page.svelte",
		},
		{
			name:     "Relative path",
			mode:     PathModeRelative,
			contains: "src/page.svelte",
		},
		{
			name:     "Basename only",
			mode:     PathModeBasename,
			contains: "page.svelte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  1,
				PathMode: tt.mode,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}

			// Проверяем что есть основные элементы
			if !strings.Contains(output, "ERROR") {
				t.Error("Expected ERROR in output")
			}
			if !strings.Contains(output, "LEX1002") {
				t.Error("Expected LEX1002 code in output")
			}
			if !strings.Contains(output, "Unterminated string") {
				t.Error("Expected error message in output")
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string // что должно быть в выводе
	}{
		{
			name:     "Short path - as is",
			path:     "page.svelte",
			expected: "page.svelte",
		},
		{
			name:     "Long absolute path - basename",
			path:     "/very/long/absolute/path/to/some/nested/directory/page.svelte",
			expected: "page.svelte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte("<p>hi</p>\n")
			fileID := fs.AddVirtual(tt.path, content)

			bag := diag.NewBag(10)
			d := diag.New(
				diag.SevWarning,
				diag.LexUnknownChar,
				source.Span{File: fileID, Start: 3, End: 5},
				"Test warning",
			)
			bag.Add(d)

			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  0,
				PathMode: PathModeAuto,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func compileErrorBag() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	content := []byte("<script lang=\"civet\">\n  x :=\n</script>\n")
	fileID := fs.AddVirtual("page.svelte", content)

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(
		diag.HostCompileError,
		source.Span{File: fileID, Start: 24, End: 28},
		"unexpected end of input",
	).WithNote(source.Span{File: fileID, Start: 0, End: 7}, "block 0 starts here"))
	return fs, bag
}

func TestPrettyExcerptAndNotes(t *testing.T) {
	fs, bag := compileErrorBag()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})

	want := "page.svelte:2:3: ERROR HST3001: unexpected end of input\n" +
		"    2 |   x :=\n" +
		"      |   ^~~~\n" +
		"  note: page.svelte:1:1: block 0 starts here\n" +
		"    1 | <script lang=\"civet\">\n" +
		"      | ^~~~~~~\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyHidesNotes(t *testing.T) {
	fs, bag := compileErrorBag()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})
	output := buf.String()

	if strings.Contains(output, "note:") {
		t.Errorf("notes must be hidden, got:\n%s", output)
	}
	// контекст захватывает соседние строки
	for _, line := range []string{"    1 | <script", "    2 |   x :=", "    3 | </script>"} {
		if !strings.Contains(output, line) {
			t.Errorf("Expected %q in output:\n%s", line, output)
		}
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{}, "cannot write out.map"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 2})

	if got, want := buf.String(), "ERROR IO4001: cannot write out.map\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyMultilineMessageAndWidth(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(10)
	bag.Add(diag.NewWarning(diag.MapMissing, source.Span{}, "block 0 has no map\nkept the compiled text unmapped"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Width: 12})

	want := "WARNING MAP2002: block 0 h...\n    kept the ...\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs, bag := compileErrorBag()

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}
}
