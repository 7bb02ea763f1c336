package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"remap/internal/diag"
	"remap/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("<script>\n  s = \"open\n</script>\n")
	fileID := fs.AddVirtual("page.svelte", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 15, End: 20},
		"Unterminated string literal",
	)
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	// Парсим JSON чтобы убедиться что он валидный
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	if output.Count != 1 {
		t.Errorf("Expected count=1, got %d", output.Count)
	}
	if len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	got := output.Diagnostics[0]
	if got.Severity != "ERROR" {
		t.Errorf("Expected severity=ERROR, got %s", got.Severity)
	}
	if got.Code != "LEX1002" {
		t.Errorf("Expected code=LEX1002, got %s", got.Code)
	}
	if got.Message != "Unterminated string literal" {
		t.Errorf("Expected message='Unterminated string literal', got %s", got.Message)
	}
	if got.Location.File != "page.svelte" {
		t.Errorf("Expected file=page.svelte, got %s", got.Location.File)
	}
	if got.Location.StartByte != 15 || got.Location.EndByte != 20 {
		t.Errorf("Expected bytes 15..20, got %d..%d", got.Location.StartByte, got.Location.EndByte)
	}

	// Проверяем позиции
	if got.Location.StartLine != 2 {
		t.Errorf("Expected start_line=2, got %d", got.Location.StartLine)
	}
	if got.Location.StartCol != 7 {
		t.Errorf("Expected start_col=7, got %d", got.Location.StartCol)
	}
}

func TestJSONWithNotes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("<script lang=\"civet\">\n  x :=\n</script>\n")
	fileID := fs.AddVirtual("page.svelte", content)

	d := diag.NewError(
		diag.HostCompileError,
		source.Span{File: fileID, Start: 24, End: 28},
		"unexpected end of input",
	).WithNote(source.Span{File: fileID, Start: 0, End: 21}, "block 0 starts here")

	bag := diag.NewBag(10)
	bag.Add(d)

	for _, include := range []bool{true, false} {
		var buf bytes.Buffer
		opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: include}
		if err := JSON(&buf, bag, fs, opts); err != nil {
			t.Fatalf("JSON() error: %v", err)
		}
		var output DiagnosticsOutput
		if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
			t.Fatalf("Invalid JSON output: %v", err)
		}
		notes := output.Diagnostics[0].Notes
		if !include {
			if len(notes) != 0 {
				t.Errorf("Expected notes to be omitted, got %d", len(notes))
			}
			continue
		}
		if len(notes) != 1 {
			t.Fatalf("Expected 1 note, got %d", len(notes))
		}
		if notes[0].Message != "block 0 starts here" {
			t.Errorf("Unexpected note message %q", notes[0].Message)
		}
		if notes[0].Location.StartLine != 1 || notes[0].Location.StartCol != 1 {
			t.Errorf("Expected note at 1:1, got %d:%d", notes[0].Location.StartLine, notes[0].Location.StartCol)
		}
	}
}

// Отчёты о таймингах и статистике несут полезную нагрузку в заметке,
// поэтому заметка выводится всегда.
func TestJSONObservabilityNotesAlwaysIncluded(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").
		WithNote(source.Span{}, `{"kind":"remap","total_ms":1.5}`))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	got := output.Diagnostics[0]
	if got.Code != "OBS6001" {
		t.Errorf("Expected code=OBS6001, got %s", got.Code)
	}
	if len(got.Notes) != 1 || got.Notes[0].Message != `{"kind":"remap","total_ms":1.5}` {
		t.Errorf("Expected timing payload note, got %+v", got.Notes)
	}
	// файла нет: пустое местоположение
	if got.Location.File != "" {
		t.Errorf("Expected empty file, got %q", got.Location.File)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("<p>hi</p>\n")
	fileID := fs.AddVirtual("page.svelte", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevInfo,
		diag.HostInfo,
		source.Span{File: fileID, Start: 4, End: 5},
		"Info message",
	)
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: false,
		PathMode:         PathModeBasename,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	got := output.Diagnostics[0]

	// Проверяем что позиций нет в JSON (omitempty должен их скрыть)
	if got.Location.StartLine != 0 {
		t.Errorf("Expected start_line to be omitted (0), got %d", got.Location.StartLine)
	}

	// Но байтовые позиции должны быть всегда
	if got.Location.StartByte != 4 {
		t.Errorf("Expected start_byte=4, got %d", got.Location.StartByte)
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("test content")
	fileID := fs.AddVirtual("page.svelte", content)

	bag := diag.NewBag(10)

	for i := range 5 {
		d := diag.New(
			diag.SevWarning,
			diag.MapOutOfBounds,
			source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)},
			"segment out of bounds",
		)
		bag.Add(d)
	}

	var buf bytes.Buffer
	opts := JSONOpts{
		PathMode: PathModeBasename,
		Max:      3, // Ограничение в 3 диагностики
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if output.Count != 3 {
		t.Errorf("Expected count=3 (limited), got %d", output.Count)
	}
	if len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got %d", len(output.Diagnostics))
	}
}

// TestJSONPathModes проверяет различные режимы путей
func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")

	content := []byte("test")
	fileID := fs.AddVirtual("/home/user/project/src/page.svelte", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.LexUnknownChar,
		source.Span{File: fileID, Start: 0, End: 1},
		"Error",
	)
	bag.Add(d)

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/src/page.svelte"},
		{"Relative", PathModeRelative, "src/page.svelte"},
		{"Basename", PathModeBasename, "page.svelte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := JSONOpts{
				PathMode: tt.pathMode,
			}

			err := JSON(&buf, bag, fs, opts)
			if err != nil {
				t.Fatalf("JSON() error: %v", err)
			}

			var output DiagnosticsOutput
			if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
				t.Fatalf("Invalid JSON output: %v", err)
			}

			if output.Diagnostics[0].Location.File != tt.expected {
				t.Errorf("Expected file=%s, got %s", tt.expected, output.Diagnostics[0].Location.File)
			}
		})
	}
}
