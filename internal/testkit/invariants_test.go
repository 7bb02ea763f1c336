package testkit

import (
	"strings"
	"testing"

	"remap/internal/srcmap"
)

func TestCheckMapOK(t *testing.T) {
	lines := srcmap.Lines{
		{srcmap.Null(0), srcmap.Mapped(2, 0, 0), srcmap.Mapped(8, 0, 6)},
		{},
		{srcmap.Mapped(0, 1, 0)},
	}
	source := []string{"status:", "}"}
	generated := []string{"{ status: status }", "", "}"}
	if err := CheckMap(lines, source, generated); err != nil {
		t.Fatalf("unexpected violations: %v", err)
	}
}

func TestCheckMapViolations(t *testing.T) {
	lines := srcmap.Lines{
		{srcmap.Mapped(0, 0, 0), srcmap.Null(0)},
		{srcmap.Mapped(1, 5, 0)},
		{srcmap.Mapped(4, 0, 99)},
	}
	source := []string{"a", "b"}
	generated := []string{"a", "x", "  y"}

	err := CheckMap(lines, source, generated)
	if err == nil {
		t.Fatal("expected violations")
	}
	for _, want := range []string{
		"0:0: column not ascending",
		"1:1: source line 5 out of range",
		"2:4: source column 99 out of range",
		"1:0: no segment covers first code column",
		"2:2: no segment covers first code column",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in:\n%v", want, err)
		}
	}
}

func TestCheckMapNilSourceSkipsBounds(t *testing.T) {
	lines := srcmap.Lines{{srcmap.Mapped(0, 42, 42)}}
	if err := CheckMap(lines, nil, nil); err != nil {
		t.Fatalf("bounds checked without source: %v", err)
	}
}
