// Package testkit checks the structural invariants every produced map must
// hold. Tests of the engine and `remap check` share it.
package testkit

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"remap/internal/srcmap"
)

// MaxProblems caps the number of violations CheckMap reports.
const MaxProblems = 20

// Violation is one broken invariant.
type Violation struct {
	Line int
	Col  int
	Msg  string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%d:%d: %s", v.Line, v.Col, v.Msg)
}

// CheckMap runs the map invariants:
//  1. segments on every generated line have strictly ascending columns
//  2. every mapped segment points inside source (line and column bounds)
//  3. every generated line with code has a segment at or before its first
//     non-space column (skipped when generated is nil)
//
// source holds the lines of sourcesContent[0]; nil skips check 2.
func CheckMap(lines srcmap.Lines, source, generated []string) error {
	var problems []error
	report := func(line, col int, format string, args ...any) bool {
		problems = append(problems, Violation{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)})
		return len(problems) >= MaxProblems
	}

	for g, segs := range lines {
		prev := -1
		for _, s := range segs {
			if s.GenCol <= prev {
				if report(g, s.GenCol, "column not ascending after %d", prev) {
					return errors.Join(problems...)
				}
			}
			prev = s.GenCol
			if !s.Mapped || source == nil {
				continue
			}
			if msg := outOfBounds(s, source); msg != "" {
				if report(g, s.GenCol, "%s", msg) {
					return errors.Join(problems...)
				}
			}
		}
	}

	for g, text := range generated {
		first := strings.IndexFunc(text, func(r rune) bool { return r != ' ' && r != '\t' && r != '\r' })
		if first < 0 {
			continue
		}
		segs := lines.Line(g)
		if len(segs) == 0 || segs[0].GenCol > first {
			if report(g, first, "no segment covers first code column") {
				break
			}
		}
	}
	return errors.Join(problems...)
}

func outOfBounds(s srcmap.Segment, source []string) string {
	if s.Source != 0 {
		return fmt.Sprintf("source index %d out of range", s.Source)
	}
	if s.SrcLine < 0 || s.SrcLine >= len(source) {
		return fmt.Sprintf("source line %d out of range (%d lines)", s.SrcLine, len(source))
	}
	width, err := safecast.Conv[uint32](len(source[s.SrcLine]))
	if err != nil {
		return fmt.Sprintf("source line %d too long", s.SrcLine)
	}
	col, err := safecast.Conv[uint32](s.SrcCol)
	if err != nil || col > width {
		return fmt.Sprintf("source column %d out of range (line %d has %d bytes)", s.SrcCol, s.SrcLine, width)
	}
	return ""
}

// SplitLines splits text on "\n" keeping the trailing empty line, the way
// line-indexed maps count lines.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}
