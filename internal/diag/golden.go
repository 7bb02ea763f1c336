package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"remap/internal/source"
)

// shortLine is one row of the short format: a diagnostic or one of its notes.
type shortLine struct {
	label string // error|warning|info|note
	id    string
	path  string
	pos   source.LineCol
	msg   string
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set):
//
//	error HST3001 src/Page.svelte:1:1 unexpected token
//
// Lines are sorted by path and position so golden files stay stable.
// Diagnostics whose file is not in fs are skipped.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	var rows []shortLine
	for i := range diags {
		d := &diags[i]
		if row, ok := locate(fs, d.Primary); ok {
			row.label, row.id, row.msg = strings.ToLower(d.Severity.String()), d.Code.ID(), oneLine(d.Message)
			rows = append(rows, row)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if row, ok := locate(fs, n.Span); ok {
				row.label, row.id, row.msg = "note", d.Code.ID(), oneLine(n.Msg)
				rows = append(rows, row)
			}
		}
	}

	slices.SortStableFunc(rows, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.label, b.label),
			cmp.Compare(a.id, b.id),
			cmp.Compare(a.msg, b.msg),
		)
	})

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", r.label, r.id, r.path, r.pos.Line, r.pos.Col, r.msg)
	}
	return strings.Join(out, "\n")
}

func locate(fs *source.FileSet, span source.Span) (shortLine, bool) {
	if !fs.Has(span.File) {
		return shortLine{}, false
	}
	f := fs.Get(span.File)
	if int(span.Start) > len(f.Content) {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return shortLine{path: path, pos: start}, true
}

// oneLine folds line breaks into spaces.
func oneLine(msg string) string {
	msg = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}
