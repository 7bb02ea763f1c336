package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"remap/internal/diag"
	"remap/internal/source"
)

type palette struct {
	sev   map[diag.Severity]*color.Color
	caret *color.Color
	note  *color.Color
	dim   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan),
		},
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
		dim:   color.New(color.Faint),
	}
	all := []*color.Color{p.caret, p.note, p.dim}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := pal.sev[d.Severity]
		if sev == nil {
			sev = pal.dim
		}
		head := fmt.Sprintf("%s %s", sev.Sprint(d.Severity.String()), d.Code.ID())
		lines := strings.Split(strings.TrimRight(d.Message, "\n"), "\n")
		if loc, ok := location(fs, d.Primary, opts.PathMode); ok {
			fmt.Fprintf(w, "%s: %s: %s\n", loc, head, clip(lines[0], opts.Width))
		} else {
			fmt.Fprintf(w, "%s: %s\n", head, clip(lines[0], opts.Width))
		}
		for _, l := range lines[1:] {
			fmt.Fprintf(w, "    %s\n", clip(l, opts.Width))
		}
		excerpt(w, fs, d.Primary, opts, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if loc, ok := location(fs, n.Span, opts.PathMode); ok && !n.Span.Empty() {
				fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), loc, n.Msg)
				excerpt(w, fs, n.Span, opts, pal)
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
		}
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) (string, bool) {
	if !fs.Has(span.File) {
		return "", false
	}
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col), true
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// excerpt prints the span's first line with Context lines around it and a
// ^~~~ underline. Empty spans at offset 0 of a file (whole-file problems)
// print nothing.
func excerpt(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, pal palette) {
	if !fs.Has(span.File) || (span.Start == 0 && span.End == 0) {
		return
	}
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	first := int(start.Line) - int(opts.Context)
	last := int(start.Line) + int(opts.Context)
	count := f.LineCount()

	for n := max(first, 1); n <= min(last, count); n++ {
		text := strings.TrimRight(f.GetLine(uint32(n)), "\r\n")
		fmt.Fprintf(w, "%s %s\n", pal.dim.Sprintf("%5d |", n), clip(text, opts.Width))
		if n != int(start.Line) {
			continue
		}
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			width = int(end.Col - start.Col)
		} else if end.Line != start.Line {
			width = max(len(text)-int(start.Col)+1, 1)
		}
		pad := strings.Repeat(" ", int(start.Col)-1)
		mark := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.dim.Sprint("      |"), pad, pal.caret.Sprint(mark))
	}
}

func clip(s string, width uint8) string {
	if width == 0 || len(s) <= int(width) {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
