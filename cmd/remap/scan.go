package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"remap/internal/literal"
	"remap/internal/locate"
	"remap/internal/testkit"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] file",
	Short: "Show literal, interpolation and comment ranges of dialect source",
	Long: `scan prints, for every line of a dialect source file, the byte ranges the
engine treats as string literal, interpolation expression or comment, plus a
mask row where s marks string bytes and c marks comment bytes across lines.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type scanLine struct {
	Line     int                `json:"line"`
	Literals []literal.Range    `json:"literals,omitempty"`
	Interps  []literal.Range    `json:"interps,omitempty"`
	Comments []literal.Range    `json:"comments,omitempty"`
	Holes    []locate.InterpTok `json:"holes,omitempty"`
	Mask     string             `json:"mask,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	text, err := readText(args[0])
	if err != nil {
		return err
	}
	lines := testkit.SplitLines(text)
	masks := literal.BuildMasks(lines)

	out := make([]scanLine, len(lines))
	for n, line := range lines {
		info := literal.Scan(line)
		out[n] = scanLine{
			Line:     n + 1,
			Literals: info.Literals,
			Interps:  info.Interps,
			Comments: info.Comments,
			Mask:     maskRow(masks, n, len(line)),
		}
		if info.HasInterps() {
			out[n].Holes = locate.ScanInterp(line)
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "pretty":
		return printScan(os.Stdout, lines, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func maskRow(m *literal.Masks, line, width int) string {
	var sb strings.Builder
	marked := false
	for col := range width {
		switch {
		case m.InComment(line, col):
			sb.WriteByte('c')
			marked = true
		case m.InString(line, col):
			sb.WriteByte('s')
			marked = true
		default:
			sb.WriteByte(' ')
		}
	}
	if !marked {
		return ""
	}
	return strings.TrimRight(sb.String(), " ")
}

func printScan(w io.Writer, lines []string, out []scanLine) error {
	for n, sl := range out {
		if _, err := fmt.Fprintf(w, "%5d | %s\n", sl.Line, lines[n]); err != nil {
			return err
		}
		if sl.Mask != "" {
			fmt.Fprintf(w, "      | %s\n", sl.Mask)
		}
		for _, row := range []struct {
			label  string
			ranges []literal.Range
		}{
			{"literal", sl.Literals},
			{"interp", sl.Interps},
			{"comment", sl.Comments},
		} {
			if len(row.ranges) == 0 {
				continue
			}
			parts := make([]string, len(row.ranges))
			for i, r := range row.ranges {
				parts[i] = fmt.Sprintf("%d-%d", r.Start, r.End)
			}
			fmt.Fprintf(w, "      %-8s %s\n", row.label+":", strings.Join(parts, " "))
		}
		if len(sl.Holes) > 0 {
			parts := make([]string, len(sl.Holes))
			for i, h := range sl.Holes {
				parts[i] = fmt.Sprintf("%s@%d/%d", h.Text, h.Pos, h.Depth)
			}
			fmt.Fprintf(w, "      %-8s %s\n", "holes:", strings.Join(parts, " "))
		}
	}
	return nil
}
