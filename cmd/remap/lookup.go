package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"remap/internal/srcmap"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [flags] map.json line col",
	Short: "Trace a generated position through a source map",
	Long: `lookup decodes map.json and resolves the generated position line:col
(both 1-based) the way map consumers do, reporting the exact segment at the
column as well.`,
	Args: cobra.ExactArgs(3),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type lookupOutput struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Hit    string `json:"hit"`
	Found  bool   `json:"found"`
	Source string `json:"source,omitempty"`
	SrcLn  int    `json:"source_line,omitempty"`
	SrcCol int    `json:"source_column,omitempty"`
	Name   string `json:"name,omitempty"`
	Text   string `json:"source_text,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	line, err := positiveArg(args[1], "line")
	if err != nil {
		return err
	}
	col, err := positiveArg(args[2], "col")
	if err != nil {
		return err
	}

	// #nosec G304 -- path comes from the command line
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	m, err := srcmap.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	lines, err := m.Lines()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out := lookupOutput{Line: line, Column: col}
	_, hit := lines.At(line-1, col-1)
	out.Hit = hit.String()
	if seg, ok := lines.Lookup(line-1, col-1); ok {
		out.Found = true
		out.SrcLn = seg.SrcLine + 1
		out.SrcCol = seg.SrcCol + 1
		if seg.Source >= 0 && seg.Source < len(m.Sources) {
			out.Source = m.Sources[seg.Source]
		}
		if seg.HasName() && seg.Name < len(m.Names) {
			out.Name = m.Names[seg.Name]
		}
		if seg.Source == 0 {
			out.Text = sourceLine(m.Content(), seg.SrcLine)
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "pretty":
		if !out.Found {
			fmt.Fprintf(os.Stdout, "%d:%d -> unmapped (%s)\n", line, col, out.Hit)
			return nil
		}
		fmt.Fprintf(os.Stdout, "%d:%d -> %s:%d:%d (%s)", line, col, out.Source, out.SrcLn, out.SrcCol, out.Hit)
		if out.Name != "" {
			fmt.Fprintf(os.Stdout, " name=%s", out.Name)
		}
		fmt.Fprintln(os.Stdout)
		if out.Text != "" {
			fmt.Fprintf(os.Stdout, "%5d | %s\n", out.SrcLn, out.Text)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func positiveArg(s, name string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return n, nil
}

func sourceLine(content string, n int) string {
	lines := strings.Split(content, "\n")
	if n < 0 || n >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n], "\r")
}
