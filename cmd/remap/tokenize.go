package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remap/internal/diagfmt"
	"remap/internal/driver"
	"remap/internal/testkit"
	"remap/internal/tokindex"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Tokenize generated code, or index dialect source with --index",
	Long: `tokenize runs the generated-code lexer over a file and prints its tokens.
With --index it prints the flat word/punctuation index the locator uses for
dialect source instead. A file of "-" reads generated code from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("index", false, "print the dialect token index")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	index, err := cmd.Flags().GetBool("index")
	if err != nil {
		return fmt.Errorf("failed to get index flag: %w", err)
	}
	if index {
		return printTokenIndex(filePath, format)
	}

	maxDiagnostics, err := persistentInt(cmd, "max-diagnostics")
	if err != nil {
		return err
	}
	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		})
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func printTokenIndex(path, format string) error {
	text, err := readText(path)
	if err != nil {
		return err
	}
	lines := testkit.SplitLines(text)
	var toks []tokindex.Token
	for n, line := range lines {
		toks = append(toks, tokindex.Line(n, line)...)
	}
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(toks)
	case "pretty":
		for i, t := range toks {
			fmt.Fprintf(os.Stdout, "%4d: %-5s %q at %d:%d\n", i+1, t.Kind, t.Text, t.Line+1, t.Col+1)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
