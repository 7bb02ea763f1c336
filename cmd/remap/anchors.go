package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remap/internal/diagfmt"
	"remap/internal/driver"
)

var anchorsCmd = &cobra.Command{
	Use:   "anchors [flags] file",
	Short: "List the anchors the collector finds in generated code",
	Long: `anchors prints the mappable spans of a generated-code file after overlap
removal. The JSON form is the anchors file format a job block accepts.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnchors,
}

func init() {
	anchorsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runAnchors(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := persistentInt(cmd, "max-diagnostics")
	if err != nil {
		return err
	}
	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 1,
		})
	}

	switch format {
	case "pretty":
		return diagfmt.FormatAnchorsPretty(os.Stdout, result.Anchors)
	case "json":
		return diagfmt.FormatAnchorsJSON(os.Stdout, result.Anchors)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
