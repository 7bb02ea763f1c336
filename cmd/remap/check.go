package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remap/internal/srcmap"
	"remap/internal/testkit"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] map.json",
	Short: "Verify the invariants of a source map",
	Long: `check decodes a V3 map and verifies that columns ascend on every line and
that mapped segments point inside the source. The source defaults to the
map's sourcesContent; --generated also checks that every code line starts
with a segment.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("source", "", "source file (default: sourcesContent[0])")
	checkCmd.Flags().String("generated", "", "generated file to check line coverage against")
}

func runCheck(cmd *cobra.Command, args []string) error {
	sourcePath, err := cmd.Flags().GetString("source")
	if err != nil {
		return fmt.Errorf("failed to get source flag: %w", err)
	}
	generatedPath, err := cmd.Flags().GetString("generated")
	if err != nil {
		return fmt.Errorf("failed to get generated flag: %w", err)
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

	var source, generated []string
	switch {
	case sourcePath != "":
		text, err := readText(sourcePath)
		if err != nil {
			return err
		}
		source = testkit.SplitLines(text)
	case len(m.SourcesContent) > 0:
		source = testkit.SplitLines(m.Content())
	}
	if generatedPath != "" {
		text, err := readText(generatedPath)
		if err != nil {
			return err
		}
		generated = testkit.SplitLines(text)
	}

	if err := testkit.CheckMap(lines, source, generated); err != nil {
		var v testkit.Violation
		for _, e := range unjoin(err) {
			if errors.As(e, &v) {
				fmt.Fprintf(os.Stdout, "%s:%d:%d: %s\n", args[0], v.Line+1, v.Col+1, v.Msg)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s: %v\n", args[0], e)
		}
		return failWithDiagnostics(cmd)
	}
	if source == nil {
		fmt.Fprintf(os.Stdout, "%s: ok (%d lines, source bounds not checked)\n", args[0], len(lines))
		return nil
	}
	fmt.Fprintf(os.Stdout, "%s: ok (%d lines)\n", args[0], len(lines))
	return nil
}

func readText(path string) (string, error) {
	// #nosec G304 -- path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unjoin flattens an errors.Join result.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
