package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"remap/internal/diag"
	"remap/internal/diagfmt"
	"remap/internal/source"
)

type diagOutput struct {
	format    string
	withNotes bool
	fullPath  bool
}

func addDiagFlags(cmd *cobra.Command) {
	cmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|json|short)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in diagnostics")
}

func readDiagFlags(cmd *cobra.Command) (diagOutput, error) {
	var (
		out diagOutput
		err error
	)
	if out.format, err = cmd.Flags().GetString("diag-format"); err != nil {
		return out, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	if out.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return out, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if out.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return out, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	switch out.format {
	case "pretty", "json", "short":
	default:
		return out, fmt.Errorf("unknown diag-format: %s", out.format)
	}
	return out, nil
}

// print renders bag to w. Nothing is printed for an empty bag.
func (o diagOutput) print(cmd *cobra.Command, w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	pathMode := diagfmt.PathModeAuto
	if o.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch o.format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     o.withNotes,
		})
	case "short":
		if s := diag.FormatShortDiagnostics(bag.Items(), fs, o.withNotes); s != "" {
			_, err := fmt.Fprintln(w, s)
			return err
		}
		return nil
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: o.withNotes,
		})
		return nil
	}
}
