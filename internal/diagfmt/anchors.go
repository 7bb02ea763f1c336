package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"remap/internal/anchor"
)

// FormatAnchorsPretty выводит якоря по одному на строку, позиции 1-based.
func FormatAnchorsPretty(w io.Writer, anchors []anchor.Anchor) error {
	for i, a := range anchors {
		if _, err := fmt.Fprintf(w, "%3d: %-18s %q at %d:%d-%d:%d",
			i+1, a.Kind.String(), a.Text,
			a.Start.Line+1, a.Start.Char+1,
			a.End.Line+1, a.End.Char+1); err != nil {
			return err
		}
		if a.InInterpolation {
			if _, err := io.WriteString(w, " (interp)"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// FormatAnchorsJSON выводит якоря в том же JSON, что читает anchor.ParseJSON.
func FormatAnchorsJSON(w io.Writer, anchors []anchor.Anchor) error {
	if anchors == nil {
		anchors = []anchor.Anchor{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(anchors)
}
