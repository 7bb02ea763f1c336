package anchor

import (
	"encoding/json"
	"fmt"
)

// ParseJSON decodes anchors produced by an external syntax-tree walker:
// an array of {text, start:{line,character}, end, kind, inInterpolation?, allowLiteral?}.
func ParseJSON(data []byte) ([]Anchor, error) {
	var anchors []Anchor
	if err := json.Unmarshal(data, &anchors); err != nil {
		return nil, fmt.Errorf("decode anchors: %w", err)
	}
	for i, a := range anchors {
		if a.Start.Line < 0 || a.Start.Char < 0 || a.End.Less(a.Start) {
			return nil, fmt.Errorf("anchor %d (%q): bad range %d:%d-%d:%d",
				i, a.Text, a.Start.Line, a.Start.Char, a.End.Line, a.End.Char)
		}
	}
	return Dedupe(anchors), nil
}

// Static is a Source that ignores the code and returns a fixed list,
// used when anchors come from a file.
type Static []Anchor

// Anchors implements Source.
func (s Static) Anchors(string) ([]Anchor, error) { return s, nil }
