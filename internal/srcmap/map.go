package srcmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Map is the version 3 JSON envelope.
type Map struct {
	Version        int      `json:"version" msgpack:"version"`
	File           string   `json:"file,omitempty" msgpack:"file"`
	SourceRoot     string   `json:"sourceRoot,omitempty" msgpack:"source_root"`
	Sources        []string `json:"sources" msgpack:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty" msgpack:"sources_content"`
	Names          []string `json:"names" msgpack:"names"`
	Mappings       string   `json:"mappings" msgpack:"mappings"`
}

var (
	// ErrNoMappings is returned by ParseCoarse when the payload carries neither
	// a `mappings` string nor a `lines` table.
	ErrNoMappings = errors.New("source map has no mappings")
	// ErrVersion is returned for maps declaring a version other than 3.
	ErrVersion = errors.New("unsupported source map version")
)

// New assembles a single-source map from a segment table.
func New(file, source, content string, names []string, lines Lines) *Map {
	if names == nil {
		names = []string{}
	}
	return &Map{
		Version:        3,
		File:           file,
		Sources:        []string{source},
		SourcesContent: []string{content},
		Names:          names,
		Mappings:       lines.Encode(),
	}
}

// Lines decodes the mappings of m.
func (m *Map) Lines() (Lines, error) {
	if m == nil {
		return nil, ErrNoMappings
	}
	return Decode(m.Mappings)
}

// Content returns sourcesContent[0] or "".
func (m *Map) Content() string {
	if m == nil || len(m.SourcesContent) == 0 {
		return ""
	}
	return m.SourcesContent[0]
}

// MarshalIndent renders the map as indented JSON.
func (m *Map) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse reads a version 3 JSON map.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode source map: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("%w: %d", ErrVersion, m.Version)
	}
	if m.Names == nil {
		m.Names = []string{}
	}
	return &m, nil
}

// coarse is the union of shapes an upstream compiler may hand us.
type coarse struct {
	Version  *int      `json:"version"`
	Mappings *string   `json:"mappings"`
	Lines    [][][]int `json:"lines"`
	Names    []string  `json:"names"`
	Source   string    `json:"source"`
}

// Coarse is a decoded upstream (line-granularity) map.
type Coarse struct {
	Lines Lines
	Names []string
	// Source is the compiled-from text when the payload carries it.
	Source string
}

// ParseCoarse accepts either a v3 map or a raw `{"lines": [[[...]]]}` table.
func ParseCoarse(data []byte) (*Coarse, error) {
	var c coarse
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode upstream map: %w", err)
	}
	switch {
	case c.Lines != nil:
		lines, err := FromRaw(c.Lines)
		if err != nil {
			return nil, fmt.Errorf("decode upstream lines: %w", err)
		}
		return &Coarse{Lines: lines, Names: c.Names, Source: c.Source}, nil
	case c.Mappings != nil:
		if c.Version != nil && *c.Version != 3 {
			return nil, fmt.Errorf("%w: %d", ErrVersion, *c.Version)
		}
		lines, err := Decode(*c.Mappings)
		if err != nil {
			return nil, fmt.Errorf("decode upstream mappings: %w", err)
		}
		return &Coarse{Lines: lines, Names: c.Names, Source: c.Source}, nil
	default:
		return nil, ErrNoMappings
	}
}
