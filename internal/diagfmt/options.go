package diagfmt

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	PathModeAuto     PathMode = iota // relative under the base dir, absolute otherwise
	PathModeAbsolute                 // --fullpath
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	Context   int8 // lines of excerpt around the primary line
	PathMode  PathMode
	Width     uint8 // обрезка сообщений, 0 - без ограничения
	ShowNotes bool
}

// JSONOpts configures JSON and BuildDiagnosticsOutput.
type JSONOpts struct {
	IncludePositions bool // 1-based line/col next to the byte offsets
	PathMode         PathMode
	Max              int
	IncludeNotes     bool
}
