package lexer

import (
	"fortio.org/safecast"

	"remap/internal/source"
)

// Cursor is a byte position in a file. Spans handed out by the lexer are
// byte ranges, which is what anchor positions are derived from.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // exclusive
}

// Mark is a saved offset; SpanFrom turns it into the span read since.
type Mark uint32

// NewCursor starts at offset 0. Files over 4 GiB are cut at the limit.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		limit = ^uint32(0)
	}
	return Cursor{File: f, Limit: limit}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the current byte, 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 returns the current and next byte; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	rest := c.File.Content[c.Off:c.Limit]
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// Bump consumes one byte and returns it, 0 at EOF.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// BumpN consumes up to n bytes.
func (c *Cursor) BumpN(n int) {
	step, err := safecast.Conv[uint32](max(n, 0))
	if err != nil || step > c.Limit-c.Off {
		step = c.Limit - c.Off
	}
	c.Off += step
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}
