// Package vlq implements the base64 variable-length quantity encoding used by
// version 3 source maps.
package vlq

import (
	"errors"
	"fmt"
	"strings"
)

const (
	shift        = 5
	continuation = 1 << shift // 0b100000
	mask         = continuation - 1
	alphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
)

// ErrTruncated is returned when a value ends in the middle of a continuation run.
var ErrTruncated = errors.New("vlq: truncated value")

var decodeTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	return t
}()

// Append encodes v and appends it to b.
func Append(b *strings.Builder, v int) {
	// знак уходит в младший бит
	var u uint64
	if v < 0 {
		u = uint64(-v)<<1 | 1
	} else {
		u = uint64(v) << 1
	}
	for {
		digit := u & mask
		u >>= shift
		if u > 0 {
			digit |= continuation
		}
		b.WriteByte(alphabet[digit])
		if u == 0 {
			return
		}
	}
}

// Encode returns the encoding of all values concatenated.
func Encode(values ...int) string {
	var b strings.Builder
	for _, v := range values {
		Append(&b, v)
	}
	return b.String()
}

// Decoder reads successive values from one segment string.
type Decoder struct {
	s   string
	pos int
}

// NewDecoder creates a decoder over s.
func NewDecoder(s string) *Decoder {
	return &Decoder{s: s}
}

// More reports whether unread input remains.
func (d *Decoder) More() bool { return d.pos < len(d.s) }

// Next decodes one value.
func (d *Decoder) Next() (int, error) {
	var u uint64
	var sh uint
	for {
		if d.pos >= len(d.s) {
			return 0, ErrTruncated
		}
		c := d.s[d.pos]
		digit := decodeTable[c]
		if digit < 0 {
			return 0, fmt.Errorf("vlq: invalid character %q at %d", c, d.pos)
		}
		d.pos++
		if sh > 60 {
			return 0, fmt.Errorf("vlq: value overflows 64 bits at %d", d.pos)
		}
		u |= uint64(digit&mask) << sh
		sh += shift
		if digit&continuation == 0 {
			break
		}
	}
	neg := u&1 == 1
	u >>= 1
	if u > 1<<62 {
		return 0, fmt.Errorf("vlq: value out of range at %d", d.pos)
	}
	v := int(u)
	if neg {
		v = -v
	}
	return v, nil
}

// Decode decodes every value in s.
func Decode(s string) ([]int, error) {
	d := NewDecoder(s)
	out := make([]int, 0, 5)
	for d.More() {
		v, err := d.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
