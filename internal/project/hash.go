package project

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Hex returns the lowercase hex form.
func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }

// Short returns the first 12 hex digits, enough for file names and logs.
func (d Digest) Short() string { return d.Hex()[:12] }

// Combine строит общий хеш: H( first || d1 || d2 ... ).
// Порядок должен быть детерминированным.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Hasher accumulates length-prefixed fields, so that ("ab","c") and
// ("a","bc") never collide.
type Hasher struct {
	h hash.Hash
}

func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// String adds one field.
func (h *Hasher) String(s string) *Hasher {
	h.Int(len(s))
	_, _ = h.h.Write([]byte(s))
	return h
}

// Int adds one integer field.
func (h *Hasher) Int(n int) *Hasher {
	var buf [binary.MaxVarintLen64]byte
	k := binary.PutVarint(buf[:], int64(n))
	_, _ = h.h.Write(buf[:k])
	return h
}

// Sum returns the digest of everything added so far.
func (h *Hasher) Sum() Digest {
	var out Digest
	copy(out[:], h.h.Sum(nil))
	return out
}
