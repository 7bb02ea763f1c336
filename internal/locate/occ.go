package locate

import (
	"fmt"

	"remap/internal/anchor"
)

// OccKey identifies a repeated token on one source line.
type OccKey struct {
	Line int
	Kind anchor.Kind
	Text string
}

func (k OccKey) String() string { return fmt.Sprintf("%d:%s:%s", k.Line, k.Kind, k.Text) }

// Occurrences counts consumed matches per key. The Nth lookup of a key
// selects the Nth textual match, so repeats resolve left to right.
type Occurrences map[OccKey]int

func (o Occurrences) Get(k OccKey) int { return o[k] }

// Set stores n for k.
func (o Occurrences) Set(k OccKey, n int) { o[k] = n }

// Bump increments k and returns the new value.
func (o Occurrences) Bump(k OccKey) int {
	o[k]++
	return o[k]
}
