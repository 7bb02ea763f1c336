package diag

import (
	"cmp"
	"math"
	"slices"
)

// Bag collects the diagnostics of one job up to a limit. Not safe for
// concurrent use; batch jobs each own a Bag.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag returns a Bag holding at most max diagnostics; max <= 0 means
// math.MaxUint16.
func NewBag(max int) *Bag {
	if max <= 0 || max > math.MaxUint16 {
		max = math.MaxUint16
	}
	return &Bag{items: make([]Diagnostic, 0, min(max, 64)), max: max}
}

// Add appends d and reports false once the limit is reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Worst returns the highest severity present and false for an empty bag.
func (b *Bag) Worst() (Severity, bool) {
	if len(b.items) == 0 {
		return SevInfo, false
	}
	worst := SevInfo
	for i := range b.items {
		worst = max(worst, b.items[i].Severity)
	}
	return worst, true
}

func (b *Bag) HasErrors() bool {
	sev, ok := b.Worst()
	return ok && sev >= SevError
}

func (b *Bag) HasWarnings() bool {
	sev, ok := b.Worst()
	return ok && sev >= SevWarning
}

// Merge appends everything from other, raising the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.max = max(b.max, min(len(b.items)+len(other.items), math.MaxUint16))
	b.items = append(b.items, other.items...)
}

// Sort orders by file and span, errors before warnings at the same span,
// then by code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops repeats of an earlier diagnostic, keeping the first.
func (b *Bag) Dedup() {
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := d.key()
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
