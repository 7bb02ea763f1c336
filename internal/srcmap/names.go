package srcmap

import "slices"

// Names is an insertion-ordered string table for the `names` field.
type Names struct {
	byID  []string
	index map[string]int
}

func NewNames() *Names {
	return &Names{index: make(map[string]int)}
}

// Add вставляет имя и возвращает его индекс; повторная вставка отдаёт старый.
func (n *Names) Add(s string) int {
	if id, ok := n.index[s]; ok {
		return id
	}
	id := len(n.byID)
	n.byID = append(n.byID, s)
	n.index[s] = id
	return id
}

// Index returns the index of s when present.
func (n *Names) Index(s string) (int, bool) {
	id, ok := n.index[s]
	return id, ok
}

// Lookup returns the name at id.
func (n *Names) Lookup(id int) (string, bool) {
	if id < 0 || id >= len(n.byID) {
		return "", false
	}
	return n.byID[id], true
}

func (n *Names) Len() int { return len(n.byID) }

// Slice returns a copy of the table in index order.
func (n *Names) Slice() []string {
	if len(n.byID) == 0 {
		return []string{}
	}
	return slices.Clone(n.byID)
}
