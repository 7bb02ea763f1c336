package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level includes the scopes of the
// previous one.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // only the ring dump on a crash
	LevelPhase        // jobs and engine stages
	LevelDetail       // plus embedded blocks
	LevelDebug        // plus every generated line
)

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one job
	ScopePass                    // scan, build, merge, chain
	ScopeBlock                   // one embedded block
	ScopeLine                    // one generated line
)

// Kind is the type of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // last N kept in memory
	ModeBoth
)

var (
	levelNames = []string{"off", "error", "phase", "detail", "debug"}
	scopeNames = []string{"", "driver", "pass", "block", "line"}
	kindNames  = []string{"", "begin", "end", "point", "heartbeat"}
	modeNames  = []string{"", "stream", "ring", "both"}
)

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) || names[i] == "" {
		return "unknown"
	}
	return names[i]
}

// indexOf ищет имя без учёта регистра; пустые слоты таблицы не совпадают.
func indexOf(names []string, s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n != "" && n == s {
			return i, true
		}
	}
	return 0, false
}

func (l Level) String() string       { return nameOf(levelNames, int(l)) }
func (s Scope) String() string       { return nameOf(scopeNames, int(s)) }
func (k Kind) String() string        { return nameOf(kindNames, int(k)) }
func (m StorageMode) String() string { return nameOf(modeNames, int(m)) }

// ParseLevel accepts off|error|phase|detail|debug in any case.
func ParseLevel(s string) (Level, error) {
	i, ok := indexOf(levelNames, s)
	if !ok {
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
	}
	return Level(i), nil
}

// ParseMode accepts stream|ring|both.
func ParseMode(s string) (StorageMode, error) {
	i, ok := indexOf(modeNames, s)
	if !ok {
		return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
	}
	return StorageMode(i), nil
}

// ShouldEmit reports whether events of scope pass at this level. LevelError
// records nothing up front; its events come from the crash dump path.
func (l Level) ShouldEmit(scope Scope) bool {
	if l < LevelPhase {
		return false
	}
	// phase -> pass, detail -> block, debug -> line
	return int(scope) <= int(l)
}
