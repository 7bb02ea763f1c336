package observ

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Phase is one timed stage; Dur stays zero until End.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks stage timings and integer counters of a remap run.
// Safe for concurrent use: batch workers share one Timer.
type Timer struct {
	mu       sync.Mutex
	phases   []Phase
	counters map[string]int
}

func NewTimer() *Timer {
	return &Timer{counters: make(map[string]int)}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Track is Begin with the matching End returned as a closure.
//
//	done := timer.Track("build")
//	defer done("")
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// Add increments a named counter.
func (t *Timer) Add(name string, n int) {
	if t == nil || n == 0 {
		return
	}
	t.mu.Lock()
	t.counters[name] += n
	t.mu.Unlock()
}

// Count returns the current value of a counter.
func (t *Timer) Count(name string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters[name]
}

// Summary renders Report as an aligned table for terminals.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			fmt.Fprintf(&sb, "  // %s", note)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	if len(r.Counters) != 0 {
		sb.WriteString("counters:\n")
		for _, c := range r.Counters {
			fmt.Fprintf(&sb, "  %-20s %7d\n", c.Name, c.Value)
		}
	}
	return sb.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// CounterReport is one counter in a Report.
type CounterReport struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS  float64         `json:"total_ms"`
	Phases   []PhaseReport   `json:"phases"`
	Counters []CounterReport `json:"counters,omitempty"`
}

// Report snapshots the timer. Phases keep start order, counters are
// sorted by name; TotalMS sums the phases.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var r Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	for _, name := range slices.Sorted(maps.Keys(t.counters)) {
		r.Counters = append(r.Counters, CounterReport{Name: name, Value: t.counters[name]})
	}
	return r
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
