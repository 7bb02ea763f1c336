package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("scan")
	done("3 lines")
	idx := tm.Begin("build")
	tm.End(idx, "")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(rep.Phases))
	}
	if rep.Phases[0].Name != "scan" || rep.Phases[0].Note != "3 lines" {
		t.Errorf("unexpected first phase: %+v", rep.Phases[0])
	}
	if !strings.Contains(tm.Summary(), "// 3 lines") {
		t.Errorf("summary lacks note:\n%s", tm.Summary())
	}
}

func TestTimerCountersConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				tm.Add("mapped", 1)
			}
			tm.Add("dropped", 2)
		}()
	}
	wg.Wait()

	if got := tm.Count("mapped"); got != 800 {
		t.Errorf("mapped = %d, want 800", got)
	}
	rep := tm.Report()
	if len(rep.Counters) != 2 || rep.Counters[0].Name != "dropped" || rep.Counters[0].Value != 16 {
		t.Errorf("unexpected counters: %+v", rep.Counters)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	tm.Add("a", 1)
	if tm.Count("a") != 0 || len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer recorded data")
	}
}
