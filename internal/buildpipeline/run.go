package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"remap/internal/diag"
	"remap/internal/driver"
)

// Request configures a batch run.
type Request struct {
	Engine *driver.Engine
	// Jobs are job manifest paths.
	Jobs []string
	// BaseDir makes displayed file names relative; empty keeps them as is.
	BaseDir        string
	Workers        int
	MaxDiagnostics int
	Cache          *driver.DiskCache
	Write          bool
	Stats          bool
	Timings        bool
	Progress       ProgressSink
}

// Outcome captures the per-job results and the stage timings summed over
// the batch.
type Outcome struct {
	Results []driver.BatchResult
	Timings Timings
	Failed  int
}

// Run remaps every job of req, reporting progress to req.Progress. Events
// come from worker goroutines; the sink must be safe for concurrent use.
func Run(ctx context.Context, req *Request) (*Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return nil, errors.New("missing batch request")
	}

	names := make(map[string]string, len(req.Jobs))
	for _, p := range req.Jobs {
		names[p] = DisplayName(p, req.BaseDir)
	}
	emitQueued(req.Progress, DisplayFiles(req.Jobs, req.BaseDir))

	var (
		mu  sync.Mutex
		out = &Outcome{}
	)
	opts := driver.BatchOptions{
		Options: driver.Options{
			MaxDiagnostics: req.MaxDiagnostics,
			Cache:          req.Cache,
			Stats:          req.Stats,
			Timings:        req.Timings,
		},
		Jobs:  req.Workers,
		Write: req.Write,
		OnStart: func(path string) {
			emit(req.Progress, Event{File: names[path], Stage: StageLoad, Status: StatusWorking})
		},
		OnPhase: func(path string, ev driver.PhaseEvent) {
			if ev.Status != driver.PhaseStart {
				return
			}
			emit(req.Progress, Event{File: names[path], Stage: Stage(ev.Name), Status: StatusWorking})
		},
		OnDone: func(path string, res *driver.BatchResult) {
			evt := Event{File: names[path], Stage: StageEncode, Status: StatusDone}
			if res.Failed() {
				evt.Status = StatusError
				evt.Err = firstError(res)
			}
			if res.Result != nil {
				evt.Elapsed = durationFromMillis(res.Result.Timing.TotalMS)
				mu.Lock()
				recordTimings(&out.Timings, res.Result)
				mu.Unlock()
			}
			emit(req.Progress, evt)
		},
	}

	start := time.Now()
	results, err := driver.RemapBatch(ctx, req.Engine, req.Jobs, opts)
	out.Results = results
	for i := range results {
		if results[i].Failed() {
			out.Failed++
		}
	}
	status := StatusDone
	if err != nil || out.Failed > 0 {
		status = StatusError
	}
	emit(req.Progress, Event{Stage: StageEncode, Status: status, Err: err, Elapsed: time.Since(start)})
	return out, err
}

func firstError(res *driver.BatchResult) error {
	if res.Bag == nil {
		return errors.New("failed")
	}
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevError {
			return fmt.Errorf("%s: %s", d.Code.ID(), d.Message)
		}
	}
	return errors.New("failed")
}

func recordTimings(t *Timings, res *driver.Result) {
	for _, p := range res.Timing.Phases {
		t.Add(Stage(p.Name), durationFromMillis(p.DurationMS))
	}
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// DisplayName returns path relative to baseDir when it lies under it.
func DisplayName(path, baseDir string) string {
	p := filepath.Clean(path)
	if base := strings.TrimSpace(baseDir); base != "" {
		if rel, err := filepath.Rel(base, p); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	return filepath.ToSlash(p)
}

// DisplayFiles maps paths through DisplayName, keeping their order.
func DisplayFiles(paths []string, baseDir string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = DisplayName(p, baseDir)
	}
	return out
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageLoad, Status: StatusQueued})
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
