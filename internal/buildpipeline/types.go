// Package buildpipeline runs batches of remap jobs and turns their phase
// callbacks into progress events for the terminal UI.
package buildpipeline

import (
	"slices"
	"time"

	"remap/internal/driver"
)

// Stage is a phase of one job; the values are the driver's phase names.
type Stage string

const (
	StageLoad   Stage = driver.PhaseLoad   // manifest and every file it names
	StageScan   Stage = driver.PhaseScan   // embedded blocks of the host
	StageBuild  Stage = driver.PhaseBuild  // dense map per block
	StageMerge  Stage = driver.PhaseMerge  // compiled blocks spliced into the host
	StageChain  Stage = driver.PhaseChain  // chain with the base map, or embed
	StageEncode Stage = driver.PhaseEncode // final V3 map
)

// Stages lists every stage in run order.
var Stages = []Stage{StageLoad, StageScan, StageBuild, StageMerge, StageChain, StageEncode}

// Index is the position of s in Stages, -1 for unknown names.
func (s Stage) Index() int {
	return slices.Index(Stages, s)
}

// Status is where a job stands.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of one job, or of the whole batch when File is
// empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings sums stage durations over a batch. The zero value is ready.
type Timings struct {
	stages map[Stage]time.Duration
}

// Set overwrites the duration of stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = map[Stage]time.Duration{}
	}
	t.stages[stage] = dur
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t != nil {
		t.Set(stage, t.Duration(stage)+dur)
	}
}

func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum totals the given stages; recorded ones only.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.stages[s]
	}
	return total
}
