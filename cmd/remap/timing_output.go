package main

import (
	"fmt"
	"io"
	"time"

	"remap/internal/buildpipeline"
	"remap/internal/observ"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) error {
	if out == nil {
		return nil
	}
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%-7s %8.1f ms\n", stage, toMillis(timings.Duration(stage))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%-7s %8.1f ms\n", "total", toMillis(timings.Sum(buildpipeline.Stages...)))
	return err
}

// stageTimings folds one run's phase report into per-stage durations.
func stageTimings(report observ.Report) buildpipeline.Timings {
	var t buildpipeline.Timings
	for _, p := range report.Phases {
		t.Add(buildpipeline.Stage(p.Name), time.Duration(p.DurationMS*float64(time.Millisecond)))
	}
	return t
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
