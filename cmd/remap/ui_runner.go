package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"remap/internal/buildpipeline"
	"remap/internal/ui"
)

type batchOutcome struct {
	result *buildpipeline.Outcome
	err    error
}

// runBatchWithUI runs the batch in the background and drives the progress
// view from its events until the batch finishes.
func runBatchWithUI(ctx context.Context, title string, req *buildpipeline.Request) (*buildpipeline.Outcome, error) {
	if req == nil {
		return nil, errors.New("missing batch request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Run(ctx, &reqCopy)
		outcomeCh <- batchOutcome{result: res, err: err}
		close(events)
	}()

	files := buildpipeline.DisplayFiles(req.Jobs, req.BaseDir)
	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
