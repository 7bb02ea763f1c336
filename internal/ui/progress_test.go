package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"remap/internal/buildpipeline"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("remap", []string{"a.remap.toml", "b.remap.toml"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.remap.toml", Stage: buildpipeline.StageChain, Status: buildpipeline.StatusWorking})
	m.Update(eventMsg{File: "b.remap.toml", Stage: buildpipeline.StageEncode, Status: buildpipeline.StatusError})
	m.Update(eventMsg{File: "unknown", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})

	assert.Equal(t, "chaining", m.items[0].status)
	assert.Equal(t, "error", m.items[1].status)

	view := m.View()
	assert.Contains(t, view, "chaining")
	assert.Contains(t, view, "a.remap.toml")

	m.Update(doneMsg{})
	assert.True(t, m.done)
	assert.True(t, strings.Contains(m.View(), "done: remap"))
}

func TestProgressFromStage(t *testing.T) {
	assert.Zero(t, progressFromStage(buildpipeline.StageLoad))
	assert.Greater(t, progressFromStage(buildpipeline.StageEncode), progressFromStage(buildpipeline.StageBuild))
	assert.Zero(t, progressFromStage("other"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestProgressViewCountsFailures(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("remap", []string{"a", "b", "c"}, events).(*progressModel)

	m.Update(eventMsg{File: "a", Stage: buildpipeline.StageEncode, Status: buildpipeline.StatusDone})
	m.Update(eventMsg{File: "b", Stage: buildpipeline.StageEncode, Status: buildpipeline.StatusError, Err: assert.AnError})
	m.Update(eventMsg{Stage: buildpipeline.StageEncode, Status: buildpipeline.StatusWorking})

	done, failed := m.counts()
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, failed)
	assert.InDelta(t, 2.0/3.0, m.fraction(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "1/3 remapped")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "(encoding)")
}
