package buildpipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = "<script lang=\"civet\">\nx := 1\n</script>\n"

func writeJobs(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"page.svelte":    page,
		"block.ts":       "const x = 1\n",
		"block.json":     `{"lines": [[[0, 0, 0, 0]]]}`,
		"ok.remap.toml":  "host = \"page.svelte\"\n[[block]]\ncode = \"block.ts\"\nmap = \"block.json\"\n",
		"bad.remap.toml": "output = \"x.map\"\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	return dir, []string{filepath.Join(dir, "bad.remap.toml"), filepath.Join(dir, "ok.remap.toml")}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recorder) last(file string) Event {
	var out Event
	for _, e := range r.events {
		if e.File == file {
			out = e
		}
	}
	return out
}

func TestRunReportsProgress(t *testing.T) {
	dir, jobs := writeJobs(t)
	rec := &recorder{}
	out, err := Run(context.Background(), &Request{
		Jobs:     jobs,
		BaseDir:  dir,
		Workers:  1,
		Progress: rec,
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, 1, out.Failed)

	assert.Equal(t, StatusQueued, rec.events[0].Status)
	assert.Equal(t, "bad.remap.toml", rec.events[0].File)

	bad := rec.last("bad.remap.toml")
	assert.Equal(t, StatusError, bad.Status)
	assert.Error(t, bad.Err)

	ok := rec.last("ok.remap.toml")
	assert.Equal(t, StatusDone, ok.Status)

	final := rec.events[len(rec.events)-1]
	assert.Empty(t, final.File)
	assert.Equal(t, StatusError, final.Status)

	for _, stage := range Stages {
		assert.True(t, out.Timings.Has(stage), "stage %s", stage)
	}
}

func TestRunWorkingStagesFollowPhases(t *testing.T) {
	dir, jobs := writeJobs(t)
	var stages []Stage
	sink := FuncSink(func(e Event) {
		if e.File == "ok.remap.toml" && e.Status == StatusWorking {
			stages = append(stages, e.Stage)
		}
	})
	// одно задание: события приходят последовательно
	_, err := Run(context.Background(), &Request{Jobs: jobs[1:], BaseDir: dir, Progress: sink, Workers: 1})
	require.NoError(t, err)

	// OnStart reports load before the pipeline does
	assert.Equal(t, append([]Stage{StageLoad}, Stages...), stages)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "a/b.remap.toml", DisplayName("/x/a/b.remap.toml", "/x"))
	assert.Equal(t, "/y/b.remap.toml", DisplayName("/y/b.remap.toml", "/x"))
	assert.Equal(t, "b.remap.toml", DisplayName("b.remap.toml", ""))
}

func TestTimings(t *testing.T) {
	var tm Timings
	assert.False(t, tm.Has(StageBuild))
	tm.Add(StageBuild, 2)
	tm.Add(StageBuild, 3)
	tm.Set(StageChain, 4)
	assert.EqualValues(t, 5, tm.Duration(StageBuild))
	assert.EqualValues(t, 9, tm.Sum(StageBuild, StageChain))
	assert.Equal(t, 2, StageBuild.Index())
	assert.Equal(t, -1, Stage("other").Index())
}
