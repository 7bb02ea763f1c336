package project

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"remap/internal/host"
)

// JobSuffix marks job manifests.
const JobSuffix = ".remap.toml"

var (
	// ErrJobHostMissing indicates a job manifest without `host`.
	ErrJobHostMissing = errors.New("missing host")
	// ErrJobBlockEmpty indicates a [[block]] with neither code nor error.
	ErrJobBlockEmpty = errors.New("block needs code or error")
)

// JobBlock is what the dialect compiler produced for one embedded block.
type JobBlock struct {
	Code    string             `toml:"code"`
	Map     string             `toml:"map"`
	Anchors string             `toml:"anchors"`
	Error   *host.CompileError `toml:"error"`
}

// Job describes one host document to remap. Relative paths are resolved
// against the manifest's directory by LoadJob.
type Job struct {
	Path string `toml:"-"`

	Host string `toml:"host"`
	// Output receives the final map; empty prints it.
	Output string `toml:"output"`
	// BaseMap maps the final generated text to the merged document; without
	// it the map of the merged document itself is produced.
	BaseMap string `toml:"base_map"`
	// Merged, if set, receives the merged document.
	Merged string `toml:"merged"`
	// File is the `file` field of the produced map.
	File string `toml:"file"`

	Blocks []JobBlock `toml:"block"`
}

// Name returns the manifest base name without its suffix.
func (j *Job) Name() string {
	return strings.TrimSuffix(filepath.Base(j.Path), JobSuffix)
}

// LoadJob parses a job manifest.
func LoadJob(path string) (*Job, error) {
	var job Job
	meta, err := toml.DecodeFile(path, &job)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("host") || strings.TrimSpace(job.Host) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrJobHostMissing)
	}
	dir := filepath.Dir(path)
	job.Path = path
	job.Host = resolve(dir, job.Host)
	job.Output = resolve(dir, job.Output)
	job.BaseMap = resolve(dir, job.BaseMap)
	job.Merged = resolve(dir, job.Merged)
	for i := range job.Blocks {
		b := &job.Blocks[i]
		if b.Code == "" && b.Error == nil {
			return nil, fmt.Errorf("%s: block %d: %w", path, i, ErrJobBlockEmpty)
		}
		b.Code = resolve(dir, b.Code)
		b.Map = resolve(dir, b.Map)
		b.Anchors = resolve(dir, b.Anchors)
	}
	if job.File == "" {
		job.File = filepath.Base(job.Host)
	}
	return &job, nil
}

func resolve(dir, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

// FindJobs lists every job manifest under root, sorted.
func FindJobs(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), JobSuffix) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
