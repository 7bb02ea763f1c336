package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"remap/internal/diag"
	"remap/internal/source"
)

// WriteOutputs writes the map and the merged document to the paths named by
// the job. Empty paths are skipped. Failures are also reported in res.Bag.
func WriteOutputs(res *Result) error {
	if res == nil || res.Map == nil {
		return nil
	}
	job := res.Job
	if job.Output != "" && job.Output != "-" {
		data, err := res.Map.MarshalIndent()
		if err == nil {
			err = writeFile(job.Output, data)
		}
		if err != nil {
			return reportWrite(res, job.Output, err)
		}
	}
	if job.Merged != "" {
		if err := writeFile(job.Merged, []byte(res.Merged)); err != nil {
			return reportWrite(res, job.Merged, err)
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func reportWrite(res *Result, path string, err error) error {
	err = fmt.Errorf("write %s: %w", path, err)
	res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: res.HostID}, err.Error()))
	return err
}
