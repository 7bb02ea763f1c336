package driver

import (
	"fmt"
	"os"

	"remap/internal/host"
	"remap/internal/project"
)

// blockInput is one [[block]] of a job with its files read.
type blockInput struct {
	code    string
	coarse  []byte // nil when the block has no map
	anchors []byte // nil selects the built-in collector
	err     *host.CompileError
}

// inputs holds every byte a job reads.
type inputs struct {
	doc    []byte
	blocks []blockInput
	base   []byte
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	// #nosec G304 -- paths come from the job manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func loadInputs(job *project.Job, doc []byte) (*inputs, error) {
	in := &inputs{doc: doc, blocks: make([]blockInput, len(job.Blocks))}
	for i, b := range job.Blocks {
		bi := &in.blocks[i]
		bi.err = b.Error
		if b.Error != nil {
			continue
		}
		code, err := readOptional(b.Code)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		bi.code = string(code)
		if bi.coarse, err = readOptional(b.Map); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if bi.anchors, err = readOptional(b.Anchors); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}
	base, err := readOptional(job.BaseMap)
	if err != nil {
		return nil, fmt.Errorf("base map: %w", err)
	}
	in.base = base
	return in, nil
}

// digest keys the disk cache: everything the output depends on.
func (in *inputs) digest(job *project.Job, config project.Digest) project.Digest {
	h := project.NewHasher().
		String(job.File).
		String(string(in.doc)).
		Int(len(in.blocks))
	for _, b := range in.blocks {
		h.String(b.code).String(string(b.coarse)).String(string(b.anchors))
		if b.err != nil {
			h.Int(1).Int(b.err.Offset).String(b.err.Message)
		} else {
			h.Int(0)
		}
	}
	h.String(string(in.base))
	return project.Combine(config, h.Sum())
}
