// Package prof wraps pprof and the runtime tracer for the CLI's profiling
// flags.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options names the outputs to produce; empty paths are skipped.
type Options struct {
	CPU   string
	Trace string
	Mem   string // heap profile, written by Stop
}

// Session is a running set of profilers.
type Session struct {
	opts    Options
	cpu     *os.File
	tracing *os.File
	stopped bool
}

// Start begins CPU profiling and runtime tracing as requested. On error
// everything already started is stopped again.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpu = f
	}
	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err == nil {
			if err = trace.Start(f); err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			s.halt()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.tracing = f
	}
	return s, nil
}

func (s *Session) halt() error {
	var errs []error
	if s.tracing != nil {
		trace.Stop()
		errs = append(errs, s.tracing.Close())
		s.tracing = nil
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpu.Close())
		s.cpu = nil
	}
	return errors.Join(errs...)
}

// Stop ends the profilers and writes the heap profile. Repeated calls do
// nothing.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	err := s.halt()
	if s.opts.Mem != "" {
		err = errors.Join(err, writeHeap(s.opts.Mem))
	}
	return err
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
