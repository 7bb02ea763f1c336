package trace

import (
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultRingSize is the ring capacity when Config leaves it unset.
const DefaultRingSize = 4096

// Tracer receives events. Implementations must be safe for concurrent use:
// batch jobs trace from several goroutines at once.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled is Level() > LevelOff.
	Enabled() bool
}

// Config describes the tracer the CLI asked for.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto picks one from OutputPath
	Output     io.Writer // overrides OutputPath when set
	OutputPath string    // "-" or empty is stderr
	RingSize   int
	Heartbeat  time.Duration
}

// New builds the tracer for cfg. LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	size := cfg.RingSize
	if size <= 0 {
		size = DefaultRingSize
	}

	stream := func() (Tracer, error) {
		w, err := cfg.writer()
		if err != nil {
			return nil, err
		}
		return NewStreamTracer(w, cfg.Level, DetectFormat(cfg.Format, cfg.OutputPath)), nil
	}

	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(size, cfg.Level), nil
	case ModeStream:
		return stream()
	case ModeBoth:
		s, err := stream()
		if err != nil {
			return nil, err
		}
		return NewMultiTracer(cfg.Level, s, NewRingTracer(size, cfg.Level)), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func (cfg Config) writer() (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop drops everything. FromContext returns it when no tracer is attached.
var Nop Tracer = nopTracer{}
