// Package driver runs remap jobs: it reads the host document and the
// dialect compiler outputs named by a job manifest, builds a dense map per
// embedded block, merges the compiled blocks into the document and chains
// or embeds the result into one version 3 map.
package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"remap/internal/anchor"
	"remap/internal/chain"
	"remap/internal/dense"
	"remap/internal/diag"
	"remap/internal/host"
	"remap/internal/observ"
	"remap/internal/project"
	"remap/internal/source"
	"remap/internal/srcmap"
	"remap/internal/trace"
)

// Options tune one Remap call.
type Options struct {
	MaxDiagnostics int
	// Cache may be nil; it is also skipped when the config disables it.
	Cache    *DiskCache
	Observer PhaseObserver
	// Timings and Stats attach ObsTimings and ObsMapStats diagnostics.
	Timings bool
	Stats   bool
}

// RunStats aggregates the counters of one job.
type RunStats struct {
	Blocks  int         `json:"blocks"`
	Mapped  int         `json:"mapped"`
	Kept    int         `json:"kept"`
	Dense   dense.Stats `json:"dense"`
	Chained bool        `json:"chained"`
	Chain   chain.Stats `json:"chain"`
}

func (s RunStats) String() string {
	return fmt.Sprintf("blocks=%d mapped=%d kept=%d %s %s",
		s.Blocks, s.Mapped, s.Kept, s.Dense, s.Chain)
}

// Result is the outcome of one job. Map is nil when the document could not
// be remapped at all; the reasons are in Bag.
type Result struct {
	Job    *project.Job
	Files  *source.FileSet
	HostID source.FileID
	Map    *srcmap.Map
	Merged string
	Bag    *diag.Bag
	Stats  RunStats
	Timing observ.Report
	Cached bool
	Digest project.Digest
}

type run struct {
	eng      *Engine
	job      *project.Job
	opts     Options
	timer    *observ.Timer
	bag      *diag.Bag
	file     *source.File
	hostSpan source.Span
	dense    dense.Stats
}

func (r *run) phase(name string) func(note string) {
	idx := r.timer.Begin(name)
	start := time.Now()
	r.opts.Observer.emit(PhaseEvent{Name: name, Status: PhaseStart})
	return func(note string) {
		r.timer.End(idx, note)
		r.opts.Observer.emit(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
	}
}

func (r *run) scriptSpan(s host.Script) source.Span {
	return source.SpanOf(r.file.ID, s.TagStart, s.Start)
}

// Remap runs one job. Problems with the inputs the engine can live with are
// reported in Result.Bag; the error return is for unreadable inputs and
// cancellation.
func Remap(ctx context.Context, eng *Engine, job *project.Job, opts Options) (*Result, error) {
	if eng == nil {
		var err error
		if eng, err = NewEngine(nil); err != nil {
			return nil, err
		}
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "remap")
	span.WithExtra("job", job.Path)
	defer span.End("")

	r := &run{
		eng:   eng,
		job:   job,
		opts:  opts,
		timer: observ.NewTimer(),
		bag:   diag.NewBag(opts.MaxDiagnostics),
	}
	res := &Result{Job: job, Files: source.NewFileSet(), Bag: r.bag}

	done := r.phase(PhaseLoad)
	hostID, err := res.Files.Load(job.Host)
	if err != nil {
		done("error")
		return nil, fmt.Errorf("load %s: %w", job.Host, err)
	}
	res.HostID = hostID
	r.file = res.Files.Get(hostID)
	r.hostSpan = source.Span{File: hostID}
	in, err := loadInputs(job, r.file.Content)
	if err != nil {
		done("error")
		return nil, fmt.Errorf("%s: %w", job.Path, err)
	}
	done("")

	cfg := eng.Config
	useCache := opts.Cache != nil && !cfg.Cache.Disabled
	if useCache {
		fp, err := cfg.Fingerprint()
		if err != nil {
			return nil, err
		}
		res.Digest = in.digest(job, fp)
		if r.fromCache(res) {
			r.finish(res)
			return res, nil
		}
	}

	if err := r.remap(ctx, in, res); err != nil {
		return nil, err
	}
	if useCache && res.Map != nil {
		if err := opts.Cache.Put(res.Digest, newPayload(res)); err != nil {
			r.bag.Add(diag.NewWarning(diag.IOCacheError, r.hostSpan, "disk cache: "+err.Error()))
		}
	}
	r.finish(res)
	return res, nil
}

func (r *run) fromCache(res *Result) bool {
	var payload DiskPayload
	ok, err := r.opts.Cache.Get(res.Digest, &payload)
	if err != nil {
		r.bag.Add(diag.NewWarning(diag.IOCacheError, r.hostSpan, "disk cache: "+err.Error()))
		return false
	}
	if !ok {
		return false
	}
	res.Map = payload.Map
	res.Merged = payload.Merged
	res.Stats = payload.Stats
	res.Cached = true
	for _, d := range payload.Diagnostics {
		d.Primary.File = res.HostID
		r.bag.Add(d)
	}
	return true
}

func (r *run) finish(res *Result) {
	res.Timing = r.timer.Report()
	if r.opts.Stats {
		appendStatsDiagnostic(r.bag, statsPayload{Path: r.job.Path, Cached: res.Cached, Stats: res.Stats})
	}
	if r.opts.Timings {
		appendTimingDiagnostic(r.bag, timingPayload{
			Kind:     "remap",
			Path:     r.job.Path,
			TotalMS:  res.Timing.TotalMS,
			Phases:   res.Timing.Phases,
			Counters: res.Timing.Counters,
		})
	}
}

func (r *run) remap(ctx context.Context, in *inputs, res *Result) error {
	cfg := r.eng.Config
	doc := string(in.doc)

	done := r.phase(PhaseScan)
	scripts, err := host.Extract(doc, cfg.Dialect.Lang)
	if err != nil {
		done("error")
		if errors.Is(err, host.ErrUnterminated) {
			r.bag.Add(diag.NewError(diag.HostUnterminatedTag, r.hostSpan, err.Error()))
			return nil
		}
		return err
	}
	done(strconv.Itoa(len(scripts)) + " blocks")

	if len(scripts) == 0 {
		r.bag.Add(diag.NewWarning(diag.HostNoBlocks, r.hostSpan,
			fmt.Sprintf("no <script lang=%q> blocks", cfg.Dialect.Lang)))
	}
	if len(scripts) != len(r.job.Blocks) {
		r.bag.Add(diag.NewWarning(diag.HostBlockMismatch, r.hostSpan,
			fmt.Sprintf("document has %d %s blocks, job lists %d", len(scripts), cfg.Dialect.Lang, len(r.job.Blocks))))
	}

	done = r.phase(PhaseBuild)
	parts := make([]host.Part, len(scripts))
	for i, s := range scripts {
		if err := ctx.Err(); err != nil {
			done("cancelled")
			return err
		}
		part, err := r.block(ctx, i, s, in)
		if err != nil {
			done("error")
			return err
		}
		parts[i] = part
	}
	res.Stats.Dense = r.dense
	done(r.dense.String())

	done = r.phase(PhaseMerge)
	merged := host.Merge(doc, parts, cfg.Dialect.TargetLang)
	res.Merged = merged.Text
	res.Stats.Blocks = len(scripts)
	res.Stats.Mapped = len(merged.Blocks)
	res.Stats.Kept = len(merged.Kept)
	done("")

	done = r.phase(PhaseChain)
	out, ok, err := r.compose(ctx, in, merged)
	if err != nil {
		done("error")
		return err
	}
	if !ok {
		done("failed")
		return nil
	}
	res.Stats.Chained = in.base != nil
	res.Stats.Chain = out.Stats
	done(out.Stats.String())

	done = r.phase(PhaseEncode)
	res.Map = srcmap.New(r.job.File, filepath.Base(r.job.Host), doc, out.Names, out.Lines)
	done("")

	r.timer.Add("segments", countSegments(out.Lines))
	r.timer.Add("anchors", res.Stats.Dense.Anchors)
	return nil
}

// block builds the part for the i-th script. A part without a map stays
// verbatim in the merged document.
func (r *run) block(ctx context.Context, i int, s host.Script, in *inputs) (host.Part, error) {
	sn := host.Prepare(string(in.doc), s)
	part := host.Part{Snippet: sn}
	at := r.scriptSpan(s)

	if i >= len(in.blocks) {
		r.bag.Add(diag.NewWarning(diag.HostMissingCompiled, at, fmt.Sprintf("block %d has no compiled output", i)))
		return part, nil
	}
	bi := in.blocks[i]
	if bi.err != nil {
		r.bag.Add(host.Diagnose(r.file, sn, bi.err))
		return part, nil
	}
	part.Code = bi.code
	if bi.coarse == nil {
		r.bag.Add(diag.NewWarning(diag.MapMissing, at, fmt.Sprintf("block %d has no map; left unmapped", i)))
		return part, nil
	}
	coarse, err := srcmap.ParseCoarse(bi.coarse)
	if err != nil {
		r.bag.Add(diag.NewWarning(diag.MapMalformed, at, fmt.Sprintf("block %d: %v; left unmapped", i, err)))
		return part, nil
	}
	anchors, err := r.anchors(i, bi, at)
	if err != nil {
		return part, err
	}

	ctx, span := trace.Start(ctx, trace.ScopeBlock, "block")
	span.WithExtra("index", strconv.Itoa(i))
	e := r.eng
	built, err := dense.Build(ctx, dense.Input{
		Generated: strings.Split(bi.code, "\n"),
		Anchors:   anchors,
		Coarse:    coarse.Lines,
		Source:    strings.Split(sn.Code, "\n"),
	}, dense.Options{
		Lookahead: e.Config.Engine.Lookahead,
		Aliases:   e.Aliases,
		Literals:  e.Literals,
		Interp:    e.Interp,
	})
	if err != nil {
		span.End("error")
		return part, fmt.Errorf("block %d: %w", i, err)
	}
	span.End(built.Stats.String())

	part.Map = built.Lines
	part.Names = built.Names
	r.timer.Add("fallbacks", built.Stats.FallbackTotal())
	r.timer.Add("dropped", built.Stats.DropTotal())
	r.dense = r.dense.Add(built.Stats)
	return part, nil
}

func (r *run) anchors(i int, bi blockInput, at source.Span) ([]anchor.Anchor, error) {
	if bi.anchors != nil {
		list, err := anchor.ParseJSON(bi.anchors)
		if err == nil {
			return list, nil
		}
		r.bag.Add(diag.NewWarning(diag.MapMalformed, at,
			fmt.Sprintf("block %d: %v; falling back to the lexer", i, err)))
	}
	return r.eng.Anchors.Anchors(bi.code)
}

// compose turns the merged document into the final segment table: chained
// through the base map when the job has one, embedded otherwise.
func (r *run) compose(ctx context.Context, in *inputs, merged *host.Merged) (*chain.Result, bool, error) {
	if in.base == nil {
		out, err := chain.Embed(ctx, merged.Text, merged.Blocks)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	}
	base, err := srcmap.Parse(in.base)
	if err == nil {
		var lines srcmap.Lines
		if lines, err = base.Lines(); err == nil {
			out, err := chain.Chain(ctx, chain.Input{
				Base:      lines,
				BaseNames: base.Names,
				Merged:    merged.Text,
				Blocks:    merged.Blocks,
				Host:      string(in.doc),
			}, chain.Options{MaxBacktrack: r.eng.Config.Engine.MaxBacktrack})
			if err != nil {
				return nil, false, err
			}
			return out, true, nil
		}
	}
	r.bag.Add(diag.NewError(diag.MapMalformed, r.hostSpan, "base map: "+err.Error()))
	return nil, false, nil
}

func countSegments(lines srcmap.Lines) int {
	n := 0
	for _, segs := range lines {
		n += len(segs)
	}
	return n
}

