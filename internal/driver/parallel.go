package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"remap/internal/diag"
	"remap/internal/project"
	"remap/internal/source"
)

// BatchOptions tune RemapBatch.
type BatchOptions struct {
	Options
	// Jobs limits the parallel workers; <= 0 uses GOMAXPROCS.
	Jobs int
	// Write stores every result with WriteOutputs.
	Write bool
	// OnStart, OnPhase and OnDone are called from worker goroutines.
	OnStart func(path string)
	OnPhase func(path string, ev PhaseEvent)
	OnDone  func(path string, res *BatchResult)
}

// BatchResult is one job of a batch. Result is nil when the job failed
// before remapping; Bag then holds the reason.
type BatchResult struct {
	Path   string
	Result *Result
	Bag    *diag.Bag
}

// Failed reports whether the job produced errors.
func (b BatchResult) Failed() bool {
	return b.Result == nil || b.Bag.HasErrors()
}

// RemapBatch runs every job manifest in paths in parallel against one
// shared engine. Results keep the order of paths. Job failures are reported
// per result; only cancellation stops the batch.
func RemapBatch(ctx context.Context, eng *Engine, paths []string, opts BatchOptions) ([]BatchResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if eng == nil {
		var err error
		if eng, err = NewEngine(nil); err != nil {
			return nil, err
		}
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]BatchResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if opts.OnStart != nil {
				opts.OnStart(path)
			}
			results[i] = runOne(gctx, eng, path, opts)
			if opts.OnDone != nil {
				opts.OnDone(path, &results[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func runOne(ctx context.Context, eng *Engine, path string, opts BatchOptions) BatchResult {
	out := BatchResult{Path: path}
	fail := func(code diag.Code, err error) BatchResult {
		out.Bag = diag.NewBag(opts.MaxDiagnostics)
		out.Bag.Add(diag.NewError(code, source.Span{}, err.Error()))
		return out
	}

	job, err := project.LoadJob(path)
	if err != nil {
		return fail(diag.CfgJobInvalid, err)
	}
	jobOpts := opts.Options
	if opts.OnPhase != nil {
		jobOpts.Observer = func(ev PhaseEvent) { opts.OnPhase(path, ev) }
	}
	res, err := Remap(ctx, eng, job, jobOpts)
	if err != nil {
		return fail(diag.IOLoadFileError, err)
	}
	out.Result = res
	out.Bag = res.Bag
	if opts.Write {
		// ошибка уже лежит в res.Bag
		_ = WriteOutputs(res)
	}
	return out
}
