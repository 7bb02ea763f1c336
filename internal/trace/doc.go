// Package trace records what the remap engine spends its time on.
//
// Spans open around CLI jobs, engine stages and individual blocks, so a slow
// or stuck chain can be narrowed down to the block that caused it.
//
// # Usage
//
//	remap map --trace=- --trace-level=phase job.remap.toml
//	remap batch --trace=run.json --trace-level=detail jobs/
//
// A path ending in .ndjson selects newline-delimited JSON, a path ending in
// .json selects the chrome://tracing array, everything else is plain text.
//
// # Tracers
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopePass events (job, scan, build,
// finalize, chain). LevelDetail adds ScopeBlock. LevelDebug adds ScopeLine,
// one span per generated line of the dense builder.
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "build", 0)
//	defer span.End("")
package trace
