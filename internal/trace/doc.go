// Package trace provides lightweight tracing for the debug-info pipeline.
//
// Enable it via CLI flags:
//
//	drift scopes --trace=- --trace-level=phase fixtures/
//
// Two implementations exist: a nop tracer for zero overhead when tracing is
// off, and a stream tracer that writes each event immediately in text or
// NDJSON form. Tracers travel through the pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "walk", 0)
//	defer span.End("")
package trace
