// Package trace records what the lowering pipeline is doing.
//
// Tracing answers "which file was being lowered, and which declaration,
// when it slowed down or crashed". It is off by default and costs a single
// Enabled check per span when disabled.
//
// # Usage
//
//	treelower lower --trace=- --trace-level=detail demo.astpack
//
// # Tracers
//
//   - Nop discards everything and is used when tracing is off.
//   - StreamTracer writes events as they happen, as text or NDJSON.
//   - RingTracer keeps the last N events for a dump after a failure.
//   - Fanout copies events to several tracers (--trace-mode=both).
//
// # Levels and scopes
//
// A level decides which scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopeFile spans
//   - LevelDetail: adds ScopeDecl (one span per top-level declaration)
//   - LevelDebug: adds ScopeNode points for every lowered node
//
// # Context propagation
//
// Spans travel in the context. A file span names the file every nested event
// belongs to, and the driver tags each worker goroutine:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithWorker(ctx, 2)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "main.kt")
//	defer span.End("")
//	decl := span.Child(trace.ScopeDecl, "prop:x")
package trace
