// Package trace records what the solver is doing.
//
// Every public solver query opens a span at ScopeQuery; degradations (depth
// or cardinality guards firing, unresolved declarations) are point events at
// ScopeRelation. The fixture runner adds ScopeSession spans around whole
// files. Tracing never changes a result.
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Nothing is streamed; the ring buffer is dumped on failure
//   - LevelPhase: Session boundaries
//   - LevelDetail: Individual queries and degradations
//   - LevelDebug: Everything
//
// # Tracers
//
//   - Nop: zero-overhead no-op tracer
//   - StreamTracer: immediate write (text or NDJSON)
//   - RingTracer: last N events in memory, for post-mortem dumps
//   - MultiTracer: fan-out
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeSession, "fixture", 0)
//	defer span.End("")
package trace
