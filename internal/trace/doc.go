// Package trace records what the ojc driver is doing: which phase is
// running, which file is being compiled and how long each step took.
//
// Tracing is configured from the command line:
//
//	ojc compile --trace=- --trace-level=detail src/
//
// # Tracers
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes each event as it happens
//   - RingTracer: keeps the last events in memory, dumped on panic
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// Every event belongs to a scope. The level decides which scopes are
// recorded:
//
//   - phase: ScopeDriver and ScopePass (load, compile, resolve, cache)
//   - detail: adds ScopeFile, one span per compiled file
//   - debug: adds ScopeNode
//
// # Propagation
//
// The tracer travels in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "compile", 0)
//	defer span.End("")
package trace
