// Package trace records what the IR emitter does: scenario and function
// spans, branch regions, heap allocations, casts, cache reloads and scope
// updates. Tracing never changes the emitted IR.
//
// A Tracer travels in a context.Context. Sinks filter events by Scope
// according to their Level; LevelError tracers keep everything in a ring
// buffer that the CLI dumps with DumpRing when emission fails.
//
//	qir emit --trace=- --trace-level=detail
//	qir emit --trace-mode=ring --trace-level=error
package trace
