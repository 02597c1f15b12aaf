// Package trace provides the tracing subsystem used as structured logging by
// the plinth toolchain, plus the trace configuration handed to code
// generation.
//
// # Usage
//
//	plinth check --trace=- --trace-level=detail modules.toml
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelPhase: Driver and pass boundaries (sequence, analyze, aggregate)
//   - LevelDetail: Module-level events
//   - LevelDebug: Everything including individual definitions
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "sequence", 0)
//	defer span.End("")
//
// # Code generation
//
// Tracing and TraceLevel are unrelated to the tracer: they select how much
// trace output compiled validators carry and are forwarded verbatim to the
// code generator.
package trace
