// Package trace records nested spans over a lowering run: the run, its
// phases, the per-module scope and body passes, and every lowered
// function or module initializer.
//
// Enable it from the command line:
//
//	tpyc lower --trace=- --trace-level=function build/*.tpyast
//
// or through the [trace] table of typepython.toml. A path ending in
// .ndjson or .jsonl gets newline-delimited JSON.
//
// Spans nest through the context. Module and function spans stamp their
// events with the module and function they cover, and every end event
// carries the elapsed time, an outcome ("ok", a diagnostic code such as
// SEM3010, or "failed") and the counters the span collected:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartModule(ctx, "lower", "main")
//	span.Count("diagnostics", n).End(trace.Outcome(err))
package trace
