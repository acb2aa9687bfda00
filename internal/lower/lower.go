// Package lower turns parsed module trees into a typed program.
//
// A run collects every module's definitions into one symbol table, builds
// each module's scope, lowers every module initializer, then lowers
// function by function. Each body is lowered to unresolved IR while
// element-type constraints are recorded, the constraints are solved, and
// the result is resolved into typed IR.
// Only fully resolved functions reach the assembled program.
//
// Errors inside function bodies are batched: every function is lowered and
// all of their diagnostics come back together in one *diag.Error.
package lower

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/collect"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/observ"
	"github.com/cla7aye15I4nd/TypePython/internal/pipeline"
	"github.com/cla7aye15I4nd/TypePython/internal/scope"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/trace"
)

// Options tunes a lowering run. The zero value is valid.
type Options struct {
	// MaxDiagnostics caps the diagnostics returned; zero means the default.
	MaxDiagnostics int
	// Timer records phase durations when set.
	Timer *observ.Timer
	// Progress receives per-module stage events when set.
	Progress pipeline.ProgressSink
}

// run is the state of one lowering run.
type run struct {
	table *symbols.Table
	bag   *diag.Bag
	funcs map[tir.FuncID]*loweredFunc
	inits map[tir.ModuleID]*loweredInit
}

// Lower lowers modules, keyed by module id, into a program whose entry
// module is entry.
func Lower(modules map[string]*ast.Module, entry string) (*tir.Program, error) {
	return LowerContext(context.Background(), modules, entry, Options{})
}

// LowerContext is Lower with tracing from ctx, a phase timer and progress
// events.
func LowerContext(ctx context.Context, modules map[string]*ast.Module, entry string, opts Options) (_ *tir.Program, err error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeRun, "lower")
	defer func() { span.End(trace.Outcome(err)) }()

	if _, ok := modules[entry]; !ok {
		return nil, diag.Errorf(diag.SemaUndefinedModule, entry, source.Span{}, "entry module %s is not part of the program", entry)
	}
	names := make([]string, 0, len(modules))
	for name, tree := range modules {
		ast.Normalize(tree)
		names = append(names, name)
	}
	slices.Sort(names)
	span.Count("modules", len(names))

	table := symbols.NewTable()
	sink := opts.Progress

	done := opts.Timer.Track("collect")
	start := time.Now()
	pipeline.EmitStage(sink, names, pipeline.StageCollect, pipeline.StatusWorking, nil, 0)
	if err := collect.Run(ctx, table, modules, collect.Options{MaxDiagnostics: opts.MaxDiagnostics}); err != nil {
		done("failed")
		pipeline.EmitStage(sink, names, pipeline.StageCollect, pipeline.StatusError, err, time.Since(start))
		return nil, err
	}
	done(fmt.Sprintf("%d classes, %d functions", table.NumClasses(), table.NumFuncs()))
	pipeline.EmitStage(sink, names, pipeline.StageCollect, pipeline.StatusDone, nil, time.Since(start))

	done = opts.Timer.Track("scopes")
	scopes, err := buildScopes(ctx, table, opts.MaxDiagnostics)
	if err != nil {
		done("failed")
		return nil, err
	}
	done("")

	r := &run{
		table: table,
		bag:   diag.NewBag(opts.MaxDiagnostics),
		funcs: make(map[tir.FuncID]*loweredFunc),
		inits: make(map[tir.ModuleID]*loweredInit),
	}
	done = opts.Timer.Track("bodies")
	passCtx, pass := trace.StartSpan(ctx, trace.ScopePhase, "bodies")
	// Initializers go first so that what they store into an empty list
	// global fixes its element type before any function reads it.
	failed := make(map[tir.ModuleID]int, len(scopes))
	for _, sc := range scopes {
		pipeline.Emit(sink, pipeline.Event{Module: table.Module(sc.Module).Name, Stage: pipeline.StageLower, Status: pipeline.StatusWorking})
		before := r.bag.Len()
		if err := r.record(r.lowerInit(passCtx, sc)); err != nil {
			pass.End(trace.Outcome(err))
			done("failed")
			return nil, err
		}
		failed[sc.Module] = r.bag.Len() - before
	}
	for _, sc := range scopes {
		name := table.Module(sc.Module).Name
		before := r.bag.Len()
		started := time.Now()
		if err := r.lowerModule(passCtx, sc); err != nil {
			pass.End(trace.Outcome(err))
			done("failed")
			return nil, err
		}
		evt := pipeline.Event{Module: name, Stage: pipeline.StageLower, Status: pipeline.StatusDone, Elapsed: time.Since(started)}
		if n := r.bag.Len() - before + failed[sc.Module]; n > 0 {
			evt.Status = pipeline.StatusError
			evt.Err = fmt.Errorf("%d diagnostics", n)
		}
		pipeline.Emit(sink, evt)
	}
	pass.Count("functions", len(r.funcs)).Count("diagnostics", r.bag.Len()).End(trace.Outcome(diag.FromBag(r.bag)))
	done(fmt.Sprintf("%d functions", len(r.funcs)))

	done = opts.Timer.Track("assemble")
	start = time.Now()
	prog, err := r.assemble(ctx, entry)
	if err != nil {
		done("failed")
		pipeline.EmitStage(sink, []string{entry}, pipeline.StageAssemble, pipeline.StatusError, err, time.Since(start))
		return nil, err
	}
	done("")
	pipeline.EmitStage(sink, []string{entry}, pipeline.StageAssemble, pipeline.StatusDone, nil, time.Since(start))
	return prog, nil
}

// buildScopes builds the scope of every module in handle order. Import
// errors of all modules are reported together.
func buildScopes(ctx context.Context, table *symbols.Table, limit int) (_ []*scope.Scope, err error) {
	passCtx, span := trace.StartSpan(ctx, trace.ScopePhase, "scopes")
	defer func() { span.End(trace.Outcome(err)) }()

	bag := diag.NewBag(limit)
	scopes := make([]*scope.Scope, 0, table.NumModules())
	for i := 0; i < table.NumModules(); i++ {
		sc, err := scope.Build(passCtx, table, tir.NextID[tir.ModuleID](i))
		if err != nil {
			var de *diag.Error
			if !errors.As(err, &de) {
				return nil, err
			}
			for _, d := range de.Diagnostics() {
				bag.Add(d)
			}
			continue
		}
		scopes = append(scopes, sc)
	}
	if bag.HasErrors() {
		bag.Sort()
		return nil, diag.FromBag(bag)
	}
	return scopes, nil
}
