// Package driver runs a whole build: it loads serialized module trees,
// picks the modules the entry needs, lowers them and writes the program.
package driver

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/lower"
	"github.com/cla7aye15I4nd/TypePython/internal/observ"
	"github.com/cla7aye15I4nd/TypePython/internal/pipeline"
	"github.com/cla7aye15I4nd/TypePython/internal/project"
	"github.com/cla7aye15I4nd/TypePython/internal/project/dag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/trace"
)

// Config describes one build.
type Config struct {
	Files  []string
	Entry  string
	Output string // empty: do not write
	Jobs   int
	// KeepAll lowers every loaded module, not only those the entry imports.
	KeepAll bool
	// Force lowers even when the output is up to date.
	Force          bool
	MaxDiagnostics int
	Timer          *observ.Timer
	Progress       pipeline.ProgressSink
}

// Result is the outcome of a successful build.
type Result struct {
	Program *tir.Program // nil when UpToDate
	// Modules lists the lowered modules, importers first.
	Modules  []string
	Digest   project.Digest
	UpToDate bool
	// Cycles lists modules on import cycles, for information.
	Cycles []string
	// Sources maps modules to the source files their trees declare.
	Sources map[string]string
}

// Build loads, lowers and writes one program. Once the inputs are loaded
// a Result is returned even on failure, so callers can render diagnostics
// against Sources.
func Build(ctx context.Context, cfg Config) (_ *Result, err error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeRun, "build")
	defer func() { span.End(trace.Outcome(err)) }()

	done := cfg.Timer.Track("load")
	loaded, err := Load(ctx, cfg.Files, LoadOptions{Jobs: cfg.Jobs, MaxDiagnostics: cfg.MaxDiagnostics, Progress: cfg.Progress})
	if err != nil {
		done("failed")
		return nil, err
	}
	done(fmt.Sprintf("%d modules", len(loaded.Modules)))

	res := &Result{Sources: make(map[string]string)}
	for name, m := range loaded.Modules {
		if m.Path != "" {
			res.Sources[name] = m.Path
		}
	}
	plan, err := Plan(loaded, cfg.Entry, cfg.KeepAll, cfg.MaxDiagnostics)
	if err != nil {
		return res, err
	}
	res.Modules, res.Digest, res.Cycles = plan.Order, plan.Digest, plan.Cycles
	span.Count("modules", len(plan.Order)).Count("cycles", len(plan.Cycles))

	if cfg.Output != "" && !cfg.Force && UpToDate(cfg.Output, plan.Digest) {
		res.UpToDate = true
		pipeline.EmitStage(cfg.Progress, plan.Order, pipeline.StageWrite, pipeline.StatusDone, nil, 0)
		return res, nil
	}

	prog, err := lower.LowerContext(ctx, plan.Modules, cfg.Entry, lower.Options{
		MaxDiagnostics: cfg.MaxDiagnostics,
		Timer:          cfg.Timer,
		Progress:       cfg.Progress,
	})
	if err != nil {
		return res, err
	}
	res.Program = prog

	if cfg.Output == "" {
		return res, nil
	}
	done = cfg.Timer.Track("write")
	started := time.Now()
	err = WriteProgram(cfg.Output, prog, Stamp{Digest: plan.Digest, Entry: cfg.Entry, Modules: plan.Order})
	if err != nil {
		done("failed")
		pipeline.EmitStage(cfg.Progress, []string{cfg.Entry}, pipeline.StageWrite, pipeline.StatusError, err, time.Since(started))
		return res, fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	done(cfg.Output)
	pipeline.EmitStage(cfg.Progress, []string{cfg.Entry}, pipeline.StageWrite, pipeline.StatusDone, nil, time.Since(started))
	return res, nil
}

// BuildPlan is the set of modules one build lowers.
type BuildPlan struct {
	Modules map[string]*ast.Module
	Order   []string
	Cycles  []string
	Digest  project.Digest
}

// Plan checks the entry, drops modules the entry never imports unless
// keepAll is set, and hashes what is left.
func Plan(loaded *Loaded, entry string, keepAll bool, maxDiagnostics int) (*BuildPlan, error) {
	bag := diag.NewBag(maxDiagnostics)
	idx := dag.BuildIndex(loaded.Metas)
	g, slots := dag.BuildGraph(idx, loaded.Metas, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		bag.Sort()
		return nil, diag.FromBag(bag)
	}
	entryID, ok := idx.Lookup(entry)
	if !ok || !g.Present[int(entryID)] {
		return nil, diag.Errorf(diag.ProjInvalidEntry, entry, source.Span{}, "entry module %s is not among the loaded modules", entry)
	}
	dag.ModuleHashes(g, slots)
	topo := dag.ToposortKahn(g)

	keep := make(map[dag.ModuleID]bool)
	if keepAll {
		for _, id := range topo.Order {
			keep[id] = true
		}
	} else {
		for _, id := range dag.Reachable(g, entryID) {
			keep[id] = true
		}
	}

	plan := &BuildPlan{Modules: make(map[string]*ast.Module, len(keep))}
	for _, id := range topo.Order {
		if !keep[id] {
			continue
		}
		name := idx.IDToName[int(id)]
		plan.Order = append(plan.Order, name)
		plan.Modules[name] = loaded.Modules[name]
	}
	for _, id := range topo.Cycles {
		if keep[id] {
			plan.Cycles = append(plan.Cycles, idx.IDToName[int(id)])
		}
	}

	// The digest covers the entry name and every kept module in id order.
	ids := make([]dag.ModuleID, 0, len(keep))
	for id := range keep {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	hashes := make([]project.Digest, 0, len(ids))
	for _, id := range ids {
		hashes = append(hashes, slots[int(id)].Meta.ModuleHash)
	}
	plan.Digest = project.Combine(project.HashContent([]byte(entry)), hashes...)
	return plan, nil
}
