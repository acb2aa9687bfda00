package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/pipeline"
	"github.com/cla7aye15I4nd/TypePython/internal/project"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/trace"
)

// TreeExt is the extension of serialized module trees.
const TreeExt = ".tpyast"

// LoadOptions tunes Load.
type LoadOptions struct {
	Jobs           int
	MaxDiagnostics int
	Progress       pipeline.ProgressSink
}

// Loaded is the decoded input of one run.
type Loaded struct {
	Modules map[string]*ast.Module
	// Metas is in file order.
	Metas []project.ModuleMeta
}

// loadResult содержит результат загрузки одного файла
type loadResult struct {
	module *ast.Module
	meta   project.ModuleMeta
	diag   *diag.Diagnostic
}

// moduleHint names a file's module before it is decoded.
func moduleHint(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Load reads and decodes files in parallel. Every unreadable or malformed
// file is reported; the error then carries all of them.
func Load(ctx context.Context, files []string, opts LoadOptions) (_ *Loaded, err error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopePhase, "load")
	defer func() { span.End(trace.Outcome(err)) }()
	span.Count("files", len(files))

	out := &Loaded{Modules: make(map[string]*ast.Module, len(files))}
	if len(files) == 0 {
		return out, nil
	}
	hints := make([]string, len(files))
	for i, path := range files {
		hints[i] = moduleHint(path)
	}
	pipeline.EmitQueued(opts.Progress, hints)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]loadResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			pipeline.Emit(opts.Progress, pipeline.Event{Module: hints[i], Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
			results[i] = loadFile(path)
			evt := pipeline.Event{Module: hints[i], Stage: pipeline.StageLoad, Status: pipeline.StatusDone, Elapsed: time.Since(started)}
			if d := results[i].diag; d != nil {
				evt.Status = pipeline.StatusError
				evt.Err = fmt.Errorf("%s", d.Message)
			}
			pipeline.Emit(opts.Progress, evt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	for _, r := range results {
		if r.diag != nil {
			bag.Add(*r.diag)
			continue
		}
		out.Metas = append(out.Metas, r.meta)
		if _, dup := out.Modules[r.meta.Name]; !dup {
			out.Modules[r.meta.Name] = r.module
		}
	}
	if bag.HasErrors() {
		bag.Sort()
		return nil, diag.FromBag(bag)
	}
	return out, nil
}

func loadFile(path string) loadResult {
	content, err := os.ReadFile(path)
	if err != nil {
		d := diag.NewError(diag.IOLoadFailed, moduleHint(path), source.Span{}, fmt.Sprintf("failed to read %s: %v", path, err))
		return loadResult{diag: &d}
	}
	m, err := ast.Unmarshal(content)
	if err != nil {
		d := diag.NewError(diag.IODecodeFailed, moduleHint(path), source.Span{}, fmt.Sprintf("failed to decode %s: %v", path, err))
		return loadResult{diag: &d}
	}
	if m.ID == "" {
		m.ID = moduleHint(path)
	}
	if !project.IsValidModuleName(m.ID) {
		d := diag.NewError(diag.IODecodeFailed, m.ID, source.Span{}, fmt.Sprintf("%s declares invalid module id %q", path, m.ID))
		return loadResult{diag: &d}
	}
	return loadResult{module: m, meta: project.MetaOf(m, path, content)}
}
