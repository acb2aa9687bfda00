package lower

import (
	"context"
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/resolve"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/trace"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// sweep reports every container specialization whose element type was
// never inferred. It only runs on an otherwise clean run, since a failed
// function leaves its classes pending.
func (r *run) sweep() {
	if r.bag.HasErrors() {
		return
	}
	rep := diag.BagReporter{Bag: r.bag}
	for _, id := range r.table.Unsettled() {
		diag.ReportError(rep, diag.InferUnresolvedVar, "", source.Span{},
			fmt.Sprintf("cannot infer the element type of %s", r.table.ClassName(id))).Emit()
	}
}

// assemble builds the program from the symbol table and the lowered
// bodies. Every handle in the output is canonical; aliased
// specializations keep their slot so handles stay dense.
func (r *run) assemble(ctx context.Context, entry string) (_ *tir.Program, err error) {
	_, span := trace.StartSpan(ctx, trace.ScopePhase, "assemble")
	defer func() { span.End(trace.Outcome(err)) }()

	r.sweep()
	if r.bag.HasErrors() {
		r.bag.Sort()
		return nil, diag.FromBag(r.bag)
	}
	entryID, ok := r.table.ModuleByName(entry)
	if !ok {
		return nil, diag.Errorf(diag.SemaUndefinedModule, entry, source.Span{}, "entry module %s is not part of the program", entry)
	}

	a := &assembler{table: r.table, res: resolve.New(r.table, nil, "")}
	prog := &tir.Program{Entry: entryID}

	prog.Classes = make([]tir.Class, r.table.NumClasses())
	for i := range prog.Classes {
		c, err := a.class(tir.NextID[tir.ClassID](i))
		if err != nil {
			return nil, err
		}
		prog.Classes[i] = c
	}
	prog.Functions = make([]tir.Function, r.table.NumFuncs())
	for i := range prog.Functions {
		id := tir.NextID[tir.FuncID](i)
		f, err := a.function(id, r.funcs[id])
		if err != nil {
			return nil, err
		}
		prog.Functions[i] = f
	}
	prog.Modules = make([]tir.Module, r.table.NumModules())
	for i := range prog.Modules {
		id := tir.NextID[tir.ModuleID](i)
		m, err := a.module(id, r.inits[id])
		if err != nil {
			return nil, err
		}
		prog.Modules[i] = m
	}
	span.Count("functions", len(prog.Functions)).Count("classes", len(prog.Classes))
	return prog, nil
}

type assembler struct {
	table *symbols.Table
	res   *resolve.Resolver
}

func (a *assembler) typ(t uir.Type) (tir.Type, error) {
	return a.res.Type(t, source.Span{})
}

func (a *assembler) fields(fs []symbols.Field) ([]tir.FieldDef, error) {
	if len(fs) == 0 {
		return nil, nil
	}
	out := make([]tir.FieldDef, len(fs))
	for i, f := range fs {
		t, err := a.typ(f.Type)
		if err != nil {
			return nil, err
		}
		out[i] = tir.FieldDef{Name: f.Name, Type: t}
	}
	return out, nil
}

func (a *assembler) class(id tir.ClassID) (tir.Class, error) {
	c := a.table.Class(id)
	out := tir.Class{
		ID:            id,
		QualifiedName: c.QualifiedName,
		Parent:        tir.NoClassID,
		Builtin:       c.Builtin,
	}
	if c.Builtin {
		out.QualifiedName = symbols.BuiltinModule + "." + a.table.ClassName(id)
	}
	if c.Parent.IsValid() {
		out.Parent = a.table.Canonical(c.Parent)
	}
	var err error
	if out.InheritedFields, err = a.fields(c.InheritedFields); err != nil {
		return tir.Class{}, err
	}
	if out.Fields, err = a.fields(c.Fields); err != nil {
		return tir.Class{}, err
	}
	for _, p := range c.TypeParams {
		t, err := a.typ(p)
		if err != nil {
			return tir.Class{}, err
		}
		out.TypeParams = append(out.TypeParams, t)
	}
	for _, m := range c.Methods {
		out.Methods = append(out.Methods, tir.MethodEntry{Name: m.Name, Func: a.table.CanonicalFunc(m.Func)})
	}
	return out, nil
}

// function assembles one function. Runtime functions carry only their
// signature; a runtime method takes its receiver as parameter 0 like a
// user method does. For a shared method of a generic built-in that
// parameter is nominal.
func (a *assembler) function(id tir.FuncID, lowered *loweredFunc) (tir.Function, error) {
	f := a.table.Func(id)
	out := tir.Function{
		ID:            id,
		Name:          f.Name,
		QualifiedName: f.QualifiedName,
		Class:         tir.NoClassID,
		RuntimeName:   f.RuntimeName,
	}
	if f.Class.IsValid() {
		out.Class = a.table.Canonical(f.Class)
	}
	if !f.IsRuntime() {
		if lowered == nil {
			return tir.Function{}, fmt.Errorf("lower: function %s was never lowered", f.QualifiedName)
		}
		out.Params = lowered.params
		out.Return = lowered.ret
		out.Locals = lowered.locals
		out.Body = lowered.body
		return out, nil
	}
	if f.IsMethod() {
		out.Shared = !f.Unique && a.table.Class(f.Class).Generic()
		out.Params = append(out.Params, tir.Param{Name: "self", Type: tir.ClassType(out.Class)})
	}
	for _, p := range f.Params {
		t, err := a.typ(p.Type)
		if err != nil {
			return tir.Function{}, err
		}
		out.Params = append(out.Params, tir.Param{Name: p.Name, Type: t})
	}
	ret, err := a.typ(f.Return)
	if err != nil {
		return tir.Function{}, err
	}
	out.Return = ret
	return out, nil
}

func (a *assembler) module(id tir.ModuleID, init *loweredInit) (tir.Module, error) {
	m := a.table.Module(id)
	out := tir.Module{
		ID:        id,
		Name:      m.Name,
		Functions: append([]tir.FuncID(nil), m.Functions...),
		Classes:   append([]tir.ClassID(nil), m.Classes...),
	}
	for _, g := range m.Globals {
		t, err := a.typ(g.Type)
		if err != nil {
			return tir.Module{}, err
		}
		out.Globals = append(out.Globals, tir.Global{ID: g.ID, Name: g.Name, Type: t})
	}
	if init != nil {
		out.Init = init.body
		out.InitLocals = init.locals
	}
	return out, nil
}
