//nolint:errcheck // AST nodes are checked by construction; Kind implies the Data payload type.
package lower

import (
	"context"
	"errors"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/infer"
	"github.com/cla7aye15I4nd/TypePython/internal/resolve"
	"github.com/cla7aye15I4nd/TypePython/internal/scope"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/trace"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// loweredFunc is the resolved part of a user function.
type loweredFunc struct {
	params []tir.Param
	ret    tir.Type
	locals []tir.Local
	body   []*tir.Stmt
}

// loweredInit is the resolved initializer of a module.
type loweredInit struct {
	locals []tir.Local
	body   []*tir.Stmt
}

// lowerModule lowers every function and method of one module in source
// order. Failures of one function are recorded and the next one is
// lowered; nothing of a failed function reaches the program.
func (r *run) lowerModule(ctx context.Context, sc *scope.Scope) error {
	mod := r.table.Module(sc.Module)
	ctx, span := trace.StartModule(ctx, "lower", mod.Name)
	before := r.bag.Len()
	defer func() {
		outcome := trace.OutcomeOK
		if items := r.bag.Items(); len(items) > before {
			outcome = items[before].Code.ID()
		}
		span.Count("diagnostics", r.bag.Len()-before).End(outcome)
	}()

	if mod.Tree == nil {
		return nil
	}
	for _, st := range mod.Tree.Body {
		switch st.Kind {
		case ast.StmtFunctionDef:
			fd := st.Data.(*ast.FunctionDef)
			fn, ok := r.table.LookupFunction(sc.Module, fd.Name)
			if !ok || r.table.Func(fn).Decl != fd {
				continue
			}
			if err := r.record(r.lowerFunction(ctx, sc, fn, st.Span)); err != nil {
				return err
			}
		case ast.StmtClassDef:
			cd := st.Data.(*ast.ClassDef)
			class, ok := r.table.LocalClass(sc.Module, cd.Name)
			if !ok || r.table.Class(class).Decl != cd {
				continue
			}
			for _, md := range cd.Methods {
				ref, ok := r.table.OwnMethod(class, md.Name)
				if !ok || r.table.Func(ref.Func).Decl != md {
					continue
				}
				if err := r.record(r.lowerFunction(ctx, sc, ref.Func, pickSpan(md.Span, st.Span))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// record files a diagnostic error in the run's bag, up to its limit. Any
// other error is returned as is.
func (r *run) record(err error) error {
	if err == nil {
		return nil
	}
	var de *diag.Error
	if errors.As(err, &de) {
		for _, d := range de.Diagnostics() {
			r.bag.Add(d)
		}
		return nil
	}
	return err
}

// lowerFunction runs the per-function pipeline: lower the body, check
// return paths, solve the constraints, then resolve everything.
func (r *run) lowerFunction(ctx context.Context, sc *scope.Scope, fn tir.FuncID, sp source.Span) (err error) {
	f := r.table.Func(fn)
	_, span := trace.StartFunction(ctx, r.table.Module(sc.Module).Name, f.QualifiedName)
	defer func() { span.End(trace.Outcome(err)) }()

	l := newBodyLowerer(r.table, sc, f.Class, f.Return)
	for _, p := range f.Params {
		l.addParam(p.Name, p.Type)
	}
	stmts, err := l.stmts(f.Decl.Body)
	if err != nil {
		return err
	}
	if f.Return.IsVoid() {
		stmts = withImplicitReturn(stmts, sp)
	} else if !alwaysReturns(stmts) {
		return l.errorf(diag.SemaMissingReturn, sp, "%s must return %s on every path", f.QualifiedName, l.typeName(f.Return))
	}
	l.body.Stmts = stmts
	span.Count("constraints", l.cons.Len())

	subst, err := infer.NewSolver(r.table).Solve(l.cons)
	if err != nil {
		return err
	}
	res := resolve.New(r.table, subst, l.modName)
	locals, body, err := res.Body(l.body)
	if err != nil {
		return err
	}
	out := &loweredFunc{locals: locals, body: body}
	if f.IsMethod() {
		self, err := res.Class(f.Class, sp)
		if err != nil {
			return err
		}
		out.params = append(out.params, tir.Param{Name: "self", Type: tir.ClassType(self)})
	}
	for _, p := range f.Params {
		t, err := res.Type(p.Type, sp)
		if err != nil {
			return err
		}
		out.params = append(out.params, tir.Param{Name: p.Name, Type: t})
	}
	if out.ret, err = res.Type(f.Return, sp); err != nil {
		return err
	}
	res.Settle()
	r.funcs[fn] = out
	return nil
}

// lowerInit lowers the top-level statements of a module, skipping
// definitions, into its initializer.
func (r *run) lowerInit(ctx context.Context, sc *scope.Scope) (err error) {
	mod := r.table.Module(sc.Module)
	if mod.Tree == nil {
		return nil
	}
	_, span := trace.StartFunction(ctx, mod.Name, mod.Name+".<init>")
	defer func() { span.End(trace.Outcome(err)) }()

	l := newBodyLowerer(r.table, sc, tir.NoClassID, uir.Void)
	l.init = true
	stmts, err := l.stmts(mod.Tree.Body)
	if err != nil {
		return err
	}
	l.body.Stmts = stmts
	subst, err := infer.NewSolver(r.table).Solve(l.cons)
	if err != nil {
		return err
	}
	res := resolve.New(r.table, subst, l.modName)
	locals, body, err := res.Body(l.body)
	if err != nil {
		return err
	}
	res.Settle()
	r.inits[sc.Module] = &loweredInit{locals: locals, body: body}
	return nil
}
