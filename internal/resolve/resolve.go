// Package resolve converts unresolved IR into typed IR once the
// constraints of a function are solved. It is the only way a uir value
// becomes a tir value, and every conversion fails on a type variable the
// substitution leaves unbound.
//
// Resolving a class type settles the class when its parameters just
// became concrete: the parameters are written back into the symbol table
// and the class may collapse into an existing equal specialization. All
// class and function handles in the output are canonical.
package resolve

import (
	"fmt"
	"slices"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/infer"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// Resolver resolves the body of one function or module initializer.
type Resolver struct {
	table  *symbols.Table
	subst  infer.Substitution
	module string
	// memo keeps nodes shared in the unresolved tree shared in the
	// resolved one and makes resolving a node twice return the same value.
	memo map[*uir.Expr]*tir.Expr
}

// New returns a resolver applying subst. module names the diagnostics.
func New(table *symbols.Table, subst infer.Substitution, module string) *Resolver {
	if subst == nil {
		subst = infer.Substitution{}
	}
	return &Resolver{
		table:  table,
		subst:  subst,
		module: module,
		memo:   make(map[*uir.Expr]*tir.Expr),
	}
}

// Type resolves t; sp locates the error.
func (r *Resolver) Type(t uir.Type, sp source.Span) (tir.Type, error) {
	return r.typeOf(t, sp, "expression")
}

func (r *Resolver) typeOf(t uir.Type, sp source.Span, what string) (tir.Type, error) {
	t = r.subst.Apply(t)
	switch t.Kind {
	case uir.TypeInt:
		return tir.Int, nil
	case uir.TypeFloat:
		return tir.Float, nil
	case uir.TypeBool:
		return tir.Bool, nil
	case uir.TypeVoid:
		return tir.Void, nil
	case uir.TypeClass:
		id, err := r.Class(t.Class, sp)
		if err != nil {
			return tir.Type{}, err
		}
		return tir.ClassType(id), nil
	default:
		return tir.Type{}, diag.Errorf(diag.InferUnresolvedVar, r.module, sp,
			"cannot infer the type of %s (?%d is never constrained)", what, t.Var)
	}
}

// Class returns the canonical handle of class, settling it first when
// its type parameters are bound by the substitution.
func (r *Resolver) Class(class tir.ClassID, sp source.Span) (tir.ClassID, error) {
	class = r.table.Canonical(class)
	c := r.table.Class(class)
	if c.Settled() {
		return class, nil
	}
	params := make([]uir.Type, len(c.TypeParams))
	for i, p := range c.TypeParams {
		p = r.subst.Apply(p)
		switch p.Kind {
		case uir.TypeVar:
			return tir.NoClassID, diag.Errorf(diag.InferUnresolvedVar, r.module, sp,
				"cannot infer the element type of %s", r.table.ClassName(class))
		case uir.TypeClass:
			inner, err := r.Class(p.Class, sp)
			if err != nil {
				return tir.NoClassID, err
			}
			p = uir.ClassType(inner)
		}
		params[i] = p
	}
	return r.table.Specialize(class, params), nil
}

// Func returns the canonical handle of fn. Unique methods of a class
// merged into another specialization map to that class's method.
func (r *Resolver) Func(fn tir.FuncID, sp source.Span) (tir.FuncID, error) {
	if owner := r.table.Func(fn).Class; owner.IsValid() && r.table.Func(fn).Unique {
		if _, err := r.Class(owner, sp); err != nil {
			return tir.NoFuncID, err
		}
	}
	return r.table.CanonicalFunc(fn), nil
}

// Settle specializes every pending class whose parameters the
// substitution binds. It returns how many classes were settled; classes
// still mentioning unbound variables stay pending.
func (r *Resolver) Settle() int {
	settled := 0
	for progress := true; progress; {
		progress = false
		for _, id := range r.table.Unsettled() {
			if r.table.Class(id).Settled() {
				continue
			}
			if _, err := r.Class(id, source.Span{}); err == nil {
				settled++
				progress = true
			}
		}
	}
	return settled
}

// Expr resolves e and everything below it.
func (r *Resolver) Expr(e *uir.Expr) (*tir.Expr, error) {
	if e == nil {
		return nil, nil
	}
	if out, ok := r.memo[e]; ok {
		return out, nil
	}
	typ, err := r.Type(e.Type, e.Span)
	if err != nil {
		return nil, err
	}
	out := &tir.Expr{Type: typ}
	switch d := e.Data.(type) {
	case *uir.ConstExpr:
		out.Kind = tir.ExprConst
		out.Data = &tir.ConstExpr{Kind: d.Kind, Int: d.Int, Float: d.Float, Str: d.Str, Bool: d.Bool}
	case *uir.VarExpr:
		out.Kind = tir.ExprVar
		out.Data = &tir.VarExpr{Ref: d.Ref}
	case *uir.BinaryExpr:
		left, right, err := r.pair(d.Left, d.Right)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.ExprBinary
		out.Data = &tir.BinaryExpr{Left: left, Op: d.Op, Right: right}
	case *uir.CompareExpr:
		left, right, err := r.pair(d.Left, d.Right)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.ExprCompare
		out.Data = &tir.CompareExpr{Left: left, Op: d.Op, Right: right}
	case *uir.BoolOpExpr:
		values, err := r.exprs(d.Values)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.ExprBoolOp
		out.Data = &tir.BoolOpExpr{Op: d.Op, Values: values}
	case *uir.UnaryExpr:
		operand, err := r.Expr(d.Operand)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.ExprUnary
		out.Data = &tir.UnaryExpr{Op: d.Op, Operand: operand}
	case *uir.CallExpr:
		args, err := r.exprs(d.Args)
		if err != nil {
			return nil, err
		}
		fn, err := r.Func(d.Func, e.Span)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.ExprCall
		out.Data = &tir.CallExpr{Func: fn, Args: args}
	case *uir.ConstructExpr:
		args, err := r.exprs(d.Args)
		if err != nil {
			return nil, err
		}
		class, err := r.Class(d.Class, e.Span)
		if err != nil {
			return nil, err
		}
		if r.table.IsBuiltin(class, symbols.ClassRange) {
			out.Kind = tir.ExprRange
			out.Data = rangeOf(args)
		} else {
			out.Kind = tir.ExprConstruct
			out.Data = &tir.ConstructExpr{Class: class, Args: args}
		}
	case *uir.FieldExpr:
		obj, err := r.Expr(d.Object)
		if err != nil {
			return nil, err
		}
		class, err := r.Class(d.Class, e.Span)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.ExprField
		out.Data = &tir.FieldExpr{Object: obj, Class: class, Field: d.Field}
	case *uir.ListExpr:
		elems, err := r.exprs(d.Elems)
		if err != nil {
			return nil, err
		}
		elem, err := r.typeOf(d.Elem, e.Span, "list element")
		if err != nil {
			return nil, err
		}
		out.Kind = tir.ExprList
		out.Data = &tir.ListExpr{Elems: elems, Elem: elem}
	case *uir.BytesExpr:
		out.Kind = tir.ExprBytes
		out.Data = &tir.BytesExpr{Data: slices.Clone(d.Data)}
	case *uir.BindExpr:
		value, err := r.Expr(d.Value)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.ExprBind
		out.Data = &tir.BindExpr{Local: d.Local, Value: value}
	default:
		panic(fmt.Errorf("resolve: unexpected expression %s", e.Kind))
	}
	r.memo[e] = out
	return out, nil
}

// rangeOf maps range(stop), range(start, stop) and
// range(start, stop, step) onto the range node.
func rangeOf(args []*tir.Expr) *tir.RangeExpr {
	switch len(args) {
	case 1:
		return &tir.RangeExpr{Stop: args[0]}
	case 2:
		return &tir.RangeExpr{Start: args[0], Stop: args[1]}
	default:
		return &tir.RangeExpr{Start: args[0], Stop: args[1], Step: args[2]}
	}
}

func (r *Resolver) pair(a, b *uir.Expr) (*tir.Expr, *tir.Expr, error) {
	x, err := r.Expr(a)
	if err != nil {
		return nil, nil, err
	}
	y, err := r.Expr(b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (r *Resolver) exprs(es []*uir.Expr) ([]*tir.Expr, error) {
	out := make([]*tir.Expr, len(es))
	for i, e := range es {
		x, err := r.Expr(e)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}
