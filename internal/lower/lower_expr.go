//nolint:errcheck // AST nodes are checked by construction; Kind implies the Data payload type.
package lower

import (
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// value lowers e where its result is used. A call of a function without a
// result is rejected here.
func (l *bodyLowerer) value(e *ast.Expr) (*uir.Expr, error) {
	out, err := l.expr(e)
	if err != nil {
		return nil, err
	}
	if out.Type.IsVoid() {
		return nil, l.errorf(diag.SemaVoidValue, e.Span, "expression has no value")
	}
	return out, nil
}

func (l *bodyLowerer) values(es []*ast.Expr) ([]*uir.Expr, error) {
	out := make([]*uir.Expr, len(es))
	for i, e := range es {
		v, err := l.value(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// expr lowers e; the result may be Void when e is a call.
func (l *bodyLowerer) expr(e *ast.Expr) (*uir.Expr, error) {
	switch e.Kind {
	case ast.ExprConst:
		return l.constant(e), nil
	case ast.ExprName:
		name := e.Data.(*ast.NameExpr).Name
		ref, t, ok := l.lookup(name)
		if !ok {
			return nil, l.errorf(diag.SemaUndefinedVariable, e.Span, "name %s is not defined", name)
		}
		return uir.Var(ref, t, e.Span), nil
	case ast.ExprBinary:
		return l.binary(e)
	case ast.ExprCompare:
		return l.compare(e)
	case ast.ExprBoolOp:
		d := e.Data.(*ast.BoolOpExpr)
		values, err := l.values(d.Values)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			if err := l.truthy(v, fmt.Sprintf("operand of %s", d.Op)); err != nil {
				return nil, err
			}
		}
		return &uir.Expr{Kind: uir.ExprBoolOp, Type: uir.Bool, Span: e.Span,
			Data: &uir.BoolOpExpr{Op: d.Op, Values: values}}, nil
	case ast.ExprUnary:
		return l.unary(e)
	case ast.ExprCall:
		return l.call(e)
	case ast.ExprList:
		return l.list(e)
	case ast.ExprSubscript:
		d := e.Data.(*ast.SubscriptExpr)
		recv, err := l.value(d.Value)
		if err != nil {
			return nil, err
		}
		index, err := l.value(d.Index)
		if err != nil {
			return nil, err
		}
		return l.dunder(recv, "__getitem__", diag.SemaNotIndexable, e.Span, index)
	case ast.ExprAttribute:
		return l.attribute(e)
	}
	return nil, l.errorf(diag.SemaUnsupported, e.Span, "unsupported expression %s", e.Kind)
}

func (l *bodyLowerer) constant(e *ast.Expr) *uir.Expr {
	c := e.Data.(*ast.ConstExpr)
	switch c.Kind {
	case ast.ConstInt:
		return uir.IntConst(c.Int, e.Span)
	case ast.ConstFloat:
		return &uir.Expr{Kind: uir.ExprConst, Type: uir.Float, Span: e.Span,
			Data: &uir.ConstExpr{Kind: tir.ConstFloat, Float: c.Float}}
	case ast.ConstStr:
		return uir.StrConst(c.Str, l.table.StrType(), e.Span)
	case ast.ConstBool:
		return uir.BoolConst(c.Bool, e.Span)
	case ast.ConstBytes:
		return &uir.Expr{Kind: uir.ExprBytes, Type: uir.ClassType(l.table.Bytes()), Span: e.Span,
			Data: &uir.BytesExpr{Data: c.Bytes}}
	default:
		return &uir.Expr{Kind: uir.ExprConst, Type: uir.Void, Span: e.Span,
			Data: &uir.ConstExpr{Kind: tir.ConstNone}}
	}
}

func (l *bodyLowerer) binary(e *ast.Expr) (*uir.Expr, error) {
	d := e.Data.(*ast.BinaryExpr)
	left, err := l.value(d.Left)
	if err != nil {
		return nil, err
	}
	right, err := l.value(d.Right)
	if err != nil {
		return nil, err
	}
	lt, err := l.concrete(left, "the left operand of "+d.Op.String())
	if err != nil {
		return nil, err
	}
	rt, err := l.concrete(right, "the right operand of "+d.Op.String())
	if err != nil {
		return nil, err
	}
	if !lt.IsNumeric() || !rt.IsNumeric() {
		return nil, l.errorf(diag.SemaInvalidBinaryOperands, e.Span,
			"unsupported operands for %s: %s and %s", d.Op, l.typeName(lt), l.typeName(rt))
	}
	var result uir.Type
	switch d.Op {
	case ast.BinDiv:
		result = uir.Float
	case ast.BinLShift, ast.BinRShift, ast.BinBitOr, ast.BinBitXor, ast.BinBitAnd:
		if lt != uir.Int || rt != uir.Int {
			return nil, l.errorf(diag.SemaInvalidBinaryOperands, e.Span,
				"%s needs int operands, got %s and %s", d.Op, l.typeName(lt), l.typeName(rt))
		}
		result = uir.Int
	default:
		result = uir.Int
		if lt == uir.Float || rt == uir.Float {
			result = uir.Float
		}
	}
	return &uir.Expr{Kind: uir.ExprBinary, Type: result, Span: e.Span,
		Data: &uir.BinaryExpr{Left: left, Op: d.Op, Right: right}}, nil
}

func (l *bodyLowerer) unary(e *ast.Expr) (*uir.Expr, error) {
	d := e.Data.(*ast.UnaryExpr)
	operand, err := l.value(d.Operand)
	if err != nil {
		return nil, err
	}
	if d.Op == ast.UnaryNot {
		if err := l.truthy(operand, "operand of not"); err != nil {
			return nil, err
		}
		return uir.Not(operand), nil
	}
	t, err := l.concrete(operand, "operand of unary -")
	if err != nil {
		return nil, err
	}
	if !t.IsNumeric() {
		return nil, l.errorf(diag.SemaInvalidUnaryOperand, e.Span, "bad operand type for unary -: %s", l.typeName(t))
	}
	return &uir.Expr{Kind: uir.ExprUnary, Type: t, Span: e.Span,
		Data: &uir.UnaryExpr{Op: d.Op, Operand: operand}}, nil
}

// list lowers a list display. An empty display gets a fresh element
// variable; otherwise the element type is the first element's, widened to
// float when int and float elements mix.
func (l *bodyLowerer) list(e *ast.Expr) (*uir.Expr, error) {
	elems, err := l.values(e.Data.(*ast.ListExpr).Elts)
	if err != nil {
		return nil, err
	}
	var elem uir.Type
	if len(elems) == 0 {
		elem = l.cons.Fresh()
	} else {
		elem = l.known(elems[0].Type)
		for _, x := range elems[1:] {
			if elem == uir.Int && l.known(x.Type) == uir.Float {
				elem = uir.Float
			}
		}
		for i, x := range elems {
			if !l.assignable(x.Type, elem, x.Span, "list element") {
				return nil, l.errorf(diag.SemaTypeMismatch, x.Span,
					"list element %d has type %s, expected %s", i, l.typeName(x.Type), l.typeName(elem))
			}
		}
	}
	return &uir.Expr{Kind: uir.ExprList, Type: uir.ClassType(l.table.List(elem)), Span: e.Span,
		Data: &uir.ListExpr{Elems: elems, Elem: elem}}, nil
}

// attribute lowers `m.name` for an imported module m, or a field read.
func (l *bodyLowerer) attribute(e *ast.Expr) (*uir.Expr, error) {
	d := e.Data.(*ast.AttributeExpr)
	if target, ok := l.moduleRef(d.Value); ok {
		g, ok := l.table.Global(target, d.Attr)
		if !ok {
			return nil, l.errorf(diag.SemaUndefinedAttribute, e.Span,
				"module %s has no global %s", l.table.Module(target).Name, d.Attr)
		}
		return uir.Var(tir.GlobalRef(target, g.ID), g.Type, e.Span), nil
	}
	obj, err := l.value(d.Value)
	if err != nil {
		return nil, err
	}
	class, field, t, err := l.field(obj, d.Attr, e)
	if err != nil {
		return nil, err
	}
	return &uir.Expr{Kind: uir.ExprField, Type: t, Span: e.Span,
		Data: &uir.FieldExpr{Object: obj, Class: class, Field: field}}, nil
}

func (l *bodyLowerer) field(obj *uir.Expr, name string, at *ast.Expr) (tir.ClassID, tir.FieldID, uir.Type, error) {
	t, err := l.concrete(obj, "the object of ."+name)
	if err != nil {
		return tir.NoClassID, tir.NoFieldID, uir.Type{}, err
	}
	if t.IsClass() {
		if id, ft, ok := l.table.FieldByName(t.Class, name); ok {
			return t.Class, id, ft, nil
		}
	}
	return tir.NoClassID, tir.NoFieldID, uir.Type{}, l.errorf(diag.SemaUndefinedAttribute, at.Span,
		"%s has no attribute %s", l.typeName(t), name)
}

// moduleRef reports whether e names an imported module. A variable of the
// same name wins.
func (l *bodyLowerer) moduleRef(e *ast.Expr) (tir.ModuleID, bool) {
	name, ok := e.NameOf()
	if !ok {
		return tir.NoModuleID, false
	}
	if l.isVar(name) {
		return tir.NoModuleID, false
	}
	return l.scope.ModuleAlias(name)
}
