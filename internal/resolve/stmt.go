package resolve

import (
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// Body resolves a local table and statement list.
func (r *Resolver) Body(b *uir.Body) ([]tir.Local, []*tir.Stmt, error) {
	locals := make([]tir.Local, len(b.Locals))
	for i, l := range b.Locals {
		t, err := r.typeOf(l.Type, l.Span, "local "+l.Name)
		if err != nil {
			return nil, nil, err
		}
		locals[i] = tir.Local{Name: l.Name, Type: t}
	}
	stmts, err := r.Stmts(b.Stmts)
	if err != nil {
		return nil, nil, err
	}
	return locals, stmts, nil
}

// Stmts resolves a statement list in order.
func (r *Resolver) Stmts(ss []*uir.Stmt) ([]*tir.Stmt, error) {
	if ss == nil {
		return nil, nil
	}
	out := make([]*tir.Stmt, len(ss))
	for i, s := range ss {
		x, err := r.Stmt(s)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// Stmt resolves one statement.
func (r *Resolver) Stmt(s *uir.Stmt) (*tir.Stmt, error) {
	out := &tir.Stmt{Span: s.Span}
	switch d := s.Data.(type) {
	case *uir.LetStmt:
		t, err := r.Type(d.Type, s.Span)
		if err != nil {
			return nil, err
		}
		init, err := r.Expr(d.Init)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtLet
		out.Data = &tir.LetStmt{Local: d.Local, Type: t, Init: init}
	case *uir.AssignStmt:
		target, err := r.lvalue(d.Target)
		if err != nil {
			return nil, err
		}
		value, err := r.Expr(d.Value)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtAssign
		out.Data = &tir.AssignStmt{Target: target, Value: value}
	case *uir.AugAssignStmt:
		value, err := r.Expr(d.Value)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtAugAssign
		out.Data = &tir.AugAssignStmt{Target: d.Target, Op: d.Op, Value: value}
	case *uir.ExprStmt:
		value, err := r.Expr(d.Value)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtExpr
		out.Data = &tir.ExprStmt{Value: value}
	case *uir.ReturnStmt:
		value, err := r.Expr(d.Value)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtReturn
		out.Data = &tir.ReturnStmt{Value: value}
	case *uir.IfStmt:
		cond, err := r.Expr(d.Cond)
		if err != nil {
			return nil, err
		}
		then, err := r.Stmts(d.Then)
		if err != nil {
			return nil, err
		}
		els, err := r.Stmts(d.Else)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtIf
		out.Data = &tir.IfStmt{Cond: cond, Then: then, Else: els}
	case *uir.WhileStmt:
		cond, err := r.Expr(d.Cond)
		if err != nil {
			return nil, err
		}
		body, err := r.Stmts(d.Body)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtWhile
		out.Data = &tir.WhileStmt{Cond: cond, Body: body}
	case *uir.TryStmt:
		try, err := r.try(d)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtTry
		out.Data = try
	case *uir.RaiseStmt:
		exc, err := r.Expr(d.Exc)
		if err != nil {
			return nil, err
		}
		out.Kind = tir.StmtRaise
		out.Data = &tir.RaiseStmt{Exc: exc}
	default:
		panic(fmt.Errorf("resolve: unexpected statement %s", s.Kind))
	}
	return out, nil
}

func (r *Resolver) try(d *uir.TryStmt) (*tir.TryStmt, error) {
	body, err := r.Stmts(d.Body)
	if err != nil {
		return nil, err
	}
	handlers := make([]tir.ExceptHandler, len(d.Handlers))
	for i, h := range d.Handlers {
		hb, err := r.Stmts(h.Body)
		if err != nil {
			return nil, err
		}
		class := h.Class
		if class.IsValid() {
			class = r.table.Canonical(class)
		}
		handlers[i] = tir.ExceptHandler{Class: class, Local: h.Local, Body: hb}
	}
	orelse, err := r.Stmts(d.Orelse)
	if err != nil {
		return nil, err
	}
	finally, err := r.Stmts(d.Finally)
	if err != nil {
		return nil, err
	}
	return &tir.TryStmt{Body: body, Handlers: handlers, Orelse: orelse, Finally: finally}, nil
}

func (r *Resolver) lvalue(lv uir.LValue) (tir.LValue, error) {
	if lv.Kind == tir.LValueVar {
		return tir.LValue{Kind: tir.LValueVar, Var: lv.Var, Class: tir.NoClassID, Field: tir.NoFieldID}, nil
	}
	obj, err := r.Expr(lv.Object)
	if err != nil {
		return tir.LValue{}, err
	}
	class, err := r.Class(lv.Class, lv.Object.Span)
	if err != nil {
		return tir.LValue{}, err
	}
	return tir.LValue{Kind: tir.LValueField, Object: obj, Class: class, Field: lv.Field}, nil
}
