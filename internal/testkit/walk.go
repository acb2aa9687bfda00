package testkit

import "github.com/cla7aye15I4nd/TypePython/internal/tir"

// Stmts flattens ss and every nested block into pre-order.
func Stmts(ss []*tir.Stmt) []*tir.Stmt {
	var out []*tir.Stmt
	var walk func([]*tir.Stmt)
	walk = func(ss []*tir.Stmt) {
		for _, s := range ss {
			out = append(out, s)
			switch d := s.Data.(type) {
			case *tir.IfStmt:
				walk(d.Then)
				walk(d.Else)
			case *tir.WhileStmt:
				walk(d.Body)
			case *tir.TryStmt:
				walk(d.Body)
				for _, h := range d.Handlers {
					walk(h.Body)
				}
				walk(d.Orelse)
				walk(d.Finally)
			}
		}
	}
	walk(ss)
	return out
}

// Exprs returns every expression reachable from ss, outer before inner.
func Exprs(ss []*tir.Stmt) []*tir.Expr {
	var out []*tir.Expr
	var expr func(*tir.Expr)
	expr = func(e *tir.Expr) {
		if e == nil {
			return
		}
		out = append(out, e)
		switch d := e.Data.(type) {
		case *tir.BinaryExpr:
			expr(d.Left)
			expr(d.Right)
		case *tir.CompareExpr:
			expr(d.Left)
			expr(d.Right)
		case *tir.BoolOpExpr:
			for _, v := range d.Values {
				expr(v)
			}
		case *tir.UnaryExpr:
			expr(d.Operand)
		case *tir.CallExpr:
			for _, a := range d.Args {
				expr(a)
			}
		case *tir.ConstructExpr:
			for _, a := range d.Args {
				expr(a)
			}
		case *tir.RangeExpr:
			expr(d.Start)
			expr(d.Stop)
			expr(d.Step)
		case *tir.FieldExpr:
			expr(d.Object)
		case *tir.ListExpr:
			for _, v := range d.Elems {
				expr(v)
			}
		case *tir.BindExpr:
			expr(d.Value)
		}
	}
	for _, s := range Stmts(ss) {
		switch d := s.Data.(type) {
		case *tir.LetStmt:
			expr(d.Init)
		case *tir.AssignStmt:
			expr(d.Target.Object)
			expr(d.Value)
		case *tir.AugAssignStmt:
			expr(d.Value)
		case *tir.ExprStmt:
			expr(d.Value)
		case *tir.ReturnStmt:
			expr(d.Value)
		case *tir.IfStmt:
			expr(d.Cond)
		case *tir.WhileStmt:
			expr(d.Cond)
		case *tir.RaiseStmt:
			expr(d.Exc)
		}
	}
	return out
}

// Calls returns the callees of every call reachable from ss, in order.
func Calls(ss []*tir.Stmt) []tir.FuncID {
	var out []tir.FuncID
	for _, e := range Exprs(ss) {
		if c, ok := e.Data.(*tir.CallExpr); ok {
			out = append(out, c.Func)
		}
	}
	return out
}
