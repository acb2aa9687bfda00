package ast

import "golang.org/x/text/unicode/norm"

// Normalize rewrites every identifier of m into NFKC form, the way the
// source language compares identifiers. It is idempotent.
func Normalize(m *Module) {
	if m == nil {
		return
	}
	for i := range m.Imports {
		imp := &m.Imports[i]
		imp.Alias = ident(imp.Alias)
		for j := range imp.Names {
			imp.Names[j].Name = ident(imp.Names[j].Name)
			imp.Names[j].Alias = ident(imp.Names[j].Alias)
		}
	}
	normalizeStmts(m.Body)
}

func ident(s string) string {
	if s == "" || norm.NFKC.IsNormalString(s) {
		return s
	}
	return norm.NFKC.String(s)
}

func normalizeType(t *TypeExpr) {
	for ; t != nil; t = t.Elem {
		t.Name = ident(t.Name)
	}
}

func normalizeFunc(fn *FunctionDef) {
	fn.Name = ident(fn.Name)
	for i := range fn.Args {
		fn.Args[i].Name = ident(fn.Args[i].Name)
		normalizeType(fn.Args[i].Annotation)
	}
	normalizeType(fn.Returns)
	normalizeStmts(fn.Body)
}

func normalizeStmts(stmts []*Stmt) {
	for _, s := range stmts {
		if s == nil {
			continue
		}
		switch d := s.Data.(type) {
		case *FunctionDef:
			normalizeFunc(d)
		case *ClassDef:
			d.Name = ident(d.Name)
			for i := range d.Bases {
				d.Bases[i] = ident(d.Bases[i])
			}
			for i := range d.Fields {
				d.Fields[i].Name = ident(d.Fields[i].Name)
				normalizeType(d.Fields[i].Annotation)
			}
			for _, m := range d.Methods {
				normalizeFunc(m)
			}
		case *IfStmt:
			normalizeExpr(d.Test)
			normalizeStmts(d.Body)
			normalizeStmts(d.Orelse)
		case *WhileStmt:
			normalizeExpr(d.Test)
			normalizeStmts(d.Body)
		case *ForStmt:
			d.Target = ident(d.Target)
			normalizeExpr(d.Iter)
			normalizeStmts(d.Body)
		case *ReturnStmt:
			normalizeExpr(d.Value)
		case *AssignStmt:
			for _, t := range d.Targets {
				normalizeExpr(t)
			}
			normalizeExpr(d.Value)
			normalizeType(d.Annotation)
		case *AugAssignStmt:
			d.Target = ident(d.Target)
			normalizeExpr(d.Value)
		case *ExprStmt:
			normalizeExpr(d.Value)
		case *TryStmt:
			normalizeStmts(d.Body)
			for i := range d.Handlers {
				h := &d.Handlers[i]
				h.Type = ident(h.Type)
				h.Name = ident(h.Name)
				normalizeStmts(h.Body)
			}
			normalizeStmts(d.Orelse)
			normalizeStmts(d.Finally)
		case *RaiseStmt:
			normalizeExpr(d.Exc)
		}
	}
}

func normalizeExpr(e *Expr) {
	if e == nil {
		return
	}
	switch d := e.Data.(type) {
	case *NameExpr:
		d.Name = ident(d.Name)
	case *BinaryExpr:
		normalizeExpr(d.Left)
		normalizeExpr(d.Right)
	case *CompareExpr:
		normalizeExpr(d.Left)
		for _, c := range d.Comparators {
			normalizeExpr(c)
		}
	case *BoolOpExpr:
		for _, v := range d.Values {
			normalizeExpr(v)
		}
	case *UnaryExpr:
		normalizeExpr(d.Operand)
	case *CallExpr:
		normalizeExpr(d.Func)
		for _, a := range d.Args {
			normalizeExpr(a)
		}
	case *ListExpr:
		for _, el := range d.Elts {
			normalizeExpr(el)
		}
	case *SubscriptExpr:
		normalizeExpr(d.Value)
		normalizeExpr(d.Index)
	case *AttributeExpr:
		normalizeExpr(d.Value)
		d.Attr = ident(d.Attr)
	}
}
