//nolint:errcheck // AST nodes are checked by construction; Kind implies the Data payload type.
package lower

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// stmts lowers a statement list in source order.
func (l *bodyLowerer) stmts(ss []*ast.Stmt) ([]*uir.Stmt, error) {
	var out []*uir.Stmt
	for _, s := range ss {
		lowered, err := l.stmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered...)
	}
	return out, nil
}

// block lowers ss in a fresh name layer.
func (l *bodyLowerer) block(ss []*ast.Stmt) ([]*uir.Stmt, error) {
	l.pushScope()
	defer l.popScope()
	return l.stmts(ss)
}

func (l *bodyLowerer) stmt(s *ast.Stmt) ([]*uir.Stmt, error) {
	switch s.Kind {
	case ast.StmtFunctionDef, ast.StmtClassDef:
		if l.init {
			// Top-level definitions are collected, not executed.
			return nil, nil
		}
		return nil, l.errorf(diag.SemaUnsupported, s.Span, "nested %s is not supported", s.Kind)
	case ast.StmtAssign:
		return l.assign(s)
	case ast.StmtAugAssign:
		st, err := l.augAssign(s)
		if err != nil {
			return nil, err
		}
		return []*uir.Stmt{st}, nil
	case ast.StmtExpr:
		value := s.Data.(*ast.ExprStmt).Value
		if args, ok := l.printArgs(value); ok {
			return l.print(args, s.Span)
		}
		e, err := l.expr(value)
		if err != nil {
			return nil, err
		}
		return []*uir.Stmt{{Kind: uir.StmtExpr, Span: s.Span, Data: &uir.ExprStmt{Value: e}}}, nil
	case ast.StmtReturn:
		st, err := l.returnStmt(s)
		if err != nil {
			return nil, err
		}
		return []*uir.Stmt{st}, nil
	case ast.StmtIf:
		d := s.Data.(*ast.IfStmt)
		cond, err := l.value(d.Test)
		if err != nil {
			return nil, err
		}
		if err := l.truthy(cond, "if condition"); err != nil {
			return nil, err
		}
		then, err := l.block(d.Body)
		if err != nil {
			return nil, err
		}
		els, err := l.block(d.Orelse)
		if err != nil {
			return nil, err
		}
		return []*uir.Stmt{{Kind: uir.StmtIf, Span: s.Span, Data: &uir.IfStmt{Cond: cond, Then: then, Else: els}}}, nil
	case ast.StmtWhile:
		d := s.Data.(*ast.WhileStmt)
		cond, err := l.value(d.Test)
		if err != nil {
			return nil, err
		}
		if err := l.truthy(cond, "while condition"); err != nil {
			return nil, err
		}
		body, err := l.block(d.Body)
		if err != nil {
			return nil, err
		}
		return []*uir.Stmt{{Kind: uir.StmtWhile, Span: s.Span, Data: &uir.WhileStmt{Cond: cond, Body: body}}}, nil
	case ast.StmtFor:
		return l.forStmt(s)
	case ast.StmtTry:
		st, err := l.try(s)
		if err != nil {
			return nil, err
		}
		return []*uir.Stmt{st}, nil
	case ast.StmtRaise:
		st, err := l.raise(s)
		if err != nil {
			return nil, err
		}
		return []*uir.Stmt{st}, nil
	}
	return nil, l.errorf(diag.SemaUnsupported, s.Span, "unsupported statement %s", s.Kind)
}

func (l *bodyLowerer) assign(s *ast.Stmt) ([]*uir.Stmt, error) {
	d := s.Data.(*ast.AssignStmt)
	if len(d.Targets) != 1 {
		return nil, l.errorf(diag.SemaMultipleTargets, s.Span, "assignment to %d targets at once is not supported", len(d.Targets))
	}
	var ann *uir.Type
	if d.Annotation != nil {
		t, missing, ok := l.table.AnnotationType(d.Annotation, l.classLookup())
		if !ok {
			return nil, l.errorf(diag.SemaUndefinedClass, pickSpan(d.Annotation.Span, s.Span), "unknown type %s", missing)
		}
		if t.IsVoid() {
			return nil, l.errorf(diag.SemaTypeMismatch, s.Span, "a variable cannot be annotated None")
		}
		ann = &t
	}
	target := d.Targets[0]
	if name, ok := target.NameOf(); ok && name == "self" && l.class.IsValid() {
		return nil, l.errorf(diag.SemaInvalidAssignTarget, target.Span, "cannot assign to self")
	}
	value, err := l.value(d.Value)
	if err != nil {
		return nil, err
	}
	if ann != nil && !l.assignable(value.Type, *ann, value.Span, "annotated assignment") {
		return nil, l.errorf(diag.SemaTypeMismatch, value.Span, "cannot assign %s to a variable annotated %s",
			l.typeName(value.Type), l.typeName(*ann))
	}

	switch target.Kind {
	case ast.ExprName:
		name := target.Data.(*ast.NameExpr).Name
		if ref, t, ok := l.lookup(name); ok {
			if ann != nil && l.known(*ann) != l.known(t) {
				return nil, l.errorf(diag.SemaTypeMismatch, s.Span, "%s is already declared as %s", name, l.typeName(t))
			}
			if !l.assignable(value.Type, t, value.Span, "assignment to "+name) {
				return nil, l.errorf(diag.SemaTypeMismatch, value.Span, "cannot assign %s to %s of type %s",
					l.typeName(value.Type), name, l.typeName(t))
			}
			return []*uir.Stmt{uir.AssignVar(ref, value, s.Span)}, nil
		}
		t := value.Type
		if ann != nil {
			t = *ann
		}
		local := l.declare(name, t, s.Span)
		return []*uir.Stmt{uir.Let(local, t, value, s.Span)}, nil
	case ast.ExprAttribute:
		a := target.Data.(*ast.AttributeExpr)
		if mod, ok := l.moduleRef(a.Value); ok {
			g, ok := l.table.Global(mod, a.Attr)
			if !ok {
				return nil, l.errorf(diag.SemaUndefinedAttribute, target.Span,
					"module %s has no global %s", l.table.Module(mod).Name, a.Attr)
			}
			if !l.assignable(value.Type, g.Type, value.Span, "assignment to "+a.Attr) {
				return nil, l.errorf(diag.SemaTypeMismatch, value.Span, "cannot assign %s to %s of type %s",
					l.typeName(value.Type), a.Attr, l.typeName(g.Type))
			}
			return []*uir.Stmt{uir.AssignVar(tir.GlobalRef(mod, g.ID), value, s.Span)}, nil
		}
		obj, err := l.value(a.Value)
		if err != nil {
			return nil, err
		}
		class, field, ft, err := l.field(obj, a.Attr, target)
		if err != nil {
			return nil, err
		}
		if !l.assignable(value.Type, ft, value.Span, "field "+a.Attr) {
			return nil, l.errorf(diag.SemaTypeMismatch, value.Span, "cannot assign %s to field %s of type %s",
				l.typeName(value.Type), a.Attr, l.typeName(ft))
		}
		return []*uir.Stmt{{Kind: uir.StmtAssign, Span: s.Span, Data: &uir.AssignStmt{
			Target: uir.LValue{Kind: tir.LValueField, Object: obj, Class: class, Field: field},
			Value:  value,
		}}}, nil
	case ast.ExprSubscript:
		sub := target.Data.(*ast.SubscriptExpr)
		recv, err := l.value(sub.Value)
		if err != nil {
			return nil, err
		}
		index, err := l.value(sub.Index)
		if err != nil {
			return nil, err
		}
		call, err := l.dunder(recv, "__setitem__", diag.SemaNotIndexable, s.Span, index, value)
		if err != nil {
			return nil, err
		}
		return []*uir.Stmt{{Kind: uir.StmtExpr, Span: s.Span, Data: &uir.ExprStmt{Value: call}}}, nil
	}
	return nil, l.errorf(diag.SemaInvalidAssignTarget, target.Span, "cannot assign to %s expression", target.Kind)
}

// augAssign lowers `name op= value`. Both sides must be numeric, and an
// int target only takes results that stay int.
func (l *bodyLowerer) augAssign(s *ast.Stmt) (*uir.Stmt, error) {
	d := s.Data.(*ast.AugAssignStmt)
	if d.Target == "self" && l.class.IsValid() {
		return nil, l.errorf(diag.SemaInvalidAssignTarget, s.Span, "cannot assign to self")
	}
	ref, t, ok := l.lookup(d.Target)
	if !ok {
		return nil, l.errorf(diag.SemaUndefinedVariable, s.Span, "name %s is not defined", d.Target)
	}
	value, err := l.value(d.Value)
	if err != nil {
		return nil, err
	}
	vt, err := l.concrete(value, "the right side of "+d.Op.String()+"=")
	if err != nil {
		return nil, err
	}
	tt := l.known(t)
	if !tt.IsNumeric() || !vt.IsNumeric() {
		return nil, l.errorf(diag.SemaInvalidAugAssign, s.Span, "%s= needs numeric operands, got %s and %s",
			d.Op, l.typeName(tt), l.typeName(vt))
	}
	switch d.Op {
	case ast.BinLShift, ast.BinRShift, ast.BinBitOr, ast.BinBitXor, ast.BinBitAnd:
		if tt != uir.Int || vt != uir.Int {
			return nil, l.errorf(diag.SemaInvalidAugAssign, s.Span, "%s= needs int operands", d.Op)
		}
	}
	if tt == uir.Int && (vt == uir.Float || d.Op == ast.BinDiv) {
		return nil, l.errorf(diag.SemaInvalidAugAssign, s.Span, "%s %s= %s would turn int %s into float",
			d.Target, d.Op, l.typeName(vt), d.Target)
	}
	return &uir.Stmt{Kind: uir.StmtAugAssign, Span: s.Span,
		Data: &uir.AugAssignStmt{Target: ref, Op: d.Op, Value: value}}, nil
}

func (l *bodyLowerer) returnStmt(s *ast.Stmt) (*uir.Stmt, error) {
	if l.init {
		return nil, l.errorf(diag.SemaReturnOutsideFunc, s.Span, "return outside a function")
	}
	d := s.Data.(*ast.ReturnStmt)
	bare := &uir.Stmt{Kind: uir.StmtReturn, Span: s.Span, Data: &uir.ReturnStmt{}}
	if d.Value == nil || isNone(d.Value) {
		if !l.ret.IsVoid() {
			return nil, l.errorf(diag.SemaReturnTypeMismatch, s.Span, "missing return value of type %s", l.typeName(l.ret))
		}
		return bare, nil
	}
	if l.ret.IsVoid() {
		return nil, l.errorf(diag.SemaReturnTypeMismatch, s.Span, "function without a return type returns a value")
	}
	value, err := l.value(d.Value)
	if err != nil {
		return nil, err
	}
	if !l.assignable(value.Type, l.ret, value.Span, "return value") {
		return nil, l.errorf(diag.SemaReturnTypeMismatch, value.Span, "returns %s, declared %s",
			l.typeName(value.Type), l.typeName(l.ret))
	}
	return &uir.Stmt{Kind: uir.StmtReturn, Span: s.Span, Data: &uir.ReturnStmt{Value: value}}, nil
}

func isNone(e *ast.Expr) bool {
	c, ok := e.Data.(*ast.ConstExpr)
	return ok && c.Kind == ast.ConstNone
}

func (l *bodyLowerer) try(s *ast.Stmt) (*uir.Stmt, error) {
	d := s.Data.(*ast.TryStmt)
	body, err := l.block(d.Body)
	if err != nil {
		return nil, err
	}
	handlers := make([]uir.ExceptHandler, 0, len(d.Handlers))
	for _, h := range d.Handlers {
		lowered, err := l.handler(h, s.Span)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, lowered)
	}
	orelse, err := l.block(d.Orelse)
	if err != nil {
		return nil, err
	}
	finally, err := l.block(d.Finally)
	if err != nil {
		return nil, err
	}
	return &uir.Stmt{Kind: uir.StmtTry, Span: s.Span, Data: &uir.TryStmt{
		Body: body, Handlers: handlers, Orelse: orelse, Finally: finally,
	}}, nil
}

// handler lowers one except clause. `except E as e` binds e in the
// handler body only; a bare `except ... as e` types e as Exception.
func (l *bodyLowerer) handler(h ast.ExceptHandler, at source.Span) (uir.ExceptHandler, error) {
	sp := pickSpan(h.Span, at)
	class := tir.NoClassID
	if h.Type != "" {
		id, ok := l.scope.Class(l.table, h.Type)
		if !ok {
			return uir.ExceptHandler{}, l.errorf(diag.SemaUndefinedClass, sp, "exception class %s is not defined", h.Type)
		}
		if !l.table.IsException(id) {
			return uir.ExceptHandler{}, l.errorf(diag.SemaTypeMismatch, sp, "%s is not an exception class", l.table.ClassName(id))
		}
		class = id
	}
	l.pushScope()
	defer l.popScope()
	local := tir.NoLocalID
	if h.Name != "" {
		bound := class
		if !bound.IsValid() {
			bound = l.table.Exception()
		}
		local = l.declare(h.Name, uir.ClassType(bound), sp)
	}
	body, err := l.stmts(h.Body)
	if err != nil {
		return uir.ExceptHandler{}, err
	}
	return uir.ExceptHandler{Class: class, Local: local, Body: body}, nil
}

// raise lowers `raise`, `raise E` and `raise E(...)`. A bare class name is
// constructed without arguments.
func (l *bodyLowerer) raise(s *ast.Stmt) (*uir.Stmt, error) {
	d := s.Data.(*ast.RaiseStmt)
	if d.Exc == nil {
		return &uir.Stmt{Kind: uir.StmtRaise, Span: s.Span, Data: &uir.RaiseStmt{}}, nil
	}
	var exc *uir.Expr
	if name, ok := d.Exc.NameOf(); ok && !l.isVar(name) {
		class, ok := l.scope.Class(l.table, name)
		if !ok {
			return nil, l.errorf(diag.SemaUndefinedClass, d.Exc.Span, "exception class %s is not defined", name)
		}
		c, err := l.construct(class, nil, d.Exc.Span)
		if err != nil {
			return nil, err
		}
		exc = c
	} else {
		v, err := l.value(d.Exc)
		if err != nil {
			return nil, err
		}
		exc = v
	}
	t := l.known(exc.Type)
	if !t.IsClass() || !l.table.IsException(t.Class) {
		return nil, l.errorf(diag.SemaInvalidRaise, d.Exc.Span, "cannot raise %s; exceptions must derive from Exception", l.typeName(t))
	}
	return &uir.Stmt{Kind: uir.StmtRaise, Span: s.Span, Data: &uir.RaiseStmt{Exc: exc}}, nil
}

func pickSpan(sp, fallback source.Span) source.Span {
	if sp.IsZero() {
		return fallback
	}
	return sp
}
