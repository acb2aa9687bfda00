//nolint:errcheck // AST nodes are checked by construction; Kind implies the Data payload type.
package lower

import (
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// forStmt lowers
//
//	for x in xs:
//	    body
//
// into
//
//	_for_iter_N = xs.__iter__()
//	_for_done_N = False
//	try:
//	    while not _for_done_N:
//	        try:
//	            x = _for_iter_N.__next__()
//	            body
//	        except StopIteration:
//	            _for_done_N = True
//	finally:
//	    _for_iter_N.__dealloc__()
//
// The outer try is left out when the iterator has nothing to release.
// x and everything the body declares are visible inside the loop only.
func (l *bodyLowerer) forStmt(s *ast.Stmt) ([]*uir.Stmt, error) {
	d := s.Data.(*ast.ForStmt)
	iterable, err := l.value(d.Iter)
	if err != nil {
		return nil, err
	}
	iterCall, err := l.dunder(iterable, "__iter__", diag.SemaNotIterable, d.Iter.Span)
	if err != nil {
		return nil, err
	}
	n := len(l.body.Locals)
	iterLocal := l.hiddenN("_for_iter", n, iterCall.Type, s.Span)
	doneLocal := l.hiddenN("_for_done", n, uir.Bool, s.Span)
	iterVar := uir.Var(tir.LocalRef(iterLocal), iterCall.Type, s.Span)
	doneVar := uir.Var(tir.LocalRef(doneLocal), uir.Bool, s.Span)

	l.pushScope()
	next, err := l.dunder(iterVar, "__next__", diag.SemaNotIterable, d.Iter.Span)
	if err != nil {
		l.popScope()
		return nil, err
	}
	if next.Type.IsVoid() {
		l.popScope()
		return nil, l.errorf(diag.SemaVoidValue, d.Iter.Span, "iterator of %s yields no value", l.typeName(iterable.Type))
	}
	target := l.declare(d.Target, next.Type, s.Span)
	body, err := l.stmts(d.Body)
	l.popScope()
	if err != nil {
		return nil, err
	}

	step := &uir.Stmt{Kind: uir.StmtTry, Span: s.Span, Data: &uir.TryStmt{
		Body: append([]*uir.Stmt{uir.Let(target, next.Type, next, s.Span)}, body...),
		Handlers: []uir.ExceptHandler{{
			Class: l.table.StopIteration(),
			Local: tir.NoLocalID,
			Body:  []*uir.Stmt{uir.AssignVar(tir.LocalRef(doneLocal), uir.BoolConst(true, s.Span), s.Span)},
		}},
	}}
	loop := &uir.Stmt{Kind: uir.StmtWhile, Span: s.Span, Data: &uir.WhileStmt{
		Cond: uir.Not(doneVar),
		Body: []*uir.Stmt{step},
	}}
	out := []*uir.Stmt{
		uir.Let(iterLocal, iterCall.Type, iterCall, s.Span),
		uir.Let(doneLocal, uir.Bool, uir.BoolConst(false, s.Span), s.Span),
	}

	release, ok, err := l.dealloc(iterVar, s.Span)
	if err != nil {
		return nil, err
	}
	if !ok {
		return append(out, loop), nil
	}
	return append(out, &uir.Stmt{Kind: uir.StmtTry, Span: s.Span, Data: &uir.TryStmt{
		Body:    []*uir.Stmt{loop},
		Finally: []*uir.Stmt{uir.ExprS(release)},
	}}), nil
}

// dealloc returns the release call of an iterator, if its class has one.
func (l *bodyLowerer) dealloc(iter *uir.Expr, sp source.Span) (*uir.Expr, bool, error) {
	t := l.known(iter.Type)
	if !t.IsClass() {
		return nil, false, nil
	}
	if _, ok := l.table.ResolveMethod(t.Class, "__dealloc__"); !ok {
		return nil, false, nil
	}
	call, err := l.methodCall(iter, "__dealloc__", nil, sp, diag.SemaUndefinedMethod)
	return call, err == nil, err
}

// hiddenN allocates a temporary named prefix_n for a construct that
// needs several temporaries under one number.
func (l *bodyLowerer) hiddenN(prefix string, n int, t uir.Type, sp source.Span) tir.LocalID {
	return l.body.AddLocal(fmt.Sprintf("%s_%d", prefix, n), t, sp)
}
