//nolint:errcheck // AST nodes are checked by construction; Kind implies the Data payload type.
package lower

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// compare lowers a comparison. A chain `a < b < c` becomes
// `a < b and b < c` with every inner operand evaluated once: a constant or
// variable is shared as the same node, anything else is stored in a
// hidden _cmp local on first use and read back from it.
func (l *bodyLowerer) compare(e *ast.Expr) (*uir.Expr, error) {
	d := e.Data.(*ast.CompareExpr)
	if len(d.Ops) == 0 || len(d.Ops) != len(d.Comparators) {
		return nil, l.errorf(diag.SemaUnsupported, e.Span, "malformed comparison")
	}
	left, err := l.value(d.Left)
	if err != nil {
		return nil, err
	}
	links := make([]*uir.Expr, 0, len(d.Ops))
	for i, op := range d.Ops {
		right, err := l.value(d.Comparators[i])
		if err != nil {
			return nil, err
		}
		// reuse is what the next link sees as its left operand.
		reuse := right
		last := i == len(d.Ops)-1
		if !last && !right.IsPure() {
			tmp := l.hidden("_cmp", right.Type, right.Span)
			reuse = uir.Var(tir.LocalRef(tmp), right.Type, right.Span)
			right = &uir.Expr{Kind: uir.ExprBind, Type: right.Type, Span: right.Span,
				Data: &uir.BindExpr{Local: tmp, Value: right}}
		}
		if !l.comparable(left.Type, right.Type, e.Span) {
			return nil, l.errorf(diag.SemaInvalidComparison, e.Span,
				"cannot compare %s %s %s", l.typeName(left.Type), op, l.typeName(right.Type))
		}
		links = append(links, &uir.Expr{Kind: uir.ExprCompare, Type: uir.Bool, Span: e.Span,
			Data: &uir.CompareExpr{Left: left, Op: op, Right: right}})
		left = reuse
	}
	if len(links) == 1 {
		return links[0], nil
	}
	return &uir.Expr{Kind: uir.ExprBoolOp, Type: uir.Bool, Span: e.Span,
		Data: &uir.BoolOpExpr{Op: ast.BoolAnd, Values: links}}, nil
}
