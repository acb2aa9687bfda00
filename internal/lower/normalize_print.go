//nolint:errcheck // AST nodes are checked by construction; Kind implies the Data payload type.
package lower

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// printArgs reports whether e is a call of the print built-in.
func (l *bodyLowerer) printArgs(e *ast.Expr) ([]*ast.Expr, bool) {
	if e.Kind != ast.ExprCall {
		return nil, false
	}
	call := e.Data.(*ast.CallExpr)
	name, ok := call.Func.NameOf()
	if !ok || name != "print" || l.isVar(name) {
		return nil, false
	}
	if _, shadowed := l.scope.Function(name); shadowed {
		return nil, false
	}
	return call.Args, true
}

// print expands print(a, b) into one write per argument, a space between
// arguments and a final newline.
func (l *bodyLowerer) print(args []*ast.Expr, sp source.Span) ([]*uir.Stmt, error) {
	out := make([]*uir.Stmt, 0, 2*len(args)+1)
	for i, a := range args {
		if i > 0 {
			out = append(out, uir.ExprS(uir.Call(l.table.WriteSpace(), uir.Void, sp)))
		}
		v, err := l.value(a)
		if err != nil {
			return nil, err
		}
		w, err := l.write(v)
		if err != nil {
			return nil, err
		}
		out = append(out, uir.ExprS(w))
	}
	return append(out, uir.ExprS(uir.Call(l.table.WriteNewline(), uir.Void, sp))), nil
}

// write picks the output primitive for v's type.
func (l *bodyLowerer) write(v *uir.Expr) (*uir.Expr, error) {
	t, err := l.concrete(v, "the print argument")
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case uir.TypeInt:
		return uir.Call(l.table.IntPrint(), uir.Void, v.Span, v), nil
	case uir.TypeFloat:
		return uir.Call(l.table.FloatPrint(), uir.Void, v.Span, v), nil
	case uir.TypeBool:
		return uir.Call(l.table.BoolPrint(), uir.Void, v.Span, v), nil
	case uir.TypeClass:
		s, err := l.str(v, t)
		if err != nil {
			return nil, err
		}
		return uir.Call(l.table.WriteString(), uir.Void, v.Span, s), nil
	}
	return nil, l.errorf(diag.SemaTypeMismatch, v.Span, "cannot print a value of type %s", l.typeName(t))
}

// str converts a class instance to str through __str__, then __repr__,
// then a fixed "<Name object>" text.
func (l *bodyLowerer) str(v *uir.Expr, t uir.Type) (*uir.Expr, error) {
	if l.table.IsBuiltin(t.Class, symbols.ClassStr) {
		return v, nil
	}
	for _, name := range []string{"__str__", "__repr__"} {
		if _, ok := l.table.ResolveMethod(t.Class, name); !ok {
			continue
		}
		call, err := l.methodCall(v, name, nil, v.Span, diag.SemaUndefinedMethod)
		if err != nil {
			return nil, err
		}
		if l.known(call.Type) != l.table.StrType() {
			return nil, l.errorf(diag.SemaTypeMismatch, v.Span, "%s.%s must return str, not %s",
				l.table.ClassName(t.Class), name, l.typeName(call.Type))
		}
		return call, nil
	}
	return uir.StrConst("<"+l.table.Class(t.Class).Name+" object>", l.table.StrType(), v.Span), nil
}
