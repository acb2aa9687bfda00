//nolint:errcheck // AST nodes are checked by construction; Kind implies the Data payload type.
package lower

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// call lowers a call expression. Names are tried in this order: super,
// local variables, the built-in functions len, range, iter and next,
// functions in scope, then classes (user classes before built-ins).
func (l *bodyLowerer) call(e *ast.Expr) (*uir.Expr, error) {
	d := e.Data.(*ast.CallExpr)
	switch d.Func.Kind {
	case ast.ExprName:
		return l.callName(e, d.Func.Data.(*ast.NameExpr).Name, d.Args)
	case ast.ExprAttribute:
		return l.callAttr(e, d.Func.Data.(*ast.AttributeExpr), d.Args)
	}
	return nil, l.errorf(diag.SemaNotCallable, d.Func.Span, "%s expression is not callable", d.Func.Kind)
}

func (l *bodyLowerer) callName(e *ast.Expr, name string, args []*ast.Expr) (*uir.Expr, error) {
	switch name {
	case "super":
		return nil, l.errorf(diag.SemaInvalidSuper, e.Span, "super() is only supported as super().method(...)")
	case "print":
		return nil, l.errorf(diag.SemaUnsupported, e.Span, "print(...) can only be used as a statement")
	}
	if _, t, ok := l.lookup(name); ok {
		return nil, l.errorf(diag.SemaNotCallable, e.Span, "%s of type %s is not callable", name, l.typeName(t))
	}
	switch name {
	case "len":
		recv, err := l.single(e, name, args)
		if err != nil {
			return nil, err
		}
		return l.dunder(recv, "__len__", diag.SemaArgTypeMismatch, e.Span)
	case "iter":
		recv, err := l.single(e, name, args)
		if err != nil {
			return nil, err
		}
		return l.dunder(recv, "__iter__", diag.SemaNotIterable, e.Span)
	case "next":
		recv, err := l.single(e, name, args)
		if err != nil {
			return nil, err
		}
		return l.dunder(recv, "__next__", diag.SemaNotIterable, e.Span)
	}
	if fn, ok := l.scope.Function(name); ok {
		return l.callFunc(fn, args, e.Span)
	}
	if class, ok := l.scope.Class(l.table, name); ok {
		return l.construct(class, args, e.Span)
	}
	return nil, l.errorf(diag.SemaUndefinedFunction, e.Span, "function %s is not defined", name)
}

func (l *bodyLowerer) single(e *ast.Expr, name string, args []*ast.Expr) (*uir.Expr, error) {
	if len(args) != 1 {
		return nil, l.errorf(diag.SemaArgCountMismatch, e.Span, "%s() takes exactly one argument (%d given)", name, len(args))
	}
	return l.value(args[0])
}

func (l *bodyLowerer) callAttr(e *ast.Expr, d *ast.AttributeExpr, args []*ast.Expr) (*uir.Expr, error) {
	if isSuperCall(d.Value) {
		return l.superCall(e, d.Attr, args)
	}
	if target, ok := l.moduleRef(d.Value); ok {
		if fn, ok := l.table.LookupFunction(target, d.Attr); ok {
			return l.callFunc(fn, args, e.Span)
		}
		if class, ok := l.table.LocalClass(target, d.Attr); ok {
			return l.construct(class, args, e.Span)
		}
		return nil, l.errorf(diag.SemaUndefinedFunction, e.Span,
			"module %s has no function or class %s", l.table.Module(target).Name, d.Attr)
	}
	recv, err := l.value(d.Value)
	if err != nil {
		return nil, err
	}
	values, err := l.values(args)
	if err != nil {
		return nil, err
	}
	return l.methodCall(recv, d.Attr, values, e.Span, diag.SemaUndefinedMethod)
}

func isSuperCall(e *ast.Expr) bool {
	if e.Kind != ast.ExprCall {
		return false
	}
	c := e.Data.(*ast.CallExpr)
	name, ok := c.Func.NameOf()
	return ok && name == "super" && len(c.Args) == 0
}

// superCall lowers super().name(args) inside a method: the lookup starts
// at the immediate parent of the method's class and self is passed along.
func (l *bodyLowerer) superCall(e *ast.Expr, name string, args []*ast.Expr) (*uir.Expr, error) {
	if !l.class.IsValid() {
		return nil, l.errorf(diag.SemaInvalidSuper, e.Span, "super() used outside a method")
	}
	if !l.table.Class(l.class).Parent.IsValid() {
		return nil, l.errorf(diag.SemaInvalidSuper, e.Span, "class %s has no base class", l.table.ClassName(l.class))
	}
	ref, ok := l.table.SuperMethod(l.class, name)
	if !ok {
		return nil, l.errorf(diag.SemaUndefinedMethod, e.Span,
			"no base class of %s defines %s", l.table.ClassName(l.class), name)
	}
	values, err := l.values(args)
	if err != nil {
		return nil, err
	}
	fn := l.table.Func(ref.Func)
	if err := l.checkArgs(fn.QualifiedName, fn.Params, values, e.Span); err != nil {
		return nil, err
	}
	self := uir.Var(tir.SelfRef(), uir.ClassType(l.class), e.Span)
	return uir.Call(ref.Func, fn.Return, e.Span, append([]*uir.Expr{self}, values...)...), nil
}

func (l *bodyLowerer) callFunc(fn tir.FuncID, args []*ast.Expr, sp source.Span) (*uir.Expr, error) {
	values, err := l.values(args)
	if err != nil {
		return nil, err
	}
	f := l.table.Func(fn)
	if err := l.checkArgs(f.QualifiedName, f.Params, values, sp); err != nil {
		return nil, err
	}
	return uir.Call(fn, f.Return, sp, values...), nil
}

func (l *bodyLowerer) checkArgs(callee string, params []symbols.Param, args []*uir.Expr, sp source.Span) error {
	if len(args) != len(params) {
		return l.errorf(diag.SemaArgCountMismatch, sp, "%s takes %d arguments, %d given", callee, len(params), len(args))
	}
	for i, a := range args {
		if !l.assignable(a.Type, params[i].Type, a.Span, "argument "+params[i].Name) {
			return l.errorf(diag.SemaArgTypeMismatch, a.Span, "argument %s of %s: expected %s, got %s",
				params[i].Name, callee, l.typeName(params[i].Type), l.typeName(a.Type))
		}
	}
	return nil
}

// construct lowers a constructor call of class.
func (l *bodyLowerer) construct(class tir.ClassID, args []*ast.Expr, sp source.Span) (*uir.Expr, error) {
	values, err := l.values(args)
	if err != nil {
		return nil, err
	}
	c := l.table.Class(class)
	if c.Builtin {
		if err := l.builtinCtorArgs(class, values, sp); err != nil {
			return nil, err
		}
	} else if init, ok := l.table.ResolveMethod(class, "__init__"); ok && !l.table.Func(init.Func).IsRuntime() {
		f := l.table.Func(init.Func)
		if err := l.checkArgs(c.Name, f.Params, values, sp); err != nil {
			return nil, err
		}
	} else if l.table.IsExceptionSubclass(class) {
		if err := l.optionalArg(c.Name, values, l.table.StrType(), sp); err != nil {
			return nil, err
		}
	} else if len(values) != 0 {
		return nil, l.errorf(diag.SemaArgCountMismatch, sp, "%s() takes no arguments (%d given)", c.Name, len(values))
	}
	return &uir.Expr{Kind: uir.ExprConstruct, Type: uir.ClassType(class), Span: sp,
		Data: &uir.ConstructExpr{Class: class, Args: values}}, nil
}

func (l *bodyLowerer) builtinCtorArgs(class tir.ClassID, values []*uir.Expr, sp source.Span) error {
	name := l.table.Class(class).Name
	switch name {
	case symbols.ClassRange:
		if len(values) < 1 || len(values) > 3 {
			return l.errorf(diag.SemaArgCountMismatch, sp, "range() takes 1 to 3 arguments (%d given)", len(values))
		}
		for _, v := range values {
			if !l.assignable(v.Type, uir.Int, v.Span, "range bound") {
				return l.errorf(diag.SemaArgTypeMismatch, v.Span, "range() arguments must be int, not %s", l.typeName(v.Type))
			}
		}
		return nil
	case symbols.ClassException:
		return l.optionalArg(name, values, l.table.StrType(), sp)
	case symbols.ClassStopIteration:
		if len(values) != 0 {
			return l.errorf(diag.SemaArgCountMismatch, sp, "StopIteration() takes no arguments (%d given)", len(values))
		}
		return nil
	case symbols.ClassByteArray:
		return l.optionalArg(name, values, uir.ClassType(l.table.Bytes()), sp)
	}
	return l.errorf(diag.SemaUnsupported, sp, "%s cannot be constructed by a call", name)
}

// optionalArg accepts zero arguments or one of type want.
func (l *bodyLowerer) optionalArg(callee string, values []*uir.Expr, want uir.Type, sp source.Span) error {
	if len(values) > 1 {
		return l.errorf(diag.SemaArgCountMismatch, sp, "%s() takes at most one argument (%d given)", callee, len(values))
	}
	if len(values) == 1 && !l.assignable(values[0].Type, want, values[0].Span, "argument of "+callee) {
		return l.errorf(diag.SemaArgTypeMismatch, values[0].Span, "%s() expects %s, got %s",
			callee, l.typeName(want), l.typeName(values[0].Type))
	}
	return nil
}

// dunder calls a protocol method on recv; missing reports a receiver
// that does not implement it.
func (l *bodyLowerer) dunder(recv *uir.Expr, name string, missing diag.Code, sp source.Span, args ...*uir.Expr) (*uir.Expr, error) {
	return l.methodCall(recv, name, args, sp, missing)
}

// methodCall lowers recv.name(args). The receiver's type must be known.
// Storing into a container whose element type is still open records an
// element-type constraint instead of checking the argument.
func (l *bodyLowerer) methodCall(recv *uir.Expr, name string, args []*uir.Expr, sp source.Span, missing diag.Code) (*uir.Expr, error) {
	t, err := l.concrete(recv, "the receiver of "+name)
	if err != nil {
		return nil, err
	}
	if !t.IsClass() {
		return nil, l.errorf(missing, sp, "%s has no method %s", l.typeName(t), name)
	}
	ref, ok := l.table.ResolveMethod(t.Class, name)
	if !ok {
		return nil, l.errorf(missing, sp, "%s has no method %s", l.typeName(t), name)
	}
	fn := l.table.Func(ref.Func)
	c := l.table.Class(t.Class)
	if slot := elementSlot(name); slot >= 0 && c.Generic() && !c.Settled() && len(args) == len(fn.Params) {
		elem := args[slot]
		if elem.Type.IsVoid() {
			return nil, l.errorf(diag.SemaVoidValue, elem.Span, "cannot store None in %s", l.typeName(t))
		}
		l.cons.AddElementType(t, elem.Type, l.origin(elem.Span, l.typeName(t)+"."+name))
		rest := make([]symbols.Param, 0, len(fn.Params))
		restArgs := make([]*uir.Expr, 0, len(args))
		for i := range args {
			if i != slot {
				rest = append(rest, fn.Params[i])
				restArgs = append(restArgs, args[i])
			}
		}
		if err := l.checkArgs(l.typeName(t)+"."+name, rest, restArgs, sp); err != nil {
			return nil, err
		}
	} else if err := l.checkArgs(l.typeName(t)+"."+name, fn.Params, args, sp); err != nil {
		return nil, err
	}
	return uir.Call(ref.Func, fn.Return, sp, append([]*uir.Expr{recv}, args...)...), nil
}

// elementSlot is the argument index carrying the stored element of a
// container mutator, or -1.
func elementSlot(method string) int {
	switch method {
	case "append":
		return 0
	case "__setitem__":
		return 1
	}
	return -1
}
