package collect

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// globals registers every name bound by a top-level assignment. The type
// comes from the annotation or is read off the value; nothing is guessed.
func (c *collector) globals(mod tir.ModuleID) {
	tree := c.table.Module(mod).Tree
	if tree == nil {
		return
	}
	lookup := func(name string) (tir.ClassID, bool) { return c.table.ResolveClassName(mod, name) }
	for _, st := range tree.Body {
		if st.Kind != ast.StmtAssign {
			continue
		}
		as := st.Data.(*ast.AssignStmt)
		if len(as.Targets) != 1 {
			// Reported when the initializer is lowered.
			continue
		}
		name, ok := as.Targets[0].NameOf()
		if !ok {
			continue
		}
		if _, exists := c.table.Global(mod, name); exists {
			continue
		}
		if _, clash := c.table.LookupFunction(mod, name); clash {
			c.errorf(diag.SemaDuplicateDefinition, mod, st.Span, "global %s shadows function %s", name, name).Emit()
			continue
		}
		if _, clash := c.table.LocalClass(mod, name); clash {
			c.errorf(diag.SemaDuplicateDefinition, mod, st.Span, "global %s shadows class %s", name, name).Emit()
			continue
		}
		var typ uir.Type
		if as.Annotation != nil {
			t, missing, ok := c.table.AnnotationType(as.Annotation, lookup)
			if !ok {
				c.errorf(diag.SemaUndefinedClass, mod, pick(as.Annotation.Span, st.Span), "unknown type %s for global %s", missing, name).Emit()
				continue
			}
			typ = t
		} else {
			t, ok := c.valueType(mod, as.Value, lookup)
			if !ok {
				c.errorf(diag.SemaMissingAnnotation, mod, st.Span,
					"cannot tell the type of global %s from its value; add an annotation", name).Emit()
				continue
			}
			typ = t
		}
		if typ.IsVoid() {
			c.errorf(diag.SemaVoidValue, mod, st.Span, "global %s cannot hold None", name).Emit()
			continue
		}
		c.table.AddGlobal(mod, name, typ, st.Span)
	}
}

// valueType reads a global's type off its initial value without lowering
// it: literals, negated numeric literals, list displays of literals of one
// type, constructor calls and calls of functions with a declared result.
// An empty list display gets a pending element type.
func (c *collector) valueType(mod tir.ModuleID, e *ast.Expr, lookup symbols.ClassLookup) (uir.Type, bool) {
	if e == nil {
		return uir.Type{}, false
	}
	switch e.Kind {
	case ast.ExprConst:
		switch e.Data.(*ast.ConstExpr).Kind {
		case ast.ConstInt:
			return uir.Int, true
		case ast.ConstFloat:
			return uir.Float, true
		case ast.ConstBool:
			return uir.Bool, true
		case ast.ConstStr:
			return c.table.StrType(), true
		case ast.ConstBytes:
			return uir.ClassType(c.table.Bytes()), true
		}
	case ast.ExprUnary:
		u := e.Data.(*ast.UnaryExpr)
		if t, ok := c.valueType(mod, u.Operand, lookup); ok {
			if u.Op == ast.UnaryNot {
				return uir.Bool, true
			}
			if t.IsNumeric() {
				return t, true
			}
		}
	case ast.ExprList:
		elts := e.Data.(*ast.ListExpr).Elts
		if len(elts) == 0 {
			// Settled by whatever the initializer or a function stores.
			return uir.ClassType(c.table.List(c.table.FreshVar())), true
		}
		first, ok := c.valueType(mod, elts[0], lookup)
		if !ok {
			return uir.Type{}, false
		}
		for _, el := range elts[1:] {
			if t, ok := c.valueType(mod, el, lookup); !ok || t != first {
				return uir.Type{}, false
			}
		}
		return uir.ClassType(c.table.List(first)), true
	case ast.ExprCall:
		call := e.Data.(*ast.CallExpr)
		if call.Func.Kind == ast.ExprAttribute {
			attr := call.Func.Data.(*ast.AttributeExpr)
			if alias, ok := attr.Value.NameOf(); ok {
				if target, ok := c.moduleAlias(mod, alias); ok {
					if fn, ok := c.table.LookupFunction(target, attr.Attr); ok {
						return c.returnType(fn)
					}
					if id, ok := c.table.LocalClass(target, attr.Attr); ok {
						return uir.ClassType(id), true
					}
				}
			}
			return uir.Type{}, false
		}
		name, ok := call.Func.NameOf()
		if !ok {
			return uir.Type{}, false
		}
		if fn, ok := c.visibleFunction(mod, name); ok {
			return c.returnType(fn)
		}
		if id, ok := lookup(name); ok {
			return uir.ClassType(id), true
		}
	}
	return uir.Type{}, false
}

func (c *collector) returnType(fn tir.FuncID) (uir.Type, bool) {
	ret := c.table.Func(fn).Return
	return ret, !ret.IsVoid()
}

func (c *collector) moduleAlias(mod tir.ModuleID, alias string) (tir.ModuleID, bool) {
	tree := c.table.Module(mod).Tree
	for i := range tree.Imports {
		imp := &tree.Imports[i]
		if imp.Kind == ast.ImportModule && symbols.ModuleAlias(imp) == alias {
			return c.table.ModuleByName(imp.ModuleID)
		}
	}
	return tir.NoModuleID, false
}

func (c *collector) visibleFunction(mod tir.ModuleID, name string) (tir.FuncID, bool) {
	if fn, ok := c.table.LookupFunction(mod, name); ok {
		return fn, true
	}
	tree := c.table.Module(mod).Tree
	for i := range tree.Imports {
		imp := &tree.Imports[i]
		target, ok := c.table.ModuleByName(imp.ModuleID)
		if !ok {
			continue
		}
		switch imp.Kind {
		case ast.ImportNames:
			for _, n := range imp.Names {
				if n.Bound() == name {
					if fn, ok := c.table.LookupFunction(target, n.Name); ok {
						return fn, true
					}
				}
			}
		case ast.ImportStar:
			if symbols.Exported(name) {
				if fn, ok := c.table.LookupFunction(target, name); ok {
					return fn, true
				}
			}
		}
	}
	return tir.NoFuncID, false
}
