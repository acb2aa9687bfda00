package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

// CheckProgram runs the structural invariants of an assembled program:
// 1) every table entry's handle equals its index and the entry module exists
// 2) runtime functions carry no body, user functions end their body somewhere
// 3) every handle reachable from a body is in range for its table
// 4) calls pass exactly as many arguments as the callee declares
// 5) a method receiver is an instance of the method's class or a subclass,
// or of any specialization of the same generic for a shared method
func CheckProgram(p *tir.Program) error {
	if p == nil {
		return fmt.Errorf("nil program")
	}
	nf, err := safecast.Conv[uint32](len(p.Functions))
	if err != nil {
		return fmt.Errorf("function table overflow: %w", err)
	}
	nc, err := safecast.Conv[uint32](len(p.Classes))
	if err != nil {
		return fmt.Errorf("class table overflow: %w", err)
	}
	nm, err := safecast.Conv[uint32](len(p.Modules))
	if err != nil {
		return fmt.Errorf("module table overflow: %w", err)
	}
	c := &checker{prog: p, funcs: nf, classes: nc, modules: nm}

	if uint32(p.Entry) >= nm {
		return fmt.Errorf("entry module %d out of range (%d modules)", p.Entry, nm)
	}
	for i := range p.Classes {
		cl := &p.Classes[i]
		if cl.ID != tir.NextID[tir.ClassID](i) {
			return fmt.Errorf("class %s has id %d at index %d", cl.QualifiedName, cl.ID, i)
		}
		if cl.Parent.IsValid() && uint32(cl.Parent) >= nc {
			return fmt.Errorf("class %s: parent %d out of range", cl.QualifiedName, cl.Parent)
		}
		for _, m := range cl.Methods {
			if uint32(m.Func) >= nf {
				return fmt.Errorf("class %s: method %s bound to function %d out of range", cl.QualifiedName, m.Name, m.Func)
			}
		}
		for _, f := range cl.Layout() {
			if err := c.typ(f.Type); err != nil {
				return fmt.Errorf("class %s field %s: %w", cl.QualifiedName, f.Name, err)
			}
		}
	}
	for i := range p.Functions {
		fn := &p.Functions[i]
		if fn.ID != tir.NextID[tir.FuncID](i) {
			return fmt.Errorf("function %s has id %d at index %d", fn.QualifiedName, fn.ID, i)
		}
		if fn.IsRuntime() {
			if len(fn.Body) != 0 || len(fn.Locals) != 0 {
				return fmt.Errorf("runtime function %s has a body", fn.QualifiedName)
			}
			continue
		}
		if len(fn.Body) == 0 {
			return fmt.Errorf("function %s has an empty body", fn.QualifiedName)
		}
		frame := &frame{name: fn.QualifiedName, locals: fn.Locals, params: len(fn.Params), method: fn.Class.IsValid()}
		if err := c.stmts(frame, fn.Body); err != nil {
			return err
		}
	}
	for i := range p.Modules {
		m := &p.Modules[i]
		if m.ID != tir.NextID[tir.ModuleID](i) {
			return fmt.Errorf("module %s has id %d at index %d", m.Name, m.ID, i)
		}
		for j, g := range m.Globals {
			if g.ID != tir.NextID[tir.GlobalID](j) {
				return fmt.Errorf("module %s: global %s has id %d at index %d", m.Name, g.Name, g.ID, j)
			}
		}
		for _, f := range m.Functions {
			if uint32(f) >= nf {
				return fmt.Errorf("module %s: function %d out of range", m.Name, f)
			}
		}
		for _, cl := range m.Classes {
			if uint32(cl) >= nc {
				return fmt.Errorf("module %s: class %d out of range", m.Name, cl)
			}
		}
		frame := &frame{name: m.Name + ".<init>", locals: m.InitLocals}
		if err := c.stmts(frame, m.Init); err != nil {
			return err
		}
	}
	return nil
}

type checker struct {
	prog    *tir.Program
	funcs   uint32
	classes uint32
	modules uint32
}

// frame is the variable space of one body.
type frame struct {
	name   string
	locals []tir.Local
	params int
	method bool
}

func (c *checker) typ(t tir.Type) error {
	if t.Kind == tir.TypeClass && uint32(t.Class) >= c.classes {
		return fmt.Errorf("class type %d out of range", t.Class)
	}
	return nil
}

func (c *checker) local(f *frame, id tir.LocalID) error {
	if !id.IsValid() || int(id) >= len(f.locals) {
		return fmt.Errorf("%s: local %d out of range (%d locals)", f.name, id, len(f.locals))
	}
	return nil
}

func (c *checker) ref(f *frame, v tir.VarRef) error {
	switch v.Kind {
	case tir.VarLocal:
		return c.local(f, v.Local)
	case tir.VarParam:
		if int(v.Param) >= f.params {
			return fmt.Errorf("%s: param %d out of range (%d params)", f.name, v.Param, f.params)
		}
	case tir.VarSelf:
		if !f.method {
			return fmt.Errorf("%s: self outside a method", f.name)
		}
	case tir.VarGlobal:
		if uint32(v.Module) >= c.modules {
			return fmt.Errorf("%s: global of module %d out of range", f.name, v.Module)
		}
		if int(v.Global) >= len(c.prog.Modules[v.Module].Globals) {
			return fmt.Errorf("%s: global %d of %s out of range", f.name, v.Global, c.prog.Modules[v.Module].Name)
		}
	}
	return nil
}

func (c *checker) field(f *frame, class tir.ClassID, id tir.FieldID) error {
	if uint32(class) >= c.classes {
		return fmt.Errorf("%s: field owner %d out of range", f.name, class)
	}
	cl := &c.prog.Classes[class]
	if n := len(cl.InheritedFields) + len(cl.Fields); int(id) >= n {
		return fmt.Errorf("%s: field %d out of range for %s (%d slots)", f.name, id, cl.QualifiedName, n)
	}
	return nil
}

func (c *checker) stmts(f *frame, ss []*tir.Stmt) error {
	for _, s := range ss {
		if err := c.stmt(f, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) stmt(f *frame, s *tir.Stmt) error {
	if s == nil {
		return fmt.Errorf("%s: nil statement", f.name)
	}
	switch d := s.Data.(type) {
	case *tir.LetStmt:
		if err := c.local(f, d.Local); err != nil {
			return err
		}
		return c.expr(f, d.Init)
	case *tir.AssignStmt:
		switch d.Target.Kind {
		case tir.LValueVar:
			if err := c.ref(f, d.Target.Var); err != nil {
				return err
			}
		case tir.LValueField:
			if err := c.expr(f, d.Target.Object); err != nil {
				return err
			}
			if err := c.field(f, d.Target.Class, d.Target.Field); err != nil {
				return err
			}
		}
		return c.expr(f, d.Value)
	case *tir.AugAssignStmt:
		if err := c.ref(f, d.Target); err != nil {
			return err
		}
		return c.expr(f, d.Value)
	case *tir.ExprStmt:
		return c.expr(f, d.Value)
	case *tir.ReturnStmt:
		if d.Value != nil {
			return c.expr(f, d.Value)
		}
	case *tir.IfStmt:
		if err := c.expr(f, d.Cond); err != nil {
			return err
		}
		if err := c.stmts(f, d.Then); err != nil {
			return err
		}
		return c.stmts(f, d.Else)
	case *tir.WhileStmt:
		if err := c.expr(f, d.Cond); err != nil {
			return err
		}
		return c.stmts(f, d.Body)
	case *tir.TryStmt:
		if err := c.stmts(f, d.Body); err != nil {
			return err
		}
		for _, h := range d.Handlers {
			if h.Class.IsValid() && uint32(h.Class) >= c.classes {
				return fmt.Errorf("%s: handler class %d out of range", f.name, h.Class)
			}
			if h.Local.IsValid() {
				if err := c.local(f, h.Local); err != nil {
					return err
				}
			}
			if err := c.stmts(f, h.Body); err != nil {
				return err
			}
		}
		if err := c.stmts(f, d.Orelse); err != nil {
			return err
		}
		return c.stmts(f, d.Finally)
	case *tir.RaiseStmt:
		if d.Exc != nil {
			return c.expr(f, d.Exc)
		}
	default:
		return fmt.Errorf("%s: unexpected statement payload %T for %s", f.name, s.Data, s.Kind)
	}
	return nil
}

func (c *checker) exprs(f *frame, es []*tir.Expr) error {
	for _, e := range es {
		if err := c.expr(f, e); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) expr(f *frame, e *tir.Expr) error {
	if e == nil {
		return fmt.Errorf("%s: nil expression", f.name)
	}
	if err := c.typ(e.Type); err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	switch d := e.Data.(type) {
	case *tir.ConstExpr, *tir.BytesExpr:
	case *tir.VarExpr:
		return c.ref(f, d.Ref)
	case *tir.BinaryExpr:
		return c.exprs(f, []*tir.Expr{d.Left, d.Right})
	case *tir.CompareExpr:
		return c.exprs(f, []*tir.Expr{d.Left, d.Right})
	case *tir.BoolOpExpr:
		return c.exprs(f, d.Values)
	case *tir.UnaryExpr:
		return c.expr(f, d.Operand)
	case *tir.CallExpr:
		if uint32(d.Func) >= c.funcs {
			return fmt.Errorf("%s: call of function %d out of range", f.name, d.Func)
		}
		callee := &c.prog.Functions[d.Func]
		if len(d.Args) != len(callee.Params) {
			return fmt.Errorf("%s: call of %s passes %d arguments, want %d", f.name, callee.QualifiedName, len(d.Args), len(callee.Params))
		}
		if err := c.exprs(f, d.Args); err != nil {
			return err
		}
		if callee.Class.IsValid() && len(d.Args) > 0 && !c.receives(callee, d.Args[0].Type) {
			return fmt.Errorf("%s: %s cannot take a receiver of type %s", f.name, callee.QualifiedName, c.prog.TypeName(d.Args[0].Type))
		}
		return nil
	case *tir.ConstructExpr:
		if uint32(d.Class) >= c.classes {
			return fmt.Errorf("%s: construct of class %d out of range", f.name, d.Class)
		}
		return c.exprs(f, d.Args)
	case *tir.RangeExpr:
		for _, x := range []*tir.Expr{d.Start, d.Stop, d.Step} {
			if x == nil {
				continue
			}
			if err := c.expr(f, x); err != nil {
				return err
			}
		}
	case *tir.FieldExpr:
		if err := c.expr(f, d.Object); err != nil {
			return err
		}
		return c.field(f, d.Class, d.Field)
	case *tir.ListExpr:
		return c.exprs(f, d.Elems)
	case *tir.BindExpr:
		if err := c.local(f, d.Local); err != nil {
			return err
		}
		return c.expr(f, d.Value)
	default:
		return fmt.Errorf("%s: unexpected expression payload %T for %s", f.name, e.Data, e.Kind)
	}
	return nil
}

// receives reports whether t may be the receiver of method fn: fn belongs
// to t's class or an ancestor, or fn is shared and t's class binds it.
func (c *checker) receives(fn *tir.Function, t tir.Type) bool {
	if !t.IsClass() {
		return false
	}
	for id := t.Class; id.IsValid() && uint32(id) < c.classes; id = c.prog.Classes[id].Parent {
		if id == fn.Class {
			return true
		}
		if bound, ok := c.prog.Classes[id].Method(fn.Name); ok && bound == fn.ID && fn.Shared {
			return true
		}
	}
	return false
}
