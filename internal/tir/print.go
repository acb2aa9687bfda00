//nolint:errcheck // Type assertions are checked by construction
package tir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
)

// DumpOptions configures program dumping.
type DumpOptions struct {
	// Runtime includes runtime-provided functions and built-in classes.
	Runtime bool
}

// Printer dumps a Program as indented text.
type Printer struct {
	w      io.Writer
	prog   *Program
	indent int
	opts   DumpOptions
	err    error
}

// NewPrinter creates a printer for prog.
func NewPrinter(w io.Writer, prog *Program, opts DumpOptions) *Printer {
	return &Printer{w: w, prog: prog, opts: opts}
}

// Dump writes the whole program.
func Dump(w io.Writer, prog *Program, opts DumpOptions) error {
	return NewPrinter(w, prog, opts).PrintProgram()
}

// PrintProgram prints modules, classes and functions in handle order.
func (p *Printer) PrintProgram() error {
	entry := "?"
	if p.prog.Entry.IsValid() && int(p.prog.Entry) < len(p.prog.Modules) {
		entry = p.prog.Modules[p.prog.Entry].Name
	}
	p.printf("program entry=%s\n\n", entry)
	for i := range p.prog.Modules {
		p.PrintModule(&p.prog.Modules[i])
		p.printf("\n")
	}
	for i := range p.prog.Classes {
		c := &p.prog.Classes[i]
		if c.Builtin && !p.opts.Runtime {
			continue
		}
		p.PrintClass(c)
		p.printf("\n")
	}
	for i := range p.prog.Functions {
		f := &p.prog.Functions[i]
		if f.IsRuntime() && !p.opts.Runtime {
			continue
		}
		p.PrintFunction(f)
		p.printf("\n")
	}
	return p.err
}

// PrintModule prints globals and the initializer of m.
func (p *Printer) PrintModule(m *Module) {
	p.printf("module %s (#%d)\n", m.Name, m.ID)
	for _, g := range m.Globals {
		p.printf("  global %d %s: %s\n", g.ID, g.Name, p.typeStr(g.Type))
	}
	p.printLocals(m.InitLocals)
	if len(m.Init) > 0 {
		p.printf("  init:\n")
		p.indent = 2
		p.printBlock(m.Init)
		p.indent = 0
	}
}

// PrintClass prints the layout and method table of c.
func (p *Printer) PrintClass(c *Class) {
	p.printf("class %s (#%d)", c.QualifiedName, c.ID)
	if c.Parent.IsValid() {
		p.printf(" extends %s", p.className(c.Parent))
	}
	p.printf("\n")
	for i, f := range c.Layout() {
		origin := ""
		if i < len(c.InheritedFields) {
			origin = " (inherited)"
		}
		p.printf("  field %d %s: %s%s\n", i, f.Name, p.typeStr(f.Type), origin)
	}
	for _, m := range c.Methods {
		p.printf("  method %s -> #%d\n", m.Name, m.Func)
	}
}

// PrintFunction prints the signature, locals and body of f.
func (p *Printer) PrintFunction(f *Function) {
	params := make([]string, len(f.Params))
	for i, prm := range f.Params {
		params[i] = prm.Name + ": " + p.typeStr(prm.Type)
	}
	p.printf("func %s(%s) -> %s (#%d)", f.QualifiedName, strings.Join(params, ", "), p.typeStr(f.Return), f.ID)
	if f.IsRuntime() {
		shared := ""
		if f.Shared {
			shared = " shared"
		}
		p.printf(" = runtime%s %q\n", shared, f.RuntimeName)
		return
	}
	p.printf("\n")
	p.printLocals(f.Locals)
	p.printf("  body:\n")
	p.indent = 2
	p.printBlock(f.Body)
	p.indent = 0
}

func (p *Printer) printLocals(locals []Local) {
	if len(locals) == 0 {
		return
	}
	width := 0
	for _, l := range locals {
		width = max(width, runewidth.StringWidth(l.Name))
	}
	p.printf("  locals:\n")
	for i, l := range locals {
		p.printf("    %%%-3d %s  %s\n", i, runewidth.FillRight(l.Name, width), p.typeStr(l.Type))
	}
}

func (p *Printer) printBlock(stmts []*Stmt) {
	p.indent++
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.indent--
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printStmt(s *Stmt) {
	p.printIndent()
	switch s.Kind {
	case StmtLet:
		d := s.Data.(*LetStmt)
		p.printf("let %%%d: %s = %s\n", d.Local, p.typeStr(d.Type), p.exprStr(d.Init))
	case StmtAssign:
		d := s.Data.(*AssignStmt)
		p.printf("%s = %s\n", p.lvalueStr(d.Target), p.exprStr(d.Value))
	case StmtAugAssign:
		d := s.Data.(*AugAssignStmt)
		p.printf("%s %s= %s\n", p.varStr(d.Target), d.Op, p.exprStr(d.Value))
	case StmtExpr:
		p.printf("%s\n", p.exprStr(s.Data.(*ExprStmt).Value))
	case StmtReturn:
		d := s.Data.(*ReturnStmt)
		if d.Value == nil {
			p.printf("return\n")
		} else {
			p.printf("return %s\n", p.exprStr(d.Value))
		}
	case StmtIf:
		d := s.Data.(*IfStmt)
		p.printf("if %s:\n", p.exprStr(d.Cond))
		p.printBlock(d.Then)
		if len(d.Else) > 0 {
			p.printIndent()
			p.printf("else:\n")
			p.printBlock(d.Else)
		}
	case StmtWhile:
		d := s.Data.(*WhileStmt)
		p.printf("while %s:\n", p.exprStr(d.Cond))
		p.printBlock(d.Body)
	case StmtTry:
		d := s.Data.(*TryStmt)
		p.printf("try:\n")
		p.printBlock(d.Body)
		for _, h := range d.Handlers {
			p.printIndent()
			p.printf("except")
			if h.Class.IsValid() {
				p.printf(" %s", p.className(h.Class))
			}
			if h.Local.IsValid() {
				p.printf(" as %%%d", h.Local)
			}
			p.printf(":\n")
			p.printBlock(h.Body)
		}
		if len(d.Orelse) > 0 {
			p.printIndent()
			p.printf("else:\n")
			p.printBlock(d.Orelse)
		}
		if len(d.Finally) > 0 {
			p.printIndent()
			p.printf("finally:\n")
			p.printBlock(d.Finally)
		}
	case StmtRaise:
		d := s.Data.(*RaiseStmt)
		if d.Exc == nil {
			p.printf("raise\n")
		} else {
			p.printf("raise %s\n", p.exprStr(d.Exc))
		}
	default:
		p.printf("<%s>\n", s.Kind)
	}
}

func (p *Printer) exprStr(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ExprConst:
		d := e.Data.(*ConstExpr)
		switch d.Kind {
		case ConstInt:
			return strconv.FormatInt(d.Int, 10)
		case ConstFloat:
			return strconv.FormatFloat(d.Float, 'g', -1, 64)
		case ConstStr:
			return strconv.Quote(d.Str)
		case ConstBool:
			if d.Bool {
				return "True"
			}
			return "False"
		default:
			return "None"
		}
	case ExprVar:
		return p.varStr(e.Data.(*VarExpr).Ref)
	case ExprBinary:
		d := e.Data.(*BinaryExpr)
		return fmt.Sprintf("(%s %s %s)", p.exprStr(d.Left), d.Op, p.exprStr(d.Right))
	case ExprCompare:
		d := e.Data.(*CompareExpr)
		return fmt.Sprintf("(%s %s %s)", p.exprStr(d.Left), d.Op, p.exprStr(d.Right))
	case ExprBoolOp:
		d := e.Data.(*BoolOpExpr)
		return "(" + strings.Join(p.exprList(d.Values), " "+d.Op.String()+" ") + ")"
	case ExprUnary:
		d := e.Data.(*UnaryExpr)
		if d.Op == ast.UnaryNot {
			return "(not " + p.exprStr(d.Operand) + ")"
		}
		return "(-" + p.exprStr(d.Operand) + ")"
	case ExprCall:
		d := e.Data.(*CallExpr)
		return fmt.Sprintf("%s(%s)", p.funcName(d.Func), strings.Join(p.exprList(d.Args), ", "))
	case ExprConstruct:
		d := e.Data.(*ConstructExpr)
		return fmt.Sprintf("new %s(%s)", p.className(d.Class), strings.Join(p.exprList(d.Args), ", "))
	case ExprRange:
		d := e.Data.(*RangeExpr)
		start, step := "0", "1"
		if d.Start != nil {
			start = p.exprStr(d.Start)
		}
		if d.Step != nil {
			step = p.exprStr(d.Step)
		}
		return fmt.Sprintf("range(%s, %s, %s)", start, p.exprStr(d.Stop), step)
	case ExprField:
		d := e.Data.(*FieldExpr)
		return fmt.Sprintf("%s.%s", p.exprStr(d.Object), p.fieldName(d.Class, d.Field))
	case ExprList:
		d := e.Data.(*ListExpr)
		return fmt.Sprintf("[%s]: list[%s]", strings.Join(p.exprList(d.Elems), ", "), p.typeStr(d.Elem))
	case ExprBytes:
		return "b" + strconv.Quote(string(e.Data.(*BytesExpr).Data))
	case ExprBind:
		d := e.Data.(*BindExpr)
		return fmt.Sprintf("(%%%d := %s)", d.Local, p.exprStr(d.Value))
	default:
		return "<" + e.Kind.String() + ">"
	}
}

func (p *Printer) exprList(es []*Expr) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = p.exprStr(e)
	}
	return out
}

func (p *Printer) varStr(v VarRef) string {
	switch v.Kind {
	case VarLocal:
		return fmt.Sprintf("%%%d", v.Local)
	case VarParam:
		return fmt.Sprintf("$%d", v.Param)
	case VarGlobal:
		if int(v.Module) < len(p.prog.Modules) {
			m := &p.prog.Modules[v.Module]
			if int(v.Global) < len(m.Globals) {
				return "@" + m.Name + "." + m.Globals[v.Global].Name
			}
		}
		return fmt.Sprintf("@%d.%d", v.Module, v.Global)
	case VarSelf:
		return "self"
	default:
		return "?"
	}
}

func (p *Printer) lvalueStr(lv LValue) string {
	if lv.Kind == LValueField {
		return fmt.Sprintf("%s.%s", p.exprStr(lv.Object), p.fieldName(lv.Class, lv.Field))
	}
	return p.varStr(lv.Var)
}

func (p *Printer) typeStr(t Type) string {
	return p.prog.TypeName(t)
}

func (p *Printer) className(id ClassID) string {
	return p.typeStr(ClassType(id))
}

func (p *Printer) funcName(id FuncID) string {
	if int(id) < len(p.prog.Functions) {
		return p.prog.Functions[id].QualifiedName
	}
	return fmt.Sprintf("func#%d", id)
}

func (p *Printer) fieldName(cls ClassID, field FieldID) string {
	if int(cls) < len(p.prog.Classes) {
		layout := p.prog.Classes[cls].Layout()
		if int(field) < len(layout) {
			return layout[field].Name
		}
	}
	return fmt.Sprintf("field#%d", field)
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
