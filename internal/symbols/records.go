package symbols

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// Module is a registered module and its top-level declarations.
type Module struct {
	ID        tir.ModuleID
	Name      string
	Tree      *ast.Module
	Globals   []Global
	Functions []tir.FuncID
	Classes   []tir.ClassID
}

type Global struct {
	ID   tir.GlobalID
	Name string
	Type uir.Type
	Span source.Span
}

type Field struct {
	Name string
	Type uir.Type
}

type Method struct {
	Name string
	ID   tir.MethodID
	Func tir.FuncID
}

// Class is a class record. Built-in specializations share Name and
// QualifiedName and differ in TypeParams.
type Class struct {
	ID            tir.ClassID
	Module        tir.ModuleID
	Name          string
	QualifiedName string
	ParentName    string
	Parent        tir.ClassID
	// InheritedFields is filled by FinalizeLayout, outermost ancestor first.
	InheritedFields []Field
	Fields          []Field
	Methods         []Method
	TypeParams      []uir.Type
	Builtin         bool
	Decl            *ast.ClassDef
	Span            source.Span

	layoutDone bool
	settled    bool
}

// Generic reports whether the class is a specialization of a built-in
// container.
func (c *Class) Generic() bool { return len(c.TypeParams) > 0 }

// Settled reports whether every type parameter is concrete.
func (c *Class) Settled() bool { return c.settled }

// NumFields is the size of the full layout.
func (c *Class) NumFields() int { return len(c.InheritedFields) + len(c.Fields) }

// FieldAt returns slot id of the full layout.
func (c *Class) FieldAt(id tir.FieldID) Field {
	if int(id) < len(c.InheritedFields) {
		return c.InheritedFields[id]
	}
	return c.Fields[int(id)-len(c.InheritedFields)]
}

// Param is a declared parameter; Params of methods exclude the receiver.
type Param struct {
	Name string
	Type uir.Type
}

// Function is a function, method or runtime routine record.
type Function struct {
	ID            tir.FuncID
	Module        tir.ModuleID
	Name          string
	QualifiedName string
	Params        []Param
	Return        uir.Type
	// Class is the receiver class of a method, NoClassID otherwise.
	Class       tir.ClassID
	RuntimeName string
	// Unique marks runtime methods whose signature depends on the owning
	// specialization's element type.
	Unique bool
	Decl   *ast.FunctionDef
}

// IsMethod reports whether calls pass a receiver first.
func (f *Function) IsMethod() bool { return f.Class.IsValid() }

// IsRuntime reports whether the function is provided by the runtime.
func (f *Function) IsRuntime() bool { return f.RuntimeName != "" }
