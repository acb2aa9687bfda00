// Package symbols is the program-wide symbol table. It owns every module,
// class, function, field and global record, addressed by dense tir
// handles, and synthesizes built-in classes on first request.
//
// The table is not safe for concurrent use; one lowering run owns it.
package symbols

import (
	"fmt"
	"strings"

	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// BuiltinModule prefixes the qualified names of built-in classes.
const BuiltinModule = "__builtin__"

// ClassKey identifies a class by qualified name and type parameters.
type ClassKey struct {
	Name   string
	Params string
}

// NewClassKey builds the key of name specialized with params.
func NewClassKey(name string, params []uir.Type) ClassKey {
	return ClassKey{Name: name, Params: uir.Key(params)}
}

type memberKey struct {
	class tir.ClassID
	name  string
}

type moduleKey struct {
	module tir.ModuleID
	name   string
}

// MethodRef is the result of a method lookup.
type MethodRef struct {
	Method tir.MethodID
	Func   tir.FuncID
	// Owner is the class whose table held the method.
	Owner tir.ClassID
}

// Table is the symbol table of one compilation run.
type Table struct {
	modules []Module
	classes []Class
	funcs   []Function

	moduleByName map[string]tir.ModuleID
	funcByName   map[moduleKey]tir.FuncID
	classByKey   map[ClassKey]tir.ClassID
	methods      map[memberKey]MethodRef
	fields       map[memberKey]tir.FieldID
	globals      map[moduleKey]tir.GlobalID
	runtime      map[string]tir.FuncID

	canonical map[tir.ClassID]tir.ClassID
	funcAlias map[tir.FuncID]tir.FuncID
	unsettled []tir.ClassID

	nextMethod int
	nextVar    uint32
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		moduleByName: make(map[string]tir.ModuleID),
		funcByName:   make(map[moduleKey]tir.FuncID),
		classByKey:   make(map[ClassKey]tir.ClassID),
		methods:      make(map[memberKey]MethodRef),
		fields:       make(map[memberKey]tir.FieldID),
		globals:      make(map[moduleKey]tir.GlobalID),
		runtime:      make(map[string]tir.FuncID),
		canonical:    make(map[tir.ClassID]tir.ClassID),
		funcAlias:    make(map[tir.FuncID]tir.FuncID),
	}
}

// FreshVar allocates a type variable unique across the program.
func (t *Table) FreshVar() uir.Type {
	id := uir.TypeVarID(t.nextVar)
	t.nextVar++
	return uir.VarType(id)
}

// ---- modules ----

// RegisterModule assigns the next module handle to name.
func (t *Table) RegisterModule(name string, tree *ast.Module) tir.ModuleID {
	if id, ok := t.moduleByName[name]; ok {
		return id
	}
	id := tir.NextID[tir.ModuleID](len(t.modules))
	t.modules = append(t.modules, Module{ID: id, Name: name, Tree: tree})
	t.moduleByName[name] = id
	return id
}

// Module panics on an out-of-range handle.
func (t *Table) Module(id tir.ModuleID) *Module { return &t.modules[id] }

// ModuleByName looks a module up by dotted id.
func (t *Table) ModuleByName(name string) (tir.ModuleID, bool) {
	id, ok := t.moduleByName[name]
	return id, ok
}

// NumModules returns the number of registered modules.
func (t *Table) NumModules() int { return len(t.modules) }

// ---- globals ----

// AddGlobal registers name in module; a second registration of the same
// name returns the existing handle and false.
func (t *Table) AddGlobal(module tir.ModuleID, name string, typ uir.Type, sp source.Span) (tir.GlobalID, bool) {
	key := moduleKey{module, name}
	if id, ok := t.globals[key]; ok {
		return id, false
	}
	m := t.Module(module)
	id := tir.NextID[tir.GlobalID](len(m.Globals))
	m.Globals = append(m.Globals, Global{ID: id, Name: name, Type: typ, Span: sp})
	t.globals[key] = id
	return id, true
}

// Global looks a global up by name.
func (t *Table) Global(module tir.ModuleID, name string) (*Global, bool) {
	id, ok := t.globals[moduleKey{module, name}]
	if !ok {
		return nil, false
	}
	return &t.Module(module).Globals[id], true
}

// ---- functions ----

// AddFunction registers a module-level function.
func (t *Table) AddFunction(module tir.ModuleID, name string, decl *ast.FunctionDef) (tir.FuncID, bool) {
	key := moduleKey{module, name}
	if id, ok := t.funcByName[key]; ok {
		return id, false
	}
	id := t.allocFunc(Function{
		Module:        module,
		Name:          name,
		QualifiedName: t.Module(module).Name + "." + name,
		Class:         tir.NoClassID,
		Decl:          decl,
		Return:        uir.Void,
	})
	t.funcByName[key] = id
	m := t.Module(module)
	m.Functions = append(m.Functions, id)
	return id, true
}

// LookupFunction finds a module-level function.
func (t *Table) LookupFunction(module tir.ModuleID, name string) (tir.FuncID, bool) {
	id, ok := t.funcByName[moduleKey{module, name}]
	return id, ok
}

func (t *Table) allocFunc(f Function) tir.FuncID {
	f.ID = tir.NextID[tir.FuncID](len(t.funcs))
	t.funcs = append(t.funcs, f)
	return f.ID
}

// Func panics on an out-of-range handle.
func (t *Table) Func(id tir.FuncID) *Function { return &t.funcs[id] }

// NumFuncs returns the number of allocated functions.
func (t *Table) NumFuncs() int { return len(t.funcs) }

// SetSignature records the parameter and return types of fn.
func (t *Table) SetSignature(fn tir.FuncID, params []Param, ret uir.Type) {
	f := t.Func(fn)
	f.Params = params
	f.Return = ret
}

// ---- classes ----

// AddClass registers a user class in phase one of collection.
func (t *Table) AddClass(module tir.ModuleID, name, parentName string, decl *ast.ClassDef, sp source.Span) (tir.ClassID, bool) {
	qualified := t.Module(module).Name + "." + name
	key := NewClassKey(qualified, nil)
	if id, ok := t.classByKey[key]; ok {
		return id, false
	}
	id := t.allocClass(Class{
		Module:        module,
		Name:          name,
		QualifiedName: qualified,
		ParentName:    parentName,
		Decl:          decl,
		Span:          sp,
		settled:       true,
	})
	t.classByKey[key] = id
	m := t.Module(module)
	m.Classes = append(m.Classes, id)
	return id, true
}

func (t *Table) allocClass(c Class) tir.ClassID {
	c.ID = tir.NextID[tir.ClassID](len(t.classes))
	c.Parent = tir.NoClassID
	t.classes = append(t.classes, c)
	return c.ID
}

// Class panics on an out-of-range handle.
func (t *Table) Class(id tir.ClassID) *Class { return &t.classes[id] }

// NumClasses returns the number of allocated classes.
func (t *Table) NumClasses() int { return len(t.classes) }

// LookupClass finds a class by key.
func (t *Table) LookupClass(key ClassKey) (tir.ClassID, bool) {
	id, ok := t.classByKey[key]
	return id, ok
}

// LocalClass finds a user class defined in module.
func (t *Table) LocalClass(module tir.ModuleID, name string) (tir.ClassID, bool) {
	return t.LookupClass(NewClassKey(t.Module(module).Name+"."+name, nil))
}

// SetParent links class to its single base.
func (t *Table) SetParent(class, parent tir.ClassID) {
	t.Class(class).Parent = parent
}

// AddField appends an own field during collection. Handles are assigned
// by FinalizeLayout.
func (t *Table) AddField(class tir.ClassID, name string, typ uir.Type) bool {
	c := t.Class(class)
	for _, f := range c.Fields {
		if f.Name == name {
			return false
		}
	}
	c.Fields = append(c.Fields, Field{Name: name, Type: typ})
	return true
}

// AddMethod registers a user method. The function record takes the
// method's receiver class.
func (t *Table) AddMethod(class tir.ClassID, name string, decl *ast.FunctionDef) (tir.FuncID, bool) {
	if _, ok := t.methods[memberKey{class, name}]; ok {
		return tir.NoFuncID, false
	}
	c := t.Class(class)
	fn := t.allocFunc(Function{
		Module:        c.Module,
		Name:          name,
		QualifiedName: c.QualifiedName + "." + name,
		Class:         class,
		Decl:          decl,
		Return:        uir.Void,
	})
	t.bindMethod(class, name, fn)
	return fn, true
}

func (t *Table) bindMethod(class tir.ClassID, name string, fn tir.FuncID) {
	mid := tir.NextID[tir.MethodID](t.nextMethod)
	t.nextMethod++
	t.methods[memberKey{class, name}] = MethodRef{Method: mid, Func: fn, Owner: class}
	c := t.Class(class)
	c.Methods = append(c.Methods, Method{Name: name, ID: mid, Func: fn})
}

// TypeName renders a type with class names for diagnostics.
func (t *Table) TypeName(typ uir.Type) string {
	if typ.Kind != uir.TypeClass {
		return typ.String()
	}
	if int(typ.Class) >= len(t.classes) {
		return typ.String()
	}
	return t.ClassName(typ.Class)
}

// ClassName renders a class with its parameters, e.g. "list[int]".
func (t *Table) ClassName(id tir.ClassID) string {
	c := t.Class(id)
	name := c.QualifiedName
	if c.Builtin {
		name = c.Name
	}
	if len(c.TypeParams) == 0 {
		return name
	}
	params := make([]string, len(c.TypeParams))
	for i, p := range c.TypeParams {
		params[i] = t.TypeName(p)
	}
	return fmt.Sprintf("%s[%s]", name, strings.Join(params, ", "))
}
