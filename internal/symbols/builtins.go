package symbols

import (
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// Names of the built-in classes.
const (
	ClassStr           = "str"
	ClassBytes         = "bytes"
	ClassByteArray     = "bytearray"
	ClassList          = "list"
	ClassListIterator  = "list_iterator"
	ClassRange         = "range"
	ClassException     = "Exception"
	ClassStopIteration = "StopIteration"
)

// PlainBuiltins lists the built-in classes that take no type parameters.
var PlainBuiltins = []string{ClassStr, ClassBytes, ClassByteArray, ClassRange, ClassException, ClassStopIteration}

// methodSpec describes one runtime method of a built-in class. Shared
// methods get one function handle for every specialization; unique ones
// get a handle per specialization.
type methodSpec struct {
	name   string
	unique bool
	params []uir.Type
	ret    uir.Type
}

func shared(name string, ret uir.Type, params ...uir.Type) methodSpec {
	return methodSpec{name: name, params: params, ret: ret}
}

func unique(name string, ret uir.Type, params ...uir.Type) methodSpec {
	return methodSpec{name: name, unique: true, params: params, ret: ret}
}

// RuntimeMethodName is the C symbol implementing method on class.
func RuntimeMethodName(class, method string) string {
	return "__pyc___builtin___" + class + "_" + method
}

// builtinClass returns the memoized class for (name, params), creating it
// with init on first request.
func (t *Table) builtinClass(name string, params []uir.Type, init func(id tir.ClassID)) tir.ClassID {
	key := NewClassKey(BuiltinModule+"."+name, params)
	if id, ok := t.classByKey[key]; ok {
		return t.Canonical(id)
	}
	id := t.allocClass(Class{
		Module:        tir.NoModuleID,
		Name:          name,
		QualifiedName: BuiltinModule + "." + name,
		TypeParams:    append([]uir.Type(nil), params...),
		Builtin:       true,
		layoutDone:    true,
	})
	t.classByKey[key] = id
	c := t.Class(id)
	c.settled = !t.containsVar(params)
	if !c.settled {
		t.unsettled = append(t.unsettled, id)
	}
	if init != nil {
		init(id)
	}
	return id
}

func (t *Table) registerMethods(class tir.ClassID, specs ...methodSpec) {
	name := t.Class(class).Name
	for _, s := range specs {
		runtimeName := RuntimeMethodName(name, s.name)
		params := make([]Param, len(s.params))
		for i, p := range s.params {
			params[i] = Param{Name: fmt.Sprintf("arg%d", i), Type: p}
		}
		var fn tir.FuncID
		if s.unique {
			fn = t.allocFunc(Function{
				Module:        tir.NoModuleID,
				Name:          s.name,
				QualifiedName: t.ClassName(class) + "." + s.name,
				Params:        params,
				Return:        s.ret,
				Class:         class,
				RuntimeName:   runtimeName,
				Unique:        true,
			})
		} else {
			fn = t.runtimeFunc(runtimeName, class, s.name, params, s.ret)
		}
		t.bindMethod(class, s.name, fn)
	}
}

// runtimeFunc returns the shared function for runtimeName, creating it on
// first use. A method records the first class that requested it as its
// receiver; the assembler marks it Shared when that class is generic, so
// the receiver stands for every specialization.
func (t *Table) runtimeFunc(runtimeName string, class tir.ClassID, name string, params []Param, ret uir.Type) tir.FuncID {
	if id, ok := t.runtime[runtimeName]; ok {
		return id
	}
	qualified := runtimeName
	if class.IsValid() {
		qualified = BuiltinModule + "." + t.Class(class).Name + "." + name
	}
	id := t.allocFunc(Function{
		Module:        tir.NoModuleID,
		Name:          name,
		QualifiedName: qualified,
		Params:        params,
		Return:        ret,
		Class:         class,
		RuntimeName:   runtimeName,
	})
	t.runtime[runtimeName] = id
	return id
}

// Str returns the str class.
func (t *Table) Str() tir.ClassID {
	return t.builtinClass(ClassStr, nil, func(id tir.ClassID) {
		s := uir.ClassType(id)
		t.registerMethods(id,
			shared("__len__", uir.Int),
			shared("__str__", s),
			shared("__repr__", s),
			shared("__getitem__", s, uir.Int),
			shared("lower", s),
			shared("upper", s),
			shared("strip", s),
			shared("find", uir.Int, s),
			shared("startswith", uir.Bool, s),
			shared("endswith", uir.Bool, s),
			shared("replace", s, s, s),
			shared("isalpha", uir.Bool),
			shared("isdigit", uir.Bool),
			shared("isspace", uir.Bool),
		)
	})
}

// StrType is the instance type of str.
func (t *Table) StrType() uir.Type { return uir.ClassType(t.Str()) }

// Bytes returns the immutable byte string class.
func (t *Table) Bytes() tir.ClassID {
	return t.builtinClass(ClassBytes, nil, func(id tir.ClassID) {
		s := t.StrType()
		t.registerMethods(id,
			shared("__len__", uir.Int),
			shared("__str__", s),
			shared("__repr__", s),
			shared("__getitem__", uir.Int, uir.Int),
		)
	})
}

// ByteArray returns the mutable byte buffer class.
func (t *Table) ByteArray() tir.ClassID {
	return t.builtinClass(ClassByteArray, nil, func(id tir.ClassID) {
		s := t.StrType()
		t.registerMethods(id,
			shared("append", uir.Void, uir.Int),
			shared("__len__", uir.Int),
			shared("__str__", s),
			shared("__repr__", s),
			shared("__getitem__", uir.Int, uir.Int),
			shared("__setitem__", uir.Void, uir.Int, uir.Int),
		)
	})
}

// List returns the list specialization for elem. elem may be a type
// variable; the class is then settled during resolution.
func (t *Table) List(elem uir.Type) tir.ClassID {
	return t.builtinClass(ClassList, []uir.Type{elem}, func(id tir.ClassID) {
		s := t.StrType()
		iter := uir.ClassType(t.ListIterator(elem))
		t.registerMethods(id,
			unique("append", uir.Void, elem),
			shared("__len__", uir.Int),
			shared("__str__", s),
			shared("__repr__", s),
			unique("__getitem__", elem, uir.Int),
			unique("__setitem__", uir.Void, uir.Int, elem),
			unique("__iter__", iter),
		)
	})
}

// ListIterator returns the iterator specialization for elem.
func (t *Table) ListIterator(elem uir.Type) tir.ClassID {
	return t.builtinClass(ClassListIterator, []uir.Type{elem}, func(id tir.ClassID) {
		t.registerMethods(id,
			unique("__iter__", uir.ClassType(id)),
			unique("__next__", elem),
			shared("__dealloc__", uir.Void),
		)
	})
}

// Range returns the range class.
func (t *Table) Range() tir.ClassID {
	return t.builtinClass(ClassRange, nil, func(id tir.ClassID) {
		s := t.StrType()
		t.registerMethods(id,
			shared("__iter__", uir.ClassType(id)),
			shared("__next__", uir.Int),
			shared("__len__", uir.Int),
			shared("__dealloc__", uir.Void),
			shared("__str__", s),
			shared("__repr__", s),
		)
	})
}

// Exception returns the root of the exception hierarchy.
func (t *Table) Exception() tir.ClassID {
	return t.builtinClass(ClassException, nil, func(id tir.ClassID) {
		s := t.StrType()
		t.registerMethods(id,
			shared("__init__", uir.Void, s),
			shared("__str__", s),
			shared("__repr__", s),
		)
	})
}

// StopIteration returns the exhausted-iteration exception.
func (t *Table) StopIteration() tir.ClassID {
	parent := t.Exception()
	return t.builtinClass(ClassStopIteration, nil, func(id tir.ClassID) {
		t.SetParent(id, parent)
		s := t.StrType()
		t.registerMethods(id,
			shared("__init__", uir.Void),
			shared("__str__", s),
			shared("__repr__", s),
		)
	})
}

// BuiltinClass resolves a non-generic built-in class name.
func (t *Table) BuiltinClass(name string) (tir.ClassID, bool) {
	switch name {
	case ClassStr:
		return t.Str(), true
	case ClassBytes:
		return t.Bytes(), true
	case ClassByteArray:
		return t.ByteArray(), true
	case ClassRange:
		return t.Range(), true
	case ClassException:
		return t.Exception(), true
	case ClassStopIteration:
		return t.StopIteration(), true
	}
	return tir.NoClassID, false
}

// IsBuiltin reports whether id is a built-in class named name.
func (t *Table) IsBuiltin(id tir.ClassID, name string) bool {
	c := t.Class(id)
	return c.Builtin && c.Name == name
}

// Print and write primitives of the runtime.

func (t *Table) IntPrint() tir.FuncID {
	return t.runtimeFunc("__pyc___builtin___int___print__", tir.NoClassID, "int.__print__", []Param{{Name: "value", Type: uir.Int}}, uir.Void)
}

func (t *Table) FloatPrint() tir.FuncID {
	return t.runtimeFunc("__pyc___builtin___float___print__", tir.NoClassID, "float.__print__", []Param{{Name: "value", Type: uir.Float}}, uir.Void)
}

func (t *Table) BoolPrint() tir.FuncID {
	return t.runtimeFunc("__pyc___builtin___bool___print__", tir.NoClassID, "bool.__print__", []Param{{Name: "value", Type: uir.Bool}}, uir.Void)
}

func (t *Table) WriteString() tir.FuncID {
	return t.runtimeFunc("write_string_impl", tir.NoClassID, "write_string", []Param{{Name: "s", Type: t.StrType()}}, uir.Void)
}

func (t *Table) WriteSpace() tir.FuncID {
	return t.runtimeFunc("write_space_impl", tir.NoClassID, "write_space", nil, uir.Void)
}

func (t *Table) WriteNewline() tir.FuncID {
	return t.runtimeFunc("write_newline_impl", tir.NoClassID, "write_newline", nil, uir.Void)
}
