package tir

// Param is a function parameter; methods list self as parameter 0.
type Param struct {
	Name string
	Type Type
}

// Local is an entry of a function's local table, indexed by LocalID.
type Local struct {
	Name string
	Type Type
}

// Function is a lowered function or method. Runtime-provided functions
// have a RuntimeName and no body.
type Function struct {
	ID            FuncID
	Name          string
	QualifiedName string
	Params        []Param
	Return        Type
	Locals        []Local
	Body          []*Stmt
	Class         ClassID
	RuntimeName   string
	// Shared marks a runtime method bound by every specialization of a
	// generic built-in. Its self parameter names the first specialization
	// that requested it; any specialization of the same generic may be
	// passed as receiver.
	Shared bool
}

// IsRuntime reports whether calls bind to a pre-linked native routine.
func (f *Function) IsRuntime() bool { return f.RuntimeName != "" }

// FieldDef is one slot of a class layout.
type FieldDef struct {
	Name string
	Type Type
}

// MethodEntry binds a method name to its implementing function.
type MethodEntry struct {
	Name string
	Func FuncID
}

// Class is a resolved class. Its layout is InheritedFields followed by
// Fields; FieldID indexes that concatenation.
type Class struct {
	ID              ClassID
	QualifiedName   string
	Parent          ClassID
	InheritedFields []FieldDef
	Fields          []FieldDef
	Methods         []MethodEntry
	TypeParams      []Type
	Builtin         bool
}

// Method returns the function implementing name on this class only.
func (c *Class) Method(name string) (FuncID, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m.Func, true
		}
	}
	return NoFuncID, false
}

// Layout returns inherited then own fields.
func (c *Class) Layout() []FieldDef {
	out := make([]FieldDef, 0, len(c.InheritedFields)+len(c.Fields))
	out = append(out, c.InheritedFields...)
	return append(out, c.Fields...)
}

// FieldByName returns the slot of name in the full layout.
func (c *Class) FieldByName(name string) (FieldID, bool) {
	for i, f := range c.Layout() {
		if f.Name == name {
			return NextID[FieldID](i), true
		}
	}
	return NoFieldID, false
}

type Global struct {
	ID   GlobalID
	Name string
	Type Type
}

// Module holds a module's globals, its top-level declarations and the
// synthesized initializer that runs its top-level statements in order.
type Module struct {
	ID         ModuleID
	Name       string
	Globals    []Global
	Functions  []FuncID
	Classes    []ClassID
	Init       []*Stmt
	InitLocals []Local
}

// Program is the immutable result of lowering.
type Program struct {
	Functions []Function
	Classes   []Class
	Modules   []Module
	Entry     ModuleID
}

// Function panics on an out-of-range handle.
func (p *Program) Function(id FuncID) *Function { return &p.Functions[id] }

// Class panics on an out-of-range handle.
func (p *Program) Class(id ClassID) *Class { return &p.Classes[id] }

// Module panics on an out-of-range handle.
func (p *Program) Module(id ModuleID) *Module { return &p.Modules[id] }

// ModuleByName looks a module up by its dotted id.
func (p *Program) ModuleByName(name string) (*Module, bool) {
	for i := range p.Modules {
		if p.Modules[i].Name == name {
			return &p.Modules[i], true
		}
	}
	return nil, false
}

// FunctionByName looks a function up by qualified name ("mod.f", "mod.C.m").
func (p *Program) FunctionByName(qualified string) (*Function, bool) {
	for i := range p.Functions {
		if p.Functions[i].QualifiedName == qualified {
			return &p.Functions[i], true
		}
	}
	return nil, false
}

// ClassByName looks a class up by qualified name.
func (p *Program) ClassByName(qualified string) (*Class, bool) {
	for i := range p.Classes {
		if p.Classes[i].QualifiedName == qualified {
			return &p.Classes[i], true
		}
	}
	return nil, false
}

// TypeName renders t with class names.
func (p *Program) TypeName(t Type) string {
	if t.Kind != TypeClass {
		return t.String()
	}
	if int(t.Class) >= len(p.Classes) {
		return t.String()
	}
	return p.Classes[t.Class].QualifiedName
}
