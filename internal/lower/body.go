package lower

import (
	"fmt"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/infer"
	"github.com/cla7aye15I4nd/TypePython/internal/scope"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// bodyLowerer lowers the statements of one function, method or module
// initializer into unresolved IR, recording constraints as it goes.
type bodyLowerer struct {
	table   *symbols.Table
	scope   *scope.Scope
	module  tir.ModuleID
	modName string

	// class is the receiver class of a method, NoClassID otherwise.
	class tir.ClassID
	ret   uir.Type
	// init is set while lowering a module's top-level statements.
	init bool

	body *uir.Body
	// params maps a declared parameter name to its tir parameter index;
	// methods start at 1 because self is parameter 0.
	params     map[string]uint32
	paramTypes map[string]uir.Type
	// scopes holds one name layer per open block, innermost last.
	scopes []map[string]tir.LocalID
	cons   *infer.ConstraintSet
}

func newBodyLowerer(table *symbols.Table, sc *scope.Scope, class tir.ClassID, ret uir.Type) *bodyLowerer {
	return &bodyLowerer{
		table:      table,
		scope:      sc,
		module:     sc.Module,
		modName:    table.Module(sc.Module).Name,
		class:      class,
		ret:        ret,
		body:       &uir.Body{},
		params:     make(map[string]uint32),
		paramTypes: make(map[string]uir.Type),
		scopes:     []map[string]tir.LocalID{{}},
		cons:       infer.NewConstraintSet(table),
	}
}

func (l *bodyLowerer) addParam(name string, t uir.Type) {
	idx := uint32(len(l.params))
	if l.class.IsValid() {
		idx++
	}
	l.params[name] = idx
	l.paramTypes[name] = t
}

func (l *bodyLowerer) pushScope() {
	l.scopes = append(l.scopes, map[string]tir.LocalID{})
}

func (l *bodyLowerer) popScope() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

// declare allocates a named local visible in the innermost block.
func (l *bodyLowerer) declare(name string, t uir.Type, sp source.Span) tir.LocalID {
	id := l.body.AddLocal(name, t, sp)
	l.scopes[len(l.scopes)-1][name] = id
	return id
}

// hidden allocates a compiler temporary named prefix_N, N being the number
// of locals allocated so far. Temporaries are never visible by name.
func (l *bodyLowerer) hidden(prefix string, t uir.Type, sp source.Span) tir.LocalID {
	return l.body.AddLocal(fmt.Sprintf("%s_%d", prefix, len(l.body.Locals)), t, sp)
}

// lookup resolves a bare identifier: self, then locals from the innermost
// block outwards, then parameters, then module-level globals.
func (l *bodyLowerer) lookup(name string) (tir.VarRef, uir.Type, bool) {
	if name == "self" && l.class.IsValid() {
		return tir.SelfRef(), uir.ClassType(l.class), true
	}
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if id, ok := l.scopes[i][name]; ok {
			return tir.LocalRef(id), l.body.Local(id).Type, true
		}
	}
	if idx, ok := l.params[name]; ok {
		return tir.ParamRef(idx), l.paramTypes[name], true
	}
	if g, ok := l.scope.Global(name); ok {
		rec := &l.table.Module(g.Module).Globals[g.Global]
		return tir.GlobalRef(g.Module, g.Global), rec.Type, true
	}
	return tir.VarRef{}, uir.Type{}, false
}

func (l *bodyLowerer) isVar(name string) bool {
	_, _, ok := l.lookup(name)
	return ok
}

func (l *bodyLowerer) errorf(code diag.Code, sp source.Span, format string, args ...any) error {
	return diag.Errorf(code, l.modName, sp, format, args...)
}

func (l *bodyLowerer) origin(sp source.Span, what string) infer.Origin {
	return infer.Origin{Module: l.modName, Span: sp, What: what}
}

// known returns what t is known to be from the constraints recorded so
// far. The result is still a variable when nothing constrains it yet.
func (l *bodyLowerer) known(t uir.Type) uir.Type {
	return infer.Probe(l.table, l.cons, t)
}

func (l *bodyLowerer) typeName(t uir.Type) string {
	return l.table.TypeName(t)
}

func (l *bodyLowerer) classLookup() symbols.ClassLookup {
	return l.scope.ClassLookup(l.table)
}
