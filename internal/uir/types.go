// Package uir is the unresolved IR produced by body lowering. It mirrors
// internal/tir node for node, except that types may still contain
// inference variables. Nothing in this package is visible to code
// generation; internal/resolve is the only way across.
package uir

import (
	"fmt"
	"strings"

	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

// TypeVarID names an inference variable. Ids are unique program-wide.
type TypeVarID uint32

type TypeKind uint8

const (
	TypeInt TypeKind = iota
	TypeFloat
	TypeBool
	TypeVoid
	TypeClass
	// TypeVar is a placeholder bound by unification.
	TypeVar
)

// Type is an unresolved type. A class type's own parameters live in the
// class record, so a Type never nests.
type Type struct {
	Kind  TypeKind
	Class tir.ClassID
	Var   TypeVarID
}

var (
	Int   = Type{Kind: TypeInt, Class: tir.NoClassID}
	Float = Type{Kind: TypeFloat, Class: tir.NoClassID}
	Bool  = Type{Kind: TypeBool, Class: tir.NoClassID}
	Void  = Type{Kind: TypeVoid, Class: tir.NoClassID}
)

func ClassType(id tir.ClassID) Type { return Type{Kind: TypeClass, Class: id} }
func VarType(id TypeVarID) Type     { return Type{Kind: TypeVar, Class: tir.NoClassID, Var: id} }

// FromTIR lifts a resolved type.
func FromTIR(t tir.Type) Type {
	switch t.Kind {
	case tir.TypeInt:
		return Int
	case tir.TypeFloat:
		return Float
	case tir.TypeBool:
		return Bool
	case tir.TypeClass:
		return ClassType(t.Class)
	default:
		return Void
	}
}

func (t Type) IsNumeric() bool { return t.Kind == TypeInt || t.Kind == TypeFloat }
func (t Type) IsClass() bool   { return t.Kind == TypeClass }
func (t Type) IsVar() bool     { return t.Kind == TypeVar }
func (t Type) IsVoid() bool    { return t.Kind == TypeVoid }

// Truthy reports whether t may be used as a condition.
func (t Type) Truthy() bool { return t.Kind == TypeBool || t.IsNumeric() }

func (t Type) String() string {
	switch t.Kind {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeVoid:
		return "None"
	case TypeClass:
		return fmt.Sprintf("class#%d", t.Class)
	case TypeVar:
		return fmt.Sprintf("?%d", t.Var)
	default:
		return "?"
	}
}

// Key renders a list of types as a stable map key component.
func Key(ts []Type) string {
	var b strings.Builder
	for i, t := range ts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.String())
	}
	return b.String()
}
