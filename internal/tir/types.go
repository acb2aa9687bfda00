package tir

import "fmt"

// TypeKind enumerates resolved type forms. There is deliberately no
// variable form here.
type TypeKind uint8

const (
	TypeInt TypeKind = iota
	TypeFloat
	TypeBool
	TypeVoid
	// TypeClass is an instance of Class, covering user classes and every
	// built-in (str, bytes, bytearray, list[T], iterators, exceptions).
	TypeClass
)

// Type is a fully resolved type.
type Type struct {
	Kind  TypeKind
	Class ClassID
}

var (
	Int   = Type{Kind: TypeInt, Class: NoClassID}
	Float = Type{Kind: TypeFloat, Class: NoClassID}
	Bool  = Type{Kind: TypeBool, Class: NoClassID}
	Void  = Type{Kind: TypeVoid, Class: NoClassID}
)

// ClassType returns the instance type of class id.
func ClassType(id ClassID) Type {
	return Type{Kind: TypeClass, Class: id}
}

func (t Type) IsNumeric() bool { return t.Kind == TypeInt || t.Kind == TypeFloat }
func (t Type) IsClass() bool   { return t.Kind == TypeClass }
func (t Type) IsVoid() bool    { return t.Kind == TypeVoid }

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
	default:
		return "?"
	}
}
