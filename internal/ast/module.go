package ast

import "github.com/cla7aye15I4nd/TypePython/internal/source"

// Module is one parsed source file. ID is the absolute dotted module id
// assigned by the front end (e.g. "pkg.util"); Path is the file it came from.
type Module struct {
	ID      string   `msgpack:"id"`
	Path    string   `msgpack:"path"`
	Imports []Import `msgpack:"imports"`
	Body    []*Stmt  `msgpack:"body"`
}

// ImportKind distinguishes the three import forms.
type ImportKind uint8

const (
	// ImportModule is `import x` / `import x as y`.
	ImportModule ImportKind = iota
	// ImportNames is `from x import a, b as c`.
	ImportNames
	// ImportStar is `from x import *`.
	ImportStar
)

func (k ImportKind) String() string {
	switch k {
	case ImportModule:
		return "module"
	case ImportNames:
		return "names"
	case ImportStar:
		return "star"
	default:
		return "unknown"
	}
}

// Import is one import entry with the target already resolved to an
// absolute module id by the front end.
type Import struct {
	SourceName string        `msgpack:"source"`
	ModuleID   string        `msgpack:"module"`
	ModulePath string        `msgpack:"path"`
	Kind       ImportKind    `msgpack:"kind"`
	Alias      string        `msgpack:"alias,omitempty"`
	Names      []ImportAlias `msgpack:"names,omitempty"`
	Span       source.Span   `msgpack:"span"`
}

// ImportAlias is one name of a `from x import ...` list.
type ImportAlias struct {
	Name  string `msgpack:"name"`
	Alias string `msgpack:"alias,omitempty"`
}

// Bound returns the name the import introduces in the importing module.
func (a ImportAlias) Bound() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Name
}

// TypeKind enumerates annotation forms.
type TypeKind uint8

const (
	TypeInt TypeKind = iota
	TypeFloat
	TypeStr
	TypeBool
	TypeBytes
	TypeByteArray
	// TypeList is list[Elem].
	TypeList
	// TypeClass is a bare or forward-referenced class name.
	TypeClass
)

// TypeExpr is a source type annotation.
type TypeExpr struct {
	Kind TypeKind    `msgpack:"kind"`
	Elem *TypeExpr   `msgpack:"elem,omitempty"`
	Name string      `msgpack:"name,omitempty"`
	Span source.Span `msgpack:"span"`
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "<none>"
	}
	switch t.Kind {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeStr:
		return "str"
	case TypeBool:
		return "bool"
	case TypeBytes:
		return "bytes"
	case TypeByteArray:
		return "bytearray"
	case TypeList:
		return "list[" + t.Elem.String() + "]"
	case TypeClass:
		return t.Name
	default:
		return "?"
	}
}

// Arg is a function parameter.
type Arg struct {
	Name       string      `msgpack:"name"`
	Annotation *TypeExpr   `msgpack:"annotation,omitempty"`
	Span       source.Span `msgpack:"span"`
}

// Field is an annotated class attribute without a value.
type Field struct {
	Name       string      `msgpack:"name"`
	Annotation *TypeExpr   `msgpack:"annotation"`
	Span       source.Span `msgpack:"span"`
}

// ExceptHandler is one `except` clause; empty Type catches everything.
type ExceptHandler struct {
	Type string      `msgpack:"type,omitempty"`
	Name string      `msgpack:"name,omitempty"`
	Body []*Stmt     `msgpack:"body"`
	Span source.Span `msgpack:"span"`
}
