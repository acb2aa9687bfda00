package ast

import "github.com/cla7aye15I4nd/TypePython/internal/source"

// ExprKind enumerates source expression kinds.
type ExprKind uint8

const (
	// ExprConst is a literal constant.
	ExprConst ExprKind = iota
	// ExprName is a bare identifier.
	ExprName
	// ExprBinary is an arithmetic/bitwise operation.
	ExprBinary
	// ExprCompare is a (possibly chained) comparison.
	ExprCompare
	// ExprBoolOp is `and`/`or` over two or more operands.
	ExprBoolOp
	// ExprUnary is `not x` / `-x`.
	ExprUnary
	// ExprCall is `f(args)`.
	ExprCall
	// ExprList is a list display `[a, b]`.
	ExprList
	// ExprSubscript is `x[i]`.
	ExprSubscript
	// ExprAttribute is `x.attr`.
	ExprAttribute
)

func (k ExprKind) String() string {
	switch k {
	case ExprConst:
		return "Const"
	case ExprName:
		return "Name"
	case ExprBinary:
		return "Binary"
	case ExprCompare:
		return "Compare"
	case ExprBoolOp:
		return "BoolOp"
	case ExprUnary:
		return "Unary"
	case ExprCall:
		return "Call"
	case ExprList:
		return "List"
	case ExprSubscript:
		return "Subscript"
	case ExprAttribute:
		return "Attribute"
	default:
		return "Unknown"
	}
}

// Expr is a source expression node.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is implemented by the per-kind payloads below.
type ExprData interface {
	exprData()
}

// ConstKind enumerates constant literal forms.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstStr
	ConstBool
	ConstBytes
	ConstNone
)

// ConstExpr holds a literal; only the field selected by Kind is meaningful.
type ConstExpr struct {
	Kind  ConstKind `msgpack:"kind"`
	Int   int64     `msgpack:"int,omitempty"`
	Float float64   `msgpack:"float,omitempty"`
	Str   string    `msgpack:"str,omitempty"`
	Bool  bool      `msgpack:"bool,omitempty"`
	Bytes []byte    `msgpack:"bytes,omitempty"`
}

type NameExpr struct {
	Name string `msgpack:"name"`
}

type BinaryExpr struct {
	Left  *Expr `msgpack:"left"`
	Op    BinOp `msgpack:"op"`
	Right *Expr `msgpack:"right"`
}

// CompareExpr is `Left Ops[0] Comparators[0] Ops[1] Comparators[1] ...`.
type CompareExpr struct {
	Left        *Expr   `msgpack:"left"`
	Ops         []CmpOp `msgpack:"ops"`
	Comparators []*Expr `msgpack:"comparators"`
}

type BoolOpExpr struct {
	Op     BoolOp  `msgpack:"op"`
	Values []*Expr `msgpack:"values"`
}

type UnaryExpr struct {
	Op      UnaryOp `msgpack:"op"`
	Operand *Expr   `msgpack:"operand"`
}

type CallExpr struct {
	Func *Expr   `msgpack:"func"`
	Args []*Expr `msgpack:"args"`
}

type ListExpr struct {
	Elts []*Expr `msgpack:"elts"`
}

type SubscriptExpr struct {
	Value *Expr `msgpack:"value"`
	Index *Expr `msgpack:"index"`
}

type AttributeExpr struct {
	Value *Expr  `msgpack:"value"`
	Attr  string `msgpack:"attr"`
}

func (*ConstExpr) exprData()     {}
func (*NameExpr) exprData()      {}
func (*BinaryExpr) exprData()    {}
func (*CompareExpr) exprData()   {}
func (*BoolOpExpr) exprData()    {}
func (*UnaryExpr) exprData()     {}
func (*CallExpr) exprData()      {}
func (*ListExpr) exprData()      {}
func (*SubscriptExpr) exprData() {}
func (*AttributeExpr) exprData() {}

// newExprData allocates the payload for kind; nil for unknown kinds.
func newExprData(k ExprKind) ExprData {
	switch k {
	case ExprConst:
		return &ConstExpr{}
	case ExprName:
		return &NameExpr{}
	case ExprBinary:
		return &BinaryExpr{}
	case ExprCompare:
		return &CompareExpr{}
	case ExprBoolOp:
		return &BoolOpExpr{}
	case ExprUnary:
		return &UnaryExpr{}
	case ExprCall:
		return &CallExpr{}
	case ExprList:
		return &ListExpr{}
	case ExprSubscript:
		return &SubscriptExpr{}
	case ExprAttribute:
		return &AttributeExpr{}
	default:
		return nil
	}
}

// NameOf returns the identifier of an ExprName node.
func (e *Expr) NameOf() (string, bool) {
	if e == nil || e.Kind != ExprName {
		return "", false
	}
	n, ok := e.Data.(*NameExpr)
	if !ok {
		return "", false
	}
	return n.Name, true
}
