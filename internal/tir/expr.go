package tir

import "github.com/cla7aye15I4nd/TypePython/internal/ast"

// VarKind says which storage a VarRef points into.
type VarKind uint8

const (
	VarLocal VarKind = iota
	VarParam
	VarGlobal
	// VarSelf is the receiver of a method (parameter 0).
	VarSelf
)

// VarRef names a variable. Only the fields selected by Kind are meaningful.
type VarRef struct {
	Kind   VarKind
	Local  LocalID
	Param  uint32
	Module ModuleID
	Global GlobalID
}

func LocalRef(id LocalID) VarRef { return VarRef{Kind: VarLocal, Local: id} }
func ParamRef(idx uint32) VarRef { return VarRef{Kind: VarParam, Param: idx} }
func SelfRef() VarRef            { return VarRef{Kind: VarSelf} }
func GlobalRef(m ModuleID, g GlobalID) VarRef {
	return VarRef{Kind: VarGlobal, Module: m, Global: g}
}

// ExprKind enumerates resolved expression kinds.
type ExprKind uint8

const (
	ExprConst ExprKind = iota
	ExprVar
	ExprBinary
	// ExprCompare is a single comparison; chains are desugared to BoolOp.
	ExprCompare
	ExprBoolOp
	ExprUnary
	// ExprCall calls a function; for methods Args[0] is the receiver.
	ExprCall
	ExprConstruct
	// ExprRange is range(start, stop, step) kept apart from Construct so
	// code generation needs no runtime dispatch.
	ExprRange
	ExprField
	ExprList
	ExprBytes
	// ExprBind evaluates Value, stores it in Local and yields it.
	ExprBind
)

func (k ExprKind) String() string {
	switch k {
	case ExprConst:
		return "Const"
	case ExprVar:
		return "Var"
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
	case ExprConstruct:
		return "Construct"
	case ExprRange:
		return "Range"
	case ExprField:
		return "Field"
	case ExprList:
		return "List"
	case ExprBytes:
		return "Bytes"
	case ExprBind:
		return "Bind"
	default:
		return "Unknown"
	}
}

// Expr is a typed expression.
type Expr struct {
	Kind ExprKind
	Type Type
	Data ExprData
}

type ExprData interface {
	exprData()
}

// ConstKind enumerates constants; byte strings are ExprBytes instead.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstStr
	ConstBool
	ConstNone
)

type ConstExpr struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

type VarExpr struct {
	Ref VarRef
}

type BinaryExpr struct {
	Left  *Expr
	Op    ast.BinOp
	Right *Expr
}

type CompareExpr struct {
	Left  *Expr
	Op    ast.CmpOp
	Right *Expr
}

type BoolOpExpr struct {
	Op     ast.BoolOp
	Values []*Expr
}

type UnaryExpr struct {
	Op      ast.UnaryOp
	Operand *Expr
}

type CallExpr struct {
	Func FuncID
	Args []*Expr
}

type ConstructExpr struct {
	Class ClassID
	Args  []*Expr
}

// RangeExpr: nil Start means 0, nil Step means 1.
type RangeExpr struct {
	Start *Expr
	Stop  *Expr
	Step  *Expr
}

type FieldExpr struct {
	Object *Expr
	Class  ClassID
	Field  FieldID
}

type ListExpr struct {
	Elems []*Expr
	Elem  Type
}

type BytesExpr struct {
	Data []byte
}

type BindExpr struct {
	Local LocalID
	Value *Expr
}

func (*ConstExpr) exprData()     {}
func (*VarExpr) exprData()       {}
func (*BinaryExpr) exprData()    {}
func (*CompareExpr) exprData()   {}
func (*BoolOpExpr) exprData()    {}
func (*UnaryExpr) exprData()     {}
func (*CallExpr) exprData()      {}
func (*ConstructExpr) exprData() {}
func (*RangeExpr) exprData()     {}
func (*FieldExpr) exprData()     {}
func (*ListExpr) exprData()      {}
func (*BytesExpr) exprData()     {}
func (*BindExpr) exprData()      {}

func newExprData(k ExprKind) ExprData {
	switch k {
	case ExprConst:
		return &ConstExpr{}
	case ExprVar:
		return &VarExpr{}
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
	case ExprConstruct:
		return &ConstructExpr{}
	case ExprRange:
		return &RangeExpr{}
	case ExprField:
		return &FieldExpr{}
	case ExprList:
		return &ListExpr{}
	case ExprBytes:
		return &BytesExpr{}
	case ExprBind:
		return &BindExpr{}
	default:
		return nil
	}
}
