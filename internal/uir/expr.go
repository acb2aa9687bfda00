package uir

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

type ExprKind uint8

const (
	ExprConst ExprKind = iota
	ExprVar
	ExprBinary
	ExprCompare
	ExprBoolOp
	ExprUnary
	ExprCall
	// ExprConstruct also covers range(...); resolution turns that into a
	// dedicated range node.
	ExprConstruct
	ExprField
	ExprList
	ExprBytes
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

// Expr is an expression whose type may still be a variable. Nodes may be
// shared between parents (chained comparisons); resolution keeps that
// sharing.
type Expr struct {
	Kind ExprKind
	Type Type
	Span source.Span
	Data ExprData
}

type ExprData interface {
	exprData()
}

type ConstExpr struct {
	Kind  tir.ConstKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

type VarExpr struct {
	Ref tir.VarRef
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
	Func tir.FuncID
	Args []*Expr
}

type ConstructExpr struct {
	Class tir.ClassID
	Args  []*Expr
}

type FieldExpr struct {
	Object *Expr
	Class  tir.ClassID
	Field  tir.FieldID
}

type ListExpr struct {
	Elems []*Expr
	Elem  Type
}

type BytesExpr struct {
	Data []byte
}

type BindExpr struct {
	Local tir.LocalID
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
func (*FieldExpr) exprData()     {}
func (*ListExpr) exprData()      {}
func (*BytesExpr) exprData()     {}
func (*BindExpr) exprData()      {}

// Small constructors used by the lowerer.

func IntConst(v int64, sp source.Span) *Expr {
	return &Expr{Kind: ExprConst, Type: Int, Span: sp, Data: &ConstExpr{Kind: tir.ConstInt, Int: v}}
}

func BoolConst(v bool, sp source.Span) *Expr {
	return &Expr{Kind: ExprConst, Type: Bool, Span: sp, Data: &ConstExpr{Kind: tir.ConstBool, Bool: v}}
}

func StrConst(v string, t Type, sp source.Span) *Expr {
	return &Expr{Kind: ExprConst, Type: t, Span: sp, Data: &ConstExpr{Kind: tir.ConstStr, Str: v}}
}

func Var(ref tir.VarRef, t Type, sp source.Span) *Expr {
	return &Expr{Kind: ExprVar, Type: t, Span: sp, Data: &VarExpr{Ref: ref}}
}

func Call(fn tir.FuncID, ret Type, sp source.Span, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Type: ret, Span: sp, Data: &CallExpr{Func: fn, Args: args}}
}

func Not(operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Type: Bool, Span: operand.Span, Data: &UnaryExpr{Op: ast.UnaryNot, Operand: operand}}
}

// IsPure reports whether evaluating e twice is indistinguishable from
// evaluating it once.
func (e *Expr) IsPure() bool {
	return e.Kind == ExprConst || e.Kind == ExprVar
}
