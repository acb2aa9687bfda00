package uir

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtAssign
	StmtAugAssign
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
	StmtTry
	StmtRaise
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtAssign:
		return "Assign"
	case StmtAugAssign:
		return "AugAssign"
	case StmtExpr:
		return "Expr"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtTry:
		return "Try"
	case StmtRaise:
		return "Raise"
	default:
		return "Unknown"
	}
}

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

type StmtData interface {
	stmtData()
}

type LetStmt struct {
	Local tir.LocalID
	Type  Type
	Init  *Expr
}

type LValue struct {
	Kind   tir.LValueKind
	Var    tir.VarRef
	Object *Expr
	Class  tir.ClassID
	Field  tir.FieldID
}

type AssignStmt struct {
	Target LValue
	Value  *Expr
}

type AugAssignStmt struct {
	Target tir.VarRef
	Op     ast.BinOp
	Value  *Expr
}

type ExprStmt struct {
	Value *Expr
}

type ReturnStmt struct {
	Value *Expr
}

type IfStmt struct {
	Cond *Expr
	Then []*Stmt
	Else []*Stmt
}

type WhileStmt struct {
	Cond *Expr
	Body []*Stmt
}

type ExceptHandler struct {
	Class tir.ClassID
	Local tir.LocalID
	Body  []*Stmt
}

type TryStmt struct {
	Body     []*Stmt
	Handlers []ExceptHandler
	Orelse   []*Stmt
	Finally  []*Stmt
}

type RaiseStmt struct {
	Exc *Expr
}

func (*LetStmt) stmtData()       {}
func (*AssignStmt) stmtData()    {}
func (*AugAssignStmt) stmtData() {}
func (*ExprStmt) stmtData()      {}
func (*ReturnStmt) stmtData()    {}
func (*IfStmt) stmtData()        {}
func (*WhileStmt) stmtData()     {}
func (*TryStmt) stmtData()       {}
func (*RaiseStmt) stmtData()     {}

func Let(local tir.LocalID, t Type, init *Expr, sp source.Span) *Stmt {
	return &Stmt{Kind: StmtLet, Span: sp, Data: &LetStmt{Local: local, Type: t, Init: init}}
}

func AssignVar(ref tir.VarRef, value *Expr, sp source.Span) *Stmt {
	return &Stmt{Kind: StmtAssign, Span: sp, Data: &AssignStmt{
		Target: LValue{Kind: tir.LValueVar, Var: ref},
		Value:  value,
	}}
}

func ExprS(value *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Span: value.Span, Data: &ExprStmt{Value: value}}
}
