package tir

import (
	"github.com/cla7aye15I4nd/TypePython/internal/ast"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

// StmtKind enumerates resolved statement kinds.
type StmtKind uint8

const (
	// StmtLet introduces a local with its initial value.
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

// Stmt is a typed statement. Span is zero for synthesized statements.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

type StmtData interface {
	stmtData()
}

type LetStmt struct {
	Local LocalID
	Type  Type
	Init  *Expr
}

// LValueKind distinguishes variable and field stores.
type LValueKind uint8

const (
	LValueVar LValueKind = iota
	LValueField
)

type LValue struct {
	Kind   LValueKind
	Var    VarRef
	Object *Expr
	Class  ClassID
	Field  FieldID
}

type AssignStmt struct {
	Target LValue
	Value  *Expr
}

type AugAssignStmt struct {
	Target VarRef
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

// ExceptHandler: Class NoClassID catches everything, Local NoLocalID binds nothing.
type ExceptHandler struct {
	Class ClassID
	Local LocalID
	Body  []*Stmt
}

type TryStmt struct {
	Body     []*Stmt
	Handlers []ExceptHandler
	Orelse   []*Stmt
	Finally  []*Stmt
}

// RaiseStmt with nil Exc re-raises.
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

func newStmtData(k StmtKind) StmtData {
	switch k {
	case StmtLet:
		return &LetStmt{}
	case StmtAssign:
		return &AssignStmt{}
	case StmtAugAssign:
		return &AugAssignStmt{}
	case StmtExpr:
		return &ExprStmt{}
	case StmtReturn:
		return &ReturnStmt{}
	case StmtIf:
		return &IfStmt{}
	case StmtWhile:
		return &WhileStmt{}
	case StmtTry:
		return &TryStmt{}
	case StmtRaise:
		return &RaiseStmt{}
	default:
		return nil
	}
}
