package ast

import "github.com/cla7aye15I4nd/TypePython/internal/source"

// StmtKind enumerates source statement kinds.
type StmtKind uint8

const (
	StmtFunctionDef StmtKind = iota
	StmtClassDef
	StmtIf
	StmtWhile
	StmtFor
	StmtReturn
	// StmtAssign covers plain and annotated assignment.
	StmtAssign
	StmtAugAssign
	StmtExpr
	StmtTry
	StmtRaise
)

func (k StmtKind) String() string {
	switch k {
	case StmtFunctionDef:
		return "FunctionDef"
	case StmtClassDef:
		return "ClassDef"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtFor:
		return "For"
	case StmtReturn:
		return "Return"
	case StmtAssign:
		return "Assign"
	case StmtAugAssign:
		return "AugAssign"
	case StmtExpr:
		return "Expr"
	case StmtTry:
		return "Try"
	case StmtRaise:
		return "Raise"
	default:
		return "Unknown"
	}
}

// Stmt is a source statement node.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is implemented by the per-kind payloads below.
type StmtData interface {
	stmtData()
}

// FunctionDef is a function or, inside ClassDef.Methods, a method. Span is
// only filled for methods, which have no enclosing Stmt.
type FunctionDef struct {
	Name    string      `msgpack:"name"`
	Args    []Arg       `msgpack:"args"`
	Returns *TypeExpr   `msgpack:"returns,omitempty"`
	Body    []*Stmt     `msgpack:"body"`
	Span    source.Span `msgpack:"span,omitempty"`
}

// ClassDef keeps every base as written; more than one is rejected during
// definition collection.
type ClassDef struct {
	Name    string         `msgpack:"name"`
	Bases   []string       `msgpack:"bases,omitempty"`
	Fields  []Field        `msgpack:"fields,omitempty"`
	Methods []*FunctionDef `msgpack:"methods,omitempty"`
}

type IfStmt struct {
	Test   *Expr   `msgpack:"test"`
	Body   []*Stmt `msgpack:"body"`
	Orelse []*Stmt `msgpack:"orelse,omitempty"`
}

type WhileStmt struct {
	Test *Expr   `msgpack:"test"`
	Body []*Stmt `msgpack:"body"`
}

type ForStmt struct {
	Target string  `msgpack:"target"`
	Iter   *Expr   `msgpack:"iter"`
	Body   []*Stmt `msgpack:"body"`
}

type ReturnStmt struct {
	Value *Expr `msgpack:"value,omitempty"`
}

// AssignStmt is `t = v` or `t: Ann = v`. Targets has more than one entry
// only for chained `a = b = v`, which lowering rejects.
type AssignStmt struct {
	Targets    []*Expr   `msgpack:"targets"`
	Value      *Expr     `msgpack:"value"`
	Annotation *TypeExpr `msgpack:"annotation,omitempty"`
}

type AugAssignStmt struct {
	Target string `msgpack:"target"`
	Op     BinOp  `msgpack:"op"`
	Value  *Expr  `msgpack:"value"`
}

type ExprStmt struct {
	Value *Expr `msgpack:"value"`
}

type TryStmt struct {
	Body     []*Stmt         `msgpack:"body"`
	Handlers []ExceptHandler `msgpack:"handlers,omitempty"`
	Orelse   []*Stmt         `msgpack:"orelse,omitempty"`
	Finally  []*Stmt         `msgpack:"finally,omitempty"`
}

// RaiseStmt with nil Exc re-raises the active exception.
type RaiseStmt struct {
	Exc *Expr `msgpack:"exc,omitempty"`
}

func (*FunctionDef) stmtData()   {}
func (*ClassDef) stmtData()      {}
func (*IfStmt) stmtData()        {}
func (*WhileStmt) stmtData()     {}
func (*ForStmt) stmtData()       {}
func (*ReturnStmt) stmtData()    {}
func (*AssignStmt) stmtData()    {}
func (*AugAssignStmt) stmtData() {}
func (*ExprStmt) stmtData()      {}
func (*TryStmt) stmtData()       {}
func (*RaiseStmt) stmtData()     {}

func newStmtData(k StmtKind) StmtData {
	switch k {
	case StmtFunctionDef:
		return &FunctionDef{}
	case StmtClassDef:
		return &ClassDef{}
	case StmtIf:
		return &IfStmt{}
	case StmtWhile:
		return &WhileStmt{}
	case StmtFor:
		return &ForStmt{}
	case StmtReturn:
		return &ReturnStmt{}
	case StmtAssign:
		return &AssignStmt{}
	case StmtAugAssign:
		return &AugAssignStmt{}
	case StmtExpr:
		return &ExprStmt{}
	case StmtTry:
		return &TryStmt{}
	case StmtRaise:
		return &RaiseStmt{}
	default:
		return nil
	}
}
