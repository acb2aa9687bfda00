package ast

// Constructors for building trees by hand (tests, tooling). Spans are left
// zero; set them on the returned node when positions matter.

func Int(v int64) *Expr {
	return &Expr{Kind: ExprConst, Data: &ConstExpr{Kind: ConstInt, Int: v}}
}

func Float(v float64) *Expr {
	return &Expr{Kind: ExprConst, Data: &ConstExpr{Kind: ConstFloat, Float: v}}
}

func Str(v string) *Expr {
	return &Expr{Kind: ExprConst, Data: &ConstExpr{Kind: ConstStr, Str: v}}
}

func Bool(v bool) *Expr {
	return &Expr{Kind: ExprConst, Data: &ConstExpr{Kind: ConstBool, Bool: v}}
}

func Bytes(v []byte) *Expr {
	return &Expr{Kind: ExprConst, Data: &ConstExpr{Kind: ConstBytes, Bytes: v}}
}

func None() *Expr {
	return &Expr{Kind: ExprConst, Data: &ConstExpr{Kind: ConstNone}}
}

func Name(n string) *Expr {
	return &Expr{Kind: ExprName, Data: &NameExpr{Name: n}}
}

func Binary(l *Expr, op BinOp, r *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Data: &BinaryExpr{Left: l, Op: op, Right: r}}
}

// Compare builds `left ops[0] comparators[0] ops[1] comparators[1] ...`.
func Compare(left *Expr, ops []CmpOp, comparators ...*Expr) *Expr {
	return &Expr{Kind: ExprCompare, Data: &CompareExpr{Left: left, Ops: ops, Comparators: comparators}}
}

func And(values ...*Expr) *Expr {
	return &Expr{Kind: ExprBoolOp, Data: &BoolOpExpr{Op: BoolAnd, Values: values}}
}

func Or(values ...*Expr) *Expr {
	return &Expr{Kind: ExprBoolOp, Data: &BoolOpExpr{Op: BoolOr, Values: values}}
}

func Unary(op UnaryOp, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Data: &UnaryExpr{Op: op, Operand: operand}}
}

func Call(fn *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Data: &CallExpr{Func: fn, Args: args}}
}

// CallName is Call(Name(fn), args...).
func CallName(fn string, args ...*Expr) *Expr {
	return Call(Name(fn), args...)
}

func List(elts ...*Expr) *Expr {
	return &Expr{Kind: ExprList, Data: &ListExpr{Elts: elts}}
}

func Subscript(v, idx *Expr) *Expr {
	return &Expr{Kind: ExprSubscript, Data: &SubscriptExpr{Value: v, Index: idx}}
}

func Attr(v *Expr, attr string) *Expr {
	return &Expr{Kind: ExprAttribute, Data: &AttributeExpr{Value: v, Attr: attr}}
}

// MethodCall is recv.method(args...).
func MethodCall(recv *Expr, method string, args ...*Expr) *Expr {
	return Call(Attr(recv, method), args...)
}

func Ann(kind TypeKind) *TypeExpr { return &TypeExpr{Kind: kind} }

func ListOf(elem *TypeExpr) *TypeExpr { return &TypeExpr{Kind: TypeList, Elem: elem} }

func ClassAnn(name string) *TypeExpr { return &TypeExpr{Kind: TypeClass, Name: name} }

func Def(name string, args []Arg, returns *TypeExpr, body ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtFunctionDef, Data: &FunctionDef{Name: name, Args: args, Returns: returns, Body: body}}
}

// Method builds a FunctionDef for ClassDef.Methods.
func Method(name string, args []Arg, returns *TypeExpr, body ...*Stmt) *FunctionDef {
	return &FunctionDef{Name: name, Args: args, Returns: returns, Body: body}
}

func Param(name string, ann *TypeExpr) Arg { return Arg{Name: name, Annotation: ann} }

func Class(name string, bases []string, fields []Field, methods ...*FunctionDef) *Stmt {
	return &Stmt{Kind: StmtClassDef, Data: &ClassDef{Name: name, Bases: bases, Fields: fields, Methods: methods}}
}

func FieldDecl(name string, ann *TypeExpr) Field { return Field{Name: name, Annotation: ann} }

func If(test *Expr, body []*Stmt, orelse ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtIf, Data: &IfStmt{Test: test, Body: body, Orelse: orelse}}
}

func While(test *Expr, body ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtWhile, Data: &WhileStmt{Test: test, Body: body}}
}

func For(target string, iter *Expr, body ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtFor, Data: &ForStmt{Target: target, Iter: iter, Body: body}}
}

func Return(v *Expr) *Stmt {
	return &Stmt{Kind: StmtReturn, Data: &ReturnStmt{Value: v}}
}

func Assign(target, value *Expr) *Stmt {
	return &Stmt{Kind: StmtAssign, Data: &AssignStmt{Targets: []*Expr{target}, Value: value}}
}

func AnnAssign(target *Expr, ann *TypeExpr, value *Expr) *Stmt {
	return &Stmt{Kind: StmtAssign, Data: &AssignStmt{Targets: []*Expr{target}, Value: value, Annotation: ann}}
}

func AugAssign(target string, op BinOp, value *Expr) *Stmt {
	return &Stmt{Kind: StmtAugAssign, Data: &AugAssignStmt{Target: target, Op: op, Value: value}}
}

func ExprS(v *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Data: &ExprStmt{Value: v}}
}

func Try(body []*Stmt, handlers []ExceptHandler, orelse, finally []*Stmt) *Stmt {
	return &Stmt{Kind: StmtTry, Data: &TryStmt{Body: body, Handlers: handlers, Orelse: orelse, Finally: finally}}
}

func Except(typ, name string, body ...*Stmt) ExceptHandler {
	return ExceptHandler{Type: typ, Name: name, Body: body}
}

func Raise(exc *Expr) *Stmt {
	return &Stmt{Kind: StmtRaise, Data: &RaiseStmt{Exc: exc}}
}

// Block is a convenience for statement lists.
func Block(stmts ...*Stmt) []*Stmt { return stmts }
