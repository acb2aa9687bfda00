package ast

// BinOp enumerates arithmetic and bitwise operators.
type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMult
	BinDiv
	BinFloorDiv
	BinMod
	BinPow
	BinLShift
	BinRShift
	BinBitOr
	BinBitXor
	BinBitAnd
)

func (op BinOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMult:
		return "*"
	case BinDiv:
		return "/"
	case BinFloorDiv:
		return "//"
	case BinMod:
		return "%"
	case BinPow:
		return "**"
	case BinLShift:
		return "<<"
	case BinRShift:
		return ">>"
	case BinBitOr:
		return "|"
	case BinBitXor:
		return "^"
	case BinBitAnd:
		return "&"
	default:
		return "?"
	}
}

// CmpOp enumerates comparison operators.
type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
)

func (op CmpOp) String() string {
	switch op {
	case CmpEq:
		return "=="
	case CmpNotEq:
		return "!="
	case CmpLt:
		return "<"
	case CmpLtE:
		return "<="
	case CmpGt:
		return ">"
	case CmpGtE:
		return ">="
	default:
		return "?"
	}
}

// BoolOp is `and` / `or`.
type BoolOp uint8

const (
	BoolAnd BoolOp = iota
	BoolOr
)

func (op BoolOp) String() string {
	if op == BoolOr {
		return "or"
	}
	return "and"
}

// UnaryOp is `not` / unary minus.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
)

func (op UnaryOp) String() string {
	if op == UnaryNeg {
		return "-"
	}
	return "not"
}
