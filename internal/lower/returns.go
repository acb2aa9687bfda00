package lower

import (
	"github.com/cla7aye15I4nd/TypePython/internal/source"
	"github.com/cla7aye15I4nd/TypePython/internal/uir"
)

// alwaysReturns is the conservative return-path check. A block returns
// when it contains a return at its own level, or when its last statement
// is an if whose branches both return. Loops and try statements never
// count since their bodies may not run to the end.
func alwaysReturns(ss []*uir.Stmt) bool {
	for i, s := range ss {
		switch s.Kind {
		case uir.StmtReturn:
			return true
		case uir.StmtIf:
			if i != len(ss)-1 {
				continue
			}
			d := s.Data.(*uir.IfStmt)
			return alwaysReturns(d.Then) && alwaysReturns(d.Else)
		}
	}
	return false
}

// withImplicitReturn appends a bare return unless the body already ends
// with one.
func withImplicitReturn(ss []*uir.Stmt, sp source.Span) []*uir.Stmt {
	if n := len(ss); n > 0 && ss[n-1].Kind == uir.StmtReturn {
		return ss
	}
	return append(ss, &uir.Stmt{Kind: uir.StmtReturn, Span: sp, Data: &uir.ReturnStmt{}})
}
