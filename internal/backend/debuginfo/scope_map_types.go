package debuginfo

import (
	"drift/internal/ast"
)

// ScopeMap assigns a debug scope to every AST node visited by the walk. Each
// key is written exactly once; the arenas keep node IDs unique per function,
// so the per-arena maps together cover the whole function.
type ScopeMap struct {
	Items map[ast.ItemID]ScopeRef
	Stmts map[ast.StmtID]ScopeRef
	Exprs map[ast.ExprID]ScopeRef
	Pats  map[ast.PatID]ScopeRef
}

func NewScopeMap() *ScopeMap {
	return &ScopeMap{
		Items: make(map[ast.ItemID]ScopeRef),
		Stmts: make(map[ast.StmtID]ScopeRef),
		Exprs: make(map[ast.ExprID]ScopeRef),
		Pats:  make(map[ast.PatID]ScopeRef),
	}
}

// Len returns the total number of mapped nodes.
func (m *ScopeMap) Len() int {
	return len(m.Items) + len(m.Stmts) + len(m.Exprs) + len(m.Pats)
}

func (m *ScopeMap) Item(id ast.ItemID) (ScopeRef, bool) {
	ref, ok := m.Items[id]
	return ref, ok
}

func (m *ScopeMap) Stmt(id ast.StmtID) (ScopeRef, bool) {
	ref, ok := m.Stmts[id]
	return ref, ok
}

func (m *ScopeMap) Expr(id ast.ExprID) (ScopeRef, bool) {
	ref, ok := m.Exprs[id]
	return ref, ok
}

func (m *ScopeMap) Pat(id ast.PatID) (ScopeRef, bool) {
	ref, ok := m.Pats[id]
	return ref, ok
}
