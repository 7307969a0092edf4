package symbols

import (
	"drift/internal/ast"
)

// DefKind classifies what an identifier pattern resolved to.
type DefKind uint8

const (
	// DefBinding introduces a fresh local variable.
	DefBinding DefKind = iota
	// DefConst matches against a named constant.
	DefConst
	// DefVariant matches against a unit enum variant.
	DefVariant
)

// DefTable records resolution results for identifier patterns. Syntax alone
// cannot tell `let x = ...` apart from matching the unit variant `None`, so
// the resolver supplies this table and walks consult it read-only.
type DefTable struct {
	pats map[ast.PatID]DefKind
}

func NewDefTable() *DefTable {
	return &DefTable{pats: make(map[ast.PatID]DefKind)}
}

// Record stores the resolution of one identifier pattern.
func (t *DefTable) Record(pat ast.PatID, kind DefKind) {
	t.pats[pat] = kind
}

// IsBinding reports whether an identifier pattern introduces a variable.
// Unrecorded patterns default to bindings.
func (t *DefTable) IsBinding(pat ast.PatID) bool {
	if t == nil {
		return true
	}
	kind, ok := t.pats[pat]
	return !ok || kind == DefBinding
}
