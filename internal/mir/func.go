package mir

import (
	"drift/internal/source"
)

// Func is the lowered form of one function, reduced here to what debug-info
// emission consumes: its locals and its source-scope tree.
type Func struct {
	ID   FuncID
	Name string
	Span source.Span

	Locals []Local
	Scopes []SourceScope
}

// ScopeOf returns the scope record for id, or nil when out of range.
func (f *Func) ScopeOf(id ScopeID) *SourceScope {
	if !id.IsValid() || int(id) >= len(f.Scopes) {
		return nil
	}
	return &f.Scopes[id]
}

// Validate checks the structural invariants the debug-info resolver relies
// on: parent links in range, acyclic (parents precede children), and every
// local owned by an existing scope.
func (f *Func) Validate() error {
	for i := range f.Scopes {
		parent := f.Scopes[i].Parent
		if parent == NoScopeID {
			continue
		}
		if int(parent) >= len(f.Scopes) || parent < 0 {
			return &BadScopeError{Func: f.Name, Scope: ScopeID(i), Parent: parent}
		}
		if int(parent) >= i {
			return &BadScopeError{Func: f.Name, Scope: ScopeID(i), Parent: parent}
		}
	}
	for i := range f.Locals {
		scope := f.Locals[i].Scope
		if !scope.IsValid() || int(scope) >= len(f.Scopes) {
			return &BadLocalError{Func: f.Name, Local: LocalID(i), Scope: scope}
		}
	}
	return nil
}
