package debuginfo

import (
	"drift/internal/mir"
	"drift/internal/source"
)

// CreateMirScopes resolves a function's lowered scope tree into debug scope
// handles, one slot per MIR scope. Scopes that own no variables collapse into
// their nearest materialized ancestor so the debug info stays small.
//
// When debug info is disabled for the function every slot stays NoScopeRef
// and the backend is never called.
func CreateMirScopes(f *mir.Func, fset *source.FileSet, dib Builder, dctx FnDebugContext) []ScopeRef {
	scopes := make([]ScopeRef, len(f.Scopes))

	if dctx.Kind == FnDebugDisabled {
		return scopes
	}

	// Mark the scopes that directly own at least one local.
	hasVariables := make(scopeSet, len(f.Locals))
	for i := range f.Locals {
		hasVariables.add(f.Locals[i].Scope)
	}

	for idx := range f.Scopes {
		makeMirScope(f, fset, dib, dctx.Scope, hasVariables, mir.ScopeID(idx), scopes)
	}

	return scopes
}

func makeMirScope(f *mir.Func, fset *source.FileSet, dib Builder, fnScope ScopeRef,
	hasVariables scopeSet, scope mir.ScopeID, scopes []ScopeRef) {

	idx := int(scope)
	if scopes[idx].IsValid() {
		return
	}

	data := &f.Scopes[idx]
	if !data.Parent.IsValid() {
		// The root is the function itself.
		scopes[idx] = fnScope
		return
	}
	makeMirScope(f, fset, dib, fnScope, hasVariables, data.Parent, scopes)
	parent := scopes[data.Parent]

	if !hasVariables.has(scope) {
		// No variables are defined here, so no scope object is needed.
		// Exception: scopes directly under the function root stay
		// materialized so arguments can be told apart from body-local
		// shadowing.
		if parent != fnScope {
			scopes[idx] = parent
			return
		}
	}

	loc, _ := fset.Resolve(data.Span)
	scopes[idx] = dib.CreateLexicalScope(parent, data.Span.File, loc.Line, loc.Col)
}

type scopeSet map[mir.ScopeID]struct{}

func (s scopeSet) add(id mir.ScopeID) {
	if s == nil || !id.IsValid() {
		return
	}
	s[id] = struct{}{}
}

func (s scopeSet) has(id mir.ScopeID) bool {
	if s == nil {
		return false
	}
	_, ok := s[id]
	return ok
}
