package debuginfo

import (
	"drift/internal/source"
)

// ScopeRef is an opaque handle to a lexical debug scope owned by the object
// backend. Handles compare by identity; this package never inspects them.
type ScopeRef uint32

// NoScopeRef marks the absence of a scope (debug info disabled, or a slot not
// yet resolved).
const NoScopeRef ScopeRef = 0

func (r ScopeRef) IsValid() bool { return r != NoScopeRef }

// Builder is the narrow interface to the debug-info backend. Implementations
// must either be goroutine-safe or be used from a single goroutine per
// function resolution; this package does not serialize calls.
type Builder interface {
	// CreateFunctionScope creates the root scope of a function.
	CreateFunctionScope(file source.FileID, line uint32) ScopeRef
	// CreateLexicalScope creates a child scope at the given position.
	CreateLexicalScope(parent ScopeRef, file source.FileID, line, col uint32) ScopeRef
}

// FnDebugKind says whether debug info is emitted for a function.
type FnDebugKind uint8

const (
	// FnDebugRegular emits full scope information.
	FnDebugRegular FnDebugKind = iota
	// FnDebugDisabled suppresses all scope creation for the function.
	FnDebugDisabled
)

// FnDebugContext carries the per-function debug state created by the caller
// before scope resolution runs.
type FnDebugContext struct {
	Kind  FnDebugKind
	Scope ScopeRef // the function's own scope; valid only for FnDebugRegular
}
