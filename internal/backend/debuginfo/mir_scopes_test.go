package debuginfo_test

import (
	"testing"

	"drift/internal/backend/debuginfo"
	"drift/internal/mir"
	"drift/internal/source"
)

func mirEnv() (*source.FileSet, source.FileID) {
	fset := source.NewFileSet()
	file := fset.AddVirtual("mir.dr", []byte("fn main() {\n    let a = 1;\n    {\n        let b = 2;\n    }\n}\n"))
	return fset, file
}

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

// TestMirScopesEmptyElision: a variable-free scope with a non-root parent
// aliases its parent's handle; no backend object is created for it.
func TestMirScopesEmptyElision(t *testing.T) {
	fset, file := mirEnv()
	f := &mir.Func{
		Name: "main",
		Span: span(file, 0, 60),
		Scopes: []mir.SourceScope{
			{Parent: mir.NoScopeID, Span: span(file, 0, 60)},
			{Parent: 0, Span: span(file, 12, 58)},  // body, owns `a`
			{Parent: 1, Span: span(file, 31, 55)},  // inner block, empty
		},
		Locals: []mir.Local{
			{Name: "a", Scope: 1, Span: span(file, 20, 21)},
		},
	}

	rec := debuginfo.NewRecorder()
	fnScope := rec.CreateFunctionScope(file, 1)
	dctx := debuginfo.FnDebugContext{Kind: debuginfo.FnDebugRegular, Scope: fnScope}

	scopes := debuginfo.CreateMirScopes(f, fset, rec, dctx)
	if len(scopes) != 3 {
		t.Fatalf("len = %d, want 3", len(scopes))
	}
	if scopes[0] != fnScope {
		t.Errorf("root resolved to %d, want function scope %d", scopes[0], fnScope)
	}
	if scopes[1] == fnScope {
		t.Error("body scope was not materialized")
	}
	if scopes[2] != scopes[1] {
		t.Errorf("empty scope resolved to %d, want alias of parent %d", scopes[2], scopes[1])
	}
	// Function scope + one lexical scope; the empty one created nothing.
	if rec.Len() != 2 {
		t.Errorf("backend created %d scopes, want 2", rec.Len())
	}
}

// TestMirScopesRootException: an empty scope directly under the function root
// is still materialized, keeping arguments distinguishable from body locals.
func TestMirScopesRootException(t *testing.T) {
	fset, file := mirEnv()
	f := &mir.Func{
		Name: "main",
		Span: span(file, 0, 60),
		Scopes: []mir.SourceScope{
			{Parent: mir.NoScopeID, Span: span(file, 0, 60)},
			{Parent: 0, Span: span(file, 12, 58)}, // empty, but parent is root
		},
	}

	rec := debuginfo.NewRecorder()
	fnScope := rec.CreateFunctionScope(file, 1)
	dctx := debuginfo.FnDebugContext{Kind: debuginfo.FnDebugRegular, Scope: fnScope}

	scopes := debuginfo.CreateMirScopes(f, fset, rec, dctx)
	if scopes[1] == fnScope {
		t.Error("empty child of the root was elided; it must get its own scope")
	}
	if got := rec.Get(scopes[1]).Parent; got != fnScope {
		t.Errorf("scope parent = %d, want function scope %d", got, fnScope)
	}
}

// TestMirScopesChainedElision: elision walks to the nearest materialized
// ancestor through a chain of empty scopes.
func TestMirScopesChainedElision(t *testing.T) {
	fset, file := mirEnv()
	f := &mir.Func{
		Name: "main",
		Span: span(file, 0, 60),
		Scopes: []mir.SourceScope{
			{Parent: mir.NoScopeID, Span: span(file, 0, 60)},
			{Parent: 0, Span: span(file, 12, 58)}, // owns `a`
			{Parent: 1, Span: span(file, 31, 55)}, // empty
			{Parent: 2, Span: span(file, 35, 50)}, // empty
		},
		Locals: []mir.Local{
			{Name: "a", Scope: 1, Span: span(file, 20, 21)},
		},
	}

	rec := debuginfo.NewRecorder()
	fnScope := rec.CreateFunctionScope(file, 1)
	dctx := debuginfo.FnDebugContext{Kind: debuginfo.FnDebugRegular, Scope: fnScope}

	scopes := debuginfo.CreateMirScopes(f, fset, rec, dctx)
	if scopes[3] != scopes[1] || scopes[2] != scopes[1] {
		t.Errorf("chain resolved to %v, want both empties aliased to %d", scopes[1:], scopes[1])
	}
}

// TestMirScopesDisabled: with debug info off the resolver returns an
// all-invalid table and never touches the backend.
func TestMirScopesDisabled(t *testing.T) {
	fset, file := mirEnv()
	f := &mir.Func{
		Name: "main",
		Span: span(file, 0, 60),
		Scopes: []mir.SourceScope{
			{Parent: mir.NoScopeID, Span: span(file, 0, 60)},
			{Parent: 0, Span: span(file, 12, 58)},
		},
		Locals: []mir.Local{
			{Name: "a", Scope: 1, Span: span(file, 20, 21)},
		},
	}

	rec := debuginfo.NewRecorder()
	dctx := debuginfo.FnDebugContext{Kind: debuginfo.FnDebugDisabled}

	scopes := debuginfo.CreateMirScopes(f, fset, rec, dctx)
	if len(scopes) != 2 {
		t.Fatalf("len = %d, want 2", len(scopes))
	}
	for i, ref := range scopes {
		if ref.IsValid() {
			t.Errorf("slot %d = %d, want NoScopeRef", i, ref)
		}
	}
	if rec.Len() != 0 {
		t.Errorf("backend called %d times with debug info disabled", rec.Len())
	}
}

// TestMirScopesIdempotent: resolving the same tree twice (fresh backends)
// yields identical tables.
func TestMirScopesIdempotent(t *testing.T) {
	fset, file := mirEnv()
	f := &mir.Func{
		Name: "main",
		Span: span(file, 0, 60),
		Scopes: []mir.SourceScope{
			{Parent: mir.NoScopeID, Span: span(file, 0, 60)},
			{Parent: 0, Span: span(file, 12, 58)},
			{Parent: 1, Span: span(file, 31, 55)},
			{Parent: 1, Span: span(file, 40, 50)},
		},
		Locals: []mir.Local{
			{Name: "a", Scope: 2, Span: span(file, 20, 21)},
			{Name: "b", Scope: 3, Span: span(file, 42, 43)},
		},
	}

	run := func() []debuginfo.ScopeRef {
		rec := debuginfo.NewRecorder()
		fnScope := rec.CreateFunctionScope(file, 1)
		dctx := debuginfo.FnDebugContext{Kind: debuginfo.FnDebugRegular, Scope: fnScope}
		return debuginfo.CreateMirScopes(f, fset, rec, dctx)
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d: %d vs %d", i, first[i], second[i])
		}
	}
}

