package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"drift/internal/ast"
	"drift/internal/diag"
	"drift/internal/fixture"
	"drift/internal/mir"
	"drift/internal/project"
	"drift/internal/source"
	"drift/internal/symbols"
)

const testFixture = `{
	"name": "simple",
	"source": "fn main() {\n    let x = 1;\n}\n",
	"fn": {
		"name": "main",
		"span": [0, 27],
		"body": {
			"kind": "block", "span": [10, 27],
			"stmts": [
				{"kind": "let", "span": [16, 26],
					"pat": {"kind": "bind", "span": [20, 21], "name": "x"},
					"init": {"kind": "lit", "span": [24, 25], "value": "1"}}
			]
		}
	},
	"mir": {
		"scopes": [
			{"parent": -1, "span": [0, 27]},
			{"parent": 0, "span": [10, 27]}
		],
		"locals": [{"name": "x", "scope": 1, "span": [20, 21]}]
	}
}`

const badFixture = `{"name": "broken", "source": "", "fn": {"span": [0, 0], "body": {"kind": "block", "span": [0, 0]}}}`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "simple.scopes.json", testFixture)

	fset := source.NewFileSet()
	res, err := ResolveFile(context.Background(), fset, path, ResolveOptions{})
	if err != nil {
		t.Fatalf("ResolveFile: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Bag.Items())
	}
	if res.ScopeMap == nil || res.ScopeMap.Len() == 0 {
		t.Error("no scope map produced")
	}
	if len(res.MirTable) != 2 {
		t.Fatalf("mir table length %d, want 2", len(res.MirTable))
	}
	for i, ref := range res.MirTable {
		if !ref.IsValid() {
			t.Errorf("mir scope %d unresolved", i)
		}
	}
	if res.Timing == nil || len(res.Timing.Phases) == 0 {
		t.Error("no timing report")
	}
}

func TestResolveFileDebugNone(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "simple.scopes.json", testFixture)

	fset := source.NewFileSet()
	res, err := ResolveFile(context.Background(), fset, path, ResolveOptions{
		DebugLevel: project.DebugNone,
	})
	if err != nil {
		t.Fatalf("ResolveFile: %v", err)
	}
	if res.Recorder.Len() != 0 {
		t.Errorf("backend called %d times with debug info off", res.Recorder.Len())
	}
	for i, ref := range res.MirTable {
		if ref.IsValid() {
			t.Errorf("mir scope %d resolved with debug info off", i)
		}
	}
}

func TestResolveDirDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "b.scopes.json", testFixture)
	writeFixture(t, dir, "a.scopes.json", testFixture)
	writeFixture(t, dir, "c.scopes.json", testFixture)

	_, results, err := ResolveDir(context.Background(), dir, ResolveOptions{Jobs: 3})
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := filepath.Base(results[i].Path); got != want+".scopes.json" {
			t.Errorf("result %d = %q, want %s", i, got, want)
		}
	}
}

func TestResolveDirBadFixture(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "bad.scopes.json", badFixture)
	writeFixture(t, dir, "good.scopes.json", testFixture)

	_, results, err := ResolveDir(context.Background(), dir, ResolveOptions{})
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].Bag.HasErrors() {
		t.Error("bad fixture produced no error")
	}
	if results[1].Bag.HasErrors() {
		t.Errorf("good fixture failed: %v", results[1].Bag.Items())
	}
}

func TestResolveDirObserver(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "simple.scopes.json", testFixture)

	var mu sync.Mutex
	var phases []string
	obs := func(ev PhaseEvent) {
		if ev.Status != PhaseStart {
			return
		}
		mu.Lock()
		phases = append(phases, ev.Phase)
		mu.Unlock()
	}

	_, _, err := ResolveDir(context.Background(), dir, ResolveOptions{Observer: obs})
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}

	seen := map[string]bool{}
	for _, p := range phases {
		seen[p] = true
	}
	for _, want := range []string{"load", "walk", "resolve"} {
		if !seen[want] {
			t.Errorf("phase %q never observed (got %v)", want, phases)
		}
	}
}

func TestTimingsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "simple.scopes.json", testFixture)

	fset := source.NewFileSet()
	res, err := ResolveFile(context.Background(), fset, path, ResolveOptions{Timings: true})
	if err != nil {
		t.Fatalf("ResolveFile: %v", err)
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			found = true
		}
	}
	if !found {
		t.Error("no timings diagnostic in bag")
	}
}

func TestWalkFaultSkipsMirResolve(t *testing.T) {
	fset := source.NewFileSet()
	fileID := fset.AddVirtual("broken.dr", []byte("fn broken() {}\n"))
	fnSpan := source.Span{File: fileID, Start: 0, End: 14}

	// Функция без тела: обход падает с ошибкой согласованности.
	b := ast.NewBuilder(ast.Hints{})
	interner := source.NewInterner()
	fnID := b.Items.NewFn(interner.Intern("broken"), nil, ast.StmtID(0), fnSpan)

	fx := &fixture.Fixture{
		Name:     "broken",
		File:     fileID,
		Fn:       fnID,
		Builder:  b,
		Interner: interner,
		Defs:     symbols.NewDefTable(),
		Mir: &mir.Func{
			Name: "broken",
			Span: fnSpan,
			Scopes: []mir.SourceScope{
				{Parent: mir.NoScopeID, Span: fnSpan},
				{Parent: 0, Span: source.Span{File: fileID, Start: 12, End: 14}},
			},
		},
	}

	res := ResolveFixture(context.Background(), fset, fx, ResolveOptions{}, nil, nil)

	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.DbgScopeInconsistency {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a scope inconsistency diagnostic, got %v", res.Bag.Items())
	}
	if res.ScopeMap != nil {
		t.Error("scope map kept after a failed walk")
	}
	if len(res.MirTable) != 0 {
		t.Errorf("lowered scopes resolved after a failed walk: %v", res.MirTable)
	}
}
