package debuginfo_test

import (
	"errors"
	"testing"

	"drift/internal/ast"
	"drift/internal/backend/debuginfo"
	"drift/internal/source"
	"drift/internal/symbols"
	"drift/internal/testkit"
)

// fnEnv bundles the collaborators one test function needs.
type fnEnv struct {
	b    *ast.Builder
	fset *source.FileSet
	in   *source.Interner
	defs *symbols.DefTable
	file source.FileID
	off  uint32
}

func newFnEnv(t *testing.T) *fnEnv {
	t.Helper()
	fset := source.NewFileSet()
	content := make([]byte, 0, 512)
	// One synthetic line per 8 bytes so spans land on distinct lines.
	for i := 0; i < 64; i++ {
		content = append(content, []byte("xxxxxxx\n")...)
	}
	file := fset.AddVirtual("test.dr", content)
	return &fnEnv{
		b:    ast.NewBuilder(ast.Hints{}),
		fset: fset,
		in:   source.NewInterner(),
		defs: symbols.NewDefTable(),
		file: file,
	}
}

// sp hands out small distinct spans in file order.
func (e *fnEnv) sp() source.Span {
	s := source.Span{File: e.file, Start: e.off, End: e.off + 4}
	e.off += 8
	return s
}

func (e *fnEnv) name(s string) source.StringID {
	return e.in.Intern(s)
}

// letStmt builds `let <name> = <lit>;` and returns (stmt, pattern).
func (e *fnEnv) letStmt(name string) (ast.StmtID, ast.PatID) {
	pat := e.b.Pats.NewBind(e.sp(), e.name(name), ast.NoPatID)
	lit := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitInt, e.name("1"))
	return e.b.Stmts.NewLet(e.sp(), pat, lit), pat
}

// useStmt builds `<name>;` and returns (stmt, identExpr).
func (e *fnEnv) useStmt(name string) (ast.StmtID, ast.ExprID) {
	use := e.b.Exprs.NewIdent(e.sp(), e.name(name))
	return e.b.Stmts.NewExpr(e.sp(), use), use
}

func (e *fnEnv) fn(name string, params []ast.PatID, stmts []ast.StmtID) ast.ItemID {
	body := e.b.Stmts.NewBlock(e.sp(), stmts, ast.NoExprID)
	return e.b.Items.NewFn(e.name(name), params, body, e.sp())
}

func (e *fnEnv) scopeMap(t *testing.T, rec *debuginfo.Recorder, fnItem ast.ItemID) (*debuginfo.ScopeMap, debuginfo.ScopeRef) {
	t.Helper()
	fnScope := rec.CreateFunctionScope(e.file, 1)
	sm, err := debuginfo.CreateScopeMap(e.b, e.fset, e.defs, rec, fnItem, fnScope)
	if err != nil {
		t.Fatalf("CreateScopeMap: %v", err)
	}
	if err := testkit.CheckScopeMapCoverage(e.b, e.defs, fnItem, sm); err != nil {
		t.Fatalf("coverage: %v", err)
	}
	return sm, fnScope
}

// TestShadowingCreatesScopeAtBinding checks that for
// `{ let x = 1; { let x = 2; x; } }` the inner use lives in a scope that is
// created at the inner binding, not at block entry.
func TestShadowingCreatesScopeAtBinding(t *testing.T) {
	e := newFnEnv(t)

	outerLet, outerPat := e.letStmt("x")
	innerLet, innerPat := e.letStmt("x")
	useStmt, useExpr := e.useStmt("x")
	innerBlock := e.b.Stmts.NewBlock(e.sp(), []ast.StmtID{innerLet, useStmt}, ast.NoExprID)
	fnItem := e.fn("main", nil, []ast.StmtID{outerLet, innerBlock})

	rec := debuginfo.NewRecorder()
	sm, fnScope := e.scopeMap(t, rec, fnItem)

	outerScope, _ := sm.Pat(outerPat)
	blockScope, _ := sm.Stmt(innerBlock)
	innerScope, _ := sm.Pat(innerPat)
	useScope, _ := sm.Expr(useExpr)

	if useScope != innerScope {
		t.Errorf("use mapped to %d, inner binding to %d; want same scope", useScope, innerScope)
	}
	if useScope == outerScope {
		t.Error("inner use shares the outer binding's scope; shadow isolation failed")
	}
	if useScope == blockScope {
		t.Error("artificial scope not created: use still attributed to the block scope")
	}
	if got := rec.Get(useScope).Parent; got != blockScope {
		t.Errorf("artificial scope parent = %d, want inner block scope %d", got, blockScope)
	}
	// The inner let statement itself still precedes the artificial scope.
	if letScope, _ := sm.Stmt(innerLet); letScope != blockScope {
		t.Errorf("inner let stmt mapped to %d, want block scope %d", letScope, blockScope)
	}
	// The outer binding reuses the body scope; no scope is created for it.
	if bodyScope, _ := sm.Stmt(outerLet); outerScope != bodyScope {
		t.Errorf("outer binding mapped to %d, want body scope %d", outerScope, bodyScope)
	}
	if outerScope == fnScope {
		t.Error("outer binding recorded against the function scope instead of the body scope")
	}
}

// TestNoShadowReusesBlockScope checks that `{ let x = 1; { let y = 2; y; } }`
// creates no extra scope for y.
func TestNoShadowReusesBlockScope(t *testing.T) {
	e := newFnEnv(t)

	outerLet, _ := e.letStmt("x")
	innerLet, innerPat := e.letStmt("y")
	useStmt, useExpr := e.useStmt("y")
	innerBlock := e.b.Stmts.NewBlock(e.sp(), []ast.StmtID{innerLet, useStmt}, ast.NoExprID)
	fnItem := e.fn("main", nil, []ast.StmtID{outerLet, innerBlock})

	rec := debuginfo.NewRecorder()
	sm, _ := e.scopeMap(t, rec, fnItem)

	blockScope, _ := sm.Stmt(innerBlock)
	if yScope, _ := sm.Pat(innerPat); yScope != blockScope {
		t.Errorf("y mapped to %d, want the block's own scope %d", yScope, blockScope)
	}
	if useScope, _ := sm.Expr(useExpr); useScope != blockScope {
		t.Errorf("use of y mapped to %d, want %d", useScope, blockScope)
	}
	// function scope + body scope + inner block scope, nothing else.
	if rec.Len() != 3 {
		t.Errorf("created %d scopes, want 3", rec.Len())
	}
}

// TestParamSeededShadowing checks that a body-local binding shadowing a
// parameter is isolated, and that parameters map to the function scope.
func TestParamSeededShadowing(t *testing.T) {
	e := newFnEnv(t)

	param := e.b.Pats.NewBind(e.sp(), e.name("x"), ast.NoPatID)
	innerLet, innerPat := e.letStmt("x")
	fnItem := e.fn("f", []ast.PatID{param}, []ast.StmtID{innerLet})

	rec := debuginfo.NewRecorder()
	sm, fnScope := e.scopeMap(t, rec, fnItem)

	if paramScope, _ := sm.Pat(param); paramScope != fnScope {
		t.Errorf("param mapped to %d, want function scope %d", paramScope, fnScope)
	}
	innerScope, _ := sm.Pat(innerPat)
	if innerScope == fnScope {
		t.Error("shadowing binding not isolated from parameter")
	}
	if rec.Get(innerScope).Kind != debuginfo.ScopeRecordLexical {
		t.Error("shadowing binding did not get a fresh lexical scope")
	}
}

// TestMatchArmIsolation checks that two arms binding the same name receive
// independent scopes and the first arm's binding is gone when the second is
// walked.
func TestMatchArmIsolation(t *testing.T) {
	e := newFnEnv(t)

	scrut := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitInt, e.name("0"))
	pat1 := e.b.Pats.NewBind(e.sp(), e.name("v"), ast.NoPatID)
	body1 := e.b.Exprs.NewIdent(e.sp(), e.name("v"))
	pat2 := e.b.Pats.NewBind(e.sp(), e.name("v"), ast.NoPatID)
	body2 := e.b.Exprs.NewIdent(e.sp(), e.name("v"))
	match := e.b.Exprs.NewMatch(e.sp(), scrut, []ast.MatchArm{
		{Pats: []ast.PatID{pat1}, Body: body1},
		{Pats: []ast.PatID{pat2}, Body: body2},
	})
	matchStmt := e.b.Stmts.NewExpr(e.sp(), match)
	fnItem := e.fn("main", nil, []ast.StmtID{matchStmt})

	rec := debuginfo.NewRecorder()
	sm, _ := e.scopeMap(t, rec, fnItem)

	arm1, _ := sm.Pat(pat1)
	arm2, _ := sm.Pat(pat2)
	if arm1 == arm2 {
		t.Error("match arms share a scope")
	}
	// Without an outer `v`, neither arm needs an artificial scope: each
	// binding reuses its arm's scope, so both parents are the match's scope.
	matchScope, _ := sm.Expr(match)
	if got := rec.Get(arm1).Parent; got != matchScope {
		t.Errorf("arm 1 scope parent = %d, want %d", got, matchScope)
	}
	if got := rec.Get(arm2).Parent; got != matchScope {
		t.Errorf("arm 2 scope parent = %d, want %d", got, matchScope)
	}
	if b1, _ := sm.Expr(body1); b1 != arm1 {
		t.Errorf("arm 1 body mapped to %d, want %d", b1, arm1)
	}
	if b2, _ := sm.Expr(body2); b2 != arm2 {
		t.Errorf("arm 2 body mapped to %d, want %d", b2, arm2)
	}
}

// TestDeepNestingCoverage drives the walker through every construct that
// opens a scope, nested inside each other, and relies on the coverage checker
// plus error-free completion to verify push/pop balance.
func TestDeepNestingCoverage(t *testing.T) {
	e := newFnEnv(t)

	// innermost: match with guard and literal pattern
	scrut := e.b.Exprs.NewIdent(e.sp(), e.name("x"))
	litExpr := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitInt, e.name("0"))
	litPat := e.b.Pats.NewLit(e.sp(), litExpr)
	guard := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitBool, e.name("true"))
	armBody := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitInt, e.name("1"))
	wildPat := e.b.Pats.NewWild(e.sp())
	elseBody := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitInt, e.name("2"))
	match := e.b.Exprs.NewMatch(e.sp(), scrut, []ast.MatchArm{
		{Pats: []ast.PatID{litPat}, Guard: guard, Body: armBody},
		{Pats: []ast.PatID{wildPat}, Body: elseBody},
	})
	matchStmt := e.b.Stmts.NewExpr(e.sp(), match)

	// loop { match ... ; break }
	brk := e.b.Exprs.NewBreak(e.sp())
	brkStmt := e.b.Stmts.NewExpr(e.sp(), brk)
	loopBody := e.b.Stmts.NewBlock(e.sp(), []ast.StmtID{matchStmt, brkStmt}, ast.NoExprID)
	loop := e.b.Exprs.NewLoop(e.sp(), loopBody)
	loopStmt := e.b.Stmts.NewExpr(e.sp(), loop)

	// while cond { loop ... }
	cond := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitBool, e.name("true"))
	whileBody := e.b.Stmts.NewBlock(e.sp(), []ast.StmtID{loopStmt}, ast.NoExprID)
	while := e.b.Exprs.NewWhile(e.sp(), cond, whileBody)
	whileStmt := e.b.Stmts.NewExpr(e.sp(), while)

	// closure |c| { while ... }
	cParam := e.b.Pats.NewBind(e.sp(), e.name("c"), ast.NoPatID)
	closureBody := e.b.Stmts.NewBlock(e.sp(), []ast.StmtID{whileStmt}, ast.NoExprID)
	closure := e.b.Exprs.NewClosure(e.sp(), []ast.PatID{cParam}, closureBody)
	closureStmt := e.b.Stmts.NewExpr(e.sp(), closure)

	// if cond { closure... } else { 3 }
	ifCond := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitBool, e.name("false"))
	thenBlock := e.b.Stmts.NewBlock(e.sp(), []ast.StmtID{closureStmt}, ast.NoExprID)
	elseLit := e.b.Exprs.NewLiteral(e.sp(), ast.ExprLitInt, e.name("3"))
	elseBlockStmt := e.b.Stmts.NewBlock(e.sp(), nil, elseLit)
	elseExpr := e.b.Exprs.NewBlock(e.sp(), elseBlockStmt)
	ifExpr := e.b.Exprs.NewIf(e.sp(), ifCond, thenBlock, elseExpr)
	ifStmt := e.b.Stmts.NewExpr(e.sp(), ifExpr)

	xLet, _ := e.letStmt("x")
	fnItem := e.fn("deep", nil, []ast.StmtID{xLet, ifStmt})

	rec := debuginfo.NewRecorder()
	sm, _ := e.scopeMap(t, rec, fnItem)

	if sm.Len() == 0 {
		t.Fatal("empty scope map")
	}
}

// TestCompositePatternBindings checks that a destructuring let records every
// sub-pattern and that shadow checks see names bound by composite patterns.
func TestCompositePatternBindings(t *testing.T) {
	e := newFnEnv(t)

	// let (a, b) = t;
	aPat := e.b.Pats.NewBind(e.sp(), e.name("a"), ast.NoPatID)
	bPat := e.b.Pats.NewBind(e.sp(), e.name("b"), ast.NoPatID)
	tuplePat := e.b.Pats.NewTuple(e.sp(), []ast.PatID{aPat, bPat})
	init := e.b.Exprs.NewIdent(e.sp(), e.name("t"))
	letTuple := e.b.Stmts.NewLet(e.sp(), tuplePat, init)

	// { let a = 1; }
	shadowLet, shadowPat := e.letStmt("a")
	inner := e.b.Stmts.NewBlock(e.sp(), []ast.StmtID{shadowLet}, ast.NoExprID)

	fnItem := e.fn("main", nil, []ast.StmtID{letTuple, inner})

	rec := debuginfo.NewRecorder()
	sm, _ := e.scopeMap(t, rec, fnItem)

	blockScope, _ := sm.Stmt(inner)
	shadowScope, _ := sm.Pat(shadowPat)
	if shadowScope == blockScope {
		t.Error("rebinding of tuple-bound name got no artificial scope")
	}

	aScope, _ := sm.Pat(aPat)
	bScope, _ := sm.Pat(bPat)
	tupleScope, _ := sm.Pat(tuplePat)
	if aScope != tupleScope || bScope != tupleScope {
		t.Errorf("tuple element scopes %d/%d differ from tuple scope %d", aScope, bScope, tupleScope)
	}
}

// TestVariantPatternIsNotBinding checks that identifier patterns resolved to
// unit variants neither push stack entries nor trigger shadow scopes.
func TestVariantPatternIsNotBinding(t *testing.T) {
	e := newFnEnv(t)

	nonePat := e.b.Pats.NewBind(e.sp(), e.name("None"), ast.NoPatID)
	e.defs.Record(nonePat, symbols.DefVariant)
	noneLet := e.b.Stmts.NewLet(e.sp(), nonePat, ast.NoExprID)

	shadowLet, shadowPat := e.letStmt("None")
	inner := e.b.Stmts.NewBlock(e.sp(), []ast.StmtID{shadowLet}, ast.NoExprID)

	fnItem := e.fn("main", nil, []ast.StmtID{noneLet, inner})

	rec := debuginfo.NewRecorder()
	sm, _ := e.scopeMap(t, rec, fnItem)

	// "None" was never a binding, so re-using the text needs no isolation.
	blockScope, _ := sm.Stmt(inner)
	if shadowScope, _ := sm.Pat(shadowPat); shadowScope != blockScope {
		t.Error("variant pattern polluted the shadow stack")
	}
}

func TestNonFunctionItem(t *testing.T) {
	e := newFnEnv(t)
	rec := debuginfo.NewRecorder()
	fnScope := rec.CreateFunctionScope(e.file, 1)
	_, err := debuginfo.CreateScopeMap(e.b, e.fset, e.defs, rec, ast.NoItemID, fnScope)
	var miss *debuginfo.MissingMirError
	if !errors.As(err, &miss) {
		t.Fatalf("err = %v, want MissingMirError", err)
	}
}
