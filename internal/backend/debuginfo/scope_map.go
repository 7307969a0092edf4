package debuginfo

import (
	"drift/internal/ast"
	"drift/internal/source"
	"drift/internal/symbols"
)

// CreateScopeMap builds the scope map for one function: every AST node
// reachable from the function body in execution order is assigned the lexical
// debug scope that should contain it.
//
// The walk keeps an explicit scope stack, creating child scopes for blocks
// along the way and inserting artificial scopes where a binding shadows a
// same-named one. Debug formats carry no "not valid before this point" marker
// on variable records, so without the artificial scope a debugger would
// resolve the inner name before its initializer has run.
func CreateScopeMap(b *ast.Builder, fset *source.FileSet, defs *symbols.DefTable,
	dib Builder, fnItem ast.ItemID, fnScope ScopeRef) (*ScopeMap, error) {

	fn, ok := b.Items.Fn(fnItem)
	if !ok {
		return nil, &MissingMirError{Func: "item is not a function"}
	}

	w := &scopeWalker{
		b:    b,
		fset: fset,
		defs: defs,
		dib:  dib,
		out:  NewScopeMap(),
	}
	w.stack = append(w.stack, scopeStackEntry{ref: fnScope})
	w.out.Items[fnItem] = fnScope

	// Arguments are seeded against the function scope so that name lookups
	// against parameters work before any nested scope opens, and so later
	// bindings of the same name are detected as shadowing.
	for _, param := range fn.Params {
		symbols.PatBindings(b, defs, param, func(id ast.PatID, name source.StringID) {
			w.stack = append(w.stack, scopeStackEntry{ref: fnScope, name: name})
			w.out.Pats[id] = fnScope
		})
	}

	// Clang creates a separate scope for function bodies; do the same.
	body := b.Stmts.Get(fn.Body)
	if body == nil {
		return nil, &InconsistencyError{Span: fn.Span}
	}
	err := w.withNewScope(body.Span, func() error {
		return w.walkBlock(fn.Body)
	})
	if err != nil {
		return nil, err
	}
	return w.out, nil
}

type scopeStackEntry struct {
	ref ScopeRef
	// name is set only for entries that track a binding (arguments and
	// shadow entries); such entries belong to the scope being walked and are
	// popped with it.
	name source.StringID
}

type scopeWalker struct {
	b     *ast.Builder
	fset  *source.FileSet
	defs  *symbols.DefTable
	dib   Builder
	stack []scopeStackEntry
	out   *ScopeMap
}

func (w *scopeWalker) top() ScopeRef {
	return w.stack[len(w.stack)-1].ref
}

// withNewScope opens a child scope covering span, runs inner in it, and
// closes it, discarding any named entries the inner walk pushed.
func (w *scopeWalker) withNewScope(span source.Span, inner func() error) error {
	loc, _ := w.fset.Resolve(span)
	created := w.dib.CreateLexicalScope(w.top(), span.File, loc.Line, loc.Col)
	w.stack = append(w.stack, scopeStackEntry{ref: created})

	if err := inner(); err != nil {
		return err
	}

	// Pop artificial scope entries bound inside the scope being closed.
	for len(w.stack) > 0 && w.stack[len(w.stack)-1].name.IsValid() {
		w.stack = w.stack[:len(w.stack)-1]
	}

	if len(w.stack) == 0 || w.stack[len(w.stack)-1].ref != created {
		return &InconsistencyError{Span: span}
	}
	w.stack = w.stack[:len(w.stack)-1]
	return nil
}

func (w *scopeWalker) walkBlock(id ast.StmtID) error {
	block, ok := w.b.Stmts.Block(id)
	if !ok {
		return &InconsistencyError{Span: w.b.Stmts.Get(id).Span}
	}
	w.out.Stmts[id] = w.top()

	for _, stmtID := range block.Stmts {
		if err := w.walkStmt(stmtID); err != nil {
			return err
		}
	}

	if block.Tail.IsValid() {
		return w.walkExpr(block.Tail)
	}
	return nil
}

func (w *scopeWalker) walkStmt(id ast.StmtID) error {
	stmt := w.b.Stmts.Get(id)
	switch stmt.Kind {
	case ast.StmtLet:
		w.out.Stmts[id] = w.top()
		data, _ := w.b.Stmts.Let(id)
		if err := w.walkPattern(data.Pat); err != nil {
			return err
		}
		if data.Init.IsValid() {
			return w.walkExpr(data.Init)
		}
		return nil
	case ast.StmtExpr:
		w.out.Stmts[id] = w.top()
		data, _ := w.b.Stmts.Expr(id)
		return w.walkExpr(data.Expr)
	case ast.StmtBlock:
		// Bare block in statement position opens its own scope.
		return w.withNewScope(stmt.Span, func() error {
			return w.walkBlock(id)
		})
	}
	return &InconsistencyError{Span: stmt.Span}
}

func (w *scopeWalker) walkExpr(id ast.ExprID) error {
	expr := w.b.Exprs.Get(id)
	w.out.Exprs[id] = w.top()

	switch expr.Kind {
	case ast.ExprIdent, ast.ExprLit, ast.ExprBreak, ast.ExprContinue:
		return nil

	case ast.ExprUnary:
		data, _ := w.b.Exprs.Unary(id)
		return w.walkExpr(data.Operand)

	case ast.ExprCast:
		data, _ := w.b.Exprs.Cast(id)
		return w.walkExpr(data.Expr)

	case ast.ExprRef:
		data, _ := w.b.Exprs.Ref(id)
		return w.walkExpr(data.Expr)

	case ast.ExprField:
		data, _ := w.b.Exprs.Field(id)
		return w.walkExpr(data.Expr)

	case ast.ExprReturn:
		data, _ := w.b.Exprs.Return(id)
		if data.Value.IsValid() {
			return w.walkExpr(data.Value)
		}
		return nil

	case ast.ExprBinary:
		data, _ := w.b.Exprs.Binary(id)
		if err := w.walkExpr(data.Left); err != nil {
			return err
		}
		return w.walkExpr(data.Right)

	case ast.ExprAssign:
		data, _ := w.b.Exprs.Assign(id)
		if err := w.walkExpr(data.Dst); err != nil {
			return err
		}
		return w.walkExpr(data.Src)

	case ast.ExprIndex:
		data, _ := w.b.Exprs.Index(id)
		if err := w.walkExpr(data.Expr); err != nil {
			return err
		}
		return w.walkExpr(data.Index)

	case ast.ExprCall:
		data, _ := w.b.Exprs.Call(id)
		if err := w.walkExpr(data.Callee); err != nil {
			return err
		}
		return w.walkExprs(data.Args)

	case ast.ExprMethodCall:
		data, _ := w.b.Exprs.MethodCall(id)
		if err := w.walkExpr(data.Recv); err != nil {
			return err
		}
		return w.walkExprs(data.Args)

	case ast.ExprTuple:
		data, _ := w.b.Exprs.Tuple(id)
		return w.walkExprs(data.Elems)

	case ast.ExprArray:
		data, _ := w.b.Exprs.Array(id)
		return w.walkExprs(data.Elems)

	case ast.ExprStruct:
		data, _ := w.b.Exprs.Struct(id)
		for _, field := range data.Fields {
			if err := w.walkExpr(field.Value); err != nil {
				return err
			}
		}
		if data.Base.IsValid() {
			return w.walkExpr(data.Base)
		}
		return nil

	case ast.ExprIf:
		data, _ := w.b.Exprs.If(id)
		if err := w.walkExpr(data.Cond); err != nil {
			return err
		}
		thenSpan := w.b.Stmts.Get(data.Then).Span
		err := w.withNewScope(thenSpan, func() error {
			return w.walkBlock(data.Then)
		})
		if err != nil {
			return err
		}
		if data.Else.IsValid() {
			return w.walkExpr(data.Else)
		}
		return nil

	case ast.ExprWhile:
		data, _ := w.b.Exprs.While(id)
		if err := w.walkExpr(data.Cond); err != nil {
			return err
		}
		bodySpan := w.b.Stmts.Get(data.Body).Span
		return w.withNewScope(bodySpan, func() error {
			return w.walkBlock(data.Body)
		})

	case ast.ExprLoop:
		data, _ := w.b.Exprs.Loop(id)
		bodySpan := w.b.Stmts.Get(data.Body).Span
		return w.withNewScope(bodySpan, func() error {
			return w.walkBlock(data.Body)
		})

	case ast.ExprBlock:
		data, _ := w.b.Exprs.Block(id)
		bodySpan := w.b.Stmts.Get(data.Body).Span
		return w.withNewScope(bodySpan, func() error {
			return w.walkBlock(data.Body)
		})

	case ast.ExprClosure:
		data, _ := w.b.Exprs.Closure(id)
		bodySpan := w.b.Stmts.Get(data.Body).Span
		return w.withNewScope(bodySpan, func() error {
			for _, param := range data.Params {
				if err := w.walkPattern(param); err != nil {
					return err
				}
			}
			return w.walkBlock(data.Body)
		})

	case ast.ExprMatch:
		data, _ := w.b.Exprs.Match(id)
		if err := w.walkExpr(data.Scrutinee); err != nil {
			return err
		}
		// Each arm gets its own scope: arms may rebind the same names, and a
		// name bound in one arm must not leak into the next. Walking the
		// patterns first lets them introduce artificial scopes covering the
		// guard and the arm body.
		for _, arm := range data.Arms {
			armSpan := w.b.Pats.Get(arm.Pats[0]).Span
			err := w.withNewScope(armSpan, func() error {
				for _, pat := range arm.Pats {
					if err := w.walkPattern(pat); err != nil {
						return err
					}
				}
				if arm.Guard.IsValid() {
					if err := w.walkExpr(arm.Guard); err != nil {
						return err
					}
				}
				return w.walkExpr(arm.Body)
			})
			if err != nil {
				return err
			}
		}
		return nil
	}
	return &InconsistencyError{Span: expr.Span}
}

func (w *scopeWalker) walkExprs(ids []ast.ExprID) error {
	for _, id := range ids {
		if err := w.walkExpr(id); err != nil {
			return err
		}
	}
	return nil
}

func (w *scopeWalker) walkPattern(id ast.PatID) error {
	pat := w.b.Pats.Get(id)

	switch pat.Kind {
	case ast.PatBind:
		data, _ := w.b.Pats.Bind(id)
		if w.defs.IsBinding(id) {
			w.pushBinding(pat.Span, data.Name)
		}
		// Recorded after the push so the binding is attributed to the
		// artificial scope when one was created.
		w.out.Pats[id] = w.top()
		if data.Sub.IsValid() {
			return w.walkPattern(data.Sub)
		}
		return nil

	case ast.PatWild, ast.PatPath:
		w.out.Pats[id] = w.top()
		return nil

	case ast.PatTuple:
		w.out.Pats[id] = w.top()
		data, _ := w.b.Pats.Tuple(id)
		return w.walkPatterns(data.Elems)

	case ast.PatTupleStruct:
		w.out.Pats[id] = w.top()
		data, _ := w.b.Pats.TupleStruct(id)
		return w.walkPatterns(data.Elems)

	case ast.PatStruct:
		w.out.Pats[id] = w.top()
		data, _ := w.b.Pats.Struct(id)
		for _, field := range data.Fields {
			if err := w.walkPattern(field.Pat); err != nil {
				return err
			}
		}
		return nil

	case ast.PatRef:
		w.out.Pats[id] = w.top()
		data, _ := w.b.Pats.Ref(id)
		return w.walkPattern(data.Sub)

	case ast.PatLit:
		w.out.Pats[id] = w.top()
		data, _ := w.b.Pats.Lit(id)
		return w.walkExpr(data.Expr)

	case ast.PatRange:
		w.out.Pats[id] = w.top()
		data, _ := w.b.Pats.Range(id)
		if err := w.walkExpr(data.Lo); err != nil {
			return err
		}
		return w.walkExpr(data.Hi)

	case ast.PatSlice:
		w.out.Pats[id] = w.top()
		data, _ := w.b.Pats.Slice(id)
		if err := w.walkPatterns(data.Front); err != nil {
			return err
		}
		if data.Middle.IsValid() {
			if err := w.walkPattern(data.Middle); err != nil {
				return err
			}
		}
		return w.walkPatterns(data.Back)
	}
	return &InconsistencyError{Span: pat.Span}
}

func (w *scopeWalker) walkPatterns(ids []ast.PatID) error {
	for _, id := range ids {
		if err := w.walkPattern(id); err != nil {
			return err
		}
	}
	return nil
}

// pushBinding makes name discoverable on the stack. When the name shadows a
// binding anywhere up the stack a real child scope is opened at the binding,
// so the debugger stops seeing the outer variable from this point on. The
// comparison is textual on purpose: the debugger knows nothing about name
// hygiene, any two same-named variables trigger the problem.
func (w *scopeWalker) pushBinding(span source.Span, name source.StringID) {
	needNewScope := false
	for i := range w.stack {
		if w.stack[i].name == name {
			needNewScope = true
			break
		}
	}

	if needNewScope {
		loc, _ := w.fset.Resolve(span)
		created := w.dib.CreateLexicalScope(w.top(), span.File, loc.Line, loc.Col)
		w.stack = append(w.stack, scopeStackEntry{ref: created, name: name})
		return
	}

	// No collision: reuse the current scope, no backend object needed.
	w.stack = append(w.stack, scopeStackEntry{ref: w.top(), name: name})
}
