// Package testkit carries invariant checkers shared by tests. Nothing here is
// imported by production code.
package testkit

import (
	"fmt"

	"drift/internal/ast"
	"drift/internal/backend/debuginfo"
	"drift/internal/source"
	"drift/internal/symbols"
)

// CheckScopeMapCoverage independently computes the set of nodes the scope
// walk must visit for fn and verifies the map covers exactly that set: no
// missing nodes, no extras. Parameter patterns contribute their binding nodes
// only; the body contributes every reachable node.
func CheckScopeMapCoverage(b *ast.Builder, defs *symbols.DefTable, fnItem ast.ItemID, sm *debuginfo.ScopeMap) error {
	fn, ok := b.Items.Fn(fnItem)
	if !ok {
		return fmt.Errorf("item %d is not a function", fnItem)
	}

	r := &reach{
		b:     b,
		items: map[ast.ItemID]struct{}{fnItem: {}},
		stmts: make(map[ast.StmtID]struct{}),
		exprs: make(map[ast.ExprID]struct{}),
		pats:  make(map[ast.PatID]struct{}),
	}
	for _, param := range fn.Params {
		symbols.PatBindings(b, defs, param, func(id ast.PatID, _ source.StringID) {
			r.pats[id] = struct{}{}
		})
	}
	r.block(fn.Body)

	if err := sameKeys("item", len(r.items), len(sm.Items), func() error {
		for id := range r.items {
			if _, ok := sm.Items[id]; !ok {
				return fmt.Errorf("reachable item %d missing from scope map", id)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if err := sameKeys("stmt", len(r.stmts), len(sm.Stmts), func() error {
		for id := range r.stmts {
			if _, ok := sm.Stmts[id]; !ok {
				return fmt.Errorf("reachable stmt %d missing from scope map", id)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if err := sameKeys("expr", len(r.exprs), len(sm.Exprs), func() error {
		for id := range r.exprs {
			if _, ok := sm.Exprs[id]; !ok {
				return fmt.Errorf("reachable expr %d missing from scope map", id)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	return sameKeys("pat", len(r.pats), len(sm.Pats), func() error {
		for id := range r.pats {
			if _, ok := sm.Pats[id]; !ok {
				return fmt.Errorf("reachable pat %d missing from scope map", id)
			}
		}
		return nil
	})
}

func sameKeys(kind string, want, got int, missing func() error) error {
	if err := missing(); err != nil {
		return err
	}
	if want != got {
		return fmt.Errorf("scope map has %d %s entries, reachable set has %d", got, kind, want)
	}
	return nil
}

// reach replays the walk order of the scope builder without any scope
// bookkeeping, collecting reachable node IDs.
type reach struct {
	b     *ast.Builder
	items map[ast.ItemID]struct{}
	stmts map[ast.StmtID]struct{}
	exprs map[ast.ExprID]struct{}
	pats  map[ast.PatID]struct{}
}

func (r *reach) block(id ast.StmtID) {
	block, ok := r.b.Stmts.Block(id)
	if !ok {
		return
	}
	r.stmts[id] = struct{}{}
	for _, stmtID := range block.Stmts {
		r.stmt(stmtID)
	}
	if block.Tail.IsValid() {
		r.expr(block.Tail)
	}
}

func (r *reach) stmt(id ast.StmtID) {
	stmt := r.b.Stmts.Get(id)
	switch stmt.Kind {
	case ast.StmtBlock:
		r.block(id)
	case ast.StmtLet:
		r.stmts[id] = struct{}{}
		data, _ := r.b.Stmts.Let(id)
		r.pat(data.Pat)
		if data.Init.IsValid() {
			r.expr(data.Init)
		}
	case ast.StmtExpr:
		r.stmts[id] = struct{}{}
		data, _ := r.b.Stmts.Expr(id)
		r.expr(data.Expr)
	}
}

func (r *reach) expr(id ast.ExprID) {
	r.exprs[id] = struct{}{}
	switch e := r.b.Exprs; e.Get(id).Kind {
	case ast.ExprUnary:
		data, _ := e.Unary(id)
		r.expr(data.Operand)
	case ast.ExprCast:
		data, _ := e.Cast(id)
		r.expr(data.Expr)
	case ast.ExprRef:
		data, _ := e.Ref(id)
		r.expr(data.Expr)
	case ast.ExprField:
		data, _ := e.Field(id)
		r.expr(data.Expr)
	case ast.ExprReturn:
		data, _ := e.Return(id)
		if data.Value.IsValid() {
			r.expr(data.Value)
		}
	case ast.ExprBinary:
		data, _ := e.Binary(id)
		r.expr(data.Left)
		r.expr(data.Right)
	case ast.ExprAssign:
		data, _ := e.Assign(id)
		r.expr(data.Dst)
		r.expr(data.Src)
	case ast.ExprIndex:
		data, _ := e.Index(id)
		r.expr(data.Expr)
		r.expr(data.Index)
	case ast.ExprCall:
		data, _ := e.Call(id)
		r.expr(data.Callee)
		for _, arg := range data.Args {
			r.expr(arg)
		}
	case ast.ExprMethodCall:
		data, _ := e.MethodCall(id)
		r.expr(data.Recv)
		for _, arg := range data.Args {
			r.expr(arg)
		}
	case ast.ExprTuple:
		data, _ := e.Tuple(id)
		for _, el := range data.Elems {
			r.expr(el)
		}
	case ast.ExprArray:
		data, _ := e.Array(id)
		for _, el := range data.Elems {
			r.expr(el)
		}
	case ast.ExprStruct:
		data, _ := e.Struct(id)
		for _, field := range data.Fields {
			r.expr(field.Value)
		}
		if data.Base.IsValid() {
			r.expr(data.Base)
		}
	case ast.ExprIf:
		data, _ := e.If(id)
		r.expr(data.Cond)
		r.block(data.Then)
		if data.Else.IsValid() {
			r.expr(data.Else)
		}
	case ast.ExprWhile:
		data, _ := e.While(id)
		r.expr(data.Cond)
		r.block(data.Body)
	case ast.ExprLoop:
		data, _ := e.Loop(id)
		r.block(data.Body)
	case ast.ExprBlock:
		data, _ := e.Block(id)
		r.block(data.Body)
	case ast.ExprClosure:
		data, _ := e.Closure(id)
		for _, param := range data.Params {
			r.pat(param)
		}
		r.block(data.Body)
	case ast.ExprMatch:
		data, _ := e.Match(id)
		r.expr(data.Scrutinee)
		for _, arm := range data.Arms {
			for _, pat := range arm.Pats {
				r.pat(pat)
			}
			if arm.Guard.IsValid() {
				r.expr(arm.Guard)
			}
			r.expr(arm.Body)
		}
	}
}

func (r *reach) pat(id ast.PatID) {
	r.pats[id] = struct{}{}
	switch p := r.b.Pats; p.Get(id).Kind {
	case ast.PatBind:
		data, _ := p.Bind(id)
		if data.Sub.IsValid() {
			r.pat(data.Sub)
		}
	case ast.PatTuple:
		data, _ := p.Tuple(id)
		for _, sub := range data.Elems {
			r.pat(sub)
		}
	case ast.PatTupleStruct:
		data, _ := p.TupleStruct(id)
		for _, sub := range data.Elems {
			r.pat(sub)
		}
	case ast.PatStruct:
		data, _ := p.Struct(id)
		for _, field := range data.Fields {
			r.pat(field.Pat)
		}
	case ast.PatRef:
		data, _ := p.Ref(id)
		r.pat(data.Sub)
	case ast.PatLit:
		data, _ := p.Lit(id)
		r.expr(data.Expr)
	case ast.PatRange:
		data, _ := p.Range(id)
		r.expr(data.Lo)
		r.expr(data.Hi)
	case ast.PatSlice:
		data, _ := p.Slice(id)
		for _, sub := range data.Front {
			r.pat(sub)
		}
		if data.Middle.IsValid() {
			r.pat(data.Middle)
		}
		for _, sub := range data.Back {
			r.pat(sub)
		}
	}
}
