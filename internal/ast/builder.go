package ast

// Hints carries capacity hints for the arenas of one parsed function or file.
type Hints struct{ Items, Stmts, Exprs, Pats uint }

// Builder owns all AST arenas for one compilation unit.
type Builder struct {
	Items *Items
	Stmts *Stmts
	Exprs *Exprs
	Pats  *Pats
}

func NewBuilder(hints Hints) *Builder {
	if hints.Items == 0 {
		hints.Items = 1 << 4
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Pats == 0 {
		hints.Pats = 1 << 7
	}
	return &Builder{
		Items: NewItems(hints.Items),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
		Pats:  NewPats(hints.Pats),
	}
}
