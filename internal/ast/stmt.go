package ast

import (
	"drift/internal/source"
)

// StmtKind enumerates the statement forms that can appear in a block.
type StmtKind uint8

const (
	// StmtBlock is a braced statement list with an optional tail expression.
	StmtBlock StmtKind = iota
	// StmtLet is a local binding: `let PAT = EXPR;`.
	StmtLet
	// StmtExpr is an expression evaluated for effect.
	StmtExpr
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// StmtBlockData holds the statements of a block and its optional tail
// expression (the block's value).
type StmtBlockData struct {
	Stmts []StmtID
	Tail  ExprID // NoExprID if the block has no trailing expression
}

// StmtLetData is a local declaration. Init is NoExprID for `let x;`.
type StmtLetData struct {
	Pat  PatID
	Init ExprID
}

type StmtExprData struct {
	Expr ExprID
}

// Stmts manages allocation of statements.
type Stmts struct {
	Arena  *Arena[Stmt]
	Blocks *Arena[StmtBlockData]
	Lets   *Arena[StmtLetData]
	Exprs  *Arena[StmtExprData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:  NewArena[Stmt](capHint),
		Blocks: NewArena[StmtBlockData](capHint),
		Lets:   NewArena[StmtLetData](capHint),
		Exprs:  NewArena[StmtExprData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// NewBlock creates a new block statement.
func (s *Stmts) NewBlock(span source.Span, stmts []StmtID, tail ExprID) StmtID {
	payload := s.Blocks.Allocate(StmtBlockData{Stmts: stmts, Tail: tail})
	return s.new(StmtBlock, span, PayloadID(payload))
}

// Block returns the block data for the given statement ID.
func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtBlock {
		return nil, false
	}
	return s.Blocks.Get(uint32(stmt.Payload)), true
}

// NewLet creates a new let statement.
func (s *Stmts) NewLet(span source.Span, pat PatID, init ExprID) StmtID {
	payload := s.Lets.Allocate(StmtLetData{Pat: pat, Init: init})
	return s.new(StmtLet, span, PayloadID(payload))
}

// Let returns the let data for the given statement ID.
func (s *Stmts) Let(id StmtID) (*StmtLetData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(stmt.Payload)), true
}

// NewExpr creates a new expression statement.
func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

// Expr returns the expression-statement data for the given statement ID.
func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(stmt.Payload)), true
}
