package ast

import (
	"drift/internal/source"
)

type ExprIdentData struct {
	Name source.StringID
}

type ExprLiteralData struct {
	Kind  ExprLitKind
	Value source.StringID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

// ExprAssignData covers both `a = b` and compound forms like `a += b`.
type ExprAssignData struct {
	Op  ExprBinaryOp // meaningful only when Compound is set
	Dst ExprID
	Src ExprID

	Compound bool
}

type ExprCastData struct {
	Expr ExprID
	Type source.StringID // target type text; not walked
}

type ExprRefData struct {
	Expr ExprID
	Mut  bool
}

type ExprFieldData struct {
	Expr ExprID
	Name source.StringID
}

type ExprIndexData struct {
	Expr  ExprID
	Index ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

// ExprMethodCallData: the receiver is evaluated first, then the arguments.
type ExprMethodCallData struct {
	Recv   ExprID
	Method source.StringID
	Args   []ExprID
}

type ExprTupleData struct {
	Elems []ExprID
}

type ExprArrayData struct {
	Elems []ExprID
}

// ExprStructFieldInit is one `name: value` entry of a struct literal.
type ExprStructFieldInit struct {
	Name  source.StringID
	Value ExprID
}

type ExprStructData struct {
	Path   source.StringID
	Fields []ExprStructFieldInit
	Base   ExprID // NoExprID if there is no `..base`
}

type ExprReturnData struct {
	Value ExprID // NoExprID for a bare `return`
}

type ExprIfData struct {
	Cond ExprID
	Then StmtID // always a StmtBlock
	Else ExprID // NoExprID, an ExprBlock, or a chained ExprIf
}

type ExprWhileData struct {
	Cond ExprID
	Body StmtID // always a StmtBlock
}

type ExprLoopData struct {
	Body StmtID // always a StmtBlock
}

type ExprBlockData struct {
	Body StmtID // always a StmtBlock
}

type ExprClosureData struct {
	Params []PatID
	Body   StmtID // always a StmtBlock
}

// MatchArm: all patterns of one arm bind the same set of names.
type MatchArm struct {
	Pats  []PatID
	Guard ExprID // NoExprID if absent
	Body  ExprID
}

type ExprMatchData struct {
	Scrutinee ExprID
	Arms      []MatchArm
}
