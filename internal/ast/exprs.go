package ast

import (
	"drift/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena       *Arena[Expr]
	Idents      *Arena[ExprIdentData]
	Literals    *Arena[ExprLiteralData]
	Unaries     *Arena[ExprUnaryData]
	Binaries    *Arena[ExprBinaryData]
	Assigns     *Arena[ExprAssignData]
	Casts       *Arena[ExprCastData]
	Refs        *Arena[ExprRefData]
	Fields      *Arena[ExprFieldData]
	Indices     *Arena[ExprIndexData]
	Calls       *Arena[ExprCallData]
	MethodCalls *Arena[ExprMethodCallData]
	Tuples      *Arena[ExprTupleData]
	Arrays      *Arena[ExprArrayData]
	Structs     *Arena[ExprStructData]
	Returns     *Arena[ExprReturnData]
	Ifs         *Arena[ExprIfData]
	Whiles      *Arena[ExprWhileData]
	Loops       *Arena[ExprLoopData]
	Blocks      *Arena[ExprBlockData]
	Closures    *Arena[ExprClosureData]
	Matches     *Arena[ExprMatchData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint
// as the initial capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:       NewArena[Expr](capHint),
		Idents:      NewArena[ExprIdentData](capHint),
		Literals:    NewArena[ExprLiteralData](capHint),
		Unaries:     NewArena[ExprUnaryData](capHint),
		Binaries:    NewArena[ExprBinaryData](capHint),
		Assigns:     NewArena[ExprAssignData](capHint),
		Casts:       NewArena[ExprCastData](capHint),
		Refs:        NewArena[ExprRefData](capHint),
		Fields:      NewArena[ExprFieldData](capHint),
		Indices:     NewArena[ExprIndexData](capHint),
		Calls:       NewArena[ExprCallData](capHint),
		MethodCalls: NewArena[ExprMethodCallData](capHint),
		Tuples:      NewArena[ExprTupleData](capHint),
		Arrays:      NewArena[ExprArrayData](capHint),
		Structs:     NewArena[ExprStructData](capHint),
		Returns:     NewArena[ExprReturnData](capHint),
		Ifs:         NewArena[ExprIfData](capHint),
		Whiles:      NewArena[ExprWhileData](capHint),
		Loops:       NewArena[ExprLoopData](capHint),
		Blocks:      NewArena[ExprBlockData](capHint),
		Closures:    NewArena[ExprClosureData](capHint),
		Matches:     NewArena[ExprMatchData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, PayloadID(payload))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value})
	return e.new(ExprLit, span, PayloadID(payload))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

// NewUnary creates a new unary expression.
func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

// NewAssign creates a new assignment expression.
func (e *Exprs) NewAssign(span source.Span, dst, src ExprID) ExprID {
	payload := e.Assigns.Allocate(ExprAssignData{Dst: dst, Src: src})
	return e.new(ExprAssign, span, PayloadID(payload))
}

// NewCompoundAssign creates a new compound assignment like `a += b`.
func (e *Exprs) NewCompoundAssign(span source.Span, op ExprBinaryOp, dst, src ExprID) ExprID {
	payload := e.Assigns.Allocate(ExprAssignData{Op: op, Dst: dst, Src: src, Compound: true})
	return e.new(ExprAssign, span, PayloadID(payload))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprAssign {
		return nil, false
	}
	return e.Assigns.Get(uint32(expr.Payload)), true
}

// NewCast creates a new cast expression.
func (e *Exprs) NewCast(span source.Span, sub ExprID, typeText source.StringID) ExprID {
	payload := e.Casts.Allocate(ExprCastData{Expr: sub, Type: typeText})
	return e.new(ExprCast, span, PayloadID(payload))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(uint32(expr.Payload)), true
}

// NewRef creates a new reference-taking expression.
func (e *Exprs) NewRef(span source.Span, sub ExprID, mut bool) ExprID {
	payload := e.Refs.Allocate(ExprRefData{Expr: sub, Mut: mut})
	return e.new(ExprRef, span, PayloadID(payload))
}

func (e *Exprs) Ref(id ExprID) (*ExprRefData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprRef {
		return nil, false
	}
	return e.Refs.Get(uint32(expr.Payload)), true
}

// NewField creates a new field access expression.
func (e *Exprs) NewField(span source.Span, sub ExprID, name source.StringID) ExprID {
	payload := e.Fields.Allocate(ExprFieldData{Expr: sub, Name: name})
	return e.new(ExprField, span, PayloadID(payload))
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprField {
		return nil, false
	}
	return e.Fields.Get(uint32(expr.Payload)), true
}

// NewIndex creates a new index expression.
func (e *Exprs) NewIndex(span source.Span, sub, index ExprID) ExprID {
	payload := e.Indices.Allocate(ExprIndexData{Expr: sub, Index: index})
	return e.new(ExprIndex, span, PayloadID(payload))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}

// NewCall creates a new call expression.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: args})
	return e.new(ExprCall, span, PayloadID(payload))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewMethodCall creates a new method call expression.
func (e *Exprs) NewMethodCall(span source.Span, recv ExprID, method source.StringID, args []ExprID) ExprID {
	payload := e.MethodCalls.Allocate(ExprMethodCallData{Recv: recv, Method: method, Args: args})
	return e.new(ExprMethodCall, span, PayloadID(payload))
}

func (e *Exprs) MethodCall(id ExprID) (*ExprMethodCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMethodCall {
		return nil, false
	}
	return e.MethodCalls.Get(uint32(expr.Payload)), true
}

// NewTuple creates a new tuple expression.
func (e *Exprs) NewTuple(span source.Span, elems []ExprID) ExprID {
	payload := e.Tuples.Allocate(ExprTupleData{Elems: elems})
	return e.new(ExprTuple, span, PayloadID(payload))
}

func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprTuple {
		return nil, false
	}
	return e.Tuples.Get(uint32(expr.Payload)), true
}

// NewArray creates a new array expression.
func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	payload := e.Arrays.Allocate(ExprArrayData{Elems: elems})
	return e.new(ExprArray, span, PayloadID(payload))
}

func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArray {
		return nil, false
	}
	return e.Arrays.Get(uint32(expr.Payload)), true
}

// NewStruct creates a new struct literal expression.
func (e *Exprs) NewStruct(span source.Span, path source.StringID, fields []ExprStructFieldInit, base ExprID) ExprID {
	payload := e.Structs.Allocate(ExprStructData{Path: path, Fields: fields, Base: base})
	return e.new(ExprStruct, span, PayloadID(payload))
}

func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprStruct {
		return nil, false
	}
	return e.Structs.Get(uint32(expr.Payload)), true
}

// NewReturn creates a new return expression.
func (e *Exprs) NewReturn(span source.Span, value ExprID) ExprID {
	payload := e.Returns.Allocate(ExprReturnData{Value: value})
	return e.new(ExprReturn, span, PayloadID(payload))
}

func (e *Exprs) Return(id ExprID) (*ExprReturnData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprReturn {
		return nil, false
	}
	return e.Returns.Get(uint32(expr.Payload)), true
}

// NewBreak creates a new break expression.
func (e *Exprs) NewBreak(span source.Span) ExprID {
	return e.new(ExprBreak, span, NoPayloadID)
}

// NewContinue creates a new continue expression.
func (e *Exprs) NewContinue(span source.Span) ExprID {
	return e.new(ExprContinue, span, NoPayloadID)
}

// NewIf creates a new if expression.
func (e *Exprs) NewIf(span source.Span, cond ExprID, then StmtID, els ExprID) ExprID {
	payload := e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els})
	return e.new(ExprIf, span, PayloadID(payload))
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIf {
		return nil, false
	}
	return e.Ifs.Get(uint32(expr.Payload)), true
}

// NewWhile creates a new while expression.
func (e *Exprs) NewWhile(span source.Span, cond ExprID, body StmtID) ExprID {
	payload := e.Whiles.Allocate(ExprWhileData{Cond: cond, Body: body})
	return e.new(ExprWhile, span, PayloadID(payload))
}

func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprWhile {
		return nil, false
	}
	return e.Whiles.Get(uint32(expr.Payload)), true
}

// NewLoop creates a new infinite loop expression.
func (e *Exprs) NewLoop(span source.Span, body StmtID) ExprID {
	payload := e.Loops.Allocate(ExprLoopData{Body: body})
	return e.new(ExprLoop, span, PayloadID(payload))
}

func (e *Exprs) Loop(id ExprID) (*ExprLoopData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLoop {
		return nil, false
	}
	return e.Loops.Get(uint32(expr.Payload)), true
}

// NewBlock creates a new block expression.
func (e *Exprs) NewBlock(span source.Span, body StmtID) ExprID {
	payload := e.Blocks.Allocate(ExprBlockData{Body: body})
	return e.new(ExprBlock, span, PayloadID(payload))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBlock {
		return nil, false
	}
	return e.Blocks.Get(uint32(expr.Payload)), true
}

// NewClosure creates a new closure expression.
func (e *Exprs) NewClosure(span source.Span, params []PatID, body StmtID) ExprID {
	payload := e.Closures.Allocate(ExprClosureData{Params: params, Body: body})
	return e.new(ExprClosure, span, PayloadID(payload))
}

func (e *Exprs) Closure(id ExprID) (*ExprClosureData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprClosure {
		return nil, false
	}
	return e.Closures.Get(uint32(expr.Payload)), true
}

// NewMatch creates a new match expression.
func (e *Exprs) NewMatch(span source.Span, scrut ExprID, arms []MatchArm) ExprID {
	payload := e.Matches.Allocate(ExprMatchData{Scrutinee: scrut, Arms: arms})
	return e.new(ExprMatch, span, PayloadID(payload))
}

func (e *Exprs) Match(id ExprID) (*ExprMatchData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMatch {
		return nil, false
	}
	return e.Matches.Get(uint32(expr.Payload)), true
}
