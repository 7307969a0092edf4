package fixture

import (
	"fmt"

	"drift/internal/ast"
	"drift/internal/source"
	"drift/internal/symbols"
)

type decoder struct {
	builder  *ast.Builder
	interner *source.Interner
	defs     *symbols.DefTable
	file     source.FileID
}

func (d *decoder) span(s SpanJSON) source.Span {
	return source.Span{File: d.file, Start: s[0], End: s[1]}
}

func (d *decoder) stmt(n *StmtJSON) (ast.StmtID, error) {
	span := d.span(n.Span)
	switch n.Kind {
	case "block":
		stmts := make([]ast.StmtID, 0, len(n.Stmts))
		for i := range n.Stmts {
			id, err := d.stmt(&n.Stmts[i])
			if err != nil {
				return ast.NoStmtID, err
			}
			stmts = append(stmts, id)
		}
		tail, err := d.optExpr(n.Tail)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.Stmts.NewBlock(span, stmts, tail), nil
	case "let":
		if n.Pat == nil {
			return ast.NoStmtID, fmt.Errorf("fixture: let without pat at %d..%d", n.Span[0], n.Span[1])
		}
		pat, err := d.pat(n.Pat)
		if err != nil {
			return ast.NoStmtID, err
		}
		init, err := d.optExpr(n.Init)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.Stmts.NewLet(span, pat, init), nil
	case "expr":
		if n.Expr == nil {
			return ast.NoStmtID, fmt.Errorf("fixture: expr statement without expr at %d..%d", n.Span[0], n.Span[1])
		}
		expr, err := d.expr(n.Expr)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.Stmts.NewExpr(span, expr), nil
	default:
		return ast.NoStmtID, fmt.Errorf("fixture: unknown stmt kind %q", n.Kind)
	}
}

func (d *decoder) optExpr(n *ExprJSON) (ast.ExprID, error) {
	if n == nil {
		return ast.NoExprID, nil
	}
	return d.expr(n)
}

func (d *decoder) optStmt(n *StmtJSON, what string) (ast.StmtID, error) {
	if n == nil {
		return ast.NoStmtID, fmt.Errorf("fixture: %s is missing", what)
	}
	return d.stmt(n)
}

func (d *decoder) expr(n *ExprJSON) (ast.ExprID, error) {
	if n == nil {
		return ast.NoExprID, fmt.Errorf("fixture: missing expr node")
	}
	span := d.span(n.Span)
	switch n.Kind {
	case "ident":
		return d.builder.Exprs.NewIdent(span, d.interner.Intern(n.Name)), nil
	case "lit":
		kind, err := litKind(n.Lit)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewLiteral(span, kind, d.interner.Intern(n.Value)), nil
	case "unary":
		op, err := unaryOp(n.Op)
		if err != nil {
			return ast.NoExprID, err
		}
		sub, err := d.expr(n.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewUnary(span, op, sub), nil
	case "binary":
		op, err := binaryOp(n.Op)
		if err != nil {
			return ast.NoExprID, err
		}
		left, err := d.expr(n.Left)
		if err != nil {
			return ast.NoExprID, err
		}
		right, err := d.expr(n.Right)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewBinary(span, op, left, right), nil
	case "assign":
		dst, err := d.expr(n.Dst)
		if err != nil {
			return ast.NoExprID, err
		}
		src, err := d.expr(n.Src)
		if err != nil {
			return ast.NoExprID, err
		}
		if n.Op != "" {
			op, err := binaryOp(n.Op)
			if err != nil {
				return ast.NoExprID, err
			}
			return d.builder.Exprs.NewCompoundAssign(span, op, dst, src), nil
		}
		return d.builder.Exprs.NewAssign(span, dst, src), nil
	case "cast":
		sub, err := d.expr(n.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewCast(span, sub, d.interner.Intern(n.Type)), nil
	case "ref":
		sub, err := d.expr(n.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewRef(span, sub, n.Mut), nil
	case "field":
		sub, err := d.expr(n.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewField(span, sub, d.interner.Intern(n.Name)), nil
	case "index":
		sub, err := d.expr(n.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		index, err := d.expr(n.Index)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewIndex(span, sub, index), nil
	case "call":
		callee, err := d.expr(n.Callee)
		if err != nil {
			return ast.NoExprID, err
		}
		args, err := d.exprList(n.Args)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewCall(span, callee, args), nil
	case "method_call":
		recv, err := d.expr(n.Recv)
		if err != nil {
			return ast.NoExprID, err
		}
		args, err := d.exprList(n.Args)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewMethodCall(span, recv, d.interner.Intern(n.Name), args), nil
	case "tuple":
		elems, err := d.exprList(n.Elems)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewTuple(span, elems), nil
	case "array":
		elems, err := d.exprList(n.Elems)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewArray(span, elems), nil
	case "return":
		value, err := d.optExpr(n.Expr)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewReturn(span, value), nil
	case "break":
		return d.builder.Exprs.NewBreak(span), nil
	case "continue":
		return d.builder.Exprs.NewContinue(span), nil
	case "if":
		cond, err := d.expr(n.Cond)
		if err != nil {
			return ast.NoExprID, err
		}
		then, err := d.optStmt(n.Then, "if then-block")
		if err != nil {
			return ast.NoExprID, err
		}
		els, err := d.optExpr(n.Else)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewIf(span, cond, then, els), nil
	case "while":
		cond, err := d.expr(n.Cond)
		if err != nil {
			return ast.NoExprID, err
		}
		body, err := d.optStmt(n.Body, "while body")
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewWhile(span, cond, body), nil
	case "loop":
		body, err := d.optStmt(n.Body, "loop body")
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewLoop(span, body), nil
	case "block":
		body, err := d.optStmt(n.Body, "block body")
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewBlock(span, body), nil
	case "closure":
		params := make([]ast.PatID, 0, len(n.Params))
		for i := range n.Params {
			pat, err := d.pat(&n.Params[i])
			if err != nil {
				return ast.NoExprID, err
			}
			params = append(params, pat)
		}
		body, err := d.optStmt(n.Body, "closure body")
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.Exprs.NewClosure(span, params, body), nil
	case "match":
		scrut, err := d.expr(n.Scrutinee)
		if err != nil {
			return ast.NoExprID, err
		}
		arms := make([]ast.MatchArm, 0, len(n.Arms))
		for i := range n.Arms {
			arm, err := d.arm(&n.Arms[i])
			if err != nil {
				return ast.NoExprID, err
			}
			arms = append(arms, arm)
		}
		return d.builder.Exprs.NewMatch(span, scrut, arms), nil
	default:
		return ast.NoExprID, fmt.Errorf("fixture: unknown expr kind %q", n.Kind)
	}
}

func (d *decoder) exprList(nodes []ExprJSON) ([]ast.ExprID, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]ast.ExprID, 0, len(nodes))
	for i := range nodes {
		id, err := d.expr(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) arm(n *ArmJSON) (ast.MatchArm, error) {
	if len(n.Pats) == 0 {
		return ast.MatchArm{}, fmt.Errorf("fixture: match arm without patterns")
	}
	pats := make([]ast.PatID, 0, len(n.Pats))
	for i := range n.Pats {
		pat, err := d.pat(&n.Pats[i])
		if err != nil {
			return ast.MatchArm{}, err
		}
		pats = append(pats, pat)
	}
	guard, err := d.optExpr(n.Guard)
	if err != nil {
		return ast.MatchArm{}, err
	}
	body, err := d.expr(&n.Body)
	if err != nil {
		return ast.MatchArm{}, err
	}
	return ast.MatchArm{Pats: pats, Guard: guard, Body: body}, nil
}

func (d *decoder) pat(n *PatJSON) (ast.PatID, error) {
	if n == nil {
		return ast.NoPatID, fmt.Errorf("fixture: missing pat node")
	}
	span := d.span(n.Span)
	switch n.Kind {
	case "bind":
		sub := ast.NoPatID
		if n.Sub != nil {
			id, err := d.pat(n.Sub)
			if err != nil {
				return ast.NoPatID, err
			}
			sub = id
		}
		id := d.builder.Pats.NewBind(span, d.interner.Intern(n.Name), sub)
		if err := d.recordDef(id, n.Def); err != nil {
			return ast.NoPatID, err
		}
		return id, nil
	case "wild":
		return d.builder.Pats.NewWild(span), nil
	case "path":
		return d.builder.Pats.NewPath(span, d.interner.Intern(n.Path)), nil
	case "tuple":
		elems, err := d.patList(n.Elems)
		if err != nil {
			return ast.NoPatID, err
		}
		return d.builder.Pats.NewTuple(span, elems), nil
	case "tuple_struct":
		elems, err := d.patList(n.Elems)
		if err != nil {
			return ast.NoPatID, err
		}
		return d.builder.Pats.NewTupleStruct(span, d.interner.Intern(n.Path), elems), nil
	case "struct":
		fields := make([]ast.PatFieldData, 0, len(n.Fields))
		for i := range n.Fields {
			pat, err := d.pat(&n.Fields[i].Pat)
			if err != nil {
				return ast.NoPatID, err
			}
			fields = append(fields, ast.PatFieldData{
				Name: d.interner.Intern(n.Fields[i].Name),
				Pat:  pat,
			})
		}
		return d.builder.Pats.NewStruct(span, d.interner.Intern(n.Path), fields), nil
	case "ref":
		sub, err := d.pat(n.Sub)
		if err != nil {
			return ast.NoPatID, err
		}
		return d.builder.Pats.NewRef(span, sub, n.Mut), nil
	case "lit":
		expr, err := d.expr(n.Lit)
		if err != nil {
			return ast.NoPatID, err
		}
		return d.builder.Pats.NewLit(span, expr), nil
	case "range":
		lo, err := d.optExpr(n.Lo)
		if err != nil {
			return ast.NoPatID, err
		}
		hi, err := d.optExpr(n.Hi)
		if err != nil {
			return ast.NoPatID, err
		}
		return d.builder.Pats.NewRange(span, lo, hi), nil
	case "slice":
		front, err := d.patList(n.Front)
		if err != nil {
			return ast.NoPatID, err
		}
		middle := ast.NoPatID
		if n.Middle != nil {
			id, err := d.pat(n.Middle)
			if err != nil {
				return ast.NoPatID, err
			}
			middle = id
		}
		back, err := d.patList(n.Back)
		if err != nil {
			return ast.NoPatID, err
		}
		return d.builder.Pats.NewSlice(span, front, middle, back), nil
	default:
		return ast.NoPatID, fmt.Errorf("fixture: unknown pat kind %q", n.Kind)
	}
}

func (d *decoder) patList(nodes []PatJSON) ([]ast.PatID, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]ast.PatID, 0, len(nodes))
	for i := range nodes {
		id, err := d.pat(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// Sub-pattern под bind в JSON не несёт собственного def: имя с @ всегда биндинг.
func (d *decoder) recordDef(id ast.PatID, def string) error {
	switch def {
	case "", "binding":
		d.defs.Record(id, symbols.DefBinding)
	case "const":
		d.defs.Record(id, symbols.DefConst)
	case "variant":
		d.defs.Record(id, symbols.DefVariant)
	default:
		return fmt.Errorf("fixture: unknown def kind %q", def)
	}
	return nil
}

func litKind(s string) (ast.ExprLitKind, error) {
	switch s {
	case "", "int":
		return ast.ExprLitInt, nil
	case "float":
		return ast.ExprLitFloat, nil
	case "str":
		return ast.ExprLitString, nil
	case "char":
		return ast.ExprLitChar, nil
	case "bool":
		return ast.ExprLitBool, nil
	default:
		return 0, fmt.Errorf("fixture: unknown literal kind %q", s)
	}
}

func unaryOp(s string) (ast.ExprUnaryOp, error) {
	switch s {
	case "neg":
		return ast.ExprUnaryNeg, nil
	case "not":
		return ast.ExprUnaryNot, nil
	case "deref":
		return ast.ExprUnaryDeref, nil
	default:
		return 0, fmt.Errorf("fixture: unknown unary op %q", s)
	}
}

func binaryOp(s string) (ast.ExprBinaryOp, error) {
	switch s {
	case "add":
		return ast.ExprBinaryAdd, nil
	case "sub":
		return ast.ExprBinarySub, nil
	case "mul":
		return ast.ExprBinaryMul, nil
	case "div":
		return ast.ExprBinaryDiv, nil
	case "mod":
		return ast.ExprBinaryMod, nil
	case "bitand":
		return ast.ExprBinaryBitAnd, nil
	case "bitor":
		return ast.ExprBinaryBitOr, nil
	case "bitxor":
		return ast.ExprBinaryBitXor, nil
	case "shl":
		return ast.ExprBinaryShiftLeft, nil
	case "shr":
		return ast.ExprBinaryShiftRight, nil
	case "and":
		return ast.ExprBinaryLogicalAnd, nil
	case "or":
		return ast.ExprBinaryLogicalOr, nil
	case "eq":
		return ast.ExprBinaryEq, nil
	case "ne":
		return ast.ExprBinaryNe, nil
	case "lt":
		return ast.ExprBinaryLt, nil
	case "le":
		return ast.ExprBinaryLe, nil
	case "gt":
		return ast.ExprBinaryGt, nil
	case "ge":
		return ast.ExprBinaryGe, nil
	default:
		return 0, fmt.Errorf("fixture: unknown binary op %q", s)
	}
}
