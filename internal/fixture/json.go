package fixture

// SpanJSON is a [start, end) byte range in the fixture source.
type SpanJSON [2]uint32

// FileJSON представляет корневую структуру *.scopes.json файла.
type FileJSON struct {
	Name   string   `json:"name"`
	Path   string   `json:"path,omitempty"`
	Source string   `json:"source"`
	Fn     FnJSON   `json:"fn"`
	Mir    *MirJSON `json:"mir,omitempty"`
}

// FnJSON is the function declaration: parameters are patterns, one per
// argument, and the body is always a block statement.
type FnJSON struct {
	Name   string    `json:"name"`
	Span   SpanJSON  `json:"span"`
	Params []PatJSON `json:"params,omitempty"`
	Body   StmtJSON  `json:"body"`
}

// StmtJSON is one statement node. Kind selects which fields are read:
//
//	block: stmts, tail
//	let:   pat, init
//	expr:  expr
type StmtJSON struct {
	Kind  string     `json:"kind"`
	Span  SpanJSON   `json:"span"`
	Stmts []StmtJSON `json:"stmts,omitempty"`
	Tail  *ExprJSON  `json:"tail,omitempty"`
	Pat   *PatJSON   `json:"pat,omitempty"`
	Init  *ExprJSON  `json:"init,omitempty"`
	Expr  *ExprJSON  `json:"expr,omitempty"`
}

// ExprJSON is one expression node. Kind selects which fields are read.
type ExprJSON struct {
	Kind string   `json:"kind"`
	Span SpanJSON `json:"span"`

	Name  string `json:"name,omitempty"`  // ident, field, method_call
	Lit   string `json:"lit,omitempty"`   // lit: int, float, str, char, bool
	Value string `json:"value,omitempty"` // lit: source text of the value
	Op    string `json:"op,omitempty"`    // unary, binary, compound assign
	Type  string `json:"type,omitempty"`  // cast
	Mut   bool   `json:"mut,omitempty"`   // ref

	Expr      *ExprJSON  `json:"expr,omitempty"` // unary, cast, ref, field, index
	Left      *ExprJSON  `json:"left,omitempty"`
	Right     *ExprJSON  `json:"right,omitempty"`
	Dst       *ExprJSON  `json:"dst,omitempty"`
	Src       *ExprJSON  `json:"src,omitempty"`
	Index     *ExprJSON  `json:"index,omitempty"`
	Callee    *ExprJSON  `json:"callee,omitempty"`
	Recv      *ExprJSON  `json:"recv,omitempty"`
	Args      []ExprJSON `json:"args,omitempty"`
	Elems     []ExprJSON `json:"elems,omitempty"` // tuple, array
	Cond      *ExprJSON  `json:"cond,omitempty"`
	Then      *StmtJSON  `json:"then,omitempty"`
	Else      *ExprJSON  `json:"else,omitempty"`
	Body      *StmtJSON  `json:"body,omitempty"` // while, loop, block, closure
	Params    []PatJSON  `json:"params,omitempty"`
	Scrutinee *ExprJSON  `json:"scrutinee,omitempty"`
	Arms      []ArmJSON  `json:"arms,omitempty"`
}

// ArmJSON is one arm of a match expression.
type ArmJSON struct {
	Pats  []PatJSON `json:"pats"`
	Guard *ExprJSON `json:"guard,omitempty"`
	Body  ExprJSON  `json:"body"`
}

// PatJSON is one pattern node. Def overrides the default resolution of an
// identifier pattern: "binding" (the default), "const", or "variant".
type PatJSON struct {
	Kind string   `json:"kind"`
	Span SpanJSON `json:"span"`

	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
	Def  string `json:"def,omitempty"`
	Mut  bool   `json:"mut,omitempty"`

	Sub    *PatJSON       `json:"sub,omitempty"`
	Elems  []PatJSON      `json:"elems,omitempty"`
	Fields []PatFieldJSON `json:"fields,omitempty"`
	Lit    *ExprJSON      `json:"value,omitempty"`
	Lo     *ExprJSON      `json:"lo,omitempty"`
	Hi     *ExprJSON      `json:"hi,omitempty"`
	Front  []PatJSON      `json:"front,omitempty"`
	Middle *PatJSON       `json:"middle,omitempty"`
	Back   []PatJSON      `json:"back,omitempty"`
}

// PatFieldJSON is one `field: pattern` entry of a struct pattern.
type PatFieldJSON struct {
	Name string  `json:"name"`
	Pat  PatJSON `json:"pat"`
}

// MirJSON is the lowered scope tree of the fixture function. Scope and
// parent references are indexes into the scopes array; -1 means no parent.
type MirJSON struct {
	Scopes []MirScopeJSON `json:"scopes"`
	Locals []MirLocalJSON `json:"locals,omitempty"`
}

type MirScopeJSON struct {
	Parent int32    `json:"parent"`
	Span   SpanJSON `json:"span"`
}

type MirLocalJSON struct {
	Name  string   `json:"name"`
	Scope int32    `json:"scope"`
	Span  SpanJSON `json:"span"`
}
