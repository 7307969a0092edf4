package symbols

import (
	"drift/internal/ast"
	"drift/internal/source"
)

// PatBindings calls visit for every name the pattern binds, in left-to-right
// source order. Identifier patterns that the def table resolved to constants
// or unit variants are skipped.
func PatBindings(b *ast.Builder, defs *DefTable, pat ast.PatID, visit func(ast.PatID, source.StringID)) {
	node := b.Pats.Get(pat)
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.PatBind:
		data, _ := b.Pats.Bind(pat)
		if defs.IsBinding(pat) {
			visit(pat, data.Name)
		}
		if data.Sub.IsValid() {
			PatBindings(b, defs, data.Sub, visit)
		}
	case ast.PatWild, ast.PatPath, ast.PatLit, ast.PatRange:
		// no bindings
	case ast.PatTuple:
		data, _ := b.Pats.Tuple(pat)
		for _, sub := range data.Elems {
			PatBindings(b, defs, sub, visit)
		}
	case ast.PatTupleStruct:
		data, _ := b.Pats.TupleStruct(pat)
		for _, sub := range data.Elems {
			PatBindings(b, defs, sub, visit)
		}
	case ast.PatStruct:
		data, _ := b.Pats.Struct(pat)
		for _, field := range data.Fields {
			PatBindings(b, defs, field.Pat, visit)
		}
	case ast.PatRef:
		data, _ := b.Pats.Ref(pat)
		PatBindings(b, defs, data.Sub, visit)
	case ast.PatSlice:
		data, _ := b.Pats.Slice(pat)
		for _, sub := range data.Front {
			PatBindings(b, defs, sub, visit)
		}
		if data.Middle.IsValid() {
			PatBindings(b, defs, data.Middle, visit)
		}
		for _, sub := range data.Back {
			PatBindings(b, defs, sub, visit)
		}
	}
}
