package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"drift/internal/ast"
	"drift/internal/mir"
	"drift/internal/source"
	"drift/internal/symbols"
)

// Ext is the file suffix the loader recognizes.
const Ext = ".scopes.json"

// Fixture is one decoded function fixture, ready for scope resolution.
type Fixture struct {
	Name     string
	File     source.FileID
	Fn       ast.ItemID
	Builder  *ast.Builder
	Interner *source.Interner
	Defs     *symbols.DefTable
	Mir      *mir.Func
}

// Load reads and decodes one fixture file, registering its source text in
// fset under the fixture path.
func Load(fset *source.FileSet, path string) (*Fixture, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fx, err := Decode(fset, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if fx.Name == "" {
		fx.Name = strings.TrimSuffix(filepath.Base(path), Ext)
	}
	return fx, nil
}

// Decode builds a Fixture from raw JSON bytes.
func Decode(fset *source.FileSet, data []byte) (*Fixture, error) {
	var file FileJSON
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	if file.Fn.Name == "" {
		return nil, fmt.Errorf("fixture %q: fn has no name", file.Name)
	}

	path := file.Path
	if path == "" {
		path = file.Name + ".dr"
	}
	fileID := fset.AddVirtual(path, []byte(file.Source))

	d := &decoder{
		builder:  ast.NewBuilder(ast.Hints{}),
		interner: source.NewInterner(),
		defs:     symbols.NewDefTable(),
		file:     fileID,
	}

	params := make([]ast.PatID, 0, len(file.Fn.Params))
	for i := range file.Fn.Params {
		pat, err := d.pat(&file.Fn.Params[i])
		if err != nil {
			return nil, err
		}
		params = append(params, pat)
	}
	body, err := d.stmt(&file.Fn.Body)
	if err != nil {
		return nil, err
	}
	if st := d.builder.Stmts.Get(body); st == nil || st.Kind != ast.StmtBlock {
		return nil, fmt.Errorf("fixture %q: fn body must be a block", file.Name)
	}

	fnSpan := d.span(file.Fn.Span)
	fnItem := d.builder.Items.NewFn(d.interner.Intern(file.Fn.Name), params, body, fnSpan)

	fx := &Fixture{
		Name:     file.Name,
		File:     fileID,
		Fn:       fnItem,
		Builder:  d.builder,
		Interner: d.interner,
		Defs:     d.defs,
	}

	if file.Mir != nil {
		fn, err := decodeMir(file.Fn.Name, fileID, fnSpan, file.Mir)
		if err != nil {
			return nil, fmt.Errorf("fixture %q: %w", file.Name, err)
		}
		fx.Mir = fn
	}
	return fx, nil
}

func decodeMir(name string, file source.FileID, fnSpan source.Span, m *MirJSON) (*mir.Func, error) {
	fn := &mir.Func{
		ID:     0,
		Name:   name,
		Span:   fnSpan,
		Scopes: make([]mir.SourceScope, 0, len(m.Scopes)),
		Locals: make([]mir.Local, 0, len(m.Locals)),
	}
	for _, s := range m.Scopes {
		fn.Scopes = append(fn.Scopes, mir.SourceScope{
			Parent: mir.ScopeID(s.Parent),
			Span:   source.Span{File: file, Start: s.Span[0], End: s.Span[1]},
		})
	}
	for _, l := range m.Locals {
		fn.Locals = append(fn.Locals, mir.Local{
			Name:  l.Name,
			Scope: mir.ScopeID(l.Scope),
			Span:  source.Span{File: file, Start: l.Span[0], End: l.Span[1]},
		})
	}
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	return fn, nil
}
