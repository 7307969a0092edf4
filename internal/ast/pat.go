package ast

import (
	"drift/internal/source"
)

// PatKind enumerates the pattern forms.
type PatKind uint8

const (
	// PatBind is an identifier pattern. Whether it actually binds a name (as
	// opposed to matching a unit variant or constant) is decided by the
	// definition table, not by syntax.
	PatBind PatKind = iota
	// PatWild is `_`.
	PatWild
	// PatPath matches a constant or unit variant by path.
	PatPath
	PatTuple
	// PatTupleStruct is `Variant(p1, p2, ...)`.
	PatTupleStruct
	// PatStruct is `Type { field: p, ... }`.
	PatStruct
	// PatRef is `&p` / `&mut p`.
	PatRef
	// PatLit matches a literal expression.
	PatLit
	// PatRange is `lo..hi`.
	PatRange
	// PatSlice is `[a, b, mid @ .., y, z]`.
	PatSlice
)

type Pat struct {
	Kind    PatKind
	Span    source.Span
	Payload PayloadID
}

type PatBindData struct {
	Name source.StringID
	Sub  PatID // NoPatID unless the binding has an @-subpattern
}

type PatPathData struct {
	Path source.StringID
}

type PatTupleData struct {
	Elems []PatID
}

type PatTupleStructData struct {
	Path  source.StringID
	Elems []PatID
}

// PatFieldData is one `field: pattern` entry of a struct pattern.
type PatFieldData struct {
	Name source.StringID
	Pat  PatID
}

type PatStructData struct {
	Path   source.StringID
	Fields []PatFieldData
}

type PatRefData struct {
	Sub PatID
	Mut bool
}

type PatLitData struct {
	Expr ExprID
}

type PatRangeData struct {
	Lo ExprID
	Hi ExprID
}

// PatSliceData: Middle is the optional rest pattern between Front and Back.
type PatSliceData struct {
	Front  []PatID
	Middle PatID // NoPatID if absent
	Back   []PatID
}

// Pats manages allocation of patterns.
type Pats struct {
	Arena        *Arena[Pat]
	Binds        *Arena[PatBindData]
	Paths        *Arena[PatPathData]
	Tuples       *Arena[PatTupleData]
	TupleStructs *Arena[PatTupleStructData]
	Structs      *Arena[PatStructData]
	Refs         *Arena[PatRefData]
	Lits         *Arena[PatLitData]
	Ranges       *Arena[PatRangeData]
	Slices       *Arena[PatSliceData]
}

func NewPats(capHint uint) *Pats {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Pats{
		Arena:        NewArena[Pat](capHint),
		Binds:        NewArena[PatBindData](capHint),
		Paths:        NewArena[PatPathData](capHint),
		Tuples:       NewArena[PatTupleData](capHint),
		TupleStructs: NewArena[PatTupleStructData](capHint),
		Structs:      NewArena[PatStructData](capHint),
		Refs:         NewArena[PatRefData](capHint),
		Lits:         NewArena[PatLitData](capHint),
		Ranges:       NewArena[PatRangeData](capHint),
		Slices:       NewArena[PatSliceData](capHint),
	}
}

func (p *Pats) new(kind PatKind, span source.Span, payload PayloadID) PatID {
	return PatID(p.Arena.Allocate(Pat{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (p *Pats) Get(id PatID) *Pat {
	return p.Arena.Get(uint32(id))
}

// NewBind creates a new identifier pattern.
func (p *Pats) NewBind(span source.Span, name source.StringID, sub PatID) PatID {
	payload := p.Binds.Allocate(PatBindData{Name: name, Sub: sub})
	return p.new(PatBind, span, PayloadID(payload))
}

func (p *Pats) Bind(id PatID) (*PatBindData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatBind {
		return nil, false
	}
	return p.Binds.Get(uint32(pat.Payload)), true
}

// NewWild creates a new wildcard pattern.
func (p *Pats) NewWild(span source.Span) PatID {
	return p.new(PatWild, span, NoPayloadID)
}

// NewPath creates a new path pattern.
func (p *Pats) NewPath(span source.Span, path source.StringID) PatID {
	payload := p.Paths.Allocate(PatPathData{Path: path})
	return p.new(PatPath, span, PayloadID(payload))
}

func (p *Pats) Path(id PatID) (*PatPathData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatPath {
		return nil, false
	}
	return p.Paths.Get(uint32(pat.Payload)), true
}

// NewTuple creates a new tuple pattern.
func (p *Pats) NewTuple(span source.Span, elems []PatID) PatID {
	payload := p.Tuples.Allocate(PatTupleData{Elems: elems})
	return p.new(PatTuple, span, PayloadID(payload))
}

func (p *Pats) Tuple(id PatID) (*PatTupleData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatTuple {
		return nil, false
	}
	return p.Tuples.Get(uint32(pat.Payload)), true
}

// NewTupleStruct creates a new tuple-struct pattern.
func (p *Pats) NewTupleStruct(span source.Span, path source.StringID, elems []PatID) PatID {
	payload := p.TupleStructs.Allocate(PatTupleStructData{Path: path, Elems: elems})
	return p.new(PatTupleStruct, span, PayloadID(payload))
}

func (p *Pats) TupleStruct(id PatID) (*PatTupleStructData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatTupleStruct {
		return nil, false
	}
	return p.TupleStructs.Get(uint32(pat.Payload)), true
}

// NewStruct creates a new struct pattern.
func (p *Pats) NewStruct(span source.Span, path source.StringID, fields []PatFieldData) PatID {
	payload := p.Structs.Allocate(PatStructData{Path: path, Fields: fields})
	return p.new(PatStruct, span, PayloadID(payload))
}

func (p *Pats) Struct(id PatID) (*PatStructData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatStruct {
		return nil, false
	}
	return p.Structs.Get(uint32(pat.Payload)), true
}

// NewRef creates a new reference pattern.
func (p *Pats) NewRef(span source.Span, sub PatID, mut bool) PatID {
	payload := p.Refs.Allocate(PatRefData{Sub: sub, Mut: mut})
	return p.new(PatRef, span, PayloadID(payload))
}

func (p *Pats) Ref(id PatID) (*PatRefData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatRef {
		return nil, false
	}
	return p.Refs.Get(uint32(pat.Payload)), true
}

// NewLit creates a new literal pattern.
func (p *Pats) NewLit(span source.Span, expr ExprID) PatID {
	payload := p.Lits.Allocate(PatLitData{Expr: expr})
	return p.new(PatLit, span, PayloadID(payload))
}

func (p *Pats) Lit(id PatID) (*PatLitData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatLit {
		return nil, false
	}
	return p.Lits.Get(uint32(pat.Payload)), true
}

// NewRange creates a new range pattern.
func (p *Pats) NewRange(span source.Span, lo, hi ExprID) PatID {
	payload := p.Ranges.Allocate(PatRangeData{Lo: lo, Hi: hi})
	return p.new(PatRange, span, PayloadID(payload))
}

func (p *Pats) Range(id PatID) (*PatRangeData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatRange {
		return nil, false
	}
	return p.Ranges.Get(uint32(pat.Payload)), true
}

// NewSlice creates a new slice pattern.
func (p *Pats) NewSlice(span source.Span, front []PatID, middle PatID, back []PatID) PatID {
	payload := p.Slices.Allocate(PatSliceData{Front: front, Middle: middle, Back: back})
	return p.new(PatSlice, span, PayloadID(payload))
}

func (p *Pats) Slice(id PatID) (*PatSliceData, bool) {
	pat := p.Get(id)
	if pat == nil || pat.Kind != PatSlice {
		return nil, false
	}
	return p.Slices.Get(uint32(pat.Payload)), true
}
