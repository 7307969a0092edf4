package ast

import (
	"drift/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// FnItem is a function declaration. Params are patterns, one per argument.
type FnItem struct {
	Name   source.StringID
	Params []PatID
	Body   StmtID // always a StmtBlock
	Span   source.Span
}

// Items manages allocation of top-level items.
type Items struct {
	Arena *Arena[Item]
	Fns   *Arena[FnItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena: NewArena[Item](capHint),
		Fns:   NewArena[FnItem](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// NewFn creates a new function item.
func (i *Items) NewFn(name source.StringID, params []PatID, body StmtID, span source.Span) ItemID {
	payload := i.Fns.Allocate(FnItem{
		Name:   name,
		Params: params,
		Body:   body,
		Span:   span,
	})
	return ItemID(i.Arena.Allocate(Item{
		Kind:    ItemFn,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Fn returns the function data for the given item ID.
func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}
