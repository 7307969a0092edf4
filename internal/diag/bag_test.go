package diag

import (
	"testing"

	"drift/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	sp := source.Span{File: 0, Start: 0, End: 1}
	if !b.Add(NewError(DbgScopeInconsistency, sp, "one")) {
		t.Fatal("first Add rejected")
	}
	if !b.Add(NewError(DbgScopeInconsistency, sp, "two")) {
		t.Fatal("second Add rejected")
	}
	if b.Add(NewError(DbgScopeInconsistency, sp, "three")) {
		t.Fatal("Add over the limit accepted")
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
	if !b.HasErrors() {
		t.Error("HasErrors = false with errors present")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(8)
	b.Add(New(SevWarning, MirBadScope, source.Span{File: 1, Start: 5, End: 6}, "w"))
	b.Add(New(SevError, DbgScopeInconsistency, source.Span{File: 0, Start: 9, End: 10}, "e"))
	b.Add(New(SevError, DbgMissingMir, source.Span{File: 0, Start: 2, End: 4}, "m"))
	b.Sort()

	items := b.Items()
	if items[0].Code != DbgMissingMir || items[1].Code != DbgScopeInconsistency || items[2].Code != MirBadScope {
		t.Errorf("unexpected order: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
}
