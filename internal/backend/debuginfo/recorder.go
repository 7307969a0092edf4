package debuginfo

import (
	"fmt"

	"fortio.org/safecast"

	"drift/internal/source"
)

// ScopeRecordKind tells a function root apart from a lexical block.
type ScopeRecordKind uint8

const (
	ScopeRecordFunction ScopeRecordKind = iota
	ScopeRecordLexical
)

// ScopeRecord is the materialized form of one created scope.
type ScopeRecord struct {
	Kind   ScopeRecordKind
	Parent ScopeRef // NoScopeRef for function scopes
	File   source.FileID
	Line   uint32
	Col    uint32
}

// Recorder is an in-memory Builder. It stands in for an object-format
// writer in tests and in the scope inspection tooling: every created scope
// becomes a record addressable by its ScopeRef. Not goroutine-safe; use one
// Recorder per in-flight function resolution.
type Recorder struct {
	records []ScopeRecord
}

func NewRecorder() *Recorder {
	return &Recorder{records: make([]ScopeRecord, 0, 16)}
}

// RestoreRecorder rebuilds a Recorder from previously materialized records,
// preserving their refs. Used by the disk cache.
func RestoreRecorder(records []ScopeRecord) *Recorder {
	return &Recorder{records: records}
}

func (r *Recorder) alloc(rec ScopeRecord) ScopeRef {
	lenRecords, err := safecast.Conv[uint32](len(r.records))
	if err != nil {
		panic(fmt.Errorf("scope record overflow: %w", err))
	}
	r.records = append(r.records, rec)
	return ScopeRef(lenRecords + 1)
}

// CreateFunctionScope creates the root scope of a function.
func (r *Recorder) CreateFunctionScope(file source.FileID, line uint32) ScopeRef {
	return r.alloc(ScopeRecord{
		Kind:   ScopeRecordFunction,
		Parent: NoScopeRef,
		File:   file,
		Line:   line,
		Col:    1,
	})
}

// CreateLexicalScope creates a child scope at the given position.
func (r *Recorder) CreateLexicalScope(parent ScopeRef, file source.FileID, line, col uint32) ScopeRef {
	return r.alloc(ScopeRecord{
		Kind:   ScopeRecordLexical,
		Parent: parent,
		File:   file,
		Line:   line,
		Col:    col,
	})
}

// Get returns the record behind ref, or nil for NoScopeRef or foreign refs.
func (r *Recorder) Get(ref ScopeRef) *ScopeRecord {
	if !ref.IsValid() || int(ref) > len(r.records) {
		return nil
	}
	return &r.records[ref-1]
}

// Len returns the number of scopes created so far.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Records returns all created records in creation order.
// Не модифицируйте возвращаемый срез.
func (r *Recorder) Records() []ScopeRecord {
	return r.records
}

// Children returns the refs whose parent is ref, in creation order.
func (r *Recorder) Children(ref ScopeRef) []ScopeRef {
	var out []ScopeRef
	for i := range r.records {
		if r.records[i].Parent == ref {
			out = append(out, ScopeRef(i+1))
		}
	}
	return out
}

// Roots returns all function scopes, in creation order.
func (r *Recorder) Roots() []ScopeRef {
	var out []ScopeRef
	for i := range r.records {
		if r.records[i].Kind == ScopeRecordFunction {
			out = append(out, ScopeRef(i+1))
		}
	}
	return out
}
