package mir

import (
	"drift/internal/source"
)

type FuncID int32
type ScopeID int32
type LocalID int32

const (
	NoFuncID  FuncID  = -1
	NoScopeID ScopeID = -1
	NoLocalID LocalID = -1
)

func (id ScopeID) IsValid() bool { return id != NoScopeID }
func (id LocalID) IsValid() bool { return id != NoLocalID }

// SourceScope is one record of the lowered scope tree. Records with
// Parent == NoScopeID are roots; in practice there is exactly one, the
// function itself.
type SourceScope struct {
	Parent ScopeID
	Span   source.Span
}

// Local is a user-visible variable owned by one source scope.
type Local struct {
	Name  string
	Scope ScopeID
	Span  source.Span
}
