package mir

import (
	"fmt"
)

// BadScopeError reports a scope record whose parent link is out of range or
// does not precede it in the table.
type BadScopeError struct {
	Func   string
	Scope  ScopeID
	Parent ScopeID
}

func (e *BadScopeError) Error() string {
	return fmt.Sprintf("mir: %s: scope %d has invalid parent %d", e.Func, e.Scope, e.Parent)
}

// BadLocalError reports a local whose owning scope does not exist.
type BadLocalError struct {
	Func  string
	Local LocalID
	Scope ScopeID
}

func (e *BadLocalError) Error() string {
	return fmt.Sprintf("mir: %s: local %d owned by invalid scope %d", e.Func, e.Local, e.Scope)
}
