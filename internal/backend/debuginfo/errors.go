package debuginfo

import (
	"fmt"

	"drift/internal/source"
)

// InconsistencyError signals a broken invariant in scope management: the
// scope stack did not unwind to the scope that was opened. It aborts debug
// info for the current function; continuing would record wrong scopes.
type InconsistencyError struct {
	Span source.Span
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("debuginfo: inconsistency in scope management at %s", e.Span)
}

// MissingMirError signals that a function expected to carry MIR scope data
// has none.
type MissingMirError struct {
	Func string
}

func (e *MissingMirError) Error() string {
	return fmt.Sprintf("debuginfo: missing MIR scope data for %s", e.Func)
}
