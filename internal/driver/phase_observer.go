package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a phase boundary for one fixture.
type PhaseEvent struct {
	Path    string
	Phase   string // "load", "walk", "resolve"
	Index   int    // fixture index within the run
	Total   int    // total fixtures in the run
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during resolution.
// It may be called from multiple goroutines.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
