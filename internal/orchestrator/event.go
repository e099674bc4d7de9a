package orchestrator

// EventKind classifies progress events.
type EventKind int

const (
	// PhaseStarted is sent before a phase scans.
	PhaseStarted EventKind = iota
	// PhaseFinished is sent after a phase scanned or was served from cache.
	PhaseFinished
	// PhaseUnknown is sent for a requested name that is not a phase.
	PhaseUnknown
	// Merged is sent once the report is written.
	Merged
)

func (k EventKind) String() string {
	switch k {
	case PhaseStarted:
		return "started"
	case PhaseFinished:
		return "finished"
	case PhaseUnknown:
		return "unknown"
	case Merged:
		return "merged"
	}
	return "invalid"
}

// Event reports scan progress.
type Event struct {
	Kind     EventKind
	Phase    string
	Index    int // position among the phases being run
	Total    int
	Findings int
	Cached   bool
}

// Observer receives progress events. It is called synchronously from the
// scanning goroutine and must not block.
type Observer func(Event)
