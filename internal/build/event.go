package build

// EventKind identifies a build event
type EventKind int

const (
	// EventStarted is sent once the pages to build are known
	EventStarted EventKind = iota
	// EventPage is sent after each page
	EventPage
	// EventDone is sent when the build has finished
	EventDone
)

// Status is the outcome for a single page
type Status int

const (
	StatusFailed Status = iota
	StatusWritten
	StatusUnchanged
	StatusDiff
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusUnchanged:
		return "unchanged"
	case StatusDiff:
		return "diff"
	default:
		return "failed"
	}
}

// Event reports build progress
type Event struct {
	Kind   EventKind
	Title  string
	Path   string
	Status Status
	Err    error
	Done   int
	Total  int
}
