package domain

// Kind identifies the workflow entity family a status or ledger entry
// belongs to.
type Kind string

const (
	KindVisitor         Kind = "visitor"
	KindSos             Kind = "sos"
	KindComplaint       Kind = "complaint"
	KindBooking         Kind = "booking"
	KindServiceProvider Kind = "service_provider"
)

// Kinds lists every workflow family the engine manages.
var Kinds = []Kind{KindVisitor, KindSos, KindComplaint, KindBooking, KindServiceProvider}

func ValidKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Status is an entity lifecycle state.
type Status string

// Event is a named lifecycle transition trigger.
type Event string

// Transition moves an entity from Src to Dst when Event fires.
type Transition struct {
	Event Event
	Src   Status
	Dst   Status
}

// Transitions is the full transition table per kind. The fsm adapter builds
// its machines from this table, so the domain stays the single source of
// truth for what moves are legal.
var Transitions = map[Kind][]Transition{
	KindVisitor:         visitorTransitions,
	KindSos:             sosTransitions,
	KindComplaint:       complaintTransitions,
	KindBooking:         bookingTransitions,
	KindServiceProvider: assignmentTransitions,
}

// TransitionsFor returns the transition table for kind, nil for unknown kinds.
func TransitionsFor(kind Kind) []Transition {
	return Transitions[kind]
}
