package domain

import "testing"

func TestTransitionsForCoversEveryKind(t *testing.T) {
	for _, kind := range Kinds {
		if len(TransitionsFor(kind)) == 0 {
			t.Errorf("no transitions registered for kind %q", kind)
		}
	}
	if got := TransitionsFor(Kind("unknown")); got != nil {
		t.Errorf("TransitionsFor(unknown) = %v, want nil", got)
	}
}

func TestValidKind(t *testing.T) {
	if !ValidKind(KindVisitor) {
		t.Error("visitor should be a valid kind")
	}
	if ValidKind(Kind("lift")) {
		t.Error("lift should not be a valid kind")
	}
}

func TestVisitorTransitionsShape(t *testing.T) {
	tests := []struct {
		event Event
		src   Status
		dst   Status
	}{
		{EventApprove, VisitorPendingApproval, VisitorApproved},
		{EventAllowEntry, VisitorPreApproved, VisitorAllowedEntry},
		{EventMarkExit, VisitorAllowedEntry, VisitorExited},
		{EventCollectParcel, VisitorReceivedAtGate, VisitorCollected},
	}

	for _, tt := range tests {
		if !hasTransition(visitorTransitions, tt.event, tt.src, tt.dst) {
			t.Errorf("missing visitor transition %s: %s -> %s", tt.event, tt.src, tt.dst)
		}
	}
	if hasTransition(visitorTransitions, EventApprove, VisitorDenied, VisitorApproved) {
		t.Error("denied visitors must not be approvable")
	}
}

func TestSosTransitionsShape(t *testing.T) {
	if !hasTransition(sosTransitions, EventResolve, SosCreated, SosResolved) {
		t.Error("sos must resolve directly from created")
	}
	if hasTransition(sosTransitions, EventAcknowledge, SosResolved, SosAcknowledged) {
		t.Error("resolved sos must not be re-acknowledged")
	}
}

func hasTransition(table []Transition, event Event, src, dst Status) bool {
	for _, tr := range table {
		if tr.Event == event && tr.Src == src && tr.Dst == dst {
			return true
		}
	}
	return false
}
