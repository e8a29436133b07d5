package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/courtyardhq/courtyard/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// events holds the looplab/fsm EventDesc table per entity kind, built once
// from domain.Transitions. Transitions sharing an event+destination are
// consolidated into a single EventDesc with multiple source states (e.g.
// EventAllowEntry from "approved" and "pre_approved" both reach
// "allowed_entry").
var events = buildEvents()

func buildEvents() map[domain.Kind][]loopfsm.EventDesc {
	out := make(map[domain.Kind][]loopfsm.EventDesc, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		out[kind] = buildKindEvents(domain.TransitionsFor(kind))
	}
	return out
}

func buildKindEvents(table []domain.Transition) []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range table {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Validator implements domain.TransitionValidator using looplab/fsm.
// It creates a short-lived FSM instance per Apply call, initialized with
// the entity's current state. This is necessary because looplab/fsm is
// stateful (it tracks the current state internally).
type Validator struct{}

// New creates a new FSM-backed transition validator.
func New() *Validator {
	return &Validator{}
}

// Apply checks if the given event is valid from the current status for the
// kind's machine and returns the destination status. Returns a
// domain.TransitionError if the transition is not allowed.
func (v *Validator) Apply(ctx context.Context, kind domain.Kind, current domain.Status, event domain.Event) (domain.Status, error) {
	table, ok := events[kind]
	if !ok {
		return "", domain.ValidationError{Reason: "unknown entity kind " + string(kind)}
	}
	machine := loopfsm.NewFSM(string(current), table, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", domain.TransitionError{
				Kind:    kind,
				Event:   event,
				Current: current,
			}
		}
		return "", err
	}

	return domain.Status(machine.Current()), nil
}
