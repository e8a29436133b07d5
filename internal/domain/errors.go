package domain

import "fmt"

// NotFoundError indicates the referenced entity does not exist.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AuthorizationError indicates the actor lacks the role required for an
// operation or is outside the scope it targets.
type AuthorizationError struct {
	Reason string
}

func (e AuthorizationError) Error() string {
	return e.Reason
}

// ConflictError indicates the operation clashes with current state, such as
// an overlapping booking or an already-handled alarm.
type ConflictError struct {
	Reason string
}

func (e ConflictError) Error() string {
	return e.Reason
}

// TransitionError indicates the requested event is not allowed from the
// entity's current status.
type TransitionError struct {
	Kind    Kind
	Event   Event
	Current Status
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("%s: event %q not allowed from status %q", e.Kind, e.Event, e.Current)
}

// ValidationError indicates a request that is malformed at the domain level.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}
