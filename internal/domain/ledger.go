package domain

import "time"

// StatusLogEntry is one append-only row in the status ledger. Every status
// change writes an entry in the same transaction as the entity update, so
// the ledger is a complete audit trail for each entity.
type StatusLogEntry struct {
	ID         int64
	EntityKind Kind
	EntityID   string
	Status     Status
	Message    string
	ActorID    string
	CreatedAt  time.Time
}

// NewLogEntry builds the ledger row for a status change performed by actor.
func NewLogEntry(kind Kind, entityID string, status Status, message, actorID string) StatusLogEntry {
	return StatusLogEntry{
		EntityKind: kind,
		EntityID:   entityID,
		Status:     status,
		Message:    message,
		ActorID:    actorID,
		CreatedAt:  time.Now().UTC(),
	}
}
